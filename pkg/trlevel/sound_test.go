package trlevel

import (
	"bytes"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestSplitTR1Samples(t *testing.T) {
	l := &Level{
		format:        Format{Version: Tomb1},
		soundData:     []byte("aaaabbcccccc"),
		sampleIndices: []uint32{6, 0, 4, 4},
	}
	d := &decoder{level: l}
	if err := d.splitTR1Samples(); err != nil {
		t.Fatalf("splitTR1Samples failed: %v", err)
	}

	want := []string{"cccccc", "aaaa", "bb", "bb"}
	for i, w := range want {
		if got := string(l.samples[i].Data); got != w {
			t.Errorf("sample %d: expected %q, got %q", i, w, got)
		}
	}
}

func TestSplitTR1Samples_OutOfRange(t *testing.T) {
	l := &Level{soundData: []byte("abc"), sampleIndices: []uint32{9}}
	d := &decoder{level: l}
	if err := d.splitTR1Samples(); !errors.Is(err, ErrUnsupportedSection) {
		t.Fatalf("expected ErrUnsupportedSection, got %v", err)
	}
}

func TestSoundSamples(t *testing.T) {
	b := &levelBuilder{}
	b.u32(2)
	b.compressed(t, []byte("RIFF1"))
	b.compressed(t, []byte("RIFF22"))

	l := &Level{}
	d := &decoder{r: NewReader(b.bytes()), log: zap.NewNop(), level: l}
	if err := d.soundSamples().fn(); err != nil {
		t.Fatalf("soundSamples failed: %v", err)
	}
	if len(l.samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(l.samples))
	}
	if l.samples[1].UncompressedSize != 6 || l.samples[1].External {
		t.Errorf("unexpected sample %+v", l.samples[1])
	}
	if !d.r.EOF() {
		t.Error("expected the sample block to be consumed")
	}
}

func TestSoundSamples_NGLE(t *testing.T) {
	b := &levelBuilder{}
	b.u32(2)
	b.u32(0).u32(100)
	b.u32(100).u32(50)
	b.u16(ngleMarker)

	l := &Level{}
	d := &decoder{r: NewReader(b.bytes()), log: zap.NewNop(), level: l}
	if err := d.soundSamples().fn(); err != nil {
		t.Fatalf("soundSamples failed: %v", err)
	}
	if len(l.samples) != 2 || !l.samples[1].External || l.samples[1].Start != 100 || l.samples[1].Size != 50 {
		t.Errorf("unexpected samples %+v", l.samples)
	}
}

func TestSoundSamples_Absent(t *testing.T) {
	l := &Level{}
	d := &decoder{r: NewReader(nil), log: zap.NewNop(), level: l}
	if err := d.soundSamples().fn(); err != nil {
		t.Fatalf("expected no error at end of data, got %v", err)
	}
	if l.samples != nil {
		t.Error("expected no samples")
	}
}

func TestLevel_SamplesForSound(t *testing.T) {
	samples := []SoundSample{{Data: []byte("0")}, {Data: []byte("1")}, {Data: []byte("2")}}
	details := []SoundDetails{{Sample: 1, Characteristics: 2 << 2}}

	tests := []struct {
		name    string
		version LevelVersion
		indices []uint32
		want    []string
	}{
		{"tr1 direct", Tomb1, nil, []string{"1", "2"}},
		{"tr4 through indices", Tomb4, []uint32{2, 0, 1}, []string{"0", "1"}},
		{"tr2 external", Tomb2, []uint32{0, 1, 2}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := &Level{
				format:        Format{Version: tc.version},
				soundMap:      []int16{-1, 0},
				soundDetails:  details,
				sampleIndices: tc.indices,
				samples:       samples,
			}
			got := l.SamplesForSound(1)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d samples, got %d", len(tc.want), len(got))
			}
			for i, w := range tc.want {
				if !bytes.Equal(got[i].Data, []byte(w)) {
					t.Errorf("sample %d: expected %q, got %q", i, w, got[i].Data)
				}
			}
			if l.SamplesForSound(0) != nil {
				t.Error("unmapped sound should have no samples")
			}
		})
	}
}

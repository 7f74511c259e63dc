package trlevel

import (
	"fmt"
	"slices"
)

// ngleMarker is "NG" read as a little-endian word. Levels rebuilt by the
// NGLE tools put it after the sample table, whose entries then point into
// MAIN.SFX instead of carrying the sample bytes.
const ngleMarker = 0x474E

// SoundSample is one playable sample. Embedded samples carry their WAV
// bytes in Data; NGLE samples only locate a range of MAIN.SFX.
type SoundSample struct {
	Data             []byte
	UncompressedSize uint32

	External bool
	Start    uint32
	Size     uint32
}

type ngleSample struct {
	Start uint32
	Size  uint32
}

// soundSamples reads the trailing TR4/TR5 sample block. A level that ends
// before the block simply has no samples.
func (d *decoder) soundSamples() step {
	return section("sound samples", func() error {
		r := d.r
		if r.EOF() {
			return nil
		}
		count, err := r.PeekU32()
		if err != nil {
			return err
		}

		if d.isNGLE(count) {
			if err := r.Skip(4); err != nil {
				return err
			}
			entries, err := ReadVector[ngleSample](r, int(count))
			if err != nil {
				return err
			}
			d.level.samples = convertAll(entries, func(s ngleSample) SoundSample {
				return SoundSample{External: true, Start: s.Start, Size: s.Size}
			})
			d.log.Debug("NGLE sample table")
			return r.Skip(2)
		}

		if err := r.Skip(4); err != nil {
			return err
		}
		if uint64(count)*8 > uint64(r.Remaining()) {
			return fmt.Errorf("%w: %d samples in %d bytes", ErrOutOfData, count, r.Remaining())
		}
		samples := make([]SoundSample, 0, count)
		for i := 0; i < int(count); i++ {
			b, err := r.readCompressedBlock()
			if err != nil {
				return fmt.Errorf("sample %d: %w", i, err)
			}
			samples = append(samples, SoundSample{Data: b.Data, UncompressedSize: b.UncompressedSize})
		}
		d.level.samples = samples
		return nil
	})
}

func (d *decoder) isNGLE(count uint32) bool {
	at := 4 + 8*uint64(count)
	if at+2 > uint64(d.r.Remaining()) {
		return false
	}
	b, err := d.r.Peek(int(at) + 2)
	if err != nil {
		return false
	}
	return uint16(b[at])|uint16(b[at+1])<<8 == ngleMarker
}

// splitTR1Samples cuts the TR1 sound data at the sample index offsets. Each
// sample runs to the next larger offset or the end of the data.
func (d *decoder) splitTR1Samples() error {
	l := d.level
	if len(l.sampleIndices) == 0 {
		return nil
	}
	bounds := slices.Clone(l.sampleIndices)
	slices.Sort(bounds)
	bounds = slices.Compact(bounds)

	samples := make([]SoundSample, len(l.sampleIndices))
	for i, start := range l.sampleIndices {
		if int(start) > len(l.soundData) {
			return fmt.Errorf("%w: sample %d starts at %d of %d bytes", ErrUnsupportedSection, i, start, len(l.soundData))
		}
		end := uint32(len(l.soundData))
		if j, found := slices.BinarySearch(bounds, start); found && j+1 < len(bounds) {
			end = bounds[j+1]
		}
		data := l.soundData[start:end]
		samples[i] = SoundSample{Data: data, UncompressedSize: uint32(len(data))}
	}
	l.samples = samples
	return nil
}

// SamplesForSound resolves a sound id through the sound map and details to
// the samples it may play. PC TR2 and TR3 keep their samples outside the
// level and return none. PlayStation samples are indexed directly.
func (l *Level) SamplesForSound(soundID int) []SoundSample {
	if soundID < 0 || soundID >= len(l.soundMap) {
		return nil
	}
	detail := int(l.soundMap[soundID])
	if detail < 0 || detail >= len(l.soundDetails) {
		return nil
	}
	sd := l.soundDetails[detail]

	var out []SoundSample
	for k := int(sd.Sample); k < int(sd.Sample)+sd.NumSamples(); k++ {
		switch v := l.format.Version; {
		case v == Tomb1 || l.format.Platform == PlayStation:
			if k < len(l.samples) {
				out = append(out, l.samples[k])
			}
		case v == Tomb4 || v == Tomb5:
			if k < len(l.sampleIndices) && int(l.sampleIndices[k]) < len(l.samples) {
				out = append(out, l.samples[l.sampleIndices[k]])
			}
		}
	}
	return out
}

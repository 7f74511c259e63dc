package trlevel

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"
)

// PlayStation sound is stored as VAG ADPCM, either in a VAB bank at the
// start of the file (TR1 to TR3) or as a sample table located by the level
// header (TR4 and TR5). Samples are converted to 16-bit mono WAV so they
// play the same way as PC samples.

const vabMagic = 0x56414270 // "pBAV"

type vabHeader struct {
	Magic     uint32
	Version   uint32
	ID        uint32
	Size      uint32
	Reserved0 uint16
	Programs  uint16
	Tones     uint16
	VAGs      uint16
	Volume    uint8
	Pan       uint8
	Attr1     uint8
	Attr2     uint8
	Reserved1 uint32
}

const (
	vabProgramSize   = 16
	vabMaxPrograms   = 128
	vabTonesPerProg  = 16
	vabToneSize      = 32
	vabVAGTableCount = 256
)

// soundBankEnd returns the offset just past the sound bank that opens a TR1
// or TR2 PlayStation level. The bank is a header size, the header, a body
// size and the body. A zero header size leaves only the body; any other
// value without a VAB header means the level has no bank at all.
func soundBankEnd(r *Reader) (int, error) {
	if err := r.SetPosition(0); err != nil {
		return 0, err
	}
	headerSize, err := r.U32()
	if err != nil {
		return 0, err
	}
	if headerSize != 0 {
		magic, err := r.PeekU32()
		if err != nil || magic != vabMagic {
			return 0, nil
		}
		if err := r.Skip(int(headerSize)); err != nil {
			return 0, err
		}
	}
	bodySize, err := r.U32()
	if err != nil {
		return 0, err
	}
	if err := r.Skip(int(bodySize)); err != nil {
		return 0, err
	}
	return r.Position(), nil
}

// psxSoundBank reads the sound bank at the reader position and leaves the
// reader after it. Samples are decoded at rate.
func (d *decoder) psxSoundBank(rate uint32) step {
	return section("sound bank", func() error {
		r := d.r
		headerSize, err := r.U32()
		if err != nil {
			return err
		}
		if headerSize == 0 {
			size, err := r.U32()
			if err != nil {
				return err
			}
			return r.Skip(int(size))
		}
		if magic, err := r.PeekU32(); err != nil || magic != vabMagic {
			// Sounds live outside the level file.
			d.log.Debug("no sound bank")
			return r.SetPosition(r.Position() - 4)
		}
		header, err := r.Bytes(int(headerSize))
		if err != nil {
			return err
		}
		bodySize, err := r.U32()
		if err != nil {
			return err
		}
		body, err := r.Bytes(int(bodySize))
		if err != nil {
			return err
		}
		sizes, err := vagSizes(header)
		if err != nil {
			return err
		}
		d.level.samples = splitVAGs(body, sizes, rate)
		d.log.Debug("sound bank", zap.Int("samples", len(d.level.samples)))
		return nil
	})
}

// vagSizes returns the byte size of each VAG in the bank body.
func vagSizes(header []byte) ([]int, error) {
	r := NewReader(header)
	var h vabHeader
	if err := r.Read(&h); err != nil {
		return nil, err
	}
	if h.VAGs >= vabVAGTableCount {
		return nil, fmt.Errorf("%w: %d VAGs in sound bank", ErrUnsupportedSection, h.VAGs)
	}
	skip := vabMaxPrograms*vabProgramSize + int(h.Programs)*vabTonesPerProg*vabToneSize
	if err := r.Skip(skip); err != nil {
		return nil, fmt.Errorf("sound bank programs: %w", err)
	}
	table, err := ReadVector[uint16](r, vabVAGTableCount)
	if err != nil {
		return nil, fmt.Errorf("sound bank VAG table: %w", err)
	}
	sizes := make([]int, h.VAGs)
	for i := range sizes {
		// Entry 0 is reserved.
		sizes[i] = int(table[i+1]) << 3
	}
	return sizes, nil
}

// splitVAGs cuts body into samples. A size that runs past the body is
// clamped to it.
func splitVAGs(body []byte, sizes []int, rate uint32) []SoundSample {
	out := make([]SoundSample, 0, len(sizes))
	at := 0
	for _, size := range sizes {
		end := min(at+size, len(body))
		out = append(out, vagSample(body[at:end], rate))
		at = end
	}
	return out
}

// psxSampleTable converts the TR4/TR5 sample table. Each sample runs from
// its offset to the next one; the last runs to the end of data.
func psxSampleTable(offsets []uint32, data []byte, rate uint32) ([]SoundSample, error) {
	out := make([]SoundSample, 0, len(offsets))
	for i, start := range offsets {
		end := uint32(len(data))
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		if start > end || end > uint32(len(data)) {
			return nil, fmt.Errorf("%w: sample %d spans %d to %d of %d bytes", ErrUnsupportedSection, i, start, end, len(data))
		}
		out = append(out, vagSample(data[start:end], rate))
	}
	return out, nil
}

func vagSample(vag []byte, rate uint32) SoundSample {
	wav := encodeWAV(decodeVAG(vag), rate)
	return SoundSample{Data: wav, UncompressedSize: uint32(len(wav))}
}

var vagFilters = [5][2]int32{{0, 0}, {60, 0}, {115, -52}, {98, -55}, {122, -60}}

// decodeVAG expands 16-byte ADPCM blocks of 28 samples each. Decoding stops
// at a block flagged as the end of the sample.
func decodeVAG(vag []byte) []int16 {
	var out []int16
	var s1, s2 int32
	for at := 0; at+16 <= len(vag); at += 16 {
		block := vag[at : at+16]
		shift := int32(block[0] & 0x0F)
		filter := int(block[0] >> 4)
		if filter >= len(vagFilters) {
			filter = 0
		}
		if block[1] == 7 {
			break
		}
		f0, f1 := vagFilters[filter][0], vagFilters[filter][1]
		for _, b := range block[2:] {
			for _, nibble := range [2]uint8{b & 0x0F, b >> 4} {
				s := int32(int16(uint16(nibble)<<12)) >> shift
				s += (s1*f0 + s2*f1 + 32) / 64
				s = max(-32768, min(32767, s))
				out = append(out, int16(s))
				s2, s1 = s1, s
			}
		}
	}
	return out
}

// encodeWAV wraps mono 16-bit PCM in a canonical RIFF header.
func encodeWAV(pcm []int16, rate uint32) []byte {
	dataSize := uint32(len(pcm) * 2)
	var buf bytes.Buffer
	buf.Grow(44 + int(dataSize))
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(&buf, binary.LittleEndian, struct {
		Size          uint32
		Format        uint16
		Channels      uint16
		Rate          uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
	}{16, 1, 1, rate, rate * 2, 2, 16})
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, dataSize)
	_ = binary.Write(&buf, binary.LittleEndian, pcm)
	return buf.Bytes()
}

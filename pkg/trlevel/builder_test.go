package trlevel

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zlib"
)

// levelBuilder writes little-endian level bytes for tests.
type levelBuilder struct {
	buf bytes.Buffer
}

func (b *levelBuilder) write(v any) *levelBuilder {
	binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

func (b *levelBuilder) u8(v uint8) *levelBuilder   { return b.write(v) }
func (b *levelBuilder) u16(v uint16) *levelBuilder { return b.write(v) }
func (b *levelBuilder) u32(v uint32) *levelBuilder { return b.write(v) }

func (b *levelBuilder) str(s string) *levelBuilder {
	b.buf.WriteString(s)
	return b
}

func (b *levelBuilder) zeros(n int) *levelBuilder {
	b.buf.Write(make([]byte, n))
	return b
}

// counts writes n empty u32-counted sections.
func (b *levelBuilder) counts(n int) *levelBuilder {
	for i := 0; i < n; i++ {
		b.u32(0)
	}
	return b
}

// compressed writes a framed zlib block holding data.
func (b *levelBuilder) compressed(t *testing.T, data []byte) *levelBuilder {
	t.Helper()
	packed := deflate(t, data)
	b.u32(uint32(len(data)))
	b.u32(uint32(len(packed)))
	b.buf.Write(packed)
	return b
}

func (b *levelBuilder) bytes() []byte { return b.buf.Bytes() }

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var out bytes.Buffer
	w := zlib.NewWriter(&out)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("deflate: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("deflate close: %v", err)
	}
	return out.Bytes()
}

const pageSize32 = 256 * 256 * 4

// tr4Textures writes empty TR4/TR5 texture blocks with misc blank pages.
func (b *levelBuilder) tr4Textures(t *testing.T, misc int) *levelBuilder {
	b.u16(0).u16(0).u16(0)
	b.compressed(t, nil)
	b.compressed(t, nil)
	return b.compressed(t, make([]byte, misc*pageSize32))
}

// modelSections writes empty floordata through static mesh sections.
func (b *levelBuilder) modelSections() *levelBuilder {
	b.counts(1) // floordata
	b.counts(2) // mesh data and pointers
	b.counts(1) // animations
	b.counts(5) // state changes to frames
	b.counts(2) // models, static meshes
	return b
}

func emptyTR1(demo bool) []byte {
	b := &levelBuilder{}
	b.u32(signatureTR1)
	b.u32(0) // textiles
	b.u32(0) // unused
	b.u16(0) // rooms
	b.modelSections()
	b.counts(3) // object textures, sprite textures, sprite sequences
	if demo {
		b.zeros(768)
	}
	b.counts(4) // cameras, sound sources, boxes, overlaps
	b.counts(2) // animated textures, entities
	b.zeros(32 * 256)
	if !demo {
		b.zeros(768)
	}
	b.u16(0).u16(0)
	b.zeros(256 * 2)
	b.counts(3) // sound details, sound data, sample indices
	return b.bytes()
}

func emptyTR2or3(version uint32) []byte {
	b := &levelBuilder{}
	b.u32(version)
	b.zeros(768 + 1024)
	b.u32(0) // textiles
	b.u32(0) // unused
	b.u16(0) // rooms
	b.modelSections()
	if version == signatureTR2 {
		b.counts(1) // object textures
	}
	b.counts(2) // sprites
	b.counts(4) // cameras, sound sources, boxes, overlaps
	b.counts(1) // animated textures
	if version != signatureTR2 {
		b.counts(1) // object textures
	}
	b.counts(1) // entities
	b.zeros(32 * 256)
	b.u16(0).u16(0)
	b.zeros(370 * 2)
	b.counts(2)
	return b.bytes()
}

func emptyTR4Body() []byte {
	b := &levelBuilder{}
	b.u32(0)
	b.u16(0)
	b.modelSections()
	b.str("SPR")
	b.counts(2)
	b.counts(3) // cameras, flyby, sound sources
	b.counts(2) // boxes, overlaps
	b.counts(1).u8(0)
	b.str("TEX")
	b.counts(3) // object textures, entities, ai objects
	b.u16(0)
	b.zeros(370 * 2)
	b.counts(2)
	return b.bytes()
}

func emptyTR4(t *testing.T) []byte {
	b := &levelBuilder{}
	b.u32(signatureTR4)
	b.tr4Textures(t, 2)
	b.compressed(t, emptyTR4Body())
	return b.bytes()
}

func emptyTR5(t *testing.T) []byte { return emptyTR5Sized(t, 0) }

// emptyTR5Sized writes an empty TR5 level whose compressed-size field is
// off by skew.
func emptyTR5Sized(t *testing.T, skew int) []byte {
	body := &levelBuilder{}
	body.u32(0)
	body.u32(0) // rooms
	body.modelSections()
	body.str("SPR\x00")
	body.counts(2)
	body.counts(3)
	body.counts(2)
	body.counts(1).u8(0)
	body.str("TEX\x00")
	body.counts(3)
	body.u16(0)
	body.zeros(450 * 2)
	body.counts(2)

	b := &levelBuilder{}
	b.u32(signatureTR4)
	b.tr4Textures(t, 2)
	b.u16(3).u16(1)
	b.zeros(28)
	b.u32(uint32(body.buf.Len()))
	b.u32(uint32(body.buf.Len() + skew))
	b.buf.Write(body.bytes())
	return b.bytes()
}

func emptyTR4Remastered() []byte {
	b := &levelBuilder{}
	b.u32(signatureTR4)
	b.u16(0).u16(0).u16(0)
	b.u32(0)
	b.zeros(2 * pageSize32)
	b.u32(0)
	b.u16(0)
	b.modelSections()
	b.str("SPR")
	b.counts(2)
	b.counts(3)
	b.counts(2)
	b.counts(1).u8(0)
	b.str("TEX")
	b.counts(3)
	return b.bytes()
}

func emptyTR5Remastered() []byte {
	b := &levelBuilder{}
	b.u32(signatureTR4)
	b.u16(0).u16(0).u16(0)
	b.u32(0)
	b.zeros(3 * pageSize32)
	b.u16(2) // lara type
	b.u16(0)
	b.modelSections()
	b.str("SPR")
	b.counts(2)
	b.counts(3)
	b.counts(2)
	b.counts(1).u8(0)
	b.str("TEX")
	b.counts(3)
	return b.bytes()
}

// emptyBank writes a sound bank with no header and no body.
func (b *levelBuilder) emptyBank() *levelBuilder { return b.u32(0).u32(0) }

func emptyTR1PSX() []byte {
	b := &levelBuilder{}
	b.emptyBank()
	b.zeros(tr1PSXTextiles)
	b.u32(signatureTR1)
	b.u16(0) // rooms
	b.modelSections()
	b.counts(3) // object textures, sprite textures, sprite sequences
	b.counts(4) // cameras, sound sources, boxes, overlaps
	b.counts(2) // animated textures, entities
	b.zeros(256 * 2)
	b.counts(1) // sound details
	return b.bytes()
}

func emptyTR2PSX() []byte {
	b := &levelBuilder{}
	b.emptyBank()
	b.u32(signatureTR2)
	b.u16(0)
	b.modelSections()
	b.counts(2) // textiles, cluts
	b.u32(0)
	b.counts(3)
	b.counts(4)
	b.counts(2)
	b.u32(0)
	b.zeros(370 * 2)
	b.counts(1)
	return b.bytes()
}

func emptyTR3PSX() []byte {
	b := &levelBuilder{}
	b.u32(signatureTR3)
	b.emptyBank()
	b.counts(tr3PSXBlocks)
	b.u16(0)    // rooms
	b.counts(1) // floordata
	b.zeros(27 * 27 * 2)
	b.counts(2) // outside rooms, bounding boxes
	b.counts(2) // mesh data and pointers
	b.counts(1) // animations
	b.counts(5)
	b.counts(2) // models, static meshes
	b.counts(2) // textiles, cluts
	b.counts(3)
	b.counts(4)
	b.counts(2)
	b.u32(0) // horizon colour
	b.u32(0) // room textures
	b.zeros(370 * 2)
	b.counts(1)
	return b.bytes()
}

// emptyPSXInfoLevel writes a TR4 or TR5 PlayStation level with its info
// block at offset and nothing in any section.
func emptyPSXInfoLevel(offset, soundMap, modelPad int) []byte {
	const infoSize = 228
	body := 27*27*2 + 2 + soundMap*2 + psxEntitySlots*144
	info := psxLevelInfo{
		RoomDataOffset: infoSize,
		FramesOffset:   uint32(infoSize + body),
		ModelsOffset:   uint32(infoSize + body),
	}
	b := &levelBuilder{}
	b.zeros(offset)
	b.write(info)
	b.zeros(body)
	b.zeros(psxModelSlots*64 + modelPad + psxStaticSlots*28)
	return b.bytes()
}

func emptyTR4PSX() []byte { return emptyPSXInfoLevel(tr4PSXInfoOffset, 370, 320) }
func emptyTR5PSX() []byte { return emptyPSXInfoLevel(tr5PSXInfoOffset, 450, 0) }

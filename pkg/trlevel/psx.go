package trlevel

import (
	"fmt"
	"slices"
)

// PlayStation levels keep their textures as 4-bit pages indexed through
// colour lookup tables. Every (page, clut) pair a texture uses is expanded
// to a 16-bit page, so object and sprite textures end up addressing
// Textile16 like the PC formats do.

// Textile4 is a 4-bit PlayStation page, two pixels per byte, low nibble
// first.
type Textile4 [256 * 256 / 2]uint8

// Clut is a PlayStation colour lookup table of 16 ABGR1555 colours.
type Clut [16]uint16

const (
	textile4Size = 256 * 256 / 2
	clutSize     = 16 * 2
)

type psxVertex struct {
	X, Y, Z, W int16
}

func (v psxVertex) vertex() Vertex { return Vertex{X: v.X, Y: v.Y, Z: v.Z} }

type psxModel struct {
	ID           uint32
	NumMeshes    uint16
	StartingMesh uint16
	MeshTree     uint32
	FrameOffset  uint32
	Animation    uint16
	Padding      uint16
}

func (m psxModel) normalize() Model {
	return Model{
		ID:           m.ID,
		NumMeshes:    m.NumMeshes,
		StartingMesh: m.StartingMesh,
		MeshTree:     m.MeshTree,
		FrameOffset:  m.FrameOffset,
		Animation:    m.Animation,
	}
}

type psxObjectTexture struct {
	X0, Y0    uint8
	Clut      uint16
	X1, Y1    uint8
	Tile      uint16
	X2, Y2    uint8
	Unknown   uint16
	X3, Y3    uint8
	Attribute uint16
}

const psxObjectTextureSize = 16

type psxSpriteTexture struct {
	LeftSide   int16
	TopSide    int16
	RightSide  int16
	BottomSide int16
	Clut       uint16
	Tile       uint16
	U0, V0     uint8
	U1, V1     uint8
}

// psxColour converts an ABGR1555 clut entry to the ARGB1555 layout of
// Textile16.
func psxColour(c uint16) uint16 {
	r := c & 0x1F
	g := (c >> 5) & 0x1F
	b := (c >> 10) & 0x1F
	return c&0x8000 | r<<10 | g<<5 | b
}

// clutAttribute is 1 (alpha tested) when the table has a fully transparent
// entry, which the PlayStation draws as a hole.
func clutAttribute(c Clut) uint16 {
	for _, v := range c {
		if v == 0 {
			return 1
		}
	}
	return 0
}

// psxTextureSource expands one page through one clut.
type psxTextureSource interface {
	expand(tile, clut uint16) (page Textile16, table Clut, ok bool)
}

// pageSource is the TR1 to TR3 layout: a list of pages and a list of cluts.
type pageSource struct {
	pages []Textile4
	cluts []Clut
}

func (s pageSource) expand(tile, clut uint16) (Textile16, Clut, bool) {
	var out Textile16
	if int(tile) >= len(s.pages) || int(clut) >= len(s.cluts) {
		return out, Clut{}, false
	}
	page, table := &s.pages[tile], s.cluts[clut]
	for i := range out {
		idx := page[i/2]
		if i%2 == 1 {
			idx >>= 4
		}
		out[i] = psxColour(table[idx&0x0F])
	}
	return out, table, true
}

// vramSource is the TR4 and TR5 layout: a copy of the texture half of video
// memory, 1024 bytes per row and 512 rows, with tile and clut given as
// PlayStation texture page and clut words.
type vramSource struct {
	data []byte
}

const (
	vramStride = 1024
	vramSize   = vramStride * 512
)

func (s vramSource) clut(clut uint16) (Clut, bool) {
	var table Clut
	x := (int(clut&0x3F)*16 - 512) * 2
	y := int(clut>>6) & 0x1FF
	at := y*vramStride + x
	if x < 0 || at+clutSize > len(s.data) {
		return table, false
	}
	for i := range table {
		table[i] = uint16(s.data[at+i*2]) | uint16(s.data[at+i*2+1])<<8
	}
	return table, true
}

func (s vramSource) expand(tile, clut uint16) (Textile16, Clut, bool) {
	var out Textile16
	table, ok := s.clut(clut)
	if !ok {
		return out, table, false
	}
	tx := (int(tile&0x0F)*64 - 512) * 2
	ty := int(tile>>4&0x01) * 256
	if tx < 0 || (ty+255)*vramStride+tx+128 > len(s.data) {
		return out, table, false
	}
	for y := 0; y < 256; y++ {
		row := s.data[(ty+y)*vramStride+tx:]
		for x := 0; x < 256; x++ {
			idx := row[x/2]
			if x%2 == 1 {
				idx >>= 4
			}
			out[y*256+x] = psxColour(table[idx&0x0F])
		}
	}
	return out, table, true
}

// psxPages hands out one 16-bit page per distinct (tile, clut) pair, in
// first-use order. A pair that points outside the source gets a blank page.
type psxPages struct {
	src   psxTextureSource
	index map[[2]uint16]uint16
	pages []Textile16
	cluts []Clut
}

func newPSXPages(src psxTextureSource) *psxPages {
	return &psxPages{src: src, index: make(map[[2]uint16]uint16)}
}

func (p *psxPages) convert(tile, clut uint16) (uint16, Clut) {
	key := [2]uint16{tile, clut}
	if i, ok := p.index[key]; ok {
		return i, p.cluts[i]
	}
	page, table, _ := p.src.expand(tile, clut)
	i := uint16(len(p.pages))
	p.index[key] = i
	p.pages = append(p.pages, page)
	p.cluts = append(p.cluts, table)
	return i, table
}

// objectTexture expands t and returns it with Tile pointing at the
// converted page. keepAttribute keeps the stored attribute instead of
// deriving one from the clut.
func (p *psxPages) objectTexture(t psxObjectTexture, keepAttribute bool) ObjectTexture {
	tile, table := p.convert(t.Tile, t.Clut)
	attr := t.Attribute
	if !keepAttribute {
		attr = clutAttribute(table)
	}
	return ObjectTexture{
		Attribute: attr,
		Tile:      tile,
		Vertices: [4]ObjectTextureVertex{
			{XPixel: t.X0, YPixel: t.Y0},
			{XPixel: t.X1, YPixel: t.Y1},
			{XPixel: t.X2, YPixel: t.Y2},
			{XPixel: t.X3, YPixel: t.Y3},
		},
	}
}

// spriteTexture stores the size the way the PC records do: pixels times
// 256, minus one.
func (p *psxPages) spriteTexture(s psxSpriteTexture) SpriteTexture {
	tile, _ := p.convert(s.Tile, s.Clut)
	return SpriteTexture{
		Tile:       tile,
		X:          s.U0,
		Y:          s.V0,
		Width:      spriteExtent(s.U0, s.U1),
		Height:     spriteExtent(s.V0, s.V1),
		LeftSide:   s.LeftSide,
		TopSide:    s.TopSide,
		RightSide:  s.RightSide,
		BottomSide: s.BottomSide,
	}
}

func spriteExtent(lo, hi uint8) uint16 {
	if hi < lo {
		return 0
	}
	return (uint16(hi-lo)+1)*256 - 1
}

// Steps shared by the TR1 to TR3 PlayStation decoders.

// versionWord consumes a version word that must be one of want.
func (d *decoder) versionWord(want ...uint32) step {
	return section("version", func() error {
		got, err := d.r.U32()
		if err != nil {
			return err
		}
		if !slices.Contains(want, got) {
			return fmt.Errorf("%w: version word 0x%08X", ErrUnsupportedSection, got)
		}
		return nil
	})
}

// textiles4 reads a fixed number of pages and cluts (TR1).
func (d *decoder) textiles4(pages, cluts int) error {
	l := d.level
	var err error
	if l.textiles4, err = ReadVector[Textile4](d.r, pages); err != nil {
		return err
	}
	l.cluts, err = ReadVector[Clut](d.r, cluts)
	return err
}

// countedTextiles4 reads the TR2 and TR3 page and clut lists. Some levels
// store the clut count as a 16-bit value; the high half of the 32-bit read
// gives that away. TR3 stores half the real clut count.
func (d *decoder) countedTextiles4(clutScale int) step {
	return section("textiles", func() error {
		l := d.level
		var err error
		if l.textiles4, err = ReadCounted[uint32, Textile4](d.r); err != nil {
			return err
		}
		n, err := d.r.U32()
		if err != nil {
			return err
		}
		if n&0xFFFF0000 != 0 {
			if err := d.r.SetPosition(d.r.Position() - 2); err != nil {
				return err
			}
			if n, err = d.r.U32(); err != nil {
				return err
			}
		}
		if uint64(n)*uint64(clutScale)*clutSize > uint64(d.r.Remaining()) {
			return fmt.Errorf("%w: %d cluts in %d bytes", ErrOutOfData, n, d.r.Remaining())
		}
		l.cluts, err = ReadVector[Clut](d.r, int(n)*clutScale)
		return err
	})
}

func (d *decoder) pageSource() *psxPages {
	if d.psx == nil {
		d.psx = newPSXPages(pageSource{pages: d.level.textiles4, cluts: d.level.cluts})
	}
	return d.psx
}

func (d *decoder) psxModels() step {
	return section("models", countedAs[uint32, psxModel](d, &d.level.models, psxModel.normalize))
}

// psxObjectTextures reads counted object textures and expands their pages.
func (d *decoder) psxObjectTextures(keepAttribute bool) step {
	return section("object textures", func() error {
		raw, err := ReadCounted[uint32, psxObjectTexture](d.r)
		if err != nil {
			return err
		}
		pages := d.pageSource()
		for _, t := range raw {
			d.level.objectTextures = append(d.level.objectTextures, pages.objectTexture(t, keepAttribute))
		}
		d.level.textiles16 = pages.pages
		return nil
	})
}

func (d *decoder) psxSpriteTextures() step {
	return section("sprite textures", func() error {
		raw, err := ReadCounted[uint32, psxSpriteTexture](d.r)
		if err != nil {
			return err
		}
		pages := d.pageSource()
		d.level.spriteTextures = convertAll(raw, pages.spriteTexture)
		d.level.textiles16 = pages.pages
		return nil
	})
}

// appendRoomTextures adds room textures after the object textures and moves
// every room face onto them. Room face indices count from the first room
// texture.
func (d *decoder) appendRoomTextures(raw []psxObjectTexture, pages *psxPages) {
	l := d.level
	base := uint16(len(l.objectTextures))
	for _, t := range raw {
		l.objectTextures = append(l.objectTextures, pages.objectTexture(t, false))
	}
	l.textiles16 = pages.pages
	for i := range l.rooms {
		room := &l.rooms[i]
		for j := range room.Rectangles {
			room.Rectangles[j].Texture += base
		}
		for j := range room.Triangles {
			room.Triangles[j].Texture += base
		}
	}
}

// readRoomTextures reads room textures stored as triples of records, of
// which only the first is used.
func readRoomTextures(r *Reader, count int) ([]psxObjectTexture, error) {
	triples, err := ReadVector[[3]psxObjectTexture](r, count)
	if err != nil {
		return nil, err
	}
	return convertAll(triples, func(t [3]psxObjectTexture) psxObjectTexture { return t[0] }), nil
}

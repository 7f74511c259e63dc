package trlevel

import (
	"fmt"

	trmath "github.com/Faultbox/trlevel/pkg/math"
)

// ObjectTexture maps a face onto a texture page. Width and Height are only
// stored from TR4 onwards.
type ObjectTexture struct {
	Attribute uint16
	Tile      uint16
	Flags     uint16
	Vertices  [4]ObjectTextureVertex
	Width     uint32
	Height    uint32
	// triangle is the TR4+ bit 15 of the tile word.
	triangle bool
}

// IsTriangle reports whether only the first three vertices are used.
func (t ObjectTexture) IsTriangle() bool {
	return t.triangle || t.Vertices[3] == (ObjectTextureVertex{})
}

// UV returns the texture coordinate of corner i, in the 0 to 1 range of the
// page.
func (t ObjectTexture) UV(i int) trmath.Vec2 {
	if i < 0 || i >= len(t.Vertices) {
		return trmath.Vec2{}
	}
	v := t.Vertices[i]
	return trmath.Vec2{
		X: (float32(v.XPixel)*256 + float32(v.XCoordinate)) / 65536,
		Y: (float32(v.YPixel)*256 + float32(v.YCoordinate)) / 65536,
	}
}

func (t tr1ObjectTexture) normalize() ObjectTexture {
	return ObjectTexture{
		Attribute: t.Attribute,
		Tile:      t.TileAndFlag & 0x7FFF,
		Vertices:  t.Vertices,
	}
}

func (t tr4ObjectTexture) normalize() ObjectTexture {
	return ObjectTexture{
		Attribute: t.Attribute,
		Tile:      t.TileAndFlag & 0x7FFF,
		Flags:     t.NewFlags,
		Vertices:  t.Vertices,
		Width:     t.Width,
		Height:    t.Height,
		triangle:  t.TileAndFlag&0x8000 != 0,
	}
}

func (t tr5ObjectTexture) normalize() ObjectTexture {
	return t.Texture.normalize()
}

// textureLayout selects the object texture record size.
type textureLayout int

const (
	texturesTR1 textureLayout = iota
	texturesTR4
	texturesTR5
)

func (d *decoder) objectTextures(layout textureLayout) step {
	l := d.level
	switch layout {
	case texturesTR4:
		return section("object textures", countedAs[uint32, tr4ObjectTexture](d, &l.objectTextures, tr4ObjectTexture.normalize))
	case texturesTR5:
		return section("object textures", countedAs[uint32, tr5ObjectTexture](d, &l.objectTextures, tr5ObjectTexture.normalize))
	default:
		return section("object textures", countedAs[uint32, tr1ObjectTexture](d, &l.objectTextures, tr1ObjectTexture.normalize))
	}
}

// textiles8 reads the TR1 to TR3 page count and 8-bit pages. TR2 and TR3
// follow them with the same number of 16-bit pages.
func (d *decoder) textiles8(with16 bool) step {
	return section("textiles", func() error {
		count, err := d.r.U32()
		if err != nil {
			return err
		}
		if d.level.textiles8, err = ReadVector[Textile8](d.r, int(count)); err != nil {
			return err
		}
		if with16 {
			d.level.textiles16, err = ReadVector[Textile16](d.r, int(count))
		}
		return err
	})
}

// tr4TextileCounts is the header that precedes TR4 and TR5 texture blocks.
type tr4TextileCounts struct {
	Room   uint16
	Object uint16
	Bump   uint16
}

func (c tr4TextileCounts) total() int {
	return int(c.Room) + int(c.Object) + int(c.Bump)
}

// compressedTextiles reads the TR4/TR5 texture blocks: 32-bit pages, then
// 16-bit pages, then the misc 32-bit pages (font and sky). The 16-bit block
// is only inflated when every 32-bit page is blank. Misc pages are kept apart
// so texture validation cannot accept them.
func (d *decoder) compressedTextiles(misc int) step {
	return section("textiles", func() error {
		var counts tr4TextileCounts
		if err := d.r.Read(&counts); err != nil {
			return err
		}
		n := counts.total()

		pages, err := d.inflatePages32(n)
		if err != nil {
			return fmt.Errorf("32-bit pages: %w", err)
		}
		if allBlank(pages) && n > 0 {
			inner, err := d.r.ReadCompressedReader()
			if err != nil {
				return fmt.Errorf("16-bit pages: %w", err)
			}
			if d.level.textiles16, err = ReadVector[Textile16](inner, n); err != nil {
				return fmt.Errorf("16-bit pages: %w", err)
			}
		} else if err := d.r.skipCompressed(); err != nil {
			return fmt.Errorf("16-bit pages: %w", err)
		}

		extra, err := d.inflatePages32(misc)
		if err != nil {
			return fmt.Errorf("misc pages: %w", err)
		}
		d.level.textiles32 = pages
		d.level.miscTextiles = extra
		return nil
	})
}

func (d *decoder) inflatePages32(n int) ([]Textile32, error) {
	inner, err := d.r.ReadCompressedReader()
	if err != nil {
		return nil, err
	}
	return ReadVector[Textile32](inner, n)
}

// rawTextiles reads the uncompressed texture blocks of remastered TR4 and
// TR5 levels.
func (d *decoder) rawTextiles(misc int) step {
	return section("textiles", func() error {
		var counts tr4TextileCounts
		if err := d.r.Read(&counts); err != nil {
			return err
		}
		if err := d.r.Skip(4); err != nil {
			return err
		}
		n := counts.total()
		pages, err := ReadVector[Textile32](d.r, n+misc)
		if err != nil {
			return err
		}
		d.level.textiles32 = pages[:n:n]
		d.level.miscTextiles = pages[n:]
		return nil
	})
}

func allBlank(pages []Textile32) bool {
	for i := range pages {
		for _, px := range &pages[i] {
			if px != 0 {
				return false
			}
		}
	}
	return true
}

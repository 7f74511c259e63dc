package trlevel

import (
	"errors"
	"testing"
)

func TestPSXColour(t *testing.T) {
	tests := []struct {
		name string
		in   uint16
		want uint16
	}{
		{"red", 0x001F, 0x7C00},
		{"green", 0x03E0, 0x03E0},
		{"blue with alpha", 0xFC00, 0x801F},
		{"black", 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := psxColour(tc.in); got != tc.want {
				t.Errorf("psxColour(0x%04X) = 0x%04X, expected 0x%04X", tc.in, got, tc.want)
			}
		})
	}
}

func TestClutAttribute(t *testing.T) {
	opaque := Clut{}
	for i := range opaque {
		opaque[i] = 0x8000
	}
	if clutAttribute(opaque) != 0 {
		t.Error("expected opaque clut to be attribute 0")
	}
	opaque[7] = 0
	if clutAttribute(opaque) != 1 {
		t.Error("expected transparent entry to give attribute 1")
	}
}

func TestPageSource_Expand(t *testing.T) {
	var page Textile4
	page[0] = 0x21 // pixel 0 uses entry 1, pixel 1 entry 2
	var clut Clut
	clut[1] = 0x001F
	clut[2] = 0x7C00

	got, table, ok := pageSource{pages: []Textile4{page}, cluts: []Clut{clut}}.expand(0, 0)
	if !ok {
		t.Fatal("expected page to expand")
	}
	if table != clut {
		t.Error("expected the clut used to be returned")
	}
	if got[0] != 0x7C00 || got[1] != 0x001F || got[2] != 0 {
		t.Errorf("unexpected pixels 0x%04X 0x%04X 0x%04X", got[0], got[1], got[2])
	}

	if _, _, ok := (pageSource{}).expand(0, 0); ok {
		t.Error("expected missing page to fail")
	}
}

func TestPSXPages_Convert(t *testing.T) {
	src := pageSource{pages: make([]Textile4, 2), cluts: make([]Clut, 2)}
	pages := newPSXPages(src)

	a, _ := pages.convert(1, 0)
	b, _ := pages.convert(1, 1)
	again, _ := pages.convert(1, 0)
	missing, _ := pages.convert(9, 0)

	if a != 0 || b != 1 || again != 0 || missing != 2 {
		t.Errorf("unexpected page indices %d %d %d %d", a, b, again, missing)
	}
	if len(pages.pages) != 3 {
		t.Errorf("expected 3 pages, got %d", len(pages.pages))
	}
}

func TestPSXPages_ObjectTexture(t *testing.T) {
	transparent := Clut{}
	opaque := Clut{}
	for i := range opaque {
		opaque[i] = 0x8000
	}
	pages := newPSXPages(pageSource{pages: make([]Textile4, 1), cluts: []Clut{opaque, transparent}})
	raw := psxObjectTexture{X0: 1, Y0: 2, X3: 200, Y3: 201, Clut: 1, Attribute: 2}

	derived := pages.objectTexture(raw, false)
	if derived.Attribute != 1 {
		t.Errorf("expected attribute from clut, got %d", derived.Attribute)
	}
	if derived.Vertices[0].XPixel != 1 || derived.Vertices[0].YPixel != 2 || derived.Vertices[3].XPixel != 200 {
		t.Errorf("unexpected vertices %+v", derived.Vertices)
	}

	kept := pages.objectTexture(raw, true)
	if kept.Attribute != 2 {
		t.Errorf("expected stored attribute, got %d", kept.Attribute)
	}
	if kept.Tile != derived.Tile {
		t.Error("expected the same page for the same tile and clut")
	}
}

func TestPSXPages_SpriteTexture(t *testing.T) {
	pages := newPSXPages(pageSource{pages: make([]Textile4, 1), cluts: make([]Clut, 1)})
	s := pages.spriteTexture(psxSpriteTexture{U0: 10, V0: 20, U1: 13, V1: 20, LeftSide: -5})
	if s.X != 10 || s.Y != 20 || s.LeftSide != -5 {
		t.Errorf("unexpected sprite %+v", s)
	}
	if s.Width != 4*256-1 || s.Height != 255 {
		t.Errorf("unexpected size %d x %d", s.Width, s.Height)
	}
	if spriteExtent(5, 4) != 0 {
		t.Error("expected inverted extent to be zero")
	}
}

func TestVRAMSource(t *testing.T) {
	vram := make([]byte, vramSize)
	// Clut word 32 addresses x 0, row 0.
	vram[2] = 0x1F
	// Tile 8 addresses the page at byte 0 of row 0.
	vram[0] = 0x10

	src := vramSource{data: vram}
	table, ok := src.clut(32)
	if !ok || table[1] != 0x001F {
		t.Fatalf("unexpected clut %v %v", table, ok)
	}
	if _, ok := src.clut(0); ok {
		t.Error("expected clut left of the texture area to fail")
	}

	page, _, ok := src.expand(8, 32)
	if !ok {
		t.Fatal("expected page to expand")
	}
	if page[1] != psxColour(0x001F) {
		t.Errorf("unexpected pixel 0x%04X", page[1])
	}
	if _, _, ok := (vramSource{data: vram[:1024]}).expand(8, 32); ok {
		t.Error("expected short vram to fail")
	}
}

func TestAppendRoomTextures(t *testing.T) {
	d := &decoder{level: &Level{
		objectTextures: make([]ObjectTexture, 3),
		rooms: []Room{{
			Rectangles: []Rectangle{{Texture: 1}},
			Triangles:  []Triangle{{Texture: 0}},
		}},
	}}
	pages := newPSXPages(pageSource{pages: make([]Textile4, 1), cluts: make([]Clut, 1)})
	d.appendRoomTextures(make([]psxObjectTexture, 2), pages)

	l := d.level
	if len(l.objectTextures) != 5 {
		t.Fatalf("expected 5 textures, got %d", len(l.objectTextures))
	}
	if l.rooms[0].Rectangles[0].Texture != 4 || l.rooms[0].Triangles[0].Texture != 3 {
		t.Errorf("expected room faces moved onto room textures, got %d %d",
			l.rooms[0].Rectangles[0].Texture, l.rooms[0].Triangles[0].Texture)
	}
	if len(l.textiles16) != 1 {
		t.Errorf("expected 1 page, got %d", len(l.textiles16))
	}
}

func TestLoad_TR2PSXTextures(t *testing.T) {
	b := &levelBuilder{}
	b.emptyBank()
	b.u32(signatureTR2)
	b.u16(0)
	b.modelSections()
	page := make([]byte, textile4Size)
	page[0] = 0x10
	b.u32(1)
	b.buf.Write(page)
	clut := Clut{}
	clut[1] = 0x001F
	b.u32(1).write(clut)
	b.u32(0)
	b.u32(1).write(psxObjectTexture{Attribute: 2, X1: 255})
	b.counts(2) // sprite textures, sprite sequences
	b.counts(4)
	b.counts(2)
	b.u32(0)
	b.zeros(370 * 2)
	b.counts(1)

	level, err := Load(b.bytes(), WithPlatform(PlayStation))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if level.NumTextiles4() != 1 || level.NumTextiles() != 1 {
		t.Fatalf("expected one page each, got %d and %d", level.NumTextiles4(), level.NumTextiles())
	}
	if px := level.Textile16(0)[1]; px != 0x7C00 {
		t.Errorf("unexpected pixel 0x%04X", px)
	}
	tex, ok := level.ObjectTexture(0)
	if !ok || tex.Attribute != 2 || tex.Tile != 0 {
		t.Errorf("unexpected texture %+v", tex)
	}
	if c, ok := level.Clut(0); !ok || c[1] != 0x001F {
		t.Errorf("unexpected clut %v", c)
	}
}

func TestLoad_TR3PSXVersionWord(t *testing.T) {
	data := emptyTR3PSX()
	data[0] = 0x39 // neither TR3 signature
	_, err := Load(data, WithPlatform(PlayStation), WithVersion(Tomb3))
	if !errors.Is(err, ErrUnsupportedSection) {
		t.Fatalf("expected ErrUnsupportedSection, got %v", err)
	}
}

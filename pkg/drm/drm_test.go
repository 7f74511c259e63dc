package drm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/trlevel/pkg/trlevel"
)

func write(t *testing.T, buf *bytes.Buffer, vs ...any) {
	t.Helper()
	for _, v := range vs {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("binary.Write: %v", err)
		}
	}
}

// vertexSection builds a vertex data section with one triangle per mesh.
func vertexSection(t *testing.T, meshes int) []byte {
	t.Helper()
	var buf bytes.Buffer
	write(t, &buf, vertexHeader{
		Scale:       [4]float32{1, 2, 3, 1},
		VertexCount: 3,
		Length:      vertexHeaderSize,
		Offset:      [3]float32{10, 20, 30},
	})
	write(t, &buf, []Vertex{{0, 0, 0}, {1024, 0, 0}, {0, -1024, 2048}})
	for i := 0; i < meshes; i++ {
		end := uint32(buf.Len() + 20 + 6)
		write(t, &buf, meshHeader{IndexCount: 3, Texture: uint16(7 + i), End: end})
		write(t, &buf, []uint16{0, 1, 2})
	}
	write(t, &buf, uint32(0))
	return buf.Bytes()
}

func textureSection(t *testing.T, w, h uint16, pixels []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	th := textureHeader{DataLength: uint32(len(pixels)), Width: w, Height: h}
	copy(th.Magic[:], "PCD9")
	copy(th.Format[:], "DXT1")
	write(t, &buf, th, pixels)
	return buf.Bytes()
}

type testSection struct {
	typ      SectionType
	id       uint32
	preamble []byte
	body     []byte
}

func buildDRM(t *testing.T, sections []testSection) []byte {
	t.Helper()
	var buf bytes.Buffer
	write(t, &buf, uint32(0x16), uint32(len(sections)))
	for _, s := range sections {
		write(t, &buf, SectionHeader{
			Length:   uint32(len(s.body)),
			Type:     s.typ,
			Preamble: uint32(len(s.preamble) * 32),
			ID:       s.id,
		})
	}
	for _, s := range sections {
		buf.Write(s.preamble)
		buf.Write(s.body)
	}
	return buf.Bytes()
}

func references(t *testing.T, refs ...Reference) []byte {
	t.Helper()
	var buf bytes.Buffer
	write(t, &buf, refs)
	return buf.Bytes()
}

func sampleDRM(t *testing.T) []byte {
	return buildDRM(t, []testSection{
		{typ: SectionGeneric, id: 1, preamble: references(t,
			Reference{Index: 1 << 3, Usage: UsageVertexData},
			Reference{Index: 3 << 3, Usage: UsageVertexData | UsageBounds},
		), body: []byte{0, 0, 0, 0}},
		{typ: SectionGeneric, id: 2, body: vertexSection(t, 2)},
		{typ: SectionTexture, id: 42, body: textureSection(t, 2, 2, []byte{1, 2, 3, 4, 5, 6, 7, 8})},
		{typ: SectionGeneric, id: 3, body: []byte{0xFF}},
		{typ: SectionAudio, id: 9, body: []byte{1, 2, 3}},
	})
}

func TestParse(t *testing.T) {
	f, err := Parse(sampleDRM(t))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if f.Version != 0x16 {
		t.Errorf("expected version 0x16, got 0x%x", f.Version)
	}
	if len(f.Sections) != 5 {
		t.Fatalf("expected 5 sections, got %d", len(f.Sections))
	}
	if got := len(f.SectionsOf(SectionAudio)); got != 1 {
		t.Errorf("expected 1 audio section, got %d", got)
	}

	if len(f.WorldMesh) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(f.WorldMesh))
	}
	if p := f.WorldMesh[2].Position(); p.Y != -1 || p.Z != 2 {
		t.Errorf("unexpected vertex position %+v", p)
	}
	if len(f.Triangles) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(f.Triangles))
	}
	if tri := f.Triangles[1]; tri.V0 != 0 || tri.V2 != 2 || tri.Texture != 8 {
		t.Errorf("unexpected triangle %+v", tri)
	}
	if len(f.Blocks) != 1 || f.Blocks[0].Section != 1 || f.Blocks[0].Scale.Y != 2 || f.Blocks[0].Offset.Z != 30 {
		t.Errorf("unexpected vertex blocks %+v", f.Blocks)
	}

	tex, ok := f.Texture(42)
	if !ok {
		t.Fatal("expected texture 42")
	}
	if tex.Magic != "PCD9" || tex.Format != "DXT1" || tex.Width != 2 || tex.Height != 2 || len(tex.Data) != 8 {
		t.Errorf("unexpected texture %+v", tex)
	}
	if _, ok := f.Texture(1); ok {
		t.Error("section 1 is not a texture")
	}
	if ids := f.TextureIDs(); len(ids) != 1 || ids[0] != 42 {
		t.Errorf("unexpected texture ids %v", ids)
	}
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(buildDRM(t, nil))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(f.Sections) != 0 || len(f.Textures) != 0 || len(f.WorldMesh) != 0 {
		t.Errorf("expected empty file, got %+v", f)
	}
}

func TestParse_Truncated(t *testing.T) {
	data := sampleDRM(t)
	for _, n := range []int{0, 3, 8, 30, len(data) - 1} {
		if _, err := Parse(data[:n]); !errors.Is(err, trlevel.ErrOutOfData) {
			t.Errorf("length %d: expected ErrOutOfData, got %v", n, err)
		}
	}
}

func TestParse_BadReference(t *testing.T) {
	data := buildDRM(t, []testSection{
		{typ: SectionGeneric, preamble: references(t, Reference{Index: 9 << 3, Usage: UsageVertexData})},
	})
	if _, err := Parse(data); !errors.Is(err, ErrBadReference) {
		t.Errorf("expected ErrBadReference, got %v", err)
	}
}

func TestParse_MeshEndMustAdvance(t *testing.T) {
	body := vertexSection(t, 1)
	// Point the mesh end back at the vertex header.
	binary.LittleEndian.PutUint32(body[vertexHeaderSize+18+16:], 0)
	data := buildDRM(t, []testSection{
		{typ: SectionGeneric, preamble: references(t, Reference{Index: 1 << 3, Usage: UsageVertexData})},
		{typ: SectionGeneric, body: body},
	})
	if _, err := Parse(data); !errors.Is(err, trlevel.ErrOutOfData) {
		t.Errorf("expected ErrOutOfData, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.drm")
	if err := os.WriteFile(path, sampleDRM(t), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if len(f.Textures) != 1 {
		t.Errorf("expected 1 texture, got %d", len(f.Textures))
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.drm")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSectionType_String(t *testing.T) {
	if SectionWorldMesh.String() != "WorldMesh" || SectionType(99).String() != "Unknown(99)" {
		t.Error("unexpected section type names")
	}
}

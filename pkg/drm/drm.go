// Package drm reads LAU "DRM" level containers: a table of section headers
// followed by the section payloads, some of which hold textures and world
// mesh geometry.
package drm

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/Faultbox/trlevel/pkg/encoding"
	trmath "github.com/Faultbox/trlevel/pkg/math"
	"github.com/Faultbox/trlevel/pkg/trlevel"
)

// ErrBadReference is returned when a section reference points past the
// section table.
var ErrBadReference = errors.New("section reference out of range")

// SectionType identifies the payload of a section.
type SectionType uint32

const (
	SectionGeneric   SectionType = 0
	SectionTexture   SectionType = 5
	SectionAudio     SectionType = 6
	SectionTrigger   SectionType = 7
	SectionWorldMesh SectionType = 10
)

func (t SectionType) String() string {
	switch t {
	case SectionGeneric:
		return "Section"
	case SectionTexture:
		return "Texture"
	case SectionAudio:
		return "Audio"
	case SectionTrigger:
		return "Trigger"
	case SectionWorldMesh:
		return "WorldMesh"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(t))
	}
}

// SectionHeader is one entry of the section table.
type SectionHeader struct {
	Length    uint32
	Type      SectionType
	Preamble  uint32 // size of the leading reference block, in bits
	ID        uint32
	Separator uint32
}

// PreambleSize returns the size of the reference block in bytes.
func (h SectionHeader) PreambleSize() int {
	return int(h.Preamble / 32)
}

// Usage flags carried by a section reference.
type Usage uint32

const (
	UsageBounds     Usage = 4
	UsageVertexData Usage = 128
)

// Reference links a section to another section in the table.
type Reference struct {
	Index uint32
	Usage Usage
}

// Target returns the index of the referenced section.
func (r Reference) Target() int {
	return int(r.Index >> 3)
}

// Has reports whether every bit of u is set.
func (r Reference) Has(u Usage) bool {
	return r.Usage&u == u
}

// Section is a section header with its payload, preamble included.
type Section struct {
	Index  int
	Header SectionHeader
	Data   []byte
}

// References decodes the section's preamble.
func (s Section) References() ([]Reference, error) {
	r := trlevel.NewReader(s.Data)
	return trlevel.ReadVector[Reference](r, s.Header.PreambleSize()/8)
}

// Texture is a decoded texture section.
type Texture struct {
	ID      uint32
	Magic   string // "PCD9"
	Format  string // e.g. "DXT1"
	Width   uint16
	Height  uint16
	Unknown [2]uint32
	Data    []byte
}

// Vertex is a packed world mesh vertex.
type Vertex struct {
	X, Y, Z int16
}

// Position returns the vertex in sector units.
func (v Vertex) Position() trmath.Vec3 {
	return trmath.FromInt16(v.X, v.Y, v.Z)
}

// Triangle indexes three vertices of File.WorldMesh.
type Triangle struct {
	V0, V1, V2 uint16
	Texture    uint16
}

// VertexBlock describes one vertex data section merged into the world mesh.
type VertexBlock struct {
	Section     int
	Scale       trmath.Vec3
	ScaleW      float32
	Offset      trmath.Vec3
	FirstVertex int
	VertexCount int
}

// File is a decoded DRM container.
type File struct {
	Version   uint32
	Sections  []Section
	Textures  map[uint32]Texture
	WorldMesh []Vertex
	Triangles []Triangle
	Blocks    []VertexBlock
}

// Open reads and decodes the DRM file at path.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a DRM container from memory.
func Parse(data []byte) (*File, error) {
	r := trlevel.NewReader(data)

	f := &File{Textures: make(map[uint32]Texture)}
	var err error
	if f.Version, err = r.U32(); err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	count, err := r.U32()
	if err != nil {
		return nil, fmt.Errorf("reading section count: %w", err)
	}
	headers, err := trlevel.ReadVector[SectionHeader](r, int(count))
	if err != nil {
		return nil, fmt.Errorf("reading section table: %w", err)
	}

	f.Sections = make([]Section, len(headers))
	for i, h := range headers {
		payload, err := r.Bytes(h.PreambleSize() + int(h.Length))
		if err != nil {
			return nil, fmt.Errorf("reading section %d: %w", i, err)
		}
		f.Sections[i] = Section{Index: i, Header: h, Data: payload}
	}

	if err := f.readFileHeader(); err != nil {
		return nil, err
	}
	if err := f.readTextures(); err != nil {
		return nil, err
	}
	return f, nil
}

// readFileHeader follows the references of the first section and merges
// every vertex data section it names into the world mesh.
func (f *File) readFileHeader() error {
	if len(f.Sections) == 0 {
		return nil
	}
	refs, err := f.Sections[0].References()
	if err != nil {
		return fmt.Errorf("reading file header: %w", err)
	}
	for _, ref := range refs {
		if !ref.Has(UsageVertexData) || ref.Has(UsageBounds) {
			continue
		}
		target := ref.Target()
		if target < 0 || target >= len(f.Sections) {
			return fmt.Errorf("%w: %d of %d", ErrBadReference, target, len(f.Sections))
		}
		if err := f.readVertexData(f.Sections[target]); err != nil {
			return fmt.Errorf("reading vertex section %d: %w", target, err)
		}
	}
	return nil
}

// vertexHeader is the fixed part of a vertex data section, following the
// reference block.
type vertexHeader struct {
	Unknown1    [8]uint16
	Scale       [4]float32
	VertexCount uint32
	Length      uint32
	Unknown2    [20]byte
	Offset      [3]float32
}

const vertexHeaderSize = 40 + 20 + 12

type meshHeader struct {
	IndexCount uint16
	Unknown1   uint16
	Texture    uint16
	Unknown2   [5]uint16
	End        uint32 // offset of the next mesh, from the vertex header
}

func (f *File) readVertexData(s Section) error {
	r := trlevel.NewReader(s.Data)
	if err := r.Skip(s.Header.PreambleSize()); err != nil {
		return err
	}
	start := r.Position()

	var h vertexHeader
	if err := r.Read(&h); err != nil {
		return err
	}
	if h.Length < vertexHeaderSize {
		return fmt.Errorf("%w: vertex header length %d", trlevel.ErrOutOfData, h.Length)
	}
	if err := r.Skip(int(h.Length - vertexHeaderSize)); err != nil {
		return err
	}

	vertices, err := trlevel.ReadVector[Vertex](r, int(h.VertexCount))
	if err != nil {
		return err
	}
	base := uint16(len(f.WorldMesh))
	f.Blocks = append(f.Blocks, VertexBlock{
		Section:     s.Index,
		Scale:       trmath.Vec3{X: h.Scale[0], Y: h.Scale[1], Z: h.Scale[2]},
		ScaleW:      h.Scale[3],
		Offset:      trmath.Vec3{X: h.Offset[0], Y: h.Offset[1], Z: h.Offset[2]},
		FirstVertex: len(f.WorldMesh),
		VertexCount: len(vertices),
	})
	f.WorldMesh = append(f.WorldMesh, vertices...)

	for {
		meshStart := r.Position()
		var m meshHeader
		if err := r.Read(&m); err != nil {
			return err
		}
		indices, err := trlevel.ReadVector[uint16](r, int(m.IndexCount))
		if err != nil {
			return err
		}
		for i := 0; i+2 < len(indices); i += 3 {
			f.Triangles = append(f.Triangles, Triangle{
				V0:      indices[i] + base,
				V1:      indices[i+1] + base,
				V2:      indices[i+2] + base,
				Texture: m.Texture,
			})
		}

		next := start + int(m.End)
		if next <= meshStart {
			return fmt.Errorf("%w: mesh end %d does not advance", trlevel.ErrOutOfData, m.End)
		}
		if err := r.SetPosition(next); err != nil {
			return err
		}
		more, err := r.PeekU32()
		if err != nil || more == 0 {
			return nil
		}
	}
}

type textureHeader struct {
	Magic      [4]byte
	Format     [4]byte
	DataLength uint32
	Unknown1   uint32
	Width      uint16
	Height     uint16
	Unknown2   uint32
}

func (f *File) readTextures() error {
	for _, s := range f.SectionsOf(SectionTexture) {
		r := trlevel.NewReader(s.Data)
		var h textureHeader
		if err := r.Read(&h); err != nil {
			return fmt.Errorf("reading texture %d: %w", s.Header.ID, err)
		}
		pixels, err := r.Bytes(int(h.DataLength))
		if err != nil {
			return fmt.Errorf("reading texture %d pixels: %w", s.Header.ID, err)
		}
		f.Textures[s.Header.ID] = Texture{
			ID:      s.Header.ID,
			Magic:   encoding.FixedString(h.Magic[:]),
			Format:  encoding.FixedString(h.Format[:]),
			Width:   h.Width,
			Height:  h.Height,
			Unknown: [2]uint32{h.Unknown1, h.Unknown2},
			Data:    pixels,
		}
	}
	return nil
}

// SectionsOf returns the sections of type t in table order.
func (f *File) SectionsOf(t SectionType) []Section {
	var out []Section
	for _, s := range f.Sections {
		if s.Header.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// Texture returns the texture with the given section id.
func (f *File) Texture(id uint32) (Texture, bool) {
	t, ok := f.Textures[id]
	return t, ok
}

// TextureIDs returns the texture ids in ascending order.
func (f *File) TextureIDs() []uint32 {
	ids := make([]uint32, 0, len(f.Textures))
	for id := range f.Textures {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

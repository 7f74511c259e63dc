package trlevel

import "fmt"

// PlayStation mesh layouts. Vertices and normals are padded to eight bytes.

type psxReflectiveFace4 struct {
	Face  Face4
	Flags uint16
}

type psxReflectiveFace3 struct {
	Face  Face3
	Flags uint16
}

func psxVertices(r *Reader, n int) ([]Vertex, error) {
	raw, err := ReadVector[psxVertex](r, n)
	if err != nil {
		return nil, err
	}
	return convertAll(raw, psxVertex.vertex), nil
}

// readMeshTR1PSX reads a TR1 mesh. Faces with a texture above 255 are
// textured; the rest carry a palette colour.
func readMeshTR1PSX(r *Reader, _ uint32) (Mesh, error) {
	var m Mesh
	if err := r.Read(&m.Centre); err != nil {
		return m, err
	}
	var err error
	if m.CollisionRadius, err = r.I32(); err != nil {
		return m, err
	}
	count, err := r.I16()
	if err != nil {
		return m, err
	}
	n := abs16(count)
	if m.Vertices, err = psxVertices(r, n); err != nil {
		return m, fmt.Errorf("vertices: %w", err)
	}
	if count > 0 {
		if m.Normals, err = psxVertices(r, n); err != nil {
			return m, fmt.Errorf("normals: %w", err)
		}
	} else if m.Lights, err = ReadVector[int16](r, n); err != nil {
		return m, fmt.Errorf("lights: %w", err)
	}

	rects, err := ReadCounted[int16, Face4](r)
	if err != nil {
		return m, fmt.Errorf("rectangles: %w", err)
	}
	tris, err := ReadCounted[int16, Face3](r)
	if err != nil {
		return m, fmt.Errorf("triangles: %w", err)
	}
	for _, f := range rects {
		m.Rectangles = append(m.Rectangles, Rectangle{Vertices: f.Vertices, Texture: f.Texture, Coloured: f.Texture < 256})
	}
	for _, f := range tris {
		m.Triangles = append(m.Triangles, Triangle{Vertices: f.Vertices, Texture: f.Texture, Coloured: f.Texture < 256})
	}
	return m, nil
}

// readMeshTR2PSX reads a TR2 mesh. Face vertex indices are stored as byte
// offsets into the vertex list. Meshes with normals carry an extra list of
// reflective faces first.
func readMeshTR2PSX(r *Reader, _ uint32) (Mesh, error) {
	var m Mesh
	if err := r.Read(&m.Centre); err != nil {
		return m, err
	}
	var err error
	if m.CollisionRadius, err = r.I32(); err != nil {
		return m, err
	}
	count, err := r.I16()
	if err != nil {
		return m, err
	}
	n := abs16(count)
	if m.Vertices, err = psxVertices(r, n); err != nil {
		return m, fmt.Errorf("vertices: %w", err)
	}
	if count > 0 {
		if m.Normals, err = psxVertices(r, n); err != nil {
			return m, fmt.Errorf("normals: %w", err)
		}
		rects, err := ReadCounted[int16, psxReflectiveFace4](r)
		if err != nil {
			return m, fmt.Errorf("reflective rectangles: %w", err)
		}
		tris, err := ReadCounted[int16, psxReflectiveFace3](r)
		if err != nil {
			return m, fmt.Errorf("reflective triangles: %w", err)
		}
		for _, f := range rects {
			m.Rectangles = append(m.Rectangles, f.Face.scaled(3))
		}
		for _, f := range tris {
			m.Triangles = append(m.Triangles, f.Face.scaled(3))
		}
	} else if m.Lights, err = ReadVector[int16](r, n); err != nil {
		return m, fmt.Errorf("lights: %w", err)
	}

	rects, err := ReadCounted[int16, Face4](r)
	if err != nil {
		return m, fmt.Errorf("rectangles: %w", err)
	}
	tris, err := ReadCounted[int16, Face3](r)
	if err != nil {
		return m, fmt.Errorf("triangles: %w", err)
	}
	for _, f := range rects {
		m.Rectangles = append(m.Rectangles, f.scaled(3))
	}
	for _, f := range tris {
		m.Triangles = append(m.Triangles, f.scaled(3))
	}
	return m, nil
}

// scaled turns byte-offset vertex indices into list indices.
func (f Face4) scaled(shift uint) Rectangle {
	out := Rectangle{Texture: f.Texture}
	for i, v := range f.Vertices {
		out.Vertices[i] = v >> shift
	}
	return out
}

func (f Face3) scaled(shift uint) Triangle {
	out := Triangle{Texture: f.Texture}
	for i, v := range f.Vertices {
		out.Vertices[i] = v >> shift
	}
	return out
}

// readMeshPackedPSX reads the TR3 to TR5 mesh layout: byte-sized counts and
// faces packed into 32-bit words, with texture bits shared between faces.
// lights selects whether a mesh without normals stores per-vertex lights
// (TR3) or nothing (TR4 and TR5).
func readMeshPackedPSX(r *Reader, lights bool) (Mesh, error) {
	var m Mesh
	if err := r.Read(&m.Centre); err != nil {
		return m, err
	}
	radius, err := r.I16()
	if err != nil {
		return m, err
	}
	m.CollisionRadius = int32(radius)
	var h struct {
		Vertices   uint8
		Flags      uint8
		FaceOffset uint16
	}
	if err := r.Read(&h); err != nil {
		return m, err
	}
	at := r.Position()
	n := int(h.Vertices)
	if m.Vertices, err = psxVertices(r, n); err != nil {
		return m, fmt.Errorf("vertices: %w", err)
	}
	if h.Flags&0x80 == 0 {
		if m.Normals, err = psxVertices(r, n); err != nil {
			return m, fmt.Errorf("normals: %w", err)
		}
	} else if lights {
		if m.Lights, err = ReadVector[int16](r, n); err != nil {
			return m, fmt.Errorf("lights: %w", err)
		}
	}

	if err := r.SetPosition(at + int(h.FaceOffset)); err != nil {
		return m, fmt.Errorf("faces: %w", err)
	}
	var counts struct{ Triangles, Rectangles uint16 }
	if err := r.Read(&counts); err != nil {
		return m, err
	}

	// One texture word covers four triangles, eight bits each; the high
	// texture byte rides in the top of the face word.
	var texture uint32
	for i := 0; i < int(counts.Triangles); i++ {
		if i%4 == 0 {
			if texture, err = r.U32(); err != nil {
				return m, fmt.Errorf("triangle %d: %w", i, err)
			}
		}
		face, err := r.U32()
		if err != nil {
			return m, fmt.Errorf("triangle %d: %w", i, err)
		}
		m.Triangles = append(m.Triangles, Triangle{
			Vertices: [3]uint16{uint16(face & 0xFF), uint16(face >> 8 & 0xFF), uint16(face >> 16 & 0xFF)},
			Texture:  uint16(texture&0xFF | (face>>24&0xFF)<<8),
		})
		texture >>= 8
	}

	// One texture word covers two rectangles.
	for i := 0; i < int(counts.Rectangles); i++ {
		if i%2 == 0 {
			if texture, err = r.U32(); err != nil {
				return m, fmt.Errorf("rectangle %d: %w", i, err)
			}
		}
		face, err := r.U32()
		if err != nil {
			return m, fmt.Errorf("rectangle %d: %w", i, err)
		}
		m.Rectangles = append(m.Rectangles, Rectangle{
			Vertices: [4]uint16{uint16(face & 0xFF), uint16(face >> 8 & 0xFF), uint16(face >> 24 & 0xFF), uint16(face >> 16 & 0xFF)},
			Texture:  uint16(texture & 0xFFFF),
		})
		texture >>= 16
	}

	if !lights {
		m.dropBadFaces()
	}
	return m, nil
}

// dropBadFaces clears a face list when any face in it points past the
// vertex list. Some TR4 and TR5 meshes use a layout these lists don't
// describe.
func (m *Mesh) dropBadFaces() {
	n := uint16(len(m.Vertices))
	for _, f := range m.Rectangles {
		if f.Vertices[0] >= n || f.Vertices[1] >= n || f.Vertices[2] >= n || f.Vertices[3] >= n {
			m.Rectangles = nil
			break
		}
	}
	for _, f := range m.Triangles {
		if f.Vertices[0] >= n || f.Vertices[1] >= n || f.Vertices[2] >= n {
			m.Triangles = nil
			break
		}
	}
}

// tr3MeshReader returns the TR3 mesh layout. The sky box model's first mesh
// is not stored in this layout and is left empty. Models must be read before
// the reader is used.
func (d *decoder) tr3MeshReader() meshReader {
	const skyboxID = 355
	return func(r *Reader, pointer uint32) (Mesh, error) {
		l := d.level
		if m, ok := l.Model(skyboxID); ok && int(m.StartingMesh) < len(l.meshPointers) && l.meshPointers[m.StartingMesh] == pointer {
			return Mesh{}, nil
		}
		return readMeshPackedPSX(r, true)
	}
}

func readMeshTR4PSX(r *Reader, _ uint32) (Mesh, error) {
	return readMeshPackedPSX(r, false)
}

func abs16(v int16) int {
	if v < 0 {
		return -int(v)
	}
	return int(v)
}

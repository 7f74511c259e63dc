package trlevel

import (
	"encoding/binary"
	"fmt"
)

// Mesh is a decoded mesh. A mesh has either normals or per-vertex lights,
// never both.
type Mesh struct {
	Centre          Vertex
	CollisionRadius int32
	Vertices        []Vertex
	Normals         []Vertex
	Lights          []int16
	Rectangles      []Rectangle
	Triangles       []Triangle
}

// MeshArena owns every distinct mesh of a level. Meshes are addressed by a
// stable arena id; several pointer-table entries may share one id.
type MeshArena struct {
	meshes    []Mesh
	byPointer map[uint32]int
}

// Len returns the number of distinct meshes.
func (a *MeshArena) Len() int { return len(a.meshes) }

// Get returns the mesh with arena id, or nil.
func (a *MeshArena) Get(id int) *Mesh {
	if id < 0 || id >= len(a.meshes) {
		return nil
	}
	return &a.meshes[id]
}

// IDByPointer maps a raw mesh pointer to its arena id.
func (a *MeshArena) IDByPointer(pointer uint32) (int, bool) {
	id, ok := a.byPointer[pointer]
	return id, ok
}

// meshReader decodes the mesh that starts at pointer.
type meshReader func(r *Reader, pointer uint32) (Mesh, error)

// buildMeshArena decodes each distinct pointer once. Pointers are byte
// offsets into the mesh data words.
func buildMeshArena(data []uint16, pointers []uint32, v LevelVersion) (MeshArena, error) {
	return buildMeshArenaWith(data, pointers, func(r *Reader, _ uint32) (Mesh, error) {
		return readMesh(r, v)
	})
}

// buildMeshArenaWith is buildMeshArena with a caller-supplied mesh layout.
func buildMeshArenaWith(data []uint16, pointers []uint32, read meshReader) (MeshArena, error) {
	arena := MeshArena{byPointer: make(map[uint32]int, len(pointers))}
	if len(pointers) == 0 {
		return arena, nil
	}

	raw := make([]byte, len(data)*2)
	for i, w := range data {
		binary.LittleEndian.PutUint16(raw[i*2:], w)
	}
	r := NewReader(raw)

	for i, p := range pointers {
		if _, seen := arena.byPointer[p]; seen {
			continue
		}
		if err := r.SetPosition(int(p)); err != nil {
			return MeshArena{}, fmt.Errorf("mesh pointer %d: %w", i, err)
		}
		mesh, err := read(r, p)
		if err != nil {
			return MeshArena{}, fmt.Errorf("mesh at offset %d: %w", p, err)
		}
		arena.byPointer[p] = len(arena.meshes)
		arena.meshes = append(arena.meshes, mesh)
	}
	return arena, nil
}

func readMesh(r *Reader, v LevelVersion) (Mesh, error) {
	var m Mesh
	if err := r.Read(&m.Centre); err != nil {
		return m, err
	}
	var err error
	if m.CollisionRadius, err = r.I32(); err != nil {
		return m, err
	}
	if m.Vertices, err = ReadCounted[int16, Vertex](r); err != nil {
		return m, fmt.Errorf("vertices: %w", err)
	}

	normals, err := r.I16()
	if err != nil {
		return m, err
	}
	if normals > 0 {
		if m.Normals, err = ReadVector[Vertex](r, int(normals)); err != nil {
			return m, fmt.Errorf("normals: %w", err)
		}
	} else if m.Lights, err = ReadVector[int16](r, -int(normals)); err != nil {
		return m, fmt.Errorf("lights: %w", err)
	}

	if v >= Tomb4 {
		rects, err := ReadCounted[int16, tr4MeshFace4](r)
		if err != nil {
			return m, fmt.Errorf("rectangles: %w", err)
		}
		tris, err := ReadCounted[int16, tr4MeshFace3](r)
		if err != nil {
			return m, fmt.Errorf("triangles: %w", err)
		}
		m.Rectangles = convertAll(rects, tr4MeshFace4.normalize)
		m.Triangles = convertAll(tris, tr4MeshFace3.normalize)
		return m, nil
	}

	texRects, err := ReadCounted[int16, Face4](r)
	if err != nil {
		return m, fmt.Errorf("textured rectangles: %w", err)
	}
	texTris, err := ReadCounted[int16, Face3](r)
	if err != nil {
		return m, fmt.Errorf("textured triangles: %w", err)
	}
	colRects, err := ReadCounted[int16, Face4](r)
	if err != nil {
		return m, fmt.Errorf("coloured rectangles: %w", err)
	}
	colTris, err := ReadCounted[int16, Face3](r)
	if err != nil {
		return m, fmt.Errorf("coloured triangles: %w", err)
	}

	for _, f := range texRects {
		m.Rectangles = append(m.Rectangles, f.normalize(v))
	}
	for _, f := range colRects {
		m.Rectangles = append(m.Rectangles, Rectangle{Vertices: f.Vertices, Texture: f.Texture, Coloured: true})
	}
	for _, f := range texTris {
		m.Triangles = append(m.Triangles, f.normalize(v))
	}
	for _, f := range colTris {
		m.Triangles = append(m.Triangles, Triangle{Vertices: f.Vertices, Texture: f.Texture, Coloured: true})
	}
	return m, nil
}

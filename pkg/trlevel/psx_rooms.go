package trlevel

import (
	"fmt"

	trmath "github.com/Faultbox/trlevel/pkg/math"
)

type tr1PSXLight struct {
	X, Y, Z   int32
	Intensity uint16
	Padding   uint16
	Fade      uint32
}

func (l tr1PSXLight) normalize() Light {
	return tr1Light{X: l.X, Y: l.Y, Z: l.Z, Intensity: l.Intensity, Fade: l.Fade}.normalize()
}

type tr1PSXRoomStaticMesh struct {
	X, Y, Z   int32
	Rotation  uint16
	Intensity uint16
	MeshID    uint16
	Padding   uint16
}

func (s tr1PSXRoomStaticMesh) normalize() RoomStaticMesh {
	return RoomStaticMesh{X: s.X, Y: s.Y, Z: s.Z, Rotation: s.Rotation, Colour: s.Intensity, MeshID: s.MeshID}
}

// readRoomTR1PSX reads a TR1 PlayStation room. The geometry matches PC but
// is not bounded by the data word count, and quads wind the other way.
func (d *decoder) readRoomTR1PSX() (Room, error) {
	var room Room
	r := d.r
	if err := r.Read(&room.Info); err != nil {
		return room, err
	}
	words, err := r.U32()
	if err != nil {
		return room, err
	}
	if err := r.Skip(2); err != nil {
		return room, err
	}
	if words > 0 {
		verts, err := ReadCounted[int16, tr1RoomVertex](r)
		if err != nil {
			return room, fmt.Errorf("vertices: %w", err)
		}
		room.Vertices = convertAll(verts, tr1RoomVertex.normalize)
		rects, err := ReadCounted[int16, Face4](r)
		if err != nil {
			return room, fmt.Errorf("rectangles: %w", err)
		}
		tris, err := ReadCounted[int16, Face3](r)
		if err != nil {
			return room, fmt.Errorf("triangles: %w", err)
		}
		for _, f := range rects {
			f.Vertices[2], f.Vertices[3] = f.Vertices[3], f.Vertices[2]
			room.Rectangles = append(room.Rectangles, f.normalize(Tomb1))
		}
		room.Triangles = convertAll(tris, func(f Face3) Triangle { return f.normalize(Tomb1) })
		if room.Sprites, err = ReadCounted[int16, RoomSprite](r); err != nil {
			return room, fmt.Errorf("sprites: %w", err)
		}
	}
	if room.Portals, err = ReadCounted[uint16, Portal](r); err != nil {
		return room, err
	}
	if err := d.readSectors(&room); err != nil {
		return room, err
	}
	if room.AmbientIntensity, err = r.I16(); err != nil {
		return room, err
	}
	lights, err := ReadCounted[uint16, tr1PSXLight](r)
	if err != nil {
		return room, err
	}
	room.Lights = convertAll(lights, tr1PSXLight.normalize)
	statics, err := ReadCounted[uint16, tr1PSXRoomStaticMesh](r)
	if err != nil {
		return room, err
	}
	room.StaticMeshes = convertAll(statics, tr1PSXRoomStaticMesh.normalize)
	return room, d.readRoomTail(&room)
}

// packedRoomVertex unpacks a 32-bit room vertex: five bits each of x and z
// in sectors, five bits of y in quarter clicks above yTop, and a 15-bit
// shade or colour on top.
func packedRoomVertex(v uint32, yTop int32) (trmath.Vec3, uint16) {
	x := int16((v >> 10 & 0x1F) << 10)
	y := int16(int32((v>>5&0x1F)<<8) + yTop)
	z := int16((v & 0x1F) << 10)
	return trmath.Vec3{X: float32(x), Y: float32(y), Z: float32(z)}, uint16(v >> 15 & 0x7FFF)
}

// colourBGR555 expands a 15-bit colour stored blue-high to opaque ARGB.
func colourBGR555(c uint16) uint32 {
	r := c & 0x1F
	b := c >> 10 & 0x1F
	return colour555(r<<10 | c&0x03E0 | b)
}

type tr2PSXFace4 struct {
	Vertices [4]uint16
}

type tr2PSXFace3 struct {
	Texture  uint16
	Vertices [3]uint16
}

// readRoomTR2PSX reads a TR2 PlayStation room. Vertices are packed, and
// quad textures are stored ahead of the quads, padded to four bytes.
func (d *decoder) readRoomTR2PSX() (Room, error) {
	var room Room
	r := d.r
	if err := r.Read(&room.Info); err != nil {
		return room, err
	}
	words, err := r.U32()
	if err != nil {
		return room, err
	}
	at := r.Position()
	if words > 0 {
		if err := d.tr2PSXGeometry(&room); err != nil {
			return room, err
		}
	}
	if err := r.SetPosition(at + int(words)*2); err != nil {
		return room, err
	}

	if room.Portals, err = ReadCounted[uint16, Portal](r); err != nil {
		return room, err
	}
	if err := d.readSectors(&room); err != nil {
		return room, err
	}
	if room.AmbientIntensity, err = r.I16(); err != nil {
		return room, err
	}
	if room.AmbientIntensity2, err = r.I16(); err != nil {
		return room, err
	}
	if room.LightMode, err = r.I16(); err != nil {
		return room, err
	}
	lights, err := ReadCounted[uint16, tr2Light](r)
	if err != nil {
		return room, err
	}
	room.Lights = convertAll(lights, tr2Light.normalize)
	if room.StaticMeshes, err = ReadCounted[uint16, RoomStaticMesh](r); err != nil {
		return room, err
	}
	return room, d.readRoomTail(&room)
}

func (d *decoder) tr2PSXGeometry(room *Room) error {
	r := d.r
	n, err := r.U16()
	if err != nil {
		return err
	}
	if err := r.Skip(2); err != nil {
		return err
	}
	verts, err := ReadVector[uint32](r, int(n))
	if err != nil {
		return fmt.Errorf("vertices: %w", err)
	}
	for _, v := range verts {
		pos, shade := packedRoomVertex(v, room.Info.YTop)
		grey := uint32(255 - int(shade)*255/0x7FFF)
		room.Vertices = append(room.Vertices, RoomVertex{
			Position: pos,
			Lighting: int16(shade),
			Colour:   0xFF000000 | grey<<16 | grey<<8 | grey,
		})
	}

	start := r.Position()
	align := func() error {
		if (r.Position()-start)%4 != 0 {
			return r.Skip(2)
		}
		return nil
	}
	numRects, err := r.U16()
	if err != nil {
		return err
	}
	textures, err := ReadVector[uint16](r, int(numRects))
	if err != nil {
		return fmt.Errorf("rectangle textures: %w", err)
	}
	if err := align(); err != nil {
		return err
	}
	rects, err := ReadVector[tr2PSXFace4](r, int(numRects))
	if err != nil {
		return fmt.Errorf("rectangles: %w", err)
	}
	for i, f := range rects {
		v := f.Vertices
		room.Rectangles = append(room.Rectangles, Rectangle{
			Vertices: [4]uint16{v[0] >> 2, v[1] >> 2, v[3] >> 2, v[2] >> 2},
			Texture:  textures[i],
		})
	}

	numTris, err := r.I16()
	if err != nil {
		return err
	}
	if err := align(); err != nil {
		return err
	}
	tris, err := ReadVector[tr2PSXFace3](r, int(numTris))
	if err != nil {
		return fmt.Errorf("triangles: %w", err)
	}
	for _, f := range tris {
		v := f.Vertices
		room.Triangles = append(room.Triangles, Triangle{
			Vertices: [3]uint16{v[0] >> 2, v[1] >> 2, v[2] >> 2},
			Texture:  f.Texture,
		})
	}
	return nil
}

// readRoomTR3PSX reads a TR3 PlayStation room, whose geometry is split into
// roomlets.
func (d *decoder) readRoomTR3PSX() (Room, error) {
	var room Room
	r := d.r
	if err := r.Read(&room.Info); err != nil {
		return room, err
	}
	words, err := r.U32()
	if err != nil {
		return room, err
	}
	dataStart := r.Position()
	offsets, err := ReadCounted[uint32, uint32](r)
	if err != nil {
		return room, fmt.Errorf("roomlets: %w", err)
	}
	if err := readRoomlets(r, dataStart, offsets, &room); err != nil {
		return room, err
	}
	if err := r.SetPosition(dataStart + int(words)*2); err != nil {
		return room, err
	}

	if room.Portals, err = ReadCounted[uint16, Portal](r); err != nil {
		return room, err
	}
	if err := d.readSectors(&room); err != nil {
		return room, err
	}
	if room.AmbientIntensity, err = r.I16(); err != nil {
		return room, err
	}
	if room.LightMode, err = r.I16(); err != nil {
		return room, err
	}
	lights, err := ReadCounted[uint16, tr3Light](r)
	if err != nil {
		return room, err
	}
	room.Lights = convertAll(lights, tr3Light.normalize)
	if room.StaticMeshes, err = ReadCounted[uint16, RoomStaticMesh](r); err != nil {
		return room, err
	}
	if err := d.readRoomTail(&room); err != nil {
		return room, err
	}
	return room, r.Skip(1)
}

// roomletHeader opens each roomlet: a byte bounding box, then the vertex
// and triangle counts.
type roomletHeader struct {
	Bounds    [6]uint8
	Vertices  uint8
	Triangles uint8
}

const roomletEndTexture = 0x3FF

// readRoomlets reads the TR3 to TR5 PlayStation room geometry. Each
// roomlet's faces index its own vertices, so indices are rebased onto the
// room's combined list. Quads come in groups of three sharing one texture
// word of 10-bit indices; a texture of 0x3FF ends the list.
func readRoomlets(r *Reader, dataStart int, offsets []uint32, room *Room) error {
	var base uint16
	for i, off := range offsets {
		if err := r.SetPosition(dataStart + int(off)); err != nil {
			return fmt.Errorf("roomlet %d: %w", i, err)
		}
		var h roomletHeader
		if err := r.Read(&h); err != nil {
			return fmt.Errorf("roomlet %d: %w", i, err)
		}
		verts, err := ReadVector[uint32](r, int(h.Vertices))
		if err != nil {
			return fmt.Errorf("roomlet %d vertices: %w", i, err)
		}
		for _, v := range verts {
			pos, colour := packedRoomVertex(v, room.Info.YTop)
			room.Vertices = append(room.Vertices, RoomVertex{Position: pos, Colour: colourBGR555(colour)})
		}
		tris, err := ReadVector[uint32](r, int(h.Triangles))
		if err != nil {
			return fmt.Errorf("roomlet %d triangles: %w", i, err)
		}
		for _, t := range tris {
			room.Triangles = append(room.Triangles, Triangle{
				Vertices: [3]uint16{base + uint16(t&0x7F), base + uint16(t>>7&0x7F), base + uint16(t>>14&0x7F)},
				Texture:  uint16(t >> 21 & 0x3FF),
			})
		}

		for more := true; more; {
			var group struct {
				Textures uint32
				Faces    [3]uint32
			}
			if err := r.Read(&group); err != nil {
				return fmt.Errorf("roomlet %d rectangles: %w", i, err)
			}
			for j, f := range group.Faces {
				texture := uint16(group.Textures >> (10 * j) & 0x3FF)
				if texture == roomletEndTexture {
					more = false
					break
				}
				room.Rectangles = append(room.Rectangles, Rectangle{
					Vertices: [4]uint16{base + uint16(f&0x7F), base + uint16(f>>7&0x7F), base + uint16(f>>21&0x7F), base + uint16(f>>14&0x7F)},
					Texture:  texture,
				})
			}
		}
		base += uint16(h.Vertices)
	}
	return nil
}

// psxRoomInfo precedes every TR4 and TR5 PlayStation room. Each block of
// the room has its size here; the blocks follow in order.
type psxRoomInfo struct {
	DataSize       uint32
	PortalSize     uint32
	SectorsSize    uint32
	LightSize      uint32
	StaticMeshSize uint32
	X, Y, Z        int32
	YBottom, YTop  int32
	NumZSectors    uint16
	NumXSectors    uint16
	Unknown1       [4]byte
	NumLights      uint16
	NumMeshes      uint16
	Unknown2       uint8
	AlternateGroup uint8
	Unknown3       [22]byte
	AlternateRoom  int16
	Flags          uint16
}

type tr4PSXLight struct {
	X, Y, Z    int32
	Type       uint8
	R, G, B    uint8
	DX, DY, DZ int16
	Intensity  uint16
	Data       [8]byte
}

// normalize unpacks the payload: a spot light stores length, cutoff and cone
// angles, point and shadow lights a hotspot and falloff in 128 unit steps.
func (l tr4PSXLight) normalize() Light {
	out := Light{
		X:         l.X,
		Y:         l.Y,
		Z:         l.Z,
		Type:      LightType(l.Type),
		Colour:    Colour{l.R, l.G, l.B},
		Intensity: int32(l.Intensity),
		Direction: trmath.Vec3{X: float32(l.DX) / 4096, Y: float32(l.DY) / 4096, Z: float32(l.DZ) / 4096},
	}
	switch out.Type {
	case LightSpot:
		in := int16(uint16(l.Data[4]) | uint16(l.Data[5])<<8)
		outer := int16(uint16(l.Data[6]) | uint16(l.Data[7])<<8)
		out.In = float32(int32(in)<<2) / 16384
		out.Out = float32(int32(outer)<<2) / 16384
		out.Length = float32(int32(l.Data[0]) << 7)
		out.Cutoff = float32(int32(l.Data[1]) << 7)
	case LightPoint, LightShadow:
		out.In = float32(int32(l.Data[0]) << 7)
		out.Out = float32(int32(l.Data[1]) << 7)
	}
	return out
}

// readRoomsTR4PSX reads count room infos followed by each room's blocks.
func (d *decoder) readRoomsTR4PSX(count int) error {
	r := d.r
	infos, err := ReadVector[psxRoomInfo](r, count)
	if err != nil {
		return err
	}
	rooms := make([]Room, 0, count)
	for i, info := range infos {
		room, err := readRoomTR4PSX(r, info)
		if err != nil {
			return fmt.Errorf("room %d: %w", i, err)
		}
		rooms = append(rooms, room)
	}
	d.level.rooms = rooms
	return nil
}

func readRoomTR4PSX(r *Reader, info psxRoomInfo) (Room, error) {
	room := Room{
		Info:           RoomInfo{X: info.X, Z: info.Z, YBottom: info.YBottom, YTop: info.YTop},
		NumZSectors:    info.NumZSectors,
		NumXSectors:    info.NumXSectors,
		AlternateRoom:  info.AlternateRoom,
		AlternateGroup: info.AlternateGroup,
		Flags:          info.Flags,
	}

	// block reads one sized block and moves past it.
	block := func(size uint32, read func() error) error {
		start := r.Position()
		if err := read(); err != nil {
			return err
		}
		return r.SetPosition(start + int(size))
	}

	err := block(info.DataSize, func() error {
		if info.DataSize == 0 {
			return nil
		}
		dataStart := r.Position()
		count, err := r.U32()
		if err != nil {
			return err
		}
		offsets, err := ReadVector[uint32](r, 16)
		if err != nil {
			return err
		}
		if count > uint32(len(offsets)) {
			return fmt.Errorf("%w: %d roomlets", ErrUnsupportedSection, count)
		}
		return readRoomlets(r, dataStart, offsets[:count], &room)
	})
	if err != nil {
		return room, fmt.Errorf("geometry: %w", err)
	}
	err = block(info.PortalSize, func() (err error) {
		room.Portals, err = ReadVector[Portal](r, int(info.PortalSize)/portalSize)
		return err
	})
	if err != nil {
		return room, fmt.Errorf("portals: %w", err)
	}
	err = block(info.SectorsSize, func() (err error) {
		room.Sectors, err = ReadVector[RoomSector](r, int(info.NumZSectors)*int(info.NumXSectors))
		return err
	})
	if err != nil {
		return room, fmt.Errorf("sectors: %w", err)
	}
	err = block(info.LightSize, func() error {
		lights, err := ReadVector[tr4PSXLight](r, int(info.NumLights))
		room.Lights = convertAll(lights, tr4PSXLight.normalize)
		return err
	})
	if err != nil {
		return room, fmt.Errorf("lights: %w", err)
	}
	err = block(info.StaticMeshSize, func() (err error) {
		room.StaticMeshes, err = ReadVector[RoomStaticMesh](r, int(info.NumMeshes))
		return err
	})
	if err != nil {
		return room, fmt.Errorf("static meshes: %w", err)
	}
	return room, nil
}

const portalSize = 32

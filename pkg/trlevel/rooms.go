package trlevel

import (
	"encoding/binary"
	"fmt"

	trmath "github.com/Faultbox/trlevel/pkg/math"
)

// RoomFlag is a bit in Room.Flags.
type RoomFlag uint16

// Room flags.
const (
	RoomFlagWater     RoomFlag = 0x0001
	RoomFlagOutside   RoomFlag = 0x0008
	RoomFlagWind      RoomFlag = 0x0020
	RoomFlagQuicksand RoomFlag = 0x0080
)

// RoomVertex is a room vertex in room-relative world units.
type RoomVertex struct {
	Position   trmath.Vec3
	Normal     trmath.Vec3 // TR5 only
	Lighting   int16
	Lighting2  int16
	Attributes uint16
	Colour     uint32 // ARGB, TR3 onwards
}

// Rectangle is a normalized quad, shared by room and mesh geometry.
type Rectangle struct {
	Vertices    [4]uint16
	Texture     uint16
	Effects     uint16
	DoubleSided bool
	Coloured    bool
}

// Triangle is a normalized triangle.
type Triangle struct {
	Vertices    [3]uint16
	Texture     uint16
	Effects     uint16
	DoubleSided bool
	Coloured    bool
}

// LightType identifies how a room light is evaluated.
type LightType uint8

// Light types. TR1 and TR2 only have point lights.
const (
	LightSun LightType = iota
	LightPoint
	LightSpot
	LightShadow
	LightFogBulb
)

// String returns the light type name.
func (t LightType) String() string {
	switch t {
	case LightSun:
		return "Sun"
	case LightPoint:
		return "Point"
	case LightSpot:
		return "Spot"
	case LightShadow:
		return "Shadow"
	case LightFogBulb:
		return "Fog Bulb"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// Light is a normalized room light. Fields a version does not store are zero.
type Light struct {
	X, Y, Z    int32
	Type       LightType
	Colour     Colour
	Intensity  int32
	Intensity2 int32
	Fade       int32
	Fade2      int32
	In, Out    float32
	Length     float32
	Cutoff     float32
	RadIn      float32
	RadOut     float32
	Range      float32
	Direction  trmath.Vec3
}

// Position returns the light position in sector units.
func (l Light) Position() trmath.Vec3 {
	return trmath.FromWorld(l.X, l.Y, l.Z)
}

// Room is a decoded room.
type Room struct {
	Info        RoomInfo
	NumXSectors uint16
	NumZSectors uint16

	Vertices     []RoomVertex
	Rectangles   []Rectangle
	Triangles    []Triangle
	Sprites      []RoomSprite
	Portals      []Portal
	Sectors      []RoomSector
	Lights       []Light
	StaticMeshes []RoomStaticMesh

	AmbientIntensity  int16
	AmbientIntensity2 int16
	LightMode         int16
	Colour            uint32

	AlternateRoom  int16
	AlternateGroup uint8
	Flags          uint16
	WaterScheme    uint8
	ReverbInfo     uint8
}

// HasFlag reports whether f is set.
func (r *Room) HasFlag(f RoomFlag) bool {
	return r.Flags&uint16(f) != 0
}

// IsWater reports whether the room is flooded.
func (r *Room) IsWater() bool { return r.HasFlag(RoomFlagWater) }

// IsOutside reports whether the room is open to the sky.
func (r *Room) IsOutside() bool { return r.HasFlag(RoomFlagOutside) }

// IsQuicksand reports whether the room is quicksand. The bit means something
// else before TR3.
func (r *Room) IsQuicksand(v LevelVersion) bool {
	return v >= Tomb3 && r.HasFlag(RoomFlagQuicksand)
}

// HasAlternate reports whether the room flips to another room.
func (r *Room) HasAlternate() bool { return r.AlternateRoom >= 0 }

// SectorAt returns the raw sector at grid position x, z. Sectors are stored
// column-major along z.
func (r *Room) SectorAt(x, z int) (RoomSector, bool) {
	if x < 0 || z < 0 || x >= int(r.NumXSectors) || z >= int(r.NumZSectors) {
		return RoomSector{}, false
	}
	i := x*int(r.NumZSectors) + z
	if i >= len(r.Sectors) {
		return RoomSector{}, false
	}
	return r.Sectors[i], true
}

func (r *Room) validate() error {
	if want := int(r.NumXSectors) * int(r.NumZSectors); len(r.Sectors) != want {
		return fmt.Errorf("%w: %d sectors for a %dx%d grid", ErrUnsupportedSection, len(r.Sectors), r.NumXSectors, r.NumZSectors)
	}
	return nil
}

// readRooms reads a C-counted room list using readRoom for each room.
func readRooms[C uint16 | uint32](d *decoder, readRoom func() (Room, error)) func() error {
	return func() error {
		var count C
		if err := d.r.Read(&count); err != nil {
			return err
		}
		if uint64(count) > uint64(d.r.Remaining()) {
			return fmt.Errorf("%w: %d rooms in %d bytes", ErrOutOfData, count, d.r.Remaining())
		}
		rooms := make([]Room, 0, count)
		for i := 0; i < int(count); i++ {
			room, err := readRoom()
			if err != nil {
				return fmt.Errorf("room %d: %w", i, err)
			}
			rooms = append(rooms, room)
		}
		d.level.rooms = rooms
		return nil
	}
}

func (d *decoder) readSectors(room *Room) error {
	r := d.r
	var err error
	if room.NumZSectors, err = r.U16(); err != nil {
		return err
	}
	if room.NumXSectors, err = r.U16(); err != nil {
		return err
	}
	room.Sectors, err = ReadVector[RoomSector](r, int(room.NumZSectors)*int(room.NumXSectors))
	return err
}

// roomGeometry reads the data-words block shared by TR1 to TR4 rooms. The
// block is sliced out first so a short geometry list cannot run into the
// portal table.
func roomGeometry[V any](d *decoder, room *Room, conv func(V) RoomVertex) error {
	words, err := d.r.U32()
	if err != nil {
		return err
	}
	if uint64(words)*2 > uint64(d.r.Remaining()) {
		return fmt.Errorf("%w: %d room data words", ErrOutOfData, words)
	}
	data, err := d.r.Bytes(int(words) * 2)
	if err != nil || words == 0 {
		return err
	}

	g := NewReader(data)
	verts, err := ReadCounted[int16, V](g)
	if err != nil {
		return fmt.Errorf("vertices: %w", err)
	}
	room.Vertices = convertAll(verts, conv)

	rects, err := ReadCounted[int16, Face4](g)
	if err != nil {
		return fmt.Errorf("rectangles: %w", err)
	}
	tris, err := ReadCounted[int16, Face3](g)
	if err != nil {
		return fmt.Errorf("triangles: %w", err)
	}
	v := d.level.format.Version
	room.Rectangles = convertAll(rects, func(f Face4) Rectangle { return f.normalize(v) })
	room.Triangles = convertAll(tris, func(f Face3) Triangle { return f.normalize(v) })

	if room.Sprites, err = ReadCounted[int16, RoomSprite](g); err != nil {
		return fmt.Errorf("sprites: %w", err)
	}
	return nil
}

func (d *decoder) readRoomTR1() (Room, error) {
	var room Room
	r := d.r
	if err := r.Read(&room.Info); err != nil {
		return room, err
	}
	if err := roomGeometry(d, &room, tr1RoomVertex.normalize); err != nil {
		return room, err
	}
	var err error
	if room.Portals, err = ReadCounted[uint16, Portal](r); err != nil {
		return room, err
	}
	if err := d.readSectors(&room); err != nil {
		return room, err
	}
	if room.AmbientIntensity, err = r.I16(); err != nil {
		return room, err
	}
	lights, err := ReadCounted[uint16, tr1Light](r)
	if err != nil {
		return room, err
	}
	room.Lights = convertAll(lights, tr1Light.normalize)
	statics, err := ReadCounted[uint16, tr1RoomStaticMesh](r)
	if err != nil {
		return room, err
	}
	room.StaticMeshes = convertAll(statics, tr1RoomStaticMesh.normalize)
	return room, d.readRoomTail(&room)
}

func (d *decoder) readRoomTR2() (Room, error) {
	var room Room
	r := d.r
	if err := r.Read(&room.Info); err != nil {
		return room, err
	}
	if err := roomGeometry(d, &room, tr2RoomVertex.normalize); err != nil {
		return room, err
	}
	var err error
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

func (d *decoder) readRoomTR3() (Room, error) {
	var room Room
	r := d.r
	if err := r.Read(&room.Info); err != nil {
		return room, err
	}
	if err := roomGeometry(d, &room, tr3RoomVertex.normalize); err != nil {
		return room, err
	}
	var err error
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
	// Trailing filler byte.
	return room, r.Skip(1)
}

func (d *decoder) readRoomTR4() (Room, error) {
	var room Room
	r := d.r
	if err := r.Read(&room.Info); err != nil {
		return room, err
	}
	if err := roomGeometry(d, &room, tr3RoomVertex.normalize); err != nil {
		return room, err
	}
	var err error
	if room.Portals, err = ReadCounted[uint16, Portal](r); err != nil {
		return room, err
	}
	if err := d.readSectors(&room); err != nil {
		return room, err
	}
	if room.Colour, err = r.U32(); err != nil {
		return room, err
	}
	lights, err := ReadCounted[uint16, tr4Light](r)
	if err != nil {
		return room, err
	}
	room.Lights = convertAll(lights, tr4Light.normalize)
	if room.StaticMeshes, err = ReadCounted[uint16, RoomStaticMesh](r); err != nil {
		return room, err
	}
	if err := d.readRoomTail(&room); err != nil {
		return room, err
	}
	room.AlternateGroup, err = r.U8()
	return room, err
}

// readRoomTail reads the alternate room and flags, then for TR3 onwards the
// water scheme and reverb bytes.
func (d *decoder) readRoomTail(room *Room) error {
	r := d.r
	var err error
	if room.AlternateRoom, err = r.I16(); err != nil {
		return err
	}
	if room.Flags, err = r.U16(); err != nil {
		return err
	}
	if d.level.format.Version < Tomb3 {
		return nil
	}
	if room.WaterScheme, err = r.U8(); err != nil {
		return err
	}
	room.ReverbInfo, err = r.U8()
	return err
}

// readRoomTR5 reads an "XELA" room. The header carries offsets, relative to
// the end of the header, for each block of the room.
func (d *decoder) readRoomTR5() (Room, error) {
	var room Room
	r := d.r
	if err := d.expectMarker("XELA"); err != nil {
		return room, err
	}
	size, err := r.U32()
	if err != nil {
		return room, err
	}
	roomEnd := r.Position() + int(size)

	var h tr5RoomHeader
	if err := r.Read(&h); err != nil {
		return room, err
	}
	dataStart := r.Position()
	room.Info = RoomInfo{X: h.X, Z: h.Z, YBottom: h.YBottom, YTop: h.YTop}
	room.NumXSectors, room.NumZSectors = h.NumXSectors, h.NumZSectors
	room.Colour = h.Colour
	room.ReverbInfo = h.ReverbInfo
	room.AlternateGroup = h.AlternateGroup
	room.WaterScheme = uint8(h.WaterScheme)
	room.AlternateRoom = int16(h.AlternateRoom)
	room.Flags = h.Flags

	lights, err := ReadVector[tr5Light](r, int(h.NumLights))
	if err != nil {
		return room, fmt.Errorf("lights: %w", err)
	}
	room.Lights = convertAll(lights, tr5Light.normalize)
	fog, err := ReadVector[tr5FogBulb](r, int(h.NumFogBulbs))
	if err != nil {
		return room, fmt.Errorf("fog bulbs: %w", err)
	}
	room.Lights = append(room.Lights, convertAll(fog, tr5FogBulb.normalize)...)

	if err := r.SetPosition(dataStart + int(h.StartSDOffset)); err != nil {
		return room, err
	}
	if room.Sectors, err = ReadVector[RoomSector](r, int(h.NumZSectors)*int(h.NumXSectors)); err != nil {
		return room, fmt.Errorf("sectors: %w", err)
	}
	if room.Portals, err = ReadCounted[uint16, Portal](r); err != nil {
		return room, fmt.Errorf("portals: %w", err)
	}

	if err := r.SetPosition(dataStart + int(h.EndPortalOffset)); err != nil {
		return room, err
	}
	if room.StaticMeshes, err = ReadVector[RoomStaticMesh](r, int(h.NumStatics)); err != nil {
		return room, fmt.Errorf("static meshes: %w", err)
	}

	if err := r.SetPosition(dataStart + int(h.LayerOffset)); err != nil {
		return room, err
	}
	layers, err := ReadVector[tr5RoomLayer](r, int(h.NumLayers))
	if err != nil {
		return room, fmt.Errorf("layers: %w", err)
	}

	if err := r.SetPosition(dataStart + int(h.PolyOffset)); err != nil {
		return room, err
	}
	var base uint16
	for i, layer := range layers {
		rects, err := ReadVector[tr4MeshFace4](r, int(layer.NumRectangles))
		if err != nil {
			return room, fmt.Errorf("layer %d rectangles: %w", i, err)
		}
		tris, err := ReadVector[tr4MeshFace3](r, int(layer.NumTriangles))
		if err != nil {
			return room, fmt.Errorf("layer %d triangles: %w", i, err)
		}
		for _, f := range rects {
			room.Rectangles = append(room.Rectangles, f.normalize().offset(base))
		}
		for _, f := range tris {
			room.Triangles = append(room.Triangles, f.normalize().offset(base))
		}
		base += uint16(layer.NumVertices)
	}

	if err := r.SetPosition(dataStart + int(h.VerticesOffset)); err != nil {
		return room, err
	}
	for i, layer := range layers {
		verts, err := ReadVector[tr5RoomVertex](r, int(layer.NumVertices))
		if err != nil {
			return room, fmt.Errorf("layer %d vertices: %w", i, err)
		}
		room.Vertices = append(room.Vertices, convertAll(verts, tr5RoomVertex.normalize)...)
	}

	return room, r.SetPosition(roomEnd)
}

// readRoomTR5Remastered reads a room from a remastered TR5 level, which drops
// the offset table in favour of plain counted lists.
func (d *decoder) readRoomTR5Remastered() (Room, error) {
	var room Room
	r := d.r
	if err := r.Read(&room.Info); err != nil {
		return room, err
	}
	var err error
	if room.Portals, err = ReadCounted[uint16, Portal](r); err != nil {
		return room, err
	}
	if err := d.readSectors(&room); err != nil {
		return room, err
	}
	if room.Colour, err = r.U32(); err != nil {
		return room, err
	}
	lights, err := ReadCounted[uint16, tr5Light](r)
	if err != nil {
		return room, err
	}
	room.Lights = convertAll(lights, tr5Light.normalize)
	fog, err := ReadCounted[uint32, tr5FogBulb](r)
	if err != nil {
		return room, err
	}
	room.Lights = append(room.Lights, convertAll(fog, tr5FogBulb.normalize)...)
	if room.StaticMeshes, err = ReadCounted[uint16, RoomStaticMesh](r); err != nil {
		return room, err
	}
	if err := d.readRoomTail(&room); err != nil {
		return room, err
	}
	if room.AlternateGroup, err = r.U8(); err != nil {
		return room, err
	}

	layers, err := ReadCounted[uint32, remasteredRoomLayer](r)
	if err != nil {
		return room, fmt.Errorf("layers: %w", err)
	}
	var base uint16
	for i, layer := range layers {
		verts, err := ReadVector[tr5RoomVertex](r, int(layer.NumVertices))
		if err != nil {
			return room, fmt.Errorf("layer %d vertices: %w", i, err)
		}
		rects, err := ReadVector[tr4MeshFace4](r, int(layer.NumRectangles))
		if err != nil {
			return room, fmt.Errorf("layer %d rectangles: %w", i, err)
		}
		tris, err := ReadVector[tr4MeshFace3](r, int(layer.NumTriangles))
		if err != nil {
			return room, fmt.Errorf("layer %d triangles: %w", i, err)
		}
		room.Vertices = append(room.Vertices, convertAll(verts, tr5RoomVertex.normalize)...)
		for _, f := range rects {
			room.Rectangles = append(room.Rectangles, f.normalize().offset(base))
		}
		for _, f := range tris {
			room.Triangles = append(room.Triangles, f.normalize().offset(base))
		}
		base += uint16(layer.NumVertices)
	}

	// Trailing word with no known use.
	_, err = r.I32()
	return room, err
}

type remasteredRoomLayer struct {
	NumVertices   uint32
	NumRectangles uint16
	NumTriangles  uint16
}

func (v tr1RoomVertex) normalize() RoomVertex {
	return RoomVertex{
		Position: vertexPosition(v.Vertex),
		Lighting: v.Lighting,
	}
}

func (v tr2RoomVertex) normalize() RoomVertex {
	return RoomVertex{
		Position:   vertexPosition(v.Vertex),
		Lighting:   v.Lighting,
		Lighting2:  v.Lighting2,
		Attributes: v.Attributes,
	}
}

func (v tr3RoomVertex) normalize() RoomVertex {
	return RoomVertex{
		Position:   vertexPosition(v.Vertex),
		Lighting:   v.Lighting,
		Attributes: v.Attributes,
		Colour:     colour555(v.Colour),
	}
}

func (v tr5RoomVertex) normalize() RoomVertex {
	return RoomVertex{
		Position: trmath.Vec3{X: v.X, Y: v.Y, Z: v.Z},
		Normal:   trmath.Vec3{X: v.NX, Y: v.NY, Z: v.NZ},
		Colour:   v.Colour,
	}
}

func vertexPosition(v Vertex) trmath.Vec3 {
	return trmath.Vec3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// colour555 expands a 15-bit colour to opaque ARGB.
func colour555(c uint16) uint32 {
	r := uint32(c>>10) & 0x1F
	g := uint32(c>>5) & 0x1F
	b := uint32(c) & 0x1F
	return 0xFF000000 | (r<<3|r>>2)<<16 | (g<<3|g>>2)<<8 | (b<<3 | b>>2)
}

func (f Face4) normalize(v LevelVersion) Rectangle {
	out := Rectangle{Vertices: f.Vertices, Texture: f.Texture}
	if v >= Tomb3 {
		out.Texture = f.Texture & 0x7FFF
		out.DoubleSided = f.Texture&0x8000 != 0
	}
	return out
}

func (f Face3) normalize(v LevelVersion) Triangle {
	out := Triangle{Vertices: f.Vertices, Texture: f.Texture}
	if v >= Tomb3 {
		out.Texture = f.Texture & 0x7FFF
		out.DoubleSided = f.Texture&0x8000 != 0
	}
	return out
}

func (f tr4MeshFace4) normalize() Rectangle {
	return Rectangle{
		Vertices:    f.Vertices,
		Texture:     f.Texture & 0x7FFF,
		Effects:     f.Effects,
		DoubleSided: f.Texture&0x8000 != 0,
	}
}

func (f tr4MeshFace3) normalize() Triangle {
	return Triangle{
		Vertices:    f.Vertices,
		Texture:     f.Texture & 0x7FFF,
		Effects:     f.Effects,
		DoubleSided: f.Texture&0x8000 != 0,
	}
}

func (f Rectangle) offset(base uint16) Rectangle {
	for i := range f.Vertices {
		f.Vertices[i] += base
	}
	return f
}

func (f Triangle) offset(base uint16) Triangle {
	for i := range f.Vertices {
		f.Vertices[i] += base
	}
	return f
}

func (l tr1Light) normalize() Light {
	return Light{
		X:         l.X,
		Y:         l.Y,
		Z:         l.Z,
		Type:      LightPoint,
		Intensity: int32(l.Intensity),
		Fade:      int32(l.Fade),
	}
}

func (l tr2Light) normalize() Light {
	return Light{
		X:          l.X,
		Y:          l.Y,
		Z:          l.Z,
		Type:       LightPoint,
		Intensity:  int32(l.Intensity1),
		Intensity2: int32(l.Intensity2),
		Fade:       int32(l.Fade1),
		Fade2:      int32(l.Fade2),
	}
}

// normalize unpacks the 8-byte payload: a direction for suns, intensity and
// fade for point lights.
func (l tr3Light) normalize() Light {
	out := Light{X: l.X, Y: l.Y, Z: l.Z, Type: LightType(l.Type), Colour: l.Colour}
	switch out.Type {
	case LightSun:
		out.Direction = trmath.Vec3{
			X: float32(int16(binary.LittleEndian.Uint16(l.Data[0:]))),
			Y: float32(int16(binary.LittleEndian.Uint16(l.Data[2:]))),
			Z: float32(int16(binary.LittleEndian.Uint16(l.Data[4:]))),
		}
	default:
		out.Intensity = int32(binary.LittleEndian.Uint32(l.Data[0:]))
		out.Fade = int32(binary.LittleEndian.Uint32(l.Data[4:]))
	}
	return out
}

func (l tr4Light) normalize() Light {
	return Light{
		X:         l.X,
		Y:         l.Y,
		Z:         l.Z,
		Type:      LightType(l.Type),
		Colour:    l.Colour,
		Intensity: int32(l.Intensity),
		In:        l.In,
		Out:       l.Out,
		Length:    l.Length,
		Cutoff:    l.Cutoff,
		Direction: trmath.Vec3{X: l.DX, Y: l.DY, Z: l.DZ},
	}
}

func (l tr5Light) normalize() Light {
	return Light{
		X:         int32(l.X),
		Y:         int32(l.Y),
		Z:         int32(l.Z),
		Type:      LightType(l.Type),
		Colour:    Colour{unitToByte(l.R), unitToByte(l.G), unitToByte(l.B)},
		In:        l.In,
		Out:       l.Out,
		RadIn:     l.RadIn,
		RadOut:    l.RadOut,
		Range:     l.Range,
		Direction: trmath.Vec3{X: l.DX, Y: l.DY, Z: l.DZ},
	}
}

func (f tr5FogBulb) normalize() Light {
	return Light{
		X:      int32(f.X),
		Y:      int32(f.Y),
		Z:      int32(f.Z),
		Type:   LightFogBulb,
		Colour: Colour{unitToByte(f.R), unitToByte(f.G), unitToByte(f.B)},
		In:     f.In,
		Out:    f.Out,
	}
}

func unitToByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v * 255)
	}
}

func (s tr1RoomStaticMesh) normalize() RoomStaticMesh {
	return RoomStaticMesh{
		X:        s.X,
		Y:        s.Y,
		Z:        s.Z,
		Rotation: s.Rotation,
		Colour:   s.Intensity,
		MeshID:   s.MeshID,
	}
}

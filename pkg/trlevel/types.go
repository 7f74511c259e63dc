package trlevel

// On-disk records. Every struct here is packed little-endian and decoded with
// encoding/binary, which ignores Go alignment, so field order and width must
// match the file exactly. Reserved fields are named and kept, never skipped.

// Colour is an 8-bit RGB triple. TR1 palettes store 6-bit components.
type Colour struct {
	R, G, B uint8
}

// Colour4 is an RGBA (or RGB plus padding) quad.
type Colour4 struct {
	R, G, B, A uint8
}

// Vertex is a packed 16-bit position.
type Vertex struct {
	X, Y, Z int16
}

// RoomInfo places a room in the world.
type RoomInfo struct {
	X, Z    int32
	YBottom int32
	YTop    int32
}

type tr1RoomVertex struct {
	Vertex   Vertex
	Lighting int16
}

type tr2RoomVertex struct {
	Vertex     Vertex
	Lighting   int16
	Attributes uint16
	Lighting2  int16
}

type tr3RoomVertex struct {
	Vertex     Vertex
	Lighting   int16
	Attributes uint16
	Colour     uint16 // 15-bit 555 colour
}

type tr5RoomVertex struct {
	X, Y, Z    float32
	NX, NY, NZ float32
	Colour     uint32 // ARGB
}

// Face4 is a quad. Texture holds an object texture index, or a palette index
// for coloured faces; TR3 onwards uses bit 15 as the double-sided flag.
type Face4 struct {
	Vertices [4]uint16
	Texture  uint16
}

// Face3 is a triangle.
type Face3 struct {
	Vertices [3]uint16
	Texture  uint16
}

type tr4MeshFace4 struct {
	Vertices [4]uint16
	Texture  uint16
	Effects  uint16
}

type tr4MeshFace3 struct {
	Vertices [3]uint16
	Texture  uint16
	Effects  uint16
}

// RoomSprite places a sprite texture on a room vertex.
type RoomSprite struct {
	Vertex  int16
	Texture int16
}

// Portal is a window from one room into an adjoining one.
type Portal struct {
	AdjoiningRoom uint16
	Normal        Vertex
	Vertices      [4]Vertex
}

// RoomSector is one cell of a room's floor grid as stored on disk.
type RoomSector struct {
	FloorDataIndex uint16
	BoxIndex       uint16
	RoomBelow      uint8
	Floor          int8
	RoomAbove      uint8
	Ceiling        int8
}

type tr1Light struct {
	X, Y, Z   int32
	Intensity uint16
	Fade      uint32
}

type tr2Light struct {
	X, Y, Z    int32
	Intensity1 uint16
	Intensity2 uint16
	Fade1      uint32
	Fade2      uint32
}

type tr3Light struct {
	X, Y, Z int32
	Colour  Colour
	Type    uint8
	Data    [8]byte // sun: nx, ny, nz int16 + reserved; point: intensity, fade int32
}

type tr4Light struct {
	X, Y, Z    int32
	Colour     Colour
	Type       uint8
	Unknown    uint8
	Intensity  uint8
	In, Out    float32
	Length     float32
	Cutoff     float32
	DX, DY, DZ float32
}

type tr5Light struct {
	X, Y, Z       float32
	R, G, B       float32
	Separator     uint32
	In, Out       float32
	RadIn, RadOut float32
	Range         float32
	DX, DY, DZ    float32
	X2, Y2, Z2    int32
	DX2, DY2, DZ2 int32
	Type          uint8
	Filler        [3]uint8
}

type tr5FogBulb struct {
	X, Y, Z   float32
	R, G, B   float32
	Separator uint32
	In, Out   float32
}

type tr1RoomStaticMesh struct {
	X, Y, Z   int32
	Rotation  uint16
	Intensity uint16
	MeshID    uint16
}

// RoomStaticMesh is a static mesh instance inside a room. TR1 records are
// widened to this layout with Colour taken from the intensity.
type RoomStaticMesh struct {
	X, Y, Z  int32
	Rotation uint16
	Colour   uint16
	Unused   uint16
	MeshID   uint16
}

// Animation is the TR1 to TR3 animation record. TR4 onwards adds lateral
// speed and acceleration, which are zero for earlier versions.
type Animation struct {
	FrameOffset       uint32
	FrameRate         uint8
	FrameSize         uint8
	StateID           uint16
	Speed             int32
	Accel             int32
	SpeedLateral      int32
	AccelLateral      int32
	FrameStart        uint16
	FrameEnd          uint16
	NextAnimation     uint16
	NextFrame         uint16
	NumStateChanges   uint16
	StateChangeOffset uint16
	NumAnimCommands   uint16
	AnimCommand       uint16
}

type tr1Animation struct {
	FrameOffset       uint32
	FrameRate         uint8
	FrameSize         uint8
	StateID           uint16
	Speed             int32
	Accel             int32
	FrameStart        uint16
	FrameEnd          uint16
	NextAnimation     uint16
	NextFrame         uint16
	NumStateChanges   uint16
	StateChangeOffset uint16
	NumAnimCommands   uint16
	AnimCommand       uint16
}

type tr4Animation = Animation

func (a tr1Animation) normalize() Animation {
	return Animation{
		FrameOffset:       a.FrameOffset,
		FrameRate:         a.FrameRate,
		FrameSize:         a.FrameSize,
		StateID:           a.StateID,
		Speed:             a.Speed,
		Accel:             a.Accel,
		FrameStart:        a.FrameStart,
		FrameEnd:          a.FrameEnd,
		NextAnimation:     a.NextAnimation,
		NextFrame:         a.NextFrame,
		NumStateChanges:   a.NumStateChanges,
		StateChangeOffset: a.StateChangeOffset,
		NumAnimCommands:   a.NumAnimCommands,
		AnimCommand:       a.AnimCommand,
	}
}

// StateChange links an animation state to a set of dispatches.
type StateChange struct {
	StateID         uint16
	NumAnimDispatch uint16
	AnimDispatch    uint16
}

// AnimDispatch switches animation within a frame range.
type AnimDispatch struct {
	Low           int16
	High          int16
	NextAnimation int16
	NextFrame     int16
}

// Model binds a moveable object type to its meshes and animations.
type Model struct {
	ID           uint32
	NumMeshes    uint16
	StartingMesh uint16
	MeshTree     uint32
	FrameOffset  uint32
	Animation    uint16
}

type tr5Model struct {
	Model   Model
	Padding uint16
}

// BoundingBox is an axis-aligned box in model space.
type BoundingBox struct {
	MinX, MaxX int16
	MinY, MaxY int16
	MinZ, MaxZ int16
}

// StaticMesh describes a static object type.
type StaticMesh struct {
	ID         uint32
	Mesh       uint16
	Visibility BoundingBox
	Collision  BoundingBox
	Flags      uint16
}

// ObjectTextureVertex is one UV corner; each axis is a whole pixel plus a
// fractional byte.
type ObjectTextureVertex struct {
	XCoordinate uint8
	XPixel      uint8
	YCoordinate uint8
	YPixel      uint8
}

type tr1ObjectTexture struct {
	Attribute   uint16
	TileAndFlag uint16
	Vertices    [4]ObjectTextureVertex
}

type tr4ObjectTexture struct {
	Attribute   uint16
	TileAndFlag uint16
	NewFlags    uint16
	Vertices    [4]ObjectTextureVertex
	OriginalU   uint32
	OriginalV   uint32
	Width       uint32
	Height      uint32
}

type tr5ObjectTexture struct {
	Texture tr4ObjectTexture
	Padding uint16
}

// SpriteTexture is a rectangle on a texture page used by sprites.
type SpriteTexture struct {
	Tile          uint16
	X, Y          uint8
	Width, Height uint16
	LeftSide      int16
	TopSide       int16
	RightSide     int16
	BottomSide    int16
}

// SpriteSequence maps a sprite object type to a run of sprite textures.
type SpriteSequence struct {
	SpriteID       int32
	NegativeLength int16
	Offset         int16
}

// Length returns the number of sprite textures in the sequence.
func (s SpriteSequence) Length() int {
	return -int(s.NegativeLength)
}

// Camera is the on-disk fixed camera record, shared with sinks.
type Camera struct {
	X, Y, Z int32
	Room    int16
	Flag    uint16
}

// FlybyCamera is a node on a TR4+ flyby path.
type FlybyCamera struct {
	X, Y, Z    int32
	DX, DY, DZ int32
	Sequence   uint8
	Index      uint8
	FOV        uint16
	Roll       int16
	Timer      uint16
	Speed      uint16
	Flags      uint16
	RoomID     uint32
}

// SoundSource is an ambient sound emitter.
type SoundSource struct {
	X, Y, Z int32
	SoundID uint16
	Flags   uint16
}

// Box is a pathfinding area. TR1 stores world units; TR2 onwards stores
// sector units in bytes, which are widened here.
type Box struct {
	ZMin, ZMax   uint32
	XMin, XMax   uint32
	TrueFloor    int16
	OverlapIndex int16
}

type tr2Box struct {
	ZMin, ZMax   uint8
	XMin, XMax   uint8
	TrueFloor    int16
	OverlapIndex int16
}

func (b tr2Box) normalize() Box {
	return Box{
		ZMin:         uint32(b.ZMin) * 1024,
		ZMax:         uint32(b.ZMax) * 1024,
		XMin:         uint32(b.XMin) * 1024,
		XMax:         uint32(b.XMax) * 1024,
		TrueFloor:    b.TrueFloor,
		OverlapIndex: b.OverlapIndex,
	}
}

type tr1Entity struct {
	TypeID     int16
	Room       int16
	X, Y, Z    int32
	Angle      int16
	Intensity1 int16
	Flags      uint16
}

// Entity is a placed item. TR1 records are widened to this layout. From TR4
// onwards Intensity2 holds the OCB.
type Entity struct {
	TypeID     int16
	Room       int16
	X, Y, Z    int32
	Angle      int16
	Intensity1 int16
	Intensity2 int16
	Flags      uint16
}

// AIObject is a TR4+ AI marker.
type AIObject struct {
	TypeID  uint16
	Room    uint16
	X, Y, Z int32
	OCB     int16
	Flags   uint16
	Angle   int32
}

// CinematicFrame is one frame of a TR1 to TR3 cutscene camera track.
type CinematicFrame struct {
	TargetX, TargetY, TargetZ int16
	PosX, PosY, PosZ          int16
	FOV                       int16
	Roll                      int16
}

// SoundDetails describes one sound effect.
type SoundDetails struct {
	Sample          uint16
	Volume          uint16
	Range           uint16
	Chance          uint16
	Pitch           uint16
	Characteristics uint16
}

// NumSamples returns how many consecutive samples the effect picks from.
func (s SoundDetails) NumSamples() int {
	return int(s.Characteristics>>2) & 0x0F
}

type tr1SoundDetails struct {
	Sample          uint16
	Volume          uint16
	Chance          uint16
	Characteristics uint16
}

type tr3SoundDetails struct {
	Sample          uint16
	Volume          uint8
	Range           uint8
	Chance          uint8
	Pitch           uint8
	Characteristics uint16
}

// Textile8 is a 256x256 page of palette indices.
type Textile8 [256 * 256]uint8

// Textile16 is a 256x256 page of ARGB1555 pixels.
type Textile16 [256 * 256]uint16

// Textile32 is a 256x256 page of ARGB8888 pixels.
type Textile32 [256 * 256]uint32

// LightMap holds 32 shade levels of palette remapping.
type LightMap [32 * 256]uint8

type tr5RoomLayer struct {
	NumVertices   uint32
	Unknown1      uint16
	NumRectangles uint16
	NumTriangles  uint16
	Unknown2      uint16
	Filler        [2]uint16
	MinX, MinY    float32
	MinZ          float32
	MaxX, MaxY    float32
	MaxZ          float32
	Filler2       [4]uint32
}

type tr5RoomHeader struct {
	Separator       uint32
	EndSDOffset     uint32
	StartSDOffset   uint32
	Separator2      uint32
	EndPortalOffset uint32
	X, Y, Z         int32
	YBottom, YTop   int32
	NumZSectors     uint16
	NumXSectors     uint16
	Colour          uint32
	NumLights       uint16
	NumStatics      uint16
	ReverbInfo      uint8
	AlternateGroup  uint8
	WaterScheme     uint16
	Filler          [2]uint32
	Separator3      [2]uint32
	Filler2         uint32
	AlternateRoom   uint16
	Flags           uint16
	Unknown1        uint32
	Unknown2        uint32
	Unknown3        uint32
	Separator4      uint32
	Unknown4        uint16
	Unknown5        uint16
	RoomX           float32
	RoomY           float32
	RoomZ           float32
	Separator5      [4]uint32
	Separator6      uint32
	Separator7      uint32
	NumTriangles    uint32
	NumRectangles   uint32
	Separator8      uint32
	LightDataSize   uint32
	NumLights2      uint32
	NumFogBulbs     uint32
	RoomYTop        int32
	RoomYBottom     int32
	NumLayers       uint32
	LayerOffset     uint32
	VerticesOffset  uint32
	PolyOffset      uint32
	PolyOffset2     uint32
	NumVertices     uint32
	Separator9      [4]uint32
}

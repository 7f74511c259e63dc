package trlevel

import "strings"

// SectorFlag summarises what a sector's floordata and raw record contain.
type SectorFlag uint16

// Sector flags.
const (
	SectorFlagNone           SectorFlag = 0
	SectorFlagPortal         SectorFlag = 0x0001
	SectorFlagSpecialWall    SectorFlag = 0x0002
	SectorFlagWall           SectorFlag = 0x0004
	SectorFlagTrigger        SectorFlag = 0x0008
	SectorFlagDeath          SectorFlag = 0x0010
	SectorFlagFloorSlant     SectorFlag = 0x0020
	SectorFlagCeilingSlant   SectorFlag = 0x0040
	SectorFlagClimbableNorth SectorFlag = 0x0080
	SectorFlagClimbableEast  SectorFlag = 0x0100
	SectorFlagClimbableSouth SectorFlag = 0x0200
	SectorFlagClimbableWest  SectorFlag = 0x0400
	SectorFlagMonkeySwing    SectorFlag = 0x0800
	SectorFlagRoomAbove      SectorFlag = 0x1000
	SectorFlagRoomBelow      SectorFlag = 0x2000
	SectorFlagMinecartLeft   SectorFlag = 0x4000
	SectorFlagMinecartRight  SectorFlag = 0x8000
)

var sectorFlagNames = []struct {
	flag SectorFlag
	name string
}{
	{SectorFlagPortal, "portal"},
	{SectorFlagSpecialWall, "special wall"},
	{SectorFlagWall, "wall"},
	{SectorFlagTrigger, "trigger"},
	{SectorFlagDeath, "death"},
	{SectorFlagFloorSlant, "floor slant"},
	{SectorFlagCeilingSlant, "ceiling slant"},
	{SectorFlagClimbableNorth, "climbable north"},
	{SectorFlagClimbableEast, "climbable east"},
	{SectorFlagClimbableSouth, "climbable south"},
	{SectorFlagClimbableWest, "climbable west"},
	{SectorFlagMonkeySwing, "monkey swing"},
	{SectorFlagRoomAbove, "room above"},
	{SectorFlagRoomBelow, "room below"},
	{SectorFlagMinecartLeft, "minecart left"},
	{SectorFlagMinecartRight, "minecart right"},
}

func (f SectorFlag) String() string {
	if f == SectorFlagNone {
		return "none"
	}
	var names []string
	for _, n := range sectorFlagNames {
		if f&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, ", ")
}

const (
	wallHeight = -127
	noRoom     = 0xFF
)

// Sector is the decoded view of one grid cell. It refers to the shared
// floordata by offset and never holds a copy of it.
type Sector struct {
	ID   int
	Room uint16
	X, Z int

	FloorDataIndex uint16
	BoxIndex       uint16
	Floor          int8
	Ceiling        int8
	RoomAbove      uint8
	RoomBelow      uint8

	Flags        SectorFlag
	Portal       uint16
	FloorSlant   uint16
	CeilingSlant uint16

	// Corners are the floor heights of the four corners in sector units,
	// ordered 00, 01, 10, 11 in x, z.
	Corners        [4]float32
	CeilingCorners [4]float32

	FloorTriangulation   *Triangulation
	CeilingTriangulation *Triangulation

	version LevelVersion
	trigger *TriggerData
}

// HasFlag reports whether every bit of flag is set.
func (s Sector) HasFlag(flag SectorFlag) bool { return s.Flags&flag == flag }

// IsWall reports whether the sector is solid.
func (s Sector) IsWall() bool { return s.HasFlag(SectorFlagWall) }

// Trigger returns the sector's trigger function, if any.
func (s Sector) Trigger() (TriggerData, bool) {
	if s.trigger == nil {
		return TriggerData{}, false
	}
	return *s.trigger, true
}

// Box returns the pathfinding box index. TR3 onwards packs a material into
// the low four bits.
func (s Sector) Box() uint16 {
	if s.version >= Tomb3 {
		return s.BoxIndex >> 4
	}
	return s.BoxIndex
}

// Material returns the TR3+ footstep material, or zero.
func (s Sector) Material() uint8 {
	if s.version >= Tomb3 {
		return uint8(s.BoxIndex & 0x0F)
	}
	return 0
}

func newSector(v LevelVersion, floorData []uint16, raw RoomSector, room *Room, roomNumber uint16, id int) (Sector, error) {
	numZ := max(int(room.NumZSectors), 1)
	s := Sector{
		ID:             id,
		Room:           roomNumber,
		X:              id / numZ,
		Z:              id % numZ,
		FloorDataIndex: raw.FloorDataIndex,
		BoxIndex:       raw.BoxIndex,
		Floor:          raw.Floor,
		Ceiling:        raw.Ceiling,
		RoomAbove:      raw.RoomAbove,
		RoomBelow:      raw.RoomBelow,
		version:        v,
	}
	if raw.Floor == wallHeight && raw.Ceiling == wallHeight {
		s.Flags |= SectorFlagWall
	}
	if raw.RoomAbove != noRoom {
		s.Flags |= SectorFlagRoomAbove
	}
	if raw.RoomBelow != noRoom {
		s.Flags |= SectorFlagRoomBelow
	}

	fd, err := ParseFloorData(floorData, int(raw.FloorDataIndex))
	if err != nil {
		return s, err
	}
	s.Flags |= fd.Flags
	s.Portal = fd.Portal
	s.FloorSlant = fd.FloorSlant
	s.CeilingSlant = fd.CeilingSlant
	s.FloorTriangulation = fd.Floor
	s.CeilingTriangulation = fd.Ceiling
	s.trigger = fd.Trigger

	s.computeCorners(room)
	return s, nil
}

func (s *Sector) computeCorners(room *Room) {
	floor := float32(s.Floor) * 0.25
	ceiling := float32(s.Ceiling) * 0.25
	if s.IsWall() {
		floor = float32(room.Info.YBottom) / 1024
		ceiling = float32(room.Info.YTop) / 1024
	}
	s.Corners = [4]float32{floor, floor, floor, floor}
	s.CeilingCorners = [4]float32{ceiling, ceiling, ceiling, ceiling}

	if s.HasFlag(SectorFlagFloorSlant) {
		applySlant(&s.Corners, s.FloorSlant)
	}
	if s.HasFlag(SectorFlagCeilingSlant) {
		applySlant(&s.CeilingCorners, s.CeilingSlant)
	}
	if t := s.FloorTriangulation; t != nil {
		adj := triangulationAdjust(t.Corners)
		for i := range s.Corners {
			s.Corners[i] += adj[i]
		}
	}
	if t := s.CeilingTriangulation; t != nil {
		adj := triangulationAdjust(t.Corners)
		for i := range s.CeilingCorners {
			s.CeilingCorners[i] -= adj[len(adj)-1-i]
		}
	}
}

// applySlant tilts corners by the signed x and z bytes of a slant word.
func applySlant(c *[4]float32, slant uint16) {
	x := float32(int8(slant&0xFF)) * 0.25
	z := float32(int8(slant>>8)) * 0.25
	if x > 0 {
		c[0] += x
		c[1] += x
	} else if x < 0 {
		c[2] -= x
		c[3] -= x
	}
	if z > 0 {
		c[0] += z
		c[2] += z
	} else if z < 0 {
		c[1] -= z
		c[3] -= z
	}
}

// triangulationAdjust unpacks the four corner nibbles as offsets from the
// highest corner.
func triangulationAdjust(v uint16) [4]float32 {
	c := [4]uint16{
		(v & 0x00F0) >> 4,
		(v & 0x0F00) >> 8,
		v & 0x000F,
		(v & 0xF000) >> 12,
	}
	top := max(c[0], c[1], c[2], c[3])
	var out [4]float32
	for i, h := range c {
		out[i] = float32(top-h) * 0.25
	}
	return out
}

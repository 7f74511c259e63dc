package trlevel

import (
	"slices"

	trmath "github.com/Faultbox/trlevel/pkg/math"
)

// Entity flag bits.
const (
	itemActivationMask = 0x3E00
	itemClearBody      = 0x8000
	itemInvisible      = 0x0100
)

// TR1 mutant eggs hatch the type selected by their activation bits.
const (
	mutantEggSmall = 163
	mutantEggBig   = 181
)

var (
	ocbPickupTR4 = []int32{0, 3, 4}
	ocbPickupTR5 = []int32{0, 3, 4, 5, 6, 7, 8, 11}
)

// Item is a placed entity or, from TR4 onwards, an AI object. Both share the
// item number space with entities first.
type Item struct {
	Number     int
	TypeID     uint32
	Type       string
	Categories []string
	Room       uint16
	X, Y, Z    int32
	Angle      int32
	Intensity1 int16
	Intensity2 int16
	OCB        int32
	Flags      uint16
	AI         bool

	version LevelVersion
}

// Position returns the item position in sector units.
func (i Item) Position() trmath.Vec3 {
	return trmath.FromWorld(i.X, i.Y, i.Z)
}

// Yaw returns the item heading in radians.
func (i Item) Yaw() float32 {
	return trmath.AngleFromUnits(i.Angle)
}

// Facing returns the unit vector the item faces on the ground plane. Angle 0
// faces +Z.
func (i Item) Facing() trmath.Vec3 {
	return trmath.QuatFromYXZ(0, i.Yaw(), 0).Rotate(trmath.Vec3{Z: 1})
}

// ActivationMask returns the five code bits the item starts with.
func (i Item) ActivationMask() uint8 {
	return uint8((i.Flags & itemActivationMask) >> 9)
}

// ClearBody reports whether the body is removed by a clear bodies command.
func (i Item) ClearBody() bool { return i.Flags&itemClearBody != 0 }

// Invisible reports whether the item starts hidden.
func (i Item) Invisible() bool { return i.Flags&itemInvisible != 0 }

// IsPickup reports whether the item type is classified as a pickup.
func (i Item) IsPickup() bool { return slices.Contains(i.Categories, CategoryPickup) }

// NeedsOCBAdjustment reports whether a TR4+ pickup still has the OCB bits
// the engine treats as unrotated, meaning tools must apply the pickup
// rotation lock when placing it. Earlier versions have no OCB and always
// report false.
func (i Item) NeedsOCBAdjustment() bool {
	if i.version < Tomb4 || !i.IsPickup() {
		return false
	}
	ocb := i.OCB & 0x3F
	switch i.version {
	case Tomb4:
		return slices.Contains(ocbPickupTR4, ocb)
	default:
		return slices.Contains(ocbPickupTR5, ocb)
	}
}

// EggContents returns the type a TR1 mutant egg hatches. ok is false for
// anything that is not a mutant egg.
func (i Item) EggContents() (typeID uint32, ok bool) {
	if i.version != Tomb1 || (i.TypeID != mutantEggSmall && i.TypeID != mutantEggBig) {
		return 0, false
	}
	switch i.ActivationMask() {
	case 1:
		return 21, true
	case 2:
		return 23, true
	case 4:
		return 34, true
	case 8:
		return 22, true
	default:
		return 20, true
	}
}

func newItem(number int, v LevelVersion, info *TypeInfoLookup, e Entity) Item {
	typeID := uint32(uint16(e.TypeID))
	t := info.Lookup(v, typeID)
	it := Item{
		Number:     number,
		TypeID:     typeID,
		Type:       t.Name,
		Categories: t.Categories,
		Room:       uint16(e.Room),
		X:          e.X,
		Y:          e.Y,
		Z:          e.Z,
		Angle:      int32(e.Angle),
		Intensity1: e.Intensity1,
		Intensity2: e.Intensity2,
		Flags:      e.Flags,
		version:    v,
	}
	if v >= Tomb4 {
		it.OCB = int32(e.Intensity2)
	}
	return it
}

func newAIItem(number int, v LevelVersion, info *TypeInfoLookup, a AIObject) Item {
	t := info.Lookup(v, uint32(a.TypeID))
	return Item{
		Number:     number,
		TypeID:     uint32(a.TypeID),
		Type:       t.Name,
		Categories: t.Categories,
		Room:       a.Room,
		X:          a.X,
		Y:          a.Y,
		Z:          a.Z,
		Angle:      a.Angle,
		OCB:        int32(a.OCB),
		Flags:      a.Flags,
		AI:         true,
		version:    v,
	}
}

// buildItems numbers entities first and AI objects after them.
func (l *Level) buildItems(info *TypeInfoLookup) {
	v := l.format.Version
	l.items = make([]Item, 0, len(l.entities)+len(l.aiObjects))
	for _, e := range l.entities {
		l.items = append(l.items, newItem(len(l.items), v, info, e))
	}
	for _, a := range l.aiObjects {
		l.items = append(l.items, newAIItem(len(l.items), v, info, a))
	}
}

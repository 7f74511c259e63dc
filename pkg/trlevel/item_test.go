package trlevel

import (
	"testing"

	trmath "github.com/Faultbox/trlevel/pkg/math"
)

func TestItem_NeedsOCBAdjustment(t *testing.T) {
	info := DefaultTypeInfo()
	const (
		smallMediTR3 = 176
		smallMediTR4 = 370
		smallMediTR5 = 384
		dogTR4       = 69
	)

	tests := []struct {
		name    string
		version LevelVersion
		typeID  int16
		ocb     int16
		want    bool
	}{
		{"tr4 pickup unmodified", Tomb4, smallMediTR4, 0, true},
		{"tr4 pickup ocb 3", Tomb4, smallMediTR4, 3, true},
		{"tr4 pickup high bits ignored", Tomb4, smallMediTR4, 0x40 | 4, true},
		{"tr4 pickup modified", Tomb4, smallMediTR4, 1, false},
		{"tr4 pickup tr5-only value", Tomb4, smallMediTR4, 11, false},
		{"tr5 pickup ocb 11", Tomb5, smallMediTR5, 11, true},
		{"tr5 pickup modified", Tomb5, smallMediTR5, 2, false},
		{"tr3 pickup", Tomb3, smallMediTR3, 0, false},
		{"tr4 non-pickup", Tomb4, dogTR4, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := Entity{TypeID: tc.typeID, Intensity2: tc.ocb}
			it := newItem(0, tc.version, info, e)
			if got := it.NeedsOCBAdjustment(); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestItem_OCBOnlyFromTR4(t *testing.T) {
	e := Entity{TypeID: 1, Intensity1: 10, Intensity2: 42}
	if it := newItem(0, Tomb3, nil, e); it.OCB != 0 {
		t.Errorf("expected no OCB before TR4, got %d", it.OCB)
	}
	if it := newItem(0, Tomb4, nil, e); it.OCB != 42 {
		t.Errorf("expected OCB 42, got %d", it.OCB)
	}
}

func TestItem_Flags(t *testing.T) {
	it := Item{Flags: 0x8000 | 0x3E00 | 0x0100}
	if !it.ClearBody() || !it.Invisible() || it.ActivationMask() != 0x1F {
		t.Errorf("unexpected flag decode: clear %v invisible %v mask %x", it.ClearBody(), it.Invisible(), it.ActivationMask())
	}
	if (Item{}).ClearBody() || (Item{}).Invisible() {
		t.Error("expected no flags on a zero item")
	}
}

func TestItem_EggContents(t *testing.T) {
	tests := []struct {
		mask uint16
		want uint32
	}{
		{1, 21},
		{2, 23},
		{4, 34},
		{8, 22},
		{0, 20},
		{0x1F, 20},
	}

	for _, tc := range tests {
		it := Item{TypeID: mutantEggBig, Flags: tc.mask << 9, version: Tomb1}
		got, ok := it.EggContents()
		if !ok || got != tc.want {
			t.Errorf("mask %x: expected %d, got %d %v", tc.mask, tc.want, got, ok)
		}
	}

	if _, ok := (Item{TypeID: mutantEggBig, version: Tomb2}).EggContents(); ok {
		t.Error("eggs only exist in TR1")
	}
	if _, ok := (Item{TypeID: 7, version: Tomb1}).EggContents(); ok {
		t.Error("expected no contents for a wolf")
	}
}

func TestLevel_BuildItems(t *testing.T) {
	l := &Level{
		format:    Format{Version: Tomb4, Platform: PC},
		entities:  []Entity{{TypeID: 0, Room: 1}, {TypeID: 370, Room: 2}},
		aiObjects: []AIObject{{TypeID: 398, Room: 1, OCB: 7, Angle: 16384}},
	}
	l.buildItems(DefaultTypeInfo())

	if l.NumItems() != 3 {
		t.Fatalf("expected 3 items, got %d", l.NumItems())
	}
	ai := l.Item(2)
	if !ai.AI || ai.Number != 2 || ai.OCB != 7 {
		t.Errorf("unexpected AI item %+v", ai)
	}
	if ai.Type != "AI Guard" {
		t.Errorf("expected AI Guard, got %q", ai.Type)
	}
	if got := l.ItemsInRoom(1); len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("unexpected items in room 1: %v", got)
	}
}

func TestItem_Facing(t *testing.T) {
	tests := []struct {
		angle int32
		want  trmath.Vec3
	}{
		{0, trmath.Vec3{Z: 1}},
		{16384, trmath.Vec3{X: 1}},
		{-32768, trmath.Vec3{Z: -1}},
		{-16384, trmath.Vec3{X: -1}},
	}
	for _, tc := range tests {
		if got := (Item{Angle: tc.angle}).Facing(); !nearVec3(got, tc.want) {
			t.Errorf("angle %d: expected %v, got %v", tc.angle, tc.want, got)
		}
	}
}

func TestLevel_ItemsNear(t *testing.T) {
	l := &Level{items: []Item{
		{X: 1024, Y: 0, Z: 1024},
		{X: 1024, Y: -8192, Z: 2048},
		{X: 5120, Y: 0, Z: 1024},
	}}
	// Height is ignored, so the second item is one sector away.
	got := l.ItemsNear(trmath.Vec3{X: 1, Y: 0, Z: 1}, 1)
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("expected items 0 and 1, got %v", got)
	}
	if got := l.ItemsNear(trmath.Vec3{X: 20, Z: 20}, 1); len(got) != 0 {
		t.Errorf("expected no items, got %v", got)
	}
}

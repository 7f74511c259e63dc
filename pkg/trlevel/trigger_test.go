package trlevel

import "testing"

func TestTrigger_TimerSignedness(t *testing.T) {
	tests := []struct {
		version LevelVersion
		raw     uint8
		want    int
	}{
		{Tomb1, 248, 248},
		{Tomb3, 248, 248},
		{Tomb4, 248, -8},
		{Tomb5, 248, -8},
		{Tomb4, 5, 5},
		{Tomb3, 0, 0},
	}

	for _, tc := range tests {
		tr := Trigger{rawTimer: tc.raw, version: tc.version}
		if got := tr.Timer(); got != tc.want {
			t.Errorf("%s timer %d: expected %d, got %d", tc.version, tc.raw, tc.want, got)
		}
		if tr.RawTimer() != tc.raw {
			t.Errorf("raw timer changed to %d", tr.RawTimer())
		}
	}
}

func TestTriggerCommandType_Properties(t *testing.T) {
	tests := []struct {
		typ      TriggerCommandType
		name     string
		hasIndex bool
		isItem   bool
	}{
		{TriggerCommandObject, "Item", true, true},
		{TriggerCommandLookAtItem, "Look at Item", true, true},
		{TriggerCommandCamera, "Camera", true, false},
		{TriggerCommandUnderwaterCurrent, "Current", true, false},
		{TriggerCommandEndLevel, "End Level", false, false},
		{TriggerCommandClearBodies, "Clear Bodies", false, false},
		{TriggerCommandFlyby, "Flyby", true, false},
	}

	for _, tc := range tests {
		if tc.typ.String() != tc.name {
			t.Errorf("expected %q, got %q", tc.name, tc.typ.String())
		}
		if tc.typ.HasIndex() != tc.hasIndex {
			t.Errorf("%s: HasIndex expected %v", tc.name, tc.hasIndex)
		}
		if tc.typ.IsItem() != tc.isItem {
			t.Errorf("%s: IsItem expected %v", tc.name, tc.isItem)
		}
	}
}

func TestTriggerType_String(t *testing.T) {
	if TriggerTypeHeavyAntitrigger.String() != "Heavy Antitrigger" {
		t.Errorf("unexpected name %q", TriggerTypeHeavyAntitrigger.String())
	}
	if TriggerType(40).String() != "Unknown(40)" {
		t.Errorf("unexpected name %q", TriggerType(40).String())
	}
}

func TestLevel_BuildTriggers_TR4Timer(t *testing.T) {
	room := testRoom(1, 1)
	room.Sectors[0].FloorDataIndex = 1
	l := &Level{
		format: Format{Version: Tomb4, Platform: PC},
		rooms:  []Room{*room},
		floorData: []uint16{
			0,
			0x8004,
			248,
			0x8000 | uint16(TriggerCommandObject)<<10 | 3,
		},
	}
	if err := l.buildTriggers(); err != nil {
		t.Fatalf("buildTriggers failed: %v", err)
	}
	if len(l.Triggers()) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(l.Triggers()))
	}
	if got := l.Triggers()[0].Timer(); got != -8 {
		t.Errorf("expected signed timer -8, got %d", got)
	}
}

func TestLevel_BuildTriggers_BadFloorData(t *testing.T) {
	room := testRoom(1, 1)
	room.Sectors[0].FloorDataIndex = 9
	l := &Level{
		format:    Format{Version: Tomb2, Platform: PC},
		rooms:     []Room{*room},
		floorData: []uint16{0, 0x8005},
	}
	if err := l.buildTriggers(); err == nil {
		t.Error("expected error for floordata index past the end")
	}
}

package trlevel

import (
	"testing"
)

// populatedTR1 builds a TR1 level with one 1x2 room whose second sector
// carries a trigger, two entities and two camera records.
func populatedTR1() []byte {
	b := &levelBuilder{}
	b.u32(signatureTR1)
	b.u32(0) // textiles
	b.u32(0) // unused

	b.u16(1)
	b.write(RoomInfo{X: 1024, Z: 2048, YBottom: 0, YTop: -2048})
	b.u32(0) // geometry words
	b.u16(0) // portals
	b.u16(2).u16(1)
	b.write(RoomSector{BoxIndex: 0xFFFF, RoomAbove: noRoom, RoomBelow: noRoom, Floor: 0, Ceiling: -8})
	b.write(RoomSector{FloorDataIndex: 1, RoomAbove: noRoom, RoomBelow: noRoom, Floor: 0, Ceiling: -8})
	b.u16(0x1000) // ambient
	b.u16(0)      // lights
	b.u16(0)      // static meshes
	b.write(int16(-1))
	b.u16(uint16(RoomFlagWater))

	floorData := []uint16{
		0,
		0x8004,
		0x3E00 | 248,
		uint16(TriggerCommandObject)<<10 | 1,
		0x8000 | uint16(TriggerCommandUnderwaterCurrent)<<10 | 1,
	}
	b.u32(uint32(len(floorData)))
	b.write(floorData)

	b.counts(2) // mesh data and pointers
	b.counts(1) // animations
	b.counts(5) // state changes to frames
	b.counts(2) // models, static meshes
	b.counts(3) // object textures, sprite textures, sprite sequences

	b.u32(2)
	b.write(Camera{X: 1024, Y: -512, Z: 2048, Room: 0, Flag: 1})
	b.write(Camera{X: 0, Y: 0, Z: 0, Room: 20, Flag: 101})

	b.counts(3) // sound sources, boxes, overlaps
	b.counts(1) // animated textures

	b.u32(2)
	b.write(tr1Entity{TypeID: 163, Room: 0, X: 1536, Y: 0, Z: 2560, Flags: 4 << 9})
	b.write(tr1Entity{TypeID: 93, Room: 0, X: 1536, Y: 0, Z: 3584, Intensity1: -1, Flags: 0x0100})

	b.zeros(32 * 256)
	palette := make([]byte, 768)
	palette[3], palette[4], palette[5] = 63, 32, 1
	b.buf.Write(palette)
	b.u16(0).u16(0)
	b.zeros(256 * 2)
	b.counts(3)
	return b.bytes()
}

func TestLoad_PopulatedTR1(t *testing.T) {
	level, err := Load(populatedTR1())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	room := level.Room(0)
	if room == nil {
		t.Fatal("expected room 0")
	}
	if len(room.Sectors) != int(room.NumXSectors)*int(room.NumZSectors) {
		t.Errorf("sector count %d does not match %dx%d", len(room.Sectors), room.NumXSectors, room.NumZSectors)
	}
	if !room.IsWater() || room.HasAlternate() {
		t.Errorf("unexpected room flags %x alt %d", room.Flags, room.AlternateRoom)
	}

	if c, ok := level.PaletteEntry(1); !ok || c != (Colour{252, 128, 4}) {
		t.Errorf("expected widened palette entry, got %v %v", c, ok)
	}
	if _, ok := level.PaletteEntry(256); ok {
		t.Error("expected no palette entry past the table")
	}

	triggers := level.Triggers()
	if len(triggers) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(triggers))
	}
	tr := triggers[0]
	if tr.X != 0 || tr.Z != 1 || tr.Room != 0 {
		t.Errorf("unexpected trigger location room %d %d,%d", tr.Room, tr.X, tr.Z)
	}
	if tr.Timer() != 248 {
		t.Errorf("expected unsigned timer 248, got %d", tr.Timer())
	}
	if len(level.TriggersForItem(1)) != 1 || len(level.TriggersForItem(0)) != 0 {
		t.Error("unexpected item trigger lookup")
	}

	sinks := level.CameraSinks()
	if len(sinks) != 2 {
		t.Fatalf("expected 2 camera records, got %d", len(sinks))
	}
	if sinks[0].Type != CameraSinkCamera || sinks[1].Type != CameraSinkSink {
		t.Errorf("unexpected classification %s %s", sinks[0].Type, sinks[1].Type)
	}
	if sink, ok := sinks[1].Sink(); !ok || sink.Strength != 20 || sink.BoxIndex != 101 {
		t.Errorf("unexpected sink view %+v", sink)
	}
	if len(sinks[1].InferredRooms) != 1 || sinks[1].InferredRooms[0] != 0 {
		t.Errorf("unexpected inferred rooms %v", sinks[1].InferredRooms)
	}

	if level.NumItems() != 2 {
		t.Fatalf("expected 2 items, got %d", level.NumItems())
	}
	egg := level.Item(0)
	if contents, ok := egg.EggContents(); !ok || contents != 34 {
		t.Errorf("expected egg to hatch 34, got %d %v", contents, ok)
	}
	medi := level.Item(1)
	if !medi.IsPickup() || !medi.Invisible() || medi.NeedsOCBAdjustment() {
		t.Errorf("unexpected medipack %+v", medi)
	}
	if medi.Type != "Small Medipack" {
		t.Errorf("expected type name, got %q", medi.Type)
	}
	if got := level.ItemsInRoom(0); len(got) != 2 {
		t.Errorf("expected 2 items in room 0, got %v", got)
	}
	if level.Item(2) != nil {
		t.Error("expected nil item past the end")
	}

	s, ok := level.Sector(0, 0, 1)
	if !ok || !s.HasFlag(SectorFlagTrigger) {
		t.Errorf("expected trigger sector, got %+v", s)
	}
}

func TestLevel_Accessors_OutOfRange(t *testing.T) {
	l := &Level{format: Format{Version: Tomb4, Platform: PC}}
	if l.Room(0) != nil || l.Room(-1) != nil {
		t.Error("expected nil room")
	}
	if l.Textile32(0) != nil || l.Textile16(0) != nil || l.Textile8(0) != nil {
		t.Error("expected nil textile")
	}
	if _, ok := l.PaletteEntry(0); ok {
		t.Error("TR4 has no palette")
	}
	if l.FloorDataAt(0) != nil {
		t.Error("expected no floordata")
	}
	if l.MeshForIndex(0) != nil || l.Mesh(0) != nil {
		t.Error("expected nil mesh")
	}
	if _, ok := l.Model(0); ok {
		t.Error("expected no model")
	}
	if _, ok := l.ObjectTexture(0); ok {
		t.Error("expected no object texture")
	}
}

func TestLevel_ValidateTextures(t *testing.T) {
	l := &Level{
		format:         Format{Version: Tomb2, Platform: PC},
		textiles8:      make([]Textile8, 1),
		objectTextures: []ObjectTexture{{Tile: 0}, {Tile: 1}},
	}
	if err := l.validateTextures(); err == nil {
		t.Error("expected error for texture past the last page")
	}
}

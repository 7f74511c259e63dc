package trlevel

import (
	"testing"
)

func TestPackedRoomVertex(t *testing.T) {
	v := uint32(3) | 2<<5 | 1<<10 | 0x1234<<15
	pos, colour := packedRoomVertex(v, -1024)
	if pos.X != 1024 || pos.Y != 2*256-1024 || pos.Z != 3*1024 {
		t.Errorf("unexpected position %+v", pos)
	}
	if colour != 0x1234 {
		t.Errorf("unexpected colour 0x%04X", colour)
	}
}

func TestColourBGR555(t *testing.T) {
	tests := []struct {
		in   uint16
		want uint32
	}{
		{0x001F, 0xFFFF0000},
		{0x03E0, 0xFF00FF00},
		{0x7C00, 0xFF0000FF},
	}
	for _, tc := range tests {
		if got := colourBGR555(tc.in); got != tc.want {
			t.Errorf("colourBGR555(0x%04X) = 0x%08X, expected 0x%08X", tc.in, got, tc.want)
		}
	}
}

func TestReadRoomlets(t *testing.T) {
	b := &levelBuilder{}
	b.write(roomletHeader{Vertices: 3, Triangles: 1})
	b.u32(1 | 0x1F<<15)
	b.u32(1 << 10)
	b.u32(1 << 5)
	b.u32(0 | 1<<7 | 2<<14 | 9<<21)
	b.u32(5 | roomletEndTexture<<10)
	b.u32(0 | 1<<7 | 2<<14)
	b.u32(0).u32(0)

	room := Room{Info: RoomInfo{YTop: -512}}
	if err := readRoomlets(NewReader(b.bytes()), 0, []uint32{0}, &room); err != nil {
		t.Fatalf("readRoomlets failed: %v", err)
	}
	if len(room.Vertices) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(room.Vertices))
	}
	if v := room.Vertices[0]; v.Position.Z != 1024 || v.Colour != 0xFFFF0000 {
		t.Errorf("unexpected vertex %+v", v)
	}
	if y := room.Vertices[2].Position.Y; y != -256 {
		t.Errorf("expected y relative to the room top, got %v", y)
	}
	if len(room.Triangles) != 1 || room.Triangles[0].Texture != 9 || room.Triangles[0].Vertices != [3]uint16{0, 1, 2} {
		t.Errorf("unexpected triangles %+v", room.Triangles)
	}
	if len(room.Rectangles) != 1 || room.Rectangles[0].Texture != 5 || room.Rectangles[0].Vertices != [4]uint16{0, 1, 0, 2} {
		t.Errorf("unexpected rectangles %+v", room.Rectangles)
	}
}

func TestReadRoomlets_Rebase(t *testing.T) {
	roomlet := func() []byte {
		b := &levelBuilder{}
		b.write(roomletHeader{Vertices: 2, Triangles: 1})
		b.u32(0).u32(0)
		b.u32(0 | 1<<7 | 1<<14)
		b.u32(roomletEndTexture)
		b.u32(0).u32(0).u32(0)
		return b.bytes()
	}
	first := roomlet()
	data := append(first, roomlet()...)

	var room Room
	if err := readRoomlets(NewReader(data), 0, []uint32{0, uint32(len(first))}, &room); err != nil {
		t.Fatalf("readRoomlets failed: %v", err)
	}
	if len(room.Vertices) != 4 || len(room.Rectangles) != 0 {
		t.Fatalf("unexpected geometry %d vertices %d rectangles", len(room.Vertices), len(room.Rectangles))
	}
	if got := room.Triangles[1].Vertices; got != [3]uint16{2, 3, 3} {
		t.Errorf("expected second roomlet rebased, got %v", got)
	}
}

func TestReadRoomsTR4PSX(t *testing.T) {
	info := psxRoomInfo{
		PortalSize:     portalSize,
		SectorsSize:    12,
		LightSize:      32,
		StaticMeshSize: 20,
		X:              1024,
		YTop:           -256,
		NumZSectors:    1,
		NumXSectors:    1,
		NumLights:      1,
		NumMeshes:      1,
		AlternateGroup: 2,
		AlternateRoom:  -1,
		Flags:          1,
	}
	b := &levelBuilder{}
	b.write(info)
	b.write(Portal{AdjoiningRoom: 4})
	b.write(RoomSector{BoxIndex: 7}).zeros(4)
	b.write(tr4PSXLight{X: 10, Type: uint8(LightPoint), R: 255, Intensity: 3, Data: [8]byte{2, 4}})
	b.write(RoomStaticMesh{MeshID: 9})

	d := &decoder{r: NewReader(b.bytes()), level: &Level{}}
	if err := d.readRoomsTR4PSX(1); err != nil {
		t.Fatalf("readRoomsTR4PSX failed: %v", err)
	}
	if !d.r.EOF() {
		t.Errorf("expected every block consumed, %d bytes left", d.r.Remaining())
	}
	room := d.level.rooms[0]
	if room.Info.X != 1024 || room.Info.YTop != -256 || room.AlternateRoom != -1 || room.AlternateGroup != 2 || room.Flags != 1 {
		t.Errorf("unexpected room info %+v", room)
	}
	if len(room.Portals) != 1 || room.Portals[0].AdjoiningRoom != 4 {
		t.Errorf("unexpected portals %+v", room.Portals)
	}
	if len(room.Sectors) != 1 || room.Sectors[0].BoxIndex != 7 {
		t.Errorf("unexpected sectors %+v", room.Sectors)
	}
	if len(room.Lights) != 1 || room.Lights[0].In != 256 || room.Lights[0].Out != 512 || room.Lights[0].Colour.R != 255 {
		t.Errorf("unexpected lights %+v", room.Lights)
	}
	if len(room.StaticMeshes) != 1 || room.StaticMeshes[0].MeshID != 9 {
		t.Errorf("unexpected static meshes %+v", room.StaticMeshes)
	}
}

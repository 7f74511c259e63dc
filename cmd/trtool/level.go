package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/Faultbox/trlevel/pkg/trlevel"
)

func loadOne(name string, args []string) (*env, *trlevel.Level, []string, error) {
	fs, f := newFlagSet(name)
	hashes := fs.String("hashes", "", "YAML table of level hashes to names")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return nil, nil, nil, fmt.Errorf("usage: trtool %s [options] <level>", name)
	}
	e, err := setup(f, *hashes)
	if err != nil {
		return nil, nil, nil, err
	}
	res, err := e.loader.Load(fs.Arg(0))
	if err != nil {
		return nil, nil, nil, err
	}
	if name == "info" {
		fmt.Printf("Name:    %s\n", res.Name)
		fmt.Printf("Hash:    %s\n", res.Hash)
	}
	return e, res.Level, fs.Args()[1:], nil
}

func cmdInfo(args []string) error {
	_, level, _, err := loadOne("info", args)
	if err != nil {
		return err
	}

	fmt.Printf("Format:  %s\n", level.Format())
	fmt.Println()
	stats := []struct {
		label string
		n     int
	}{
		{"Textiles", level.NumTextiles()},
		{"Misc textiles", level.NumMiscTextiles()},
		{"Rooms", level.NumRooms()},
		{"Meshes", level.NumMeshes()},
		{"Models", len(level.Models())},
		{"Static meshes", len(level.StaticMeshes())},
		{"Animations", len(level.Animations())},
		{"Object textures", len(level.ObjectTextures())},
		{"Sprite textures", len(level.SpriteTextures())},
		{"Items", level.NumItems()},
		{"Triggers", len(level.Triggers())},
		{"Cameras/sinks", len(level.CameraSinks())},
		{"Flyby sequences", len(level.FlybySequences())},
		{"Sound sources", len(level.SoundSources())},
		{"Sound samples", len(level.SoundSamples())},
		{"Boxes", len(level.Boxes())},
	}
	for _, s := range stats {
		fmt.Printf("  %-16s %d\n", s.label, s.n)
	}
	return nil
}

func cmdRooms(args []string) error {
	_, level, _, err := loadOne("rooms", args)
	if err != nil {
		return err
	}

	fmt.Printf("%-5s %-8s %-8s %-7s %-6s %-6s %-5s %s\n", "ROOM", "X", "Z", "SIZE", "VERTS", "FACES", "ALT", "FLAGS")
	for i, r := range level.Rooms() {
		flags := ""
		if r.IsWater() {
			flags += "water "
		}
		if r.IsOutside() {
			flags += "outside "
		}
		if r.IsQuicksand(level.Version()) {
			flags += "quicksand "
		}
		alt := "-"
		if r.HasAlternate() {
			alt = strconv.Itoa(int(r.AlternateRoom))
		}
		fmt.Printf("%-5d %-8d %-8d %-7s %-6d %-6d %-5s %s\n",
			i, r.Info.X, r.Info.Z,
			fmt.Sprintf("%dx%d", r.NumXSectors, r.NumZSectors),
			len(r.Vertices), len(r.Rectangles)+len(r.Triangles),
			alt, flags)
	}
	return nil
}

func cmdItems(args []string) error {
	_, level, _, err := loadOne("items", args)
	if err != nil {
		return err
	}

	fmt.Printf("%-5s %-6s %-24s %-5s %-26s %-6s %s\n", "#", "TYPE", "NAME", "ROOM", "POSITION", "OCB", "NOTES")
	for _, it := range level.Items() {
		p := it.Position()
		notes := ""
		if it.AI {
			notes += "ai "
		}
		if it.IsPickup() {
			notes += "pickup "
		}
		if it.Invisible() {
			notes += "invisible "
		}
		if it.ClearBody() {
			notes += "clear-body "
		}
		if it.NeedsOCBAdjustment() {
			notes += "ocb-adjust "
		}
		if egg, ok := it.EggContents(); ok {
			notes += fmt.Sprintf("egg:%d ", egg)
		}
		fmt.Printf("%-5d %-6d %-24s %-5d %-26s %-6d %s\n",
			it.Number, it.TypeID, it.Type, it.Room,
			fmt.Sprintf("%.2f,%.2f,%.2f", p.X, p.Y, p.Z), it.OCB, notes)
	}
	return nil
}

func cmdTriggers(args []string) error {
	_, level, _, err := loadOne("triggers", args)
	if err != nil {
		return err
	}

	for _, t := range level.Triggers() {
		fmt.Printf("#%-4d room %-4d sector %d,%d  %-12s timer %-4d mask 0x%02x",
			t.Number, t.Room, t.X, t.Z, t.Type, t.Timer(), t.Mask)
		if t.OneShot {
			fmt.Print("  oneshot")
		}
		fmt.Println()
		for _, c := range t.Commands {
			if c.Type.HasIndex() {
				fmt.Printf("      %-16s %d\n", c.Type, c.Index)
			} else {
				fmt.Printf("      %s\n", c.Type)
			}
		}
	}

	for _, cs := range level.CameraSinks() {
		if cam, ok := cs.Camera(); ok {
			fmt.Printf("camera #%-3d room %d flag %d\n", cs.Number, cam.Room, cam.Flag)
		} else if sink, ok := cs.Sink(); ok {
			fmt.Printf("sink   #%-3d strength %d box %d rooms %v\n", cs.Number, sink.Strength, sink.BoxIndex, cs.InferredRooms)
		}
	}
	return nil
}

func cmdFloorData(args []string) error {
	_, level, rest, err := loadOne("floordata", args)
	if err != nil {
		return err
	}
	if len(rest) < 3 {
		return fmt.Errorf("usage: trtool floordata [options] <level> <room> <x> <z>")
	}
	coords := make([]int, 3)
	for i, a := range rest[:3] {
		if coords[i], err = strconv.Atoi(a); err != nil {
			return errors.Wrapf(err, "parsing %q", a)
		}
	}

	s, ok := level.Sector(coords[0], coords[1], coords[2])
	if !ok {
		return fmt.Errorf("no sector %d,%d in room %d", coords[1], coords[2], coords[0])
	}

	fmt.Printf("Sector %d (room %d, %d,%d)\n", s.ID, s.Room, s.X, s.Z)
	fmt.Printf("  floordata index %d, box %d, material %d\n", s.FloorDataIndex, s.Box(), s.Material())
	fmt.Printf("  floor %d ceiling %d\n", s.Floor, s.Ceiling)
	fmt.Printf("  flags %s\n", s.Flags)
	if s.HasFlag(trlevel.SectorFlagPortal) {
		fmt.Printf("  portal to room %d\n", s.Portal)
	}
	if s.HasFlag(trlevel.SectorFlagRoomAbove) {
		fmt.Printf("  room above %d\n", s.RoomAbove)
	}
	if s.HasFlag(trlevel.SectorFlagRoomBelow) {
		fmt.Printf("  room below %d\n", s.RoomBelow)
	}
	fmt.Printf("  corners %v ceiling %v\n", s.Corners, s.CeilingCorners)
	if td, ok := s.Trigger(); ok {
		fmt.Printf("  trigger %s timer %d mask 0x%02x oneshot %t\n", td.Type, td.Timer, td.Mask, td.OneShot)
		for _, c := range td.Commands {
			fmt.Printf("    %s %d\n", c.Type, c.Index)
		}
	}

	words := level.FloorDataAt(int(s.FloorDataIndex))
	if s.FloorDataIndex != 0 && len(words) > 0 {
		n := min(len(words), 16)
		fmt.Printf("  raw % 04x\n", words[:n])
	}
	return nil
}

func cmdHash(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: trtool hash <file...>")
	}
	var h trlevel.Hasher = trlevel.SHA256Hasher{}
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "reading %s", path)
		}
		fmt.Printf("%s  %s\n", h.Hash(data), path)
	}
	return nil
}

func cmdFlyby(args []string) error {
	_, level, _, err := loadOne("flyby", args)
	if err != nil {
		return err
	}
	if !level.Format().HasFlybyCameras() {
		fmt.Println("no flyby cameras before TR4")
		return nil
	}

	fmt.Printf("%-4s %-6s %-8s %-24s %s\n", "SEQ", "NODES", "LENGTH", "START", "DIRECTION")
	for _, s := range level.FlybySequences() {
		p, d := s.Sample(0)
		fmt.Printf("%-4d %-6d %-8.2f %-24s %s\n", s.Number, len(s.Nodes), s.Length(),
			fmt.Sprintf("%.2f,%.2f,%.2f", p.X, p.Y, p.Z),
			fmt.Sprintf("%.2f,%.2f,%.2f", d.X, d.Y, d.Z))
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/Faultbox/trlevel/pkg/drm"
)

func cmdDRM(args []string) error {
	fs, _ := newFlagSet("drm")
	sections := fs.Bool("sections", false, "List every section")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: trtool drm [options] <file.drm>")
	}

	f, err := drm.Open(fs.Arg(0))
	if err != nil {
		return err
	}

	counts := make(map[drm.SectionType]int)
	for _, s := range f.Sections {
		counts[s.Header.Type]++
	}

	fmt.Printf("File:      %s\n", fs.Arg(0))
	fmt.Printf("Version:   0x%x\n", f.Version)
	fmt.Printf("Sections:  %d\n", len(f.Sections))
	for _, t := range []drm.SectionType{drm.SectionGeneric, drm.SectionTexture, drm.SectionAudio, drm.SectionTrigger, drm.SectionWorldMesh} {
		if counts[t] > 0 {
			fmt.Printf("  %-10s %d\n", t, counts[t])
		}
	}
	fmt.Printf("Vertices:  %d in %d blocks\n", len(f.WorldMesh), len(f.Blocks))
	fmt.Printf("Triangles: %d\n", len(f.Triangles))

	if len(f.Textures) > 0 {
		fmt.Println()
		fmt.Println("Textures:")
		for _, id := range f.TextureIDs() {
			t, _ := f.Texture(id)
			fmt.Printf("  %-8d %-5s %4dx%-4d %d bytes\n", t.ID, t.Format, t.Width, t.Height, len(t.Data))
		}
	}

	if *sections {
		fmt.Println()
		fmt.Printf("%-5s %-10s %-10s %-10s %s\n", "#", "TYPE", "ID", "LENGTH", "REFS")
		for _, s := range f.Sections {
			fmt.Printf("%-5d %-10s %-10d %-10d %d\n",
				s.Index, s.Header.Type, s.Header.ID, s.Header.Length, s.Header.PreambleSize()/8)
		}
	}
	return nil
}

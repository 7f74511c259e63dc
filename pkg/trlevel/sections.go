package trlevel

import "fmt"

// Section steps shared by the version decoders. Each returns a step bound to
// the decoder so a version decoder reads as the file's section order.

func (d *decoder) unused32() step {
	return section("unused word", func() error { return d.r.Skip(4) })
}

func (d *decoder) floorData() step {
	return section("floordata", counted[uint32](d, &d.level.floorData))
}

func (d *decoder) meshes() step {
	return section("meshes", func() error {
		if err := d.readMeshWords(); err != nil {
			return err
		}
		l := d.level
		var err error
		l.meshes, err = buildMeshArena(l.meshData, l.meshPointers, l.format.Version)
		return err
	})
}

// meshWords reads the mesh data and pointers without decoding any mesh.
// Layouts whose meshes depend on later sections decode them with
// buildMeshes at the end.
func (d *decoder) meshWords() step {
	return section("meshes", d.readMeshWords)
}

func (d *decoder) readMeshWords() error {
	l := d.level
	var err error
	if l.meshData, err = ReadCounted[uint32, uint16](d.r); err != nil {
		return fmt.Errorf("mesh data: %w", err)
	}
	if l.meshPointers, err = ReadCounted[uint32, uint32](d.r); err != nil {
		return fmt.Errorf("mesh pointers: %w", err)
	}
	return nil
}

func (d *decoder) buildMeshes(read meshReader) step {
	return section("mesh decode", func() error {
		l := d.level
		var err error
		l.meshes, err = buildMeshArenaWith(l.meshData, l.meshPointers, read)
		return err
	})
}

func (d *decoder) animations() step {
	l := d.level
	if l.format.Version >= Tomb4 {
		return section("animations", counted[uint32](d, &l.animations))
	}
	return section("animations", countedAs[uint32, tr1Animation](d, &l.animations, tr1Animation.normalize))
}

// animationTables reads the state changes, dispatches and commands that
// follow the animations, then the mesh tree and frames.
func (d *decoder) animationTables() []step {
	l := d.level
	return []step{
		section("state changes", counted[uint32](d, &l.stateChanges)),
		section("anim dispatches", counted[uint32](d, &l.animDispatches)),
		section("anim commands", counted[uint32](d, &l.animCommands)),
		section("mesh tree", counted[uint32](d, &l.meshTree)),
		section("frames", counted[uint32](d, &l.frames)),
	}
}

func (d *decoder) models(tr5 bool) step {
	l := d.level
	if tr5 {
		return section("models", countedAs[uint32, tr5Model](d, &l.models, func(m tr5Model) Model { return m.Model }))
	}
	return section("models", counted[uint32](d, &l.models))
}

func (d *decoder) staticMeshes() step {
	return section("static meshes", counted[uint32](d, &d.level.staticMeshes))
}

func (d *decoder) sprites() []step {
	l := d.level
	return []step{
		section("sprite textures", counted[uint32](d, &l.spriteTextures)),
		d.spriteSequences(),
	}
}

func (d *decoder) spriteSequences() step {
	return section("sprite sequences", counted[uint32](d, &d.level.spriteSequences))
}

func (d *decoder) marker(m string) step {
	return section(fmt.Sprintf("%q marker", m), func() error { return d.expectMarker(m) })
}

func (d *decoder) cameras() step {
	return section("cameras", counted[uint32](d, &d.level.cameras))
}

func (d *decoder) flybyCameras() step {
	return section("flyby cameras", counted[uint32](d, &d.level.flybyCameras))
}

// skipFlybyCameras reads and discards the flyby list of remastered TR4.
func (d *decoder) skipFlybyCameras() step {
	return section("flyby cameras", func() error {
		_, err := ReadCounted[uint32, FlybyCamera](d.r)
		return err
	})
}

func (d *decoder) soundSources() step {
	return section("sound sources", counted[uint32](d, &d.level.soundSources))
}

// boxes reads boxes, overlaps and zones. TR1 has six zone words per box,
// later versions ten.
func (d *decoder) boxes() []step {
	l := d.level
	boxes := counted[uint32](d, &l.boxes)
	zonesPerBox := 10
	if l.format.Version == Tomb1 {
		zonesPerBox = 6
	} else {
		boxes = countedAs[uint32, tr2Box](d, &l.boxes, tr2Box.normalize)
	}
	return []step{
		section("boxes", boxes),
		section("overlaps", counted[uint32](d, &l.overlaps)),
		section("zones", func() error {
			var err error
			l.zones, err = ReadVector[int16](d.r, len(l.boxes)*zonesPerBox)
			return err
		}),
	}
}

func (d *decoder) animatedTextures() step {
	l := d.level
	return section("animated textures", func() error {
		var err error
		if l.animatedTextures, err = ReadCounted[uint32, uint16](d.r); err != nil {
			return err
		}
		if l.format.Version >= Tomb4 {
			l.animatedUVCount, err = d.r.U8()
		}
		return err
	})
}

func (d *decoder) entities() step {
	l := d.level
	if l.format.Version == Tomb1 {
		return section("entities", countedAs[uint32, tr1Entity](d, &l.entities, tr1Entity.normalize))
	}
	return section("entities", counted[uint32](d, &l.entities))
}

func (d *decoder) aiObjects() step {
	return section("ai objects", counted[uint32](d, &d.level.aiObjects))
}

func (d *decoder) lightMap() step {
	return section("light map", func() error {
		var m LightMap
		if err := d.r.Read(&m); err != nil {
			return err
		}
		d.level.lightMap = &m
		return nil
	})
}

// palette reads the 256 colour palette. TR1 stores 6-bit components, which
// are widened to 8 bits.
func (d *decoder) palette() step {
	l := d.level
	return section("palette", func() error {
		var err error
		if l.palette, err = ReadVector[Colour](d.r, 256); err != nil {
			return err
		}
		if l.format.Version == Tomb1 {
			for i, c := range l.palette {
				l.palette[i] = Colour{c.R << 2, c.G << 2, c.B << 2}
			}
		}
		return nil
	})
}

func (d *decoder) palette16() step {
	return section("palette16", func() error {
		var err error
		d.level.palette16, err = ReadVector[Colour4](d.r, 256)
		return err
	})
}

func (d *decoder) cinematicFrames() step {
	return section("cinematic frames", counted[uint16](d, &d.level.cinematicFrames))
}

func (d *decoder) demoData() step {
	return section("demo data", counted[uint16](d, &d.level.demoData))
}

// soundMap reads the fixed-size sound id table. TR4 levels built with the
// larger table carry 2048 bytes of demo data.
func (d *decoder) soundMap() step {
	l := d.level
	return section("sound map", func() error {
		var err error
		l.soundMap, err = ReadVector[int16](d.r, soundMapSize(l.format.Version, len(l.demoData)))
		return err
	})
}

func soundMapSize(v LevelVersion, demoLength int) int {
	switch v {
	case Tomb1:
		return 256
	case Tomb4:
		if demoLength == 2048 {
			return 1024
		}
		return 370
	case Tomb5:
		return 450
	default:
		return 370
	}
}

func (d *decoder) soundDetails() step {
	l := d.level
	if l.format.Version >= Tomb3 {
		return section("sound details", countedAs[uint32, tr3SoundDetails](d, &l.soundDetails, tr3SoundDetails.normalize))
	}
	return section("sound details", countedAs[uint32, tr1SoundDetails](d, &l.soundDetails, tr1SoundDetails.normalize))
}

func (d *decoder) sampleIndices() step {
	return section("sample indices", counted[uint32](d, &d.level.sampleIndices))
}

func (s tr1SoundDetails) normalize() SoundDetails {
	return SoundDetails{
		Sample:          s.Sample,
		Volume:          s.Volume,
		Chance:          s.Chance,
		Characteristics: s.Characteristics,
	}
}

func (s tr3SoundDetails) normalize() SoundDetails {
	return SoundDetails{
		Sample:          s.Sample,
		Volume:          uint16(s.Volume),
		Range:           uint16(s.Range),
		Chance:          uint16(s.Chance),
		Pitch:           uint16(s.Pitch),
		Characteristics: s.Characteristics,
	}
}

func (e tr1Entity) normalize() Entity {
	return Entity{
		TypeID:     e.TypeID,
		Room:       e.Room,
		X:          e.X,
		Y:          e.Y,
		Z:          e.Z,
		Angle:      e.Angle,
		Intensity1: e.Intensity1,
		Intensity2: e.Intensity1,
		Flags:      e.Flags,
	}
}

package trlevel

// Remastered TR4 and TR5 levels store textures and level data uncompressed
// and drop the sound sections, which moved to separate files.

func decodeTR4Remastered(d *decoder) error {
	steps := []step{
		d.rawTextiles(2),
		d.unused32(),
		section("rooms", readRooms[uint16](d, d.readRoomTR4)),
		d.floorData(),
		d.meshes(),
		d.animations(),
	}
	steps = append(steps, d.animationTables()...)
	steps = append(steps,
		d.models(false),
		d.staticMeshes(),
		d.marker("SPR"),
	)
	steps = append(steps, d.sprites()...)
	steps = append(steps,
		d.cameras(),
		d.skipFlybyCameras(),
		d.soundSources(),
	)
	steps = append(steps, d.boxes()...)
	steps = append(steps,
		d.animatedTextures(),
		d.marker("TEX"),
		d.objectTextures(texturesTR4),
		d.entities(),
		d.aiObjects(),
	)
	return d.run(steps...)
}

// decodeTR5Remastered reads a remastered TR5 level. Unlike every other
// layout, AI objects precede the entities.
func decodeTR5Remastered(d *decoder) error {
	steps := []step{
		d.rawTextiles(3),
		section("lara type", func() error {
			var err error
			d.level.laraType, err = d.r.U16()
			return err
		}),
		section("rooms", readRooms[uint16](d, d.readRoomTR5Remastered)),
		d.floorData(),
		d.meshes(),
		d.animations(),
	}
	steps = append(steps, d.animationTables()...)
	steps = append(steps,
		d.models(false),
		d.staticMeshes(),
		d.marker("SPR"),
	)
	steps = append(steps, d.sprites()...)
	steps = append(steps,
		d.cameras(),
		d.flybyCameras(),
		d.soundSources(),
	)
	steps = append(steps, d.boxes()...)
	steps = append(steps,
		d.animatedTextures(),
		d.marker("TEX"),
		d.objectTextures(texturesTR4),
		d.aiObjects(),
		d.entities(),
	)
	return d.run(steps...)
}

package trlevel

// decodeTR1 reads a Tomb Raider 1 level. The demo layout moves the palette
// ahead of the cameras.
func decodeTR1(d *decoder) error {
	demo := d.level.format.Demo

	steps := []step{
		d.textiles8(false),
		d.unused32(),
		section("rooms", readRooms[uint16](d, d.readRoomTR1)),
		d.floorData(),
		d.meshes(),
		d.animations(),
	}
	steps = append(steps, d.animationTables()...)
	steps = append(steps,
		d.models(false),
		d.staticMeshes(),
		d.objectTextures(texturesTR1),
	)
	steps = append(steps, d.sprites()...)
	if demo {
		steps = append(steps, d.palette())
	}
	steps = append(steps, d.cameras(), d.soundSources())
	steps = append(steps, d.boxes()...)
	steps = append(steps,
		d.animatedTextures(),
		d.entities(),
		d.lightMap(),
	)
	if !demo {
		steps = append(steps, d.palette())
	}
	steps = append(steps,
		d.cinematicFrames(),
		d.demoData(),
		d.soundMap(),
		d.soundDetails(),
		section("sound data", counted[int32](d, &d.level.soundData)),
		d.sampleIndices(),
		section("sound samples", d.splitTR1Samples),
	)
	return d.run(steps...)
}

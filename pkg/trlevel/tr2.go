package trlevel

// decodeTR2 reads a Tomb Raider 2 level. Sound samples live in MAIN.SFX, so
// the level carries only the sample index table.
func decodeTR2(d *decoder) error {
	steps := []step{
		d.palette(),
		d.palette16(),
		d.textiles8(true),
		d.unused32(),
		section("rooms", readRooms[uint16](d, d.readRoomTR2)),
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
	steps = append(steps, d.cameras(), d.soundSources())
	steps = append(steps, d.boxes()...)
	steps = append(steps,
		d.animatedTextures(),
		d.entities(),
		d.lightMap(),
		d.cinematicFrames(),
		d.demoData(),
		d.soundMap(),
		d.soundDetails(),
		d.sampleIndices(),
	)
	return d.run(steps...)
}

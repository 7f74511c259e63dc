package trlevel

// decodeTR3 reads a Tomb Raider 3 level. Object textures moved after the
// animated textures, and some shipped levels (VICT.TR2) stop after the
// texture header.
func decodeTR3(d *decoder) error {
	steps := []step{
		d.palette(),
		d.palette16(),
		d.textiles8(true),
		d.unused32(),
		d.endIfExhausted(),
		section("rooms", readRooms[uint16](d, d.readRoomTR3)),
		d.floorData(),
		d.meshes(),
		d.animations(),
	}
	steps = append(steps, d.animationTables()...)
	steps = append(steps, d.models(false), d.staticMeshes())
	steps = append(steps, d.sprites()...)
	steps = append(steps, d.cameras(), d.soundSources())
	steps = append(steps, d.boxes()...)
	steps = append(steps,
		d.animatedTextures(),
		d.objectTextures(texturesTR1),
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

package trlevel

// decodeTR2PSX reads a Tomb Raider 2 PlayStation level. The sound bank comes
// first and the version word follows it; textiles sit between the static
// meshes and the object textures, whose attributes are stored as is.
func decodeTR2PSX(d *decoder) error {
	steps := []step{
		d.psxSoundBank(8000),
		d.versionWord(signatureTR2),
		section("rooms", readRooms[uint16](d, d.readRoomTR2PSX)),
		d.floorData(),
		d.meshWords(),
		d.animations(),
	}
	steps = append(steps, d.animationTables()...)
	steps = append(steps,
		d.psxModels(),
		d.staticMeshes(),
		d.countedTextiles4(1),
		d.unused32(),
		d.psxObjectTextures(true),
		d.psxSpriteTextures(),
		d.spriteSequences(),
		d.cameras(),
		d.soundSources(),
	)
	steps = append(steps, d.boxes()...)
	steps = append(steps,
		d.animatedTextures(),
		d.entities(),
		d.unused32(),
		d.soundMap(),
		d.soundDetails(),
		d.buildMeshes(readMeshTR2PSX),
	)
	return d.run(steps...)
}

package trlevel

import "fmt"

// decodeTR1PSX reads a Tomb Raider 1 PlayStation level: a sound bank, a
// fixed block of 4-bit pages and cluts, the version word, then the PC
// section order with PlayStation records. There is no light map, palette or
// sample table.
func decodeTR1PSX(d *decoder) error {
	steps := []step{
		d.psxSoundBank(11025),
		d.tr1PSXTextiles(),
		section("rooms", readRooms[uint16](d, d.readRoomTR1PSX)),
		d.floorData(),
		d.meshWords(),
		d.animations(),
	}
	steps = append(steps, d.animationTables()...)
	steps = append(steps,
		d.psxModels(),
		d.staticMeshes(),
		d.psxObjectTextures(false),
		d.psxSpriteTextures(),
		d.spriteSequences(),
		d.cameras(),
		d.soundSources(),
	)
	steps = append(steps, d.boxes()...)
	steps = append(steps,
		d.animatedTextures(),
		d.entities(),
		d.soundMap(),
		d.soundDetails(),
		d.buildMeshes(readMeshTR1PSX),
	)
	return d.run(steps...)
}

// tr1PSXTextiles reads the texture block and the version word after it.
// Some cutscenes start the block eight bytes earlier, so a missing version
// word means trying again from there.
func (d *decoder) tr1PSXTextiles() step {
	return section("textiles", func() error {
		start := d.r.Position()
		read := func() (uint32, error) {
			if err := d.textiles4(13, 1024); err != nil {
				return 0, err
			}
			return d.r.U32()
		}
		version, err := read()
		if err != nil || version != signatureTR1 {
			if err := d.r.SetPosition(start - 8); err != nil {
				return err
			}
			if version, err = read(); err != nil {
				return err
			}
		}
		if version != signatureTR1 {
			return fmt.Errorf("%w: version word 0x%08X after textiles", ErrUnsupportedSection, version)
		}
		if d.r.EOF() {
			d.log.Debug("level data ends after textiles")
			return errLevelEnd
		}
		return nil
	})
}

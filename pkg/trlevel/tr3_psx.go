package trlevel

import "fmt"

// tr3PSXBlocks is the number of sized blocks between the sound bank and the
// rooms.
const tr3PSXBlocks = 13

// decodeTR3PSX reads a Tomb Raider 3 PlayStation level. Unlike TR1 and TR2
// the version word opens the file. Room faces index a separate room texture
// list stored near the end, which is appended after the object textures.
func decodeTR3PSX(d *decoder) error {
	steps := []step{
		d.versionWord(signatureTR3, signatureTR3Alt),
		d.psxSoundBank(11025),
		section("sized blocks", d.skipTR3PSXBlocks),
		section("rooms", readRooms[uint16](d, d.readRoomTR3PSX)),
		d.floorData(),
		section("outside room table", d.skipOutsideRoomTable),
		d.meshWords(),
		d.animations(),
	}
	steps = append(steps, d.animationTables()...)
	steps = append(steps,
		d.psxModels(),
		d.staticMeshes(),
		d.countedTextiles4(2),
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
		section("horizon colour", func() error { return d.r.Skip(4) }),
		section("room textures", func() error {
			n, err := d.r.U32()
			if err != nil {
				return err
			}
			raw, err := readRoomTextures(d.r, int(n))
			if err != nil {
				return err
			}
			d.appendRoomTextures(raw, d.pageSource())
			return nil
		}),
		d.soundMap(),
		d.soundDetails(),
		d.buildMeshes(d.tr3MeshReader()),
	)
	return d.run(steps...)
}

// skipTR3PSXBlocks skips blocks stored as a size, the data, a second size
// and its data. A zero first size is the whole block.
func (d *decoder) skipTR3PSXBlocks() error {
	r := d.r
	for i := 0; i < tr3PSXBlocks; i++ {
		size, err := r.U32()
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		if size == 0 {
			continue
		}
		if err := r.Skip(int(size)); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		size, err = r.U32()
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		if err := r.Skip(int(size)); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	return nil
}

// skipOutsideRoomTable skips the 27 by 27 outside room map, the counted room
// list it indexes and the counted bounding boxes.
func (d *decoder) skipOutsideRoomTable() error {
	r := d.r
	if err := r.Skip(27 * 27 * 2); err != nil {
		return err
	}
	n, err := r.U32()
	if err != nil {
		return err
	}
	if err := r.Skip(int(n)); err != nil {
		return err
	}
	if n, err = r.U32(); err != nil {
		return err
	}
	return r.Skip(int(n) * 8)
}

package trlevel

import "fmt"

// decodeTR4 reads a Tomb Raider 4 level: compressed texture blocks, one
// compressed level-data block, then the sound samples.
func decodeTR4(d *decoder) error {
	return d.run(
		d.compressedTextiles(2),
		section("level data", func() error {
			inner, err := d.levelDataBlock()
			if err != nil {
				return err
			}
			return d.scope(inner, d.tr4LevelData()...)
		}),
		d.soundSamples(),
	)
}

// levelDataBlock reads the compressed level-data block, passing it through
// the configured Decrypter first when the format is obfuscated.
func (d *decoder) levelDataBlock() (*Reader, error) {
	block, err := d.r.readCompressedBlock()
	if err != nil {
		return nil, err
	}
	data := block.Data
	if d.level.format.Obfuscated {
		if d.opts.Decrypter == nil {
			return nil, fmt.Errorf("%w: no decrypter configured", ErrEncrypted)
		}
		if data, err = d.opts.Decrypter.Decrypt(data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncrypted, err)
		}
	}
	inflated, err := Inflate(data, block.UncompressedSize)
	if err != nil {
		return nil, err
	}
	return NewReader(inflated), nil
}

func (d *decoder) tr4LevelData() []step {
	steps := []step{
		d.unused32(),
		d.endIfExhausted(),
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
		d.flybyCameras(),
		d.soundSources(),
	)
	steps = append(steps, d.boxes()...)
	return append(steps,
		d.animatedTextures(),
		d.marker("TEX"),
		d.objectTextures(texturesTR4),
		d.entities(),
		d.aiObjects(),
		d.demoData(),
		d.soundMap(),
		d.soundDetails(),
		d.sampleIndices(),
	)
}

package trlevel

import "go.uber.org/zap"

// tr5Header follows the texture blocks of a TR5 level.
type tr5Header struct {
	LaraType         uint16
	WeatherType      uint16
	Padding          [28]byte
	UncompressedSize uint32
	CompressedSize   uint32
}

// decodeTR5 reads a Tomb Raider 5 level. The level-data block is framed like
// a compressed block but stored raw; only the uncompressed size bounds it and
// the compressed size is ignored.
func decodeTR5(d *decoder) error {
	return d.run(
		d.compressedTextiles(2),
		section("level data", func() error {
			var h tr5Header
			if err := d.r.Read(&h); err != nil {
				return err
			}
			d.level.laraType = h.LaraType
			d.level.weatherType = h.WeatherType
			if h.UncompressedSize != h.CompressedSize {
				d.log.Debug("level data sizes differ",
					zap.Uint32("uncompressed", h.UncompressedSize),
					zap.Uint32("compressed", h.CompressedSize))
			}
			data, err := d.r.Peek(int(h.UncompressedSize))
			if err != nil {
				return err
			}
			if err := d.scope(NewReader(data), d.tr5LevelData()...); err != nil {
				return err
			}
			return d.r.Skip(int(h.UncompressedSize))
		}),
		d.soundSamples(),
	)
}

func (d *decoder) tr5LevelData() []step {
	steps := []step{
		d.unused32(),
		section("rooms", readRooms[uint32](d, d.readRoomTR5)),
		d.floorData(),
		d.meshes(),
		d.animations(),
	}
	steps = append(steps, d.animationTables()...)
	steps = append(steps,
		d.models(true),
		d.staticMeshes(),
		d.marker("SPR\x00"),
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
		d.marker("TEX\x00"),
		d.objectTextures(texturesTR5),
		d.entities(),
		d.aiObjects(),
		d.demoData(),
		d.soundMap(),
		d.soundDetails(),
		d.sampleIndices(),
	)
}

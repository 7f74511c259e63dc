package trlevel

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"
)

// TR4 and TR5 PlayStation levels start with a fixed-size level info block
// at a known offset. Every section after it is located or sized by that
// block; fixed-size tables hold the models, static meshes and entities.

const (
	tr4PSXInfoOffset = 0x7800
	tr5PSXInfoOffset = 313344

	psxModelSlots  = 460
	psxStaticSlots = 70
	psxEntitySlots = 256
	psxSampleRate  = 11025
)

type psxLevelInfo struct {
	Version           int32
	SoundOffsets      uint32
	SoundDataOffset   uint32
	TextilesOffset    uint32
	FramesOffset      uint32
	RoomDataOffset    uint32
	ModelsOffset      uint32
	Unknown1          [2]uint32
	NumSounds         uint32
	SoundDataLength   uint32
	ClutStart         uint16
	NumRooms          uint16
	Unknown2          [2]byte
	NumItems          uint16
	Unknown3          [4]byte
	RoomDataSize      uint32
	FloorDataSize     uint32
	OutsideRoomSize   uint32
	BoundingBoxesSize uint32
	Unknown4          [4]byte
	MeshDataSize      uint32
	MeshPointerSize   uint32
	AnimationsSize    uint32
	StateChangesSize  uint32
	DispatchesSize    uint32
	CommandsSize      uint32
	MeshTreeSize      uint32
	FramesSize        uint32
	TextureInfoLength uint32
	SpriteInfoLength  uint32
	RoomTextureLength uint32
	AnimatedTexLength uint32
	SfxInfoLength     uint32
	SampleInfoLength  uint32
	Unknown5          [12]byte
	UnknownOffsets    [7]uint32
	NumCameras        uint32
	Unknown6          [4]byte
	CameraLength      int32
	Unknown7          [4]byte
	NumAIObjects      uint16
	Unknown8          [38]byte
}

type tr4PSXEntity struct {
	Unknown0 [12]byte
	TypeID   int16
	Unknown1 [10]byte
	Room     int16
	Unknown2 [14]byte
	Flags    uint16
	Unknown3 [2]byte
	OCB      int16
	Unknown4 [18]byte
	X, Y, Z  int32
	Unknown5 [2]byte
	Angle    int16
	Unknown6 [64]byte
}

func (e tr4PSXEntity) normalize() Entity {
	return Entity{
		TypeID:     e.TypeID,
		Room:       e.Room,
		X:          e.X,
		Y:          e.Y,
		Z:          e.Z,
		Angle:      e.Angle,
		Intensity2: e.OCB,
		Flags:      e.Flags,
	}
}

type tr4PSXAIObject struct {
	TypeID  uint16
	Room    uint16
	X, Y, Z int32
	OCB     int16
	Flags   uint16
	Angle   int16
	Box     uint16
}

func (a tr4PSXAIObject) normalize() AIObject {
	return AIObject{
		TypeID: a.TypeID,
		Room:   a.Room,
		X:      a.X,
		Y:      a.Y,
		Z:      a.Z,
		OCB:    a.OCB,
		Flags:  a.Flags,
		Angle:  int32(a.Angle),
	}
}

type tr4PSXModel struct {
	NumMeshes    uint16
	StartingMesh uint16
	MeshTree     uint32
	FrameOffset  uint32
	Unknown      [52]byte
}

type tr4PSXStaticMesh struct {
	Mesh       uint16
	Flags      uint16
	Visibility BoundingBox
	Collision  BoundingBox
}

func decodeTR4PSX(d *decoder) error {
	return d.decodePSXInfoLevel(tr4PSXInfoOffset, 320)
}

func decodeTR5PSX(d *decoder) error {
	return d.decodePSXInfoLevel(tr5PSXInfoOffset, 0)
}

// decodePSXInfoLevel reads a level whose info block sits at offset.
// modelPad bytes follow the model table.
func (d *decoder) decodePSXInfoLevel(offset, modelPad int) error {
	var info psxLevelInfo
	var objects, roomTexture []psxObjectTexture
	r, l := d.r, d.level
	seek := func(at uint32) error { return r.SetPosition(offset + int(at)) }
	skip := func(sizes ...uint32) error {
		for _, n := range sizes {
			if err := r.Skip(int(n)); err != nil {
				return err
			}
		}
		return nil
	}

	return d.run(
		section("level info", func() error {
			if err := r.SetPosition(offset); err != nil {
				return err
			}
			return r.Read(&info)
		}),
		section("rooms", func() error {
			if err := seek(info.RoomDataOffset); err != nil {
				return err
			}
			return d.readRoomsTR4PSX(int(info.NumRooms))
		}),
		section("floordata", sized(d, &info.FloorDataSize, &l.floorData)),
		section("outside room table", func() error {
			return skip(27*27*2+2, info.OutsideRoomSize, info.BoundingBoxesSize)
		}),
		section("mesh data", sized(d, &info.MeshDataSize, &l.meshData)),
		section("mesh pointers", sized(d, &info.MeshPointerSize, &l.meshPointers)),
		section("animations", func() error {
			return skip(info.AnimationsSize, info.StateChangesSize, info.DispatchesSize, info.CommandsSize)
		}),
		section("mesh tree", sized(d, &info.MeshTreeSize, &l.meshTree)),
		section("animated textures", func() error { return skip(info.AnimatedTexLength) }),
		section("object textures", sized(d, &info.TextureInfoLength, &objects)),
		section("sprite textures", func() error { return skip(info.SpriteInfoLength) }),
		section("room textures", func() error {
			start := r.Position()
			var err error
			if roomTexture, err = readRoomTextures(r, int(info.RoomTextureLength)/psxObjectTextureSize/3); err != nil {
				return err
			}
			return r.SetPosition(start + int(info.RoomTextureLength))
		}),
		section("sfx info", func() error { return skip(info.SfxInfoLength) }),
		d.soundMap(),
		section("sound details", func() error {
			details, err := ReadVector[tr3SoundDetails](r, int(info.SampleInfoLength)/binary.Size(tr3SoundDetails{}))
			l.soundDetails = convertAll(details, tr3SoundDetails.normalize)
			return err
		}),
		section("entities", func() error {
			all, err := ReadVector[tr4PSXEntity](r, psxEntitySlots)
			if err != nil {
				return err
			}
			n := min(int(info.NumItems), len(all))
			l.entities = convertAll(all[:n], tr4PSXEntity.normalize)
			return nil
		}),
		section("ai objects", func() error {
			ai, err := ReadVector[tr4PSXAIObject](r, int(info.NumAIObjects))
			l.aiObjects = convertAll(ai, tr4PSXAIObject.normalize)
			return err
		}),
		section("cameras", func() error {
			u := info.UnknownOffsets
			if err := skip(u[0], u[1], 2*u[2], 2*u[3], 2*u[4], 2*u[5], 2*u[6]); err != nil {
				return err
			}
			var err error
			l.cameras, err = ReadVector[Camera](r, int(info.NumCameras))
			return err
		}),
		section("frames", func() error {
			if err := seek(info.FramesOffset); err != nil {
				return err
			}
			var err error
			l.frames, err = ReadVector[uint16](r, int(info.FramesSize)/2)
			return err
		}),
		section("models", func() error {
			if err := seek(info.ModelsOffset); err != nil {
				return err
			}
			return d.psxModelTables(modelPad)
		}),
		section("textiles", func() error {
			if len(objects) == 0 && len(roomTexture) == 0 {
				return nil
			}
			if err := seek(info.TextilesOffset); err != nil {
				return err
			}
			vram, err := r.Bytes(vramSize)
			if err != nil {
				return err
			}
			d.psx = newPSXPages(vramSource{data: vram})
			for _, t := range objects {
				l.objectTextures = append(l.objectTextures, d.psx.objectTexture(t, false))
			}
			d.appendRoomTextures(roomTexture, d.psx)
			d.log.Debug("expanded pages", zap.Int("pages", len(l.textiles16)))
			return nil
		}),
		section("sounds", func() error {
			if info.NumSounds == 0 {
				return nil
			}
			if err := seek(info.SoundOffsets); err != nil {
				return err
			}
			offsets, err := ReadVector[uint32](r, int(info.NumSounds))
			if err != nil {
				return err
			}
			if err := seek(info.SoundDataOffset); err != nil {
				return err
			}
			data, err := r.Bytes(int(info.SoundDataLength))
			if err != nil {
				return err
			}
			l.samples, err = psxSampleTable(offsets, data, psxSampleRate)
			return err
		}),
		d.buildMeshes(readMeshTR4PSX),
	)
}

// psxModelTables reads the fixed model and static mesh tables. A slot's
// index is its type id; unused slots are dropped.
func (d *decoder) psxModelTables(modelPad int) error {
	r, l := d.r, d.level
	models, err := ReadVector[tr4PSXModel](r, psxModelSlots)
	if err != nil {
		return fmt.Errorf("models: %w", err)
	}
	for id, m := range models {
		if m.NumMeshes == 0 {
			continue
		}
		l.models = append(l.models, Model{
			ID:           uint32(id),
			NumMeshes:    m.NumMeshes,
			StartingMesh: m.StartingMesh,
			MeshTree:     m.MeshTree,
			FrameOffset:  m.FrameOffset,
		})
	}
	if err := r.Skip(modelPad); err != nil {
		return err
	}
	statics, err := ReadVector[tr4PSXStaticMesh](r, psxStaticSlots)
	if err != nil {
		return fmt.Errorf("static meshes: %w", err)
	}
	for id, s := range statics {
		if s == (tr4PSXStaticMesh{}) {
			continue
		}
		l.staticMeshes = append(l.staticMeshes, StaticMesh{
			ID:         uint32(id),
			Mesh:       s.Mesh,
			Visibility: s.Visibility,
			Collision:  s.Collision,
			Flags:      s.Flags,
		})
	}
	return nil
}

// sized returns a step body that reads *size bytes of T records into dst
// and moves past the block. size is read when the step runs.
func sized[T any](d *decoder, size *uint32, dst *[]T) func() error {
	return func() error {
		start := d.r.Position()
		var zero T
		v, err := ReadVector[T](d.r, int(*size)/binary.Size(zero))
		if err != nil {
			return err
		}
		*dst = v
		return d.r.SetPosition(start + int(*size))
	}
}

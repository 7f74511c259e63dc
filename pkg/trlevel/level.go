package trlevel

import (
	"fmt"

	trmath "github.com/Faultbox/trlevel/pkg/math"
)

// Level is the decoded, read-only snapshot of one level file. Nothing in the
// package mutates a Level after Load returns it.
type Level struct {
	format   Format
	filename string

	palette    []Colour
	palette16  []Colour4
	textiles8  []Textile8
	textiles16 []Textile16
	textiles32 []Textile32
	lightMap   *LightMap

	// miscTextiles are the TR4/TR5 font and sky pages. No object or
	// sprite texture may point at them.
	miscTextiles []Textile32
	// textiles4 and cluts are the PlayStation source pages, kept as read.
	textiles4 []Textile4
	cluts     []Clut

	rooms     []Room
	floorData []uint16

	meshData     []uint16
	meshPointers []uint32
	meshes       MeshArena

	animations     []Animation
	stateChanges   []StateChange
	animDispatches []AnimDispatch
	animCommands   []int16
	meshTree       []uint32
	frames         []uint16
	models         []Model
	staticMeshes   []StaticMesh

	objectTextures   []ObjectTexture
	spriteTextures   []SpriteTexture
	spriteSequences  []SpriteSequence
	animatedTextures []uint16
	animatedUVCount  uint8

	cameras      []Camera
	flybyCameras []FlybyCamera
	soundSources []SoundSource

	boxes    []Box
	overlaps []uint16
	zones    []int16

	entities  []Entity
	aiObjects []AIObject

	cinematicFrames []CinematicFrame
	demoData        []byte
	soundMap        []int16
	soundDetails    []SoundDetails
	sampleIndices   []uint32
	soundData       []byte
	samples         []SoundSample

	laraType    uint16
	weatherType uint16

	items       []Item
	triggers    []Trigger
	cameraSinks []CameraSink
}

// Format returns the detected format tag.
func (l *Level) Format() Format { return l.format }

// Version returns the level version.
func (l *Level) Version() LevelVersion { return l.format.Version }

// Platform returns the level platform.
func (l *Level) Platform() Platform { return l.format.Platform }

// Filename returns the base name the level was loaded with, if any.
func (l *Level) Filename() string { return l.filename }

// HasPalette reports whether PaletteEntry is meaningful for this level.
func (l *Level) HasPalette() bool {
	return l.format.HasPalette() && len(l.palette) > 0
}

// PaletteEntry returns the 8-bit palette colour at index. It reports false
// for TR4+ levels, which use direct colour textures.
func (l *Level) PaletteEntry(index int) (Colour, bool) {
	if !l.format.HasPalette() || index < 0 || index >= len(l.palette) {
		return Colour{}, false
	}
	return l.palette[index], true
}

// PaletteEntry16 returns the 16-bit palette colour at index (TR2 and TR3).
func (l *Level) PaletteEntry16(index int) (Colour4, bool) {
	if !l.format.HasPalette() || index < 0 || index >= len(l.palette16) {
		return Colour4{}, false
	}
	return l.palette16[index], true
}

// NumTextiles returns the number of texture pages of the widest depth the
// level carries.
func (l *Level) NumTextiles() int {
	return max(len(l.textiles8), len(l.textiles16), len(l.textiles32))
}

// Textile8 returns the 8-bit page at index, or nil.
func (l *Level) Textile8(index int) *Textile8 {
	if index < 0 || index >= len(l.textiles8) {
		return nil
	}
	return &l.textiles8[index]
}

// Textile16 returns the 16-bit page at index, or nil.
func (l *Level) Textile16(index int) *Textile16 {
	if index < 0 || index >= len(l.textiles16) {
		return nil
	}
	return &l.textiles16[index]
}

// Textile32 returns the 32-bit page at index, or nil.
func (l *Level) Textile32(index int) *Textile32 {
	if index < 0 || index >= len(l.textiles32) {
		return nil
	}
	return &l.textiles32[index]
}

// NumMiscTextiles returns the number of TR4/TR5 font and sky pages.
func (l *Level) NumMiscTextiles() int { return len(l.miscTextiles) }

// MiscTextile returns the font or sky page at index, or nil.
func (l *Level) MiscTextile(index int) *Textile32 {
	if index < 0 || index >= len(l.miscTextiles) {
		return nil
	}
	return &l.miscTextiles[index]
}

// NumTextiles4 returns the number of 4-bit PlayStation pages.
func (l *Level) NumTextiles4() int { return len(l.textiles4) }

// Textile4 returns the 4-bit PlayStation page at index, or nil.
func (l *Level) Textile4(index int) *Textile4 {
	if index < 0 || index >= len(l.textiles4) {
		return nil
	}
	return &l.textiles4[index]
}

// Clut returns the PlayStation colour table at index.
func (l *Level) Clut(index int) (Clut, bool) {
	if index < 0 || index >= len(l.cluts) {
		return Clut{}, false
	}
	return l.cluts[index], true
}

// LightMap returns the shade remapping table, or nil when absent.
func (l *Level) LightMap() *LightMap { return l.lightMap }

// NumRooms returns the room count.
func (l *Level) NumRooms() int { return len(l.rooms) }

// Room returns the room at index, or nil.
func (l *Level) Room(index int) *Room {
	if index < 0 || index >= len(l.rooms) {
		return nil
	}
	return &l.rooms[index]
}

// Rooms returns all rooms. The slice must not be modified.
func (l *Level) Rooms() []Room { return l.rooms }

// FloorData returns the shared floordata words. The slice must not be modified.
func (l *Level) FloorData() []uint16 { return l.floorData }

// FloorDataAt returns the floordata words from offset to the end of the
// stream, or nil when offset is out of range.
func (l *Level) FloorDataAt(offset int) []uint16 {
	if offset < 0 || offset >= len(l.floorData) {
		return nil
	}
	return l.floorData[offset:]
}

// Sector returns the decoded view of one sector.
func (l *Level) Sector(room, x, z int) (Sector, bool) {
	r := l.Room(room)
	if r == nil {
		return Sector{}, false
	}
	raw, ok := r.SectorAt(x, z)
	if !ok {
		return Sector{}, false
	}
	s, err := newSector(l.format.Version, l.floorData, raw, r, uint16(room), x*int(r.NumZSectors)+z)
	if err != nil {
		return Sector{}, false
	}
	return s, true
}

// NumMeshes returns the number of distinct meshes.
func (l *Level) NumMeshes() int { return l.meshes.Len() }

// Mesh returns the mesh with the given arena id, or nil.
func (l *Level) Mesh(id int) *Mesh { return l.meshes.Get(id) }

// MeshByPointer resolves a raw mesh pointer to its arena id.
func (l *Level) MeshByPointer(pointer uint32) (int, bool) {
	return l.meshes.IDByPointer(pointer)
}

// MeshPointers returns the mesh pointer table.
func (l *Level) MeshPointers() []uint32 { return l.meshPointers }

// MeshForIndex resolves an index into the mesh pointer table.
func (l *Level) MeshForIndex(index int) *Mesh {
	if index < 0 || index >= len(l.meshPointers) {
		return nil
	}
	id, ok := l.meshes.IDByPointer(l.meshPointers[index])
	if !ok {
		return nil
	}
	return l.meshes.Get(id)
}

// Model returns the model with the given object type id.
func (l *Level) Model(typeID uint32) (Model, bool) {
	for _, m := range l.models {
		if m.ID == typeID {
			return m, true
		}
	}
	return Model{}, false
}

// Models returns all models.
func (l *Level) Models() []Model { return l.models }

// StaticMesh returns the static mesh with the given id.
func (l *Level) StaticMesh(id uint32) (StaticMesh, bool) {
	for _, s := range l.staticMeshes {
		if s.ID == id {
			return s, true
		}
	}
	return StaticMesh{}, false
}

// StaticMeshes returns all static mesh definitions.
func (l *Level) StaticMeshes() []StaticMesh { return l.staticMeshes }

// Animations returns the animation table.
func (l *Level) Animations() []Animation { return l.animations }

// StateChanges returns the state change table.
func (l *Level) StateChanges() []StateChange { return l.stateChanges }

// AnimDispatches returns the animation dispatch table.
func (l *Level) AnimDispatches() []AnimDispatch { return l.animDispatches }

// AnimCommands returns the animation command words.
func (l *Level) AnimCommands() []int16 { return l.animCommands }

// MeshTree returns the raw mesh tree words.
func (l *Level) MeshTree() []uint32 { return l.meshTree }

// ObjectTexture returns the object texture at index.
func (l *Level) ObjectTexture(index int) (ObjectTexture, bool) {
	if index < 0 || index >= len(l.objectTextures) {
		return ObjectTexture{}, false
	}
	return l.objectTextures[index], true
}

// ObjectTextures returns all object textures.
func (l *Level) ObjectTextures() []ObjectTexture { return l.objectTextures }

// SpriteTextures returns all sprite textures.
func (l *Level) SpriteTextures() []SpriteTexture { return l.spriteTextures }

// SpriteSequence returns the sprite sequence for a sprite object type.
func (l *Level) SpriteSequence(spriteID int32) (SpriteSequence, bool) {
	for _, s := range l.spriteSequences {
		if s.SpriteID == spriteID {
			return s, true
		}
	}
	return SpriteSequence{}, false
}

// AnimatedTextures returns the raw animated texture words.
func (l *Level) AnimatedTextures() []uint16 { return l.animatedTextures }

// Boxes returns the pathfinding boxes.
func (l *Level) Boxes() []Box { return l.boxes }

// Overlaps returns the box overlap words.
func (l *Level) Overlaps() []uint16 { return l.overlaps }

// Zones returns the raw zone words.
func (l *Level) Zones() []int16 { return l.zones }

// NumItems returns the number of items, AI objects included.
func (l *Level) NumItems() int { return len(l.items) }

// Item returns the item at index, or nil.
func (l *Level) Item(index int) *Item {
	if index < 0 || index >= len(l.items) {
		return nil
	}
	return &l.items[index]
}

// Items returns all items. Entities come first, then AI objects.
func (l *Level) Items() []Item { return l.items }

// ItemsInRoom returns the indices of items placed in room.
func (l *Level) ItemsInRoom(room int) []int {
	var out []int
	for i, it := range l.items {
		if int(it.Room) == room {
			out = append(out, i)
		}
	}
	return out
}

// ItemsNear returns the indices of items within radius of p on the ground
// plane, ignoring height. Units are sectors.
func (l *Level) ItemsNear(p trmath.Vec3, radius float32) []int {
	var out []int
	for i, it := range l.items {
		if it.Position().XZ().Distance(p.XZ()) <= radius {
			out = append(out, i)
		}
	}
	return out
}

// Entities returns the raw entity records.
func (l *Level) Entities() []Entity { return l.entities }

// AIObjects returns the AI objects. Empty before TR4.
func (l *Level) AIObjects() []AIObject { return l.aiObjects }

// Triggers returns every trigger found in the floordata.
func (l *Level) Triggers() []Trigger { return l.triggers }

// CameraSinks returns the cameras and sinks.
func (l *Level) CameraSinks() []CameraSink { return l.cameraSinks }

// FlybyCameras returns the flyby camera nodes in file order.
func (l *Level) FlybyCameras() []FlybyCamera { return l.flybyCameras }

// SoundSources returns the ambient sound sources.
func (l *Level) SoundSources() []SoundSource { return l.soundSources }

// SoundMap returns the sound id to details index table.
func (l *Level) SoundMap() []int16 { return l.soundMap }

// SoundDetails returns the sound effect descriptors.
func (l *Level) SoundDetails() []SoundDetails { return l.soundDetails }

// SampleIndices returns the sample index table.
func (l *Level) SampleIndices() []uint32 { return l.sampleIndices }

// SoundSamples returns the decoded sound samples.
func (l *Level) SoundSamples() []SoundSample { return l.samples }

// CinematicFrames returns the TR1 to TR3 cutscene frames.
func (l *Level) CinematicFrames() []CinematicFrame { return l.cinematicFrames }

// DemoData returns the raw demo bytes.
func (l *Level) DemoData() []byte { return l.demoData }

// LaraType returns the TR5 Lara outfit selector.
func (l *Level) LaraType() uint16 { return l.laraType }

// WeatherType returns the TR5 weather selector.
func (l *Level) WeatherType() uint16 { return l.weatherType }

// finish derives the cross-referenced views once every section is read.
func (l *Level) finish(info *TypeInfoLookup) error {
	if err := l.validateTextures(); err != nil {
		return err
	}
	for i := range l.rooms {
		if err := l.rooms[i].validate(); err != nil {
			return fmt.Errorf("room %d: %w", i, err)
		}
	}
	if err := l.buildTriggers(); err != nil {
		return err
	}
	l.buildCameraSinks()
	l.buildItems(info)
	return nil
}

func (l *Level) validateTextures() error {
	pages := l.NumTextiles()
	for i, t := range l.objectTextures {
		if int(t.Tile) >= pages {
			return fmt.Errorf("%w: object texture %d uses page %d of %d", ErrUnsupportedSection, i, t.Tile, pages)
		}
	}
	for i, t := range l.spriteTextures {
		if int(t.Tile) >= pages {
			return fmt.Errorf("%w: sprite texture %d uses page %d of %d", ErrUnsupportedSection, i, t.Tile, pages)
		}
	}
	return nil
}

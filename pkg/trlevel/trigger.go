package trlevel

import "fmt"

// TriggerType is the trigger sub-function of a floordata trigger word.
type TriggerType uint8

// Trigger types. Types after Antitrigger exist from TR3 or TR4 onwards.
const (
	TriggerTypeTrigger TriggerType = iota
	TriggerTypePad
	TriggerTypeSwitch
	TriggerTypeKey
	TriggerTypePickup
	TriggerTypeHeavyTrigger
	TriggerTypeAntipad
	TriggerTypeCombat
	TriggerTypeDummy
	TriggerTypeAntitrigger
	TriggerTypeHeavySwitch
	TriggerTypeHeavyAntitrigger
	TriggerTypeMonkey
	TriggerTypeSkeleton
	TriggerTypeTightrope
	TriggerTypeCrawl
	TriggerTypeClimb
)

var triggerTypeNames = [...]string{
	TriggerTypeTrigger:          "Trigger",
	TriggerTypePad:              "Pad",
	TriggerTypeSwitch:           "Switch",
	TriggerTypeKey:              "Key",
	TriggerTypePickup:           "Pickup",
	TriggerTypeHeavyTrigger:     "Heavy Trigger",
	TriggerTypeAntipad:          "Antipad",
	TriggerTypeCombat:           "Combat",
	TriggerTypeDummy:            "Dummy",
	TriggerTypeAntitrigger:      "Antitrigger",
	TriggerTypeHeavySwitch:      "Heavy Switch",
	TriggerTypeHeavyAntitrigger: "Heavy Antitrigger",
	TriggerTypeMonkey:           "Monkey",
	TriggerTypeSkeleton:         "Skeleton",
	TriggerTypeTightrope:        "Tightrope",
	TriggerTypeCrawl:            "Crawl",
	TriggerTypeClimb:            "Climb",
}

func (t TriggerType) String() string {
	if int(t) < len(triggerTypeNames) {
		return triggerTypeNames[t]
	}
	return fmt.Sprintf("Unknown(%d)", uint8(t))
}

// TriggerCommandType is the action of a trigger command word.
type TriggerCommandType uint8

// Trigger command actions.
const (
	TriggerCommandObject TriggerCommandType = iota
	TriggerCommandCamera
	TriggerCommandUnderwaterCurrent
	TriggerCommandFlipMap
	TriggerCommandFlipOn
	TriggerCommandFlipOff
	TriggerCommandLookAtItem
	TriggerCommandEndLevel
	TriggerCommandPlaySoundtrack
	TriggerCommandFlipeffect
	TriggerCommandSecretFound
	TriggerCommandClearBodies
	TriggerCommandFlyby
	TriggerCommandCutscene
)

var commandNames = [...]string{
	TriggerCommandObject:            "Item",
	TriggerCommandCamera:            "Camera",
	TriggerCommandUnderwaterCurrent: "Current",
	TriggerCommandFlipMap:           "Flip Map",
	TriggerCommandFlipOn:            "Flip On",
	TriggerCommandFlipOff:           "Flip Off",
	TriggerCommandLookAtItem:        "Look at Item",
	TriggerCommandEndLevel:          "End Level",
	TriggerCommandPlaySoundtrack:    "Music",
	TriggerCommandFlipeffect:        "Flipeffect",
	TriggerCommandSecretFound:       "Secret",
	TriggerCommandClearBodies:       "Clear Bodies",
	TriggerCommandFlyby:             "Flyby",
	TriggerCommandCutscene:          "Cutscene",
}

func (t TriggerCommandType) String() string {
	if int(t) < len(commandNames) {
		return commandNames[t]
	}
	return fmt.Sprintf("Unknown(%d)", uint8(t))
}

// HasIndex reports whether the command's index field means anything.
func (t TriggerCommandType) HasIndex() bool {
	return t != TriggerCommandClearBodies && t != TriggerCommandEndLevel
}

// IsItem reports whether the command's index refers to an item.
func (t TriggerCommandType) IsItem() bool {
	return t == TriggerCommandObject || t == TriggerCommandLookAtItem
}

// Trigger is a trigger located in a specific room sector.
type Trigger struct {
	Number   int
	Room     uint16
	X, Z     int
	SectorID int
	Type     TriggerType
	OneShot  bool
	Mask     uint8
	Commands []TriggerCommand

	rawTimer uint8
	version  LevelVersion
}

// RawTimer returns the timer byte as stored.
func (t Trigger) RawTimer() uint8 { return t.rawTimer }

// Timer returns the timer. TR1 to TR3 read the byte as unsigned; TR4 onwards
// reads the same bits as a signed value.
func (t Trigger) Timer() int {
	if t.version >= Tomb4 {
		return int(int8(t.rawTimer))
	}
	return int(t.rawTimer)
}

// Position returns the centre of the trigger's sector in sector units,
// relative to the room origin.
func (t Trigger) Position() (x, z float32) {
	return float32(t.X) + 0.5, float32(t.Z) + 0.5
}

// CommandsOf returns the commands of one action type.
func (t Trigger) CommandsOf(typ TriggerCommandType) []TriggerCommand {
	var out []TriggerCommand
	for _, c := range t.Commands {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

func newTrigger(number int, s Sector, data TriggerData) Trigger {
	return Trigger{
		Number:   number,
		Room:     s.Room,
		X:        s.X,
		Z:        s.Z,
		SectorID: s.ID,
		Type:     data.Type,
		OneShot:  data.OneShot,
		Mask:     data.Mask,
		Commands: data.Commands,
		rawTimer: data.Timer,
		version:  s.version,
	}
}

// buildTriggers walks every sector of every room in order and collects the
// trigger functions.
func (l *Level) buildTriggers() error {
	l.triggers = nil
	for ri := range l.rooms {
		room := &l.rooms[ri]
		for id, raw := range room.Sectors {
			if raw.FloorDataIndex == 0 {
				continue
			}
			s, err := newSector(l.format.Version, l.floorData, raw, room, uint16(ri), id)
			if err != nil {
				return fmt.Errorf("room %d sector %d: %w", ri, id, err)
			}
			data, ok := s.Trigger()
			if !ok {
				continue
			}
			l.triggers = append(l.triggers, newTrigger(len(l.triggers), s, data))
		}
	}
	return nil
}

// TriggersForItem returns the triggers with an item command for index.
func (l *Level) TriggersForItem(index int) []Trigger {
	var out []Trigger
	for _, t := range l.triggers {
		for _, c := range t.Commands {
			if c.Type.IsItem() && int(c.Index) == index {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

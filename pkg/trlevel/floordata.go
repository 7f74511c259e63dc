package trlevel

import "fmt"

// FloorFunction is the low five bits of a floordata header word.
type FloorFunction uint8

// Floordata functions.
const (
	FloorFunctionNone          FloorFunction = 0x00
	FloorFunctionPortal        FloorFunction = 0x01
	FloorFunctionFloorSlant    FloorFunction = 0x02
	FloorFunctionCeilingSlant  FloorFunction = 0x03
	FloorFunctionTrigger       FloorFunction = 0x04
	FloorFunctionDeath         FloorFunction = 0x05
	FloorFunctionClimbableWall FloorFunction = 0x06
	FloorFunctionMonkeySwing   FloorFunction = 0x13
	FloorFunctionMinecartLeft  FloorFunction = 0x14
	FloorFunctionMinecartRight FloorFunction = 0x15

	floorTriangulationFirst FloorFunction = 0x07
	floorTriangulationLast  FloorFunction = 0x12
)

// Floordata header and trigger word fields.
const (
	floorEndBit      = 0x8000
	floorFunctionBit = 0x001F
	floorSubMask     = 0x7F00

	triggerTimerMask   = 0x00FF
	triggerOneShotBit  = 0x0100
	triggerMaskBits    = 0x3E00
	commandActionMask  = 0x7C00
	commandIndexMask   = 0x03FF
	commandContinueBit = 0x8000
)

// TriangulationDirection is the diagonal along which a sector is split.
type TriangulationDirection uint8

// Split directions.
const (
	TriangulationNone TriangulationDirection = iota
	TriangulationNwSe
	TriangulationNeSw
)

// Triangulation describes a sector split into two triangles.
type Triangulation struct {
	Function  FloorFunction
	Direction TriangulationDirection
	// H1 and H2 are the two five-bit height adjustments of the header word.
	H1, H2 uint8
	// Corners packs the four corner heights, four bits each.
	Corners uint16
}

func (t Triangulation) isCeiling() bool {
	switch t.Function {
	case 0x09, 0x0A, 0x0F, 0x10, 0x11, 0x12:
		return true
	}
	return false
}

// TriggerCommand is one action of a trigger.
type TriggerCommand struct {
	Type  TriggerCommandType
	Index uint16
	// Data is the extra word carried by camera and flyby commands.
	Data uint16
}

// TriggerData is a trigger function as stored in floordata. Timer is the raw
// byte; Trigger.Timer applies the version's signedness.
type TriggerData struct {
	Type     TriggerType
	Timer    uint8
	OneShot  bool
	Mask     uint8
	Commands []TriggerCommand
}

// FloorData is the decoded function chain of one sector.
type FloorData struct {
	Flags        SectorFlag
	Portal       uint16
	FloorSlant   uint16
	CeilingSlant uint16
	Floor        *Triangulation
	Ceiling      *Triangulation
	Trigger      *TriggerData
}

type floorCursor struct {
	words []uint16
	pos   int
}

func (c *floorCursor) word() (uint16, error) {
	if c.pos < 0 || c.pos >= len(c.words) {
		return 0, fmt.Errorf("%w: floordata word %d of %d", ErrOutOfData, c.pos, len(c.words))
	}
	return c.words[c.pos], nil
}

// advance moves to the next word and returns it.
func (c *floorCursor) advance() (uint16, error) {
	c.pos++
	return c.word()
}

// ParseFloorData decodes the function chain starting at index. Index zero
// means the sector has no floordata. Parsing stops at the first header word
// with its end bit set and never reads past words.
func ParseFloorData(words []uint16, index int) (FloorData, error) {
	var fd FloorData
	if index == 0 {
		return fd, nil
	}
	c := &floorCursor{words: words, pos: index}
	for {
		header, err := c.word()
		if err != nil {
			return fd, err
		}
		fn := FloorFunction(header & floorFunctionBit)
		sub := uint8((header & floorSubMask) >> 8)

		switch {
		case fn == FloorFunctionPortal:
			if fd.Portal, err = c.advance(); err != nil {
				return fd, err
			}
			fd.Flags |= SectorFlagPortal
		case fn == FloorFunctionFloorSlant:
			if fd.FloorSlant, err = c.advance(); err != nil {
				return fd, err
			}
			fd.Flags |= SectorFlagFloorSlant
		case fn == FloorFunctionCeilingSlant:
			if fd.CeilingSlant, err = c.advance(); err != nil {
				return fd, err
			}
			fd.Flags |= SectorFlagCeilingSlant
		case fn == FloorFunctionTrigger:
			if fd.Trigger, err = parseTrigger(c, TriggerType(sub)); err != nil {
				return fd, err
			}
			fd.Flags |= SectorFlagTrigger
		case fn == FloorFunctionDeath:
			fd.Flags |= SectorFlagDeath
		case fn == FloorFunctionClimbableWall:
			fd.Flags |= SectorFlag(uint16(sub&0x0F) << 7)
		case fn >= floorTriangulationFirst && fn <= floorTriangulationLast:
			corners, err := c.advance()
			if err != nil {
				return fd, err
			}
			t := &Triangulation{
				Function:  fn,
				Direction: triangulationDirection(fn),
				H1:        uint8((header & 0x03E0) >> 5),
				H2:        uint8((header & 0x7C00) >> 10),
				Corners:   corners,
			}
			if t.isCeiling() {
				fd.Ceiling = t
			} else {
				fd.Floor = t
			}
		case fn == FloorFunctionMonkeySwing:
			fd.Flags |= SectorFlagMonkeySwing
		case fn == FloorFunctionMinecartLeft:
			fd.Flags |= SectorFlagMinecartLeft
		case fn == FloorFunctionMinecartRight:
			fd.Flags |= SectorFlagMinecartRight
		}

		if header&floorEndBit != 0 {
			return fd, nil
		}
		c.pos++
	}
}

func triangulationDirection(fn FloorFunction) TriangulationDirection {
	switch fn {
	case 0x07, 0x0B, 0x0C, 0x09, 0x0F, 0x10:
		return TriangulationNwSe
	case 0x08, 0x0D, 0x0E, 0x0A, 0x11, 0x12:
		return TriangulationNeSw
	}
	return TriangulationNone
}

// parseTrigger reads the setup word, the switch or key reference where
// present, then the command list. The cursor is left on the last word of
// the trigger.
func parseTrigger(c *floorCursor, typ TriggerType) (*TriggerData, error) {
	setup, err := c.advance()
	if err != nil {
		return nil, err
	}
	t := &TriggerData{
		Type:    typ,
		Timer:   uint8(setup & triggerTimerMask),
		OneShot: setup&triggerOneShotBit != 0,
		Mask:    uint8((setup & triggerMaskBits) >> 9),
	}

	if typ == TriggerTypeSwitch || typ == TriggerTypeKey {
		ref, err := c.advance()
		if err != nil {
			return nil, err
		}
		if ref&commandContinueBit != 0 {
			return t, nil
		}
	}

	for c.pos+1 < len(c.words) {
		cmd, _ := c.advance()
		command := TriggerCommand{
			Type:  TriggerCommandType((cmd & commandActionMask) >> 10),
			Index: cmd & commandIndexMask,
		}
		last := cmd&commandContinueBit != 0
		if command.Type == TriggerCommandCamera || command.Type == TriggerCommandFlyby {
			extra, err := c.advance()
			if err != nil {
				return nil, err
			}
			command.Data = extra
			last = extra&commandContinueBit != 0
		}
		t.Commands = append(t.Commands, command)
		if last {
			break
		}
	}
	return t, nil
}

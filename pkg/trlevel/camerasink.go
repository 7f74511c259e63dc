package trlevel

import (
	"fmt"
	"slices"

	trmath "github.com/Faultbox/trlevel/pkg/math"
)

// CameraSinkType selects how a camera record is read.
type CameraSinkType uint8

// Camera record interpretations.
const (
	CameraSinkCamera CameraSinkType = iota
	CameraSinkSink
)

func (t CameraSinkType) String() string {
	switch t {
	case CameraSinkCamera:
		return "Camera"
	case CameraSinkSink:
		return "Sink"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// CameraSink is one camera record. The record layout is shared: a fixed
// camera uses Room and Flag as given, while an underwater current sink
// stores its strength in Room and its box index in Flag. Type decides which
// view applies; the raw fields are never rewritten.
type CameraSink struct {
	Number int
	Type   CameraSinkType
	Raw    Camera

	// InferredRooms lists the rooms of the triggers that use a sink.
	InferredRooms []uint16
}

// Position returns the record position in sector units.
func (c CameraSink) Position() trmath.Vec3 {
	return trmath.FromWorld(c.Raw.X, c.Raw.Y, c.Raw.Z)
}

// CameraView is the fixed camera reading of a record.
type CameraView struct {
	Room       int16
	Flag       uint16
	Persistent bool
}

// SinkView is the underwater current reading of a record.
type SinkView struct {
	Strength int16
	BoxIndex uint16
}

// AsCamera reads the record as a fixed camera.
func (c CameraSink) AsCamera() CameraView {
	return CameraView{
		Room:       c.Raw.Room,
		Flag:       c.Raw.Flag,
		Persistent: c.Raw.Flag&1 != 0,
	}
}

// AsSink reads the record as a sink.
func (c CameraSink) AsSink() SinkView {
	return SinkView{
		Strength: c.Raw.Room,
		BoxIndex: c.Raw.Flag,
	}
}

// Camera reports the camera view when the record is a camera.
func (c CameraSink) Camera() (CameraView, bool) {
	return c.AsCamera(), c.Type == CameraSinkCamera
}

// Sink reports the sink view when the record is a sink.
func (c CameraSink) Sink() (SinkView, bool) {
	return c.AsSink(), c.Type == CameraSinkSink
}

// buildCameraSinks classifies each camera record. A record referenced by an
// underwater current command is a sink; everything else is a camera.
func (l *Level) buildCameraSinks() {
	sinkRooms := make(map[int][]uint16)
	for _, t := range l.triggers {
		for _, c := range t.CommandsOf(TriggerCommandUnderwaterCurrent) {
			idx := int(c.Index)
			if !slices.Contains(sinkRooms[idx], t.Room) {
				sinkRooms[idx] = append(sinkRooms[idx], t.Room)
			}
		}
	}

	l.cameraSinks = make([]CameraSink, len(l.cameras))
	for i, cam := range l.cameras {
		cs := CameraSink{Number: i, Type: CameraSinkCamera, Raw: cam}
		if rooms, ok := sinkRooms[i]; ok {
			cs.Type = CameraSinkSink
			cs.InferredRooms = rooms
		}
		l.cameraSinks[i] = cs
	}
}

package trlevel

import (
	"errors"
	"math"
	"testing"

	trmath "github.com/Faultbox/trlevel/pkg/math"
)

func nearly(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestLevel_Frame(t *testing.T) {
	header := []uint16{0xFFF0, 0, 0xFFF0, 16, 32, 16, 0, 0xFF00, 0}
	frames := append([]uint16{}, header...)
	// Mesh 0: three-axis with x = 256 units (quarter turn), y = 0, z = 0.
	frames = append(frames, 256<<4, 0)
	// Mesh 1: single y axis, quarter turn in 10 bits.
	frames = append(frames, rotationAxisY|256)

	l := &Level{format: Format{Version: Tomb2}, frames: frames}
	f, err := l.Frame(0, 2)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if f.Min != (Vertex{-16, 0, -16}) || f.Offset.Y != -256 {
		t.Errorf("unexpected header %+v", f)
	}
	if len(f.Rotations) != 2 {
		t.Fatalf("expected 2 rotations, got %d", len(f.Rotations))
	}
	if !nearly(f.Rotations[0].X, math.Pi/2) || f.Rotations[0].Y != 0 {
		t.Errorf("unexpected three-axis rotation %+v", f.Rotations[0])
	}
	if !nearly(f.Rotations[1].Y, math.Pi/2) || f.Rotations[1].X != 0 {
		t.Errorf("unexpected single-axis rotation %+v", f.Rotations[1])
	}
}

func TestLevel_Frame_TR4Precision(t *testing.T) {
	frames := make([]uint16, 9)
	frames = append(frames, rotationAxisZ|1024)

	l := &Level{format: Format{Version: Tomb4}, frames: frames}
	f, err := l.Frame(0, 1)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if !nearly(f.Rotations[0].Z, math.Pi/2) {
		t.Errorf("expected quarter turn on z, got %+v", f.Rotations[0])
	}
}

func TestLevel_Frame_TR1(t *testing.T) {
	frames := make([]uint16, 9)
	// Mesh count, then each rotation with its two words swapped.
	frames = append(frames, 1, 0, 256<<4)

	l := &Level{format: Format{Version: Tomb1}, frames: frames}
	f, err := l.Frame(0, 99)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if len(f.Rotations) != 1 {
		t.Fatalf("expected the stored mesh count, got %d rotations", len(f.Rotations))
	}
	if !nearly(f.Rotations[0].X, math.Pi/2) {
		t.Errorf("unexpected rotation %+v", f.Rotations[0])
	}
}

func TestLevel_Frame_Truncated(t *testing.T) {
	l := &Level{format: Format{Version: Tomb3}, frames: make([]uint16, 10)}
	if _, err := l.Frame(0, 3); !errors.Is(err, ErrOutOfData) {
		t.Errorf("expected ErrOutOfData, got %v", err)
	}
	if _, err := l.Frame(100, 1); !errors.Is(err, ErrOutOfData) {
		t.Errorf("expected ErrOutOfData for offset, got %v", err)
	}
}

func TestFrame_Blend(t *testing.T) {
	a := Frame{Rotations: []trmath.Vec3{{}}}
	b := Frame{
		Offset:    Vertex{X: 1024, Z: 2048},
		Rotations: []trmath.Vec3{{Y: math.Pi / 2}, {X: math.Pi / 2}},
	}

	offset, rots := a.Blend(b, 0.5)
	if !nearVec3(offset, trmath.Vec3{X: 0.5, Z: 1}) {
		t.Errorf("unexpected offset %v", offset)
	}
	if len(rots) != 2 {
		t.Fatalf("expected 2 rotations, got %d", len(rots))
	}
	const h = math.Sqrt2 / 2
	if got := rots[0].Rotate(trmath.Vec3{Z: 1}); !nearVec3(got, trmath.Vec3{X: h, Z: h}) {
		t.Errorf("expected half yaw, got %v", got)
	}
	// Mesh 1 is missing from a and blends from the identity.
	if got := rots[1].Rotate(trmath.Vec3{Y: 1}); !nearVec3(got, trmath.Vec3{Y: h, Z: h}) {
		t.Errorf("expected half pitch, got %v", got)
	}

	if offset, _ := a.Blend(b, 1); !nearVec3(offset, trmath.Vec3{X: 1, Z: 2}) {
		t.Errorf("expected the next offset at t=1, got %v", offset)
	}
}

package trlevel

import (
	"fmt"

	"github.com/chewxy/math32"

	trmath "github.com/Faultbox/trlevel/pkg/math"
)

// Frame is one keyframe of a model animation.
type Frame struct {
	Min, Max Vertex
	Offset   Vertex
	// Rotations holds x, y, z angles in radians per mesh.
	Rotations []trmath.Vec3
}

// Rotation returns the rotation of mesh i as a quaternion.
func (f Frame) Rotation(i int) trmath.Quat {
	if i < 0 || i >= len(f.Rotations) {
		return trmath.QuatIdentity()
	}
	r := f.Rotations[i]
	return trmath.QuatFromYXZ(r.X, r.Y, r.Z)
}

// Blend interpolates between f and next at t in [0, 1], for playback between
// keyframes. It returns the root offset in sector units and one rotation per
// mesh; meshes missing from either frame use the identity.
func (f Frame) Blend(next Frame, t float32) (offset trmath.Vec3, rotations []trmath.Quat) {
	a := trmath.FromInt16(f.Offset.X, f.Offset.Y, f.Offset.Z)
	b := trmath.FromInt16(next.Offset.X, next.Offset.Y, next.Offset.Z)
	n := max(len(f.Rotations), len(next.Rotations))
	rotations = make([]trmath.Quat, n)
	for i := range rotations {
		rotations[i] = f.Rotation(i).Slerp(next.Rotation(i), t)
	}
	return a.Lerp(b, t), rotations
}

type frameHeader struct {
	Min    Vertex
	Max    Vertex
	Offset Vertex
}

const (
	rotationAxisMask = 0xC000
	rotationAxisX    = 0x4000
	rotationAxisY    = 0x8000
	rotationAxisZ    = 0xC000
)

type wordCursor struct {
	words []uint16
	pos   int
}

func (c *wordCursor) next() (uint16, error) {
	if c.pos >= len(c.words) {
		return 0, fmt.Errorf("%w: frame word %d of %d", ErrOutOfData, c.pos, len(c.words))
	}
	w := c.words[c.pos]
	c.pos++
	return w, nil
}

// Frame decodes the frame at a byte offset into the frame words for a model
// with numMeshes meshes. TR1 frames store their own mesh count and always use
// two-word rotations with the words swapped.
func (l *Level) Frame(offset uint32, numMeshes int) (Frame, error) {
	start := int(offset / 2)
	if start < 0 || start+9 > len(l.frames) {
		return Frame{}, fmt.Errorf("%w: frame offset %d", ErrOutOfData, offset)
	}
	var f Frame
	h := l.frames[start:]
	f.Min = Vertex{int16(h[0]), int16(h[1]), int16(h[2])}
	f.Max = Vertex{int16(h[3]), int16(h[4]), int16(h[5])}
	f.Offset = Vertex{int16(h[6]), int16(h[7]), int16(h[8])}

	c := &wordCursor{words: l.frames, pos: start + 9}
	tr1 := l.format.Version == Tomb1
	if tr1 {
		n, err := c.next()
		if err != nil {
			return f, err
		}
		numMeshes = int(n)
	}

	f.Rotations = make([]trmath.Vec3, 0, numMeshes)
	for i := 0; i < numMeshes; i++ {
		rot, err := decodeRotation(c, l.format.Version)
		if err != nil {
			return f, fmt.Errorf("mesh %d: %w", i, err)
		}
		f.Rotations = append(f.Rotations, rot)
	}
	return f, nil
}

func decodeRotation(c *wordCursor, v LevelVersion) (trmath.Vec3, error) {
	if v == Tomb1 {
		next, err := c.next()
		if err != nil {
			return trmath.Vec3{}, err
		}
		data, err := c.next()
		if err != nil {
			return trmath.Vec3{}, err
		}
		return threeAxis(data, next), nil
	}

	data, err := c.next()
	if err != nil {
		return trmath.Vec3{}, err
	}
	mode := data & rotationAxisMask
	if mode == 0 {
		next, err := c.next()
		if err != nil {
			return trmath.Vec3{}, err
		}
		return threeAxis(data, next), nil
	}

	var angle float32
	if v >= Tomb4 {
		angle = float32(data&0x0FFF) * 2 * math32.Pi / 4096
	} else {
		angle = float32(data&0x03FF) * 2 * math32.Pi / 1024
	}
	switch mode {
	case rotationAxisX:
		return trmath.Vec3{X: angle}, nil
	case rotationAxisY:
		return trmath.Vec3{Y: angle}, nil
	case rotationAxisZ:
		return trmath.Vec3{Z: angle}, nil
	}
	return trmath.Vec3{}, nil
}

func threeAxis(data, next uint16) trmath.Vec3 {
	const unit = 2 * math32.Pi / 1024
	x := (data & 0x3FF0) >> 4
	y := (data&0x000F)<<6 | (next&0xFC00)>>10
	z := next & 0x03FF
	return trmath.Vec3{X: float32(x) * unit, Y: float32(y) * unit, Z: float32(z) * unit}
}

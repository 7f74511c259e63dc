package trlevel

import (
	"cmp"
	"slices"

	trmath "github.com/Faultbox/trlevel/pkg/math"
)

// FlybySequence is one flyby path with its nodes in playback order.
type FlybySequence struct {
	Number uint8
	Nodes  []FlybyCamera
}

// Position returns the node position in sector units.
func (c FlybyCamera) Position() trmath.Vec3 {
	return trmath.FromWorld(c.X, c.Y, c.Z)
}

// Target returns the point the node looks at, in sector units.
func (c FlybyCamera) Target() trmath.Vec3 {
	return trmath.FromWorld(c.DX, c.DY, c.DZ)
}

// FieldOfView returns the node's field of view in degrees.
func (c FlybyCamera) FieldOfView() float32 {
	return trmath.FieldOfView(c.FOV)
}

// FlybySequences groups the flyby nodes by sequence, ordered by sequence
// number, each sorted by node index.
func (l *Level) FlybySequences() []FlybySequence {
	var out []FlybySequence
	for _, c := range l.flybyCameras {
		i := slices.IndexFunc(out, func(s FlybySequence) bool { return s.Number == c.Sequence })
		if i < 0 {
			out = append(out, FlybySequence{Number: c.Sequence})
			i = len(out) - 1
		}
		out[i].Nodes = append(out[i].Nodes, c)
	}
	slices.SortFunc(out, func(a, b FlybySequence) int { return cmp.Compare(a.Number, b.Number) })
	for _, s := range out {
		slices.SortStableFunc(s.Nodes, func(a, b FlybyCamera) int { return cmp.Compare(a.Index, b.Index) })
	}
	return out
}

// Length returns the path length through the node positions, in sector
// units.
func (s FlybySequence) Length() float32 {
	var total float32
	for i := 1; i < len(s.Nodes); i++ {
		total += s.Nodes[i-1].Position().Distance(s.Nodes[i].Position())
	}
	return total
}

// Sample returns the camera position and unit view direction at t, where 0
// is the first node and 1 the last. Nodes are spaced evenly in t and the
// path between them is linear.
func (s FlybySequence) Sample(t float32) (position, direction trmath.Vec3) {
	switch len(s.Nodes) {
	case 0:
		return trmath.Vec3{}, trmath.Vec3{}
	case 1:
		n := s.Nodes[0]
		return n.Position(), n.Target().Sub(n.Position()).Normalize()
	}
	t = max(0, min(1, t))
	span := t * float32(len(s.Nodes)-1)
	i := min(int(span), len(s.Nodes)-2)
	f := span - float32(i)
	a, b := s.Nodes[i], s.Nodes[i+1]
	position = a.Position().Lerp(b.Position(), f)
	target := a.Target().Lerp(b.Target(), f)
	return position, target.Sub(position).Normalize()
}

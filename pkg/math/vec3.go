// Package math holds the small vector and rotation types used to express
// level geometry in world units.
package math

import "github.com/chewxy/math32"

// SectorSize is the number of world units along one side of a sector.
const SectorSize = 1024

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// FromWorld converts integer world coordinates to sector units.
func FromWorld(x, y, z int32) Vec3 {
	return Vec3{float32(x) / SectorSize, float32(y) / SectorSize, float32(z) / SectorSize}
}

// FromInt16 converts a packed 16-bit vertex to sector units.
func FromInt16(x, y, z int16) Vec3 {
	return FromWorld(int32(x), int32(y), int32(z))
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalize returns a unit vector, or the zero vector for a zero input.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// Lerp interpolates between v and other.
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return v.Add(other.Sub(v).Scale(t))
}

// XZ returns the ground plane components.
func (v Vec3) XZ() Vec2 {
	return Vec2{v.X, v.Z}
}

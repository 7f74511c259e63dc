package math

import "github.com/chewxy/math32"

// AngleFromUnits converts a 16-bit engine angle, where 65536 units make a
// full turn, to radians.
func AngleFromUnits(units int32) float32 {
	return float32(units) * 2 * math32.Pi / 65536
}

// Degrees converts radians to degrees.
func Degrees(rad float32) float32 {
	return rad * 180 / math32.Pi
}

// FieldOfView converts a flyby camera field of view value to degrees.
func FieldOfView(units uint16) float32 {
	return Degrees(AngleFromUnits(int32(units)))
}

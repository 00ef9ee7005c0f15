package math

import "math"

// Angle is a binary angle: the int16 range covers one full turn, so
// 0x4000 is 90 degrees and arithmetic wraps around naturally.
type Angle int16

// Common angles.
const (
	Eighth  Angle = 0x2000
	Quarter Angle = 0x4000
	Half    Angle = -0x8000
)

const angleToRad = math.Pi / 32768

// Radians converts the angle to radians in [-pi, pi).
func (a Angle) Radians() float64 {
	return float64(a) * angleToRad
}

// Degrees converts the angle to degrees in [-180, 180).
func (a Angle) Degrees() float32 {
	return float32(a) * 180 / 32768
}

// Sin returns the sine of a.
func Sin(a Angle) float32 {
	return float32(math.Sin(a.Radians()))
}

// Cos returns the cosine of a.
func Cos(a Angle) float32 {
	return float32(math.Cos(a.Radians()))
}

// AngleFromFloat truncates f to an Angle, wrapping values outside int16.
func AngleFromFloat(f float32) Angle {
	return Angle(int16(int32(f)))
}

// Heading returns the angle a with Cos(a)·r = c and Sin(a)·r = s for
// some r >= 0. Heading(0, 0) is 0.
func Heading(c, s float32) Angle {
	if c == 0 && s == 0 {
		return 0
	}
	rad := math.Atan2(float64(s), float64(c))
	return Angle(int16(int32(math.Round(rad / angleToRad))))
}

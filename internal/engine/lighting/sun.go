// Package lighting describes the directional light that shades level
// geometry.
package lighting

import (
	"math"

	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

// Sun is a directional light placed by compass angles in degrees.
// Azimuth turns around Y from +Z toward +X; Elevation is above the horizon.
type Sun struct {
	Azimuth   float32 `yaml:"azimuth"`
	Elevation float32 `yaml:"elevation"`
}

// DefaultSun returns a high light from the +X/+Z quadrant.
func DefaultSun() Sun {
	return Sun{Azimuth: 53, Elevation: 62}
}

// ToSun returns the unit vector pointing from the ground toward the sun.
func (s Sun) ToSun() pmath.Vec3 {
	lon := float64(s.Azimuth) * math.Pi / 180
	lat := float64(s.Elevation) * math.Pi / 180
	return pmath.Vec3{
		X: float32(math.Cos(lat) * math.Sin(lon)),
		Y: float32(math.Sin(lat)),
		Z: float32(math.Cos(lat) * math.Cos(lon)),
	}
}

// Direction returns the unit vector the light travels along.
func (s Sun) Direction() pmath.Vec3 {
	return s.ToSun().Scale(-1)
}

// Valid reports whether the sun is above the horizon.
func (s Sun) Valid() bool {
	return s.Elevation > 0 && s.Elevation <= 90
}

// Package geom builds interleaved vertex data for the renderer's meshes.
package geom

import (
	"github.com/Faultbox/midgard-cam/internal/engine/collision"
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

// LevelStride is the float count per level vertex: position, color, normal.
const LevelStride = 9

// MarkerStride is the float count per marker vertex: position, normal.
const MarkerStride = 6

// Player marker size in world units.
const (
	MarkerWidth  = 60
	MarkerHeight = 160
	MarkerDepth  = 100
)

// KindColor returns the display color of a surface kind.
func KindColor(k collision.Kind) [3]float32 {
	switch k {
	case collision.KindFloor:
		return [3]float32{0.35, 0.6, 0.3}
	case collision.KindCeiling:
		return [3]float32{0.55, 0.4, 0.3}
	default:
		return [3]float32{0.6, 0.6, 0.65}
	}
}

// Level returns one flat-shaded triangle per surface in the
// position/color/normal layout.
func Level(surfaces []*collision.Surface) []float32 {
	out := make([]float32, 0, len(surfaces)*3*LevelStride)
	for _, s := range surfaces {
		c := KindColor(s.Kind)
		n := s.Normal
		for _, v := range s.Vertices {
			out = append(out,
				v.X, v.Y, v.Z,
				c[0], c[1], c[2],
				n.X, n.Y, n.Z,
			)
		}
	}
	return out
}

// Marker returns a unit box standing on the origin, x and z in
// [-0.5, 0.5] and y in [0, 1], in the position/normal layout. Faces wind
// counter-clockwise seen from outside.
func Marker() []float32 {
	type face struct {
		n       pmath.Vec3
		corners [4]pmath.Vec3
	}
	lo, hi := float32(-0.5), float32(0.5)
	faces := []face{
		{pmath.Vec3{Z: 1}, [4]pmath.Vec3{{X: lo, Y: 0, Z: hi}, {X: hi, Y: 0, Z: hi}, {X: hi, Y: 1, Z: hi}, {X: lo, Y: 1, Z: hi}}},
		{pmath.Vec3{Z: -1}, [4]pmath.Vec3{{X: hi, Y: 0, Z: lo}, {X: lo, Y: 0, Z: lo}, {X: lo, Y: 1, Z: lo}, {X: hi, Y: 1, Z: lo}}},
		{pmath.Vec3{X: 1}, [4]pmath.Vec3{{X: hi, Y: 0, Z: hi}, {X: hi, Y: 0, Z: lo}, {X: hi, Y: 1, Z: lo}, {X: hi, Y: 1, Z: hi}}},
		{pmath.Vec3{X: -1}, [4]pmath.Vec3{{X: lo, Y: 0, Z: lo}, {X: lo, Y: 0, Z: hi}, {X: lo, Y: 1, Z: hi}, {X: lo, Y: 1, Z: lo}}},
		{pmath.Vec3{Y: 1}, [4]pmath.Vec3{{X: lo, Y: 1, Z: hi}, {X: hi, Y: 1, Z: hi}, {X: hi, Y: 1, Z: lo}, {X: lo, Y: 1, Z: lo}}},
		{pmath.Vec3{Y: -1}, [4]pmath.Vec3{{X: lo, Y: 0, Z: lo}, {X: hi, Y: 0, Z: lo}, {X: hi, Y: 0, Z: hi}, {X: lo, Y: 0, Z: hi}}},
	}

	out := make([]float32, 0, len(faces)*6*MarkerStride)
	for _, f := range faces {
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			p := f.corners[i]
			out = append(out, p.X, p.Y, p.Z, f.n.X, f.n.Y, f.n.Z)
		}
	}
	return out
}

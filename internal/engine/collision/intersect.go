package collision

import (
	"github.com/Faultbox/midgard-cam/pkg/math"
)

// Tolerances for the ray/triangle test.
const (
	parallelEpsilon = 1e-5
	minHitLength    = 1e-5
)

// IntersectSurface runs the Möller–Trumbore test of a ray against s.
// dir must be normalized; only hits at a distance in (1e-5, length]
// count. It returns the hit position and its distance from orig.
func IntersectSurface(orig, dir math.Vec3, length float32, s *Surface) (hit math.Vec3, t float32, ok bool) {
	v0 := s.Vertices[0]
	e1 := s.Vertices[1].Sub(v0)
	e2 := s.Vertices[2].Sub(v0)

	h := dir.Cross(e2)
	a := e1.Dot(h)
	if a > -parallelEpsilon && a < parallelEpsilon {
		return math.Vec3{}, 0, false
	}

	f := 1 / a
	sv := orig.Sub(v0)
	u := f * sv.Dot(h)
	if u < 0 || u > 1 {
		return math.Vec3{}, 0, false
	}

	q := sv.Cross(e1)
	v := f * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return math.Vec3{}, 0, false
	}

	t = f * e2.Dot(q)
	if t <= minHitLength || t > length {
		return math.Vec3{}, 0, false
	}

	return orig.Add(dir.Scale(t)), t, true
}

// Package picking turns viewport clicks into world rays and finds the
// camera regions and level points they touch.
package picking

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    pmath.Vec3
	Direction pmath.Vec3 // Normalized direction
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	nearWorld := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, -1, 1})
	farWorld := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, 1, 1})

	return Ray{
		Origin:    nearWorld,
		Direction: farWorld.Sub(nearWorld).Normalize(),
	}
}

func unproject(m mgl32.Mat4, ndc mgl32.Vec4) pmath.Vec3 {
	w := m.Mul4x1(ndc)
	// Perspective divide
	if w[3] != 0 {
		w = w.Mul(1 / w[3])
	}
	return pmath.Vec3{X: w[0], Y: w[1], Z: w[2]}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) pmath.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
func (r Ray) IntersectPlaneY(planeY float32) (pmath.Vec3, bool) {
	if gomath.Abs(float64(r.Direction.Y)) < 0.001 {
		return pmath.Vec3{}, false // Ray parallel to plane
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return pmath.Vec3{}, false // Intersection behind ray origin
	}
	return r.At(t), true
}

// IntersectBox tests ray intersection with a region box using the slab
// method. It returns the entry distance, or the exit distance when the
// ray starts inside the box.
func (r Ray) IntersectBox(box camera.Box) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	o := r.Origin.Array()
	d := r.Direction.Array()
	lo := box.Min.Array()
	hi := box.Max.Array()

	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - o[i]) / d[i]
		t2 := (hi[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// PickRegion returns the index in regions of the nearest box the ray
// enters, or -1.
func PickRegion(r Ray, regions []camera.RegionOverride) (index int, t float32) {
	index = -1
	for i, o := range regions {
		d, ok := r.IntersectBox(o.Box)
		if ok && (index < 0 || d < t) {
			index, t = i, d
		}
	}
	return index, t
}

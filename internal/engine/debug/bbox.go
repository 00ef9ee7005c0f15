// Package debug builds line and overlay geometry for the camera debug view.
package debug

import (
	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

// Vertex is a colored debug vertex, laid out as [x, y, z, r, g, b].
type Vertex struct {
	X, Y, Z float32
	R, G, B float32
}

// Color is an RGB triple.
type Color [3]float32

// Debug palette.
var (
	ColorRegion       = Color{1.0, 0.8, 0.0}
	ColorRegionActive = Color{1.0, 0.2, 0.2}
	ColorRay          = Color{0.2, 0.9, 1.0}
	ColorRayHit       = Color{1.0, 0.3, 0.9}
	ColorGrid         = Color{0.5, 0.5, 0.5}
)

func vtx(p pmath.Vec3, c Color) Vertex {
	return Vertex{p.X, p.Y, p.Z, c[0], c[1], c[2]}
}

// BoxWireframeVertexCount is the number of vertices for a box wireframe (12 edges × 2).
const BoxWireframeVertexCount = 24

// BoxWireframe appends the 12 edges of b as line vertices.
func BoxWireframe(dst []Vertex, b camera.Box, c Color) []Vertex {
	lo, hi := b.Min, b.Max
	corner := func(x, y, z bool) pmath.Vec3 {
		p := lo
		if x {
			p.X = hi.X
		}
		if y {
			p.Y = hi.Y
		}
		if z {
			p.Z = hi.Z
		}
		return p
	}

	for _, top := range []bool{false, true} {
		// Bottom then top face
		dst = append(dst,
			vtx(corner(false, top, false), c), vtx(corner(true, top, false), c),
			vtx(corner(true, top, false), c), vtx(corner(true, top, true), c),
			vtx(corner(true, top, true), c), vtx(corner(false, top, true), c),
			vtx(corner(false, top, true), c), vtx(corner(false, top, false), c),
		)
	}
	// Vertical edges
	for _, xz := range [][2]bool{{false, false}, {true, false}, {true, true}, {false, true}} {
		dst = append(dst,
			vtx(corner(xz[0], false, xz[1]), c),
			vtx(corner(xz[0], true, xz[1]), c),
		)
	}
	return dst
}

// RegionWireframes outlines regions, then the active region, if any, in
// the highlight color.
func RegionWireframes(regions []camera.RegionOverride, active *camera.RegionOverride) []Vertex {
	out := make([]Vertex, 0, (len(regions)+1)*BoxWireframeVertexCount)
	for _, r := range regions {
		out = BoxWireframe(out, r.Box, ColorRegion)
	}
	if active != nil {
		out = BoxWireframe(out, active.Box, ColorRegionActive)
	}
	return out
}

// RayLine returns the camera ray from target to the camera position, with
// a short cross marking the collision point when hit is set.
func RayLine(target, camPos pmath.Vec3, hit bool) []Vertex {
	out := []Vertex{vtx(target, ColorRay), vtx(camPos, ColorRay)}
	if !hit {
		return out
	}
	const arm = 20
	for _, d := range []pmath.Vec3{{X: arm}, {Y: arm}, {Z: arm}} {
		out = append(out, vtx(camPos.Sub(d), ColorRayHit), vtx(camPos.Add(d), ColorRayHit))
	}
	return out
}

// Package collision provides the world surface database and ray casting
// against it.
package collision

import (
	"errors"

	"github.com/Faultbox/midgard-cam/pkg/math"
)

// ErrDegenerateSurface is returned for triangles with no area.
var ErrDegenerateSurface = errors.New("degenerate surface triangle")

// Kind is the partition list a surface is filed under.
type Kind uint8

// Surface kinds.
const (
	KindFloor Kind = iota
	KindCeiling
	KindWall
	kindCount
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindFloor:
		return "floor"
	case KindCeiling:
		return "ceiling"
	case KindWall:
		return "wall"
	default:
		return "unknown"
	}
}

// Classification thresholds on the normal's Y component.
const (
	floorNormalY   = 0.01
	ceilingNormalY = -0.01

	// boundsPadding widens LowerY/UpperY so rays grazing a surface
	// still reach the full triangle test.
	boundsPadding = 5
)

// Surface is a world-space triangle.
type Surface struct {
	Vertices [3]math.Vec3
	Normal   math.Vec3
	Kind     Kind

	// Vertical extent used for cheap rejection before the triangle test.
	LowerY float32
	UpperY float32

	// ID is an optional caller tag (e.g. the index in a level file).
	ID int
}

// NewSurface builds a surface from three vertices. The normal follows
// (b-a)×(c-a); its Y component decides the kind.
func NewSurface(a, b, c math.Vec3) (*Surface, error) {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Length() == 0 {
		return nil, ErrDegenerateSurface
	}
	n = n.Normalize()

	s := &Surface{
		Vertices: [3]math.Vec3{a, b, c},
		Normal:   n,
		LowerY:   min(a.Y, b.Y, c.Y) - boundsPadding,
		UpperY:   max(a.Y, b.Y, c.Y) + boundsPadding,
	}

	switch {
	case n.Y > floorNormalY:
		s.Kind = KindFloor
	case n.Y < ceilingNormalY:
		s.Kind = KindCeiling
	default:
		s.Kind = KindWall
	}
	return s, nil
}

// Centroid returns the average of the three vertices.
func (s *Surface) Centroid() math.Vec3 {
	return s.Vertices[0].Add(s.Vertices[1]).Add(s.Vertices[2]).Scale(1.0 / 3.0)
}

// boundsXZ returns the horizontal bounding rectangle.
func (s *Surface) boundsXZ() (minX, minZ, maxX, maxZ float32) {
	v := s.Vertices
	minX = min(v[0].X, v[1].X, v[2].X)
	maxX = max(v[0].X, v[1].X, v[2].X)
	minZ = min(v[0].Z, v[1].Z, v[2].Z)
	maxZ = max(v[0].Z, v[1].Z, v[2].Z)
	return
}

package collision

import (
	"fmt"
	gomath "math"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-cam/pkg/math"
)

// TraversalMode selects how many grid cells a cast visits.
type TraversalMode uint8

const (
	// FirstHit walks cells along the ray and stops after the first cell
	// that produced any hit. A closer surface filed only in a later cell
	// can be missed.
	FirstHit TraversalMode = iota

	// Exhaustive tests every cell overlapped by the ray's horizontal
	// bounds and always returns the nearest hit.
	Exhaustive
)

// String returns the mode name.
func (m TraversalMode) String() string {
	if m == Exhaustive {
		return "exhaustive"
	}
	return "first-hit"
}

// ParseTraversalMode looks up a mode by name.
func ParseTraversalMode(name string) (TraversalMode, error) {
	switch name {
	case "first-hit", "":
		return FirstHit, nil
	case "exhaustive":
		return Exhaustive, nil
	}
	return FirstHit, fmt.Errorf("unknown traversal mode %q", name)
}

// UnmarshalYAML decodes a mode from its name.
func (m *TraversalMode) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseTraversalMode(name)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalYAML encodes a mode as its name.
func (m TraversalMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// Direction thresholds on the normalized ray's Y component.
const (
	verticalRayY = 0.99999
	steepRayY    = 0.99
)

// Hit is the result of a cast. Surface is nil when nothing was hit, in
// which case Position is origin+dir.
type Hit struct {
	Surface  *Surface
	Position math.Vec3
	Length   float32
}

// OK reports whether a surface was hit.
func (h Hit) OK() bool {
	return h.Surface != nil
}

// Caster casts finite rays against a partition.
type Caster struct {
	partition Partition
	mode      TraversalMode
}

// NewCaster creates a caster over p.
func NewCaster(p Partition, mode TraversalMode) *Caster {
	return &Caster{partition: p, mode: mode}
}

// Mode returns the traversal mode.
func (c *Caster) Mode() TraversalMode {
	return c.mode
}

// ray carries the per-cast values shared by every list test.
type ray struct {
	orig   math.Vec3
	dir    math.Vec3 // normalized
	length float32
	top    float32
	bottom float32
}

// CastRay casts from origin along dir; the ray ends at origin+dir.
func (c *Caster) CastRay(origin, dir math.Vec3) Hit {
	best := Hit{Position: origin.Add(dir)}

	length := dir.Length()
	if length == 0 || c.partition == nil {
		return best
	}
	best.Length = length

	r := ray{orig: origin, dir: dir.Normalize(), length: length}
	end := origin.Y + r.dir.Y*length
	r.top, r.bottom = max(origin.Y, end), min(origin.Y, end)

	fx := (origin.X + LevelBoundary) / CellSize
	fz := (origin.Z + LevelBoundary) / CellSize
	cellX, cellZ := floorInt(fx), floorInt(fz)

	if r.dir.Y >= verticalRayY || r.dir.Y <= -verticalRayY {
		c.castCell(cellX, cellZ, &r, &best)
		return best
	}

	if c.mode == Exhaustive {
		c.castRect(&r, dir, &best)
		return best
	}

	step := max(abs32(dir.X), abs32(dir.Z)) / CellSize
	dx := dir.X / step / CellSize
	dz := dir.Z / step / CellSize

	first, last, ok := gridSpan(fx, fz, dx, dz, step)
	if !ok {
		return best
	}
	if first > 0 {
		fx = float32(float64(fx) + float64(first)*float64(dx))
		fz = float32(float64(fz) + float64(first)*float64(dz))
		cellX, cellZ = floorInt(fx), floorInt(fz)
	}
	for i := first; i <= last && best.Surface == nil; i++ {
		c.castCell(cellX, cellZ, &r, &best)
		fx += dx
		fz += dz
		cellX, cellZ = floorInt(fx), floorInt(fz)
	}
	return best
}

// gridSpan returns the range of walk steps whose cell can lie inside the
// grid, for a walk starting at cell coordinate (fx, fz) and moving
// (dx, dz) per step. ok is false when the walk never enters the grid.
func gridSpan(fx, fz, dx, dz, step float32) (first, last int, ok bool) {
	lo, hi := 0.0, gomath.Ceil(float64(step))-1
	for _, a := range [2][2]float32{{fx, dx}, {fz, dz}} {
		f, d := float64(a[0]), float64(a[1])
		if d == 0 {
			if f < 0 || f >= CellCount {
				return 0, 0, false
			}
			continue
		}
		t0, t1 := (0-f)/d, (CellCount-f)/d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		// One step of slack on each side absorbs float rounding at the
		// grid edge; cells outside the grid are skipped anyway.
		lo = max(lo, gomath.Floor(t0)-1)
		hi = min(hi, gomath.Ceil(t1)+1)
	}
	if lo > hi {
		return 0, 0, false
	}
	return int(lo), int(hi), true
}

// castRect tests every cell under the ray's horizontal bounding box.
func (c *Caster) castRect(r *ray, dir math.Vec3, best *Hit) {
	end := r.orig.Add(dir)
	x0, x1 := CellIndex(min(r.orig.X, end.X)), CellIndex(max(r.orig.X, end.X))
	z0, z1 := CellIndex(min(r.orig.Z, end.Z)), CellIndex(max(r.orig.Z, end.Z))
	x0, x1 = max(x0, 0), min(x1, CellCount-1)
	z0, z1 = max(z0, 0), min(z1, CellCount-1)
	for z := z0; z <= z1; z++ {
		for x := x0; x <= x1; x++ {
			c.castCell(x, z, r, best)
		}
	}
}

// castCell tests the six lists of one cell, skipping ceilings for rays
// heading straight down and floors for rays heading straight up.
func (c *Caster) castCell(cellX, cellZ int, r *ray, best *Hit) {
	if !InBounds(cellX, cellZ) {
		return
	}
	if r.dir.Y > -steepRayY {
		c.castList(c.partition.Surfaces(cellX, cellZ, KindCeiling, false), r, best)
		c.castList(c.partition.Surfaces(cellX, cellZ, KindCeiling, true), r, best)
	}
	if r.dir.Y < steepRayY {
		c.castList(c.partition.Surfaces(cellX, cellZ, KindFloor, false), r, best)
		c.castList(c.partition.Surfaces(cellX, cellZ, KindFloor, true), r, best)
	}
	c.castList(c.partition.Surfaces(cellX, cellZ, KindWall, false), r, best)
	c.castList(c.partition.Surfaces(cellX, cellZ, KindWall, true), r, best)
}

func (c *Caster) castList(list []*Surface, r *ray, best *Hit) {
	for _, s := range list {
		if s.LowerY > r.top || s.UpperY < r.bottom {
			continue
		}
		pos, t, ok := IntersectSurface(r.orig, r.dir, r.length, s)
		if !ok || t > best.Length {
			continue
		}
		best.Surface = s
		best.Position = pos
		best.Length = t
	}
}

func floorInt(f float32) int {
	return int(gomath.Floor(float64(f)))
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

package collision

import (
	gomath "math"
	"testing"
	"time"

	"github.com/Faultbox/midgard-cam/pkg/math"
)

const b = -LevelBoundary

func mustSurface(t *testing.T, a, b, c math.Vec3) *Surface {
	t.Helper()
	s, err := NewSurface(a, b, c)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	return s
}

// wallQuad adds a vertical quad between two XZ points as two triangles.
func wallQuad(t *testing.T, g *Grid, x1, z1, x2, z2, height float32) []*Surface {
	t.Helper()
	p0 := math.Vec3{X: x1, Y: 0, Z: z1}
	p1 := math.Vec3{X: x2, Y: 0, Z: z2}
	p2 := math.Vec3{X: x2, Y: height, Z: z2}
	p3 := math.Vec3{X: x1, Y: height, Z: z1}
	s1 := mustSurface(t, p0, p1, p2)
	s2 := mustSurface(t, p0, p2, p3)
	g.Add(s1, false)
	g.Add(s2, false)
	return []*Surface{s1, s2}
}

func floorTriangle(t *testing.T) *Surface {
	return mustSurface(t,
		math.Vec3{X: -500, Y: 0, Z: -500},
		math.Vec3{X: -500, Y: 0, Z: 500},
		math.Vec3{X: 500, Y: 0, Z: -500},
	)
}

func TestNewSurfaceKinds(t *testing.T) {
	floor := floorTriangle(t)
	if floor.Kind != KindFloor {
		t.Errorf("floor kind = %v, want floor", floor.Kind)
	}
	if floor.LowerY != -5 || floor.UpperY != 5 {
		t.Errorf("floor bounds = [%v, %v], want [-5, 5]", floor.LowerY, floor.UpperY)
	}

	ceiling := mustSurface(t,
		math.Vec3{X: -500, Y: 300, Z: -500},
		math.Vec3{X: 500, Y: 300, Z: -500},
		math.Vec3{X: -500, Y: 300, Z: 500},
	)
	if ceiling.Kind != KindCeiling {
		t.Errorf("ceiling kind = %v, want ceiling", ceiling.Kind)
	}

	wall := mustSurface(t,
		math.Vec3{X: 0, Y: 0, Z: 0},
		math.Vec3{X: 100, Y: 0, Z: 0},
		math.Vec3{X: 0, Y: 100, Z: 0},
	)
	if wall.Kind != KindWall {
		t.Errorf("wall kind = %v, want wall", wall.Kind)
	}

	if _, err := NewSurface(math.Vec3{}, math.Vec3{X: 1}, math.Vec3{X: 2}); err != ErrDegenerateSurface {
		t.Errorf("collinear triangle: err = %v, want ErrDegenerateSurface", err)
	}
}

func TestIntersectSurface(t *testing.T) {
	s := floorTriangle(t)

	tests := []struct {
		name   string
		orig   math.Vec3
		dir    math.Vec3
		length float32
		hit    bool
		t      float32
	}{
		{"straight down", math.Vec3{X: -100, Y: 100, Z: -100}, math.Vec3{Y: -1}, 200, true, 100},
		{"from below", math.Vec3{X: -100, Y: -100, Z: -100}, math.Vec3{Y: 1}, 200, true, 100},
		{"too short", math.Vec3{X: -100, Y: 100, Z: -100}, math.Vec3{Y: -1}, 50, false, 0},
		{"pointing away", math.Vec3{X: -100, Y: 100, Z: -100}, math.Vec3{Y: 1}, 500, false, 0},
		{"parallel", math.Vec3{X: -100, Y: 0, Z: -100}, math.Vec3{X: 1}, 500, false, 0},
		{"outside triangle", math.Vec3{X: 400, Y: 100, Z: 400}, math.Vec3{Y: -1}, 200, false, 0},
		{"starting on surface", math.Vec3{X: -100, Y: 0, Z: -100}, math.Vec3{Y: -1}, 200, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, length, ok := IntersectSurface(tt.orig, tt.dir, tt.length, s)
			if ok != tt.hit {
				t.Fatalf("hit = %v, want %v", ok, tt.hit)
			}
			if !ok {
				return
			}
			if gomath.Abs(float64(length-tt.t)) > 1e-3 {
				t.Errorf("length = %v, want %v", length, tt.t)
			}
			if gomath.Abs(float64(pos.Y)) > 1e-3 {
				t.Errorf("hit Y = %v, want 0", pos.Y)
			}
		})
	}
}

func TestCellIndex(t *testing.T) {
	tests := []struct {
		coord float32
		want  int
	}{
		{-8192, 0},
		{-8193, -1},
		{0, 8},
		{-1, 7},
		{8191, 15},
		{8192, 16},
	}
	for _, tt := range tests {
		if got := CellIndex(tt.coord); got != tt.want {
			t.Errorf("CellIndex(%v) = %d, want %d", tt.coord, got, tt.want)
		}
	}
}

func TestGridAdd(t *testing.T) {
	g := NewGrid()
	s := floorTriangle(t) // spans x,z in [-500, 500] -> cells 7..8
	if !g.Add(s, false) {
		t.Fatal("Add returned false for an in-bounds surface")
	}

	for _, c := range [][2]int{{7, 7}, {7, 8}, {8, 7}, {8, 8}} {
		if got := g.Surfaces(c[0], c[1], KindFloor, false); len(got) != 1 {
			t.Errorf("cell %v floors = %d, want 1", c, len(got))
		}
	}
	if got := g.Surfaces(6, 7, KindFloor, false); len(got) != 0 {
		t.Errorf("cell (6,7) should be empty, got %d", len(got))
	}
	if got := g.Surfaces(-1, 0, KindFloor, false); got != nil {
		t.Error("out-of-range cell should return nil")
	}

	far := mustSurface(t,
		math.Vec3{X: 9000, Y: 0, Z: 9000},
		math.Vec3{X: 9000, Y: 0, Z: 9500},
		math.Vec3{X: 9500, Y: 0, Z: 9000},
	)
	if g.Add(far, false) {
		t.Error("surface outside the grid should be dropped")
	}

	g.Add(floorTriangle(t), true)
	if _, dyn := g.Count(); dyn != 1 {
		t.Errorf("dynamic count = %d, want 1", dyn)
	}
	g.ClearDynamic()
	if got := g.Surfaces(7, 7, KindFloor, true); len(got) != 0 {
		t.Error("ClearDynamic should empty dynamic lists")
	}
	if static, dyn := g.Count(); static != 1 || dyn != 0 {
		t.Errorf("counts after clear = %d/%d, want 1/0", static, dyn)
	}
}

func TestCastRayThroughCentroid(t *testing.T) {
	g := NewGrid()
	s := floorTriangle(t)
	g.Add(s, false)
	c := NewCaster(g, FirstHit)

	centroid := s.Centroid()
	origin := centroid.Add(math.Vec3{X: 100, Y: 300, Z: 50})
	dir := centroid.Sub(origin).Scale(2)

	hit := c.CastRay(origin, dir)
	if hit.Surface != s {
		t.Fatalf("expected to hit the floor, got %v", hit.Surface)
	}
	if d := hit.Position.Distance(centroid); d > 1e-3 {
		t.Errorf("hit position %v is %v away from centroid %v", hit.Position, d, centroid)
	}
	want := centroid.Sub(origin).Length()
	if gomath.Abs(float64(hit.Length-want)) > 1e-3 {
		t.Errorf("hit length = %v, want %v", hit.Length, want)
	}
}

func TestCastRayMiss(t *testing.T) {
	g := NewGrid()
	g.Add(floorTriangle(t), false)
	c := NewCaster(g, FirstHit)

	origin := math.Vec3{X: -100, Y: 500, Z: -100}
	dir := math.Vec3{X: 300, Y: 0, Z: 0}
	hit := c.CastRay(origin, dir)
	if hit.OK() {
		t.Fatal("horizontal ray above the floor should miss")
	}
	if hit.Position != origin.Add(dir) {
		t.Errorf("miss position = %v, want ray end %v", hit.Position, origin.Add(dir))
	}

	if hit := c.CastRay(origin, math.Vec3{}); hit.OK() || hit.Position != origin {
		t.Error("zero-length ray should miss at its origin")
	}
}

func TestCastRayVertical(t *testing.T) {
	g := NewGrid()
	floor := floorTriangle(t)
	g.Add(floor, false)
	c := NewCaster(g, FirstHit)

	down := c.CastRay(math.Vec3{X: -100, Y: 500, Z: -100}, math.Vec3{Y: -1000})
	if down.Surface != floor {
		t.Fatal("downward ray should hit the floor")
	}
	if gomath.Abs(float64(down.Length-500)) > 1e-3 {
		t.Errorf("length = %v, want 500", down.Length)
	}

	up := c.CastRay(math.Vec3{X: -100, Y: -500, Z: -100}, math.Vec3{Y: 1000})
	if up.OK() {
		t.Error("upward ray should skip floor lists")
	}
}

func TestCastRayOutOfBounds(t *testing.T) {
	g := NewGrid()
	g.Add(floorTriangle(t), false)
	c := NewCaster(g, FirstHit)

	hit := c.CastRay(math.Vec3{X: 9000, Y: 100, Z: 9000}, math.Vec3{X: -10, Y: -500, Z: 0})
	if hit.OK() {
		t.Error("ray outside the grid should not hit anything")
	}
}

func TestCastRayLong(t *testing.T) {
	g := NewGrid()
	wall := wallQuad(t, g, 0, -300, 0, 300, 200)
	c := NewCaster(g, FirstHit)

	tests := []struct {
		name   string
		origin math.Vec3
		dir    math.Vec3
		want   bool
	}{
		{"leaves the grid", math.Vec3{}, math.Vec3{X: 1e13, Y: 1}, false},
		{"never enters", math.Vec3{X: 9000, Z: 9000}, math.Vec3{X: 1e12, Z: 1e12}, false},
		{"parallel outside", math.Vec3{X: -1e6, Z: 9000}, math.Vec3{X: 2e12}, false},
		{"enters from far away", math.Vec3{X: -1e9, Y: 50, Z: 10}, math.Vec3{X: 2e9}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan Hit, 1)
			go func() { done <- c.CastRay(tt.origin, tt.dir) }()

			select {
			case hit := <-done:
				if hit.OK() != tt.want {
					t.Fatalf("hit = %v, want %v", hit.OK(), tt.want)
				}
				if tt.want && hit.Surface != wall[0] && hit.Surface != wall[1] {
					t.Errorf("hit unexpected surface %+v", hit.Surface)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("CastRay did not return for a long ray")
			}
		})
	}
}

func TestGridSpan(t *testing.T) {
	tests := []struct {
		name         string
		fx, fz       float32
		dx, dz, step float32
		first, last  int
		ok           bool
	}{
		{"inside", 8, 8, 1, 0, 4, 0, 3, true},
		{"clipped at exit", 8, 8, 1, 0, 1000, 0, 9, true},
		{"enters late", -100, 8, 1, 0, 1000, 99, 117, true},
		{"parallel outside", -1, 8, 0, 1, 1000, 0, 0, false},
		{"moving away", 20, 8, 1, 0, 1000, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last, ok := gridSpan(tt.fx, tt.fz, tt.dx, tt.dz, tt.step)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && (first != tt.first || last != tt.last) {
				t.Errorf("span = [%d, %d], want [%d, %d]", first, last, tt.first, tt.last)
			}
		})
	}
}

func TestTraversalModes(t *testing.T) {
	g := NewGrid()
	big := wallQuad(t, g, b+200, b+900, b+3000, b+100, 400)
	small := wallQuad(t, g, b+1200, b+300, b+1200, b+700, 400)

	origin := math.Vec3{X: b + 100, Y: 100, Z: b + 500}
	dir := math.Vec3{X: 3400}

	first := NewCaster(g, FirstHit).CastRay(origin, dir)
	if first.Surface != big[0] && first.Surface != big[1] {
		t.Fatalf("first-hit should stop in the origin cell on the long wall, got %+v", first.Surface)
	}
	if gomath.Abs(float64(first.Length-1500)) > 1 {
		t.Errorf("first-hit length = %v, want ~1500", first.Length)
	}

	all := NewCaster(g, Exhaustive).CastRay(origin, dir)
	if all.Surface != small[0] && all.Surface != small[1] {
		t.Fatalf("exhaustive should find the nearer wall, got %+v", all.Surface)
	}
	if gomath.Abs(float64(all.Length-1100)) > 1e-2 {
		t.Errorf("exhaustive length = %v, want 1100", all.Length)
	}
}

func TestTraversalModeString(t *testing.T) {
	if FirstHit.String() != "first-hit" || Exhaustive.String() != "exhaustive" {
		t.Error("unexpected traversal mode names")
	}
}

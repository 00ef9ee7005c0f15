package picking

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-3
}

func box(x0, y0, z0, x1, y1, z1 float32) camera.Box {
	return camera.Box{
		Min: pmath.Vec3{X: x0, Y: y0, Z: z0},
		Max: pmath.Vec3{X: x1, Y: y1, Z: z1},
	}
}

func TestScreenToRayCenter(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(45), 1, 10, 1000)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 500}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	inv := proj.Mul4(view).Inv()

	r := ScreenToRay(400, 300, 800, 600, inv)
	if !near(r.Origin.X, 0) || !near(r.Origin.Y, 0) || !near(r.Origin.Z, 490) {
		t.Errorf("origin = %+v, want (0, 0, 490)", r.Origin)
	}
	if !near(r.Direction.Z, -1) {
		t.Errorf("direction = %+v, want -z", r.Direction)
	}

	// Top of the screen looks up.
	up := ScreenToRay(400, 0, 800, 600, inv)
	if up.Direction.Y <= 0 {
		t.Errorf("top ray direction = %+v, want positive y", up.Direction)
	}
}

func TestIntersectPlaneY(t *testing.T) {
	r := Ray{Origin: pmath.Vec3{Y: 100}, Direction: pmath.Vec3{X: 1, Y: -1}.Normalize()}
	p, ok := r.IntersectPlaneY(0)
	if !ok || !near(p.X, 100) || !near(p.Y, 0) {
		t.Errorf("IntersectPlaneY = %+v, %v", p, ok)
	}
	if _, ok := r.IntersectPlaneY(200); ok {
		t.Error("plane behind the ray reported a hit")
	}
	flat := Ray{Direction: pmath.Vec3{X: 1}}
	if _, ok := flat.IntersectPlaneY(0); ok {
		t.Error("parallel ray reported a hit")
	}
}

func TestIntersectBox(t *testing.T) {
	b := box(-10, -10, -10, 10, 10, 10)
	tests := []struct {
		name   string
		origin pmath.Vec3
		dir    pmath.Vec3
		want   float32
		hit    bool
	}{
		{"front", pmath.Vec3{Z: -50}, pmath.Vec3{Z: 1}, 40, true},
		{"inside", pmath.Vec3{}, pmath.Vec3{X: 1}, 10, true},
		{"behind", pmath.Vec3{Z: 50}, pmath.Vec3{Z: 1}, 0, false},
		{"miss", pmath.Vec3{X: 20, Z: -50}, pmath.Vec3{Z: 1}, 0, false},
		{"diagonal", pmath.Vec3{X: -30, Y: -30}, pmath.Vec3{X: 1, Y: 1}.Normalize(), 20 * gomath.Sqrt2, true},
	}
	for _, tt := range tests {
		got, hit := Ray{Origin: tt.origin, Direction: tt.dir}.IntersectBox(b)
		if hit != tt.hit || (hit && !near(got, tt.want)) {
			t.Errorf("%s: IntersectBox = %v, %v; want %v, %v", tt.name, got, hit, tt.want, tt.hit)
		}
	}
}

func TestPickRegion(t *testing.T) {
	regions := []camera.RegionOverride{
		{Name: "far", Box: box(-10, -10, 90, 10, 10, 110)},
		{Name: "near", Box: box(-10, -10, 40, 10, 10, 60)},
		{Name: "aside", Box: box(100, -10, 0, 120, 10, 20)},
	}
	r := Ray{Direction: pmath.Vec3{Z: 1}}
	i, d := PickRegion(r, regions)
	if i != 1 || !near(d, 40) {
		t.Errorf("PickRegion = %d at %v, want 1 at 40", i, d)
	}

	miss := Ray{Direction: pmath.Vec3{Z: -1}}
	if i, _ := PickRegion(miss, regions); i != -1 {
		t.Errorf("PickRegion behind = %d, want -1", i)
	}
}

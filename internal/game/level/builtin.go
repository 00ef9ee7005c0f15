package level

import (
	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

// TestRoomID is the level id of the built-in room.
const TestRoomID = 1

func v3(x, y, z float32) pmath.Vec3 { return pmath.Vec3{X: x, Y: y, Z: z} }

func f32(v float32) *float32 { return &v }

// TestRoom returns a small walled room with a pillar, a ramp, a low
// tunnel, a moving platform and three camera regions: a fixed corner
// camera, a sticky 8-direction zone and a zoom-out balcony.
func TestRoom() *Level {
	const (
		half   = 3000
		wallH  = 1500
		wallT  = 100
		tunnel = 400
	)
	return &Level{
		Name:  "test room",
		ID:    TestRoomID,
		Area:  1,
		Start: Start{Position: v3(0, 0, -1500)},
		Triangles: []Triangle{
			// Floor
			{v3(-half, 0, -half), v3(-half, 0, half), v3(half, 0, half)},
			{v3(-half, 0, -half), v3(half, 0, half), v3(half, 0, -half)},
			// Ramp up to the balcony along +X
			{v3(500, 0, 1500), v3(500, 0, 2500), v3(1500, 600, 2500)},
			{v3(500, 0, 1500), v3(1500, 600, 2500), v3(1500, 600, 1500)},
		},
		Blocks: []Block{
			// Walls
			{Min: v3(-half-wallT, 0, -half-wallT), Max: v3(half+wallT, wallH, -half)},
			{Min: v3(-half-wallT, 0, half), Max: v3(half+wallT, wallH, half+wallT)},
			{Min: v3(-half-wallT, 0, -half), Max: v3(-half, wallH, half)},
			{Min: v3(half, 0, -half), Max: v3(half+wallT, wallH, half)},
			// Pillar
			{Min: v3(-300, 0, -300), Max: v3(300, 1200, 300)},
			// Balcony
			{Min: v3(1500, 0, 1500), Max: v3(2900, 600, 2900)},
			// Tunnel roof
			{Min: v3(-2800, tunnel, -600), Max: v3(-1800, tunnel+200, 600)},
		},
		Movers: []Mover{{
			Name:   "lift",
			Blocks: []Block{{Min: v3(-2600, 0, 1800), Max: v3(-1800, 50, 2600)}},
			Axis:   v3(0, 500, 0),
			Period: 240,
		}},
		Regions: []camera.RegionOverride{
			{
				Name:  "corner camera",
				Level: TestRoomID,
				Area:  1,
				Box:   camera.Box{Min: v3(1500, -100, -2900), Max: v3(2900, 1000, -1500)},
				Mode:  camera.ModeFixed,
				Camera: camera.Axes{
					X: f32(2800), Y: f32(1200), Z: f32(-1000),
				},
			},
			{
				Name:   "eight way",
				Level:  TestRoomID,
				Area:   1,
				Box:    camera.Box{Min: v3(-2900, -100, 1500), Max: v3(-1500, 1200, 2900)},
				Mode:   camera.Mode8Dir,
				Sticky: true,
			},
			{
				Name:     "balcony",
				Level:    TestRoomID,
				Area:     1,
				Box:      camera.Box{Min: v3(1500, 600, 1500), Max: v3(2900, 1500, 2900)},
				Mode:     camera.ModeNormal,
				Callback: camera.CallbackZoomOut,
			},
		},
	}
}

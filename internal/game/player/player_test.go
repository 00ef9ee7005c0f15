package player

import (
	"testing"

	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	"github.com/Faultbox/midgard-cam/internal/engine/collision"
	"github.com/Faultbox/midgard-cam/internal/game/level"
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

func v3(x, y, z float32) pmath.Vec3 { return pmath.Vec3{X: x, Y: y, Z: z} }

// room builds a caster over a flat floor plus extra triangles and blocks.
func room(t *testing.T, tris []level.Triangle, blocks []level.Block) *collision.Caster {
	t.Helper()
	l := &level.Level{
		Triangles: append([]level.Triangle{
			{v3(-4000, 0, -4000), v3(-4000, 0, 4000), v3(4000, 0, 4000)},
			{v3(-4000, 0, -4000), v3(4000, 0, 4000), v3(4000, 0, -4000)},
		}, tris...),
		Blocks: blocks,
	}
	surfaces, err := l.Surfaces()
	if err != nil {
		t.Fatal(err)
	}
	g := collision.NewGrid()
	for _, s := range surfaces {
		g.Add(s, false)
	}
	return collision.NewCaster(g, collision.FirstHit)
}

func stick(x, y int8) camera.ControllerState {
	return camera.ControllerState{StickX: x, StickY: y}
}

func run(p *Player, frames int, in camera.ControllerState, env Env) {
	for i := 0; i < frames; i++ {
		p.Update(in, 0, env, nil)
		in.Pressed = 0
	}
}

func TestFallAndLand(t *testing.T) {
	env := room(t, nil, nil)
	p := New(v3(0, 300, 0), 0)

	run(p, 30, camera.ControllerState{}, env)
	if !p.OnGround() {
		t.Fatalf("player never landed, y = %v", p.Position.Y)
	}
	if p.Position.Y < -0.5 || p.Position.Y > 0.5 {
		t.Errorf("landed at y = %v, want 0", p.Position.Y)
	}
	if p.VerticalVel != 0 || p.Action != camera.ActionIdle {
		t.Errorf("after landing: vy = %v, action %v", p.VerticalVel, p.Action)
	}
}

func TestWalkIsCameraRelative(t *testing.T) {
	tests := []struct {
		name   string
		camYaw pmath.Angle
		stick  camera.ControllerState
		face   pmath.Angle
		dir    pmath.Vec3
	}{
		{"forward, camera at +z", 0, stick(0, 64), pmath.Half, v3(0, 0, -1)},
		{"forward, camera at +x", pmath.Quarter, stick(0, 64), -pmath.Quarter, v3(-1, 0, 0)},
		{"right stick, camera at +z", 0, stick(64, 0), pmath.Quarter, v3(1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := room(t, nil, nil)
			p := New(v3(0, 0, 0), tt.face)
			run(p, 2, camera.ControllerState{}, env)

			start := p.Position
			for i := 0; i < 30; i++ {
				p.Update(tt.stick, tt.camYaw, env, nil)
			}
			if p.FaceYaw != tt.face {
				t.Errorf("face = %#x, want %#x", uint16(p.FaceYaw), uint16(tt.face))
			}
			moved := p.Position.Sub(start)
			if moved.Normalize().Dot(tt.dir) < 0.99 {
				t.Errorf("moved %+v, want along %+v", moved, tt.dir)
			}
			if p.ForwardVel != MaxWalkSpeed {
				t.Errorf("speed = %v, want %d", p.ForwardVel, MaxWalkSpeed)
			}
			if pose := p.Pose(); pose.IntendedMag != MaxWalkSpeed || pose.Action != camera.ActionWalking {
				t.Errorf("pose = %+v", pose)
			}
		})
	}
}

func TestWallStopsMovement(t *testing.T) {
	env := room(t, nil, []level.Block{{Min: v3(-1000, 0, -700), Max: v3(1000, 500, -500)}})
	p := New(v3(0, 0, 0), pmath.Half)
	run(p, 2, camera.ControllerState{}, env)

	for i := 0; i < 60; i++ {
		p.Update(stick(0, 64), 0, env, nil)
		if p.Position.Z < -500+Radius-1 {
			t.Fatalf("frame %d: walked into the wall, z = %v", i, p.Position.Z)
		}
	}
	if p.Position.Z > -500+Radius+MaxWalkSpeed {
		t.Errorf("stopped too early at z = %v", p.Position.Z)
	}
}

func TestJump(t *testing.T) {
	env := room(t, nil, nil)
	p := New(v3(0, 0, 0), 0)
	run(p, 2, camera.ControllerState{}, env)

	p.Update(camera.ControllerState{Held: camera.ButtonA, Pressed: camera.ButtonA}, 0, env, nil)
	if p.OnGround() || p.Action != camera.ActionJumping {
		t.Fatalf("jump did not leave the ground: action %v", p.Action)
	}

	peak := p.Position.Y
	landed := false
	for i := 0; i < 60 && !landed; i++ {
		p.Update(camera.ControllerState{Held: camera.ButtonA}, 0, env, nil)
		peak = max(peak, p.Position.Y)
		landed = p.OnGround()
	}
	if !landed {
		t.Fatal("never landed")
	}
	if peak < 150 {
		t.Errorf("peak height = %v, want a real jump", peak)
	}
}

func TestCeilingStopsJump(t *testing.T) {
	env := room(t, nil, []level.Block{{Min: v3(-500, 250, -500), Max: v3(500, 300, 500)}})
	p := New(v3(0, 0, 0), 0)
	run(p, 2, camera.ControllerState{}, env)

	p.Update(camera.ControllerState{Held: camera.ButtonA, Pressed: camera.ButtonA}, 0, env, nil)
	for i := 0; i < 10; i++ {
		p.Update(camera.ControllerState{}, 0, env, nil)
		if p.Position.Y+Height > 250+0.5 {
			t.Fatalf("head went through the ceiling: y = %v", p.Position.Y)
		}
	}
}

func TestSleep(t *testing.T) {
	env := room(t, nil, nil)
	p := New(v3(0, 0, 0), 0)

	run(p, SleepAfter+5, camera.ControllerState{}, env)
	if p.Action != camera.ActionStartSleeping {
		t.Errorf("action = %v, want start sleeping", p.Action)
	}
	run(p, 40, camera.ControllerState{}, env)
	if p.Action != camera.ActionSleeping {
		t.Errorf("action = %v, want sleeping", p.Action)
	}
	p.Update(stick(0, 64), 0, env, nil)
	if p.Action != camera.ActionWalking {
		t.Errorf("stick did not wake the player: %v", p.Action)
	}
}

func TestSlideOnSteepFloor(t *testing.T) {
	// Slope rising toward +x, steep enough to slide.
	slope := []level.Triangle{
		{v3(100, 0, -500), v3(100, 0, 500), v3(600, 1000, 500)},
		{v3(100, 0, -500), v3(600, 1000, 500), v3(600, 1000, -500)},
	}
	env := room(t, slope, nil)
	p := New(v3(400, 700, 0), 0)

	slid := false
	for i := 0; i < 40; i++ {
		p.Update(camera.ControllerState{}, 0, env, nil)
		if p.Action == camera.ActionButtSlide && !slid {
			slid = true
			if p.FaceYaw != -pmath.Quarter {
				t.Errorf("slide facing %#x, want downhill -x", uint16(p.FaceYaw))
			}
		}
	}
	if !slid {
		t.Fatal("never slid")
	}
	if p.Position.X >= 400 {
		t.Errorf("slid uphill: x = %v", p.Position.X)
	}
}

type liftCarrier struct{ d pmath.Vec3 }

func (c liftCarrier) Carry(*collision.Surface) pmath.Vec3 { return c.d }

func TestCarriedByPlatform(t *testing.T) {
	env := room(t, nil, nil)
	p := New(v3(0, 0, 0), 0)
	run(p, 2, camera.ControllerState{}, env)

	p.Update(camera.ControllerState{}, 0, env, liftCarrier{v3(30, 0, -20)})
	if p.Position.X != 30 || p.Position.Z != -20 {
		t.Errorf("position = %+v, want carried by (30, 0, -20)", p.Position)
	}
}

func TestDeathPlaneRespawns(t *testing.T) {
	env := room(t, nil, nil)
	p := New(v3(5000, 0, 5000), pmath.Quarter)

	respawned := false
	prev := p.Position.Y
	for i := 0; i < 200 && !respawned; i++ {
		p.Update(camera.ControllerState{}, 0, env, nil)
		if p.Position.Y < DeathPlaneY {
			t.Fatal("fell below the death plane")
		}
		respawned = p.Position.Y > prev
		prev = p.Position.Y
	}
	if !respawned {
		t.Fatal("never respawned")
	}
	if p.Position != v3(5000, 0, 5000) || p.FaceYaw != pmath.Quarter {
		t.Errorf("respawned at %+v facing %#x", p.Position, uint16(p.FaceYaw))
	}
}

// Package player implements the kinematic character the camera follows:
// stick-relative walking, jumping, gravity, sliding on steep floors and
// riding moving platforms, all resolved with camera-style rays.
package player

import (
	gomath "math"

	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	"github.com/Faultbox/midgard-cam/internal/engine/collision"
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

// Movement tuning, in world units and frames.
const (
	MaxWalkSpeed  = 32
	WalkAccel     = 2
	WalkDecel     = 3
	TurnRate      = 0x800
	JumpVelocity  = 42
	Gravity       = 4
	TerminalFall  = -75
	Radius        = 50
	Height        = 160
	StepHeight    = 100
	SnapDown      = 60
	WallCheckY    = 60
	SlideNormalY  = 0.75
	SlideAccel    = 1.5
	MaxSlideSpeed = 64
	SleepAfter    = 300
	DeathPlaneY   = -4000

	stickMax = 64
)

// Env is the collision view the player moves through.
type Env interface {
	CastRay(origin, dir pmath.Vec3) collision.Hit
}

// Carrier reports how far a surface moved since the last frame.
type Carrier interface {
	Carry(s *collision.Surface) pmath.Vec3
}

// Player is a kinematic character. The zero value is a player at the
// origin, airborne.
type Player struct {
	Position    pmath.Vec3
	FaceYaw     pmath.Angle
	ForwardVel  float32
	VerticalVel float32
	Action      camera.Action

	intendedMag float32
	intendedYaw pmath.Angle
	floor       *collision.Surface
	idleFrames  int
	spawn       pmath.Vec3
	spawnYaw    pmath.Angle
}

// New creates a player standing at pos facing yaw. pos is also the
// respawn point.
func New(pos pmath.Vec3, yaw pmath.Angle) *Player {
	return &Player{
		Position: pos,
		FaceYaw:  yaw,
		Action:   camera.ActionFreefall,
		spawn:    pos,
		spawnYaw: yaw,
	}
}

// OnGround reports whether the player is standing on a floor.
func (p *Player) OnGround() bool {
	return p.floor != nil
}

// Floor returns the surface underfoot, or nil while airborne.
func (p *Player) Floor() *collision.Surface {
	return p.floor
}

// Pose returns the camera's view of the player.
func (p *Player) Pose() camera.PlayerPose {
	return camera.PlayerPose{
		Valid:       true,
		Position:    p.Position,
		FaceYaw:     p.FaceYaw,
		ForwardVel:  p.ForwardVel,
		VerticalVel: p.VerticalVel,
		IntendedMag: p.intendedMag,
		Action:      p.Action,
	}
}

// Update advances one frame. camYaw is the committed camera yaw in the
// external convention; stick input is relative to it. carrier may be nil.
func (p *Player) Update(in camera.ControllerState, camYaw pmath.Angle, env Env, carrier Carrier) {
	if p.floor != nil && carrier != nil {
		p.Position = p.Position.Add(carrier.Carry(p.floor))
	}

	p.readStick(in, camYaw)

	switch {
	case p.floor != nil && p.floor.Normal.Y < SlideNormalY:
		p.slide()
	case p.floor != nil:
		p.walk(in)
	default:
		p.air()
	}

	p.moveHorizontal(env)
	p.moveVertical(env)

	if p.Position.Y < DeathPlaneY {
		p.Respawn()
	}
}

// Respawn puts the player back at its spawn point.
func (p *Player) Respawn() {
	p.Position = p.spawn
	p.FaceYaw = p.spawnYaw
	p.ForwardVel, p.VerticalVel = 0, 0
	p.floor = nil
	p.Action = camera.ActionFreefall
	p.idleFrames = 0
}

// readStick converts the movement stick into an intended speed and
// world-space heading.
func (p *Player) readStick(in camera.ControllerState, camYaw pmath.Angle) {
	x, y := float64(in.StickX), float64(in.StickY)
	mag := min(gomath.Hypot(x, y), stickMax) / stickMax
	p.intendedMag = float32(mag*mag) * MaxWalkSpeed
	if p.intendedMag > 0 {
		p.intendedYaw = pmath.Heading(-float32(y), float32(x)) + camYaw
	}
	if in.Hit(camera.ButtonA) && p.floor != nil {
		p.VerticalVel = JumpVelocity
		p.floor = nil
		p.Action = camera.ActionJumping
	}
}

func (p *Player) walk(in camera.ControllerState) {
	if p.intendedMag > 0 {
		p.FaceYaw = pmath.ApproachAngle(p.FaceYaw, p.intendedYaw, TurnRate)
		p.ForwardVel = pmath.Approach(p.ForwardVel, p.intendedMag, WalkAccel)
		p.Action = camera.ActionWalking
		p.idleFrames = 0
		return
	}

	p.ForwardVel = pmath.Approach(p.ForwardVel, 0, WalkDecel)
	if p.ForwardVel > 0 {
		return
	}
	p.idleFrames++
	switch {
	case in.Held != 0:
		p.idleFrames = 0
		p.Action = camera.ActionIdle
	case p.idleFrames > SleepAfter+30:
		p.Action = camera.ActionSleeping
	case p.idleFrames > SleepAfter:
		p.Action = camera.ActionStartSleeping
	default:
		p.Action = camera.ActionIdle
	}
}

// slide accelerates down the floor's slope and faces downhill.
func (p *Player) slide() {
	n := p.floor.Normal
	p.FaceYaw = pmath.Heading(n.Z, n.X)
	steep := 1 - n.Y
	p.ForwardVel = min(p.ForwardVel+SlideAccel*steep*4, MaxSlideSpeed)
	p.Action = camera.ActionButtSlide
	p.idleFrames = 0
}

func (p *Player) air() {
	p.VerticalVel = max(p.VerticalVel-Gravity, TerminalFall)
	if p.intendedMag > 0 {
		p.FaceYaw = pmath.ApproachAngle(p.FaceYaw, p.intendedYaw, TurnRate/4)
	}
	if p.VerticalVel <= 0 && p.Action != camera.ActionFreefall {
		p.Action = camera.ActionFreefall
	}
}

// moveHorizontal steps along the facing, stopping Radius short of walls.
func (p *Player) moveHorizontal(env Env) {
	if p.ForwardVel == 0 {
		return
	}
	dir := pmath.Vec3{X: pmath.Sin(p.FaceYaw), Z: pmath.Cos(p.FaceYaw)}
	step := dir.Scale(p.ForwardVel)

	origin := p.Position.Add(pmath.Vec3{Y: WallCheckY})
	hit := env.CastRay(origin, dir.Scale(p.ForwardVel+Radius))
	if hit.OK() && hit.Surface.Kind == collision.KindWall {
		allowed := max(hit.Length-Radius, 0)
		step = dir.Scale(allowed)
		p.ForwardVel = 0
	}
	p.Position = p.Position.Add(step)
}

// moveVertical applies vertical velocity and finds the floor.
func (p *Player) moveVertical(env Env) {
	if p.floor != nil {
		origin := p.Position.Add(pmath.Vec3{Y: StepHeight})
		hit := env.CastRay(origin, pmath.Vec3{Y: -(StepHeight + SnapDown)})
		if hit.OK() && hit.Surface.Kind == collision.KindFloor {
			p.land(hit)
			return
		}
		p.floor = nil
		p.Action = camera.ActionFreefall
	}

	if p.VerticalVel > 0 {
		head := p.Position.Add(pmath.Vec3{Y: Height})
		hit := env.CastRay(head, pmath.Vec3{Y: p.VerticalVel})
		if hit.OK() && hit.Surface.Kind == collision.KindCeiling {
			p.Position.Y = hit.Position.Y - Height
			p.VerticalVel = 0
			return
		}
		p.Position.Y += p.VerticalVel
		return
	}

	origin := p.Position.Add(pmath.Vec3{Y: StepHeight})
	hit := env.CastRay(origin, pmath.Vec3{Y: p.VerticalVel - StepHeight})
	if hit.OK() && hit.Surface.Kind == collision.KindFloor {
		p.land(hit)
		return
	}
	p.Position.Y += p.VerticalVel
}

func (p *Player) land(hit collision.Hit) {
	p.Position.Y = hit.Position.Y
	p.VerticalVel = 0
	if p.floor == nil && p.Action != camera.ActionButtSlide {
		p.Action = camera.ActionIdle
	}
	p.floor = hit.Surface
}

// Package camera implements the third-person orbit camera: input-driven
// yaw, tilt and zoom with acceleration, auto-follow, region overrides and
// ray-based collision against level geometry.
package camera

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/midgard-cam/internal/engine/collision"
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

// RayCaster finds the first surface along a ray. dir carries the ray's length.
type RayCaster interface {
	CastRay(origin, dir pmath.Vec3) collision.Hit
}

// Config holds controller configuration.
type Config struct {
	Settings Settings
	Caster   RayCaster   // nil disables collision correction
	Regions  *Registry   // nil disables region overrides
	Sink     PoseSink    // receives the committed pose, optional
	Shake    ShakeSource // optional
	Cues     CueSink     // optional
	Logger   *zap.Logger

	// Acceleration is added to the turn accumulators per frame of held
	// button input.
	Acceleration float32
}

// DefaultConfig returns a config with default settings and no collaborators.
func DefaultConfig() Config {
	return Config{
		Settings:     DefaultSettings(),
		Acceleration: DefaultAccel,
	}
}

// Diagnostics is a snapshot of the values shown by the debug overlay.
type Diagnostics struct {
	Level        int
	Area         int
	Player       pmath.Vec3
	Mode         Mode
	IntendedMode Mode
	YawAccel     float32
	TiltAccel    float32
	Yaw          pmath.Angle
	Tilt         pmath.Angle
	Distance     int
	Region       int
	Translucency uint8
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (d Diagnostics) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("level", d.Level)
	enc.AddInt("area", d.Area)
	enc.AddFloat32("player_x", d.Player.X)
	enc.AddFloat32("player_y", d.Player.Y)
	enc.AddFloat32("player_z", d.Player.Z)
	enc.AddString("mode", d.Mode.String())
	enc.AddString("intended_mode", d.IntendedMode.String())
	enc.AddFloat32("yaw_accel", d.YawAccel)
	enc.AddFloat32("tilt_accel", d.TiltAccel)
	enc.AddInt16("yaw", int16(d.Yaw))
	enc.AddInt16("tilt", int16(d.Tilt))
	enc.AddInt("distance", d.Distance)
	enc.AddInt("region", d.Region)
	enc.AddUint8("xlu", d.Translucency)
	return nil
}

// Controller owns one orbit camera. It is not safe for concurrent use;
// call Update once per simulation frame.
type Controller struct {
	cfg   Config
	log   *zap.Logger
	state State

	player PlayerPose // last valid pose
	input  ControllerInput

	tapFrames  [2]int // frames since the last left/right turn press
	stickLatch bool   // analog snap fired, waiting for the stick to recenter
	turnWait   int
	colDist    float32
	colliding  bool
	xlu        uint8
	region     int
	pose       Pose
}

// New creates a controller. Call Initialize before the first Update.
func New(cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Acceleration <= 0 {
		cfg.Acceleration = DefaultAccel
	}
	cfg.Settings = cfg.Settings.Clamp()

	c := &Controller{
		cfg:    cfg,
		log:    cfg.Logger,
		xlu:    255,
		region: -1,
	}
	c.Initialize(0, 0, 0)
	return c
}

// Initialize resets the camera for a level and area. preset selects the
// starting zoom for levels without a tuned start. Those levels also keep
// the current yaw, so a caller can aim the camera first with
// ApplyOutsideYaw or SnapBehind.
func (c *Controller) Initialize(level, area, preset int) {
	ls := levelStartFor(level, area, preset)
	yaw := c.state.Yaw
	if ls.FixedYaw {
		yaw = ls.Yaw
	}

	s := State{
		Level: level,
		Area:  area,
		Yaw:   yaw,
		Tilt:  ls.Tilt,
	}
	s.ApplyPreset(ls.Preset)
	s.Distance = s.DistanceTarget
	s.YawTarget = s.Yaw
	s.IntendedMode = ls.Mode
	s.setMode(ls.Mode)
	c.state = s

	c.tapFrames = [2]int{TapWindow, TapWindow}
	c.stickLatch = false
	c.turnWait = 0
	c.colDist = 0
	c.colliding = false
	c.xlu = 255
	c.region = -1

	c.log.Debug("camera initialized",
		zap.Int("level", level),
		zap.Int("area", area),
		zap.Stringer("mode", ls.Mode),
		zap.Int("distance", s.Distance),
		zap.Int16("yaw", int16(s.Yaw)),
		zap.Int16("tilt", int16(s.Tilt)),
	)
}

// Update advances the camera by one frame. A pose that is not Usable is
// ignored and the last committed camera pose stands.
func (c *Controller) Update(pose PlayerPose, in ControllerInput) {
	usable := pose.Usable()
	if usable {
		c.player = pose
	}
	c.input = in

	c.rotate()
	c.zoom()
	c.updateValues()
	c.position()
	c.resolveRegions()
	c.collide()
	if usable {
		c.commit()
	}
	c.fade()
}

// rotate turns input into yaw and tilt acceleration.
func (c *Controller) rotate() {
	s := &c.state
	p1 := c.input.Player1
	set := c.cfg.Settings
	accel := c.cfg.Acceleration
	buttons := !set.Analogue
	invX := pmath.Angle(invert(set.InvertX))

	if s.Caps.Snapping() && s.Caps.AllowXTurn {
		if buttons && p1.Hit(ButtonCLeft) {
			s.YawTarget += invX * c.snapAngle()
			s.Centering = true
			c.cue(CueTurn)
		} else if buttons && p1.Hit(ButtonCRight) {
			s.YawTarget -= invX * c.snapAngle()
			s.Centering = true
			c.cue(CueTurn)
		}
	} else if s.Caps.AllowXTurn {
		switch {
		case buttons && p1.Down(ButtonCLeft):
			s.YawAccel = adjust(s.YawAccel, -accel, -AccelLimit)
		case buttons && p1.Down(ButtonCRight):
			s.YawAccel = adjust(s.YawAccel, accel, AccelLimit)
		case buttons:
			s.YawAccel = c.degrade(s.YawAccel)
		}
	}

	switch {
	case buttons && p1.Down(ButtonCUp) && s.Caps.AllowYTurn:
		s.TiltAccel = adjust(s.TiltAccel, accel, AccelLimit)
	case buttons && p1.Down(ButtonCDown) && s.Caps.AllowYTurn:
		s.TiltAccel = adjust(s.TiltAccel, -accel, -AccelLimit)
	case buttons:
		s.TiltAccel = c.degrade(s.TiltAccel)
	}

	// Double tap: a second press within TapWindow frames swings the
	// camera by TapSnap.
	tapOK := buttons && s.Caps.AllowXTurn && !s.Caps.Allow8Dir
	for i, b := range [2]Buttons{ButtonCLeft, ButtonCRight} {
		if c.tapFrames[i] < TapWindow {
			c.tapFrames[i]++
		}
		if !tapOK || !p1.Hit(b) {
			continue
		}
		if c.tapFrames[i] < TapWindow {
			dir := invX
			if b == ButtonCRight {
				dir = -dir
			}
			s.YawTarget = s.Yaw + dir*TapSnap
			s.Centering = true
		}
		c.tapFrames[i] = 0
	}

	if set.Analogue {
		c.rotateStick()
	}
}

// rotateStick handles the second analog stick.
func (c *Controller) rotateStick() {
	s := &c.state
	stick := c.input.Player2
	sx, sy := float32(stick.StickX), float32(stick.StickY)
	invX := pmath.Angle(invert(c.cfg.Settings.InvertX))

	if abs8(stick.StickX) > StickDeadzone && s.Caps.AllowXTurn {
		if s.Caps.Snapping() {
			if !c.stickLatch {
				c.stickLatch = true
				s.Centering = true
				c.cue(CueTurn)
				if stick.StickX > StickDeadzone {
					s.YawTarget += invX * c.snapAngle()
				} else {
					s.YawTarget -= invX * c.snapAngle()
				}
			}
		} else {
			s.YawAccel = adjust(s.YawAccel, sx*stickAccelMul, sx*stickLimitMul)
		}
	} else {
		c.stickLatch = false
		s.YawAccel = c.degrade(s.YawAccel)
	}

	if abs8(stick.StickY) > StickDeadzone && s.Caps.AllowYTurn {
		s.TiltAccel = adjust(s.TiltAccel, sy*stickAccelMul, sy*stickLimitMul)
	} else {
		s.TiltAccel = c.degrade(s.TiltAccel)
	}
}

func (c *Controller) cue(q Cue) {
	if c.cfg.Cues != nil {
		c.cfg.Cues.PlayCue(q)
	}
}

func (c *Controller) snapAngle() pmath.Angle {
	if c.state.Caps.Allow8Dir {
		return pmath.Eighth
	}
	return pmath.Quarter
}

func (c *Controller) degrade(acc float32) float32 {
	return acc - acc*float32(c.cfg.Settings.Degrade)/100
}

// zoom moves the distance toward its target and handles recentering.
func (c *Controller) zoom() {
	s := &c.state
	p1 := c.input.Player1

	s.Distance = pmath.ApproachInt(s.Distance, s.DistanceTarget, ZoomStep)

	if p1.Down(ButtonL) && p1.Down(ButtonR) && s.Caps.AllowZoom {
		s.YawTarget = behindYaw(c.player.FaceYaw)
		s.Centering = true
	} else if p1.Hit(ButtonR) && s.Caps.AllowXTurn {
		s.DistanceTarget = nextPreset(s.DistanceTarget)
		c.cue(CueZoom)
	}

	if s.Centering && s.Caps.AllowXTurn {
		s.Yaw = pmath.ApproachAngle(s.Yaw, s.YawTarget, CenterStep)
		if s.Yaw == s.YawTarget {
			s.Centering = false
		}
	} else {
		s.YawTarget = s.Yaw
	}
}

// updateValues integrates the accumulators and applies auto-follow.
func (c *Controller) updateValues() {
	s := &c.state
	set := c.cfg.Settings
	p := &c.player

	if s.Caps.AllowXTurn {
		step := s.YawAccel * float32(set.SensitivityX/10) * float32(invert(set.InvertX))
		s.Yaw = pmath.AngleFromFloat(float32(s.Yaw) - step)
	}
	if s.Caps.AllowYTurn && s.Tilt <= TiltLimit && s.Tilt >= -TiltLimit {
		step := s.TiltAccel * float32(invert(set.InvertY)) * float32(set.SensitivityY/10)
		s.Tilt = pmath.AngleFromFloat(float32(s.Tilt) + step)
	}
	s.Tilt = clampTilt(s.Tilt)

	if c.turnWait > 0 && p.VerticalVel == 0 {
		c.turnWait--
	} else if p.IntendedMag > 0 && p.VerticalVel == 0 && s.Caps.AllowXTurn && !s.Caps.Snapping() {
		stick := int(abs8(c.input.Player1.StickX)) / followStickDiv
		rate := float32(set.Aggression*stick) * (p.ForwardVel / followVelDiv)
		s.Yaw = pmath.ApproachAngle(s.Yaw, behindYaw(p.FaceYaw), int32(rate))
	} else {
		c.turnWait = TurnWait
	}

	if c.fastFollow() && s.Caps.AllowXTurn {
		s.Yaw = pmath.ApproachAngle(s.Yaw, behindYaw(p.FaceYaw), int32(p.ForwardVel*waterYawRate))
		if int32(p.ForwardVel) > 1 {
			target := pmath.AngleFromFloat(-float32(p.FacePitch)*waterPitchMul + waterTiltBase)
			s.Tilt = pmath.ApproachAngle(s.Tilt, target, int32(p.ForwardVel*waterTiltRate))
		} else {
			s.Tilt = pmath.ApproachAngle(s.Tilt, waterTiltBase, waterTiltRate)
		}
		s.Tilt = clampTilt(s.Tilt)
	}
}

// fastFollow reports whether the player's action calls for the fast
// environment follow used while sliding, flying and swimming.
func (c *Controller) fastFollow() bool {
	p := &c.player
	switch {
	case c.state.Caps.SlideCorrect && p.Action.Sliding() && p.ForwardVel > slideMinSpeed:
		return true
	case p.Action == ActionShotFromCannon || p.Action == ActionFlying:
		return true
	case p.Action.Swimming() && p.ForwardVel > swimMinSpeed:
		return true
	}
	return false
}

// position projects the camera onto its orbit around the target.
func (c *Controller) position() {
	s := &c.state
	var shake Shake
	if c.cfg.Shake != nil {
		shake = c.cfg.Shake.CameraShake()
	}

	s.Target = c.player.Position.Add(pmath.Vec3{Y: ExtHeight})

	dist := float32(s.Distance)
	tilt := s.Tilt + shake.Tilt
	yaw := s.Yaw + shake.Yaw
	h := dist * pmath.Cos(tilt)
	if s.Caps.AllowPosX {
		s.Position.X = s.Target.X + h*pmath.Cos(yaw)
	}
	if s.Caps.AllowPosZ {
		s.Position.Z = s.Target.Z + h*pmath.Sin(yaw)
	}
	if s.Caps.AllowPosY {
		s.Position.Y = s.Target.Y + dist*pmath.Sin(tilt)
	}

	if s.Caps.FullFocus() {
		c.pan()
	}
	if s.Caps.AllowFocusX {
		s.LookAt.X = s.Target.X - s.PanX
	}
	if s.Caps.AllowFocusY {
		s.LookAt.Y = s.Target.Y
	}
	if s.Caps.AllowFocusZ {
		s.LookAt.Z = s.Target.Z - s.PanZ
	}
}

// pan eases the look-ahead offset toward the player's facing.
func (c *Controller) pan() {
	s := &c.state
	var tx, tz float32
	if !c.player.Action.suppressesPan() {
		r := float32(PanRadius*c.cfg.Settings.PanLevel) / 100
		behind := behindYaw(c.player.FaceYaw)
		tx, tz = r*pmath.Cos(behind), r*pmath.Sin(behind)
	}
	s.PanX = pmath.ApproachAsymptotic(s.PanX, tx, PanRate)
	s.PanZ = pmath.ApproachAsymptotic(s.PanZ, tz, PanRate)

	if s.DistanceTarget > 0 {
		ratio := min(float32(s.Distance)/float32(s.DistanceTarget), 1)
		s.PanX *= ratio
		s.PanZ *= ratio
	}
}

// resolveRegions applies the region overrides and logs transitions.
func (c *Controller) resolveRegions() {
	prevMode := c.state.Mode
	idx := c.cfg.Regions.Resolve(&c.state)
	if idx != c.region {
		if idx >= 0 {
			o := c.cfg.Regions.regions[idx]
			c.log.Debug("camera region entered",
				zap.Int("index", idx),
				zap.String("name", o.Name),
				zap.Stringer("mode", o.Mode),
			)
		} else {
			c.log.Debug("camera region left", zap.Int("index", c.region))
		}
		c.region = idx
	}
	if c.state.Mode != prevMode {
		c.log.Debug("camera mode changed",
			zap.Stringer("from", prevMode),
			zap.Stringer("to", c.state.Mode),
			zap.Stringer("intended", c.state.IntendedMode),
		)
	}
}

// collide pulls the camera in front of the first surface between it and
// the target.
func (c *Controller) collide() {
	s := &c.state
	dir := s.Position.Sub(s.Target)
	c.colliding = false
	if !s.Caps.AllowCollision || c.cfg.Caster == nil {
		c.colDist = dir.Length()
		return
	}

	hit := c.cfg.Caster.CastRay(s.Target, dir)
	c.colDist = s.Target.Distance(hit.Position)
	if !hit.OK() {
		return
	}
	c.colliding = true
	s.Position.X = hit.Position.X
	s.Position.Y = pmath.Approach(hit.Position.Y, s.Position.Y, CollisionEase)
	s.Position.Z = hit.Position.Z
	s.PanX, s.PanZ = 0, 0
}

// commit hands the final pose to the sink.
func (c *Controller) commit() {
	s := &c.state
	c.pose = Pose{
		Position: s.Position,
		LookAt:   s.LookAt,
		Yaw:      ExternalYaw(s.Yaw),
	}
	if c.cfg.Sink != nil {
		c.cfg.Sink.ApplyCameraPose(c.pose)
	}
}

// fade hides the player model as the camera closes in on it.
func (c *Controller) fade() {
	d := c.colDist
	if d > FadeFar {
		c.xlu = 255
		return
	}
	c.xlu = uint8(pmath.Clamp((d-FadeNear)*255/(FadeFar-FadeNear), 0, 255))
}

// ApplyOutsideYaw resyncs the camera yaw with a yaw set by another
// system, such as a cutscene, in the renderer's convention.
func (c *Controller) ApplyOutsideYaw(external pmath.Angle) {
	c.state.Yaw = InternalYaw(external)
	c.state.YawTarget = c.state.Yaw
}

// SnapBehindPlayer turns the camera directly behind the last known pose.
func (c *Controller) SnapBehindPlayer() {
	c.SnapBehind(c.player.FaceYaw)
}

// SnapBehind turns the camera directly behind a character facing face.
func (c *Controller) SnapBehind(face pmath.Angle) {
	c.state.Yaw = behindYaw(face)
	c.state.YawTarget = c.state.Yaw
	c.state.Centering = false
}

// State returns a copy of the current camera state.
func (c *Controller) State() State {
	return c.state
}

// Capabilities returns the flags of the active mode, for systems that
// gate their own input on the camera.
func (c *Controller) Capabilities() Capabilities {
	return c.state.Caps
}

// Pose returns the last committed pose.
func (c *Controller) Pose() Pose {
	return c.pose
}

// Translucency returns the player model alpha, 0 to 255.
func (c *Controller) Translucency() uint8 {
	return c.xlu
}

// CollisionDistance returns the distance from the target to the nearest
// geometry along the camera ray.
func (c *Controller) CollisionDistance() float32 {
	return c.colDist
}

// Colliding reports whether geometry pulled the camera in this frame.
func (c *Controller) Colliding() bool {
	return c.colliding
}

// Settings returns the active settings.
func (c *Controller) Settings() Settings {
	return c.cfg.Settings
}

// SetSettings replaces the settings. Values are clamped.
func (c *Controller) SetSettings(s Settings) {
	c.cfg.Settings = s.Clamp()
}

// SetDistanceTarget points the zoom at an arbitrary distance.
func (c *Controller) SetDistanceTarget(d int) {
	c.state.DistanceTarget = d
}

// Diagnostics returns a debug snapshot.
func (c *Controller) Diagnostics() Diagnostics {
	s := &c.state
	return Diagnostics{
		Level:        s.Level,
		Area:         s.Area,
		Player:       c.player.Position,
		Mode:         s.Mode,
		IntendedMode: s.IntendedMode,
		YawAccel:     s.YawAccel,
		TiltAccel:    s.TiltAccel,
		Yaw:          s.Yaw,
		Tilt:         s.Tilt,
		Distance:     s.Distance,
		Region:       c.region,
		Translucency: c.xlu,
	}
}

// adjust adds val to acc and clamps the result at limit, the bound on
// the side val pushes toward.
func adjust(acc, val, limit float32) float32 {
	switch {
	case val > 0:
		return min(acc+val, limit)
	case val < 0:
		return max(acc+val, limit)
	}
	return acc
}

func clampTilt(t pmath.Angle) pmath.Angle {
	return pmath.Clamp(t, -TiltLimit, TiltLimit)
}

func abs8(v int8) int {
	if v < 0 {
		return -int(v)
	}
	return int(v)
}

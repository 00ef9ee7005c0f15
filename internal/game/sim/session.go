// Package sim runs the frame loop shared by the viewer and the headless
// simulator: movers, then the player, then the camera.
package sim

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	"github.com/Faultbox/midgard-cam/internal/game/player"
	"github.com/Faultbox/midgard-cam/internal/game/world"
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

// Options configures a session.
type Options struct {
	Settings     camera.Settings
	Sink         camera.PoseSink // optional
	Cues         camera.CueSink  // optional
	Logger       *zap.Logger     // nil for no logging
	Acceleration float32         // 0 for the default
	NoCollision  bool            // run the camera without a ray caster
}

// Sample is the observable state after one frame.
type Sample struct {
	Frame        uint64
	Player       pmath.Vec3
	Action       camera.Action
	Camera       camera.Pose
	Mode         camera.Mode
	Distance     int
	Region       int
	Translucency uint8
	CollisionLen float32
}

// Session owns the simulation state for one loaded world.
type Session struct {
	World  *world.World
	Player *player.Player
	Camera *camera.Controller

	frame uint64
	log   *zap.Logger
}

// NewSession creates a session on w with the player at the level start.
func NewSession(w *world.World, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	cfg := camera.DefaultConfig()
	cfg.Settings = opts.Settings
	cfg.Regions = w.Regions
	cfg.Sink = opts.Sink
	cfg.Cues = opts.Cues
	cfg.Logger = log.Named("camera")
	if opts.Acceleration > 0 {
		cfg.Acceleration = opts.Acceleration
	}
	if !opts.NoCollision {
		cfg.Caster = w.Caster
	}

	s := &Session{
		World:  w,
		Camera: camera.New(cfg),
		log:    log,
	}
	s.Reset()
	return s
}

// Reset respawns the player and reinitializes the camera for the level,
// behind the spawn facing unless the level has a tuned start yaw.
func (s *Session) Reset() {
	l := s.World.Level
	s.Player = player.New(l.Start.Position, l.Start.Yaw)
	s.Camera.SnapBehind(l.Start.Yaw)
	s.Camera.Initialize(l.ID, l.Area, l.Preset)
	s.frame = 0
	s.log.Debug("session reset",
		zap.String("level", l.Name),
		zap.Int("id", l.ID),
		zap.Int("area", l.Area),
	)
}

// Step runs one frame.
func (s *Session) Step(in camera.ControllerInput) error {
	if err := s.World.Step(); err != nil {
		return err
	}
	s.Player.Update(in.Player1, s.Camera.Pose().Yaw, s.World.Caster, s.World)
	s.Camera.Update(s.Player.Pose(), in)
	s.frame++
	return nil
}

// Frame returns the number of frames stepped since the last reset.
func (s *Session) Frame() uint64 {
	return s.frame
}

// Sample returns the current observable state.
func (s *Session) Sample() Sample {
	d := s.Camera.Diagnostics()
	return Sample{
		Frame:        s.frame,
		Player:       s.Player.Position,
		Action:       s.Player.Action,
		Camera:       s.Camera.Pose(),
		Mode:         d.Mode,
		Distance:     d.Distance,
		Region:       d.Region,
		Translucency: d.Translucency,
		CollisionLen: s.Camera.CollisionDistance(),
	}
}

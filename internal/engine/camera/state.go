package camera

import (
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

// Tuning constants for the orbit camera.
const (
	TiltLimit      = 12000
	ZoomStep       = 250
	CenterStep     = 0x800
	TapWindow      = 6
	TapSnap        = 0x3000
	AccelLimit     = 100
	ExtHeight      = 125
	PanRadius      = 160
	PanRate        = 0.05
	TurnWait       = 10
	CollisionEase  = 25
	FadeNear       = 150
	FadeFar        = 250
	StickDeadzone  = 20
	DefaultTilt    = 1500
	DefaultAccel   = 10
	stickAccelMul  = 0.125
	stickLimitMul  = 1.25
	waterYawRate   = 128
	waterTiltRate  = 32
	waterTiltBase  = 3000
	waterPitchMul  = 0.8
	slideMinSpeed  = 8
	swimMinSpeed   = 2
	followStickDiv = 10
	followVelDiv   = 32
)

// Presets are the zoom distances cycled by the zoom button.
var Presets = [3]int{750, 1250, 2000}

// PresetDistance returns the distance for preset index i. Unknown
// indices select the nearest zoom.
func PresetDistance(i int) int {
	if i < 0 || i >= len(Presets) {
		return Presets[0]
	}
	return Presets[i]
}

// State is the orbit camera's complete per-session state.
type State struct {
	Position pmath.Vec3
	LookAt   pmath.Vec3
	Target   pmath.Vec3 // player position raised by ExtHeight

	Yaw       pmath.Angle
	Tilt      pmath.Angle
	YawTarget pmath.Angle
	Centering bool

	Distance       int
	DistanceTarget int

	YawAccel  float32
	TiltAccel float32

	Mode         Mode
	IntendedMode Mode
	Caps         Capabilities

	PanX float32
	PanZ float32

	FixedOverride bool // a region override matched this frame

	Level int
	Area  int
}

// setMode switches the active mode and derives its capabilities.
func (s *State) setMode(m Mode) {
	s.Mode = m
	s.Caps = m.Capabilities()
}

// ApplyPreset points the zoom at preset i.
func (s *State) ApplyPreset(i int) {
	s.DistanceTarget = PresetDistance(i)
}

// nextPreset cycles the zoom target through Presets.
func nextPreset(target int) int {
	switch target {
	case Presets[0]:
		return Presets[1]
	case Presets[1]:
		return Presets[2]
	}
	return Presets[0]
}

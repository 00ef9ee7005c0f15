package camera

import (
	"fmt"
	"strings"

	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

// Buttons is a controller button bitmask.
type Buttons uint16

// Controller buttons.
const (
	ButtonA Buttons = 1 << iota
	ButtonB
	ButtonZ
	ButtonStart
	ButtonL
	ButtonR
	ButtonCUp
	ButtonCDown
	ButtonCLeft
	ButtonCRight
	ButtonDUp
	ButtonDDown
	ButtonDLeft
	ButtonDRight
)

var buttonNames = [...]struct {
	b    Buttons
	name string
}{
	{ButtonA, "a"}, {ButtonB, "b"}, {ButtonZ, "z"}, {ButtonStart, "start"},
	{ButtonL, "l"}, {ButtonR, "r"},
	{ButtonCUp, "cup"}, {ButtonCDown, "cdown"}, {ButtonCLeft, "cleft"}, {ButtonCRight, "cright"},
	{ButtonDUp, "dup"}, {ButtonDDown, "ddown"}, {ButtonDLeft, "dleft"}, {ButtonDRight, "dright"},
}

// ParseButton looks up a single button by its lower-case name.
func ParseButton(name string) (Buttons, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range buttonNames {
		if n.name == name {
			return n.b, true
		}
	}
	return 0, false
}

// String lists the set buttons joined by '+'.
func (b Buttons) String() string {
	var parts []string
	for _, n := range buttonNames {
		if b&n.b != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// ControllerState is one logical controller for one frame. Held is the
// set of buttons currently down; Pressed only those that went down this
// frame. Stick axes range roughly ±80.
type ControllerState struct {
	Held    Buttons
	Pressed Buttons
	StickX  int8
	StickY  int8
}

// Down reports whether b is held.
func (c ControllerState) Down(b Buttons) bool {
	return c.Held&b != 0
}

// Hit reports whether b was pressed this frame.
func (c ControllerState) Hit(b Buttons) bool {
	return c.Pressed&b != 0
}

// Next derives the state for a new frame from the buttons held now.
func (c ControllerState) Next(held Buttons, stickX, stickY int8) ControllerState {
	return ControllerState{
		Held:    held,
		Pressed: held &^ c.Held,
		StickX:  stickX,
		StickY:  stickY,
	}
}

// ControllerInput holds both logical controllers. Player2's stick doubles
// as the camera stick.
type ControllerInput struct {
	Player1 ControllerState
	Player2 ControllerState
}

// Action is the controlled character's movement state.
type Action uint8

// Character actions the camera reacts to.
const (
	ActionIdle Action = iota
	ActionWalking
	ActionJumping
	ActionFreefall
	ActionButtSlide
	ActionStomachSlide
	ActionHoldButtSlide
	ActionHoldStomachSlide
	ActionShotFromCannon
	ActionFlying
	ActionSwimming
	ActionSwimIdle
	ActionSleeping
	ActionStartSleeping
	ActionHoldingBowser
)

var actionNames = [...]string{
	ActionIdle:             "idle",
	ActionWalking:          "walking",
	ActionJumping:          "jumping",
	ActionFreefall:         "freefall",
	ActionButtSlide:        "butt_slide",
	ActionStomachSlide:     "stomach_slide",
	ActionHoldButtSlide:    "hold_butt_slide",
	ActionHoldStomachSlide: "hold_stomach_slide",
	ActionShotFromCannon:   "shot_from_cannon",
	ActionFlying:           "flying",
	ActionSwimming:         "swimming",
	ActionSwimIdle:         "swim_idle",
	ActionSleeping:         "sleeping",
	ActionStartSleeping:    "start_sleeping",
	ActionHoldingBowser:    "holding_bowser",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// Sliding reports whether a is one of the slide actions.
func (a Action) Sliding() bool {
	switch a {
	case ActionButtSlide, ActionStomachSlide, ActionHoldButtSlide, ActionHoldStomachSlide:
		return true
	}
	return false
}

// Swimming reports whether a is a water action.
func (a Action) Swimming() bool {
	return a == ActionSwimming || a == ActionSwimIdle
}

// suppressesPan reports whether look-ahead panning should relax to zero.
func (a Action) suppressesPan() bool {
	switch a {
	case ActionSleeping, ActionStartSleeping, ActionHoldingBowser:
		return true
	}
	return false
}

// PlayerPose is the controlled character's state for one frame. Frames
// without a valid pose keep the previous camera pose.
type PlayerPose struct {
	Valid       bool
	Position    pmath.Vec3
	FaceYaw     pmath.Angle
	FacePitch   pmath.Angle
	ForwardVel  float32
	VerticalVel float32
	IntendedMag float32
	Action      Action
}

// Usable reports whether the pose is marked valid and every value the
// camera reads from it is finite.
func (p PlayerPose) Usable() bool {
	return p.Valid && p.Position.IsFinite() &&
		pmath.Finite(p.ForwardVel) && pmath.Finite(p.VerticalVel) && pmath.Finite(p.IntendedMag)
}

// behindYaw converts a character facing angle into the camera yaw that
// places the camera directly behind it.
func behindYaw(face pmath.Angle) pmath.Angle {
	return -face - pmath.Quarter
}

// Pose is the camera pose handed to the renderer. Yaw uses the external
// engine convention (see ExternalYaw).
type Pose struct {
	Position pmath.Vec3
	LookAt   pmath.Vec3
	Yaw      pmath.Angle
}

// PoseSink receives the committed pose once per frame.
type PoseSink interface {
	ApplyCameraPose(p Pose)
}

// Shake is an additive yaw/tilt disturbance.
type Shake struct {
	Yaw  pmath.Angle
	Tilt pmath.Angle
}

// ShakeSource supplies the current camera shake.
type ShakeSource interface {
	CameraShake() Shake
}

// Cue is a feedback sound requested by the camera or its settings menu.
type Cue uint8

const (
	CueTurn   Cue = iota + 1 // snapped a fixed angle
	CueZoom                  // stepped the zoom preset
	CueSelect                // changed a menu option
)

var cueNames = [...]string{CueTurn: "turn", CueZoom: "zoom", CueSelect: "select"}

func (c Cue) String() string {
	if int(c) < len(cueNames) && cueNames[c] != "" {
		return cueNames[c]
	}
	return fmt.Sprintf("Cue(%d)", c)
}

// CueSink plays feedback sounds.
type CueSink interface {
	PlayCue(c Cue)
}

// ExternalYaw converts the controller's internal yaw to the renderer's
// convention.
func ExternalYaw(internal pmath.Angle) pmath.Angle {
	return -internal + pmath.Quarter
}

// InternalYaw is the inverse of ExternalYaw.
func InternalYaw(external pmath.Angle) pmath.Angle {
	return -external + pmath.Quarter
}

// Package bind turns raw keyboard and gamepad state into the controller
// input the camera and player consume.
package bind

import (
	"github.com/Faultbox/midgard-cam/internal/engine/camera"
)

// Stick tuning, in XInput units.
const (
	Deadzone        = 4960
	CButtonPress    = 0x4000 // right stick deflection that also presses a C button
	stickScale      = 0x100
	cameraStickMul  = 0.625
	keyStickExtent  = 64
	triggerPressure = 30 * stickScale
)

// Key is a platform keyboard scancode.
type Key uint32

// PadButton is a platform gamepad button index.
type PadButton uint8

// Direction indexes the four movement keys.
type Direction int

// Movement directions.
const (
	Up Direction = iota
	Down
	Left
	Right
)

// Snapshot is the raw device state for one frame. Stick axes use the
// XInput range with up and right positive.
type Snapshot struct {
	Keys     map[Key]bool
	Pad      map[PadButton]bool
	LeftX    int16
	LeftY    int16
	RightX   int16
	RightY   int16
	TriggerL int16
	TriggerR int16
}

// Mapper converts snapshots into controller input. It remembers the
// previous frame so it can report newly pressed buttons.
type Mapper struct {
	Keys     map[Key]camera.Buttons
	Pad      map[PadButton]camera.Buttons
	MoveKeys [4]Key // stick directions on the keyboard
	TriggerL camera.Buttons
	TriggerR camera.Buttons

	prev [2]camera.ControllerState
}

// Map produces the controller input for one frame.
func (m *Mapper) Map(s Snapshot) camera.ControllerInput {
	var held camera.Buttons
	for k, b := range m.Keys {
		if s.Keys[k] {
			held |= b
		}
	}
	for p, b := range m.Pad {
		if s.Pad[p] {
			held |= b
		}
	}
	if s.TriggerL > triggerPressure {
		held |= m.TriggerL
	}
	if s.TriggerR > triggerPressure {
		held |= m.TriggerR
	}

	rx, ry, rightActive := radial(s.RightX, s.RightY)
	if rightActive {
		held |= cButtons(s.RightX, s.RightY)
	}

	lx, ly, _ := radial(s.LeftX, s.LeftY)
	if lx == 0 && ly == 0 {
		lx, ly = m.keyStick(s.Keys)
	}

	p1 := m.prev[0].Next(held, lx, ly)
	p2 := m.prev[1].Next(0, CameraAxis(rx), CameraAxis(ry))
	m.prev = [2]camera.ControllerState{p1, p2}
	return camera.ControllerInput{Player1: p1, Player2: p2}
}

// Reset forgets the previous frame, so every held button reads as pressed.
func (m *Mapper) Reset() {
	m.prev = [2]camera.ControllerState{}
}

func (m *Mapper) keyStick(keys map[Key]bool) (x, y int8) {
	if keys[m.MoveKeys[Up]] {
		y += keyStickExtent
	}
	if keys[m.MoveKeys[Down]] {
		y -= keyStickExtent
	}
	if keys[m.MoveKeys[Left]] {
		x -= keyStickExtent
	}
	if keys[m.MoveKeys[Right]] {
		x += keyStickExtent
	}
	return x, y
}

// radial applies a circular deadzone and scales a stick to ±128.
func radial(x, y int16) (sx, sy int8, active bool) {
	mag := int64(x)*int64(x) + int64(y)*int64(y)
	if mag <= Deadzone*Deadzone {
		return 0, 0, false
	}
	return int8(int(x) / stickScale), int8(int(y) / stickScale), true
}

// CameraAxis scales a ±128 stick value to the camera stick's ±80 range.
func CameraAxis(v int8) int8 {
	return int8(float32(v) * cameraStickMul)
}

func cButtons(x, y int16) camera.Buttons {
	var b camera.Buttons
	switch {
	case x < -CButtonPress:
		b |= camera.ButtonCLeft
	case x > CButtonPress:
		b |= camera.ButtonCRight
	}
	switch {
	case y < -CButtonPress:
		b |= camera.ButtonCDown
	case y > CButtonPress:
		b |= camera.ButtonCUp
	}
	return b
}

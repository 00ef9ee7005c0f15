// Package input handles SDL2 input events and devices.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	"github.com/Faultbox/midgard-cam/internal/engine/input/bind"
	"github.com/Faultbox/midgard-cam/internal/logger"
)

// Event types for game use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseDown
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	X, Y   int   // mouse position for EventMouseDown
	Button uint8 // sdl.BUTTON_LEFT etc.
}

// Input handles all input processing.
type Input struct {
	events []Event
	keys   map[bind.Key]bool
	pad    *sdl.GameController
	mapper *bind.Mapper
}

// New creates a new input handler with the default bindings.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		keys:   make(map[bind.Key]bool),
		mapper: DefaultMapper(),
	}
}

// DefaultMapper returns the keyboard and gamepad layout: WASD moves,
// arrows turn the camera, Q and E are L and R.
func DefaultMapper() *bind.Mapper {
	return &bind.Mapper{
		Keys: map[bind.Key]camera.Buttons{
			bind.Key(sdl.SCANCODE_SPACE):  camera.ButtonA,
			bind.Key(sdl.SCANCODE_LSHIFT): camera.ButtonB,
			bind.Key(sdl.SCANCODE_LCTRL):  camera.ButtonZ,
			bind.Key(sdl.SCANCODE_RETURN): camera.ButtonStart,
			bind.Key(sdl.SCANCODE_Q):      camera.ButtonL,
			bind.Key(sdl.SCANCODE_E):      camera.ButtonR,
			bind.Key(sdl.SCANCODE_UP):     camera.ButtonCUp,
			bind.Key(sdl.SCANCODE_DOWN):   camera.ButtonCDown,
			bind.Key(sdl.SCANCODE_LEFT):   camera.ButtonCLeft,
			bind.Key(sdl.SCANCODE_RIGHT):  camera.ButtonCRight,
		},
		Pad: map[bind.PadButton]camera.Buttons{
			bind.PadButton(sdl.CONTROLLER_BUTTON_A):             camera.ButtonA,
			bind.PadButton(sdl.CONTROLLER_BUTTON_X):             camera.ButtonB,
			bind.PadButton(sdl.CONTROLLER_BUTTON_START):         camera.ButtonStart,
			bind.PadButton(sdl.CONTROLLER_BUTTON_LEFTSHOULDER):  camera.ButtonZ,
			bind.PadButton(sdl.CONTROLLER_BUTTON_RIGHTSHOULDER): camera.ButtonR,
			bind.PadButton(sdl.CONTROLLER_BUTTON_DPAD_LEFT):     camera.ButtonL,
		},
		MoveKeys: [4]bind.Key{
			bind.Up:    bind.Key(sdl.SCANCODE_W),
			bind.Down:  bind.Key(sdl.SCANCODE_S),
			bind.Left:  bind.Key(sdl.SCANCODE_A),
			bind.Right: bind.Key(sdl.SCANCODE_D),
		},
		TriggerL: camera.ButtonZ,
		TriggerR: camera.ButtonR,
	}
}

// OpenGamepad opens the first attached game controller, if any.
func (i *Input) OpenGamepad() {
	for n := 0; n < sdl.NumJoysticks(); n++ {
		if !sdl.IsGameController(n) {
			continue
		}
		i.pad = sdl.GameControllerOpen(n)
		if i.pad != nil {
			logger.Info("gamepad opened", zap.String("name", i.pad.Name()))
			return
		}
	}
}

// Close releases the gamepad.
func (i *Input) Close() {
	if i.pad != nil {
		i.pad.Close()
		i.pad = nil
	}
}

// Update polls SDL events and converts them to game events.
// Returns true if the game should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			key := bind.Key(e.Keysym.Scancode)
			if e.Type == sdl.KEYDOWN {
				i.keys[key] = true
				i.events = append(i.events, Event{
					Type: EventKeyDown,
					Key:  e.Keysym.Scancode,
				})
			} else if e.Type == sdl.KEYUP {
				delete(i.keys, key)
				i.events = append(i.events, Event{
					Type: EventKeyUp,
					Key:  e.Keysym.Scancode,
				})
			}

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN {
				i.events = append(i.events, Event{
					Type:   EventMouseDown,
					X:      int(e.X),
					Y:      int(e.Y),
					Button: e.Button,
				})
			}

		case *sdl.ControllerDeviceEvent:
			if e.Type == sdl.CONTROLLERDEVICEADDED && i.pad == nil {
				i.OpenGamepad()
			} else if e.Type == sdl.CONTROLLERDEVICEREMOVED && i.pad != nil {
				logger.Info("gamepad removed")
				i.Close()
			}
		}
	}

	return false
}

// Controller returns this frame's controller input. Call once per
// simulation frame, after Update.
func (i *Input) Controller() camera.ControllerInput {
	return i.mapper.Map(i.snapshot())
}

func (i *Input) snapshot() bind.Snapshot {
	s := bind.Snapshot{Keys: i.keys}
	if i.pad == nil {
		return s
	}

	s.Pad = make(map[bind.PadButton]bool, len(i.mapper.Pad))
	for b := range i.mapper.Pad {
		s.Pad[b] = i.pad.Button(sdl.GameControllerButton(b)) != 0
	}
	// SDL reports down as positive Y; the controller wants up positive.
	s.LeftX = i.pad.Axis(sdl.CONTROLLER_AXIS_LEFTX)
	s.LeftY = invertAxis(i.pad.Axis(sdl.CONTROLLER_AXIS_LEFTY))
	s.RightX = i.pad.Axis(sdl.CONTROLLER_AXIS_RIGHTX)
	s.RightY = invertAxis(i.pad.Axis(sdl.CONTROLLER_AXIS_RIGHTY))
	s.TriggerL = i.pad.Axis(sdl.CONTROLLER_AXIS_TRIGGERLEFT)
	s.TriggerR = i.pad.Axis(sdl.CONTROLLER_AXIS_TRIGGERRIGHT)
	return s
}

func invertAxis(v int16) int16 {
	if v == -32768 {
		return 32767
	}
	return -v
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

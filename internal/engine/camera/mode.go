package camera

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownMode is returned when parsing an unrecognized mode name.
var ErrUnknownMode = errors.New("unknown camera mode")

// Mode is a named camera behavior profile.
type Mode uint8

// Camera modes.
const (
	ModeNormal      Mode = iota // free dual-axis control with collision
	ModeFixed                   // camera position frozen, focus follows the target
	Mode2D                      // reserved; behaves like ModeNormal
	Mode8Dir                    // yaw snaps in 45 degree steps
	Mode4Dir                    // yaw snaps in 90 degree steps
	ModeFixedNoMove             // no control and no movement at all
	ModeNoTurn                  // follows the target but ignores turn input
	ModeNoRotate                // tilt and zoom only
	ModeSlide                   // normal control plus slide correction
	modeCount
)

var modeNames = [modeCount]string{
	ModeNormal:      "normal",
	ModeFixed:       "fixed",
	Mode2D:          "2d",
	Mode8Dir:        "8dir",
	Mode4Dir:        "4dir",
	ModeFixedNoMove: "fixed_nomove",
	ModeNoTurn:      "noturn",
	ModeNoRotate:    "norotate",
	ModeSlide:       "slide",
}

// String returns the mode's configuration name.
func (m Mode) String() string {
	if m < modeCount {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode looks up a mode by its configuration name.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// UnmarshalYAML decodes a mode from its name.
func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseMode(name)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalYAML encodes a mode as its name.
func (m Mode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// Capabilities gate which parts of the update run for a mode.
type Capabilities struct {
	AllowXTurn     bool // yaw input and auto-follow
	AllowYTurn     bool // tilt input
	Allow8Dir      bool
	Allow4Dir      bool
	AllowPosX      bool
	AllowPosY      bool
	AllowPosZ      bool
	AllowFocusX    bool
	AllowFocusY    bool
	AllowFocusZ    bool
	AllowZoom      bool
	AllowCollision bool
	SlideCorrect   bool
}

// Snapping reports whether yaw moves in discrete steps.
func (c Capabilities) Snapping() bool {
	return c.Allow8Dir || c.Allow4Dir
}

// FullFocus reports whether all three focus axes follow the target.
func (c Capabilities) FullFocus() bool {
	return c.AllowFocusX && c.AllowFocusY && c.AllowFocusZ
}

var (
	focusAll = Capabilities{AllowFocusX: true, AllowFocusY: true, AllowFocusZ: true}

	normalCaps = Capabilities{
		AllowXTurn: true, AllowYTurn: true, AllowZoom: true,
		AllowPosX: true, AllowPosY: true, AllowPosZ: true,
		AllowFocusX: true, AllowFocusY: true, AllowFocusZ: true,
		AllowCollision: true,
	}
)

func with(base Capabilities, edit func(*Capabilities)) Capabilities {
	edit(&base)
	return base
}

// modeTable is the single source of capabilities for every mode.
var modeTable = [modeCount]Capabilities{
	ModeNormal: normalCaps,
	ModeFixed: with(focusAll, func(c *Capabilities) {
		c.AllowXTurn, c.AllowYTurn, c.AllowZoom = true, true, true
	}),
	Mode2D:          normalCaps,
	Mode8Dir:        with(normalCaps, func(c *Capabilities) { c.Allow8Dir = true }),
	Mode4Dir:        with(normalCaps, func(c *Capabilities) { c.Allow4Dir = true }),
	ModeFixedNoMove: {},
	ModeNoTurn: with(normalCaps, func(c *Capabilities) {
		c.AllowXTurn, c.AllowYTurn, c.AllowZoom = false, false, false
	}),
	ModeNoRotate: with(normalCaps, func(c *Capabilities) { c.AllowXTurn = false }),
	ModeSlide:    with(normalCaps, func(c *Capabilities) { c.SlideCorrect = true }),
}

// Capabilities returns the capability set derived from m. Unknown modes
// get no capabilities.
func (m Mode) Capabilities() Capabilities {
	if m < modeCount {
		return modeTable[m]
	}
	return Capabilities{}
}

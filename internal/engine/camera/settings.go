package camera

import (
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

// Settings are the player-adjustable camera options.
type Settings struct {
	SensitivityX int  `yaml:"sensitivity_x"`
	SensitivityY int  `yaml:"sensitivity_y"`
	InvertX      int  `yaml:"invert_x"`
	InvertY      int  `yaml:"invert_y"`
	Aggression   int  `yaml:"aggression"`
	PanLevel     int  `yaml:"pan_level"`
	Degrade      int  `yaml:"degrade"`
	Analogue     bool `yaml:"analogue"` // turn with the second stick instead of C buttons
}

// DefaultSettings returns first-run settings.
func DefaultSettings() Settings {
	return Settings{
		SensitivityX: 75,
		SensitivityY: 75,
		InvertX:      0,
		InvertY:      0,
		Aggression:   0,
		PanLevel:     75,
		Degrade:      10,
		Analogue:     true,
	}
}

// Option names one numeric setting.
type Option int

// Numeric options, in options-menu order.
const (
	OptionSensitivityX Option = iota
	OptionSensitivityY
	OptionInvertX
	OptionInvertY
	OptionDegrade
	OptionAggression
	OptionPanLevel
	optionCount
)

type optionRange struct {
	name     string
	min, max int
}

var optionRanges = [optionCount]optionRange{
	OptionSensitivityX: {"sensitivity_x", 10, 500},
	OptionSensitivityY: {"sensitivity_y", 10, 500},
	OptionInvertX:      {"invert_x", 0, 1},
	OptionInvertY:      {"invert_y", 0, 1},
	OptionDegrade:      {"degrade", 5, 100},
	OptionAggression:   {"aggression", 0, 100},
	OptionPanLevel:     {"pan_level", 0, 100},
}

// Options lists every numeric option.
func Options() []Option {
	opts := make([]Option, optionCount)
	for i := range opts {
		opts[i] = Option(i)
	}
	return opts
}

// String returns the option's configuration key.
func (o Option) String() string {
	if o >= 0 && o < optionCount {
		return optionRanges[o].name
	}
	return "unknown"
}

// Range returns the inclusive bounds of o.
func (o Option) Range() (lo, hi int) {
	r := optionRanges[o]
	return r.min, r.max
}

// Toggle reports whether o is a 0/1 switch.
func (o Option) Toggle() bool {
	lo, hi := o.Range()
	return lo == 0 && hi == 1
}

// Clamp limits v to the range of o.
func (o Option) Clamp(v int) int {
	lo, hi := o.Range()
	return pmath.Clamp(v, lo, hi)
}

func (s *Settings) field(o Option) *int {
	switch o {
	case OptionSensitivityX:
		return &s.SensitivityX
	case OptionSensitivityY:
		return &s.SensitivityY
	case OptionInvertX:
		return &s.InvertX
	case OptionInvertY:
		return &s.InvertY
	case OptionDegrade:
		return &s.Degrade
	case OptionAggression:
		return &s.Aggression
	case OptionPanLevel:
		return &s.PanLevel
	}
	return nil
}

// Get returns the current value of o.
func (s Settings) Get(o Option) int {
	if p := s.field(o); p != nil {
		return *p
	}
	return 0
}

// Set stores v into o, clamped to its range.
func (s *Settings) Set(o Option, v int) {
	if p := s.field(o); p != nil {
		*p = o.Clamp(v)
	}
}

// Step adjusts o the way the options menu does: switches flip, other
// options move by delta and are clamped.
func (s *Settings) Step(o Option, delta int) {
	if o.Toggle() {
		s.Set(o, s.Get(o)^1)
		return
	}
	s.Set(o, s.Get(o)+delta)
}

// Clamp returns s with every option limited to its documented range.
// Values from a corrupted or missing settings file end up here.
func (s Settings) Clamp() Settings {
	for _, o := range Options() {
		s.Set(o, s.Get(o))
	}
	return s
}

// invert returns -1 when an axis is inverted and 1 otherwise.
func invert(flag int) int {
	if flag != 0 {
		return -1
	}
	return 1
}

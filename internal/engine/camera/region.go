package camera

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

var (
	ErrInvalidBox      = errors.New("invalid region box")
	ErrUnknownCallback = errors.New("unknown region callback")
)

// Box is an axis-aligned box. Containment is strict on all six faces.
type Box struct {
	Min pmath.Vec3 `yaml:"min"`
	Max pmath.Vec3 `yaml:"max"`
}

// Contains reports whether p lies strictly inside b.
func (b Box) Contains(p pmath.Vec3) bool {
	return p.X > b.Min.X && p.X < b.Max.X &&
		p.Y > b.Min.Y && p.Y < b.Max.Y &&
		p.Z > b.Min.Z && p.Z < b.Max.Z
}

// Valid reports whether b has positive extent on every axis.
func (b Box) Valid() bool {
	return b.Min.X < b.Max.X && b.Min.Y < b.Max.Y && b.Min.Z < b.Max.Z
}

// Axes holds optional per-axis coordinates. A nil axis is left alone.
type Axes struct {
	X *float32 `yaml:"x,omitempty"`
	Y *float32 `yaml:"y,omitempty"`
	Z *float32 `yaml:"z,omitempty"`
}

// CallbackID names a registered RegionCallback.
type CallbackID string

// RegionOverride forces a camera mode, and optionally parts of the pose,
// while the camera target is inside Box.
type RegionOverride struct {
	Name     string     `yaml:"name,omitempty"`
	Level    int        `yaml:"level"`
	Area     int        `yaml:"area"`
	Box      Box        `yaml:"box"`
	Mode     Mode       `yaml:"mode"`
	Sticky   bool       `yaml:"sticky,omitempty"`
	Camera   Axes       `yaml:"camera,omitempty"`
	Look     Axes       `yaml:"look,omitempty"`
	Callback CallbackID `yaml:"callback,omitempty"`
}

// RegionCallback runs once per frame while its region is active.
type RegionCallback interface {
	RegionActive(s *State)
}

// RegionCallbackFunc adapts a function to RegionCallback.
type RegionCallbackFunc func(s *State)

// RegionActive calls f(s).
func (f RegionCallbackFunc) RegionActive(s *State) { f(s) }

// Built-in callbacks.
const (
	CallbackZoomOut     CallbackID = "zoom_out"
	CallbackFlattenTilt CallbackID = "flatten_tilt"
)

// Registry is the ordered table of region overrides for a session.
type Registry struct {
	regions   []RegionOverride
	callbacks map[CallbackID]RegionCallback
}

// NewRegistry returns an empty registry with the built-in callbacks.
func NewRegistry() *Registry {
	r := &Registry{callbacks: make(map[CallbackID]RegionCallback)}
	r.RegisterCallback(CallbackZoomOut, RegionCallbackFunc(func(s *State) {
		s.DistanceTarget = Presets[len(Presets)-1]
	}))
	r.RegisterCallback(CallbackFlattenTilt, RegionCallbackFunc(func(s *State) {
		s.Tilt = pmath.ApproachAngle(s.Tilt, 0, CenterStep)
	}))
	return r
}

// RegisterCallback binds id to cb, replacing any earlier binding.
func (r *Registry) RegisterCallback(id CallbackID, cb RegionCallback) {
	r.callbacks[id] = cb
}

// Add appends an override. Later overrides win over earlier ones.
func (r *Registry) Add(o RegionOverride) error {
	if !o.Box.Valid() {
		return fmt.Errorf("region %q: %w", o.Name, ErrInvalidBox)
	}
	if o.Mode >= modeCount {
		return fmt.Errorf("region %q: %w", o.Name, ErrUnknownMode)
	}
	if o.Callback != "" {
		if _, ok := r.callbacks[o.Callback]; !ok {
			return fmt.Errorf("region %q: %w: %s", o.Name, ErrUnknownCallback, o.Callback)
		}
	}
	r.regions = append(r.regions, o)
	return nil
}

// Len returns the number of overrides.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.regions)
}

// Region returns the override at index i, as reported by Resolve.
func (r *Registry) Region(i int) (RegionOverride, bool) {
	if r == nil || i < 0 || i >= len(r.regions) {
		return RegionOverride{}, false
	}
	return r.regions[i], true
}

// Regions returns the overrides configured for a level and area.
func (r *Registry) Regions(level, area int) []RegionOverride {
	if r == nil {
		return nil
	}
	var out []RegionOverride
	for _, o := range r.regions {
		if o.Level == level && o.Area == area {
			out = append(out, o)
		}
	}
	return out
}

// Resolve applies every override matching the state's level, area and
// target, in order. The mode first reverts to the intended mode, so a
// non-sticky override only holds while the target is inside its box.
// It returns the index of the last matching override, or -1.
func (r *Registry) Resolve(s *State) int {
	s.setMode(s.IntendedMode)
	s.FixedOverride = false
	if r == nil {
		return -1
	}

	last := -1
	for i := range r.regions {
		o := &r.regions[i]
		if o.Level != s.Level || o.Area != s.Area || !o.Box.Contains(s.Target) {
			continue
		}
		last = i
		s.FixedOverride = true
		if o.Sticky {
			s.IntendedMode = o.Mode
		}
		s.setMode(o.Mode)

		pin(&s.Position.X, o.Camera.X, s.Caps.AllowPosX)
		pin(&s.Position.Y, o.Camera.Y, s.Caps.AllowPosY)
		pin(&s.Position.Z, o.Camera.Z, s.Caps.AllowPosZ)
		pin(&s.LookAt.X, o.Look.X, s.Caps.AllowFocusX)
		pin(&s.LookAt.Y, o.Look.Y, s.Caps.AllowFocusY)
		pin(&s.LookAt.Z, o.Look.Z, s.Caps.AllowFocusZ)

		s.Yaw = pmath.Heading(s.Position.X-s.Target.X, s.Position.Z-s.Target.Z)

		if cb, ok := r.callbacks[o.Callback]; ok {
			cb.RegionActive(s)
		}
	}
	return last
}

// pin overwrites *dst with *v unless the axis is engine-controlled.
func pin(dst *float32, v *float32, engineControlled bool) {
	if v != nil && !engineControlled {
		*dst = *v
	}
}

// regionFile is the on-disk layout of a region table.
type regionFile struct {
	Regions []RegionOverride `yaml:"regions"`
}

// ParseRegions decodes a YAML region table and adds it to r.
func (r *Registry) ParseRegions(data []byte) error {
	var f regionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing regions: %w", err)
	}
	for _, o := range f.Regions {
		if err := r.Add(o); err != nil {
			return err
		}
	}
	return nil
}

// LoadRegions reads a YAML region table from path and adds it to r.
func (r *Registry) LoadRegions(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading regions: %w", err)
	}
	if err := r.ParseRegions(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

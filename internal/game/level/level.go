// Package level defines the on-disk level format: collision triangles,
// moving platforms, the player start and camera regions.
package level

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	"github.com/Faultbox/midgard-cam/internal/engine/collision"
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

// ErrEmptyLevel is returned for levels without any collision geometry.
var ErrEmptyLevel = errors.New("level has no surfaces")

// Triangle is one collision triangle. Vertex order sets the normal:
// (b-a)×(c-a).
type Triangle [3]pmath.Vec3

// Block is an axis-aligned box expanded into twelve outward-facing
// triangles.
type Block struct {
	Min pmath.Vec3 `yaml:"min"`
	Max pmath.Vec3 `yaml:"max"`
}

// Mover is a group of dynamic surfaces oscillating along Axis.
type Mover struct {
	Name      string     `yaml:"name,omitempty"`
	Triangles []Triangle `yaml:"triangles,omitempty"`
	Blocks    []Block    `yaml:"blocks,omitempty"`
	Axis      pmath.Vec3 `yaml:"axis"`   // peak offset
	Period    int        `yaml:"period"` // frames per cycle
}

// Start is the player spawn.
type Start struct {
	Position pmath.Vec3  `yaml:"position"`
	Yaw      pmath.Angle `yaml:"yaw"`
}

// Level is a parsed level file.
type Level struct {
	Name      string                  `yaml:"name"`
	ID        int                     `yaml:"id"`
	Area      int                     `yaml:"area"`
	Preset    int                     `yaml:"preset"`
	Start     Start                   `yaml:"start"`
	Triangles []Triangle              `yaml:"triangles,omitempty"`
	Blocks    []Block                 `yaml:"blocks,omitempty"`
	Movers    []Mover                 `yaml:"movers,omitempty"`
	Regions   []camera.RegionOverride `yaml:"regions,omitempty"`
}

// Parse decodes a YAML level. Regions without a level and area inherit
// the level's.
func Parse(data []byte) (*Level, error) {
	var l Level
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing level: %w", err)
	}
	l.scopeRegions()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Load reads and parses a level file.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level: %w", err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Save writes l as YAML.
func (l *Level) Save(path string) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshaling level: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing level: %w", err)
	}
	return nil
}

// Rescope moves the level to a new id and area, taking along the regions
// scoped to the old ones.
func (l *Level) Rescope(id, area int) {
	for i := range l.Regions {
		r := &l.Regions[i]
		if r.Level == l.ID && r.Area == l.Area {
			r.Level, r.Area = id, area
		}
	}
	l.ID, l.Area = id, area
}

func (l *Level) scopeRegions() {
	for i := range l.Regions {
		r := &l.Regions[i]
		if r.Level == 0 && r.Area == 0 {
			r.Level, r.Area = l.ID, l.Area
		}
	}
}

// Validate checks that l has geometry and sane movers and blocks.
func (l *Level) Validate() error {
	if len(l.Triangles) == 0 && len(l.Blocks) == 0 {
		return ErrEmptyLevel
	}
	for i, b := range l.Blocks {
		if !b.valid() {
			return fmt.Errorf("block %d: %w", i, camera.ErrInvalidBox)
		}
	}
	for i, m := range l.Movers {
		if m.Period <= 0 {
			return fmt.Errorf("mover %d (%s): period must be positive", i, m.Name)
		}
		for j, b := range m.Blocks {
			if !b.valid() {
				return fmt.Errorf("mover %d block %d: %w", i, j, camera.ErrInvalidBox)
			}
		}
	}
	return nil
}

// Surfaces builds the static collision surfaces. Degenerate triangles
// are an error; the returned surfaces carry their triangle index as ID.
func (l *Level) Surfaces() ([]*collision.Surface, error) {
	return build(l.Triangles, l.Blocks, pmath.Vec3{})
}

// Registry returns a region registry holding the level's regions.
func (l *Level) Registry() (*camera.Registry, error) {
	r := camera.NewRegistry()
	for _, o := range l.Regions {
		if err := r.Add(o); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Offset returns the mover's displacement at frame.
func (m *Mover) Offset(frame uint64) pmath.Vec3 {
	phase := pmath.Angle(int64(frame%uint64(m.Period)) * 0x10000 / int64(m.Period))
	return m.Axis.Scale(pmath.Sin(phase))
}

// Surfaces builds the mover's surfaces displaced to frame.
func (m *Mover) Surfaces(frame uint64) ([]*collision.Surface, error) {
	return build(m.Triangles, m.Blocks, m.Offset(frame))
}

func build(tris []Triangle, blocks []Block, off pmath.Vec3) ([]*collision.Surface, error) {
	all := make([]Triangle, 0, len(tris)+len(blocks)*12)
	all = append(all, tris...)
	for _, b := range blocks {
		all = append(all, b.Triangles()...)
	}

	out := make([]*collision.Surface, 0, len(all))
	for i, t := range all {
		s, err := collision.NewSurface(t[0].Add(off), t[1].Add(off), t[2].Add(off))
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		s.ID = i
		out = append(out, s)
	}
	return out, nil
}

func (b Block) valid() bool {
	return camera.Box{Min: b.Min, Max: b.Max}.Valid()
}

// Triangles expands b into twelve triangles with outward normals.
func (b Block) Triangles() []Triangle {
	lo, hi := b.Min, b.Max
	p := func(x, y, z float32) pmath.Vec3 { return pmath.Vec3{X: x, Y: y, Z: z} }
	quad := func(a, b, c, d pmath.Vec3) []Triangle {
		return []Triangle{{a, b, c}, {a, c, d}}
	}

	var out []Triangle
	// Top and bottom
	out = append(out, quad(p(lo.X, hi.Y, lo.Z), p(lo.X, hi.Y, hi.Z), p(hi.X, hi.Y, hi.Z), p(hi.X, hi.Y, lo.Z))...)
	out = append(out, quad(p(lo.X, lo.Y, lo.Z), p(hi.X, lo.Y, lo.Z), p(hi.X, lo.Y, hi.Z), p(lo.X, lo.Y, hi.Z))...)
	// +Z and -Z
	out = append(out, quad(p(lo.X, lo.Y, hi.Z), p(hi.X, lo.Y, hi.Z), p(hi.X, hi.Y, hi.Z), p(lo.X, hi.Y, hi.Z))...)
	out = append(out, quad(p(hi.X, lo.Y, lo.Z), p(lo.X, lo.Y, lo.Z), p(lo.X, hi.Y, lo.Z), p(hi.X, hi.Y, lo.Z))...)
	// +X and -X
	out = append(out, quad(p(hi.X, lo.Y, hi.Z), p(hi.X, lo.Y, lo.Z), p(hi.X, hi.Y, lo.Z), p(hi.X, hi.Y, hi.Z))...)
	out = append(out, quad(p(lo.X, lo.Y, lo.Z), p(lo.X, lo.Y, hi.Z), p(lo.X, hi.Y, hi.Z), p(lo.X, hi.Y, lo.Z))...)
	return out
}

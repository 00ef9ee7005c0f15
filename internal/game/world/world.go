// Package world holds the running level: its collision partition, moving
// platforms and camera regions.
package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	"github.com/Faultbox/midgard-cam/internal/engine/collision"
	"github.com/Faultbox/midgard-cam/internal/game/level"
	"github.com/Faultbox/midgard-cam/internal/logger"
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

// BuiltinLevel names the built-in test room.
const BuiltinLevel = "testroom"

// World is a loaded level ready for simulation.
type World struct {
	Level   *level.Level
	Grid    *collision.Grid
	Caster  *collision.Caster
	Regions *camera.Registry

	static  []*collision.Surface
	dynamic []*collision.Surface
	owner   map[*collision.Surface]int // dynamic surface -> mover index
	offsets []pmath.Vec3               // mover offsets this frame
	deltas  []pmath.Vec3               // mover motion since the last frame
	frame   uint64
}

// New builds the partition for l and files its movers at frame 0.
func New(l *level.Level, mode collision.TraversalMode) (*World, error) {
	static, err := l.Surfaces()
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", l.Name, err)
	}
	regions, err := l.Registry()
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", l.Name, err)
	}

	w := &World{
		Level:   l,
		Grid:    collision.NewGrid(),
		Regions: regions,
		static:  static,
		owner:   make(map[*collision.Surface]int),
		offsets: make([]pmath.Vec3, len(l.Movers)),
		deltas:  make([]pmath.Vec3, len(l.Movers)),
	}
	w.Caster = collision.NewCaster(w.Grid, mode)

	dropped := 0
	for _, s := range static {
		if !w.Grid.Add(s, false) {
			dropped++
		}
	}
	if dropped == len(static) {
		return nil, fmt.Errorf("level %q: %w", l.Name, level.ErrEmptyLevel)
	}
	if dropped > 0 {
		logger.Warn("surfaces outside the level boundary",
			zap.String("level", l.Name),
			zap.Int("dropped", dropped),
		)
	}

	if err := w.fileMovers(); err != nil {
		return nil, err
	}
	return w, nil
}

// Step advances the movers by one frame and refiles their surfaces.
// Call between frames, never during a camera update.
func (w *World) Step() error {
	w.frame++
	return w.fileMovers()
}

func (w *World) fileMovers() error {
	if len(w.Level.Movers) == 0 {
		return nil
	}
	w.Grid.ClearDynamic()
	clear(w.owner)
	w.dynamic = w.dynamic[:0]

	for i := range w.Level.Movers {
		m := &w.Level.Movers[i]
		off := m.Offset(w.frame)
		w.deltas[i] = off.Sub(w.offsets[i])
		w.offsets[i] = off

		surfaces, err := m.Surfaces(w.frame)
		if err != nil {
			return fmt.Errorf("mover %q: %w", m.Name, err)
		}
		for _, s := range surfaces {
			if w.Grid.Add(s, true) {
				w.owner[s] = i
				w.dynamic = append(w.dynamic, s)
			}
		}
	}
	return nil
}

// Frame returns the number of Steps taken.
func (w *World) Frame() uint64 {
	return w.frame
}

// Carry returns how far the surface moved during the last Step. Static
// surfaces never move.
func (w *World) Carry(s *collision.Surface) pmath.Vec3 {
	if i, ok := w.owner[s]; ok {
		return w.deltas[i]
	}
	return pmath.Vec3{}
}

// Surfaces returns every filed surface, static first, for drawing.
func (w *World) Surfaces() []*collision.Surface {
	out := make([]*collision.Surface, 0, len(w.static)+len(w.dynamic))
	out = append(out, w.static...)
	return append(out, w.dynamic...)
}

// Manager manages the current level and level transitions.
type Manager struct {
	current *World
	loading bool
	mode    collision.TraversalMode
}

// NewManager creates a new world manager. mode is the traversal mode of
// every caster it builds.
func NewManager(mode collision.TraversalMode) *Manager {
	return &Manager{mode: mode}
}

// Current returns the current world.
func (m *Manager) Current() *World {
	return m.current
}

// LoadLevel loads a level file, or the built-in room for "" and
// BuiltinLevel.
func (m *Manager) LoadLevel(path string) (*World, error) {
	m.loading = true
	defer func() { m.loading = false }()

	l, err := ReadLevel(path)
	if err != nil {
		return nil, err
	}
	return m.load(l)
}

// Load builds a world from an already parsed level and makes it current.
func (m *Manager) Load(l *level.Level) (*World, error) {
	m.loading = true
	defer func() { m.loading = false }()
	return m.load(l)
}

func (m *Manager) load(l *level.Level) (*World, error) {
	w, err := New(l, m.mode)
	if err != nil {
		return nil, err
	}
	static, dynamic := w.Grid.Count()
	logger.Info("level loaded",
		zap.String("name", l.Name),
		zap.Int("id", l.ID),
		zap.Int("area", l.Area),
		zap.Int("static", static),
		zap.Int("dynamic", dynamic),
		zap.Int("regions", w.Regions.Len()),
		zap.Stringer("traversal", m.mode),
	)

	m.current = w
	return w, nil
}

// ReadLevel parses a level file, or returns the built-in room for ""
// and BuiltinLevel.
func ReadLevel(path string) (*level.Level, error) {
	if path == "" || path == BuiltinLevel {
		return level.TestRoom(), nil
	}
	l, err := level.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading level %s: %w", path, err)
	}
	return l, nil
}

// IsLoading returns whether a level is currently loading.
func (m *Manager) IsLoading() bool {
	return m.loading
}

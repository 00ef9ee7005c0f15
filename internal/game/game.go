// Package game implements the interactive viewer loop.
package game

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cam/internal/config"
	"github.com/Faultbox/midgard-cam/internal/engine/audio"
	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	"github.com/Faultbox/midgard-cam/internal/engine/debug"
	"github.com/Faultbox/midgard-cam/internal/engine/input"
	"github.com/Faultbox/midgard-cam/internal/engine/picking"
	"github.com/Faultbox/midgard-cam/internal/engine/renderer"
	"github.com/Faultbox/midgard-cam/internal/engine/ui2d"
	"github.com/Faultbox/midgard-cam/internal/engine/window"
	"github.com/Faultbox/midgard-cam/internal/game/hud"
	"github.com/Faultbox/midgard-cam/internal/game/sim"
	"github.com/Faultbox/midgard-cam/internal/game/world"
	"github.com/Faultbox/midgard-cam/internal/logger"
)

// FrameRate is the fixed simulation rate in frames per second.
const FrameRate = 30

const frameMillis = 1000 / FrameRate

// maxCatchUp bounds the simulation frames run for one rendered frame
// after a stall.
const maxCatchUp = 4

// Game is the viewer instance.
type Game struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	overlay  *ui2d.Renderer
	batch    *ui2d.Batch
	hud      *hud.HUD
	input    *input.Input
	audio    *audio.Manager
	levels   *world.Manager
	session  *sim.Session
	shots    *debug.Screenshotter
	diag     *zap.Logger

	showRegions   bool
	showRays      bool
	showPartition bool
	fps           int
	option        int  // selected entry of camera.Options
	dirty         bool // settings changed in-game
	dynamicMesh   bool // level has movers and must be re-uploaded
}

// New creates the window, renderer and simulation for cfg.
func New(cfg *config.Config) (*Game, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("level", cfg.Level.Path),
		zap.Stringer("traversal", cfg.Collision.Traversal),
	)

	g := &Game{
		config:      cfg,
		levels:      world.NewManager(cfg.Collision.Traversal),
		shots:       debug.NewScreenshotter(filepath.Join(config.ConfigDir(), "screenshots"), "camview"),
		diag:        logger.Sampled("diag", time.Second, 1, 0),
		hud:         hud.New(),
		showRegions: cfg.Debug.ShowRegions,
		showRays:    cfg.Debug.ShowRays,
	}

	// Create window (this also creates OpenGL context)
	var err error
	g.window, err = window.New(window.Config{
		Title:      "camview",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	g.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
		FOV:    cfg.Graphics.FOV,
		Sun:    cfg.Graphics.Sun,
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.overlay, err = ui2d.New(cfg.Graphics.Width, cfg.Graphics.Height)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create overlay: %w", err)
	}
	g.batch = ui2d.NewBatch(g.overlay.Atlas())
	g.hud.ShowDiagnostics = cfg.Debug.Diagnostics

	g.input = input.New()
	g.input.OpenGamepad()

	if cfg.Audio.Enabled {
		g.audio = audio.New()
		g.audio.SetCueVolume(cfg.Audio.Volume)
		if err := g.audio.Init(); err != nil {
			logger.Warn("audio disabled", zap.Error(err))
			g.audio = nil
		}
	}

	if err := g.loadLevel(); err != nil {
		g.Close()
		return nil, err
	}

	logger.Info("viewer initialized")
	return g, nil
}

// loadLevel reads the configured level, applies the config overrides and
// starts a session on it.
func (g *Game) loadLevel() error {
	lc := g.config.Level
	l, err := world.ReadLevel(lc.Path)
	if err != nil {
		return err
	}
	if lc.ID != 0 || lc.Area != 0 {
		id, area := l.ID, l.Area
		if lc.ID != 0 {
			id = lc.ID
		}
		if lc.Area != 0 {
			area = lc.Area
		}
		l.Rescope(id, area)
	}
	if lc.Preset != 0 {
		l.Preset = lc.Preset
	}

	w, err := g.levels.Load(l)
	if err != nil {
		return err
	}
	if lc.Regions != "" {
		if err := w.Regions.LoadRegions(lc.Regions); err != nil {
			return fmt.Errorf("loading regions: %w", err)
		}
	}

	if err := g.renderer.UploadLevel(w.Surfaces()); err != nil {
		return fmt.Errorf("uploading level: %w", err)
	}
	g.dynamicMesh = len(l.Movers) > 0

	opts := sim.Options{
		Settings: g.config.Camera,
		Sink:     g.renderer,
		Logger:   logger.Log,
	}
	if g.audio != nil {
		opts.Cues = g.audio
	}
	g.session = sim.NewSession(w, opts)
	g.window.SetTitle(fmt.Sprintf("camview - %s (level %d area %d)", l.Name, l.ID, l.Area))
	return nil
}

// Run starts the main loop.
func (g *Game) Run() error {
	g.running = true

	frameCount := 0
	fpsTimer := time.Now()
	next := g.window.Ticks()

	logger.Info("starting viewer loop", zap.Int("rate", FrameRate))

	for g.running {
		// 1. Process input
		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()

		// 2. Step the simulation at the fixed rate
		now := g.window.Ticks()
		steps := 0
		for now >= next && steps < maxCatchUp {
			if err := g.update(); err != nil {
				return fmt.Errorf("update error: %w", err)
			}
			next += frameMillis
			steps++
		}
		if now >= next {
			next = now + frameMillis
		}

		// 3. Render
		g.render()

		if g.input.IsKeyPressed(sdl.SCANCODE_F12) {
			g.screenshot()
		}

		// 4. Present (swap buffers)
		g.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.fps = frameCount
			logger.Debug("fps", zap.Int("count", frameCount), zap.Uint64("sim_frame", g.session.Frame()))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// handleEvents applies window and viewer hotkeys.
//
//	Esc      quit
//	F1       toggle region boxes
//	F2       toggle the collision ray
//	F3       toggle the partition overlay
//	F4       toggle the diagnostics panel
//	F5       respawn and reset the camera
//	F6       open the options menu, then select the next option
//	F7       close the options menu
//	F8       toggle debug logging
//	- and =  step the selected option
//	LMB      inspect the clicked camera region
//	RMB      move the player to the clicked point
func (g *Game) handleEvents() {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			g.renderer.Resize(event.Width, event.Height)
			g.overlay.Resize(event.Width, event.Height)
		case input.EventMouseDown:
			g.click(event.X, event.Y, event.Button)
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				g.running = false
			case sdl.SCANCODE_F1:
				g.showRegions = !g.showRegions
			case sdl.SCANCODE_F2:
				g.showRays = !g.showRays
			case sdl.SCANCODE_F3:
				g.showPartition = !g.showPartition
			case sdl.SCANCODE_F4:
				g.hud.ShowDiagnostics = !g.hud.ShowDiagnostics
			case sdl.SCANCODE_F5:
				g.session.Reset()
				g.hud.Message("reset")
			case sdl.SCANCODE_F6:
				if g.hud.ShowMenu {
					g.option = (g.option + 1) % len(camera.Options())
				}
				g.hud.ShowMenu = true
				g.logOption()
			case sdl.SCANCODE_F7:
				g.hud.ShowMenu = false
			case sdl.SCANCODE_F8:
				g.toggleDebugLog()
			case sdl.SCANCODE_MINUS:
				g.stepOption(-1)
			case sdl.SCANCODE_EQUALS:
				g.stepOption(1)
			}
		}
	}
}

func (g *Game) toggleDebugLog() {
	lvl := "debug"
	if logger.Level() == "debug" {
		lvl = g.config.Logging.Level
		if lvl == "debug" {
			lvl = "info"
		}
	}
	logger.SetLevel(lvl)
	g.hud.Message("log level " + logger.Level())
}

// pickDistance is how far a click ray reaches into the level.
const pickDistance = 20000

func (g *Game) click(x, y int, button uint8) {
	w, h := g.renderer.Size()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), g.renderer.ViewProjection().Inv())
	cur := g.session.World

	switch button {
	case sdl.BUTTON_LEFT:
		l := cur.Level
		regions := cur.Regions.Regions(l.ID, l.Area)
		i, _ := picking.PickRegion(ray, regions)
		if i < 0 {
			return
		}
		r := regions[i]
		logger.Info("region picked",
			zap.String("name", r.Name),
			zap.Stringer("mode", r.Mode),
			zap.Bool("sticky", r.Sticky),
			zap.String("callback", string(r.Callback)),
		)
	case sdl.BUTTON_RIGHT:
		hit := cur.Caster.CastRay(ray.Origin, ray.Direction.Scale(pickDistance))
		if !hit.OK() {
			return
		}
		g.session.Player.Position = hit.Position
		g.session.Player.VerticalVel = 0
		logger.Info("player moved", zap.Float32("x", hit.Position.X), zap.Float32("y", hit.Position.Y), zap.Float32("z", hit.Position.Z))
	}
}

func (g *Game) stepOption(delta int) {
	if !g.hud.ShowMenu {
		return
	}
	s := g.session.Camera.Settings()
	s.Step(camera.Options()[g.option], delta)
	g.session.Camera.SetSettings(s)
	g.dirty = true
	if g.audio != nil {
		g.audio.PlayCue(camera.CueSelect)
	}
	g.logOption()
}

func (g *Game) logOption() {
	o := camera.Options()[g.option]
	logger.Info("camera option",
		zap.Stringer("option", o),
		zap.Int("value", g.session.Camera.Settings().Get(o)),
	)
}

// update runs one simulation frame.
func (g *Game) update() error {
	if err := g.session.Step(g.input.Controller()); err != nil {
		return err
	}
	if g.dynamicMesh {
		if err := g.renderer.UploadLevel(g.session.World.Surfaces()); err != nil {
			return err
		}
	}
	if g.config.Debug.Diagnostics || logger.Level() == "debug" {
		g.diag.Debug("camera", zap.Object("diag", g.session.Camera.Diagnostics()))
	}
	return nil
}

// render draws the current frame.
func (g *Game) render() {
	g.renderer.Begin()

	g.renderer.DrawLevel()

	p := g.session.Player
	g.renderer.DrawPlayer(p.Position, p.FaceYaw, g.session.Camera.Translucency())

	cur := g.session.World
	if g.showPartition {
		floorY := p.Position.Y
		g.renderer.DrawOverlay(debug.OccupancyOverlay(cur.Grid, floorY+1), 0.35)
		g.renderer.DrawLines(debug.PartitionLines(floorY + 2))
	}

	d := g.session.Camera.Diagnostics()
	var lines []debug.Vertex
	if g.showRegions {
		var active *camera.RegionOverride
		if r, ok := cur.Regions.Region(d.Region); ok {
			active = &r
		}
		lines = append(lines, debug.RegionWireframes(cur.Regions.Regions(d.Level, d.Area), active)...)
	}
	if g.showRays {
		st := g.session.Camera.State()
		lines = append(lines, debug.RayLine(st.Target, st.Position, g.session.Camera.Colliding())...)
	}
	g.renderer.DrawLines(lines)

	g.batch.Reset()
	w, h := g.renderer.Size()
	g.hud.Layout(g.batch, hud.Frame{
		Diag:     d,
		Settings: g.session.Camera.Settings(),
		Selected: g.option,
		FPS:      g.fps,
		SimFrame: g.session.Frame(),
	}, float32(w), float32(h))
	g.overlay.Draw(g.batch)

	g.renderer.End()
}

func (g *Game) screenshot() {
	pixels, w, h := g.renderer.ReadPixels()
	path, err := g.shots.Capture(pixels, w, h, g.session.Frame())
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
	g.hud.Message("saved " + filepath.Base(path))
}

// Close saves changed camera settings and releases resources.
func (g *Game) Close() {
	logger.Info("closing viewer")

	if g.dirty && g.session != nil {
		if err := g.config.SaveCamera(g.session.Camera.Settings(), config.ConfigPath()); err != nil {
			logger.Warn("saving camera settings failed", zap.Error(err))
		}
	}
	if g.audio != nil {
		g.audio.Close()
	}
	if g.input != nil {
		g.input.Close()
	}
	if g.overlay != nil {
		g.overlay.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}

// Package renderer draws the level, the player marker and debug lines
// from the committed camera pose.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	"github.com/Faultbox/midgard-cam/internal/engine/collision"
	"github.com/Faultbox/midgard-cam/internal/engine/debug"
	"github.com/Faultbox/midgard-cam/internal/engine/lighting"
	"github.com/Faultbox/midgard-cam/internal/engine/renderer/geom"
	"github.com/Faultbox/midgard-cam/internal/engine/shader"
	"github.com/Faultbox/midgard-cam/internal/engine/shader/glsl"
	"github.com/Faultbox/midgard-cam/internal/logger"
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

// Shader feature sets.
const (
	levelFeatures   = glsl.Color | glsl.Lighting | glsl.Fog
	playerFeatures  = glsl.UniformColor | glsl.Lighting | glsl.Alpha
	lineFeatures    = glsl.Color
	overlayFeatures = glsl.Color | glsl.Alpha
)

// Clip planes and fog range in world units.
const (
	nearPlane = 10
	farPlane  = 20000
	fogNear   = 4000
	fogFar    = 16000
)

var clearColor = mgl32.Vec3{0.1, 0.1, 0.15}

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	FOV    float32 // vertical, degrees
	Sun    lighting.Sun
}

// mesh is one vertex array drawn with one generated program.
type mesh struct {
	vao   uint32
	vbo   uint32
	count int32
	prog  *shader.Program
}

// Renderer handles all OpenGL rendering. It implements camera.PoseSink.
type Renderer struct {
	config  Config
	shaders *shader.Cache

	view     mgl32.Mat4
	proj     mgl32.Mat4
	pose     camera.Pose
	lightDir mgl32.Vec3

	level   mesh
	player  mesh
	lines   mesh
	overlay mesh
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if !cfg.Sun.Valid() {
		cfg.Sun = lighting.DefaultSun()
	}
	r := &Renderer{
		config:   cfg,
		view:     mgl32.Ident4(),
		lightDir: mgl32.Vec3(cfg.Sun.Direction().Array()),
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], 1.0)

	r.shaders = shader.NewCache()
	for _, m := range []struct {
		dst *mesh
		f   glsl.Feature
	}{
		{&r.level, levelFeatures},
		{&r.player, playerFeatures},
		{&r.lines, lineFeatures},
		{&r.overlay, overlayFeatures},
	} {
		if err := r.initMesh(m.dst, m.f); err != nil {
			r.Close()
			return nil, err
		}
	}

	if err := r.upload(&r.player, geom.Marker(), gl.STATIC_DRAW); err != nil {
		r.Close()
		return nil, err
	}

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for _, m := range []*mesh{&r.level, &r.player, &r.lines, &r.overlay} {
		if m.vao != 0 {
			gl.DeleteVertexArrays(1, &m.vao)
		}
		if m.vbo != 0 {
			gl.DeleteBuffers(1, &m.vbo)
		}
		*m = mesh{}
	}
	if r.shaders != nil {
		r.shaders.Close()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.proj = mgl32.Perspective(
		mgl32.DegToRad(r.config.FOV),
		float32(width)/float32(height),
		nearPlane, farPlane,
	)
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// ApplyCameraPose sets the view for the next frame.
func (r *Renderer) ApplyCameraPose(p camera.Pose) {
	r.pose = p
	eye := mgl32.Vec3(p.Position.Array())
	center := mgl32.Vec3(p.LookAt.Array())
	if eye.Sub(center).Len() < 1e-3 {
		return
	}
	r.view = mgl32.LookAtV(eye, center, mgl32.Vec3{0, 1, 0})
}

// ViewProjection returns the combined matrix of the current frame.
func (r *Renderer) ViewProjection() mgl32.Mat4 {
	return r.proj.Mul4(r.view)
}

// Size returns the viewport size in pixels.
func (r *Renderer) Size() (width, height int) {
	return r.config.Width, r.config.Height
}

// Pose returns the pose the view was last built from.
func (r *Renderer) Pose() camera.Pose {
	return r.pose
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// UploadLevel replaces the level mesh with the given surfaces, colored
// by kind.
func (r *Renderer) UploadLevel(surfaces []*collision.Surface) error {
	v := geom.Level(surfaces)
	if err := r.upload(&r.level, v, gl.STATIC_DRAW); err != nil {
		return fmt.Errorf("uploading level: %w", err)
	}
	logger.Debug("level mesh uploaded", zap.Int("surfaces", len(surfaces)))
	return nil
}

// DrawLevel draws the level mesh.
func (r *Renderer) DrawLevel() {
	if r.level.count == 0 {
		return
	}
	mvp := r.proj.Mul4(r.view)
	p := r.level.prog
	gl.UseProgram(p.ID)
	setMat4(p, "uMVP", mvp)
	setVec3(p, "uLightDir", r.lightDir)
	setVec3(p, "uFogColor", clearColor)
	gl.Uniform1f(p.Uniform("uFogNear"), fogNear)
	gl.Uniform1f(p.Uniform("uFogFar"), fogFar)
	gl.BindVertexArray(r.level.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, r.level.count)
}

// DrawPlayer draws the player marker at pos facing yaw. alpha is the
// camera's translucency value; fully transparent markers are skipped.
func (r *Renderer) DrawPlayer(pos pmath.Vec3, yaw pmath.Angle, alpha uint8) {
	if alpha == 0 {
		return
	}
	model := mgl32.Translate3D(pos.X, pos.Y, pos.Z).
		Mul4(mgl32.HomogRotate3DY(float32(yaw.Radians()))).
		Mul4(mgl32.Scale3D(geom.MarkerWidth, geom.MarkerHeight, geom.MarkerDepth))
	mvp := r.proj.Mul4(r.view).Mul4(model)

	p := r.player.prog
	gl.UseProgram(p.ID)
	setMat4(p, "uMVP", mvp)
	setVec3(p, "uLightDir", r.lightDir)
	gl.Uniform4f(p.Uniform("uColor"), 0.9, 0.2, 0.2, 1.0)
	gl.Uniform1f(p.Uniform("uAlpha"), float32(alpha)/255)

	if alpha < 255 {
		gl.Enable(gl.BLEND)
		defer gl.Disable(gl.BLEND)
	}
	gl.BindVertexArray(r.player.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, r.player.count)
}

// DrawLines draws debug line pairs in world space.
func (r *Renderer) DrawLines(v []debug.Vertex) {
	if len(v) == 0 {
		return
	}
	if err := r.upload(&r.lines, v, gl.STREAM_DRAW); err != nil {
		logger.Warn("debug lines upload failed", zap.Error(err))
		return
	}
	p := r.lines.prog
	gl.UseProgram(p.ID)
	setMat4(p, "uMVP", r.proj.Mul4(r.view))
	gl.BindVertexArray(r.lines.vao)
	gl.DrawArrays(gl.LINES, 0, r.lines.count)
}

// DrawOverlay draws translucent debug triangles in world space.
func (r *Renderer) DrawOverlay(v []debug.Vertex, alpha float32) {
	if len(v) == 0 {
		return
	}
	if err := r.upload(&r.overlay, v, gl.STREAM_DRAW); err != nil {
		logger.Warn("debug overlay upload failed", zap.Error(err))
		return
	}
	p := r.overlay.prog
	gl.UseProgram(p.ID)
	setMat4(p, "uMVP", r.proj.Mul4(r.view))
	gl.Uniform1f(p.Uniform("uAlpha"), alpha)

	gl.Enable(gl.BLEND)
	gl.DepthMask(false)
	gl.BindVertexArray(r.overlay.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, r.overlay.count)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}

// initMesh creates the vertex array for f and wires its attributes in
// the generated interleaved layout.
func (r *Renderer) initMesh(m *mesh, f glsl.Feature) error {
	prog, err := r.shaders.Get(f)
	if err != nil {
		return err
	}
	m.prog = prog

	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)

	stride := prog.Source.Stride()
	var offset uintptr
	for _, a := range prog.Source.Attributes {
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, stride, offset)
		gl.EnableVertexAttribArray(a.Location)
		offset += uintptr(a.Size) * 4
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return nil
}

// upload replaces a mesh's vertex data. v must be a slice of a struct
// laid out to match the mesh's program.
func (r *Renderer) upload(m *mesh, v any, usage uint32) error {
	var (
		ptr    unsafe.Pointer
		size   int
		floats int
	)
	switch data := v.(type) {
	case []float32:
		if len(data) > 0 {
			ptr = unsafe.Pointer(&data[0])
		}
		size, floats = len(data)*4, len(data)
	case []debug.Vertex:
		if len(data) > 0 {
			ptr = unsafe.Pointer(&data[0])
		}
		size, floats = len(data)*int(unsafe.Sizeof(debug.Vertex{})), len(data)*6
	default:
		return fmt.Errorf("unsupported vertex data %T", v)
	}

	per := int(m.prog.Source.Stride() / 4)
	if floats%per != 0 {
		return fmt.Errorf("vertex data has %d floats, not a multiple of %d", floats, per)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, size, ptr, usage)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	m.count = int32(floats / per)
	return nil
}

func setMat4(p *shader.Program, name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.Uniform(name), 1, false, &m[0])
}

func setVec3(p *shader.Program, name string, v mgl32.Vec3) {
	gl.Uniform3f(p.Uniform(name), v[0], v[1], v[2])
}

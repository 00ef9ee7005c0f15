package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cam/internal/engine/shader/glsl"
	"github.com/Faultbox/midgard-cam/internal/logger"
)

// Program is a linked program with its uniform locations resolved.
type Program struct {
	ID       uint32
	Features glsl.Feature
	Source   glsl.Program
	uniforms map[string]int32
}

// Uniform returns the location of a generated uniform, or -1.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

// Cache compiles generated programs on first use and keeps them by
// feature set.
type Cache struct {
	programs map[glsl.Feature]*Program
}

// NewCache creates an empty cache. Requires a current GL context.
func NewCache() *Cache {
	return &Cache{programs: make(map[glsl.Feature]*Program)}
}

// Get returns the program for f, compiling it if needed.
func (c *Cache) Get(f glsl.Feature) (*Program, error) {
	if p, ok := c.programs[f]; ok {
		return p, nil
	}

	src := glsl.Generate(f)
	id, err := CompileProgram(src.Vertex, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", f, err)
	}

	p := &Program{
		ID:       id,
		Features: f,
		Source:   src,
		uniforms: make(map[string]int32, len(src.Uniforms)),
	}
	for _, name := range src.Uniforms {
		p.uniforms[name] = GetUniform(id, name)
	}
	c.programs[f] = p

	logger.Debug("shader program compiled",
		zap.Stringer("features", f),
		zap.Uint32("program", id),
	)
	return p, nil
}

// Len returns the number of compiled programs.
func (c *Cache) Len() int {
	return len(c.programs)
}

// Close deletes every cached program.
func (c *Cache) Close() {
	for f, p := range c.programs {
		gl.DeleteProgram(p.ID)
		delete(c.programs, f)
	}
}

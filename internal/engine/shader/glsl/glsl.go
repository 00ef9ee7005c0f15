// Package glsl generates GLSL 410 core shader sources from a feature
// bitmask. Each distinct mask yields one program, so callers can cache
// compiled programs by Feature.
package glsl

import (
	"fmt"
	"strings"
)

// Feature selects optional shader stages.
type Feature uint32

const (
	// Color reads a per-vertex RGB color at attribute location 1.
	Color Feature = 1 << iota
	// Fog blends toward uFogColor by clip-space depth.
	Fog
	// Alpha multiplies the output alpha by uAlpha.
	Alpha
	// UniformColor tints the output by uColor.
	UniformColor
	// Lighting applies a single directional light using the normal at
	// attribute location 2.
	Lighting
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{Color, "color"},
	{Fog, "fog"},
	{Alpha, "alpha"},
	{UniformColor, "ucolor"},
	{Lighting, "light"},
}

// String returns the enabled features joined by '+', or "none".
func (f Feature) String() string {
	var parts []string
	for _, n := range featureNames {
		if f&n.f != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// Has reports whether all bits of g are set in f.
func (f Feature) Has(g Feature) bool {
	return f&g == g
}

// Attribute locations.
const (
	LocPosition = 0
	LocColor    = 1
	LocNormal   = 2
)

// Attribute is a vertex input of a generated program.
type Attribute struct {
	Name     string
	Location uint32
	Size     int32 // float components
}

// Program holds the generated sources for one feature set.
type Program struct {
	Features   Feature
	Vertex     string
	Fragment   string
	Attributes []Attribute
	Uniforms   []string
}

// Stride returns the interleaved vertex size in bytes.
func (p Program) Stride() int32 {
	var n int32
	for _, a := range p.Attributes {
		n += a.Size
	}
	return n * 4
}

// Generate builds the vertex and fragment sources for f.
func Generate(f Feature) Program {
	p := Program{Features: f}

	var vs, fs strings.Builder
	vs.WriteString("#version 410 core\n\n")
	fs.WriteString("#version 410 core\n\n")

	p.attr(&vs, "aPos", LocPosition, 3)
	if f.Has(Color) {
		p.attr(&vs, "aColor", LocColor, 3)
	}
	if f.Has(Lighting) {
		p.attr(&vs, "aNormal", LocNormal, 3)
	}
	vs.WriteString("\n")
	p.uniform(&vs, "mat4", "uMVP")

	if f.Has(Color) {
		vs.WriteString("out vec3 vColor;\n")
		fs.WriteString("in vec3 vColor;\n")
	}
	if f.Has(Lighting) {
		vs.WriteString("out vec3 vNormal;\n")
		fs.WriteString("in vec3 vNormal;\n")
		p.uniform(&fs, "vec3", "uLightDir")
	}
	if f.Has(Fog) {
		vs.WriteString("out float vDepth;\n")
		fs.WriteString("in float vDepth;\n")
		p.uniform(&fs, "vec3", "uFogColor")
		p.uniform(&fs, "float", "uFogNear")
		p.uniform(&fs, "float", "uFogFar")
	}
	if f.Has(Alpha) {
		p.uniform(&fs, "float", "uAlpha")
	}
	if f.Has(UniformColor) {
		p.uniform(&fs, "vec4", "uColor")
	}
	fs.WriteString("out vec4 FragColor;\n")

	vs.WriteString("\nvoid main() {\n")
	vs.WriteString("    gl_Position = uMVP * vec4(aPos, 1.0);\n")
	if f.Has(Color) {
		vs.WriteString("    vColor = aColor;\n")
	}
	if f.Has(Lighting) {
		vs.WriteString("    vNormal = aNormal;\n")
	}
	if f.Has(Fog) {
		vs.WriteString("    vDepth = gl_Position.w;\n")
	}
	vs.WriteString("}\n")

	fs.WriteString("\nvoid main() {\n")
	if f.Has(Color) {
		fs.WriteString("    vec4 c = vec4(vColor, 1.0);\n")
	} else {
		fs.WriteString("    vec4 c = vec4(1.0);\n")
	}
	if f.Has(UniformColor) {
		fs.WriteString("    c *= uColor;\n")
	}
	if f.Has(Lighting) {
		fs.WriteString("    float diffuse = max(dot(normalize(vNormal), -normalize(uLightDir)), 0.0);\n")
		fs.WriteString("    c.rgb *= 0.4 + 0.6 * diffuse;\n")
	}
	if f.Has(Fog) {
		fs.WriteString("    float fog = clamp((vDepth - uFogNear) / (uFogFar - uFogNear), 0.0, 1.0);\n")
		fs.WriteString("    c.rgb = mix(c.rgb, uFogColor, fog);\n")
	}
	if f.Has(Alpha) {
		fs.WriteString("    c.a *= uAlpha;\n")
	}
	fs.WriteString("    FragColor = c;\n")
	fs.WriteString("}\n")

	p.Vertex = vs.String()
	p.Fragment = fs.String()
	return p
}

func (p *Program) attr(b *strings.Builder, name string, loc uint32, size int32) {
	fmt.Fprintf(b, "layout (location = %d) in vec%d %s;\n", loc, size, name)
	p.Attributes = append(p.Attributes, Attribute{Name: name, Location: loc, Size: size})
}

func (p *Program) uniform(b *strings.Builder, typ, name string) {
	fmt.Fprintf(b, "uniform %s %s;\n", typ, name)
	p.Uniforms = append(p.Uniforms, name)
}

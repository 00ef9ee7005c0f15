package ui2d

import (
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	firstGlyph = ' '
	lastGlyph  = '~'
	atlasCols  = 16
)

// Atlas is a fixed-width ASCII glyph sheet holding alpha coverage.
type Atlas struct {
	Image  *image.Alpha
	GlyphW int
	GlyphH int
}

// NewAtlas rasterizes the 7x13 bitmap face into a sheet.
func NewAtlas() *Atlas {
	face := basicfont.Face7x13
	gw, gh := face.Width, face.Height
	n := int(lastGlyph - firstGlyph + 1)
	rows := (n + atlasCols - 1) / atlasCols

	img := image.NewAlpha(image.Rect(0, 0, atlasCols*gw, rows*gh))
	d := font.Drawer{Dst: img, Src: image.Opaque, Face: face}
	for i := 0; i < n; i++ {
		col, row := i%atlasCols, i/atlasCols
		d.Dot = fixed.P(col*gw, row*gh+face.Ascent)
		d.DrawString(string(rune(firstGlyph + i)))
	}
	return &Atlas{Image: img, GlyphW: gw, GlyphH: gh}
}

// GlyphUV returns the texture rectangle of r. Runes outside printable
// ASCII map to '?'.
func (a *Atlas) GlyphUV(r rune) (u0, v0, u1, v1 float32) {
	if r < firstGlyph || r > lastGlyph {
		r = '?'
	}
	i := int(r - firstGlyph)
	col, row := i%atlasCols, i/atlasCols
	b := a.Image.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	u0 = float32(col*a.GlyphW) / w
	v0 = float32(row*a.GlyphH) / h
	u1 = float32((col+1)*a.GlyphW) / w
	v1 = float32((row+1)*a.GlyphH) / h
	return u0, v0, u1, v1
}

// Measure returns the size of text at scale. Lines split on '\n'.
func (a *Atlas) Measure(text string, scale float32) (w, h float32) {
	lines := strings.Split(text, "\n")
	longest := 0
	for _, l := range lines {
		longest = max(longest, len([]rune(l)))
	}
	return float32(longest*a.GlyphW) * scale, float32(len(lines)*a.GlyphH) * scale
}

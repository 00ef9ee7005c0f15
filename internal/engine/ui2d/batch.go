package ui2d

// Vertex layouts, in floats.
const (
	SolidStride = 7 // pos(3) + color(4)
	TextStride  = 9 // pos(3) + uv(2) + color(4)
)

// Batch collects screen-space quads for one frame. Coordinates are
// pixels with the origin at the top left.
type Batch struct {
	Solid []float32
	Text  []float32
	atlas *Atlas
}

// NewBatch creates a batch that lays text out with a.
func NewBatch(a *Atlas) *Batch {
	return &Batch{
		Solid: make([]float32, 0, 4096),
		Text:  make([]float32, 0, 4096),
		atlas: a,
	}
}

// Atlas returns the glyph sheet used for text.
func (b *Batch) Atlas() *Atlas {
	return b.atlas
}

// Reset empties the batch.
func (b *Batch) Reset() {
	b.Solid = b.Solid[:0]
	b.Text = b.Text[:0]
}

// Rect adds a filled rectangle.
func (b *Batch) Rect(x, y, w, h float32, c Color) {
	b.Solid = append(b.Solid,
		x, y, 0, c.R, c.G, c.B, c.A,
		x+w, y, 0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, c.R, c.G, c.B, c.A,
		x, y, 0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, c.R, c.G, c.B, c.A,
		x, y+h, 0, c.R, c.G, c.B, c.A,
	)
}

// RectOutline adds a rectangle border of the given thickness.
func (b *Batch) RectOutline(x, y, w, h, thickness float32, c Color) {
	b.Rect(x, y, w, thickness, c)
	b.Rect(x, y+h-thickness, w, thickness, c)
	b.Rect(x, y+thickness, thickness, h-thickness*2, c)
	b.Rect(x+w-thickness, y+thickness, thickness, h-thickness*2, c)
}

// Panel adds a filled rectangle with a one pixel border.
func (b *Batch) Panel(x, y, w, h float32, bg, border Color) {
	b.Rect(x, y, w, h, bg)
	b.RectOutline(x, y, w, h, 1, border)
}

// DrawText adds a string. '\n' starts a new line at x.
func (b *Batch) DrawText(x, y float32, text string, scale float32, c Color) {
	cw := float32(b.atlas.GlyphW) * scale
	ch := float32(b.atlas.GlyphH) * scale

	cx := x
	for _, r := range text {
		if r == '\n' {
			cx = x
			y += ch
			continue
		}
		if r != ' ' {
			u0, v0, u1, v1 := b.atlas.GlyphUV(r)
			b.Text = append(b.Text,
				cx, y, 0, u0, v0, c.R, c.G, c.B, c.A,
				cx+cw, y, 0, u1, v0, c.R, c.G, c.B, c.A,
				cx+cw, y+ch, 0, u1, v1, c.R, c.G, c.B, c.A,
				cx, y, 0, u0, v0, c.R, c.G, c.B, c.A,
				cx+cw, y+ch, 0, u1, v1, c.R, c.G, c.B, c.A,
				cx, y+ch, 0, u0, v1, c.R, c.G, c.B, c.A,
			)
		}
		cx += cw
	}
}

// Measure returns the size of text at scale.
func (b *Batch) Measure(text string, scale float32) (w, h float32) {
	return b.atlas.Measure(text, scale)
}

// Empty reports whether nothing was added since the last Reset.
func (b *Batch) Empty() bool {
	return len(b.Solid) == 0 && len(b.Text) == 0
}

package ui2d

import "testing"

func TestAtlas(t *testing.T) {
	a := NewAtlas()
	if a.GlyphW != 7 || a.GlyphH != 13 {
		t.Fatalf("glyph = %dx%d, want 7x13", a.GlyphW, a.GlyphH)
	}
	b := a.Image.Bounds()
	if b.Dx() != atlasCols*7 || b.Dy() != 6*13 {
		t.Errorf("atlas = %dx%d", b.Dx(), b.Dy())
	}

	covered := func(r rune) int {
		u0, v0, u1, v1 := a.GlyphUV(r)
		x0, y0 := int(u0*float32(b.Dx())+0.5), int(v0*float32(b.Dy())+0.5)
		x1, y1 := int(u1*float32(b.Dx())+0.5), int(v1*float32(b.Dy())+0.5)
		n := 0
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				if a.Image.AlphaAt(x, y).A > 0 {
					n++
				}
			}
		}
		return n
	}
	if covered(' ') != 0 {
		t.Error("space glyph has coverage")
	}
	if covered('M') == 0 {
		t.Error("M glyph is empty")
	}
}

func TestGlyphUVFallback(t *testing.T) {
	a := NewAtlas()
	u0, v0, _, _ := a.GlyphUV('é')
	q0, w0, _, _ := a.GlyphUV('?')
	if u0 != q0 || v0 != w0 {
		t.Error("non-ASCII rune does not map to '?'")
	}
}

func TestMeasure(t *testing.T) {
	a := NewAtlas()
	w, h := a.Measure("abc\nde", 2)
	if w != 3*7*2 || h != 2*13*2 {
		t.Errorf("Measure = %vx%v, want 42x52", w, h)
	}
}

func TestBatch(t *testing.T) {
	b := NewBatch(NewAtlas())
	if !b.Empty() {
		t.Fatal("new batch not empty")
	}

	b.Panel(10, 10, 100, 50, ColorPanelBg, ColorPanelBorder)
	// fill plus four border strips, six vertices each
	if got := len(b.Solid) / SolidStride; got != 5*6 {
		t.Errorf("panel vertices = %d, want 30", got)
	}

	b.DrawText(0, 0, "a b\nc", 1, ColorText)
	// spaces and newlines emit nothing
	if got := len(b.Text) / TextStride; got != 3*6 {
		t.Errorf("text vertices = %d, want 18", got)
	}
	// 'c' starts the second line at x=0
	last := b.Text[len(b.Text)-TextStride:]
	if last[0] != 0 || last[1] != 2*13 {
		t.Errorf("last vertex at (%v, %v), want (0, 26)", last[0], last[1])
	}

	b.Reset()
	if !b.Empty() {
		t.Error("batch not empty after Reset")
	}
}

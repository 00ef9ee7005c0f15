package hud

import (
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	"github.com/Faultbox/midgard-cam/internal/engine/ui2d"
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

func testFrame() Frame {
	return Frame{
		Diag: camera.Diagnostics{
			Level:        1,
			Player:       pmath.Vec3{X: 100, Y: 0, Z: -1500},
			Mode:         camera.ModeNormal,
			IntendedMode: camera.ModeNormal,
			Yaw:          0x4000,
			Distance:     750,
			Region:       -1,
			Translucency: 255,
		},
		Settings: camera.DefaultSettings(),
		Selected: 2,
		FPS:      60,
		SimFrame: 90,
	}
}

func TestDiagnosticLines(t *testing.T) {
	text := strings.Join(DiagnosticLines(testFrame()), "\n")
	for _, want := range []string{
		"level 1 area 0",
		"frame 90",
		"player 100 0 -1500",
		"mode normal",
		"yaw 0x4000 (90.0 deg)",
		"distance 750  region none  alpha 255",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("diagnostics missing %q:\n%s", want, text)
		}
	}
}

func TestMenuRows(t *testing.T) {
	rows := MenuRows(camera.DefaultSettings(), 2)
	if len(rows) != len(camera.Options())+1 {
		t.Fatalf("rows = %d", len(rows))
	}

	tests := []struct {
		i        int
		label    string
		value    string
		selected bool
	}{
		{0, "sensitivity_x", "75", false},
		{2, "invert_x", "off", true},
		{len(rows) - 1, "analogue", "on", false},
	}
	for _, tt := range tests {
		r := rows[tt.i]
		if r.Label != tt.label || r.Value != tt.value || r.Selected != tt.selected {
			t.Errorf("row %d = %+v", tt.i, r)
		}
	}
	if !strings.HasPrefix(rows[2].String(), ">") {
		t.Errorf("selected row not marked: %q", rows[2].String())
	}
}

func TestMessageExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := New()
	h.now = func() time.Time { return now }

	if _, ok := h.ActiveMessage(); ok {
		t.Fatal("message before any was set")
	}
	h.Message("saved")
	if msg, ok := h.ActiveMessage(); !ok || msg != "saved" {
		t.Errorf("ActiveMessage = %q, %v", msg, ok)
	}
	now = now.Add(MessageDuration)
	if _, ok := h.ActiveMessage(); ok {
		t.Error("message still active after its duration")
	}
}

func TestLayout(t *testing.T) {
	b := ui2d.NewBatch(ui2d.NewAtlas())
	h := New()
	h.ShowDiagnostics = false
	h.Layout(b, testFrame(), 1280, 720)
	if !b.Empty() {
		t.Fatal("hidden HUD drew something")
	}

	h.ShowDiagnostics = true
	h.ShowMenu = true
	h.Layout(b, testFrame(), 1280, 720)
	if len(b.Solid) == 0 || len(b.Text) == 0 {
		t.Fatal("HUD drew nothing")
	}
	for i := 0; i < len(b.Solid); i += ui2d.SolidStride {
		x, y := b.Solid[i], b.Solid[i+1]
		if x < 0 || x > 1280 || y < 0 || y > 720 {
			t.Fatalf("vertex (%v, %v) off screen", x, y)
		}
	}
}

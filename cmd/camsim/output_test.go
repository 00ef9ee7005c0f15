package main

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	"github.com/Faultbox/midgard-cam/internal/game/sim"
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

func sample() sim.Sample {
	return sim.Sample{
		Frame:  12,
		Player: pmath.Vec3{X: 1, Y: 2, Z: 3},
		Action: camera.ActionIdle,
		Camera: camera.Pose{
			Position: pmath.Vec3{X: 0, Y: 400, Z: -750},
			Yaw:      0x4000,
		},
		Mode:         camera.ModeNormal,
		Distance:     750,
		Region:       -1,
		Translucency: 255,
		CollisionLen: 812.5,
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w := newCSVWriter(&buf)
	if err := w.Header(); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(sample()); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if len(rows[1]) != len(columns) {
		t.Fatalf("fields = %d, want %d", len(rows[1]), len(columns))
	}

	want := map[string]string{
		"frame":  "12",
		"cam_z":  "-750.0",
		"yaw":    "0x4000",
		"mode":   "normal",
		"region": "-1",
		"col":    "812.5",
	}
	for i, name := range rows[0] {
		if w, ok := want[name]; ok && rows[1][i] != w {
			t.Errorf("%s = %q, want %q", name, rows[1][i], w)
		}
	}
}

func TestTableWriter(t *testing.T) {
	var buf bytes.Buffer
	w := newTableWriter(&buf)
	w.Header()
	w.Write(sample())
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "frame") || !strings.Contains(lines[1], "normal") {
		t.Errorf("unexpected table:\n%s", buf.String())
	}
}

func TestRelativeTo(t *testing.T) {
	tests := []struct {
		script, level, want string
	}{
		{"scripts/walk.yaml", "", ""},
		{"scripts/walk.yaml", "testroom", "testroom"},
		{"scripts/walk.yaml", "ledge.yaml", "scripts/ledge.yaml"},
		{"scripts/walk.yaml", "/abs/ledge.yaml", "/abs/ledge.yaml"},
	}
	for _, tt := range tests {
		if got := relativeTo(tt.script, tt.level); got != tt.want {
			t.Errorf("relativeTo(%q, %q) = %q, want %q", tt.script, tt.level, got, tt.want)
		}
	}
}

func TestParseFloats(t *testing.T) {
	got, err := parseFloats([]string{"1", "-2.5", "3e2"})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 1 || got[1] != -2.5 || got[2] != 300 {
		t.Errorf("parseFloats = %v", got)
	}
	if _, err := parseFloats([]string{"x"}); err == nil {
		t.Error("want error for non-number")
	}
}

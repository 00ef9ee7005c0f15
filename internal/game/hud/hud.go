// Package hud lays out the viewer's on-screen text: camera diagnostics,
// the camera options menu and transient messages.
package hud

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	"github.com/Faultbox/midgard-cam/internal/engine/ui2d"
)

const (
	margin  = 8
	padding = 6
	scale   = 1
)

// MessageDuration is how long a message stays on screen.
const MessageDuration = 2 * time.Second

// Frame is the state shown for one rendered frame.
type Frame struct {
	Diag     camera.Diagnostics
	Settings camera.Settings
	Selected int // index into camera.Options
	FPS      int
	SimFrame uint64
}

// HUD holds the visibility toggles and the current message.
type HUD struct {
	ShowDiagnostics bool
	ShowMenu        bool

	message string
	until   time.Time
	now     func() time.Time
}

// New creates a HUD with diagnostics visible.
func New() *HUD {
	return &HUD{ShowDiagnostics: true, now: time.Now}
}

// Message shows msg for MessageDuration.
func (h *HUD) Message(msg string) {
	h.message = msg
	h.until = h.now().Add(MessageDuration)
}

// ActiveMessage returns the message still on screen, if any.
func (h *HUD) ActiveMessage() (string, bool) {
	if h.message == "" || !h.now().Before(h.until) {
		return "", false
	}
	return h.message, true
}

// Layout adds this frame's panels to b for a screen of the given size.
func (h *HUD) Layout(b *ui2d.Batch, f Frame, width, height float32) {
	if h.ShowDiagnostics {
		panel(b, margin, margin, DiagnosticLines(f), ui2d.ColorText)
	}
	if h.ShowMenu {
		rows := MenuRows(f.Settings, f.Selected)
		w, _ := b.Measure(longest(rows), scale)
		x := width - w - 2*padding - margin
		lh := float32(b.Atlas().GlyphH) * scale
		b.Panel(x, margin, w+2*padding, float32(len(rows))*lh+2*padding, ui2d.ColorPanelBg, ui2d.ColorPanelBorder)
		for i, r := range rows {
			c := ui2d.ColorTextDim
			if r.Selected {
				c = ui2d.ColorHighlight
			}
			b.DrawText(x+padding, margin+padding+float32(i)*lh, r.String(), scale, c)
		}
	}
	if msg, ok := h.ActiveMessage(); ok {
		w, lh := b.Measure(msg, scale)
		x := (width - w) / 2
		y := height - lh - 2*padding - margin
		panel(b, x-padding, y, []string{msg}, ui2d.ColorOK)
	}
}

func panel(b *ui2d.Batch, x, y float32, lines []string, c ui2d.Color) {
	text := strings.Join(lines, "\n")
	w, h := b.Measure(text, scale)
	b.Panel(x, y, w+2*padding, h+2*padding, ui2d.ColorPanelBg, ui2d.ColorPanelBorder)
	b.DrawText(x+padding, y+padding, text, scale, c)
}

// DiagnosticLines formats the diagnostics panel.
func DiagnosticLines(f Frame) []string {
	d := f.Diag
	region := "none"
	if d.Region >= 0 {
		region = strconv.Itoa(d.Region)
	}
	return []string{
		fmt.Sprintf("level %d area %d  frame %d  %d fps", d.Level, d.Area, f.SimFrame, f.FPS),
		fmt.Sprintf("player %.0f %.0f %.0f", d.Player.X, d.Player.Y, d.Player.Z),
		fmt.Sprintf("mode %s (intended %s)", d.Mode, d.IntendedMode),
		fmt.Sprintf("yaw %#04x (%.1f deg)  tilt %#04x (%.1f deg)", uint16(d.Yaw), d.Yaw.Degrees(), uint16(d.Tilt), d.Tilt.Degrees()),
		fmt.Sprintf("accel yaw %.1f tilt %.1f", d.YawAccel, d.TiltAccel),
		fmt.Sprintf("distance %d  region %s  alpha %d", d.Distance, region, d.Translucency),
	}
}

// MenuRow is one line of the options menu.
type MenuRow struct {
	Label    string
	Value    string
	Selected bool
}

func (r MenuRow) String() string {
	mark := " "
	if r.Selected {
		mark = ">"
	}
	return fmt.Sprintf("%s %-14s %s", mark, r.Label, r.Value)
}

// MenuRows lists every camera option with its current value.
func MenuRows(s camera.Settings, selected int) []MenuRow {
	opts := camera.Options()
	rows := make([]MenuRow, 0, len(opts)+1)
	for i, o := range opts {
		v := strconv.Itoa(s.Get(o))
		if o.Toggle() {
			v = onOff(s.Get(o) != 0)
		}
		rows = append(rows, MenuRow{Label: o.String(), Value: v, Selected: i == selected})
	}
	rows = append(rows, MenuRow{Label: "analogue", Value: onOff(s.Analogue)})
	return rows
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func longest(rows []MenuRow) string {
	l := ""
	for _, r := range rows {
		if s := r.String(); len(s) > len(l) {
			l = s
		}
	}
	return l
}

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/Faultbox/midgard-cam/internal/game/sim"
)

// sampleWriter prints one row per simulation sample.
type sampleWriter interface {
	Header() error
	Write(s sim.Sample) error
	Flush() error
}

var columns = []string{
	"frame", "action",
	"player_x", "player_y", "player_z",
	"cam_x", "cam_y", "cam_z", "yaw",
	"mode", "dist", "region", "xlu", "col",
}

func fields(s sim.Sample) []string {
	f := func(v float32) string { return strconv.FormatFloat(float64(v), 'f', 1, 32) }
	return []string{
		strconv.FormatUint(s.Frame, 10),
		s.Action.String(),
		f(s.Player.X), f(s.Player.Y), f(s.Player.Z),
		f(s.Camera.Position.X), f(s.Camera.Position.Y), f(s.Camera.Position.Z),
		fmt.Sprintf("%#04x", uint16(s.Camera.Yaw)),
		s.Mode.String(),
		strconv.Itoa(s.Distance),
		strconv.Itoa(s.Region),
		strconv.Itoa(int(s.Translucency)),
		f(s.CollisionLen),
	}
}

type tableWriter struct {
	tw *tabwriter.Writer
}

func newTableWriter(w io.Writer) *tableWriter {
	return &tableWriter{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)}
}

func (t *tableWriter) Header() error { return t.row(columns) }

func (t *tableWriter) Write(s sim.Sample) error { return t.row(fields(s)) }

func (t *tableWriter) row(cells []string) error {
	for _, c := range cells {
		if _, err := io.WriteString(t.tw, c+"\t"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(t.tw, "\n")
	return err
}

func (t *tableWriter) Flush() error { return t.tw.Flush() }

type csvWriter struct {
	w *csv.Writer
}

func newCSVWriter(w io.Writer) *csvWriter {
	return &csvWriter{w: csv.NewWriter(w)}
}

func (c *csvWriter) Header() error { return c.w.Write(columns) }

func (c *csvWriter) Write(s sim.Sample) error { return c.w.Write(fields(s)) }

func (c *csvWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

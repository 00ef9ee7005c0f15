// camsim runs the camera headless: it plays input scripts and casts
// single collision rays against level files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/Faultbox/midgard-cam/internal/engine/collision"
	"github.com/Faultbox/midgard-cam/internal/game/sim"
	"github.com/Faultbox/midgard-cam/internal/game/world"
	"github.com/Faultbox/midgard-cam/internal/logger"
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		cmdRun(args)
	case "cast":
		cmdCast(args)
	case "info":
		cmdInfo(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`camsim - headless camera simulator

Usage:
  camsim <command> [options]

Commands:
  run <script.yaml>                    Play an input script and print camera samples
  cast <level> <x y z> <dx dy dz>      Cast one collision ray
  info <level>                         Show level surfaces and camera regions

<level> is a level file path, or "testroom" for the built-in room.

Examples:
  camsim run -every 10 walk.yaml
  camsim run -csv -level ledge.yaml zoom.yaml > zoom.csv
  camsim cast -exhaustive testroom 0 160 0 0 0 -3000
  camsim info ledge.yaml`)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	levelPath := fs.String("level", "", "Level file, overriding the script's")
	asCSV := fs.Bool("csv", false, "Write CSV instead of a table")
	every := fs.Int("every", 1, "Print every Nth frame")
	exhaustive := fs.Bool("exhaustive", false, "Test every cell the camera ray crosses")
	noCollision := fs.Bool("no-collision", false, "Run the camera without collision")
	verbose := fs.Bool("v", false, "Log camera events to stderr")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: camsim run [options] <script.yaml>")
		os.Exit(1)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		fail(err)
	}
	defer logger.Sync()

	scriptPath := fs.Arg(0)
	script, err := sim.LoadScript(scriptPath)
	if err != nil {
		fail(err)
	}

	path := script.Level
	if *levelPath != "" {
		path = *levelPath
	} else {
		path = relativeTo(scriptPath, path)
	}
	mode := script.Traversal
	if *exhaustive {
		mode = collision.Exhaustive
	}

	w, err := world.NewManager(mode).LoadLevel(path)
	if err != nil {
		fail(err)
	}
	sess := sim.NewSession(w, sim.Options{
		Settings:    script.Settings,
		Logger:      logger.Log,
		NoCollision: *noCollision,
	})

	var out sampleWriter
	if *asCSV {
		out = newCSVWriter(os.Stdout)
	} else {
		out = newTableWriter(os.Stdout)
	}
	if err := out.Header(); err != nil {
		fail(err)
	}

	n := max(*every, 1)
	var last sim.Sample
	err = script.Run(sess, func(s sim.Sample) {
		last = s
		if s.Frame%uint64(n) == 0 {
			if werr := out.Write(s); werr != nil {
				fail(werr)
			}
		}
	})
	if err != nil {
		fail(err)
	}
	if last.Frame%uint64(n) != 0 {
		if err := out.Write(last); err != nil {
			fail(err)
		}
	}
	if err := out.Flush(); err != nil {
		fail(err)
	}
}

// relativeTo resolves a level path named by a script against the
// script's directory.
func relativeTo(scriptPath, levelPath string) string {
	if levelPath == "" || levelPath == world.BuiltinLevel || filepath.IsAbs(levelPath) {
		return levelPath
	}
	return filepath.Join(filepath.Dir(scriptPath), levelPath)
}

func cmdCast(args []string) {
	fs := flag.NewFlagSet("cast", flag.ExitOnError)
	exhaustive := fs.Bool("exhaustive", false, "Test every cell the ray crosses")
	fs.Parse(args)

	if fs.NArg() < 7 {
		fmt.Fprintln(os.Stderr, "Usage: camsim cast [-exhaustive] <level> <x y z> <dx dy dz>")
		os.Exit(1)
	}

	nums, err := parseFloats(fs.Args()[1:7])
	if err != nil {
		fail(err)
	}
	origin := pmath.Vec3{X: nums[0], Y: nums[1], Z: nums[2]}
	dir := pmath.Vec3{X: nums[3], Y: nums[4], Z: nums[5]}

	mode := collision.FirstHit
	if *exhaustive {
		mode = collision.Exhaustive
	}
	w, err := world.NewManager(mode).LoadLevel(fs.Arg(0))
	if err != nil {
		fail(err)
	}

	hit := w.Caster.CastRay(origin, dir)
	fmt.Printf("Origin:    %s\n", formatVec(origin))
	fmt.Printf("Direction: %s\n", formatVec(dir))
	fmt.Printf("Traversal: %s\n", mode)
	if !hit.OK() {
		fmt.Println("Result:    no hit")
		return
	}
	s := hit.Surface
	fmt.Printf("Result:    hit %s surface %d\n", s.Kind, s.ID)
	fmt.Printf("Position:  %s\n", formatVec(hit.Position))
	fmt.Printf("Length:    %.2f\n", hit.Length)
	fmt.Printf("Normal:    %s\n", formatVec(s.Normal))
}

func parseFloats(args []string) ([]float32, error) {
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func formatVec(v pmath.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: camsim info <level>")
		os.Exit(1)
	}

	w, err := world.NewManager(collision.FirstHit).LoadLevel(args[0])
	if err != nil {
		fail(err)
	}
	l := w.Level

	kinds := make(map[collision.Kind]int)
	for _, s := range w.Surfaces() {
		kinds[s.Kind]++
	}
	static, dynamic := w.Grid.Count()

	fmt.Printf("Level:    %s (id %d, area %d)\n", l.Name, l.ID, l.Area)
	fmt.Printf("Start:    %s yaw %#04x\n", formatVec(l.Start.Position), uint16(l.Start.Yaw))
	fmt.Printf("Preset:   %d\n", l.Preset)
	fmt.Printf("Surfaces: %d floors, %d ceilings, %d walls\n",
		kinds[collision.KindFloor], kinds[collision.KindCeiling], kinds[collision.KindWall])
	fmt.Printf("Filed:    %d static, %d dynamic cell entries\n", static, dynamic)
	fmt.Printf("Movers:   %d\n", len(l.Movers))
	fmt.Println()

	regions := w.Regions.Regions(l.ID, l.Area)
	if len(regions) == 0 {
		fmt.Println("No camera regions.")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tMODE\tMIN\tMAX\tCALLBACK")
	for _, r := range regions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Name, r.Mode, formatVec(r.Box.Min), formatVec(r.Box.Max), r.Callback)
	}
	tw.Flush()
}

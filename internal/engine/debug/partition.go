package debug

import (
	"github.com/Faultbox/midgard-cam/internal/engine/collision"
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

// PartitionLines returns the cell boundaries of the collision grid as
// lines at height y.
func PartitionLines(y float32) []Vertex {
	const edge = float32(collision.LevelBoundary)
	out := make([]Vertex, 0, (collision.CellCount+1)*4)
	for i := 0; i <= collision.CellCount; i++ {
		w := float32(i*collision.CellSize) - edge
		out = append(out,
			vtx(pmath.Vec3{X: w, Y: y, Z: -edge}, ColorGrid),
			vtx(pmath.Vec3{X: w, Y: y, Z: edge}, ColorGrid),
			vtx(pmath.Vec3{X: -edge, Y: y, Z: w}, ColorGrid),
			vtx(pmath.Vec3{X: edge, Y: y, Z: w}, ColorGrid),
		)
	}
	return out
}

// CellOccupancy counts the surfaces registered in one cell, static and
// dynamic combined.
func CellOccupancy(g *collision.Grid, cellX, cellZ int) int {
	n := 0
	for _, kind := range []collision.Kind{collision.KindFloor, collision.KindCeiling, collision.KindWall} {
		n += len(g.Surfaces(cellX, cellZ, kind, false))
		n += len(g.Surfaces(cellX, cellZ, kind, true))
	}
	return n
}

// OccupancyOverlay returns two triangles per non-empty cell at height y,
// shaded from green to red by surface count relative to the fullest cell.
func OccupancyOverlay(g *collision.Grid, y float32) []Vertex {
	var counts [collision.CellCount][collision.CellCount]int
	most := 0
	for z := 0; z < collision.CellCount; z++ {
		for x := 0; x < collision.CellCount; x++ {
			counts[z][x] = CellOccupancy(g, x, z)
			most = max(most, counts[z][x])
		}
	}
	if most == 0 {
		return nil
	}

	var out []Vertex
	for z := 0; z < collision.CellCount; z++ {
		for x := 0; x < collision.CellCount; x++ {
			n := counts[z][x]
			if n == 0 {
				continue
			}
			heat := float32(n) / float32(most)
			c := Color{heat, 1 - heat, 0.1}

			x0 := float32(x*collision.CellSize - collision.LevelBoundary)
			z0 := float32(z*collision.CellSize - collision.LevelBoundary)
			x1 := x0 + collision.CellSize
			z1 := z0 + collision.CellSize

			out = append(out,
				vtx(pmath.Vec3{X: x0, Y: y, Z: z0}, c),
				vtx(pmath.Vec3{X: x1, Y: y, Z: z0}, c),
				vtx(pmath.Vec3{X: x1, Y: y, Z: z1}, c),
				vtx(pmath.Vec3{X: x0, Y: y, Z: z0}, c),
				vtx(pmath.Vec3{X: x1, Y: y, Z: z1}, c),
				vtx(pmath.Vec3{X: x0, Y: y, Z: z1}, c),
			)
		}
	}
	return out
}

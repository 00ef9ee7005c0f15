package collision

import (
	gomath "math"
)

// Partition geometry. The grid covers [-LevelBoundary, LevelBoundary)
// on X and Z.
const (
	CellCount     = 16
	CellSize      = 1024
	LevelBoundary = 8192
)

// Partition is the read-only view the ray caster needs of a surface
// database. Out-of-range cells return nil.
type Partition interface {
	Surfaces(cellX, cellZ int, kind Kind, dynamic bool) []*Surface
}

// cell holds the six surface lists: {static, dynamic} × {floor, ceiling, wall}.
type cell struct {
	lists [2][kindCount][]*Surface
}

// Grid is a uniform 16×16 partition of surfaces over the level's
// horizontal extent.
type Grid struct {
	cells [CellCount][CellCount]cell // [z][x]
	count [2]int
}

// NewGrid creates an empty grid.
func NewGrid() *Grid {
	return &Grid{}
}

// CellIndex maps a world coordinate to its cell index. The result may be
// outside [0, CellCount).
func CellIndex(coord float32) int {
	return int(gomath.Floor(float64((coord + LevelBoundary) / CellSize)))
}

// InBounds reports whether a cell index pair lies inside the grid.
func InBounds(cellX, cellZ int) bool {
	return cellX >= 0 && cellX < CellCount && cellZ >= 0 && cellZ < CellCount
}

// Add files s into every cell its horizontal bounds overlap. Surfaces
// entirely outside the grid are dropped; it reports whether s was filed.
func (g *Grid) Add(s *Surface, dynamic bool) bool {
	minX, minZ, maxX, maxZ := s.boundsXZ()
	x0, x1 := CellIndex(minX), CellIndex(maxX)
	z0, z1 := CellIndex(minZ), CellIndex(maxZ)
	if x1 < 0 || z1 < 0 || x0 >= CellCount || z0 >= CellCount {
		return false
	}
	x0, x1 = max(x0, 0), min(x1, CellCount-1)
	z0, z1 = max(z0, 0), min(z1, CellCount-1)

	set := setIndex(dynamic)
	for z := z0; z <= z1; z++ {
		for x := x0; x <= x1; x++ {
			c := &g.cells[z][x]
			c.lists[set][s.Kind] = append(c.lists[set][s.Kind], s)
		}
	}
	g.count[set]++
	return true
}

// ClearDynamic drops every dynamic surface, keeping static geometry.
func (g *Grid) ClearDynamic() {
	for z := range g.cells {
		for x := range g.cells[z] {
			for k := range g.cells[z][x].lists[1] {
				g.cells[z][x].lists[1][k] = nil
			}
		}
	}
	g.count[1] = 0
}

// Surfaces returns the list filed under the given cell, kind and set.
func (g *Grid) Surfaces(cellX, cellZ int, kind Kind, dynamic bool) []*Surface {
	if !InBounds(cellX, cellZ) || kind >= kindCount {
		return nil
	}
	return g.cells[cellZ][cellX].lists[setIndex(dynamic)][kind]
}

// Count returns the number of static and dynamic surfaces added.
func (g *Grid) Count() (static, dynamic int) {
	return g.count[0], g.count[1]
}

func setIndex(dynamic bool) int {
	if dynamic {
		return 1
	}
	return 0
}

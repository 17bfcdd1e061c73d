// Package spatial indexes entities by position in a uniform cell grid so
// proximity queries only look at nearby cells.
package spatial

import (
	"cmp"
	"math"
	"slices"

	"github.com/l1jgo/scenecore/internal/core/ecs"
)

type cellKey struct {
	cx, cy int32
}

type placement struct {
	cell cellKey
	x, y float64
}

// Grid tracks which entities are in which cells. Accessed only from the game
// loop goroutine, no locks.
type Grid struct {
	cellSize float64
	cells    map[cellKey]map[ecs.Entity]struct{}
	where    map[ecs.Entity]placement
}

// NewGrid creates a grid with square cells of the given size. Sizes <= 0 fall
// back to 32.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 32
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[ecs.Entity]struct{}),
		where:    make(map[ecs.Entity]placement),
	}
}

func (g *Grid) key(x, y float64) cellKey {
	return cellKey{cx: int32(math.Floor(x / g.cellSize)), cy: int32(math.Floor(y / g.cellSize))}
}

// Place puts e at (x, y), moving it if it is already in the grid.
func (g *Grid) Place(e ecs.Entity, x, y float64) {
	k := g.key(x, y)
	if old, ok := g.where[e]; ok && old.cell != k {
		g.unlink(e, old.cell)
	}
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[ecs.Entity]struct{})
		g.cells[k] = cell
	}
	cell[e] = struct{}{}
	g.where[e] = placement{cell: k, x: x, y: y}
}

// Remove takes e out of the grid. Unknown entities are ignored.
func (g *Grid) Remove(e ecs.Entity) {
	p, ok := g.where[e]
	if !ok {
		return
	}
	g.unlink(e, p.cell)
	delete(g.where, e)
}

func (g *Grid) unlink(e ecs.Entity, k cellKey) {
	cell := g.cells[k]
	if cell == nil {
		return
	}
	delete(cell, e)
	if len(cell) == 0 {
		delete(g.cells, k)
	}
}

// Position returns where e was last placed.
func (g *Grid) Position(e ecs.Entity) (x, y float64, ok bool) {
	p, ok := g.where[e]
	return p.x, p.y, ok
}

// Len returns the number of indexed entities.
func (g *Grid) Len() int { return len(g.where) }

// Nearby returns the entities within radius of (x, y), ordered by id. A NaN
// argument or a negative radius finds nothing; an infinite radius finds
// every entity.
func (g *Grid) Nearby(x, y, radius float64) []ecs.Entity {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsNaN(radius) || radius < 0 {
		return nil
	}
	r2 := radius * radius
	within := func(p placement) bool {
		dx, dy := p.x-x, p.y-y
		return dx*dx+dy*dy <= r2
	}

	var result []ecs.Entity
	if lo, hi, ok := g.span(x, y, radius); ok {
		for cx := lo.cx; cx <= hi.cx; cx++ {
			for cy := lo.cy; cy <= hi.cy; cy++ {
				for e := range g.cells[cellKey{cx: cx, cy: cy}] {
					if within(g.where[e]) {
						result = append(result, e)
					}
				}
			}
		}
	} else {
		for e, p := range g.where {
			if within(p) {
				result = append(result, e)
			}
		}
	}
	slices.SortFunc(result, func(a, b ecs.Entity) int { return cmp.Compare(a.ID, b.ID) })
	return result
}

// span returns the cell range covering the query square. It reports false
// when the range does not fit in cell coordinates or holds more cells than
// there are entities, in which case a full scan is cheaper.
func (g *Grid) span(x, y, radius float64) (lo, hi cellKey, ok bool) {
	x0, x1 := math.Floor((x-radius)/g.cellSize), math.Floor((x+radius)/g.cellSize)
	y0, y1 := math.Floor((y-radius)/g.cellSize), math.Floor((y+radius)/g.cellSize)
	for _, v := range [...]float64{x0, x1, y0, y1} {
		if math.IsInf(v, 0) || math.IsNaN(v) || v < math.MinInt32 || v >= math.MaxInt32 {
			return lo, hi, false
		}
	}
	if (x1-x0+1)*(y1-y0+1) > float64(len(g.where)) {
		return lo, hi, false
	}
	return cellKey{cx: int32(x0), cy: int32(y0)}, cellKey{cx: int32(x1), cy: int32(y1)}, true
}

// Package density bins normalized trajectory points into a square grid of
// visit counts.
package density

import (
	"fmt"
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/geom"
)

// Grid is a Size x Size histogram stored row-major (index y*Size + x).
// Max is the largest cell count.
type Grid struct {
	Size  int
	Cells []int
	Max   int
}

func NewGrid(size int) *Grid {
	return &Grid{
		Size:  size,
		Cells: make([]int, size*size),
	}
}

func (g *Grid) At(x, y int) int {
	return g.Cells[y*g.Size+x]
}

// Add increments cell (x, y) and returns its new count.
func (g *Grid) Add(x, y int) int {
	i := y*g.Size + x
	g.Cells[i]++
	if g.Cells[i] > g.Max {
		g.Max = g.Cells[i]
	}
	return g.Cells[i]
}

// Total is the sum of all cells.
func (g *Grid) Total() int {
	sum := 0
	for _, c := range g.Cells {
		sum += c
	}
	return sum
}

// Visited counts cells with at least one visit.
func (g *Grid) Visited() int {
	n := 0
	for _, c := range g.Cells {
		if c > 0 {
			n++
		}
	}
	return n
}

// ColumnSums returns, for each x, the total count in that column.
func (g *Grid) ColumnSums() []float64 {
	sums := make([]float64, g.Size)
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			sums[x] += float64(g.At(x, y))
		}
	}
	return sums
}

// RowSums returns, for each y, the total count in that row.
func (g *Grid) RowSums() []float64 {
	sums := make([]float64, g.Size)
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			sums[y] += float64(g.At(x, y))
		}
	}
	return sums
}

// CellIndex floors a normalized coordinate to a cell index in [0, size-1].
// NaN, Inf and anything flooring outside the grid yield ErrCellOutOfRange.
func CellIndex(v float64, size int) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", dynamo.ErrCellOutOfRange, v)
	}
	f := math.Floor(v)
	if f < 0 || f > float64(size-1) {
		return 0, fmt.Errorf("%w: %v floors to %v, want [0, %d]", dynamo.ErrCellOutOfRange, v, f, size-1)
	}
	return int(f), nil
}

// Accumulate bins the x and y of every point and returns the grid together
// with its maximum. Z is ignored.
func Accumulate(points []geom.Point, size int) (*Grid, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: grid size must be at least 1, got %d", dynamo.ErrParameterBounds, size)
	}
	g := NewGrid(size)
	for i, p := range points {
		x, err := CellIndex(p.X, size)
		if err != nil {
			return nil, fmt.Errorf("point %d x: %w", i, err)
		}
		y, err := CellIndex(p.Y, size)
		if err != nil {
			return nil, fmt.Errorf("point %d y: %w", i, err)
		}
		g.Add(x, y)
	}
	return g, nil
}

// FromRows builds a grid from rows of counts, rows[y][x]. Every row must
// have len(rows) entries.
func FromRows(rows [][]int) (*Grid, error) {
	g := NewGrid(len(rows))
	for y, row := range rows {
		if len(row) != g.Size {
			return nil, fmt.Errorf("row %d has %d cells, want %d", y, len(row), g.Size)
		}
		for x, c := range row {
			if c < 0 {
				return nil, fmt.Errorf("row %d col %d: negative count %d", y, x, c)
			}
			g.Cells[y*g.Size+x] = c
			if c > g.Max {
				g.Max = c
			}
		}
	}
	return g, nil
}

// Package geom holds the point, bounding box and normalization types used
// between integration and rasterization.
package geom

import (
	"fmt"

	"github.com/san-kum/attractor/internal/dynamo"
)

// Point is a position in Lorenz state space or, after normalization, in
// pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// FromState reads the first three components of s.
func FromState(s dynamo.State) Point {
	return Point{s[0], s[1], s[2]}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Bounds is an axis-aligned box given by its component-wise minimum and maximum.
type Bounds struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// NewBounds returns the box containing only p.
func NewBounds(p Point) Bounds {
	return Bounds{Min: p, Max: p}
}

// Expand returns b grown to contain p. A NaN coordinate never replaces a
// bound, since every comparison with it is false.
func Expand(b Bounds, p Point) Bounds {
	return Bounds{
		Min: Point{lower(b.Min.X, p.X), lower(b.Min.Y, p.Y), lower(b.Min.Z, p.Z)},
		Max: Point{upper(b.Max.X, p.X), upper(b.Max.Y, p.Y), upper(b.Max.Z, p.Z)},
	}
}

func lower(cur, v float64) float64 {
	if v < cur {
		return v
	}
	return cur
}

func upper(cur, v float64) float64 {
	if v > cur {
		return v
	}
	return cur
}

// Extent is Max - Min per axis.
func (b Bounds) Extent() Point {
	return Point{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z}
}

// Degenerate reports whether any axis has zero extent.
func (b Bounds) Degenerate() bool {
	return b.Min.X == b.Max.X || b.Min.Y == b.Max.Y || b.Min.Z == b.Max.Z
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%v .. %v]", b.Min, b.Max)
}

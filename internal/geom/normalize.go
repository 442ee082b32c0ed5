package geom

import "math"

// Translate maps p from b into the cube [0, size-1]^3.
//
// An axis whose extent is exactly zero maps every finite point to the
// middle of the range instead of dividing by zero. Non-finite extents and
// coordinates are left alone and produce NaN or Inf coordinates.
func (b Bounds) Translate(p Point, size int) Point {
	s := float64(size - 1)
	return Point{
		X: relative(p.X, b.Min.X, b.Max.X) * s,
		Y: relative(p.Y, b.Min.Y, b.Max.Y) * s,
		Z: relative(p.Z, b.Min.Z, b.Max.Z) * s,
	}
}

func relative(v, lo, hi float64) float64 {
	if hi == lo && !math.IsInf(hi, 0) && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}

// Normalize translates every point into a new slice; points is not modified.
func Normalize(points []Point, b Bounds, size int) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = b.Translate(p, size)
	}
	return out
}

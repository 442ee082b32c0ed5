// Package colormap turns visit counts into a green-to-blue heat map.
//
// A visited cell's position on the gradient is the fourth root of its count
// relative to the busiest cell, which lifts sparse regions into view. Both
// channels are floored at 55 so any visited cell stays distinguishable from
// the black background.
package colormap

import (
	"image"
	"image/color"
	"math"

	"github.com/san-kum/attractor/internal/density"
)

const (
	channelFloor = 55
	channelSpan  = 200
)

var Background = color.RGBA{0, 0, 0, 255}

// Position returns sqrt(sqrt(count/max)), or 0 for an unvisited cell.
func Position(count, max int) float64 {
	if count <= 0 || max <= 0 {
		return 0
	}
	return math.Sqrt(math.Sqrt(float64(count) / float64(max)))
}

// Shade is the opaque color for a cell visited count times out of max.
func Shade(count, max int) color.RGBA {
	if count <= 0 || max <= 0 {
		return Background
	}
	pos := Position(count, max)
	blue := int(math.Floor(pos*channelSpan)) + channelFloor
	green := int(math.Floor((1-pos)*channelSpan)) + channelFloor
	return color.RGBA{R: 0, G: uint8(green), B: uint8(blue), A: 255}
}

// Pack returns c as a 24-bit 0xRRGGBB value.
func Pack(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Render paints one pixel per grid cell; pixel (x, y) is cell (x, y).
func Render(g *density.Grid) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Size, g.Size))
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			img.SetRGBA(x, y, Shade(g.At(x, y), g.Max))
		}
	}
	return img
}

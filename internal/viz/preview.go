package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/attractor/internal/colormap"
	"github.com/san-kum/attractor/internal/density"
)

// PlotGrid lights one dot for every visited cell, scaling the grid onto the
// canvas. It returns, per character, the densest cell mapped into it.
func PlotGrid(c *Canvas, g *density.Grid) [][]int {
	peak := make([][]int, c.Height)
	for i := range peak {
		peak[i] = make([]int, c.Width)
	}
	sw, sh := c.SubWidth(), c.SubHeight()
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			n := g.At(x, y)
			if n == 0 {
				continue
			}
			dx := x * sw / g.Size
			dy := y * sh / g.Size
			c.Set(dx, dy)
			if n > peak[dy/4][dx/2] {
				peak[dy/4][dx/2] = n
			}
		}
	}
	return peak
}

// Preview draws g as braille art cols characters wide, each character
// tinted with the heat-map color of its densest cell.
func Preview(g *density.Grid, cols int) string {
	if cols < 1 {
		cols = 1
	}
	rows := (cols*2 + 3) / 4
	c := NewCanvas(cols, rows)
	peak := PlotGrid(c, g)

	var b strings.Builder
	for r, line := range c.Grid {
		for col, ch := range line {
			if peak[r][col] == 0 {
				b.WriteRune(ch)
				continue
			}
			b.WriteString(heatStyle(peak[r][col], g.Max).Render(string(ch)))
		}
		b.WriteRune('\n')
	}
	return b.String()
}

// heatStyle colors text like a density cell holding count of max visits.
func heatStyle(count, max int) lipgloss.Style {
	shade := colormap.Shade(count, max)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%06x", colormap.Pack(shade))))
}

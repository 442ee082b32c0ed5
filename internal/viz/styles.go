package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/density"
	"github.com/san-kum/attractor/internal/geom"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))
)

// Summary lists the parameters and grid statistics of one render.
func Summary(p config.Params, g *density.Grid, b geom.Bounds, elapsed time.Duration) string {
	rows := [][2]string{
		{"sigma", fmt.Sprintf("%g", p.Sigma)},
		{"rho", fmt.Sprintf("%g", p.Rho)},
		{"beta", fmt.Sprintf("%g", p.Beta)},
		{"dt", fmt.Sprintf("%g", p.Dt)},
		{"iterations", fmt.Sprintf("%d", p.Iterations)},
		{"size", fmt.Sprintf("%dx%d", p.ResultSize, p.ResultSize)},
		{"bounds", b.String()},
		{"max count", fmt.Sprintf("%d", g.Max)},
		{"visited", fmt.Sprintf("%d / %d cells", g.Visited(), g.Size*g.Size)},
		{"elapsed", elapsed.Round(time.Microsecond).String()},
	}

	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("lorenz density"))
	sb.WriteString("\n")
	for _, r := range rows {
		sb.WriteString(MetricLabel.Render(fmt.Sprintf("%-11s", r[0])))
		sb.WriteString(" ")
		sb.WriteString(MetricValue.Render(r[1]))
		sb.WriteString("\n")
	}
	sb.WriteString(MetricLabel.Render(fmt.Sprintf("%-11s", "columns")))
	sb.WriteString(" ")
	sb.WriteString(Marginal(g.ColumnSums(), 40))
	sb.WriteString("\n")
	return sb.String()
}

var sparkBars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Marginal draws visit counts as a bar strip width characters wide. Adjacent
// values are summed into buckets the way grid cells share a character, and
// every bar takes the heat-map color of its bucket.
func Marginal(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return strings.Repeat("─", max(width, 0))
	}
	if width > len(values) {
		width = len(values)
	}

	buckets := make([]float64, width)
	for i, v := range values {
		buckets[i*width/len(values)] += v
	}
	peak := 0.0
	for _, b := range buckets {
		peak = math.Max(peak, b)
	}

	var sb strings.Builder
	for _, b := range buckets {
		if b <= 0 || peak == 0 {
			sb.WriteRune(' ')
			continue
		}
		idx := int(b / peak * float64(len(sparkBars)-1))
		style := heatStyle(int(math.Round(b)), int(math.Round(peak)))
		sb.WriteString(style.Render(string(sparkBars[idx])))
	}
	return sb.String()
}

// Separator is a muted horizontal rule.
func Separator(width int) string {
	return Subtle.Render(strings.Repeat("─", width))
}

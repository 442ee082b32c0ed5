// Package viz renders density grids and run summaries for the terminal.
//
//   - [Canvas]: Braille-based pixel canvas, 2x4 dots per character
//   - [Preview]: a density grid drawn on a Canvas, tinted with the heat map
//   - [Summary]: lipgloss-styled parameters and grid statistics
package viz

package export

import (
	"bufio"
	"fmt"
	"image"
	"io"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// EncodeSVG writes img as an SVG document: a black background and one unit
// square per non-black pixel.
func EncodeSVG(w io.Writer, img image.Image) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">
<rect width="100%%" height="100%%" fill="#000000"/>
`, b.Dx(), b.Dy(), b.Dx(), b.Dy())

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			if c.R == 0 && c.G == 0 && c.B == 0 {
				continue
			}
			fmt.Fprintf(bw, `<rect x="%d" y="%d" width="1" height="1" fill="%s"/>
`, x-b.Min.X, y-b.Min.Y, c.Hex())
		}
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

// Package export encodes rendered images and writes them to disk.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

type Format string

const (
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
)

// Sink persists a finished image.
type Sink interface {
	Write(img image.Image) error
}

// ParseFormat accepts a format name, with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "bmp":
		return FormatBMP, nil
	default:
		return "", fmt.Errorf("unsupported image format %q (available: png, svg, tiff, bmp)", s)
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("cannot infer image format: %q has no extension", path)
	}
	return ParseFormat(ext)
}

func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatSVG:
		return EncodeSVG(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported image format %q", f)
	}
}

// FileSink writes to Path in Format, upscaled by Scale when Scale > 1.
// The file is only created once encoding has succeeded.
type FileSink struct {
	Path   string
	Format Format
	Scale  int
}

// NewFileSink builds a sink for path. An empty format is inferred from the
// extension.
func NewFileSink(path, format string, scale int) (*FileSink, error) {
	var (
		f   Format
		err error
	)
	if format == "" {
		f, err = FormatFromPath(path)
	} else {
		f, err = ParseFormat(format)
	}
	if err != nil {
		return nil, err
	}
	if scale < 1 {
		return nil, fmt.Errorf("scale must be at least 1, got %d", scale)
	}
	return &FileSink{Path: path, Format: f, Scale: scale}, nil
}

func (s *FileSink) Write(img image.Image) error {
	if s.Scale > 1 {
		img = Scale(img, s.Scale)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, s.Format); err != nil {
		return fmt.Errorf("encoding %s: %w", s.Format, err)
	}
	if err := os.WriteFile(s.Path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing output as %s to `%s`: %w", s.Format, s.Path, err)
	}
	return nil
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling,
// so every cell stays a solid block.
func Scale(img image.Image, factor int) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

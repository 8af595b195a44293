package checks

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"pubcheck/geo"
	"pubcheck/layout"
)

// writeMarginOverlay renders the full page and outlines each offending strip
// so a human can see exactly where content crossed the margin. The file is
// written as <dir>/<stem>-page<N>.png and its path returned.
func writeMarginOverlay(ctx context.Context, renderer layout.Renderer, dir, stem string, pageNo int, pageWidth float64, strips []geo.Rect) (string, error) {
	raster, err := renderer.Page(ctx, pageNo, renderDPI)
	if err != nil {
		return "", fmt.Errorf("render page %d: %w", pageNo, err)
	}

	canvas := image.NewRGBA(raster.Bounds())
	xdraw.Copy(canvas, raster.Bounds().Min, raster, raster.Bounds(), xdraw.Src, nil)

	// Scale page points to raster pixels off the rendered width; the
	// renderer's rounding then cannot drift the boxes.
	scale := float64(renderDPI) / 72
	if pageWidth > 0 {
		scale = float64(raster.Bounds().Dx()) / pageWidth
	}
	red := color.RGBA{R: 0xd4, G: 0x21, B: 0x21, A: 0xff}
	for _, strip := range strips {
		strokeRect(canvas, image.Rect(
			int(strip.X0*scale), int(strip.Top*scale),
			int(strip.X1*scale), int(strip.Bottom*scale),
		), red)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-page%d.png", stem, pageNo))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create overlay: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, canvas); err != nil {
		return "", fmt.Errorf("encode overlay: %w", err)
	}
	return path, nil
}

// strokeRect draws a 2px outline of r on img, clipped to the image bounds.
func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	const stroke = 2
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			onEdge := x < r.Min.X+stroke || x >= r.Max.X-stroke ||
				y < r.Min.Y+stroke || y >= r.Max.Y-stroke
			if onEdge {
				img.Set(x, y, c)
			}
		}
	}
}

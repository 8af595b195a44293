// Package fitzrender implements the layout rasterization boundary with
// MuPDF via github.com/gen2brain/go-fitz. Rendering is the heavyweight half
// of the margin check; it is packaged separately from text extraction so
// geometry-only runs never pay for it.
package fitzrender

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/gen2brain/go-fitz"

	"pubcheck/geo"
	"pubcheck/layout"
)

// Opener creates renderers for document paths.
type Opener struct{}

// Open loads the document for rendering. The returned renderer must be
// closed by the caller.
func (Opener) Open(path string) (layout.Renderer, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open for rendering: %w", err)
	}
	return &renderer{doc: doc}, nil
}

var (
	_ layout.RenderOpener = Opener{}
	_ layout.Renderer     = (*renderer)(nil)
)

type renderer struct {
	// MuPDF contexts are not safe for concurrent use; one renderer is bound
	// to one document and serializes its own calls.
	mu  sync.Mutex
	doc *fitz.Document
}

// Page renders the full page at the given resolution. Page numbers are
// 1-indexed to match reporting.
func (r *renderer) Page(ctx context.Context, pageNumber int, dpi int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	img, err := r.doc.ImageDPI(pageNumber-1, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", pageNumber, err)
	}
	return img, nil
}

// Region renders the page and crops the requested page-coordinate rect.
func (r *renderer) Region(ctx context.Context, pageNumber int, rect geo.Rect, dpi int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	img, err := r.doc.ImageDPI(pageNumber-1, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", pageNumber, err)
	}
	bound, err := r.doc.Bound(pageNumber - 1)
	if err != nil {
		return nil, fmt.Errorf("page %d bounds: %w", pageNumber, err)
	}
	crop := cropWindow(rect, bound.Dx(), img.Bounds(), dpi)
	if crop.Empty() {
		return image.NewRGBA(image.Rectangle{}), nil
	}
	return img.SubImage(crop), nil
}

// cropWindow maps a page-coordinate rect onto the raster. Bound widths are
// in points (72 dpi); the scale is derived from the actual pixel width so
// MuPDF's rounding cannot skew the crop.
func cropWindow(rect geo.Rect, boundWidth int, raster image.Rectangle, dpi int) image.Rectangle {
	scale := float64(dpi) / 72
	if boundWidth > 0 {
		scale = float64(raster.Dx()) / float64(boundWidth)
	}
	return image.Rect(
		int(math.Floor(rect.X0*scale)), int(math.Floor(rect.Top*scale)),
		int(math.Ceil(rect.X1*scale)), int(math.Ceil(rect.Bottom*scale)),
	).Intersect(raster)
}

func (r *renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.Close()
}

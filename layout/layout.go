// Package layout defines the boundary to the PDF layout source: the extracted
// geometry, text, style and link data the formatting checks operate on, plus
// the injectable rasterization capability used for pixel-level confirmation.
//
// Implementations live in the subpackages pdffile (text/geometry extraction)
// and fitzrender (rasterization). Checks depend only on the interfaces here so
// tests can substitute synthetic documents and rasters.
package layout

import (
	"context"
	"image"

	"pubcheck/geo"
)

// Color is a device color with components in [0, 1]. A nil Color means the
// source did not report one.
type Color []float64

// White reports whether every component is close enough to full intensity
// that the colored object is invisible on a white page.
func (c Color) White() bool {
	if len(c) == 0 {
		return false
	}
	for _, v := range c {
		if v < 0.99 {
			return false
		}
	}
	return true
}

// Word is a positioned run of text on a page.
type Word struct {
	Text        string
	Box         geo.Rect
	FillColor   Color
	StrokeColor Color
}

// Visible reports whether the word would render as visible ink. Words whose
// fill and stroke are both white (or both absent with a white fill) are
// treated as invisible; they legitimately occur in headers prepared for
// camera-ready stamping.
func (w Word) Visible() bool {
	if w.FillColor == nil && w.StrokeColor == nil {
		return true
	}
	fillInvisible := w.FillColor == nil || w.FillColor.White()
	strokeInvisible := w.StrokeColor == nil || w.StrokeColor.White()
	return !(fillInvisible && strokeInvisible)
}

// Image is a placed raster or vector graphic on a page.
type Image struct {
	Box geo.Rect
}

// Char is a single character style record. Only the font name matters to the
// checks; sources that cannot attribute individual characters may emit one
// record per text fragment character.
type Char struct {
	Font string
}

// Link is an outbound hyperlink annotation.
type Link struct {
	URI string
}

// Page exposes the extracted layout of a single rendered sheet. Extraction
// methods return an error when the underlying page data is malformed; callers
// recover at page granularity.
type Page interface {
	// Size returns the page dimensions in points. Sources report (0, 0)
	// when the media box is missing.
	Size() (width, height float64)
	// Text returns the extractable text with embedded line breaks.
	Text() (string, error)
	// Words returns the ordered word boxes with style attributes.
	Words() ([]Word, error)
	// Images returns the ordered image bounding boxes.
	Images() ([]Image, error)
	// Chars returns the ordered character style records.
	Chars() ([]Char, error)
	// Links returns the outbound hyperlink targets.
	Links() ([]Link, error)
}

// Document is an ordered sequence of pages, owned by one validation run.
type Document interface {
	Pages() []Page
	Close() error
}

// Source opens documents for validation.
type Source interface {
	Open(ctx context.Context, path string) (Document, error)
}

// Renderer rasterizes page regions of one open document. Page numbers are
// 1-indexed to match reporting.
type Renderer interface {
	// Page renders the full page at the given resolution.
	Page(ctx context.Context, pageNumber int, dpi int) (image.Image, error)
	// Region renders the given page-coordinate rect at the given resolution.
	Region(ctx context.Context, pageNumber int, r geo.Rect, dpi int) (image.Image, error)
	Close() error
}

// RenderOpener creates a Renderer for a document path. Rasterization is a
// heavyweight capability; orchestration treats a nil opener as "geometry
// only".
type RenderOpener interface {
	Open(path string) (Renderer, error)
}

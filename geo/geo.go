// Package geo provides the rectangle primitives shared by the layout model
// and the formatting checks. Coordinates follow the extracted-layout
// convention: the origin is the top-left corner of the page, X grows to the
// right and Y grows downward, so Top < Bottom for every well-formed Rect.
package geo

import "fmt"

// Rect is an axis-aligned rectangle in page coordinates (points).
type Rect struct {
	X0     float64 // left edge
	Top    float64 // upper edge
	X1     float64 // right edge
	Bottom float64 // lower edge
}

// NewRect returns a rect spanning the given edges.
func NewRect(x0, top, x1, bottom float64) Rect {
	return Rect{X0: x0, Top: top, X1: x1, Bottom: bottom}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.X1 <= r.X0 || r.Bottom <= r.Top }

// Contains returns true if the point (x, y) lies within r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Top && y <= r.Bottom
}

// Intersects reports whether r and other share any area.
func (r Rect) Intersects(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X0 < other.X1 && other.X0 < r.X1 && r.Top < other.Bottom && other.Top < r.Bottom
}

// Intersect returns the overlapping region of r and other. The zero Rect is
// returned when they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	out := Rect{
		X0:     max(r.X0, other.X0),
		Top:    max(r.Top, other.Top),
		X1:     min(r.X1, other.X1),
		Bottom: min(r.Bottom, other.Bottom),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Clip constrains r to the bounds rectangle.
func (r Rect) Clip(bounds Rect) Rect { return r.Intersect(bounds) }

// Inset shrinks r inward by the given per-side offsets. An offset pair larger
// than the rect collapses it to an empty rect; callers treat an empty result
// as "no allowed area".
func (r Rect) Inset(left, top, right, bottom float64) Rect {
	return Rect{
		X0:     r.X0 + left,
		Top:    r.Top + top,
		X1:     r.X1 - right,
		Bottom: r.Bottom - bottom,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%.2f %.2f %.2f %.2f]", r.X0, r.Top, r.X1, r.Bottom)
}

package checks

import (
	"context"
	"fmt"
	"image"

	"pubcheck/geo"
	"pubcheck/layout"
	"pubcheck/observability"
	"pubcheck/venue"
)

// renderDPI is the resolution used for pixel confirmation and overlays.
const renderDPI = 100

// MarginChecker detects content bleeding past the allowed margins. The check
// has two layers: a geometric pass over word and image boxes, and a
// rendered-pixel confirmation that weeds out boxes which overstate their ink
// (anti-aliasing slack, glyph side bearings). Renderer may be nil, in which
// case geometric evidence stands on its own.
type MarginChecker struct {
	Profile       venue.Profile
	Renderer      layout.Renderer
	DisableBottom bool
	// ArtifactDir receives one annotated page raster per offending page when
	// rendering is available. Empty disables artifacts.
	ArtifactDir string
	// DocStem prefixes artifact filenames so concurrent runs never collide.
	DocStem string
	Log     observability.Logger
}

type bleed struct {
	side  string
	image bool
	// strip is the offending part of the box, clipped to the page.
	strip geo.Rect
}

// Check examines every page not already marked unreliable. A failure while
// extracting geometry or rendering one page records a PARSING violation for
// that page and moves on; a single malformed page never aborts the rest of
// the document.
func (c *MarginChecker) Check(ctx context.Context, doc layout.Document, res *Result) {
	log := c.logger()
	for i, page := range doc.Pages() {
		pageNo := i + 1
		if res.PageErrors.Has(pageNo) {
			continue
		}
		bleeds, err := c.checkPage(ctx, pageNo, page)
		if err != nil {
			log.Warn("page could not be checked for margins",
				observability.Int("page", pageNo), observability.Error("error", err))
			res.Report.Add(KindParsing, fmt.Sprintf(
				"Page #%d could not be parsed for the margin check: %v.", pageNo, err))
			res.PageErrors.Add(pageNo)
			continue
		}
		for _, b := range bleeds {
			if b.image {
				res.Report.Add(KindMargin, fmt.Sprintf(
					"An image on page %d bleeds into the %s margin.", pageNo, b.side))
			} else {
				res.Report.Add(KindMargin, fmt.Sprintf(
					"Text on page %d bleeds into the %s margin.", pageNo, b.side))
			}
		}
		if len(bleeds) > 0 {
			c.writeOverlay(ctx, pageNo, page, bleeds)
		}
	}
}

func (c *MarginChecker) checkPage(ctx context.Context, pageNo int, page layout.Page) (confirmed []bleed, err error) {
	// Malformed page data may surface as a panic deep inside a layout
	// source; contain it at page granularity.
	defer func() {
		if r := recover(); r != nil {
			confirmed = nil
			err = fmt.Errorf("panic extracting page geometry: %v", r)
		}
	}()

	w, h := page.Size()
	pageRect := geo.NewRect(0, 0, w, h)
	m := c.Profile.Margins
	bottom := m.Bottom
	if c.DisableBottom {
		bottom = 0
	}
	allowed := pageRect.Inset(m.Left, m.Top, m.Right, bottom)
	if allowed.Empty() {
		return nil, fmt.Errorf("margin offsets leave no content area on a %gx%gpt page", w, h)
	}

	words, err := page.Words()
	if err != nil {
		return nil, fmt.Errorf("extract words: %w", err)
	}
	images, err := page.Images()
	if err != nil {
		return nil, fmt.Errorf("extract images: %w", err)
	}

	var candidates []bleed
	for _, word := range words {
		if !word.Visible() {
			continue
		}
		candidates = append(candidates, boxBleeds(word.Box, allowed, pageRect, false, c.DisableBottom)...)
	}
	for _, img := range images {
		candidates = append(candidates, boxBleeds(img.Box, allowed, pageRect, true, c.DisableBottom)...)
	}

	for _, cand := range candidates {
		ok, err := c.confirm(ctx, pageNo, cand.strip)
		if err != nil {
			return nil, fmt.Errorf("render page region: %w", err)
		}
		if ok {
			confirmed = append(confirmed, cand)
		}
	}
	return confirmed, nil
}

// boxBleeds reports, per side, whether box extends beyond the allowed content
// rect. One box can offend several sides at once (a full-bleed figure).
func boxBleeds(box, allowed, page geo.Rect, isImage, skipBottom bool) []bleed {
	if box.Empty() {
		return nil
	}
	var out []bleed
	add := func(side string, strip geo.Rect) {
		strip = strip.Clip(page)
		if strip.Empty() {
			return
		}
		out = append(out, bleed{side: side, image: isImage, strip: strip})
	}
	if box.X0 < allowed.X0 {
		add("left", geo.NewRect(box.X0, box.Top, allowed.X0, box.Bottom))
	}
	if box.X1 > allowed.X1 {
		add("right", geo.NewRect(allowed.X1, box.Top, box.X1, box.Bottom))
	}
	if box.Top < allowed.Top {
		add("top", geo.NewRect(box.X0, box.Top, box.X1, allowed.Top))
	}
	if !skipBottom && box.Bottom > allowed.Bottom {
		add("bottom", geo.NewRect(box.X0, allowed.Bottom, box.X1, box.Bottom))
	}
	return out
}

// confirm renders the offending strip and checks it against the expected
// background. A strip that rasterizes to a uniform background color is a
// geometric overstatement, not a real bleed. Without a renderer the geometric
// evidence is accepted as-is.
func (c *MarginChecker) confirm(ctx context.Context, pageNo int, strip geo.Rect) (bool, error) {
	if c.Renderer == nil {
		return true, nil
	}
	img, err := c.Renderer.Region(ctx, pageNo, strip, renderDPI)
	if err != nil {
		return false, err
	}
	return !uniformBackground(img, c.Profile.BackgroundColor), nil
}

// uniformBackground reports whether every pixel of img matches the expected
// background intensity within a small slack for resampling noise.
func uniformBackground(img image.Image, background uint8) bool {
	if img == nil {
		return true
	}
	const slack = 2
	want := uint32(background) * 0x101
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			for _, ch := range [3]uint32{r, g, b} {
				d := int64(ch) - int64(want)
				if d < 0 {
					d = -d
				}
				if d > slack*0x101 {
					return false
				}
			}
		}
	}
	return true
}

func (c *MarginChecker) writeOverlay(ctx context.Context, pageNo int, page layout.Page, bleeds []bleed) {
	if c.Renderer == nil || c.ArtifactDir == "" {
		return
	}
	strips := make([]geo.Rect, len(bleeds))
	for i, b := range bleeds {
		strips[i] = b.strip
	}
	w, _ := page.Size()
	path, err := writeMarginOverlay(ctx, c.Renderer, c.ArtifactDir, c.DocStem, pageNo, w, strips)
	if err != nil {
		c.logger().Warn("margin overlay not written",
			observability.Int("page", pageNo), observability.Error("error", err))
		return
	}
	c.logger().Info("margin overlay written",
		observability.Int("page", pageNo), observability.String("path", path))
}

func (c *MarginChecker) logger() observability.Logger {
	if c.Log == nil {
		return observability.NopLogger{}
	}
	return c.Log
}

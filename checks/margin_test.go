package checks_test

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubcheck/checks"
	"pubcheck/geo"
	"pubcheck/layout"
	"pubcheck/venue"
)

func marginChecker() *checks.MarginChecker {
	return &checks.MarginChecker{Profile: venue.Default()}
}

func TestMarginCheckerCleanDocument(t *testing.T) {
	page := a4Page()
	page.words = []layout.Word{
		wordAt(geo.NewRect(72, 72, 520, 84), "body"),
		wordAt(geo.NewRect(72, 770, 520, 782), "footer"),
	}
	page.images = []layout.Image{{Box: geo.NewRect(100, 200, 400, 500)}}
	res := checks.NewResult()
	marginChecker().Check(context.Background(), docOf(page), res)

	assert.NotContains(t, res.Report, checks.KindMargin)
	assert.NotContains(t, res.Report, checks.KindParsing)
}

func TestMarginCheckerFlagsTextAndImageBleeds(t *testing.T) {
	page := a4Page()
	page.words = []layout.Word{wordAt(geo.NewRect(0, 10, 30, 20), "stray")}
	page.images = []layout.Image{{Box: geo.NewRect(560, 100, 595, 200)}}
	res := checks.NewResult()
	marginChecker().Check(context.Background(), docOf(page), res)

	msgs := res.Report[checks.KindMargin]
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "Text on page 1 bleeds into the left margin")
	assert.Contains(t, msgs[1], "An image on page 1 bleeds into the right margin")
	assert.Empty(t, res.PageErrors, "margin bleeds do not make a page unreliable")
}

func TestMarginCheckerSkipsInvisibleText(t *testing.T) {
	page := a4Page()
	white := layout.Word{
		Text:      "stamp",
		Box:       geo.NewRect(0, 10, 30, 20),
		FillColor: layout.Color{1, 1, 1},
	}
	page.words = []layout.Word{white}
	res := checks.NewResult()
	marginChecker().Check(context.Background(), docOf(page), res)

	assert.NotContains(t, res.Report, checks.KindMargin)
}

func TestMarginCheckerPixelConfirmationDropsGhostBleeds(t *testing.T) {
	page := a4Page()
	page.words = []layout.Word{
		wordAt(geo.NewRect(0, 10, 30, 20), "ghost"),
		wordAt(geo.NewRect(0, 400, 30, 410), "real"),
	}
	// Only the second word's strip rasterizes with ink.
	renderer := &fakeRenderer{inked: []geo.Rect{geo.NewRect(0, 400, 2, 410)}}
	c := marginChecker()
	c.Renderer = renderer
	res := checks.NewResult()
	c.Check(context.Background(), docOf(page), res)

	msgs := res.Report[checks.KindMargin]
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "left margin")
	assert.Equal(t, 2, renderer.regions, "every candidate strip is rendered")
}

func TestMarginCheckerBottomBandDisableable(t *testing.T) {
	page := a4Page()
	page.words = []layout.Word{wordAt(geo.NewRect(100, 841.5, 200, 842), "pageno")}

	res := checks.NewResult()
	marginChecker().Check(context.Background(), docOf(page), res)
	require.Contains(t, res.Report, checks.KindMargin)

	c := marginChecker()
	c.DisableBottom = true
	res = checks.NewResult()
	c.Check(context.Background(), docOf(page), res)
	assert.NotContains(t, res.Report, checks.KindMargin)
}

func TestMarginCheckerRecoversPerPage(t *testing.T) {
	bad := a4Page()
	bad.wordsErr = errBoom
	panicky := a4Page()
	panicky.panicOnWords = true
	good := a4Page()
	good.words = []layout.Word{wordAt(geo.NewRect(0, 10, 30, 20), "stray")}

	res := checks.NewResult()
	marginChecker().Check(context.Background(), docOf(bad, panicky, good), res)

	require.Len(t, res.Report[checks.KindParsing], 2)
	assert.Contains(t, res.Report[checks.KindParsing][0], "Page #1")
	assert.Contains(t, res.Report[checks.KindParsing][1], "Page #2")
	assert.True(t, res.PageErrors.Has(1))
	assert.True(t, res.PageErrors.Has(2))
	require.Len(t, res.Report[checks.KindMargin], 1, "remaining pages are still checked")
	assert.Contains(t, res.Report[checks.KindMargin][0], "page 3")
}

func TestMarginCheckerSkipsPagesAlreadyUnreliable(t *testing.T) {
	page := a4Page()
	page.words = []layout.Word{wordAt(geo.NewRect(0, 10, 30, 20), "stray")}
	res := checks.NewResult()
	res.PageErrors.Add(1)
	marginChecker().Check(context.Background(), docOf(page), res)

	assert.NotContains(t, res.Report, checks.KindMargin)
}

func TestMarginCheckerWritesOverlayArtifact(t *testing.T) {
	dir := t.TempDir()
	page := a4Page()
	page.words = []layout.Word{wordAt(geo.NewRect(0, 10, 30, 20), "stray")}
	c := marginChecker()
	c.Renderer = &fakeRenderer{inked: []geo.Rect{geo.NewRect(0, 10, 2, 20)}}
	c.ArtifactDir = dir
	c.DocStem = "paper"
	res := checks.NewResult()
	c.Check(context.Background(), docOf(page), res)

	require.Contains(t, res.Report, checks.KindMargin)
	f, err := os.Open(filepath.Join(dir, "paper-page1.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 827, 1169), img.Bounds(), "overlay keeps the page raster size")
	assert.True(t, hasOutlineInk(img), "overlay must mark the offending strip")
}

// hasOutlineInk scans for the red outline stroke.
func hasOutlineInk(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r > 0xc000 && g < 0x4000 && bl < 0x4000 {
				return true
			}
		}
	}
	return false
}

func TestMarginCheckerRenderFailureIsParsing(t *testing.T) {
	page := a4Page()
	page.words = []layout.Word{wordAt(geo.NewRect(0, 10, 30, 20), "stray")}
	c := marginChecker()
	c.Renderer = &fakeRenderer{failErr: errBoom}
	res := checks.NewResult()
	c.Check(context.Background(), docOf(page), res)

	require.Contains(t, res.Report, checks.KindParsing)
	assert.True(t, res.PageErrors.Has(1))
	assert.NotContains(t, res.Report, checks.KindMargin)
}

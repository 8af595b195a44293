package checks_test

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"pubcheck/geo"
	"pubcheck/layout"
	"pubcheck/observability"
)

// fakePage is a synthetic layout.Page for driving the checkers without a
// real document backend.
type fakePage struct {
	width, height float64
	text          string
	textErr       error
	words         []layout.Word
	wordsErr      error
	panicOnWords  bool
	images        []layout.Image
	chars         []layout.Char
	links         []layout.Link
}

func a4Page() *fakePage { return &fakePage{width: 595, height: 842} }

func (p *fakePage) Size() (float64, float64) { return p.width, p.height }

func (p *fakePage) Text() (string, error) { return p.text, p.textErr }

func (p *fakePage) Words() ([]layout.Word, error) {
	if p.panicOnWords {
		panic("corrupt content stream")
	}
	return p.words, p.wordsErr
}

func (p *fakePage) Images() ([]layout.Image, error) { return p.images, nil }

func (p *fakePage) Chars() ([]layout.Char, error) { return p.chars, nil }

func (p *fakePage) Links() ([]layout.Link, error) { return p.links, nil }

type fakeDoc struct {
	pages []layout.Page
}

func (d *fakeDoc) Pages() []layout.Page { return d.pages }
func (d *fakeDoc) Close() error         { return nil }

func docOf(pages ...layout.Page) *fakeDoc { return &fakeDoc{pages: pages} }

// fakeSource serves one fixed document for any path.
type fakeSource struct {
	doc *fakeDoc
	err error
}

func (s *fakeSource) Open(context.Context, string) (layout.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.doc, nil
}

// fakeRenderer returns uniform rasters. inked lists regions that should
// render as containing ink; everything else comes back as pure background.
type fakeRenderer struct {
	inked   []geo.Rect
	failErr error
	regions int
}

func (r *fakeRenderer) Page(_ context.Context, _ int, dpi int) (image.Image, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	return uniform(827, 1169, color.White), nil
}

func (r *fakeRenderer) Region(_ context.Context, _ int, rect geo.Rect, _ int) (image.Image, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	r.regions++
	for _, ink := range r.inked {
		if ink.Intersects(rect) {
			return uniform(4, 4, color.Black), nil
		}
	}
	return uniform(4, 4, color.White), nil
}

func (r *fakeRenderer) Close() error { return nil }

func uniform(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// wordAt places black text at the given box.
func wordAt(box geo.Rect, text string) layout.Word {
	return layout.Word{
		Text:      text,
		Box:       box,
		FillColor: layout.Color{0, 0, 0},
	}
}

// charsOf builds n character records in the given font.
func charsOf(font string, n int) []layout.Char {
	out := make([]layout.Char, n)
	for i := range out {
		out[i] = layout.Char{Font: font}
	}
	return out
}

// pageWithText is an A4 page carrying only text.
func pageWithText(text string) *fakePage {
	p := a4Page()
	p.text = text
	return p
}

// recordingLogger captures debug entries for assertions.
type recordingLogger struct {
	mu     sync.Mutex
	debugs map[string][]observability.Field
}

func (l *recordingLogger) Debug(msg string, fields ...observability.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.debugs == nil {
		l.debugs = make(map[string][]observability.Field)
	}
	l.debugs[msg] = fields
}

func (l *recordingLogger) Info(string, ...observability.Field)              {}
func (l *recordingLogger) Warn(string, ...observability.Field)              {}
func (l *recordingLogger) Error(string, ...observability.Field)             {}
func (l *recordingLogger) With(...observability.Field) observability.Logger { return l }

func (l *recordingLogger) debugField(msg, key string) (interface{}, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, f := range l.debugs[msg] {
		if f.Key() == key {
			return f.Value(), true
		}
	}
	return nil, false
}

var errBoom = fmt.Errorf("boom")

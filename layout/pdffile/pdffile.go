// Package pdffile implements the layout.Source boundary on top of
// github.com/ledongthuc/pdf, an rsc.io/pdf-style reader. It maps the
// reader's bottom-left page coordinates into the top-left convention the
// checks use, and contains the reader's panics on malformed pages behind
// per-call error returns so validation can recover at page granularity.
package pdffile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"pubcheck/geo"
	"pubcheck/layout"
)

// Source opens PDF documents from the local filesystem.
type Source struct{}

// Open parses the file's cross-reference structure. Page content is decoded
// lazily by the per-page extraction calls.
func (Source) Open(ctx context.Context, path string) (layout.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}
	doc := &document{file: f}
	n := reader.NumPage()
	doc.pages = make([]layout.Page, 0, n)
	for i := 1; i <= n; i++ {
		doc.pages = append(doc.pages, &page{p: reader.Page(i)})
	}
	return doc, nil
}

type document struct {
	file  *os.File
	pages []layout.Page
}

func (d *document) Pages() []layout.Page { return d.pages }

func (d *document) Close() error { return d.file.Close() }

type page struct {
	p pdf.Page
}

// Size returns the media box extent. Zero dimensions mean the box is missing
// or malformed; the size check treats that as a mismatch.
func (pg *page) Size() (width, height float64) {
	defer func() { _ = recover() }()
	box := inheritedAttr(pg.p.V, "MediaBox")
	if box.Kind() != pdf.Array || box.Len() < 4 {
		return 0, 0
	}
	x0, y0 := box.Index(0).Float64(), box.Index(1).Float64()
	x1, y1 := box.Index(2).Float64(), box.Index(3).Float64()
	return x1 - x0, y1 - y0
}

// Text returns page text row by row, top to bottom, with one line per row.
func (pg *page) Text() (text string, err error) {
	defer recoverTo(&err, "extract text")
	rows, rowErr := pg.p.GetTextByRow()
	if rowErr != nil {
		return "", fmt.Errorf("extract text: %w", rowErr)
	}
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, fragment := range row.Content {
			b.WriteString(fragment.S)
		}
	}
	return b.String(), nil
}

// Words returns one box per text fragment. The reader does not attribute
// fill or stroke colors, so every fragment is reported as visible ink.
func (pg *page) Words() (words []layout.Word, err error) {
	defer recoverTo(&err, "extract words")
	_, height := pg.Size()
	for _, fragment := range pg.p.Content().Text {
		words = append(words, layout.Word{
			Text: fragment.S,
			Box:  fragmentBox(fragment, height),
		})
	}
	return words, nil
}

// Images returns no boxes: placed-image geometry requires full content
// stream interpretation, which this backend does not do. Image-bleed
// detection therefore relies on the rendered-pixel pass.
func (pg *page) Images() ([]layout.Image, error) { return nil, nil }

// Chars emits one style record per character of each text fragment, carrying
// the fragment's font name.
func (pg *page) Chars() (chars []layout.Char, err error) {
	defer recoverTo(&err, "extract chars")
	for _, fragment := range pg.p.Content().Text {
		for range fragment.S {
			chars = append(chars, layout.Char{Font: fragment.Font})
		}
	}
	return chars, nil
}

// Links walks the page's annotation array for link annotations with URI
// actions.
func (pg *page) Links() (links []layout.Link, err error) {
	defer recoverTo(&err, "extract links")
	annots := pg.p.V.Key("Annots")
	if annots.Kind() != pdf.Array {
		return nil, nil
	}
	for i := 0; i < annots.Len(); i++ {
		annot := annots.Index(i)
		if annot.Kind() != pdf.Dict || annot.Key("Subtype").Name() != "Link" {
			continue
		}
		if uri := annotationURI(annot); uri != "" {
			links = append(links, layout.Link{URI: uri})
		}
	}
	return links, nil
}

// annotationURI resolves a link annotation's target, either directly or
// through its URI action.
func annotationURI(annot pdf.Value) string {
	if uri := annot.Key("URI"); uri.Kind() == pdf.String {
		return uri.RawString()
	}
	action := annot.Key("A")
	if action.Kind() != pdf.Dict || action.Key("S").Name() != "URI" {
		return ""
	}
	if uri := action.Key("URI"); uri.Kind() == pdf.String {
		return uri.RawString()
	}
	return ""
}

// inheritedAttr resolves a page attribute, walking up the page tree when the
// page dictionary does not carry it directly.
func inheritedAttr(v pdf.Value, key string) pdf.Value {
	for depth := 0; depth < 32 && v.Kind() == pdf.Dict; depth++ {
		if attr := v.Key(key); !attr.IsNull() {
			return attr
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}

// fragmentBox converts a text fragment's baseline metrics into a top-origin
// box. The vertical extent is approximated from the font size; the checks'
// pixel-confirmation pass compensates for the approximation.
func fragmentBox(t pdf.Text, pageHeight float64) geo.Rect {
	return geo.Rect{
		X0:     t.X,
		X1:     t.X + t.W,
		Top:    pageHeight - t.Y - t.FontSize,
		Bottom: pageHeight - t.Y,
	}
}

// recoverTo converts a reader panic into an error so one malformed page
// cannot abort a whole document's validation.
func recoverTo(err *error, op string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: malformed page data: %v", op, r)
	}
}

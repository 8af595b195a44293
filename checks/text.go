package checks

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"pubcheck/layout"
)

// pageText extracts and NFKC-normalizes a page's text. Extraction failures
// and ligature forms both collapse to the same answer for the line scans:
// normalization folds renderer ligatures (ﬁ, ﬂ) back to plain letters, and a
// failed extraction yields zero evidence rather than an aborted run.
func pageText(page layout.Page) string {
	text, err := page.Text()
	if err != nil {
		return ""
	}
	return norm.NFKC.String(text)
}

// markerPosition scans pages in order for the first line that begins with the
// given literal marker, returning its 1-indexed page and line-within-page.
func markerPosition(pages []layout.Page, marker string) (page, line int, found bool) {
	for i, p := range pages {
		for j, l := range strings.Split(pageText(p), "\n") {
			if strings.HasPrefix(strings.TrimSpace(l), marker) {
				return i + 1, j + 1, true
			}
		}
	}
	return 0, 0, false
}

// countFold counts case-insensitive occurrences of substr in s.
func countFold(s, substr string) int {
	return strings.Count(strings.ToLower(s), strings.ToLower(substr))
}

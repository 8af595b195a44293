package checks

import (
	"fmt"
	"math"

	"pubcheck/layout"
	"pubcheck/venue"
)

// SizeChecker verifies every page against the venue's required page format.
// Pages outside the tolerance band are reported under SIZE and marked
// unreliable: all later geometry judgments on them would be meaningless.
type SizeChecker struct {
	Profile venue.Profile
}

// Check compares each page's dimensions to the profile format. A page with
// missing dimension data (zero width or height) counts as mismatched.
func (c SizeChecker) Check(doc layout.Document, res *Result) {
	for i, page := range doc.Pages() {
		w, h := page.Size()
		if c.matches(w, h) {
			continue
		}
		pageNo := i + 1
		res.Report.Add(KindSize, fmt.Sprintf(
			"Page #%d is not %s (found %.1fx%.1fpt, expected %.0fx%.0fpt).",
			pageNo, c.Profile.FormatName, w, h, c.Profile.PageWidth, c.Profile.PageHeight))
		res.PageErrors.Add(pageNo)
	}
}

func (c SizeChecker) matches(w, h float64) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	return math.Abs(w-c.Profile.PageWidth) <= c.Profile.SizeTolerance &&
		math.Abs(h-c.Profile.PageHeight) <= c.Profile.SizeTolerance
}

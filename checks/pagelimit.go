package checks

import (
	"fmt"

	"pubcheck/layout"
	"pubcheck/venue"
)

// PageLimitChecker verifies the number of content pages before the
// bibliography against the quota for the submitted paper type.
type PageLimitChecker struct {
	Profile   venue.Profile
	PaperType string
}

// Check locates the first line beginning with the bibliography marker and
// compares its page against the quota. Without a marker anywhere, the whole
// document is content and the limit applies to the last page. The check is
// skipped when the paper type carries no quota, when the reference-start page
// is itself already known unreliable, or when every page is unreliable (a
// page-count judgment is meaningless if no page's content can be trusted).
func (c PageLimitChecker) Check(doc layout.Document, res *Result) {
	pages := doc.Pages()
	if len(pages) == 0 {
		return
	}
	quota, ok := c.Profile.Quota(c.PaperType)
	if !ok {
		return
	}
	if res.PageErrors.CoversAll(len(pages)) {
		return
	}

	refPage, refLine, found := markerPosition(pages, c.Profile.ReferenceMarker)
	if !found {
		refPage, refLine = len(pages), 1
	}
	if refPage <= quota || res.PageErrors.Has(refPage) {
		return
	}

	if found {
		res.Report.Add(KindPageLimit, fmt.Sprintf(
			"The %q section starts on page %d (line %d), but %q papers may use at most %d content pages.",
			c.Profile.ReferenceMarker, refPage, refLine, c.PaperType, quota))
	} else {
		res.Report.Add(KindPageLimit, fmt.Sprintf(
			"No %q section was found and the paper runs to page %d, over the %d-page limit for %q papers.",
			c.Profile.ReferenceMarker, refPage, quota, c.PaperType))
	}
}

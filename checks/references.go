package checks

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"pubcheck/layout"
	"pubcheck/namecheck"
	"pubcheck/observability"
	"pubcheck/venue"
)

// ReferencesChecker applies the bibliography heuristics: marker presence,
// arXiv over-reliance, DOI and link sufficiency, and delegation to the
// external author-name-format checker. Everything it reports is advisory; a
// submission may be accepted with any of these warnings standing.
type ReferencesChecker struct {
	Profile venue.Profile
	// DocPath identifies the document to the external name checker.
	DocPath string
	// NameCheck is nil when name checking is disabled for the run.
	NameCheck namecheck.Checker
	Log       observability.Logger
}

// Check scans all page text and hyperlinks document-wide.
func (c *ReferencesChecker) Check(ctx context.Context, doc layout.Document, res *Result) {
	pages := doc.Pages()

	var text strings.Builder
	for _, page := range pages {
		text.WriteString(pageText(page))
		text.WriteString("\n")
	}
	fullText := text.String()

	var links []layout.Link
	for _, page := range pages {
		pageLinks, err := page.Links()
		if err != nil {
			continue
		}
		links = append(links, pageLinks...)
	}

	_, _, found := markerPosition(pages, c.Profile.ReferenceMarker)
	if !found {
		res.Report.Add(KindBibliography, fmt.Sprintf(
			"Couldn't find any references: no line starting with %q was found.",
			c.Profile.ReferenceMarker))
	}

	if n := countFold(fullText, "arxiv"); n > c.Profile.MaxArxivUses {
		res.Report.Add(KindBibliography, fmt.Sprintf(
			"The paper mentions arXiv %d times; the bibliography may be over-relying on arXiv preprints where published versions exist.",
			n))
	}

	doiCount := 0
	for _, link := range links {
		if isDOILink(link.URI) {
			doiCount++
		}
	}
	if doiCount < c.Profile.MinDOILinks {
		res.Report.Add(KindBibliography, fmt.Sprintf(
			"Bibliography should use official anthology DOIs whenever possible; only %d DOI links found.",
			doiCount))
	}

	if len(links) < c.Profile.MinTotalLinks {
		res.Report.Add(KindBibliography, fmt.Sprintf(
			"Only %d links found in the paper; the bibliography does not seem to be using paper links.",
			len(links)))
	}

	c.delegateNameCheck(ctx, res)
}

func (c *ReferencesChecker) delegateNameCheck(ctx context.Context, res *Result) {
	if c.NameCheck == nil {
		return
	}
	cfg := namecheck.Config{
		File:      c.DocPath,
		ShowNames: false,
		WholeName: false,
		FirstName: true,
		LastName:  true,
		RefString: c.Profile.ReferenceMarker,
		Mode:      namecheck.ModeEnsemble,
		Initials:  true,
	}
	messages, err := c.NameCheck.Execute(ctx, cfg)
	if err != nil {
		// Name checking is advisory on top of advisory; a broken external
		// checker degrades to a log line, not a document failure.
		log := c.Log
		if log == nil {
			log = observability.NopLogger{}
		}
		log.Warn("name-format check failed", observability.Error("error", err))
		return
	}
	for _, msg := range messages {
		res.Report.Add(KindBibliography, msg)
	}
}

// isDOILink reports whether a URI points at a DOI resolver.
func isDOILink(uri string) bool {
	u, err := url.Parse(uri)
	if err != nil || u.Host == "" {
		// Malformed or relative targets still count when they clearly name
		// the resolver.
		return strings.Contains(strings.ToLower(uri), "doi.org")
	}
	host := strings.ToLower(u.Host)
	return host == "doi.org" || strings.HasSuffix(host, ".doi.org")
}

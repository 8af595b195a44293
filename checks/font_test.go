package checks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubcheck/checks"
	"pubcheck/venue"
)

func TestFontCheckerAcceptsDominantAllowListedFont(t *testing.T) {
	page := a4Page()
	page.chars = append(charsOf("TimesNewRomanPSMT", 10), charsOf("CMMI10", 2)...)
	res := checks.NewResult()
	checks.FontChecker{Profile: venue.Default()}.Check(docOf(page), res)

	assert.NotContains(t, res.Report, checks.KindFont)
}

func TestFontCheckerMatchesSubsetPrefixedNames(t *testing.T) {
	page := a4Page()
	page.chars = charsOf("ABCDEF+TimesNewRomanPS-BoldMT", 10)
	res := checks.NewResult()
	checks.FontChecker{Profile: venue.Default()}.Check(docOf(page), res)

	assert.NotContains(t, res.Report, checks.KindFont)
}

func TestFontCheckerLowShare(t *testing.T) {
	page := a4Page()
	page.chars = append(charsOf("TimesNewRomanPSMT", 2), charsOf("Helvetica", 5)...)
	// Dominant font is Helvetica at 5/7 ≈ 71%; force heterogeneity instead.
	page.chars = append(page.chars, charsOf("Courier", 5)...)
	page.chars = append(page.chars, charsOf("Palatino", 5)...)
	res := checks.NewResult()
	checks.FontChecker{Profile: venue.Default()}.Check(docOf(page), res)

	msgs := res.Report[checks.KindFont]
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "main font")
}

func TestFontCheckerWrongFont(t *testing.T) {
	page := a4Page()
	page.chars = charsOf("ComicSansMS", 10)
	res := checks.NewResult()
	checks.FontChecker{Profile: venue.Default()}.Check(docOf(page), res)

	msgs := res.Report[checks.KindFont]
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Wrong font")
	assert.Contains(t, msgs[0], "ComicSansMS")
}

func TestFontCheckerNoCharactersIsSilent(t *testing.T) {
	res := checks.NewResult()
	checks.FontChecker{Profile: venue.Default()}.Check(docOf(a4Page()), res)

	assert.NotContains(t, res.Report, checks.KindFont)
}

func TestFontCheckerIsDocumentWide(t *testing.T) {
	p1 := a4Page()
	p1.chars = charsOf("ComicSansMS", 4)
	p2 := a4Page()
	p2.chars = charsOf("TimesNewRomanPSMT", 16)
	res := checks.NewResult()
	checks.FontChecker{Profile: venue.Default()}.Check(docOf(p1, p2), res)

	assert.NotContains(t, res.Report, checks.KindFont, "tally spans all pages")
}

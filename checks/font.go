package checks

import (
	"fmt"
	"strings"

	"pubcheck/layout"
	"pubcheck/venue"
)

// FontChecker judges the document's dominant typeface. The decision is
// statistical and document-wide: tally every character's font name, find the
// single most frequent one, and compare it against the venue allow-list. A
// document too heterogeneous to have a dominant font at all is reported as
// such rather than guessed at.
type FontChecker struct {
	Profile venue.Profile
}

// Check tallies character records across all pages. Pages whose character
// data cannot be extracted contribute zero evidence.
func (c FontChecker) Check(doc layout.Document, res *Result) {
	tally := map[string]int{}
	total := 0
	for _, page := range doc.Pages() {
		chars, err := page.Chars()
		if err != nil {
			continue
		}
		for _, ch := range chars {
			if ch.Font == "" {
				continue
			}
			tally[ch.Font]++
			total++
		}
	}
	if total == 0 {
		return
	}

	name, count := dominantFont(tally)
	share := float64(count) / float64(total)
	if share < c.Profile.MinFontShare {
		res.Report.Add(KindFont, fmt.Sprintf(
			"Can't find the main font: the most used font (%s) covers only %.1f%% of the characters.",
			name, share*100))
		return
	}
	if !c.allowed(name) {
		res.Report.Add(KindFont, fmt.Sprintf(
			"Wrong font: the paper is mainly typeset in %s, which is not an accepted typeface for this venue.",
			name))
	}
}

// dominantFont picks the most frequent name; ties break lexicographically so
// repeated runs over the same document stay deterministic.
func dominantFont(tally map[string]int) (string, int) {
	best, bestCount := "", -1
	for name, count := range tally {
		if count > bestCount || (count == bestCount && name < best) {
			best, bestCount = name, count
		}
	}
	return best, bestCount
}

// allowed matches the detected name against the allow-list by substring, so
// subset prefixes and renderer suffixes ("ABCDEF+TimesNewRomanPSMT") still
// match their family entry.
func (c FontChecker) allowed(name string) bool {
	for _, fragment := range c.Profile.FontAllowList {
		if fragment != "" && strings.Contains(name, fragment) {
			return true
		}
	}
	return false
}

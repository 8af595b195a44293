// Package checks implements the formatting validation engine: five checkers
// over one document's extracted layout plus the Runner that sequences them,
// suppresses cascading reports, and aggregates the result.
//
// Checkers run in a fixed order because later checks read the set of pages an
// earlier, more fundamental check has already flagged as unreliable. The
// shared state is threaded explicitly through a Result value rather than held
// globally, so two runs over the same document are independent.
package checks

// Kind identifies one class of violation. Kind values are stable identifiers:
// they key the aggregated report and name the fields of the serialized
// artifact.
type Kind string

const (
	KindSize         Kind = "SIZE"
	KindMargin       Kind = "MARGIN"
	KindFont         Kind = "FONT"
	KindPageLimit    Kind = "PAGE_LIMIT"
	KindParsing      Kind = "PARSING"
	KindBibliography Kind = "BIBLIOGRAPHY"
)

// Advisory reports whether the kind is a warning rather than a hard error.
// Advisory findings never block a submission.
func (k Kind) Advisory() bool { return k == KindBibliography }

// Report maps a violation kind to its ordered human-readable messages. A key
// is present iff at least one message of that kind was produced, so an empty
// report means the document is fully compliant.
type Report map[Kind][]string

// Add appends a message under the given kind.
func (r Report) Add(kind Kind, msg string) {
	r[kind] = append(r[kind], msg)
}

// HasHardErrors reports whether any non-advisory kind is present.
func (r Report) HasHardErrors() bool {
	for kind := range r {
		if !kind.Advisory() {
			return true
		}
	}
	return false
}

// ErrorsOnly returns a copy of r without advisory kinds.
func (r Report) ErrorsOnly() Report {
	out := Report{}
	for kind, msgs := range r {
		if !kind.Advisory() {
			out[kind] = msgs
		}
	}
	return out
}

// PageErrors is the set of 1-indexed page numbers whose layout data is
// already known to be unreliable (wrong size or a failed extraction). Later
// checks consult it to avoid re-reporting such pages.
type PageErrors map[int]struct{}

// Add records a page. Adding the same page twice is a no-op; membership is a
// set, not a multiset.
func (pe PageErrors) Add(page int) { pe[page] = struct{}{} }

// Has reports membership.
func (pe PageErrors) Has(page int) bool {
	_, ok := pe[page]
	return ok
}

// CoversAll reports whether every page of an n-page document is present.
func (pe PageErrors) CoversAll(n int) bool {
	if n == 0 {
		return false
	}
	for page := 1; page <= n; page++ {
		if !pe.Has(page) {
			return false
		}
	}
	return true
}

// Result is the mutable state of one validation run: the report under
// construction and the unreliable-page set. It lives exactly as long as the
// run and is never shared across documents.
type Result struct {
	Report     Report
	PageErrors PageErrors
}

// NewResult returns an empty result ready for a run.
func NewResult() *Result {
	return &Result{Report: Report{}, PageErrors: PageErrors{}}
}

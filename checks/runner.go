package checks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pubcheck/layout"
	"pubcheck/namecheck"
	"pubcheck/observability"
	"pubcheck/venue"
)

// Runner sequences the checkers over one document and aggregates their
// findings. Order matters and is fixed: Size and Margin populate the
// unreliable-page set that PageLimit (and any later check) consults, so the
// pipeline must not be reordered or parallelized within a document. Across
// documents a Runner is safe for concurrent use; each run owns its state.
type Runner struct {
	profile       venue.Profile
	source        layout.Source
	render        layout.RenderOpener
	nameCheck     namecheck.Checker
	log           observability.Logger
	outputDir     string
	disableBottom bool
	onlyErrors    bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithProfile substitutes the venue rule set. Default: venue.Default().
func WithProfile(p venue.Profile) Option {
	return func(r *Runner) { r.profile = p }
}

// WithRenderOpener enables the rendered-pixel margin confirmation and overlay
// artifacts. Without it the margin check runs on geometry alone.
func WithRenderOpener(ro layout.RenderOpener) Option {
	return func(r *Runner) { r.render = ro }
}

// WithNameChecker enables author-name-format delegation.
func WithNameChecker(nc namecheck.Checker) Option {
	return func(r *Runner) { r.nameCheck = nc }
}

// WithLogger installs a logger. Default: observability.NopLogger.
func WithLogger(log observability.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithOutputDir sets where JSON reports and overlay artifacts are written.
// Empty disables artifact output.
func WithOutputDir(dir string) Option {
	return func(r *Runner) { r.outputDir = dir }
}

// WithoutBottomMargin disables the bottom-margin band (venues that permit
// running footers).
func WithoutBottomMargin() Option {
	return func(r *Runner) { r.disableBottom = true }
}

// OnlyErrors drops advisory kinds from the returned and serialized report.
func OnlyErrors() Option {
	return func(r *Runner) { r.onlyErrors = true }
}

// NewRunner builds a Runner reading documents from the given source.
func NewRunner(source layout.Source, opts ...Option) *Runner {
	r := &Runner{
		profile: venue.Default(),
		source:  source,
		log:     observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CheckFile validates one document on disk and returns its report. An empty
// report means the document is fully compliant. The only fatal condition is
// failing to open the document; everything downstream degrades to per-page or
// per-kind findings.
func (r *Runner) CheckFile(ctx context.Context, path, paperType string) (Report, error) {
	start := time.Now()
	doc, err := r.source.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer doc.Close()

	var renderer layout.Renderer
	if r.render != nil {
		renderer, err = r.render.Open(path)
		if err != nil {
			// Geometry-only is still a useful answer.
			r.log.Warn("renderer unavailable, margin check degrades to geometry",
				observability.String("doc", path), observability.Error("error", err))
			renderer = nil
		} else {
			defer renderer.Close()
		}
	}

	report := r.CheckDocument(ctx, doc, renderer, path, paperType)

	if r.outputDir != "" {
		if err := r.writeReport(path, report); err != nil {
			r.log.Warn("report artifact not written",
				observability.String("doc", path), observability.Error("error", err))
		}
	}
	r.log.Debug("document checked",
		observability.String("doc", path),
		observability.Int("findings", len(report)),
		observability.Float64("seconds", time.Since(start).Seconds()))
	return report, nil
}

// CheckDocument runs the checker pipeline over an already-open document.
// Exposed separately so the engine can be driven by synthetic documents.
func (r *Runner) CheckDocument(ctx context.Context, doc layout.Document, renderer layout.Renderer, path, paperType string) Report {
	res := NewResult()
	stem := docStem(path)
	log := r.log.With(observability.String("doc", stem))

	SizeChecker{Profile: r.profile}.Check(doc, res)
	margin := &MarginChecker{
		Profile:       r.profile,
		Renderer:      renderer,
		DisableBottom: r.disableBottom,
		ArtifactDir:   r.outputDir,
		DocStem:       stem,
		Log:           log,
	}
	margin.Check(ctx, doc, res)
	FontChecker{Profile: r.profile}.Check(doc, res)
	PageLimitChecker{Profile: r.profile, PaperType: paperType}.Check(doc, res)
	refs := &ReferencesChecker{
		Profile:   r.profile,
		DocPath:   path,
		NameCheck: r.nameCheck,
		Log:       log,
	}
	refs.Check(ctx, doc, res)

	report := res.Report
	if r.onlyErrors {
		report = report.ErrorsOnly()
	}
	return report
}

// writeReport serializes the report keyed by violation-kind name, one file
// per document.
func (r *Runner) writeReport(path string, report Report) error {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	out := filepath.Join(r.outputDir, fmt.Sprintf("errors-%s.json", docStem(path)))
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// docStem derives the artifact filename stem from the document's own
// identity, so concurrent runs over different documents never collide.
func docStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

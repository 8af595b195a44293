// Command pubcheck validates paper PDFs against a venue's formatting rules.
//
// Usage:
//
//	pubcheck [flags] <pdf-or-directory>...
//
// Directories are searched recursively for .pdf files. Each discovered
// document is validated independently; the per-document reports are written
// to the output directory and a summary is printed at the end. The process
// exits 0 when every document is clean (advisories included, unless
// -only-errors), 1 when any hard error was found, and 2 on usage errors.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"pubcheck/checks"
	"pubcheck/layout/fitzrender"
	"pubcheck/layout/pdffile"
	"pubcheck/metrics"
	"pubcheck/namecheck"
	"pubcheck/observability"
	"pubcheck/venue"
)

type options struct {
	paths              []string
	paperType          string
	workers            int
	outputDir          string
	profilePath        string
	namecheckCmd       string
	disableBottomCheck bool
	disableNameCheck   bool
	disableRendering   bool
	onlyErrors         bool
	metricsAddr        string
	verbose            bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "pubcheck: %v\n", err)
		os.Exit(2)
	}
	code, err := run(context.Background(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pubcheck: %v\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}

func parseFlags(args []string) (options, error) {
	var opts options
	flags := flag.NewFlagSet("pubcheck", flag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: pubcheck [flags] <pdf-or-directory>...\n")
		flags.PrintDefaults()
	}
	flags.StringVar(&opts.paperType, "paper-type", "long", "Paper type label used for the page-count quota (e.g. short, long)")
	flags.IntVar(&opts.workers, "workers", 4, "Number of documents validated concurrently")
	flags.StringVar(&opts.outputDir, "output", "pubcheck_output", "Directory for JSON reports and margin overlays")
	flags.StringVar(&opts.profilePath, "profile", "", "Venue profile YAML (default: built-in rules)")
	flags.StringVar(&opts.namecheckCmd, "namecheck-cmd", "", "External author-name checker command (empty: name check skipped)")
	flags.BoolVar(&opts.disableBottomCheck, "disable-bottom-check", false, "Skip the bottom-margin band (venues permitting running footers)")
	flags.BoolVar(&opts.disableNameCheck, "disable-name-check", false, "Skip the author-name-format delegation")
	flags.BoolVar(&opts.disableRendering, "disable-rendering", false, "Skip pixel confirmation and overlays; margins judged on geometry alone")
	flags.BoolVar(&opts.onlyErrors, "only-errors", false, "Report hard errors only, dropping advisory warnings")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run (e.g. :9090)")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	if err := flags.Parse(args); err != nil {
		return options{}, err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return options{}, fmt.Errorf("no submission paths given")
	}
	if opts.workers < 1 {
		return options{}, fmt.Errorf("workers must be at least 1")
	}
	opts.paths = flags.Args()
	return opts, nil
}

func run(ctx context.Context, opts options) (int, error) {
	backend := logrus.New()
	backend.SetLevel(logrus.InfoLevel)
	if opts.verbose {
		backend.SetLevel(logrus.DebugLevel)
	}
	log := observability.NewLogrus(backend)

	profile := venue.Default()
	if opts.profilePath != "" {
		var err error
		profile, err = venue.Load(opts.profilePath)
		if err != nil {
			return 0, err
		}
	}

	files, err := discoverPDFs(opts.paths)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		// Distinct from a clean run: nothing was validated at all.
		fmt.Println("No PDF files found under the given paths.")
		return 0, nil
	}

	if opts.metricsAddr != "" {
		go serveMetrics(opts.metricsAddr, log)
	}

	runnerOpts := []checks.Option{
		checks.WithProfile(profile),
		checks.WithLogger(log),
		checks.WithOutputDir(opts.outputDir),
	}
	if !opts.disableRendering {
		runnerOpts = append(runnerOpts, checks.WithRenderOpener(fitzrender.Opener{}))
	}
	if !opts.disableNameCheck && opts.namecheckCmd != "" {
		runnerOpts = append(runnerOpts, checks.WithNameChecker(namecheck.External{Command: opts.namecheckCmd}))
	}
	if opts.disableBottomCheck {
		runnerOpts = append(runnerOpts, checks.WithoutBottomMargin())
	}
	if opts.onlyErrors {
		runnerOpts = append(runnerOpts, checks.OnlyErrors())
	}
	runner := checks.NewRunner(pdffile.Source{}, runnerOpts...)

	summary := newSummary()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers)
	for _, file := range files {
		g.Go(func() error {
			start := time.Now()
			report, err := runner.CheckFile(ctx, file, opts.paperType)
			metrics.ObserveDuration(start)
			if err != nil {
				metrics.DocumentsChecked.WithLabelValues("failed").Inc()
				log.Error("document could not be validated",
					observability.String("doc", file), observability.Error("error", err))
				summary.recordFailure(file, err)
				return nil
			}
			outcome := "clean"
			if len(report) > 0 {
				outcome = "violations"
			}
			metrics.DocumentsChecked.WithLabelValues(outcome).Inc()
			for kind, msgs := range report {
				metrics.Violations.WithLabelValues(string(kind)).Add(float64(len(msgs)))
			}
			summary.record(file, report)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	summary.print(os.Stdout)
	if summary.hardErrors() {
		return 1, nil
	}
	return 0, nil
}

// discoverPDFs expands each argument into the .pdf files beneath it.
func discoverPDFs(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func serveMetrics(addr string, log observability.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warn("metrics listener stopped", observability.Error("error", err))
	}
}

// summary collects per-document outcomes across the worker pool. It is the
// only state the workers share.
type summary struct {
	mu       sync.Mutex
	clean    int
	flagged  map[string]checks.Report
	failures map[string]error
}

func newSummary() *summary {
	return &summary{
		flagged:  map[string]checks.Report{},
		failures: map[string]error{},
	}
}

func (s *summary) record(file string, report checks.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(report) == 0 {
		s.clean++
		return
	}
	s.flagged[file] = report
}

func (s *summary) recordFailure(file string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[file] = err
}

func (s *summary) hardErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.failures) > 0 {
		return true
	}
	for _, report := range s.flagged {
		if report.HasHardErrors() {
			return true
		}
	}
	return false
}

func (s *summary) print(w *os.File) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := make([]string, 0, len(s.flagged))
	for file := range s.flagged {
		files = append(files, file)
	}
	sort.Strings(files)
	for _, file := range files {
		report := s.flagged[file]
		fmt.Fprintf(w, "%s:\n", file)
		for _, kind := range []checks.Kind{
			checks.KindSize, checks.KindMargin, checks.KindFont,
			checks.KindPageLimit, checks.KindParsing, checks.KindBibliography,
		} {
			for _, msg := range report[kind] {
				label := "error"
				if kind.Advisory() {
					label = "warning"
				}
				fmt.Fprintf(w, "  [%s/%s] %s\n", label, kind, msg)
			}
		}
	}

	failed := make([]string, 0, len(s.failures))
	for file := range s.failures {
		failed = append(failed, file)
	}
	sort.Strings(failed)
	for _, file := range failed {
		fmt.Fprintf(w, "%s: could not be validated: %v\n", file, s.failures[file])
	}

	total := s.clean + len(s.flagged) + len(s.failures)
	fmt.Fprintf(w, "Checked %d document(s): %d clean, %d with findings, %d failed.\n",
		total, s.clean, len(s.flagged), len(s.failures))
}

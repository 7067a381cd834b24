package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdinbox/internal/logging"
	"github.com/yaklabco/mdinbox/pkg/fsutil"
	"github.com/yaklabco/mdinbox/pkg/markdown"
	"github.com/yaklabco/mdinbox/pkg/textdiff"
)

// Runner checks files with a shared parser and serializer. Both are safe
// for concurrent use.
type Runner struct {
	parser     *markdown.Parser
	serializer *markdown.Serializer
	logger     *log.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for per-file debug output.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// New creates a Runner.
func New(parser *markdown.Parser, serializer *markdown.Serializer, opts ...Option) *Runner {
	r := &Runner{
		parser:     parser,
		serializer: serializer,
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run discovers files under opts.Paths and checks them with a worker pool.
// The result lists files in discovery order whatever order they finish in.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("check cancelled: %w", ctx.Err())
	}
	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := r.CheckFile(ctx, path)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// CheckFile reads path and checks its content.
func (r *Runner) CheckFile(ctx context.Context, path string) FileOutcome {
	data, found, err := fsutil.ReadIfExists(ctx, path)
	if err == nil && !found {
		err = fmt.Errorf("read %s: file not found", path)
	}
	if err != nil {
		return FileOutcome{Path: path, Error: err}
	}

	outcome := r.Check(path, string(data))
	r.logger.Debug("checked", logging.FieldPath, path, "stable", outcome.Stable, "warnings", len(outcome.Warnings))
	return outcome
}

// Check parses source and verifies that the parsed document survives a
// serialize/parse round trip.
func (r *Runner) Check(name, source string) FileOutcome {
	parsed := r.parser.Parse(source)
	trip := markdown.RoundTrip(r.parser, r.serializer, parsed.Document)

	return FileOutcome{
		Path:     name,
		Stable:   trip.Stable,
		Warnings: parsed.Warnings,
		Diff:     textdiff.Compare(name, trip.First, trip.Second),
	}
}

package lint

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"jsstyle/internal/slogutil"
)

// ResultCache remembers the issues of files that were linted before.
// Implementations must be safe for concurrent use.
type ResultCache interface {
	Lookup(path string, src []byte) ([]Issue, bool)
	Store(path string, src []byte, issues []Issue) error
}

// FileResult is one file's outcome in a run.
type FileResult struct {
	Path     string
	Original []byte
	Result   *Result
	Err      error
	Cached   bool
}

// RunnerConfig contains configuration for the runner.
type RunnerConfig struct {
	// WorkerCount is the number of files linted in parallel.
	WorkerCount int
	// Fix applies fixes instead of only reporting.
	Fix bool
	// Cache is optional; it is bypassed in fix mode.
	Cache ResultCache
}

// DefaultRunnerConfig returns the default runner configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: runtime.NumCPU(),
	}
}

// Runner lints many files with a bounded pool of workers. Every worker owns
// a parser and a Linter; rule handlers are created per file.
type Runner struct {
	newParser func() Parser
	rules     []ActiveRule
	logger    *slog.Logger
	config    RunnerConfig
}

// NewRunner creates a runner. newParser is called once per worker.
func NewRunner(newParser func() Parser, rules []ActiveRule, logger *slog.Logger, config RunnerConfig) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = runtime.NumCPU()
	}
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Runner{
		newParser: newParser,
		rules:     rules,
		logger:    logger,
		config:    config,
	}
}

// Run lints paths and returns one result per path, in the order given.
func (r *Runner) Run(ctx context.Context, paths []string) []FileResult {
	start := time.Now()
	results := make([]FileResult, len(paths))

	workers := r.config.WorkerCount
	if workers > len(paths) {
		workers = len(paths)
	}

	queue := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, paths, queue, results)
		}()
	}

feed:
	for i := range paths {
		if ctx.Err() == nil {
			select {
			case queue <- i:
				continue
			case <-ctx.Done():
			}
		}
		for j := i; j < len(paths); j++ {
			results[j] = FileResult{Path: paths[j], Err: ctx.Err()}
		}
		break feed
	}
	close(queue)
	wg.Wait()

	r.logger.Debug("Lint run finished",
		"files", len(paths),
		"workers", workers,
		"duration", time.Since(start).String(),
	)
	return results
}

func (r *Runner) worker(ctx context.Context, paths []string, queue <-chan int, results []FileResult) {
	parser := r.newParser()
	if c, ok := parser.(interface{ Close() }); ok {
		defer c.Close()
	}
	linter := NewLinter(parser, r.rules, r.logger)

	for i := range queue {
		results[i] = r.lintFile(ctx, linter, paths[i])
	}
}

func (r *Runner) lintFile(ctx context.Context, linter *Linter, path string) FileResult {
	fr := FileResult{Path: path}

	src, err := os.ReadFile(path)
	if err != nil {
		fr.Err = fmt.Errorf("read %s: %w", path, err)
		return fr
	}
	fr.Original = src

	cache := r.config.Cache
	if cache != nil && !r.config.Fix {
		if issues, ok := cache.Lookup(path, src); ok {
			fr.Cached = true
			fr.Result = &Result{Path: path, Issues: issues, Source: src}
			return fr
		}
	}

	if r.config.Fix {
		fr.Result, fr.Err = linter.Fix(ctx, path, src)
	} else {
		fr.Result, fr.Err = linter.Lint(ctx, path, src)
	}
	if fr.Err != nil {
		r.logger.Warn("Lint failed", "path", path, "error", fr.Err)
		return fr
	}

	if cache != nil && !fr.Result.HasSyntaxErrors {
		if err := cache.Store(path, fr.Result.Source, fr.Result.Issues); err != nil {
			r.logger.Warn("Cache write failed", "path", path, "error", err)
		}
	}
	return fr
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	nbpublish "github.com/devmotion/process-notebooks-action"
	"github.com/devmotion/process-notebooks-action/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrReadNotebook = errors.New("failed to read notebook file")
	ErrWriteOutput  = errors.New("failed to write output file")
	ErrNoFiles      = errors.New("no notebook files found")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// ProcessResult holds the outcome of publishing a single notebook.
type ProcessResult struct {
	InputPath string
	Outputs   []string
	Err       error
	Duration  time.Duration
}

// run orchestrates the batch: config, discovery, processing, reporting.
func run(ctx context.Context, flags *appFlags, paths []string, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	var err error
	if flags.config != "" {
		cfg, err = config.Load(flags.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	if err := mergeFlags(flags, cfg); err != nil {
		return err
	}

	if len(paths) == 0 {
		if cfg.Input.DefaultDir == "" {
			return ErrNoInput
		}
		paths = []string{cfg.Input.DefaultDir}
	}

	files, err := discoverFiles(paths, cfg, flags.outdir, cfg.PDF.Enabled)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: %v", ErrNoFiles, paths)
	}

	opts, err := serviceOptions(cfg)
	if err != nil {
		return err
	}

	poolSize := resolvePoolSize(flags.workers)
	if flags.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := NewServicePool(poolSize, opts...)
	defer pool.Close()

	results := processBatch(ctx, pool, files, cfg.PDF.Enabled, env.Now)

	failedCount := printResults(results, flags.quiet, flags.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d notebook(s) failed", failedCount)
	}

	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *appFlags, cfg *config.Config) error {
	if flags.extension != "" {
		cfg.Input.Extension = flags.extension
	}
	if flags.pattern != "" {
		cfg.Input.Pattern = flags.pattern
	}
	if flags.outdir != "" {
		cfg.Output.DefaultDir = flags.outdir
	}
	if flags.style != "" {
		cfg.HTML.Style = flags.style
	}
	if flags.allowCopy {
		cfg.HTML.AllowCopy = true
	}
	if flags.pdf {
		cfg.PDF.Enabled = true
	}
	if flags.timeout != "" {
		cfg.PDF.Timeout = flags.timeout
	}
	return cfg.Validate()
}

// serviceOptions translates config into nbpublish options.
func serviceOptions(cfg *config.Config) ([]nbpublish.Option, error) {
	var opts []nbpublish.Option
	if cfg.HTML.Style != "" {
		opts = append(opts, nbpublish.WithStyle(cfg.HTML.Style))
	}
	if cfg.HTML.AllowCopy {
		opts = append(opts, nbpublish.WithCopyAllowed())
	}
	if cfg.PDF.Timeout != "" {
		d, err := time.ParseDuration(cfg.PDF.Timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid timeout %q (expected e.g. 30s)", cfg.PDF.Timeout)
		}
		opts = append(opts, nbpublish.WithTimeout(d))
	}
	return opts, nil
}

// processBatch publishes files concurrently using the service pool.
func processBatch(ctx context.Context, pool Pool, files []FileToProcess, pdf bool, now func() time.Time) []ProcessResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]ProcessResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc := pool.Acquire()
			defer pool.Release(svc)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ProcessResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = processFile(ctx, svc, files[idx], pdf, now)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// processFile publishes a single notebook and returns the result.
// All output streams are produced before the first write, so a filter
// error leaves no partial files behind.
func processFile(ctx context.Context, svc Processor, f FileToProcess, pdf bool, now func() time.Time) ProcessResult {
	start := now()
	result := ProcessResult{InputPath: f.InputPath}

	fail := func(err error) ProcessResult {
		result.Err = err
		result.Duration = now().Sub(start)
		return result
	}

	data, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadNotebook, err))
	}

	out, err := svc.Process(ctx, nbpublish.Input{
		Source: data,
		Name:   filepath.Base(f.InputPath),
		PDF:    pdf,
	})
	if err != nil {
		return fail(fmt.Errorf("%s: %w", f.InputPath, err))
	}

	outputs := []outputFile{
		{f.HTMLPath, out.HTML},
		{f.CleanPath, out.Notebook},
	}
	if pdf {
		outputs = append(outputs, outputFile{f.PDFPath, out.PDF})
	}

	for _, o := range outputs {
		if err := writeOutput(o.path, o.data); err != nil {
			return fail(err)
		}
		result.Outputs = append(result.Outputs, o.path)
	}

	result.Duration = now().Sub(start)
	return result
}

// outputFile pairs an output path with its content.
type outputFile struct {
	path string
	data []byte
}

// writeOutput writes one output file, creating its directory.
func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	// #nosec G306 -- published artifacts are meant to be readable
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// printResults outputs per-file results using the environment's writers.
// Returns the number of failed notebooks.
func printResults(results []ProcessResult, quiet, verbose bool, env *Environment) int {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		succeeded++
		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %v (%v)\n", r.InputPath, r.Outputs, r.Duration.Round(time.Millisecond))
		} else {
			for _, path := range r.Outputs {
				fmt.Fprintf(env.Stdout, "Writing file %s\n", path)
			}
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}

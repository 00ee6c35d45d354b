package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/devmotion/process-notebooks-action/internal/config"
)

// Sentinel errors for file discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrInvalidExtension   = errors.New("file does not match the notebook extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// maxWorkers caps the worker pool; each worker may hold a browser.
const maxWorkers = 32

// FileToProcess is one notebook with its resolved output locations.
type FileToProcess struct {
	InputPath string
	HTMLPath  string // solutions HTML
	CleanPath string // public notebook
	PDFPath   string // solutions PDF, empty unless PDF output is enabled
}

// discoverFiles resolves the positional paths to the set of notebooks to
// process. A path may be a notebook file or a directory; directories are
// scanned with the configured glob pattern (default: top-level
// "*.<extension>"). Duplicates collapse and the result is sorted for a
// deterministic batch order.
func discoverFiles(paths []string, cfg *config.Config, outdir string, pdf bool) ([]FileToProcess, error) {
	inputs := map[string]struct{}{}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if err := validateNotebookExtension(path, cfg.Extension()); err != nil {
				return nil, err
			}
			inputs[filepath.Clean(path)] = struct{}{}
			continue
		}

		pattern := cfg.Input.Pattern
		if pattern == "" {
			pattern = "*." + cfg.Extension()
		}
		matches, err := doublestar.FilepathGlob(filepath.Join(path, pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", path, err)
		}
		for _, m := range matches {
			inputs[filepath.Clean(m)] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(inputs))
	for path := range inputs {
		sorted = append(sorted, path)
	}
	sort.Strings(sorted)

	files := make([]FileToProcess, len(sorted))
	for i, path := range sorted {
		files[i] = resolveOutputPaths(path, cfg, outdir, pdf)
	}
	return files, nil
}

// resolveOutputPaths derives the output locations for one notebook:
// <outdir>/<buildDir>/<stem>.<ext> for the public copy and
// <outdir>/<buildDir>/<solutionsDir>/<stem>.html (and .pdf) for the
// solutions render.
func resolveOutputPaths(inputPath string, cfg *config.Config, outdir string, pdf bool) FileToProcess {
	if outdir == "" {
		outdir = cfg.Output.DefaultDir
	}
	buildDir := filepath.Join(outdir, cfg.Output.BuildDir)
	solutionsDir := filepath.Join(buildDir, cfg.Output.SolutionsDir)

	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	f := FileToProcess{
		InputPath: inputPath,
		HTMLPath:  filepath.Join(solutionsDir, stem+".html"),
		CleanPath: filepath.Join(buildDir, stem+"."+cfg.Extension()),
	}
	if pdf {
		f.PDFPath = filepath.Join(solutionsDir, stem+".pdf")
	}
	return f
}

// validateNotebookExtension checks that an explicitly given file has the
// configured notebook extension.
func validateNotebookExtension(path, extension string) error {
	if filepath.Ext(path) != "."+extension {
		return fmt.Errorf("%w: %s (expected .%s)", ErrInvalidExtension, path, extension)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

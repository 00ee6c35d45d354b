package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// appFlags holds all flags of the single-operation CLI.
type appFlags struct {
	config    string
	extension string
	outdir    string
	pattern   string
	style     string
	pdf       bool
	allowCopy bool
	workers   int
	timeout   string
	quiet     bool
	verbose   bool
	version   bool
}

// parseFlags parses CLI flags and returns the positional path arguments.
func parseFlags(args []string) (*appFlags, []string, error) {
	fs := flag.NewFlagSet("nbpublish", flag.ContinueOnError)
	f := &appFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.extension, "extension", "e", "", "notebook file extension (default: ipynb)")
	fs.StringVarP(&f.outdir, "outdir", "o", "", "output directory (files go to its build/ subdirectory)")
	fs.StringVar(&f.pattern, "pattern", "", "glob pattern for directory scans (e.g. '**/*.ipynb')")
	fs.StringVar(&f.style, "style", "", "syntax highlighting style for the solutions HTML")
	fs.BoolVar(&f.pdf, "pdf", false, "also render the solutions document to PDF")
	fs.BoolVar(&f.allowCopy, "allow-copy", false, "keep code selectable in the solutions HTML")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF rendering timeout (e.g., 30s, 2m)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

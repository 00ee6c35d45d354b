package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nbpublish [flags] <path>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Jupyter notebooks to a solutions HTML document and a public")
	fmt.Fprintln(w, "notebook with solution code stripped. Cells tagged 'remove' are")
	fmt.Fprintln(w, "dropped, code cells tagged 'keep' are copied, and code between")
	fmt.Fprintln(w, "'#<keep>' and '#</keep>' lines survives stripping.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  path    Notebook file or working directory (optional if config has")
	fmt.Fprintln(w, "          input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -e, --extension <s>   Notebook file extension (default: ipynb)")
	fmt.Fprintln(w, "  -o, --outdir <path>   Output directory; files go to its build/ subdirectory")
	fmt.Fprintln(w, "      --pattern <s>     Glob pattern for directory scans (e.g. '**/*.ipynb')")
	fmt.Fprintln(w, "  -c, --config <name>   Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>     Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Solutions document:")
	fmt.Fprintln(w, "      --style <s>       Syntax highlighting style")
	fmt.Fprintln(w, "      --allow-copy      Keep code selectable in the HTML")
	fmt.Fprintln(w, "      --pdf             Also render a PDF (requires Chrome/Chromium)")
	fmt.Fprintln(w, "  -t, --timeout <d>     PDF rendering timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -q, --quiet           Only show errors")
	fmt.Fprintln(w, "  -v, --verbose         Show detailed timing")
	fmt.Fprintln(w, "      --version         Print version and exit")
}

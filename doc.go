// Package nbpublish prepares Jupyter notebooks for publication.
//
// Course notebooks typically contain solution code that must not reach
// students. nbpublish produces two artifacts from each notebook: an HTML
// rendering of the full notebook for instructor use, and a "public" copy
// of the notebook with solution code removed.
//
// # Quick Start
//
// Create a service and process raw notebook bytes:
//
//	svc := nbpublish.New()
//	defer svc.Close()
//
//	result, err := svc.Process(ctx, nbpublish.Input{
//	    Source: data,
//	    Name:   "lab1.ipynb",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("lab1.html", result.HTML, 0644)
//	os.WriteFile("lab1_public.ipynb", result.Notebook, 0644)
//
// # Filtering Rules
//
// In the public copy,
//   - cells tagged "remove" are dropped regardless of their type,
//   - code cells tagged "keep" are copied verbatim,
//   - all other code cells are reduced to the content of their marker
//     blocks, delimited by "#<keep>\n" and "#</keep>\n" lines.
//
// A code cell may contain any number of marker blocks. The trailing
// newline of the closing marker may be omitted when the marker ends the
// cell. A "#<keep>" with no matching "#</keep>" fails the whole
// notebook and no output is produced for it.
//
// # HTML Rendering
//
// The HTML document renders the unfiltered notebook: markdown cells via
// Goldmark (GFM), code cells with chroma syntax highlighting, and text
// outputs as preformatted blocks. Marker lines are deleted before
// rendering, and CSS that suppresses text selection in code areas is
// injected so solutions are harder to copy out of the page.
//
// # Optional PDF
//
// Input.PDF requests a PDF of the solutions document, rendered with
// headless Chrome via go-rod. Rod downloads a managed Chromium on first
// use; set ROD_BROWSER_BIN to point at a pre-installed browser in
// containers.
package nbpublish

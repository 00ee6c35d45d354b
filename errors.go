package nbpublish

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyNotebook    = errors.New("notebook content cannot be empty")
	ErrNotebookParse    = errors.New("failed to parse notebook")
	ErrUnsupportedCell  = errors.New("unsupported cell type")
	ErrUnterminatedKeep = errors.New("unterminated #<keep> block")
	ErrHTMLRender       = errors.New("HTML rendering failed")
	ErrPDFGeneration    = errors.New("PDF generation failed")
	ErrBrowserConnect   = errors.New("failed to connect to browser")
	ErrPageCreate       = errors.New("failed to create browser page")
	ErrPageLoad         = errors.New("failed to load page")
)

package nbpublish

import "time"

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

// Input contains processing parameters for one notebook.
type Input struct {
	Source []byte // Raw ipynb bytes (required)
	Name   string // File name, used for the HTML title and error context (optional)
	PDF    bool   // Also render the solutions document to PDF
}

// Result holds all output byte streams for one notebook. Callers decide
// where the streams go; nothing is written until every stream has been
// produced, so a filter error never leaves partial output behind.
type Result struct {
	HTML     []byte // Solutions document (unfiltered notebook)
	Notebook []byte // Public notebook (filtered)
	PDF      []byte // Solutions PDF, nil unless requested
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout   time.Duration
	style     string
	allowCopy bool
}

// defaultTimeout bounds PDF rendering when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("nbpublish: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithStyle sets the chroma syntax-highlighting style for the solutions
// document. Unknown names fall back to the chroma default.
func WithStyle(name string) Option {
	return func(s *Service) {
		s.cfg.style = name
	}
}

// WithCopyAllowed disables the copy-deterrent CSS in the solutions
// document, leaving code areas selectable.
func WithCopyAllowed() Option {
	return func(s *Service) {
		s.cfg.allowCopy = true
	}
}

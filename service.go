package nbpublish

import (
	"context"
	"fmt"
)

// Service orchestrates the notebook publishing pipeline:
// parse, render solutions HTML, filter, serialize.
type Service struct {
	cfg          serviceConfig
	exporter     *HTMLExporter
	pdfConverter pdfConverter
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithStyle).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout: defaultTimeout,
			style:   DefaultStyle,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.exporter = NewHTMLExporter(s.cfg.style)

	// Create PDF converter if not injected (e.g., by tests).
	// The browser connects lazily, so this is free unless PDF is used.
	if s.pdfConverter == nil {
		s.pdfConverter = newRodConverter(s.cfg.timeout)
	}

	return s
}

// Process runs the full pipeline for one notebook. All outputs are
// produced in memory; a malformed marker block fails the call before
// any Result exists, so callers cannot write partial files.
func (s *Service) Process(ctx context.Context, input Input) (*Result, error) {
	if len(input.Source) == 0 {
		return nil, ErrEmptyNotebook
	}

	nb, err := ReadNotebook(input.Source)
	if err != nil {
		return nil, err
	}

	// Filter first: a malformed cell must abort before rendering.
	clean, err := Clean(nb)
	if err != nil {
		return nil, err
	}

	cleanData, err := WriteNotebook(clean)
	if err != nil {
		return nil, err
	}

	htmlContent, err := s.exporter.Export(ctx, nb, input.Name)
	if err != nil {
		return nil, fmt.Errorf("rendering solutions HTML: %w", err)
	}
	if !s.cfg.allowCopy {
		htmlContent = InjectCSS(htmlContent, noCopyCSS)
	}

	result := &Result{
		HTML:     []byte(htmlContent),
		Notebook: cleanData,
	}

	if input.PDF {
		pdfBytes, err := s.pdfConverter.ToPDF(ctx, htmlContent)
		if err != nil {
			return nil, fmt.Errorf("rendering solutions PDF: %w", err)
		}
		result.PDF = pdfBytes
	}

	return result, nil
}

// Close releases resources (headless Chrome browser, if one was used).
func (s *Service) Close() error {
	if s.pdfConverter != nil {
		return s.pdfConverter.Close()
	}
	return nil
}

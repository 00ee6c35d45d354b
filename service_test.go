package nbpublish

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// notebookJSON is a three-cell fixture: markdown intro, a removed
// solution cell, and a code cell with one marker block.
const notebookJSON = `{
 "cells": [
  {"cell_type": "markdown", "metadata": {}, "source": ["# Exercise\n"]},
  {"cell_type": "code", "execution_count": 1, "metadata": {"tags": ["remove"]},
   "outputs": [], "source": ["solution()\n"]},
  {"cell_type": "code", "execution_count": 2, "metadata": {},
   "outputs": [], "source": ["hidden()\n", "#<keep>\n", "print(1)\n", "#</keep>\n"]}
 ],
 "metadata": {"kernelspec": {"language": "python", "name": "python3"}},
 "nbformat": 4,
 "nbformat_minor": 5
}`

func TestServiceProcess(t *testing.T) {
	svc := New()
	defer svc.Close()

	result, err := svc.Process(context.Background(), Input{
		Source: []byte(notebookJSON),
		Name:   "exercise.ipynb",
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	htmlContent := string(result.HTML)
	if !strings.Contains(htmlContent, "<title>exercise.ipynb</title>") {
		t.Error("HTML missing title")
	}
	if !strings.Contains(htmlContent, "user-select: none") {
		t.Error("HTML missing copy-deterrent CSS")
	}
	if strings.Contains(htmlContent, "#&lt;keep&gt;") {
		t.Error("HTML must not show marker lines")
	}

	clean, err := ReadNotebook(result.Notebook)
	if err != nil {
		t.Fatalf("ReadNotebook(result.Notebook) error = %v", err)
	}
	if len(clean.Cells) != 2 {
		t.Fatalf("public notebook has %d cells, want 2", len(clean.Cells))
	}
	if got := string(clean.Cells[1].Source); got != "print(1)\n" {
		t.Errorf("public code cell source = %q, want %q", got, "print(1)\n")
	}

	if result.PDF != nil {
		t.Error("PDF produced without being requested")
	}
}

func TestServiceProcessCopyAllowed(t *testing.T) {
	svc := New(WithCopyAllowed())
	defer svc.Close()

	result, err := svc.Process(context.Background(), Input{Source: []byte(notebookJSON)})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if strings.Contains(string(result.HTML), "user-select: none") {
		t.Error("copy-deterrent CSS injected despite WithCopyAllowed")
	}
}

func TestServiceProcessErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   error
	}{
		{
			name:   "empty input",
			source: "",
			want:   ErrEmptyNotebook,
		},
		{
			name:   "unparsable input",
			source: "not a notebook",
			want:   ErrNotebookParse,
		},
		{
			name: "unterminated marker block",
			source: `{
 "cells": [{"cell_type": "code", "execution_count": null, "metadata": {},
  "outputs": [], "source": ["#<keep>\n", "print(1)\n"]}],
 "metadata": {}, "nbformat": 4, "nbformat_minor": 5
}`,
			want: ErrUnterminatedKeep,
		},
	}

	svc := New()
	defer svc.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Process(context.Background(), Input{Source: []byte(tt.source)})
			if !errors.Is(err, tt.want) {
				t.Errorf("Process() error = %v, want %v", err, tt.want)
			}
			if result != nil {
				t.Error("Process() must not return a result on error")
			}
		})
	}
}

// fakePDFConverter records calls without launching a browser.
type fakePDFConverter struct {
	pdf    []byte
	err    error
	calls  int
	closed bool
}

func (f *fakePDFConverter) ToPDF(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	return f.pdf, f.err
}

func (f *fakePDFConverter) Close() error {
	f.closed = true
	return nil
}

func TestServiceProcessPDF(t *testing.T) {
	fake := &fakePDFConverter{pdf: []byte("%PDF-fake")}
	svc := New()
	svc.pdfConverter = fake
	defer svc.Close()

	result, err := svc.Process(context.Background(), Input{
		Source: []byte(notebookJSON),
		PDF:    true,
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if string(result.PDF) != "%PDF-fake" {
		t.Errorf("result.PDF = %q, want fake bytes", result.PDF)
	}
	if fake.calls != 1 {
		t.Errorf("ToPDF called %d times, want 1", fake.calls)
	}
}

func TestServiceProcessPDFError(t *testing.T) {
	fake := &fakePDFConverter{err: ErrPDFGeneration}
	svc := New()
	svc.pdfConverter = fake

	_, err := svc.Process(context.Background(), Input{
		Source: []byte(notebookJSON),
		PDF:    true,
	})
	if !errors.Is(err, ErrPDFGeneration) {
		t.Errorf("Process() error = %v, want ErrPDFGeneration", err)
	}
}

func TestServiceClose(t *testing.T) {
	fake := &fakePDFConverter{}
	svc := New()
	svc.pdfConverter = fake

	if err := svc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !fake.closed {
		t.Error("Close() did not close the PDF converter")
	}
}

func TestWithTimeoutPanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) should panic")
		}
	}()
	WithTimeout(0)
}

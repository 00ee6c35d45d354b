package nbpublish

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestSourceTextUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single string",
			input:    `"print(1)\nprint(2)\n"`,
			expected: "print(1)\nprint(2)\n",
		},
		{
			name:     "list of lines",
			input:    `["print(1)\n", "print(2)\n"]`,
			expected: "print(1)\nprint(2)\n",
		},
		{
			name:     "empty list",
			input:    `[]`,
			expected: "",
		},
		{
			name:     "list without trailing newline",
			input:    `["a\n", "b"]`,
			expected: "a\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s SourceText
			if err := json.Unmarshal([]byte(tt.input), &s); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if string(s) != tt.expected {
				t.Errorf("Unmarshal() = %q, want %q", s, tt.expected)
			}
		})
	}
}

func TestSourceTextUnmarshalInvalid(t *testing.T) {
	var s SourceText
	if err := json.Unmarshal([]byte(`{"not": "source"}`), &s); err == nil {
		t.Error("Unmarshal() expected error for object source")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty source yields empty list",
			input:    "",
			expected: []string{},
		},
		{
			name:     "lines keep their newlines",
			input:    "a\nb\n",
			expected: []string{"a\n", "b\n"},
		},
		{
			name:     "final line without newline",
			input:    "a\nb",
			expected: []string{"a\n", "b"},
		},
		{
			name:     "blank lines survive",
			input:    "a\n\nb\n",
			expected: []string{"a\n", "\n", "b\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("splitLines(%q) = %#v, want %#v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCellTags(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]any
		expected []string
	}{
		{
			name:     "no metadata",
			metadata: nil,
			expected: nil,
		},
		{
			name:     "no tags key",
			metadata: map[string]any{"collapsed": true},
			expected: nil,
		},
		{
			name:     "tags from JSON decode are []any",
			metadata: map[string]any{"tags": []any{"keep", "slide"}},
			expected: []string{"keep", "slide"},
		},
		{
			name:     "non-string entries skipped",
			metadata: map[string]any{"tags": []any{"keep", 3}},
			expected: []string{"keep"},
		},
		{
			name:     "malformed tags treated as empty",
			metadata: map[string]any{"tags": "keep"},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := Cell{Metadata: tt.metadata}
			got := cell.Tags()
			if len(got) != len(tt.expected) {
				t.Fatalf("Tags() = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Tags()[%d] = %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestReadNotebook(t *testing.T) {
	data := []byte(`{
  "cells": [
    {"cell_type": "markdown", "metadata": {}, "source": ["# Lab 1\n"]},
    {"cell_type": "code", "execution_count": 3, "metadata": {"tags": ["keep"]},
     "outputs": [{"output_type": "stream", "name": "stdout", "text": ["hi\n"]}],
     "source": "print(\"hi\")"}
  ],
  "metadata": {"kernelspec": {"language": "python", "name": "python3"}},
  "nbformat": 4,
  "nbformat_minor": 5
}`)

	nb, err := ReadNotebook(data)
	if err != nil {
		t.Fatalf("ReadNotebook() error = %v", err)
	}

	if len(nb.Cells) != 2 {
		t.Fatalf("len(Cells) = %d, want 2", len(nb.Cells))
	}
	if nb.Cells[0].Kind != KindMarkdown {
		t.Errorf("Cells[0].Kind = %q, want markdown", nb.Cells[0].Kind)
	}
	if got := string(nb.Cells[0].Source); got != "# Lab 1\n" {
		t.Errorf("Cells[0].Source = %q, want %q", got, "# Lab 1\n")
	}
	if !nb.Cells[1].HasTag(TagKeep) {
		t.Error("Cells[1] should have tag keep")
	}
	if nb.Cells[1].ExecutionCount == nil || *nb.Cells[1].ExecutionCount != 3 {
		t.Errorf("Cells[1].ExecutionCount = %v, want 3", nb.Cells[1].ExecutionCount)
	}
	if nb.Language() != "python" {
		t.Errorf("Language() = %q, want python", nb.Language())
	}
	if nb.NBFormat != 4 || nb.NBFormatMinor != 5 {
		t.Errorf("nbformat = %d.%d, want 4.5", nb.NBFormat, nb.NBFormatMinor)
	}
}

func TestReadNotebookErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{
			name: "empty input",
			data: nil,
			want: ErrEmptyNotebook,
		},
		{
			name: "invalid JSON",
			data: []byte("not json"),
			want: ErrNotebookParse,
		},
		{
			name: "unknown cell type",
			data: []byte(`{"cells": [{"cell_type": "heading", "metadata": {}, "source": ""}], "metadata": {}, "nbformat": 4, "nbformat_minor": 5}`),
			want: ErrUnsupportedCell,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadNotebook(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadNotebook() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWriteNotebookCodeCellShape(t *testing.T) {
	nb := &Notebook{
		Cells: []Cell{
			{Kind: KindCode, Source: "print(1)\n"},
			{Kind: KindMarkdown, Source: "text\n"},
		},
		Metadata:      map[string]any{},
		NBFormat:      4,
		NBFormatMinor: 5,
	}

	data, err := WriteNotebook(nb)
	if err != nil {
		t.Fatalf("WriteNotebook() error = %v", err)
	}
	if data[len(data)-1] != '\n' {
		t.Error("WriteNotebook() output should end with a newline")
	}

	var doc struct {
		Cells []map[string]json.RawMessage `json:"cells"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	code := doc.Cells[0]
	if string(code["execution_count"]) != "null" {
		t.Errorf("code cell execution_count = %s, want null", code["execution_count"])
	}
	if string(code["outputs"]) != "[]" {
		t.Errorf("code cell outputs = %s, want []", code["outputs"])
	}

	md := doc.Cells[1]
	if _, ok := md["execution_count"]; ok {
		t.Error("markdown cell must not carry execution_count")
	}
	if _, ok := md["outputs"]; ok {
		t.Error("markdown cell must not carry outputs")
	}
}

func TestNotebookRoundTrip(t *testing.T) {
	input := []byte(`{
  "cells": [
    {"cell_type": "code", "execution_count": null, "metadata": {"tags": []},
     "outputs": [], "source": ["x = 1\n", "print(x)\n"]}
  ],
  "metadata": {"language_info": {"name": "julia"}},
  "nbformat": 4,
  "nbformat_minor": 4
}`)

	nb, err := ReadNotebook(input)
	if err != nil {
		t.Fatalf("ReadNotebook() error = %v", err)
	}
	data, err := WriteNotebook(nb)
	if err != nil {
		t.Fatalf("WriteNotebook() error = %v", err)
	}
	again, err := ReadNotebook(data)
	if err != nil {
		t.Fatalf("ReadNotebook(round trip) error = %v", err)
	}

	if got := string(again.Cells[0].Source); got != "x = 1\nprint(x)\n" {
		t.Errorf("round-trip source = %q, want %q", got, "x = 1\nprint(x)\n")
	}
	if again.Language() != "julia" {
		t.Errorf("Language() = %q, want julia", again.Language())
	}
}

func TestNotebookRoundTripPreservesCellIDs(t *testing.T) {
	input := []byte(`{
  "cells": [
    {"id": "abc123", "cell_type": "code", "execution_count": null, "metadata": {},
     "outputs": [], "source": ["x = 1\n"]},
    {"id": "def456", "cell_type": "markdown", "metadata": {}, "source": ["text\n"]}
  ],
  "metadata": {},
  "nbformat": 4,
  "nbformat_minor": 5
}`)

	nb, err := ReadNotebook(input)
	if err != nil {
		t.Fatalf("ReadNotebook() error = %v", err)
	}
	if nb.Cells[0].ID != "abc123" || nb.Cells[1].ID != "def456" {
		t.Fatalf("cell IDs = %q, %q, want abc123, def456", nb.Cells[0].ID, nb.Cells[1].ID)
	}

	data, err := WriteNotebook(nb)
	if err != nil {
		t.Fatalf("WriteNotebook() error = %v", err)
	}
	again, err := ReadNotebook(data)
	if err != nil {
		t.Fatalf("ReadNotebook(round trip) error = %v", err)
	}
	if again.Cells[0].ID != "abc123" || again.Cells[1].ID != "def456" {
		t.Errorf("round-trip cell IDs = %q, %q, want abc123, def456", again.Cells[0].ID, again.Cells[1].ID)
	}
}

func TestWriteNotebookOmitsMissingCellID(t *testing.T) {
	nb := &Notebook{
		Cells:         []Cell{{Kind: KindCode, Source: "x = 1\n"}},
		Metadata:      map[string]any{},
		NBFormat:      4,
		NBFormatMinor: 4,
	}

	data, err := WriteNotebook(nb)
	if err != nil {
		t.Fatalf("WriteNotebook() error = %v", err)
	}

	var doc struct {
		Cells []map[string]json.RawMessage `json:"cells"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := doc.Cells[0]["id"]; ok {
		t.Error("cell without an id must not gain an empty one")
	}
}

func TestLanguageDefault(t *testing.T) {
	nb := &Notebook{Metadata: map[string]any{}}
	if nb.Language() != "python" {
		t.Errorf("Language() = %q, want python", nb.Language())
	}
}

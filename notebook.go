package nbpublish

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tags controlling the filter.
const (
	TagRemove = "remove"
	TagKeep   = "keep"
)

// CellKind enumerates the nbformat v4 cell types.
type CellKind string

// Cell kinds.
const (
	KindCode     CellKind = "code"
	KindMarkdown CellKind = "markdown"
	KindRaw      CellKind = "raw"
)

// valid reports whether k is a known nbformat v4 cell type.
func (k CellKind) valid() bool {
	switch k {
	case KindCode, KindMarkdown, KindRaw:
		return true
	}
	return false
}

// SourceText is a cell's source. The on-disk format allows either a
// single string or a list of lines; both unmarshal to the joined string,
// and marshaling always emits the list-of-lines form.
type SourceText string

// UnmarshalJSON accepts both source representations.
func (s *SourceText) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = SourceText(str)
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("source must be a string or a list of strings: %w", err)
	}
	*s = SourceText(strings.Join(lines, ""))
	return nil
}

// MarshalJSON emits the list-of-lines form used by nbformat on disk.
func (s SourceText) MarshalJSON() ([]byte, error) {
	return json.Marshal(splitLines(string(s)))
}

// splitLines splits s after every newline, keeping the newlines.
// An empty source yields an empty list, not [""].
func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Cell is one unit of a notebook document. ID is required by nbformat
// 4.5; earlier minor versions omit it, so it stays optional here and
// round-trips untouched either way.
type Cell struct {
	ID             string            `json:"id,omitempty"`
	Kind           CellKind          `json:"cell_type"`
	ExecutionCount *int              `json:"execution_count,omitempty"`
	Metadata       map[string]any    `json:"metadata"`
	Outputs        []json.RawMessage `json:"outputs,omitempty"`
	Source         SourceText        `json:"source"`
	Attachments    json.RawMessage   `json:"attachments,omitempty"`
}

// MarshalJSON writes the cell in its nbformat v4 shape. Code cells must
// carry execution_count and outputs even when unset (null and [] on
// disk); other cells must not carry them at all.
func (c Cell) MarshalJSON() ([]byte, error) {
	metadata := c.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	if c.Kind == KindCode {
		outputs := c.Outputs
		if outputs == nil {
			outputs = []json.RawMessage{}
		}
		type codeCell struct {
			ID             string            `json:"id,omitempty"`
			Kind           CellKind          `json:"cell_type"`
			ExecutionCount *int              `json:"execution_count"`
			Metadata       map[string]any    `json:"metadata"`
			Outputs        []json.RawMessage `json:"outputs"`
			Source         SourceText        `json:"source"`
		}
		return json.Marshal(codeCell{
			ID:             c.ID,
			Kind:           c.Kind,
			ExecutionCount: c.ExecutionCount,
			Metadata:       metadata,
			Outputs:        outputs,
			Source:         c.Source,
		})
	}

	type textCell struct {
		ID          string          `json:"id,omitempty"`
		Kind        CellKind        `json:"cell_type"`
		Metadata    map[string]any  `json:"metadata"`
		Source      SourceText      `json:"source"`
		Attachments json.RawMessage `json:"attachments,omitempty"`
	}
	return json.Marshal(textCell{
		ID:          c.ID,
		Kind:        c.Kind,
		Metadata:    metadata,
		Source:      c.Source,
		Attachments: c.Attachments,
	})
}

// Tags returns the cell's metadata tags. Missing or malformed tag lists
// are treated as empty; filtering must not fail on unrelated metadata.
func (c *Cell) Tags() []string {
	raw, ok := c.Metadata["tags"]
	if !ok {
		return nil
	}

	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	}
	return nil
}

// HasTag reports whether the cell carries the given tag.
func (c *Cell) HasTag(tag string) bool {
	for _, t := range c.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

// clearTags empties the cell's tag list, keeping the key so the cleaned
// notebook matches what Jupyter itself writes for an untagged cell.
func (c *Cell) clearTags() {
	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}
	c.Metadata["tags"] = []string{}
}

// Notebook is an ordered sequence of cells plus document metadata.
type Notebook struct {
	Cells         []Cell         `json:"cells"`
	Metadata      map[string]any `json:"metadata"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
}

// Language returns the notebook's programming language, looked up from
// kernelspec or language_info metadata. Defaults to "python".
func (nb *Notebook) Language() string {
	if lang := metadataString(nb.Metadata, "kernelspec", "language"); lang != "" {
		return lang
	}
	if lang := metadataString(nb.Metadata, "language_info", "name"); lang != "" {
		return lang
	}
	return "python"
}

// metadataString digs a string out of nested notebook metadata.
func metadataString(metadata map[string]any, section, key string) string {
	sec, ok := metadata[section].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := sec[key].(string)
	return s
}

// ReadNotebook parses raw ipynb (nbformat v4) bytes.
func ReadNotebook(data []byte) (*Notebook, error) {
	if len(data) == 0 {
		return nil, ErrEmptyNotebook
	}

	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotebookParse, err)
	}

	for i, cell := range nb.Cells {
		if !cell.Kind.valid() {
			return nil, fmt.Errorf("%w: cell %d has cell_type %q", ErrUnsupportedCell, i, cell.Kind)
		}
	}

	if nb.Metadata == nil {
		nb.Metadata = map[string]any{}
	}
	return &nb, nil
}

// WriteNotebook serializes the notebook with nbformat's on-disk
// conventions: one-space indentation and a trailing newline.
func WriteNotebook(nb *Notebook) ([]byte, error) {
	data, err := json.MarshalIndent(nb, "", " ")
	if err != nil {
		return nil, fmt.Errorf("serializing notebook: %w", err)
	}
	return append(data, '\n'), nil
}

package nbpublish

import "strings"

// Marker tokens delimiting code that survives stripping. The start
// marker must be followed by a newline. The end marker must be followed
// by a newline unless it terminates the cell source.
const (
	markerStart = "#<keep>\n"
	markerEnd   = "#</keep>"
)

// Outcome is the filter's verdict for a single cell.
type Outcome int

// Filter outcomes.
const (
	// OutcomeKeep preserves the cell with its source untouched.
	OutcomeKeep Outcome = iota
	// OutcomeRemove drops the cell from the output document.
	OutcomeRemove
	// OutcomeStrip replaces a code cell's source with the content of
	// its marker blocks.
	OutcomeStrip
)

// String implements fmt.Stringer for error messages and tests.
func (o Outcome) String() string {
	switch o {
	case OutcomeKeep:
		return "keep"
	case OutcomeRemove:
		return "remove"
	case OutcomeStrip:
		return "strip"
	}
	return "unknown"
}

// FilterResult is the outcome for one cell. Source is the replacement
// source text and is only meaningful for OutcomeStrip.
type FilterResult struct {
	Outcome Outcome
	Source  string
}

// FilterCell decides what happens to a cell in the public notebook.
// It is a pure function of the cell's kind, tags, and source:
//
//  1. any cell tagged "remove" is removed,
//  2. a code cell tagged "keep" is kept verbatim,
//  3. any other code cell is stripped to its marker-block content,
//  4. non-code cells are kept verbatim.
//
// A "#<keep>" with no valid "#</keep>" after it is a malformed input
// and yields ErrUnterminatedKeep.
func FilterCell(kind CellKind, tags []string, source string) (FilterResult, error) {
	for _, tag := range tags {
		if tag == TagRemove {
			return FilterResult{Outcome: OutcomeRemove}, nil
		}
	}

	if kind != KindCode {
		return FilterResult{Outcome: OutcomeKeep}, nil
	}

	for _, tag := range tags {
		if tag == TagKeep {
			return FilterResult{Outcome: OutcomeKeep}, nil
		}
	}

	kept, err := ExtractKeptBlocks(source)
	if err != nil {
		return FilterResult{}, err
	}
	return FilterResult{Outcome: OutcomeStrip, Source: kept}, nil
}

// ExtractKeptBlocks concatenates the inner text of every marker block in
// source, in order of appearance and with no separator. A source without
// marker blocks yields the empty string. Text outside marker blocks is
// discarded.
func ExtractKeptBlocks(source string) (string, error) {
	var b strings.Builder
	rest := source
	for {
		start := strings.Index(rest, markerStart)
		if start < 0 {
			return b.String(), nil
		}

		inner, remainder, err := scanToMarkerEnd(rest[start+len(markerStart):])
		if err != nil {
			return "", err
		}
		b.WriteString(inner)
		rest = remainder
	}
}

// scanToMarkerEnd finds the first valid end marker in s and returns the
// text before it and the text after it. An end marker is valid when it
// is followed by a newline or ends the source; a bare "#</keep>" in the
// middle of a line does not close the block and scanning continues past
// it.
func scanToMarkerEnd(s string) (inner, rest string, err error) {
	from := 0
	for {
		i := strings.Index(s[from:], markerEnd)
		if i < 0 {
			return "", "", ErrUnterminatedKeep
		}
		i += from
		after := i + len(markerEnd)

		switch {
		case after == len(s):
			return s[:i], "", nil
		case s[after] == '\n':
			return s[:i], s[after+1:], nil
		default:
			from = after
		}
	}
}

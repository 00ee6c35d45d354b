package nbpublish

import "fmt"

// Clean applies the cell filter to every cell in order and returns the
// public notebook. The input notebook is not modified.
//
// Surviving cells have their tag list emptied; surviving code cells
// additionally lose their execution count and outputs. An empty stripped
// code cell is dropped when the previously emitted cell was also an
// empty code cell, so runs of solution-only cells collapse to a single
// empty cell instead of a column of blanks.
//
// The first malformed marker block aborts the whole notebook with an
// error naming the cell.
func Clean(nb *Notebook) (*Notebook, error) {
	out := &Notebook{
		Cells:         make([]Cell, 0, len(nb.Cells)),
		Metadata:      nb.Metadata,
		NBFormat:      nb.NBFormat,
		NBFormatMinor: nb.NBFormatMinor,
	}

	lastWasEmptyCode := false
	for i, cell := range nb.Cells {
		result, err := FilterCell(cell.Kind, cell.Tags(), string(cell.Source))
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}

		switch result.Outcome {
		case OutcomeRemove:
			continue

		case OutcomeKeep:
			cell = scrubCell(cell)
			out.Cells = append(out.Cells, cell)
			lastWasEmptyCode = cell.Kind == KindCode && cell.Source == ""

		case OutcomeStrip:
			cell = scrubCell(cell)
			cell.Source = SourceText(result.Source)

			empty := cell.Source == ""
			if empty && lastWasEmptyCode {
				continue
			}
			out.Cells = append(out.Cells, cell)
			lastWasEmptyCode = empty
		}
	}

	return out, nil
}

// scrubCell returns a copy of the cell with tags emptied and, for code
// cells, the execution count and outputs reset.
func scrubCell(cell Cell) Cell {
	metadata := make(map[string]any, len(cell.Metadata))
	for k, v := range cell.Metadata {
		metadata[k] = v
	}
	cell.Metadata = metadata
	cell.clearTags()

	if cell.Kind == KindCode {
		cell.ExecutionCount = nil
		cell.Outputs = nil
	}
	return cell
}

// Package excel writes report rows to .xlsx files. It is the concrete
// SheetWriter behind the report pipeline; the aggregator knows nothing
// about the file format.
package excel

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/rollcall/pkg/types"
)

// Writer implements types.SheetWriter using excelize.
type Writer struct{}

var _ types.SheetWriter = (*Writer)(nil)

// NewWriter returns a Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteSheet writes rows under the given column spec to path, creating
// parent directories as needed. The file holds a single sheet named
// sheet with one header row followed by the data rows.
func (w *Writer) WriteSheet(path, sheet string, cols []types.Column, rows []types.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.Header

		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("resolving column %d: %w", i+1, err)
		}
		if err := f.SetColWidth(sheet, col, col, c.Width); err != nil {
			return fmt.Errorf("sizing column %s: %w", col, err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		line := rowValues(cols, r)
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// rowValues orders a row's fields according to the column spec keys.
func rowValues(cols []types.Column, r types.Row) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		switch c.Key {
		case "date":
			out[i] = r.Date
		case "time":
			out[i] = r.Time
		case "grade":
			out[i] = r.Grade
		case "class":
			out[i] = r.Class
		case "name":
			out[i] = r.Name
		case "lunch":
			out[i] = r.Lunch
		default:
			out[i] = ""
		}
	}
	return out
}

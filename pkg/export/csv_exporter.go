package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Sheet is an ordered tabular report: one column list with rows aligned to
// it by position.
type Sheet struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// CSVExporter renders a sheet as RFC 4180 CSV.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces the CSV bytes. The sheet title is not part of the output;
// spreadsheet consumers get the column row first.
func (e *CSVExporter) Render(sheet Sheet) ([]byte, error) {
	if len(sheet.Columns) == 0 {
		return nil, fmt.Errorf("sheet has no columns")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(sheet.Columns); err != nil {
		return nil, fmt.Errorf("write csv columns: %w", err)
	}
	for _, row := range sheet.Rows {
		record := make([]string, len(sheet.Columns))
		copy(record, row)
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

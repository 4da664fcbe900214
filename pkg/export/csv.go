package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVRenderer renders tables as RFC 4180 CSV.
type CSVRenderer struct{}

// NewCSVRenderer builds a CSV renderer.
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

func (r *CSVRenderer) ContentType() string { return "text/csv; charset=utf-8" }

func (r *CSVRenderer) Extension() string { return "csv" }

// Render writes the header row followed by every data row.
func (r *CSVRenderer) Render(w io.Writer, table Table) error {
	if err := table.validate(); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	headers := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		headers[i] = col.Header
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// Package export renders tabular reports as CSV or PDF.
package export

import (
	"fmt"
	"io"
	"strings"
)

// Format names a supported export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat normalises a query value, defaulting to CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// Column describes one table column. Width is in millimetres and only used by PDF output.
type Column struct {
	Header string
	Width  float64
}

// Table is the export payload. Each row holds one cell per column.
type Table struct {
	Title   string
	Columns []Column
	Rows    [][]string
}

func (t Table) validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("export requires at least one column")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(t.Columns))
		}
	}
	return nil
}

// Renderer writes a table in one format.
type Renderer interface {
	Render(w io.Writer, table Table) error
	ContentType() string
	Extension() string
}

// For returns the renderer for format.
func For(format Format) Renderer {
	if format == FormatPDF {
		return NewPDFRenderer()
	}
	return NewCSVRenderer()
}

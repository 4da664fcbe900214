package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth = 277.0 // A4 landscape minus margins
	pdfRowHeight = 7.0
)

// PDFRenderer renders tables into a landscape A4 document.
type PDFRenderer struct {
	now func() time.Time
}

// NewPDFRenderer constructs a PDF renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{now: time.Now}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Extension() string { return "pdf" }

// Render lays the table out with the header repeated on every page.
func (r *PDFRenderer) Render(w io.Writer, table Table) error {
	if err := table.validate(); err != nil {
		return err
	}
	widths := columnWidths(table.Columns)
	generated := r.now().UTC().Format("2006-01-02 15:04 MST")

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		if table.Title != "" {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 10, tr(table.Title), "", 1, "C", false, 0, "")
		}
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 240)
		for i, col := range table.Columns {
			pdf.CellFormat(widths[i], 8, tr(col.Header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Generated %s - page %d", generated, pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "", 8)
	for _, row := range table.Rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], pdfRowHeight, fit(pdf, tr(cell), widths[i]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// columnWidths honours explicit widths and spreads what is left over the rest.
func columnWidths(cols []Column) []float64 {
	widths := make([]float64, len(cols))
	fixed, flexible := 0.0, 0
	for i, col := range cols {
		if col.Width > 0 {
			widths[i] = col.Width
			fixed += col.Width
		} else {
			flexible++
		}
	}
	if flexible == 0 {
		return widths
	}
	share := (pdfPageWidth - fixed) / float64(flexible)
	if share < 15 {
		share = 15
	}
	for i := range widths {
		if widths[i] == 0 {
			widths[i] = share
		}
	}
	return widths
}

// fit truncates s with an ellipsis so it renders inside width.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

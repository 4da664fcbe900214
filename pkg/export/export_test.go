package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title:   "Student Roster",
		Columns: []Column{{Header: "Name", Width: 50}, {Header: "Email"}, {Header: "Class", Width: 15}},
		Rows: [][]string{
			{"Asha Rao", "asha@example.com", "10"},
			{"Ben, Jr.", "ben@example.com", "12"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestCSVRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, For(FormatCSV).Render(&buf, sampleTable()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Name", "Email", "Class"}, records[0])
	assert.Equal(t, "Ben, Jr.", records[2][0])
}

func TestPDFRender(t *testing.T) {
	r := For(FormatPDF)
	assert.Equal(t, "application/pdf", r.ContentType())

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, sampleTable()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderRejectsRaggedRows(t *testing.T) {
	table := sampleTable()
	table.Rows = append(table.Rows, []string{"only one"})
	assert.Error(t, NewCSVRenderer().Render(&bytes.Buffer{}, table))
	assert.Error(t, NewPDFRenderer().Render(&bytes.Buffer{}, Table{}))
}

func TestColumnWidths(t *testing.T) {
	widths := columnWidths(sampleTable().Columns)
	assert.Equal(t, 50.0, widths[0])
	assert.InDelta(t, pdfPageWidth-65, widths[1], 0.001)
	assert.Equal(t, 15.0, widths[2])
}

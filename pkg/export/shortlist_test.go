package export

import (
	"bytes"
	"testing"

	"go-jobboard-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var sampleRows = []domain.ShortlistRow{
	{Name: "Ada", Email: "ada@example.com", ResumeURL: "https://cdn.example.com/ada.pdf"},
	{Name: "Cy", Email: "cy@example.com"},
}

func TestXLSXWriter(t *testing.T) {
	data, err := XLSXWriter{}.WriteShortlist(sampleRows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ShortlistSheet}, f.GetSheetList())

	rows, err := f.GetRows(ShortlistSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Email", "Resume Link"}, rows[0])
	assert.Equal(t, []string{"Ada", "ada@example.com", "https://cdn.example.com/ada.pdf"}, rows[1])
	require.GreaterOrEqual(t, len(rows[2]), 2)
	assert.Equal(t, "Cy", rows[2][0])
	assert.Equal(t, "cy@example.com", rows[2][1])

	ok, target, err := f.GetCellHyperLink(ShortlistSheet, "C2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/ada.pdf", target)

	ok, _, err = f.GetCellHyperLink(ShortlistSheet, "C3")
	require.NoError(t, err)
	assert.False(t, ok)

	width, err := f.GetColWidth(ShortlistSheet, "C")
	require.NoError(t, err)
	assert.Equal(t, float64(50), width)
}

func TestXLSXWriter_Empty(t *testing.T) {
	data, err := XLSXWriter{}.WriteShortlist(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ShortlistSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestCSVWriter(t *testing.T) {
	data, err := CSVWriter{}.WriteShortlist(sampleRows)
	require.NoError(t, err)

	assert.Equal(t, "Name,Email,Resume Link\nAda,ada@example.com,https://cdn.example.com/ada.pdf\nCy,cy@example.com,\n", string(data))
}

func TestWriters(t *testing.T) {
	w := Writers()
	assert.Equal(t, "xlsx", w["xlsx"].Extension())
	assert.Equal(t, ContentTypeCSV, w["csv"].ContentType())
}

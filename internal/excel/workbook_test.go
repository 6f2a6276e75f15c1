package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memberdir/memberdir-backend/internal/bulk"
	"github.com/memberdir/memberdir-backend/internal/lookup"
)

func testCatalog() *lookup.Catalog {
	return lookup.New(map[string][]string{
		"Karnataka": {"Bengaluru", "Mysuru"},
		"Delhi":     {"New Delhi"},
	})
}

func TestErrorReportRoundTrip(t *testing.T) {
	cells := []string{
		"", "Asha Rao", "asha@example.com", "asha.rao", "9876543210",
		"4111111111111111", "Karnataka", "Bengaluru", "Female", "Reading",
		"Angular", "12 MG Road", "1991-04-23", "Secret@123",
	}
	data, err := RenderErrorReport([]ReportRow{
		{Cells: cells, Reason: "Duplicate email within file"},
	})
	require.NoError(t, err)

	header, rows, err := ParseUpload(bytes.NewReader(data))
	require.NoError(t, err)

	// the error report resolves with the same header logic as any upload
	index, err := bulk.ResolveHeader(header)
	require.NoError(t, err)
	assert.Len(t, index, len(bulk.Columns))

	require.Len(t, rows, 1)
	assert.Equal(t, "asha@example.com", rows[0][index[bulk.ColEmail]])
	assert.Equal(t, "Duplicate email within file", rows[0][len(bulk.Columns)])
}

func TestRenderTemplateBlank(t *testing.T) {
	data, err := RenderTemplate(testCatalog(), nil, "admin@example.com")
	require.NoError(t, err)

	header, rows, err := ParseUpload(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, bulk.Columns, header)
	assert.Empty(t, rows)
}

func TestRenderTemplateWithData(t *testing.T) {
	member := []string{
		"b7a7a9c0-0000-4000-8000-000000000001", "Asha Rao", "asha@example.com",
		"asha.rao", "9876543210", "1111", "Karnataka", "Bengaluru", "Female",
		"Reading, Music", "Angular", "12 MG Road", "1991-04-23", "",
	}
	data, err := RenderTemplate(testCatalog(), [][]string{member}, "admin@example.com")
	require.NoError(t, err)

	header, rows, err := ParseUpload(bytes.NewReader(data))
	require.NoError(t, err)

	index, err := bulk.ResolveHeader(header)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// identifier travels with the row, so re-upload defaults to EDIT
	assert.Equal(t, member[0], rows[0][index[bulk.ColIdentifier]])
	assert.Equal(t, "1111", rows[0][index[bulk.ColCreditCard]])
}

func TestParseUploadRejectsGarbage(t *testing.T) {
	_, _, err := ParseUpload(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}

package importers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestParseXLSX(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"word", "definition", "example"},
		{"Apple", "a fruit", "I ate an apple"},
		{"", "no word here", ""},
		{"banana", "", ""},
	})

	words, problems, err := ParseXLSX(buf)
	require.NoError(t, err)

	require.Len(t, words, 2)
	assert.Equal(t, "apple", words[0].Word)
	assert.Equal(t, "a fruit", words[0].Definition)
	assert.Equal(t, "banana", words[1].Word)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "row 3")
}

func TestParseXLSX_MissingWordColumn(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"definition", "example"},
		{"a fruit", "I ate one"},
	})

	_, _, err := ParseXLSX(buf)
	assert.ErrorIs(t, err, ErrMissingWordColumn)
}

func TestParseXLSX_NotAWorkbook(t *testing.T) {
	_, _, err := ParseXLSX(bytes.NewReader([]byte("plain text")))
	assert.Error(t, err)
}

package importers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/spellbook/spellbook/internal/entities"
)

// ParseXLSX parses an uploaded Excel word list. The first sheet is used and
// its first row is treated as the header.
func ParseXLSX(r io.Reader) ([]entities.Word, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmptyFile
	}

	index, err := columnIndex(rows[0])
	if err != nil {
		return nil, nil, err
	}

	var words []entities.Word
	var problems []string
	for i, row := range rows[1:] {
		w := rowToWord(row, index)
		if w == nil {
			if len(row) > 0 {
				problems = append(problems, fmt.Sprintf("row %d: missing word", i+2))
			}
			continue
		}
		words = append(words, *w)
	}

	if len(words) == 0 {
		return nil, problems, ErrEmptyFile
	}
	return words, problems, nil
}

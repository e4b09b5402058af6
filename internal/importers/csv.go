package importers

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/spellbook/spellbook/internal/entities"
)

// ParseCSV parses an uploaded CSV word list. It tolerates variable field
// counts and skips rows without a word; per-row problems are reported as
// strings so one bad line does not sink the upload.
func ParseCSV(r io.Reader) ([]entities.Word, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, nil, err
	}

	var words []entities.Word
	var problems []string
	lineNum := 1
	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			problems = append(problems, fmt.Sprintf("line %d: %v", lineNum, err))
			continue
		}
		if w := rowToWord(record, index); w != nil {
			words = append(words, *w)
		}
	}

	if len(words) == 0 {
		return nil, problems, ErrEmptyFile
	}
	return words, problems, nil
}

// Package importers parses uploaded wordbook files into word rows.
package importers

import (
	"errors"
	"strings"

	"github.com/spellbook/spellbook/internal/entities"
)

var (
	ErrMissingWordColumn = errors.New("missing word column")
	ErrEmptyFile         = errors.New("file contains no words")
)

// Header aliases accepted in uploaded files. Lists exported from Chinese
// vocabulary tools commonly label columns in Chinese.
var headerAliases = map[string][]string{
	"word":          {"word", "单词"},
	"definition":    {"definition", "释义", "意思"},
	"example":       {"example", "例句", "例子"},
	"pronunciation": {"pronunciation", "发音"},
}

// columnIndex maps canonical column names to their position in the header
// row. Returns ErrMissingWordColumn when no word column is present.
func columnIndex(header []string) (map[string]int, error) {
	index := map[string]int{}
	for i, h := range header {
		normalized := strings.ToLower(strings.TrimSpace(h))
		for canonical, aliases := range headerAliases {
			if _, taken := index[canonical]; taken {
				continue
			}
			for _, alias := range aliases {
				if normalized == alias {
					index[canonical] = i
					break
				}
			}
		}
	}
	if _, ok := index["word"]; !ok {
		return nil, ErrMissingWordColumn
	}
	return index, nil
}

func cell(record []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// rowToWord converts one data row into a word entity, or nil when the word
// cell is empty.
func rowToWord(record []string, index map[string]int) *entities.Word {
	word := strings.ToLower(cell(record, index, "word"))
	if word == "" {
		return nil
	}
	return &entities.Word{
		Word:            word,
		Definition:      cell(record, index, "definition"),
		ExampleSentence: cell(record, index, "example"),
		PronunciationUS: cell(record, index, "pronunciation"),
	}
}

package importers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	input := strings.Join([]string{
		"Word,Definition,Example,Pronunciation",
		"Apple,a fruit,I ate an apple,/ˈæp.əl/",
		"banana,a long fruit,,",
		",missing word cell,,",
		"cherry",
	}, "\n")

	words, problems, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, problems)

	require.Len(t, words, 3)
	assert.Equal(t, "apple", words[0].Word, "words are lowercased")
	assert.Equal(t, "a fruit", words[0].Definition)
	assert.Equal(t, "I ate an apple", words[0].ExampleSentence)
	assert.Equal(t, "/ˈæp.əl/", words[0].PronunciationUS)
	assert.Equal(t, "banana", words[1].Word)
	assert.Equal(t, "cherry", words[2].Word, "short rows still yield the word")
}

func TestParseCSV_ChineseHeaders(t *testing.T) {
	input := strings.Join([]string{
		"单词,释义,例句",
		"hello,你好,hello world",
	}, "\n")

	words, _, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "hello", words[0].Word)
	assert.Equal(t, "你好", words[0].Definition)
	assert.Equal(t, "hello world", words[0].ExampleSentence)
}

func TestParseCSV_MissingWordColumn(t *testing.T) {
	input := "definition,example\nsome meaning,some sentence\n"

	_, _, err := ParseCSV(strings.NewReader(input))
	assert.ErrorIs(t, err, ErrMissingWordColumn)
}

func TestParseCSV_NoWords(t *testing.T) {
	input := "word,definition\n,empty\n"

	_, _, err := ParseCSV(strings.NewReader(input))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParseCSV_EmptyInput(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestColumnIndex_FirstMatchWins(t *testing.T) {
	index, err := columnIndex([]string{"word", "Word", "definition"})
	require.NoError(t, err)
	assert.Equal(t, 0, index["word"])
	assert.Equal(t, 2, index["definition"])
}

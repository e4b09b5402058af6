// Package catalog holds the built-in system wordbooks and their word lists.
// The same data backs boot-time seeding, the seed CLI command and the
// catalog HTTP endpoints, so re-running any of them is idempotent.
package catalog

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/spellbook/spellbook/internal/entities"
)

var ErrUnknownCatalog = errors.New("unknown catalog")

type Entry struct {
	Word       string
	Definition string
	Example    string
}

type Wordbook struct {
	Name        string
	Description string
	Source      string
	Entries     []Entry
}

var builtins = map[string]Wordbook{
	"cet4": {
		Name:        "CET-4 Core Vocabulary",
		Description: "Core vocabulary for the College English Test Band 4",
		Source:      "CET-4 Official",
		Entries:     cet4Entries,
	},
	"ielts": {
		Name:        "IELTS Core Vocabulary",
		Description: "Core vocabulary for the IELTS examination",
		Source:      "IELTS Official",
		Entries:     ieltsEntries,
	},
	"toefl": {
		Name:        "TOEFL Core Vocabulary",
		Description: "Core vocabulary for the TOEFL examination",
		Source:      "TOEFL Official",
		Entries:     toeflEntries,
	},
}

// Keys returns the known catalog keys.
func Keys() []string {
	return []string{"cet4", "ielts", "toefl"}
}

// Seed creates the system wordbook for key if missing, inserts its built-in
// words (duplicates ignored) and refreshes the denormalized word counter.
// It returns the wordbook id and how many words were newly inserted.
func Seed(db *gorm.DB, key string) (wordbookID uint, inserted int, err error) {
	book, ok := builtins[key]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownCatalog, key)
	}

	var wb entities.Wordbook
	err = db.Where("name = ? AND kind = ?", book.Name, entities.WordbookKindSystem).First(&wb).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wb = entities.Wordbook{
			Name:        book.Name,
			Description: book.Description,
			Kind:        entities.WordbookKindSystem,
			Source:      book.Source,
		}
		if err := db.Create(&wb).Error; err != nil {
			return 0, 0, fmt.Errorf("create wordbook %q: %w", book.Name, err)
		}
	} else if err != nil {
		return 0, 0, err
	}

	for _, e := range book.Entries {
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&entities.Word{
			Word:            e.Word,
			Definition:      e.Definition,
			ExampleSentence: e.Example,
			WordbookID:      wb.ID,
		})
		if res.Error != nil {
			return 0, 0, fmt.Errorf("insert word %q: %w", e.Word, res.Error)
		}
		inserted += int(res.RowsAffected)
	}

	var total int64
	if err := db.Model(&entities.Word{}).Where("wordbook_id = ?", wb.ID).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&entities.Wordbook{}).Where("id = ?", wb.ID).
		Update("total_words", total).Error; err != nil {
		return 0, 0, err
	}

	return wb.ID, inserted, nil
}

// SeedAll seeds every built-in catalog.
func SeedAll(db *gorm.DB) error {
	for _, key := range Keys() {
		if _, _, err := Seed(db, key); err != nil {
			return err
		}
	}
	return nil
}

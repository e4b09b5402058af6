// Package words provides database operations for word management.
package words

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/spellbook/spellbook/internal/entities"
)

var ErrNotFound = errors.New("word not found")

// Repository handles all word database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new word repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a word into a wordbook. A duplicate (word, wordbook) pair is
// treated as already present, not an error; the returned flag reports whether
// a row was actually created.
func (r *Repository) Add(word *entities.Word) (bool, error) {
	word.Word = strings.ToLower(strings.TrimSpace(word.Word))
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(word)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AddBatch inserts many words, ignoring duplicates, and returns how many rows
// were created.
func (r *Repository) AddBatch(words []entities.Word) (int, error) {
	inserted := 0
	for i := range words {
		created, err := r.Add(&words[i])
		if err != nil {
			return inserted, err
		}
		if created {
			inserted++
		}
	}
	return inserted, nil
}

// GetByID retrieves a word by ID.
func (r *Repository) GetByID(id uint) (*entities.Word, error) {
	var word entities.Word
	err := r.db.First(&word, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &word, nil
}

// ListByWordbook returns all words in a wordbook ordered by word text.
func (r *Repository) ListByWordbook(wordbookID uint) ([]entities.Word, error) {
	var words []entities.Word
	err := r.db.Where("wordbook_id = ?", wordbookID).Order("word ASC").Find(&words).Error
	return words, err
}

// ListByIDs returns the given words preserving the id order.
func (r *Repository) ListByIDs(ids []uint) ([]entities.Word, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var words []entities.Word
	if err := r.db.Where("id IN ?", ids).Find(&words).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]entities.Word, len(words))
	for _, w := range words {
		byID[w.ID] = w
	}
	ordered := make([]entities.Word, 0, len(words))
	for _, id := range ids {
		if w, ok := byID[id]; ok {
			ordered = append(ordered, w)
		}
	}
	return ordered, nil
}

// Search finds words matching the query, ordered by word text.
func (r *Repository) Search(query string, limit int) ([]entities.Word, error) {
	var words []entities.Word
	pattern := "%" + query + "%"
	q := r.db.Where("LOWER(word) LIKE LOWER(?)", pattern).Order("word ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&words).Error
	return words, err
}

// UpdateAudioURL stores the local audio URL for the given accent.
func (r *Repository) UpdateAudioURL(id uint, accent, url string) error {
	column := "audio_url_us"
	if accent == "uk" {
		column = "audio_url_uk"
	}
	return r.db.Model(&entities.Word{}).Where("id = ?", id).Update(column, url).Error
}

// Delete removes a word. Returns ErrNotFound when no row was deleted.
func (r *Repository) Delete(id uint) error {
	res := r.db.Delete(&entities.Word{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

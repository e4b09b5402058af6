// Package wordbooks provides database operations for wordbook management.
package wordbooks

import (
	"errors"

	"gorm.io/gorm"

	"github.com/spellbook/spellbook/internal/entities"
)

var ErrNotFound = errors.New("wordbook not found")

// Repository handles all wordbook database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new wordbook repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create creates a user wordbook owned by userID.
func (r *Repository) Create(name, description string, userID uint) (*entities.Wordbook, error) {
	wb := &entities.Wordbook{
		Name:        name,
		Description: description,
		Kind:        entities.WordbookKindUserUpload,
		CreatedBy:   &userID,
	}
	if err := r.db.Create(wb).Error; err != nil {
		return nil, err
	}
	return wb, nil
}

// ListVisible returns system wordbooks plus the user's own, system first then
// newest first.
func (r *Repository) ListVisible(userID uint) ([]entities.Wordbook, error) {
	var books []entities.Wordbook
	err := r.db.
		Where("kind = ? OR created_by = ?", entities.WordbookKindSystem, userID).
		Order("kind ASC, created_at DESC").
		Find(&books).Error
	return books, err
}

// GetVisible returns the wordbook if it is a system book or owned by userID.
func (r *Repository) GetVisible(id, userID uint) (*entities.Wordbook, error) {
	var wb entities.Wordbook
	err := r.db.
		Where("id = ? AND (kind = ? OR created_by = ?)", id, entities.WordbookKindSystem, userID).
		First(&wb).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wb, nil
}

// GetOwned returns the wordbook only when userID owns it. System books are
// never owned.
func (r *Repository) GetOwned(id, userID uint) (*entities.Wordbook, error) {
	var wb entities.Wordbook
	err := r.db.Where("id = ? AND created_by = ?", id, userID).First(&wb).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wb, nil
}

// Delete removes a wordbook and, via the foreign key, its words.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wordbook_id = ?", id).Delete(&entities.Word{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Wordbook{}, id).Error
	})
}

// WordsPage returns one page of a wordbook's words ordered by word text.
func (r *Repository) WordsPage(wordbookID uint, page, limit int) ([]entities.Word, int64, error) {
	var total int64
	if err := r.db.Model(&entities.Word{}).Where("wordbook_id = ?", wordbookID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var words []entities.Word
	err := r.db.Where("wordbook_id = ?", wordbookID).
		Order("word ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&words).Error
	return words, total, err
}

// RecountWords refreshes the denormalized total_words counter for one book
// and returns the fresh count.
func (r *Repository) RecountWords(wordbookID uint) (int64, error) {
	var total int64
	if err := r.db.Model(&entities.Word{}).Where("wordbook_id = ?", wordbookID).Count(&total).Error; err != nil {
		return 0, err
	}
	err := r.db.Model(&entities.Wordbook{}).Where("id = ?", wordbookID).
		Update("total_words", total).Error
	return total, err
}

// RecountAll reconciles total_words for every wordbook. Used by the cron job
// since upload paths keep the counter only best-effort.
func (r *Repository) RecountAll() (int, error) {
	var ids []uint
	if err := r.db.Model(&entities.Wordbook{}).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	for _, id := range ids {
		if _, err := r.RecountWords(id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

// Package training provides database operations for training sessions and
// the transactional result recorder.
package training

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/spellbook/spellbook/internal/entities"
)

var (
	ErrNotFound         = errors.New("training session not found")
	ErrAlreadyCompleted = errors.New("training session already completed")
)

// Result is one per-word outcome submitted when a session finishes.
type Result struct {
	WordID    uint               `json:"word_id"`
	IsCorrect bool               `json:"is_correct"`
	UserInput string             `json:"user_input,omitempty"`
	ErrorType entities.ErrorType `json:"error_type,omitempty"`
	TimeSpent int                `json:"time_spent,omitempty"`
}

// Summary is the aggregate computed by SaveResults.
type Summary struct {
	TotalWords       int     `json:"total_words"`
	CorrectWords     int     `json:"correct_words"`
	ErrorWords       int     `json:"error_words"`
	AccuracyRate     float64 `json:"accuracy_rate"`
	TotalTimeSeconds int     `json:"total_time_seconds"`
}

// ListItem is a session row with its aggregated error count.
type ListItem struct {
	ID          uint                   `json:"id"`
	UserID      uint                   `json:"user_id"`
	SessionName string                 `json:"session_name"`
	Status      entities.SessionStatus `json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorCount  int                    `json:"error_count"`
}

// Repository handles training session database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new training repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a session and its ordered word list. Repeated ids keep
// only their first occurrence.
func (r *Repository) Create(userID uint, name, settings string, wordIDs []uint) (*entities.TrainingSession, error) {
	session := &entities.TrainingSession{
		UserID:      userID,
		SessionName: name,
		Settings:    settings,
		Status:      entities.SessionStatusActive,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		seen := make(map[uint]bool, len(wordIDs))
		position := 0
		for _, wordID := range wordIDs {
			if seen[wordID] {
				continue
			}
			seen[wordID] = true
			sw := entities.SessionWord{SessionID: session.ID, WordID: wordID, Position: position}
			if err := tx.Create(&sw).Error; err != nil {
				return err
			}
			position++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// List returns the user's sessions, newest first, each with its aggregated
// error count.
func (r *Repository) List(userID uint) ([]ListItem, error) {
	var items []ListItem
	err := r.db.Raw(`
		SELECT ts.id, ts.user_id, ts.session_name, ts.status, ts.created_at, ts.completed_at,
		       COALESCE(SUM(we.error_count), 0) AS error_count
		FROM training_sessions ts
		LEFT JOIN word_errors we ON we.session_id = ts.id
		WHERE ts.user_id = ?
		GROUP BY ts.id, ts.user_id, ts.session_name, ts.status, ts.created_at, ts.completed_at
		ORDER BY ts.created_at DESC`, userID).Scan(&items).Error
	return items, err
}

// Get returns a session owned by userID.
func (r *Repository) Get(id, userID uint) (*entities.TrainingSession, error) {
	var session entities.TrainingSession
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// WordIDs returns the session's word ids in training order.
func (r *Repository) WordIDs(sessionID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entities.SessionWord{}).
		Where("session_id = ?", sessionID).
		Order("position ASC").
		Pluck("word_id", &ids).Error
	return ids, err
}

// UpdateStatus transitions a session between active and paused, or marks it
// completed. A completed session is terminal.
func (r *Repository) UpdateStatus(id, userID uint, status entities.SessionStatus) error {
	session, err := r.Get(id, userID)
	if err != nil {
		return err
	}
	if session.Status == entities.SessionStatusCompleted {
		return ErrAlreadyCompleted
	}

	updates := map[string]any{"status": status}
	if status == entities.SessionStatusCompleted {
		updates["completed_at"] = time.Now()
	}
	return r.db.Model(&entities.TrainingSession{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes a session and everything hanging off it.
func (r *Repository) Delete(id, userID uint) error {
	if _, err := r.Get(id, userID); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var roundIDs []uint
		if err := tx.Model(&entities.ErrorTrainingRound{}).
			Where("session_id = ?", id).Pluck("id", &roundIDs).Error; err != nil {
			return err
		}
		if len(roundIDs) > 0 {
			if err := tx.Where("round_id IN ?", roundIDs).Delete(&entities.RoundWord{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("session_id = ?", id).Delete(&entities.ErrorTrainingRound{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&entities.WordError{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&entities.SessionWord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&entities.TrainingStats{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.TrainingSession{}, id).Error
	})
}

// SaveResults records a finished session's per-word outcomes as a single
// all-or-nothing unit: word errors are upserted, one stats row is inserted
// and the session transitions to completed. Submitting results for an
// already-completed session returns ErrAlreadyCompleted so stats are never
// double-counted.
func (r *Repository) SaveResults(sessionID, userID uint, results []Result) (*Summary, error) {
	summary := &Summary{}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var session entities.TrainingSession
		err := tx.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if session.Status == entities.SessionStatusCompleted {
			return ErrAlreadyCompleted
		}

		for _, result := range results {
			summary.TotalWords++
			summary.TotalTimeSeconds += result.TimeSpent
			if result.IsCorrect {
				summary.CorrectWords++
				continue
			}
			summary.ErrorWords++

			errorType := result.ErrorType
			if !entities.ValidErrorType(errorType) {
				errorType = entities.ErrorTypeSpelling
			}

			var word entities.Word
			if err := tx.Select("word").First(&word, result.WordID).Error; err != nil {
				return err
			}

			we := entities.WordError{
				WordID:        result.WordID,
				SessionID:     sessionID,
				ErrorType:     errorType,
				UserInput:     result.UserInput,
				CorrectAnswer: word.Word,
				ErrorCount:    1,
			}
			err = tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "word_id"}, {Name: "session_id"}, {Name: "error_type"}},
				DoUpdates: clause.Assignments(map[string]any{
					"error_count": gorm.Expr("error_count + 1"),
					"user_input":  result.UserInput,
				}),
			}).Create(&we).Error
			if err != nil {
				return err
			}
		}

		if summary.TotalWords > 0 {
			rate := float64(summary.CorrectWords) / float64(summary.TotalWords) * 100
			summary.AccuracyRate = math.Round(rate*100) / 100
		}

		stats := entities.TrainingStats{
			SessionID:        sessionID,
			TotalWords:       summary.TotalWords,
			CorrectWords:     summary.CorrectWords,
			ErrorWords:       summary.ErrorWords,
			AccuracyRate:     summary.AccuracyRate,
			TotalTimeSeconds: summary.TotalTimeSeconds,
		}
		if err := tx.Create(&stats).Error; err != nil {
			return err
		}

		now := time.Now()
		return tx.Model(&entities.TrainingSession{}).Where("id = ?", sessionID).
			Updates(map[string]any{
				"status":       entities.SessionStatusCompleted,
				"completed_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Stats returns the completed-session aggregates, if recorded.
func (r *Repository) Stats(sessionID uint) (*entities.TrainingStats, error) {
	var stats entities.TrainingStats
	err := r.db.Where("session_id = ?", sessionID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

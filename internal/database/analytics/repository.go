// Package analytics fetches the raw, window-limited rows the analytics
// engine aggregates. Time cutoffs are computed by the caller and passed as
// plain parameters so every query stays portable across SQL dialects.
package analytics

import (
	"time"

	"gorm.io/gorm"

	"github.com/spellbook/spellbook/internal/entities"
)

// SessionRow is a training session joined with its stats, when recorded.
type SessionRow struct {
	ID               uint
	SessionName      string
	Status           entities.SessionStatus
	CreatedAt        time.Time
	StatsID          *uint
	TotalWords       int
	CorrectWords     int
	ErrorWords       int
	AccuracyRate     float64
	TotalTimeSeconds int
}

// ErrorRow is one word error joined with its word.
type ErrorRow struct {
	WordID     uint
	Word       string
	Definition string
	SessionID  uint
	ErrorType  entities.ErrorType
	ErrorCount int
	CreatedAt  time.Time
}

// PracticeRow counts how many sessions drilled a word.
type PracticeRow struct {
	WordID     uint
	Word       string
	Definition string
	Sessions   int
}

// ErrorSumRow aggregates a word's errors across sessions.
type ErrorSumRow struct {
	WordID     uint
	Word       string
	Definition string
	Errors     int
	FirstError time.Time
	LastError  time.Time
}

// Repository fetches analytics source rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new analytics repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func windowed(q *gorm.DB, column string, cutoff time.Time) *gorm.DB {
	if cutoff.IsZero() {
		return q
	}
	return q.Where(column+" >= ?", cutoff)
}

// Sessions returns the user's sessions created after cutoff, stats attached
// where they exist, oldest first.
func (r *Repository) Sessions(userID uint, cutoff time.Time) ([]SessionRow, error) {
	q := r.db.Table("training_sessions ts").
		Joins("LEFT JOIN training_stats st ON st.session_id = ts.id").
		Where("ts.user_id = ?", userID).
		Select(`ts.id, ts.session_name, ts.status, ts.created_at,
			st.id AS stats_id, COALESCE(st.total_words, 0) AS total_words,
			COALESCE(st.correct_words, 0) AS correct_words,
			COALESCE(st.error_words, 0) AS error_words,
			COALESCE(st.accuracy_rate, 0) AS accuracy_rate,
			COALESCE(st.total_time_seconds, 0) AS total_time_seconds`).
		Order("ts.created_at ASC")
	q = windowed(q, "ts.created_at", cutoff)

	var rows []SessionRow
	err := q.Scan(&rows).Error
	return rows, err
}

// Errors returns the user's word errors recorded after cutoff, oldest first.
func (r *Repository) Errors(userID uint, cutoff time.Time) ([]ErrorRow, error) {
	q := r.db.Table("word_errors we").
		Joins("JOIN training_sessions ts ON ts.id = we.session_id").
		Joins("JOIN words w ON w.id = we.word_id").
		Where("ts.user_id = ?", userID).
		Select(`we.word_id, w.word, w.definition, we.session_id, we.error_type,
			we.error_count, we.created_at`).
		Order("we.created_at ASC")
	q = windowed(q, "we.created_at", cutoff)

	var rows []ErrorRow
	err := q.Scan(&rows).Error
	return rows, err
}

// SessionErrors returns every error recorded against one session.
func (r *Repository) SessionErrors(sessionID uint) ([]ErrorRow, error) {
	var rows []ErrorRow
	err := r.db.Table("word_errors we").
		Joins("JOIN words w ON w.id = we.word_id").
		Where("we.session_id = ?", sessionID).
		Select(`we.word_id, w.word, w.definition, we.session_id, we.error_type,
			we.error_count, we.created_at`).
		Order("we.error_count DESC").
		Scan(&rows).Error
	return rows, err
}

// DistinctPracticedWords counts the words that appeared in at least one of
// the user's sessions in the window.
func (r *Repository) DistinctPracticedWords(userID uint, cutoff time.Time) (int, error) {
	q := r.db.Table("session_words sw").
		Joins("JOIN training_sessions ts ON ts.id = sw.session_id").
		Where("ts.user_id = ?", userID)
	q = windowed(q, "ts.created_at", cutoff)

	var count int
	err := q.Select("COUNT(DISTINCT sw.word_id)").Scan(&count).Error
	return count, err
}

// PracticeCounts returns, per word, how many of the user's sessions in the
// window included it.
func (r *Repository) PracticeCounts(userID uint, cutoff time.Time) ([]PracticeRow, error) {
	q := r.db.Table("session_words sw").
		Joins("JOIN training_sessions ts ON ts.id = sw.session_id").
		Joins("JOIN words w ON w.id = sw.word_id").
		Where("ts.user_id = ?", userID).
		Select(`sw.word_id, w.word, w.definition,
			COUNT(DISTINCT sw.session_id) AS sessions`).
		Group("sw.word_id, w.word, w.definition")
	q = windowed(q, "ts.created_at", cutoff)

	var rows []PracticeRow
	err := q.Scan(&rows).Error
	return rows, err
}

// ErrorSums returns, per word, the user's summed error counts in the window
// together with the first and last error timestamps.
func (r *Repository) ErrorSums(userID uint, cutoff time.Time) ([]ErrorSumRow, error) {
	q := r.db.Table("word_errors we").
		Joins("JOIN training_sessions ts ON ts.id = we.session_id").
		Joins("JOIN words w ON w.id = we.word_id").
		Where("ts.user_id = ?", userID).
		Select(`we.word_id, w.word, w.definition,
			COALESCE(SUM(we.error_count), 0) AS errors,
			MIN(we.created_at) AS first_error,
			MAX(we.created_at) AS last_error`).
		Group("we.word_id, w.word, w.definition")
	q = windowed(q, "we.created_at", cutoff)

	var rows []ErrorSumRow
	err := q.Scan(&rows).Error
	return rows, err
}

// SessionWordPair links a session to one of its words.
type SessionWordPair struct {
	SessionID uint
	WordID    uint
}

// SessionWordPairs returns every (session, word) pair for the user's
// sessions in the window.
func (r *Repository) SessionWordPairs(userID uint, cutoff time.Time) ([]SessionWordPair, error) {
	q := r.db.Table("session_words sw").
		Joins("JOIN training_sessions ts ON ts.id = sw.session_id").
		Where("ts.user_id = ?", userID).
		Select("sw.session_id, sw.word_id")
	q = windowed(q, "ts.created_at", cutoff)

	var pairs []SessionWordPair
	err := q.Scan(&pairs).Error
	return pairs, err
}

// NeverPracticedWords returns words visible to the user that none of their
// sessions ever included, newest first.
func (r *Repository) NeverPracticedWords(userID uint, limit int) ([]entities.Word, error) {
	sub := r.db.Table("session_words sw").
		Joins("JOIN training_sessions ts ON ts.id = sw.session_id").
		Where("ts.user_id = ?", userID).
		Select("sw.word_id")

	q := r.db.Table("words w").
		Joins("JOIN wordbooks wb ON wb.id = w.wordbook_id").
		Where("wb.kind = ? OR wb.created_by = ?", entities.WordbookKindSystem, userID).
		Where("w.id NOT IN (?)", sub).
		Order("w.created_at DESC").
		Select("w.*")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var words []entities.Word
	err := q.Scan(&words).Error
	return words, err
}

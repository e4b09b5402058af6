// Package errorlog provides database operations for recorded word errors and
// the error-training rounds built from them.
package errorlog

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/spellbook/spellbook/internal/entities"
)

var (
	ErrNotFound       = errors.New("error record not found")
	ErrRoundNotFound  = errors.New("training round not found")
	ErrNoErrors       = errors.New("session has no recorded errors")
	ErrRoundCompleted = errors.New("training round already completed")
)

// Entry is a word error joined with its word and session context.
type Entry struct {
	ID            uint               `json:"id"`
	WordID        uint               `json:"word_id"`
	Word          string             `json:"word"`
	Definition    string             `json:"definition,omitempty"`
	SessionID     uint               `json:"session_id"`
	SessionName   string             `json:"session_name"`
	ErrorType     entities.ErrorType `json:"error_type"`
	UserInput     string             `json:"user_input,omitempty"`
	CorrectAnswer string             `json:"correct_answer"`
	ErrorCount    int                `json:"error_count"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Filter narrows error listings. Zero values mean "no constraint".
type Filter struct {
	SessionID uint
	WordID    uint
	ErrorType entities.ErrorType
	Limit     int
}

// TypeCount is one per-error-type aggregate row.
type TypeCount struct {
	ErrorType entities.ErrorType `json:"error_type"`
	Count     int                `json:"count"`
}

// Stats summarizes a user's recorded errors.
type Stats struct {
	TotalErrors      int         `json:"total_errors"`
	DistinctWords    int         `json:"distinct_words"`
	SessionsAffected int         `json:"sessions_affected"`
	ByType           []TypeCount `json:"by_type"`
}

// TopError is a word ranked by how often it was missed.
type TopError struct {
	WordID     uint      `json:"word_id"`
	Word       string    `json:"word"`
	Definition string    `json:"definition,omitempty"`
	ErrorCount int       `json:"error_count"`
	LastError  time.Time `json:"last_error"`
}

// Round is an error-training round with its session name and ordered words.
type Round struct {
	ID          uint                 `json:"id"`
	SessionID   uint                 `json:"session_id"`
	SessionName string               `json:"session_name"`
	RoundNumber int                  `json:"round_number"`
	Status      entities.RoundStatus `json:"status"`
	WordIDs     []uint               `json:"word_ids"`
	CreatedAt   time.Time            `json:"created_at"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
}

// roundRow is the scan target for round queries; WordIDs has no column and
// is attached separately.
type roundRow struct {
	ID          uint
	SessionID   uint
	SessionName string
	RoundNumber int
	Status      entities.RoundStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func (row roundRow) round() Round {
	return Round{
		ID:          row.ID,
		SessionID:   row.SessionID,
		SessionName: row.SessionName,
		RoundNumber: row.RoundNumber,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
		CompletedAt: row.CompletedAt,
	}
}

// Repository handles word error and training round database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new errorlog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// scoped returns word_errors rows restricted to sessions owned by userID,
// already joined with words and training_sessions.
func (r *Repository) scoped(userID uint) *gorm.DB {
	return r.db.Table("word_errors we").
		Joins("JOIN training_sessions ts ON ts.id = we.session_id").
		Joins("JOIN words w ON w.id = we.word_id").
		Where("ts.user_id = ?", userID)
}

// List returns the user's errors, newest first, applying the filter.
func (r *Repository) List(userID uint, f Filter) ([]Entry, error) {
	q := r.scoped(userID).
		Select(`we.id, we.word_id, w.word, w.definition, we.session_id,
			ts.session_name, we.error_type, we.user_input, we.correct_answer,
			we.error_count, we.created_at`).
		Order("we.created_at DESC")
	if f.SessionID != 0 {
		q = q.Where("we.session_id = ?", f.SessionID)
	}
	if f.WordID != 0 {
		q = q.Where("we.word_id = ?", f.WordID)
	}
	if f.ErrorType != "" {
		q = q.Where("we.error_type = ?", f.ErrorType)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var entries []Entry
	err := q.Scan(&entries).Error
	return entries, err
}

// GetStats aggregates the user's errors, optionally scoped to one session
// and to errors recorded after cutoff (zero cutoff means all time).
func (r *Repository) GetStats(userID, sessionID uint, cutoff time.Time) (*Stats, error) {
	base := func() *gorm.DB {
		q := r.scoped(userID)
		if sessionID != 0 {
			q = q.Where("we.session_id = ?", sessionID)
		}
		if !cutoff.IsZero() {
			q = q.Where("we.created_at >= ?", cutoff)
		}
		return q
	}

	stats := &Stats{}

	var total struct {
		Total            int
		DistinctWords    int
		SessionsAffected int
	}
	err := base().
		Select(`COALESCE(SUM(we.error_count), 0) AS total,
			COUNT(DISTINCT we.word_id) AS distinct_words,
			COUNT(DISTINCT we.session_id) AS sessions_affected`).
		Scan(&total).Error
	if err != nil {
		return nil, err
	}
	stats.TotalErrors = total.Total
	stats.DistinctWords = total.DistinctWords
	stats.SessionsAffected = total.SessionsAffected

	err = base().
		Select("we.error_type, COALESCE(SUM(we.error_count), 0) AS count").
		Group("we.error_type").
		Order("count DESC").
		Scan(&stats.ByType).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// TopErrors ranks the user's words by summed error count, most recent error
// breaking ties. A non-zero cutoff restricts the window.
func (r *Repository) TopErrors(userID uint, limit int, cutoff time.Time) ([]TopError, error) {
	q := r.scoped(userID).
		Select(`we.word_id, w.word, w.definition,
			COALESCE(SUM(we.error_count), 0) AS error_count,
			MAX(we.created_at) AS last_error`).
		Group("we.word_id, w.word, w.definition").
		Order("error_count DESC, last_error DESC")
	if !cutoff.IsZero() {
		q = q.Where("we.created_at >= ?", cutoff)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var top []TopError
	err := q.Scan(&top).Error
	return top, err
}

// Delete removes a single error record owned by userID.
func (r *Repository) Delete(id, userID uint) error {
	var we entities.WordError
	err := r.db.
		Select("word_errors.*").
		Joins("JOIN training_sessions ts ON ts.id = word_errors.session_id").
		Where("word_errors.id = ? AND ts.user_id = ?", id, userID).
		First(&we).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return r.db.Delete(&entities.WordError{}, we.ID).Error
}

// ownedSession verifies the session belongs to userID.
func (r *Repository) ownedSession(tx *gorm.DB, sessionID, userID uint) (*entities.TrainingSession, error) {
	var session entities.TrainingSession
	err := tx.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoundNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateRound persists an explicit training round with the given words.
// Repeated ids keep only their first occurrence.
func (r *Repository) CreateRound(sessionID, userID uint, roundNumber int, wordIDs []uint) (*entities.ErrorTrainingRound, error) {
	round := &entities.ErrorTrainingRound{
		SessionID:   sessionID,
		RoundNumber: roundNumber,
		Status:      entities.RoundStatusActive,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := r.ownedSession(tx, sessionID, userID); err != nil {
			return err
		}
		if err := tx.Create(round).Error; err != nil {
			return err
		}
		seen := make(map[uint]bool, len(wordIDs))
		position := 0
		for _, wordID := range wordIDs {
			if seen[wordID] {
				continue
			}
			seen[wordID] = true
			rw := entities.RoundWord{RoundID: round.ID, WordID: wordID, Position: position}
			if err := tx.Create(&rw).Error; err != nil {
				return err
			}
			position++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return round, nil
}

// GenerateRandomRound builds a round from the session's recorded errors: the
// words with the highest summed error counts win, equal counts are broken
// randomly, and the round is capped at however many error words exist.
// Returns ErrNoErrors when the session has no recorded errors at all.
func (r *Repository) GenerateRandomRound(sessionID, userID uint, roundNumber, wordCount int) (*entities.ErrorTrainingRound, []uint, error) {
	if wordCount <= 0 {
		wordCount = 10
	}

	round := &entities.ErrorTrainingRound{
		SessionID:   sessionID,
		RoundNumber: roundNumber,
		Status:      entities.RoundStatusActive,
	}
	var picked []uint
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := r.ownedSession(tx, sessionID, userID); err != nil {
			return err
		}

		type candidate struct {
			WordID uint
			Count  int
		}
		var candidates []candidate
		err := tx.Table("word_errors").
			Select("word_id, COALESCE(SUM(error_count), 0) AS count").
			Where("session_id = ?", sessionID).
			Group("word_id").
			Scan(&candidates).Error
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			return ErrNoErrors
		}

		// Shuffle first so the stable sort breaks count ties randomly.
		rand.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Count > candidates[j].Count
		})
		if wordCount > len(candidates) {
			wordCount = len(candidates)
		}

		if err := tx.Create(round).Error; err != nil {
			return err
		}
		for i := 0; i < wordCount; i++ {
			rw := entities.RoundWord{RoundID: round.ID, WordID: candidates[i].WordID, Position: i}
			if err := tx.Create(&rw).Error; err != nil {
				return err
			}
			picked = append(picked, candidates[i].WordID)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return round, picked, nil
}

// ListRounds returns the user's rounds, newest first, with their session
// names and ordered word ids. sessionID and status filter when non-zero.
func (r *Repository) ListRounds(userID, sessionID uint, status entities.RoundStatus) ([]Round, error) {
	q := r.db.Table("error_training_rounds etr").
		Joins("JOIN training_sessions ts ON ts.id = etr.session_id").
		Where("ts.user_id = ?", userID).
		Select(`etr.id, etr.session_id, ts.session_name, etr.round_number,
			etr.status, etr.created_at, etr.completed_at`).
		Order("etr.created_at DESC")
	if sessionID != 0 {
		q = q.Where("etr.session_id = ?", sessionID)
	}
	if status != "" {
		q = q.Where("etr.status = ?", status)
	}

	var rows []roundRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	rounds := make([]Round, 0, len(rows))
	for _, row := range rows {
		round := row.round()
		ids, err := r.roundWordIDs(round.ID)
		if err != nil {
			return nil, err
		}
		round.WordIDs = ids
		rounds = append(rounds, round)
	}
	return rounds, nil
}

// GetRound returns one round owned by userID, with its ordered word ids.
func (r *Repository) GetRound(id, userID uint) (*Round, error) {
	var row roundRow
	err := r.db.Table("error_training_rounds etr").
		Joins("JOIN training_sessions ts ON ts.id = etr.session_id").
		Where("etr.id = ? AND ts.user_id = ?", id, userID).
		Select(`etr.id, etr.session_id, ts.session_name, etr.round_number,
			etr.status, etr.created_at, etr.completed_at`).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, ErrRoundNotFound
	}
	round := row.round()
	ids, err := r.roundWordIDs(round.ID)
	if err != nil {
		return nil, err
	}
	round.WordIDs = ids
	return &round, nil
}

// UpdateRoundStatus flips a round between active and completed; completing
// stamps the completion time. A completed round is terminal.
func (r *Repository) UpdateRoundStatus(id, userID uint, status entities.RoundStatus) error {
	round, err := r.GetRound(id, userID)
	if err != nil {
		return err
	}
	if round.Status == entities.RoundStatusCompleted {
		return ErrRoundCompleted
	}
	updates := map[string]any{"status": status}
	if status == entities.RoundStatusCompleted {
		updates["completed_at"] = time.Now()
	}
	return r.db.Model(&entities.ErrorTrainingRound{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) roundWordIDs(roundID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entities.RoundWord{}).
		Where("round_id = ?", roundID).
		Order("position ASC").
		Pluck("word_id", &ids).Error
	return ids, err
}

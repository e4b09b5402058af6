package entities

import (
	"time"
)

type WordbookKind string

const (
	WordbookKindSystem     WordbookKind = "system"
	WordbookKindUserUpload WordbookKind = "user_upload"
)

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusPaused    SessionStatus = "paused"
	SessionStatusCompleted SessionStatus = "completed"
)

type RoundStatus string

const (
	RoundStatusActive    RoundStatus = "active"
	RoundStatusCompleted RoundStatus = "completed"
)

type ErrorType string

const (
	ErrorTypeSpelling      ErrorType = "spelling"
	ErrorTypePronunciation ErrorType = "pronunciation"
	ErrorTypeRecognition   ErrorType = "recognition"
)

// ValidErrorType reports whether t is one of the known error kinds.
func ValidErrorType(t ErrorType) bool {
	switch t {
	case ErrorTypeSpelling, ErrorTypePronunciation, ErrorTypeRecognition:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:100" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Wordbook struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:255;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Kind        WordbookKind `gorm:"size:20;default:'user_upload';index" json:"kind"`
	Source      string       `gorm:"size:255" json:"source,omitempty"`
	TotalWords  int          `gorm:"default:0" json:"total_words"`
	// CreatedBy is nil for system wordbooks.
	CreatedBy *uint     `gorm:"index" json:"created_by,omitempty"`
	Words     []Word    `gorm:"foreignKey:WordbookID;constraint:OnDelete:CASCADE" json:"words,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Word struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Word            string    `gorm:"size:255;not null;uniqueIndex:uq_word_wordbook" json:"word"`
	PronunciationUS string    `gorm:"size:255" json:"pronunciation_us,omitempty"`
	PronunciationUK string    `gorm:"size:255" json:"pronunciation_uk,omitempty"`
	AudioURLUS      string    `gorm:"size:500" json:"audio_url_us,omitempty"`
	AudioURLUK      string    `gorm:"size:500" json:"audio_url_uk,omitempty"`
	Definition      string    `gorm:"type:text" json:"definition,omitempty"`
	ExampleSentence string    `gorm:"type:text" json:"example_sentence,omitempty"`
	WordbookID      uint      `gorm:"index;uniqueIndex:uq_word_wordbook" json:"wordbook_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SessionSettings is the per-session training configuration blob.
type SessionSettings struct {
	RepeatCount     int     `json:"repeat_count,omitempty"`
	IntervalSeconds int     `json:"interval_seconds,omitempty"`
	Accent          string  `json:"accent,omitempty"`
	Speed           float64 `json:"speed,omitempty"`
}

type TrainingSession struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	UserID      uint          `gorm:"index" json:"user_id"`
	SessionName string        `gorm:"size:255;not null" json:"session_name"`
	Settings    string        `gorm:"type:text" json:"-"`
	Status      SessionStatus `gorm:"size:20;default:'active';index" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// SessionWord is the ordered association between a session and its words.
// Word-id lists are modelled as a join table rather than a serialized array so
// the foreign keys hold at the storage layer.
type SessionWord struct {
	SessionID uint `gorm:"primaryKey" json:"session_id"`
	WordID    uint `gorm:"primaryKey" json:"word_id"`
	Position  int  `gorm:"not null" json:"position"`
}

type WordError struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	WordID        uint      `gorm:"not null;uniqueIndex:uq_word_session_type" json:"word_id"`
	SessionID     uint      `gorm:"not null;uniqueIndex:uq_word_session_type" json:"session_id"`
	ErrorType     ErrorType `gorm:"size:20;not null;uniqueIndex:uq_word_session_type" json:"error_type"`
	UserInput     string    `gorm:"type:text" json:"user_input,omitempty"`
	CorrectAnswer string    `gorm:"size:255" json:"correct_answer"`
	ErrorCount    int       `gorm:"default:1" json:"error_count"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}

type ErrorTrainingRound struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	SessionID   uint        `gorm:"index" json:"session_id"`
	RoundNumber int         `gorm:"not null" json:"round_number"`
	Status      RoundStatus `gorm:"size:20;default:'active';index" json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

// RoundWord is the ordered association between an error-training round and
// the words it drills.
type RoundWord struct {
	RoundID  uint `gorm:"primaryKey" json:"round_id"`
	WordID   uint `gorm:"primaryKey" json:"word_id"`
	Position int  `gorm:"not null" json:"position"`
}

// TrainingStats holds the aggregates computed once when a session completes.
type TrainingStats struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	SessionID        uint      `gorm:"uniqueIndex" json:"session_id"`
	TotalWords       int       `gorm:"not null" json:"total_words"`
	CorrectWords     int       `gorm:"not null" json:"correct_words"`
	ErrorWords       int       `gorm:"not null" json:"error_words"`
	AccuracyRate     float64   `gorm:"type:decimal(5,2);not null" json:"accuracy_rate"`
	TotalTimeSeconds int       `gorm:"not null" json:"total_time_seconds"`
	CreatedAt        time.Time `json:"created_at"`
}

func (User) TableName() string               { return "users" }
func (Wordbook) TableName() string           { return "wordbooks" }
func (Word) TableName() string               { return "words" }
func (TrainingSession) TableName() string    { return "training_sessions" }
func (SessionWord) TableName() string        { return "session_words" }
func (WordError) TableName() string          { return "word_errors" }
func (ErrorTrainingRound) TableName() string { return "error_training_rounds" }
func (RoundWord) TableName() string          { return "round_words" }
func (TrainingStats) TableName() string      { return "training_stats" }

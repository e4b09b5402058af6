package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spellbook/spellbook/internal/database/training"
	"github.com/spellbook/spellbook/internal/entities"
)

// TrainingStore defines database operations for training sessions.
type TrainingStore interface {
	Create(userID uint, name, settings string, wordIDs []uint) (*entities.TrainingSession, error)
	List(userID uint) ([]training.ListItem, error)
	Get(id, userID uint) (*entities.TrainingSession, error)
	WordIDs(sessionID uint) ([]uint, error)
	UpdateStatus(id, userID uint, status entities.SessionStatus) error
	Delete(id, userID uint) error
	SaveResults(sessionID, userID uint, results []training.Result) (*training.Summary, error)
}

// WordLister fetches full word records for a session's word list.
type WordLister interface {
	ListByIDs(ids []uint) ([]entities.Word, error)
}

type TrainingController struct {
	store TrainingStore
	words WordLister
}

func NewTrainingController(store TrainingStore, words WordLister) *TrainingController {
	return &TrainingController{store: store, words: words}
}

// CreateSessionRequest is the request body for starting a session.
type CreateSessionRequest struct {
	SessionName string                    `json:"session_name"`
	WordIDs     []uint                    `json:"word_ids"`
	Settings    *entities.SessionSettings `json:"settings,omitempty"`
}

// UpdateStatusRequest carries a session status transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// SaveResultsRequest is the request body for submitting session results.
type SaveResultsRequest struct {
	Results []training.Result `json:"results"`
}

// Create starts a training session.
// POST /api/training/sessions
func (tc *TrainingController) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(req.SessionName) == "" {
		respondBadRequest(c, "session_name is required")
		return
	}
	if len(req.WordIDs) == 0 {
		respondBadRequest(c, "word_ids are required")
		return
	}

	settings := ""
	if req.Settings != nil {
		raw, err := json.Marshal(req.Settings)
		if err != nil {
			respondBadRequest(c, "invalid settings")
			return
		}
		settings = string(raw)
	}

	session, err := tc.store.Create(GetUserID(c), req.SessionName, settings, req.WordIDs)
	if err != nil {
		respondInternalError(c, err, "create training session")
		return
	}
	respondCreated(c, gin.H{"session": session, "word_ids": req.WordIDs})
}

// List returns the caller's sessions with aggregated error counts.
// GET /api/training/sessions
func (tc *TrainingController) List(c *gin.Context) {
	sessions, err := tc.store.List(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list training sessions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// Get returns one session with its settings and ordered word records.
// GET /api/training/sessions/:id
func (tc *TrainingController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	session, err := tc.store.Get(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, training.ErrNotFound) {
			respondNotFound(c, "training session")
			return
		}
		respondInternalError(c, err, "get training session")
		return
	}

	wordIDs, err := tc.store.WordIDs(id)
	if err != nil {
		respondInternalError(c, err, "get session words")
		return
	}
	words, err := tc.words.ListByIDs(wordIDs)
	if err != nil {
		respondInternalError(c, err, "load session words")
		return
	}

	var settings *entities.SessionSettings
	if session.Settings != "" {
		settings = &entities.SessionSettings{}
		if err := json.Unmarshal([]byte(session.Settings), settings); err != nil {
			settings = nil
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"session":  session,
		"settings": settings,
		"words":    words,
	})
}

// UpdateStatus transitions a session between active, paused and completed.
// PUT /api/training/sessions/:id/status
func (tc *TrainingController) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	status := entities.SessionStatus(req.Status)
	switch status {
	case entities.SessionStatusActive, entities.SessionStatusPaused, entities.SessionStatusCompleted:
	default:
		respondBadRequest(c, "invalid status, expected active, paused or completed")
		return
	}

	err := tc.store.UpdateStatus(id, GetUserID(c), status)
	if err != nil {
		switch {
		case errors.Is(err, training.ErrNotFound):
			respondNotFound(c, "training session")
		case errors.Is(err, training.ErrAlreadyCompleted):
			respondConflict(c, "training session already completed")
		default:
			respondInternalError(c, err, "update session status")
		}
		return
	}
	respondSuccess(c, "status updated")
}

// SaveResults records a finished session's per-word outcomes.
// POST /api/training/sessions/:id/results
func (tc *TrainingController) SaveResults(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SaveResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	summary, err := tc.store.SaveResults(id, GetUserID(c), req.Results)
	if err != nil {
		switch {
		case errors.Is(err, training.ErrNotFound):
			respondNotFound(c, "training session")
		case errors.Is(err, training.ErrAlreadyCompleted):
			respondConflict(c, "results already submitted for this session")
		default:
			respondInternalError(c, err, "save session results")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": summary})
}

// Delete removes a session and its dependent records.
// DELETE /api/training/sessions/:id
func (tc *TrainingController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	err := tc.store.Delete(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, training.ErrNotFound) {
			respondNotFound(c, "training session")
			return
		}
		respondInternalError(c, err, "delete training session")
		return
	}
	respondSuccess(c, "training session deleted")
}

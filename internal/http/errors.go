package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spellbook/spellbook/internal/analytics"
	"github.com/spellbook/spellbook/internal/database/errorlog"
	"github.com/spellbook/spellbook/internal/entities"
)

// ErrorStore defines database operations for word errors and training rounds.
type ErrorStore interface {
	List(userID uint, f errorlog.Filter) ([]errorlog.Entry, error)
	GetStats(userID, sessionID uint, cutoff time.Time) (*errorlog.Stats, error)
	TopErrors(userID uint, limit int, cutoff time.Time) ([]errorlog.TopError, error)
	Delete(id, userID uint) error
	CreateRound(sessionID, userID uint, roundNumber int, wordIDs []uint) (*entities.ErrorTrainingRound, error)
	GenerateRandomRound(sessionID, userID uint, roundNumber, wordCount int) (*entities.ErrorTrainingRound, []uint, error)
	ListRounds(userID, sessionID uint, status entities.RoundStatus) ([]errorlog.Round, error)
	GetRound(id, userID uint) (*errorlog.Round, error)
	UpdateRoundStatus(id, userID uint, status entities.RoundStatus) error
}

type ErrorsController struct {
	store ErrorStore
}

func NewErrorsController(store ErrorStore) *ErrorsController {
	return &ErrorsController{store: store}
}

// CreateRoundRequest is the request body for explicit round creation.
type CreateRoundRequest struct {
	SessionID   uint   `json:"session_id"`
	WordIDs     []uint `json:"word_ids"`
	RoundNumber int    `json:"round_number"`
}

// GenerateRoundRequest is the request body for random round generation.
type GenerateRoundRequest struct {
	SessionID   uint `json:"session_id"`
	RoundNumber int  `json:"round_number"`
	WordCount   int  `json:"word_count"`
}

// RoundStatusRequest carries a round status transition.
type RoundStatusRequest struct {
	Status string `json:"status"`
}

// List returns the caller's word errors, filtered and newest first.
// GET /api/errors
func (ec *ErrorsController) List(c *gin.Context) {
	filter := errorlog.Filter{
		SessionID: optionalQueryID(c, "session_id"),
		WordID:    optionalQueryID(c, "word_id"),
		ErrorType: entities.ErrorType(c.Query("error_type")),
		Limit:     queryInt(c, "limit", 100, 500),
	}
	if filter.ErrorType != "" && !entities.ValidErrorType(filter.ErrorType) {
		respondBadRequest(c, "invalid error_type")
		return
	}

	entries, err := ec.store.List(GetUserID(c), filter)
	if err != nil {
		respondInternalError(c, err, "list errors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"errors": entries})
}

// Stats aggregates the caller's errors over a trailing window.
// GET /api/errors/stats?session_id&days
func (ec *ErrorsController) Stats(c *gin.Context) {
	days := queryInt(c, "days", 0, 0)
	cutoff := analytics.WindowStart(time.Now(), days)

	stats, err := ec.store.GetStats(GetUserID(c), optionalQueryID(c, "session_id"), cutoff)
	if err != nil {
		respondInternalError(c, err, "error stats")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "period_days": days})
}

// TopErrors ranks words by how often the caller missed them.
// GET /api/errors/top-errors?limit&days
func (ec *ErrorsController) TopErrors(c *gin.Context) {
	limit := queryInt(c, "limit", 10, 100)
	days := queryInt(c, "days", 0, 0)
	cutoff := analytics.WindowStart(time.Now(), days)

	top, err := ec.store.TopErrors(GetUserID(c), limit, cutoff)
	if err != nil {
		respondInternalError(c, err, "top errors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": top})
}

// Delete removes one error record.
// DELETE /api/errors/:id
func (ec *ErrorsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	err := ec.store.Delete(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, errorlog.ErrNotFound) {
			respondNotFound(c, "error record")
			return
		}
		respondInternalError(c, err, "delete error")
		return
	}
	respondSuccess(c, "error deleted")
}

// CreateRound creates a training round from an explicit word list.
// POST /api/errors/training-rounds
func (ec *ErrorsController) CreateRound(c *gin.Context) {
	var req CreateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.SessionID == 0 {
		respondBadRequest(c, "session_id is required")
		return
	}
	if len(req.WordIDs) == 0 {
		respondBadRequest(c, "word_ids are required")
		return
	}
	if req.RoundNumber <= 0 {
		req.RoundNumber = 1
	}

	round, err := ec.store.CreateRound(req.SessionID, GetUserID(c), req.RoundNumber, req.WordIDs)
	if err != nil {
		if errors.Is(err, errorlog.ErrRoundNotFound) {
			respondNotFound(c, "training session")
			return
		}
		respondInternalError(c, err, "create training round")
		return
	}
	respondCreated(c, gin.H{"round": round, "word_ids": req.WordIDs})
}

// GenerateRandomRound builds a round from the session's most-missed words.
// POST /api/errors/generate-random-round
func (ec *ErrorsController) GenerateRandomRound(c *gin.Context) {
	var req GenerateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.SessionID == 0 {
		respondBadRequest(c, "session_id is required")
		return
	}
	if req.RoundNumber <= 0 {
		req.RoundNumber = 1
	}

	round, wordIDs, err := ec.store.GenerateRandomRound(req.SessionID, GetUserID(c), req.RoundNumber, req.WordCount)
	if err != nil {
		switch {
		case errors.Is(err, errorlog.ErrRoundNotFound):
			respondNotFound(c, "training session")
		case errors.Is(err, errorlog.ErrNoErrors):
			respondNotFound(c, "errors for session")
		default:
			respondInternalError(c, err, "generate training round")
		}
		return
	}
	respondCreated(c, gin.H{"round": round, "word_ids": wordIDs})
}

// ListRounds returns the caller's training rounds.
// GET /api/errors/training-rounds?session_id&status
func (ec *ErrorsController) ListRounds(c *gin.Context) {
	status := entities.RoundStatus(c.Query("status"))
	if status != "" && status != entities.RoundStatusActive && status != entities.RoundStatusCompleted {
		respondBadRequest(c, "invalid status, expected active or completed")
		return
	}

	rounds, err := ec.store.ListRounds(GetUserID(c), optionalQueryID(c, "session_id"), status)
	if err != nil {
		respondInternalError(c, err, "list training rounds")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rounds": rounds})
}

// UpdateRoundStatus flips a round between active and completed.
// PUT /api/errors/training-rounds/:id/status
func (ec *ErrorsController) UpdateRoundStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req RoundStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	status := entities.RoundStatus(req.Status)
	if status != entities.RoundStatusActive && status != entities.RoundStatusCompleted {
		respondBadRequest(c, "invalid status, expected active or completed")
		return
	}

	err := ec.store.UpdateRoundStatus(id, GetUserID(c), status)
	if err != nil {
		switch {
		case errors.Is(err, errorlog.ErrRoundNotFound):
			respondNotFound(c, "training round")
		case errors.Is(err, errorlog.ErrRoundCompleted):
			respondConflict(c, "round already completed")
		default:
			respondInternalError(c, err, "update round status")
		}
		return
	}
	respondSuccess(c, "status updated")
}

package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spellbook/spellbook/internal/analytics"
	dbanalytics "github.com/spellbook/spellbook/internal/database/analytics"
	"github.com/spellbook/spellbook/internal/database/training"
	"github.com/spellbook/spellbook/internal/entities"
)

// AnalyticsStore fetches the raw rows the analytics engine aggregates.
type AnalyticsStore interface {
	Sessions(userID uint, cutoff time.Time) ([]dbanalytics.SessionRow, error)
	Errors(userID uint, cutoff time.Time) ([]dbanalytics.ErrorRow, error)
	SessionErrors(sessionID uint) ([]dbanalytics.ErrorRow, error)
	DistinctPracticedWords(userID uint, cutoff time.Time) (int, error)
	PracticeCounts(userID uint, cutoff time.Time) ([]dbanalytics.PracticeRow, error)
	ErrorSums(userID uint, cutoff time.Time) ([]dbanalytics.ErrorSumRow, error)
	SessionWordPairs(userID uint, cutoff time.Time) ([]dbanalytics.SessionWordPair, error)
	NeverPracticedWords(userID uint, limit int) ([]entities.Word, error)
}

// SessionReader is the slice of the training store the analysis controller
// needs for per-session breakdowns.
type SessionReader interface {
	Get(id, userID uint) (*entities.TrainingSession, error)
	Stats(sessionID uint) (*entities.TrainingStats, error)
}

type AnalysisController struct {
	store    AnalyticsStore
	sessions SessionReader
}

func NewAnalysisController(store AnalyticsStore, sessions SessionReader) *AnalysisController {
	return &AnalysisController{store: store, sessions: sessions}
}

// Overview returns the trailing-window learning overview.
// GET /api/analysis/overview?days=30
func (ac *AnalysisController) Overview(c *gin.Context) {
	days := queryInt(c, "days", 30, 365)
	cutoff := analytics.WindowStart(time.Now(), days)
	userID := GetUserID(c)

	sessions, err := ac.store.Sessions(userID, cutoff)
	if err != nil {
		respondInternalError(c, err, "overview sessions")
		return
	}
	errs, err := ac.store.Errors(userID, cutoff)
	if err != nil {
		respondInternalError(c, err, "overview errors")
		return
	}
	distinct, err := ac.store.DistinctPracticedWords(userID, cutoff)
	if err != nil {
		respondInternalError(c, err, "overview words")
		return
	}

	c.JSON(http.StatusOK, analytics.BuildOverview(days, sessions, errs, distinct))
}

// Session returns the per-session error breakdown.
// GET /api/analysis/session/:id
func (ac *AnalysisController) Session(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	session, err := ac.sessions.Get(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, training.ErrNotFound) {
			respondNotFound(c, "training session")
			return
		}
		respondInternalError(c, err, "get session")
		return
	}

	stats, err := ac.sessions.Stats(id)
	if err != nil && !errors.Is(err, training.ErrNotFound) {
		respondInternalError(c, err, "get session stats")
		return
	}
	errs, err := ac.store.SessionErrors(id)
	if err != nil {
		respondInternalError(c, err, "get session errors")
		return
	}

	c.JSON(http.StatusOK, analytics.BuildSessionAnalysis(session, stats, errs))
}

// Progress returns the bucketed progress rollup.
// GET /api/analysis/progress?days&group_by=hour|day|week|month
func (ac *AnalysisController) Progress(c *gin.Context) {
	groupBy := c.DefaultQuery("group_by", analytics.GroupByDay)
	if !analytics.ValidGroupBy(groupBy) {
		respondBadRequest(c, "invalid group_by, expected hour, day, week or month")
		return
	}
	days := queryInt(c, "days", 30, 365)
	cutoff := analytics.WindowStart(time.Now(), days)
	userID := GetUserID(c)

	sessions, err := ac.store.Sessions(userID, cutoff)
	if err != nil {
		respondInternalError(c, err, "progress sessions")
		return
	}
	errs, err := ac.store.Errors(userID, cutoff)
	if err != nil {
		respondInternalError(c, err, "progress errors")
		return
	}
	pairs, err := ac.store.SessionWordPairs(userID, cutoff)
	if err != nil {
		respondInternalError(c, err, "progress words")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period_days": days,
		"group_by":    groupBy,
		"progress":    analytics.BuildProgress(groupBy, sessions, errs, pairs),
	})
}

// WordMastery tiers the words practiced in the window.
// GET /api/analysis/word-mastery?days&limit
func (ac *AnalysisController) WordMastery(c *gin.Context) {
	days := queryInt(c, "days", 30, 365)
	limit := queryInt(c, "limit", 50, 500)
	cutoff := analytics.WindowStart(time.Now(), days)
	userID := GetUserID(c)

	practice, err := ac.store.PracticeCounts(userID, cutoff)
	if err != nil {
		respondInternalError(c, err, "mastery practice counts")
		return
	}
	errorSums, err := ac.store.ErrorSums(userID, cutoff)
	if err != nil {
		respondInternalError(c, err, "mastery error sums")
		return
	}

	mastery := analytics.BuildMastery(practice, errorSums, limit)
	c.JSON(http.StatusOK, gin.H{"period_days": days, "mastery": mastery})
}

// Recommendations returns words to review and fresh words to start.
// GET /api/analysis/recommendations?limit
func (ac *AnalysisController) Recommendations(c *gin.Context) {
	limit := queryInt(c, "limit", 10, 100)
	now := time.Now()
	userID := GetUserID(c)

	// Review candidates come from the last 30 days of errors.
	errorSums, err := ac.store.ErrorSums(userID, analytics.WindowStart(now, 30))
	if err != nil {
		respondInternalError(c, err, "recommendation errors")
		return
	}
	fresh, err := ac.store.NeverPracticedWords(userID, limit)
	if err != nil {
		respondInternalError(c, err, "recommendation new words")
		return
	}

	c.JSON(http.StatusOK, analytics.BuildRecommendations(now, errorSums, fresh, limit))
}

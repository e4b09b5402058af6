package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/spellbook/spellbook/internal/audio"
	"github.com/spellbook/spellbook/internal/auth"
	"github.com/spellbook/spellbook/internal/config"
	"github.com/spellbook/spellbook/internal/database"
	dbanalytics "github.com/spellbook/spellbook/internal/database/analytics"
	"github.com/spellbook/spellbook/internal/database/errorlog"
	"github.com/spellbook/spellbook/internal/database/training"
	"github.com/spellbook/spellbook/internal/database/wordbooks"
	"github.com/spellbook/spellbook/internal/database/words"
)

func setupRouter(t *testing.T) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dbPath := "./test_router_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	authService := auth.NewService(db, config.Auth{
		JWTSecret:   "test-secret",
		TokenExpiry: time.Hour,
		BcryptCost:  bcrypt.MinCost,
	})

	router := NewRouter(RouterConfig{
		Database:       &database.Database{DB: db},
		Version:        "test",
		AuthService:    authService,
		AuthMiddleware: auth.NewMiddleware(authService),
		WordbookStore:  wordbooks.NewRepository(db),
		WordStore:      words.NewRepository(db),
		TrainingStore:  training.NewRepository(db),
		ErrorStore:     errorlog.NewRepository(db),
		AnalyticsStore: dbanalytics.NewRepository(db),
		SessionReader:  training.NewRepository(db),
		AudioClient:    audio.NewClient(t.TempDir()),
	})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return router, cleanup
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

func registerUser(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, _ := decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRouter_AuthRequired(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	for _, path := range []string{
		"/api/wordbooks",
		"/api/words?wordbook_id=1",
		"/api/training/sessions",
		"/api/errors",
		"/api/analysis/overview",
	} {
		w := doJSON(router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	t.Run("health is public", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRouter_LoginFlow(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	registerUser(t, router, "alice")

	t.Run("login by email", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
			"username": "alice@example.com",
			"password": "secret123",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
			"username": "alice",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me returns the user", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
			"username": "alice",
			"password": "secret123",
		})
		require.Equal(t, http.StatusOK, w.Code)
		token, _ := decodeBody(t, w)["token"].(string)

		w = doJSON(router, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"alice"`)
	})
}

func TestRouter_TrainingFlow(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	token := registerUser(t, router, "alice")

	// Build a wordbook with three words.
	w := doJSON(router, http.MethodPost, "/api/wordbooks", token, gin.H{
		"name": "fruit", "description": "fruit words",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	wordbookID := uint(decodeBody(t, w)["id"].(float64))

	var wordIDs []uint
	for _, text := range []string{"apple", "banana", "cherry"} {
		w := doJSON(router, http.MethodPost, "/api/words", token, gin.H{
			"word": text, "wordbook_id": wordbookID,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		wordIDs = append(wordIDs, uint(decodeBody(t, w)["id"].(float64)))
	}

	// Start a session.
	w = doJSON(router, http.MethodPost, "/api/training/sessions", token, gin.H{
		"session_name": "drill", "word_ids": wordIDs,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sessionID := uint(decodeBody(t, w)["session"].(map[string]any)["id"].(float64))

	results := gin.H{"results": []gin.H{
		{"word_id": wordIDs[0], "is_correct": true, "time_spent": 3},
		{"word_id": wordIDs[1], "is_correct": false, "user_input": "bananna", "error_type": "spelling", "time_spent": 7},
		{"word_id": wordIDs[2], "is_correct": false, "user_input": "chery", "error_type": "spelling", "time_spent": 5},
	}}

	t.Run("save results", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, fmt.Sprintf("/api/training/sessions/%d/results", sessionID), token, results)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		stats := decodeBody(t, w)["stats"].(map[string]any)
		assert.InDelta(t, 33.33, stats["accuracy_rate"].(float64), 0.001)
	})

	t.Run("resubmission conflicts", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, fmt.Sprintf("/api/training/sessions/%d/results", sessionID), token, results)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("errors are queryable", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/errors/stats", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_errors":2`)
	})

	t.Run("random round from session errors", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/errors/generate-random-round", token, gin.H{
			"session_id": sessionID, "word_count": 5,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		body := decodeBody(t, w)
		ids := body["word_ids"].([]any)
		assert.Len(t, ids, 2)

		roundID := uint(body["round"].(map[string]any)["id"].(float64))
		w = doJSON(router, http.MethodPut, fmt.Sprintf("/api/errors/training-rounds/%d/status", roundID), token, gin.H{"status": "completed"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// A completed round cannot be reopened.
		w = doJSON(router, http.MethodPut, fmt.Sprintf("/api/errors/training-rounds/%d/status", roundID), token, gin.H{"status": "active"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("overview reflects the session", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/analysis/overview?days=30", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(1), body["completed_sessions"])
		assert.Equal(t, float64(2), body["total_errors"])
	})

	t.Run("foreign user sees nothing", func(t *testing.T) {
		otherToken := registerUser(t, router, "mallory")
		w := doJSON(router, http.MethodGet, fmt.Sprintf("/api/training/sessions/%d", sessionID), otherToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRouter_LoginRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dbPath := "./test_router_ratelimit.db"
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}()

	authService := auth.NewService(db, config.Auth{
		JWTSecret:   "test-secret",
		TokenExpiry: time.Hour,
		BcryptCost:  bcrypt.MinCost,
	})
	limiter := auth.NewLoginLimiter(auth.LoginLimiterConfig{MaxAttempts: 2, Window: time.Minute, Lockout: time.Minute})
	defer limiter.Stop()

	router := NewRouter(RouterConfig{
		Database:       &database.Database{DB: db},
		AuthService:    authService,
		AuthMiddleware: auth.NewMiddleware(authService),
		LoginLimiter:   limiter,
		WordbookStore:  wordbooks.NewRepository(db),
		WordStore:      words.NewRepository(db),
		TrainingStore:  training.NewRepository(db),
		ErrorStore:     errorlog.NewRepository(db),
		AnalyticsStore: dbanalytics.NewRepository(db),
		SessionReader:  training.NewRepository(db),
	})

	registerUser(t, router, "alice")
	bad := gin.H{"username": "alice", "password": "wrong-password"}

	for i := 0; i < 2; i++ {
		w := doJSON(router, http.MethodPost, "/api/auth/login", "", bad)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := doJSON(router, http.MethodPost, "/api/auth/login", "", bad)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Even correct credentials are blocked during lockout.
	w = doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{"username": "alice", "password": "secret123"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

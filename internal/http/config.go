package http

import (
	"github.com/spellbook/spellbook/internal/audio"
	"github.com/spellbook/spellbook/internal/auth"
	"github.com/spellbook/spellbook/internal/database"
	"github.com/spellbook/spellbook/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router. This replaces a long parameter list in NewRouter for
// better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Version  string

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	LoginLimiter   *auth.LoginLimiter

	// Domain stores
	WordbookStore  WordbookStore
	WordStore      WordStore
	TrainingStore  TrainingStore
	ErrorStore     ErrorStore
	AnalyticsStore AnalyticsStore
	SessionReader  SessionReader

	// Pronunciation audio
	AudioClient *audio.Client
	AudioDir    string

	// Background work (nil when the task queue is disabled)
	TaskClient *tasks.Client
}

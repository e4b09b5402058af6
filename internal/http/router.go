package http

import (
	"github.com/gin-gonic/gin"

	"github.com/spellbook/spellbook/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
//
// Everything under /api requires a bearer token except registration and
// login; /health and the static audio files are public.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(auth.SecurityHeadersMiddleware())

	// Public endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	if cfg.AudioDir != "" {
		router.Static("/audio", cfg.AudioDir)
	}

	authController := NewAuthController(cfg.AuthService, cfg.LoginLimiter)
	router.POST("/api/auth/register", authController.Register)
	router.POST("/api/auth/login", authController.Login)

	// Everything else runs behind the auth middleware
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.Handler())

	api.GET("/auth/me", authController.Me)

	wordbooksController := NewWordbooksController(cfg.WordbookStore, cfg.WordStore, cfg.TaskClient)
	api.GET("/wordbooks", wordbooksController.List)
	api.POST("/wordbooks", wordbooksController.Create)
	api.GET("/wordbooks/:id", wordbooksController.Get)
	api.GET("/wordbooks/:id/words", wordbooksController.Words)
	api.POST("/wordbooks/:id/upload", wordbooksController.Upload)
	api.POST("/wordbooks/:id/download-audio", wordbooksController.DownloadAudio)
	api.DELETE("/wordbooks/:id", wordbooksController.Delete)

	wordsController := NewWordsController(cfg.WordStore, cfg.WordbookStore, cfg.AudioClient)
	api.GET("/words", wordsController.List)
	api.POST("/words", wordsController.Add)
	api.POST("/words/batch", wordsController.BatchAdd)
	api.GET("/words/:id/audio", wordsController.AudioURL)
	api.POST("/words/:id/download-audio", wordsController.DownloadAudio)
	api.DELETE("/words/:id", wordsController.Delete)
	api.GET("/words/search/:query", wordsController.Search)

	trainingController := NewTrainingController(cfg.TrainingStore, cfg.WordStore)
	api.POST("/training/sessions", trainingController.Create)
	api.GET("/training/sessions", trainingController.List)
	api.GET("/training/sessions/:id", trainingController.Get)
	api.PUT("/training/sessions/:id/status", trainingController.UpdateStatus)
	api.POST("/training/sessions/:id/results", trainingController.SaveResults)
	api.DELETE("/training/sessions/:id", trainingController.Delete)

	errorsController := NewErrorsController(cfg.ErrorStore)
	api.GET("/errors", errorsController.List)
	api.GET("/errors/stats", errorsController.Stats)
	api.GET("/errors/top-errors", errorsController.TopErrors)
	api.POST("/errors/training-rounds", errorsController.CreateRound)
	api.GET("/errors/training-rounds", errorsController.ListRounds)
	api.PUT("/errors/training-rounds/:id/status", errorsController.UpdateRoundStatus)
	api.POST("/errors/generate-random-round", errorsController.GenerateRandomRound)
	api.DELETE("/errors/:id", errorsController.Delete)

	analysisController := NewAnalysisController(cfg.AnalyticsStore, cfg.SessionReader)
	api.GET("/analysis/overview", analysisController.Overview)
	api.GET("/analysis/session/:id", analysisController.Session)
	api.GET("/analysis/progress", analysisController.Progress)
	api.GET("/analysis/word-mastery", analysisController.WordMastery)
	api.GET("/analysis/recommendations", analysisController.Recommendations)

	catalogController := NewCatalogController(cfg.Database.DB)
	api.POST("/catalog/:key", catalogController.Seed)

	return router
}

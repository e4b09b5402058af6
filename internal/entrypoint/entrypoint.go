package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spellbook/spellbook/internal/audio"
	"github.com/spellbook/spellbook/internal/auth"
	"github.com/spellbook/spellbook/internal/catalog"
	"github.com/spellbook/spellbook/internal/config"
	"github.com/spellbook/spellbook/internal/database"
	"github.com/spellbook/spellbook/internal/database/analytics"
	"github.com/spellbook/spellbook/internal/database/errorlog"
	"github.com/spellbook/spellbook/internal/database/training"
	"github.com/spellbook/spellbook/internal/database/wordbooks"
	"github.com/spellbook/spellbook/internal/database/words"
	http_controllers "github.com/spellbook/spellbook/internal/http"
	"github.com/spellbook/spellbook/internal/scheduler"
	"github.com/spellbook/spellbook/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down within
// the configured timeout. onShutdown runs before the listener closes so
// background workers drain first.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires every component and serves until shutdown.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Spellbook v%s", version)

	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if err := os.MkdirAll(cfg.Audio.Dir, 0o755); err != nil {
		log.Fatalf("Failed to create audio directory %s: %v", cfg.Audio.Dir, err)
	}

	// Seeding is idempotent, so every boot converges on the built-in books.
	if err := catalog.SeedAll(db.DB); err != nil {
		log.Fatalf("Failed to seed catalog wordbooks: %v", err)
	}

	wordbookRepo := wordbooks.NewRepository(db.DB)
	wordRepo := words.NewRepository(db.DB)
	trainingRepo := training.NewRepository(db.DB)
	errorRepo := errorlog.NewRepository(db.DB)
	analyticsRepo := analytics.NewRepository(db.DB)

	authService := auth.NewService(db.DB, cfg.Auth)
	authMiddleware := auth.NewMiddleware(authService)
	loginLimiter := auth.NewLoginLimiter(auth.DefaultLoginLimiterConfig())
	defer loginLimiter.Stop()

	audioClient := audio.NewClient(cfg.Audio.Dir)

	// Task queue for background audio downloads
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}
		taskClient, err = tasks.NewClient(cfg.Tasks.DBPath, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		taskClient.Register(tasks.NewDownloadWordbookAudioQueue(wordRepo, audioClient))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Cron job reconciling the denormalized wordbook counters
	var recountScheduler *scheduler.Scheduler
	if cfg.Recount.Enabled {
		recountScheduler, err = scheduler.New(cfg.Recount.Schedule, wordbookRepo)
		if err != nil {
			log.Fatalf("Failed to initialize scheduler: %v", err)
		}
		recountScheduler.Start()
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		Version:        version,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		LoginLimiter:   loginLimiter,
		WordbookStore:  wordbookRepo,
		WordStore:      wordRepo,
		TrainingStore:  trainingRepo,
		ErrorStore:     errorRepo,
		AnalyticsStore: analyticsRepo,
		SessionReader:  trainingRepo,
		AudioClient:    audioClient,
		AudioDir:       cfg.Audio.Dir,
		TaskClient:     taskClient,
	})

	Serve(router, cfg, func(ctx context.Context) {
		if recountScheduler != nil {
			recountScheduler.Stop(ctx)
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
			if taskCtxCancel != nil {
				taskCtxCancel()
			}
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task queue: %v", err)
			}
		}
	})
}

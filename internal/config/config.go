package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Auth
		Audio
		Tasks
		Recount
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		// DSN is a go-sql-driver/mysql DSN, e.g.
		// "root:@tcp(127.0.0.1:3306)/memorize_words?charset=utf8mb4&parseTime=True&loc=Local"
		DSN string
	}
	Auth struct {
		// JWTSecret signs bearer tokens. Generated at startup when empty.
		JWTSecret   string
		TokenExpiry time.Duration
		BcryptCost  int
	}
	Audio struct {
		// Dir holds downloaded pronunciation mp3 files, served under /audio.
		Dir string
	}
	Tasks struct {
		Enabled         bool
		DBPath          string
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Recount struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_dsn", "root:@tcp(127.0.0.1:3306)/memorize_words?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("audio_dir", "./audio")

	// Auth defaults
	v.SetDefault("auth_jwt_secret", "")       // Auto-generated if empty
	v.SetDefault("auth_token_expiry", "168h") // 7 days
	v.SetDefault("auth_bcrypt_cost", 10)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_db_path", "./spellbook-tasks.db")
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Wordbook counter reconciliation defaults
	v.SetDefault("recount_enabled", true)
	v.SetDefault("recount_schedule", "0 * * * *") // Hourly at :00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			DSN: v.GetString("DATABASE_DSN"),
		},
		Auth: Auth{
			JWTSecret:   v.GetString("AUTH_JWT_SECRET"),
			TokenExpiry: v.GetDuration("AUTH_TOKEN_EXPIRY"),
			BcryptCost:  v.GetInt("AUTH_BCRYPT_COST"),
		},
		Audio: Audio{
			Dir: v.GetString("AUDIO_DIR"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			DBPath:          v.GetString("TASKS_DB_PATH"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Recount: Recount{
			Enabled:  v.GetBool("RECOUNT_ENABLED"),
			Schedule: v.GetString("RECOUNT_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}

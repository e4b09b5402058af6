package database

import (
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/spellbook/spellbook/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase connects to MySQL using the given DSN and runs migrations.
func NewDatabase(dsn string) (*Database, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Printf("Database initialized successfully")

	return &Database{DB: db}, nil
}

// Migrate runs auto-migration for all entities. Exposed so test setups can
// migrate file-backed sqlite databases with the same schema.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entities.User{},
		&entities.Wordbook{},
		&entities.Word{},
		&entities.TrainingSession{},
		&entities.SessionWord{},
		&entities.WordError{},
		&entities.ErrorTrainingRound{},
		&entities.RoundWord{},
		&entities.TrainingStats{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies the underlying connection is alive.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

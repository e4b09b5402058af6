// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── wordbooks/       # Wordbook CRUD, visibility, word counters
//	├── words/           # Word CRUD, search, audio URLs
//	├── training/        # Training sessions, results, stats
//	├── errorlog/        # Word errors and error-training rounds
//	└── analytics/       # Raw row fetchers for the analytics engine
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase(dsn)
//
//	// Create domain-specific repositories
//	wordbookRepo := wordbooks.NewRepository(db.DB)
//	trainingRepo := training.NewRepository(db.DB)
//
//	// Use repositories
//	session, err := trainingRepo.Get(sessionID, userID)
//
// Repositories take user ids on every read so row visibility is enforced at
// the query level, not in handlers.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Keep the SQL dialect-portable; compute time cutoffs in Go
package database

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spellbook/spellbook/internal/catalog"
	"github.com/spellbook/spellbook/internal/config"
	"github.com/spellbook/spellbook/internal/database"
	"github.com/spellbook/spellbook/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "seed":
		runSeed(args)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// runSeed inserts the built-in system wordbooks. With no arguments every
// catalog is seeded; otherwise only the named ones.
func runSeed(args []string) {
	cfg := config.NewConfig()
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	keys := args
	if len(keys) == 0 {
		keys = catalog.Keys()
	}
	for _, key := range keys {
		wordbookID, inserted, err := catalog.Seed(db.DB, key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error seeding %s: %v\n", key, err)
			os.Exit(1)
		}
		log.Printf("Seeded catalog %s (wordbook %d, %d new words)", key, wordbookID, inserted)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve   Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  seed    Insert the built-in system wordbooks (%v)\n", catalog.Keys())
	fmt.Fprintf(os.Stderr, "\nConfiguration is read from environment variables (PORT, DATABASE_DSN, ...).\n")
}

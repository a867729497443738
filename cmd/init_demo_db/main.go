package main

import (
	"log"

	"librarycatalog/config"
	"librarycatalog/db"

	"go.uber.org/zap"
)

func main() {
	// Schema only: no demonstration accounts, books or reviews.
	cfg := config.Default()
	cfg.Seed = false

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := db.BootstrapSQLite(cfg, logger.Sugar())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	log.Printf("Demo database initialized successfully at %s", cfg.DBPath)
}

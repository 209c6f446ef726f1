package main

import (
	"hospital_insights/internal/config" // Custom import path (Config)
	"hospital_insights/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logging
)

// Main entry point for migration
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	gdb, err := db.Open(cfg.DatabaseURL, true)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}
}

package main

import (
	"log"

	"github.com/consultafit/nutriplan/backend/config"
	"github.com/consultafit/nutriplan/backend/internal/database"
)

// Applies the schema to the configured database and exits. Deployments run
// this before starting the API.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations applied successfully")
}

package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/pulsewire/backend/internal/queue"
	"github.com/pulsewire/backend/internal/realtime"
	"github.com/pulsewire/backend/internal/router"
	"github.com/pulsewire/backend/pkg/config"
	"github.com/pulsewire/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Durable notification work queue, backed by MongoDB
	workQueue, err := queue.NewMongoQueue(db.Mongo.Database(cfg.MongoDatabase), cfg.QueueCollection)
	if err != nil {
		log.Fatalf("Failed to initialize work queue: %v", err)
	}

	// Presence registry, one instance per running service
	registry := realtime.NewRegistry()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, workQueue, registry)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

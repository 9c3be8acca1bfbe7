package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spmcdev/Daily-Collection/internal/adapters/http/middleware"
	"github.com/spmcdev/Daily-Collection/internal/adapters/http/routes"
	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/models"
	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/repositories"
	"github.com/spmcdev/Daily-Collection/internal/config"
	"github.com/spmcdev/Daily-Collection/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "github.com/spmcdev/Daily-Collection/docs" // Swagger docs
)

// @title Daily Collection API
// @version 1.0
// @description Micro-loan ledger with weekly installment tracking

// @contact.name API Support

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a session token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed the bootstrap admin account
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed admin user: %v", err)
	}

	// Start the hourly expired-session sweep
	cleanupService := services.NewSessionCleanupService(repositories.NewSessionRepository(db))
	cleanupService.Start()
	defer cleanupService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Daily Collection API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}

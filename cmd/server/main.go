package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mess-feedback/internal/adapters/http/middleware"
	"mess-feedback/internal/adapters/http/routes"
	"mess-feedback/internal/adapters/persistence/models"
	"mess-feedback/internal/adapters/persistence/repositories"
	"mess-feedback/internal/adapters/storage"
	"mess-feedback/internal/config"
	"mess-feedback/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "mess-feedback/docs" // Swagger docs
)

// @title Mess Feedback API
// @version 1.0
// @description Hostel mess feedback portal: submissions, admin listing and spreadsheet export
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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
	defer config.CloseDatabase(db)

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed development accounts
	if cfg.IsDev() && cfg.Auth.SeedUsers {
		if err := config.NewSeeder(db).Run(); err != nil {
			log.Printf("⚠️ Warning: Failed to seed users: %v", err)
		}
	}

	// File storage for proofs and exports
	store, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Failed to init storage: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = store.EnsureBucket(ctx)
	cancel()
	if err != nil {
		log.Fatalf("❌ Failed to prepare storage: %v", err)
	}

	// Admin codes live in memory and are shared by signup and the purge job
	otpService := services.NewOTPService(cfg.Auth.AdminCodeTTL)

	// Maintenance jobs
	cronService := services.NewCronService(repositories.NewRefreshTokenRepository(db), otpService)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Mess Feedback API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		// multipart overhead on top of the largest accepted proof
		BodyLimit: int(cfg.Feedback.UploadMaxBytes) + 1<<20,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, cfg, store, otpService)

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

package routes

import (
	"path/filepath"
	"time"

	"mess-feedback/internal/adapters/http/handlers"
	"mess-feedback/internal/adapters/http/middleware"
	"mess-feedback/internal/adapters/persistence/repositories"
	"mess-feedback/internal/adapters/storage"
	"mess-feedback/internal/config"
	"mess-feedback/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Handlers groups the HTTP handlers mounted by Register
type Handlers struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Feedback  *handlers.FeedbackHandler
	Export    *handlers.ExportHandler
	Dashboard *handlers.DashboardHandler
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, store storage.ObjectStorage, otpService *services.OTPService) {
	// Initialize repositories
	feedbackRepo := repositories.NewFeedbackRepository(db, cfg.Database.OpTimeout)
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)

	// Initialize services
	feedbackService := services.NewFeedbackService(feedbackRepo, store, cfg.Feedback.UploadMaxBytes)
	exportService := services.NewExportService(feedbackService, store)
	authService := services.NewAuthService(userRepo, refreshTokenRepo, otpService, cfg)
	dashboardService := services.NewDashboardService(feedbackRepo, userRepo)

	// Initialize handlers
	h := &Handlers{
		Health:    handlers.NewHealthHandler(db, cfg),
		Auth:      handlers.NewAuthHandler(authService, cfg),
		Feedback:  handlers.NewFeedbackHandler(feedbackService, feedbackService),
		Export:    handlers.NewExportHandler(exportService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
	}

	// Uploaded proofs and exports (local storage only, MinIO serves its own URLs)
	if local, ok := store.(*storage.LocalStorage); ok {
		serveStoredFiles(app, local.Root())
	}

	Register(app, h, authService)
}

// Register mounts the handlers. sessions resolves access tokens for protected routes.
func Register(app *fiber.App, h *Handlers, sessions middleware.SessionValidator) {
	// Health check & root routes
	app.Get("/", h.Health.Root)
	app.Get("/health", h.Health.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")

	// Feedback: anyone may submit, only admins may read
	api.Post("/feedback", h.Feedback.Submit)
	api.Get("/feedback",
		middleware.AuthMiddleware(sessions),
		middleware.AdminOnly(),
		middleware.PrivateCacheHeaders(30*time.Second),
		h.Feedback.List,
	)

	// Export (admin only, never cached)
	api.Get("/export",
		middleware.AuthMiddleware(sessions),
		middleware.AdminOnly(),
		middleware.NoCacheHeaders(),
		h.Export.Export,
	)

	// Dashboard (admin only)
	dashboardRoutes := api.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(sessions))
	dashboardRoutes.Use(middleware.AdminOnly())
	dashboardRoutes.Get("/admin", middleware.PrivateCacheHeaders(30*time.Second), h.Dashboard.GetAdminDashboard)

	// Auth routes
	authRoutes := api.Group("/auth")
	setupAuthRoutes(authRoutes, h.Auth, sessions)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, sessions middleware.SessionValidator) {
	// Public routes
	router.Post("/signup", middleware.AuthRateLimiter(), handler.Signup)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(sessions), handler.Me)
	router.Delete("/account", middleware.AuthMiddleware(sessions), handler.DeleteAccount)
	router.Post("/admin-codes",
		middleware.AuthMiddleware(sessions),
		middleware.AdminOnly(),
		middleware.StrictRateLimiter(),
		handler.IssueAdminCode,
	)
}

// serveStoredFiles exposes the local storage root
func serveStoredFiles(app *fiber.App, root string) {
	app.Static("/"+storage.UploadsPrefix, filepath.Join(root, storage.UploadsPrefix), fiber.Static{
		ByteRange:     true,
		CacheDuration: 10 * time.Minute,
	})
	app.Static("/"+storage.ExportsPrefix, filepath.Join(root, storage.ExportsPrefix), fiber.Static{
		Download:      true,
		CacheDuration: -1,
	})
}

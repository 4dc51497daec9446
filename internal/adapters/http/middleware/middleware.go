package middleware

import (
	"errors"
	"strings"
	"time"

	"mess-feedback/internal/config"
	"mess-feedback/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const corsMethods = "GET,POST,DELETE,OPTIONS"

// Setup installs the global middleware chain
func Setup(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New())

	// spreadsheets are already zip-compressed
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/exports/")
		},
	}))

	app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "SAMEORIGIN",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		// proof images and exports are linked from the portal frontend
		CrossOriginResourcePolicy: "same-site",
		PermissionPolicy:          "geolocation=(), microphone=(), camera=()",
	}))

	app.Use(rateLimiter(100, "", "Too many requests"))
	app.Use(logger.New(loggerConfig(cfg)))
	app.Use(cors.New(corsConfig(cfg)))
}

func loggerConfig(cfg *config.Config) logger.Config {
	if cfg.IsDev() {
		return logger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		}
	}
	return logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// corsConfig allows any origin in dev. Prod restricts origins so the
// session cookies can be sent cross-site.
func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods: corsMethods,
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}
	if cfg.IsDev() {
		c.AllowOrigins = "*"
		return c
	}
	c.AllowOrigins = cfg.GetAllowedOrigins()
	c.AllowCredentials = true
	return c
}

// rateLimiter allows max requests per minute per client IP. Limiters with
// different scopes count separately.
func rateLimiter(max int, scope, reason string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + scope
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   reason,
				"message": "Please wait a minute before retrying",
			})
		},
	})
}

// AuthRateLimiter guards login and signup (5 per minute)
func AuthRateLimiter() fiber.Handler {
	return rateLimiter(5, "-auth", "Too many login attempts")
}

// StrictRateLimiter guards admin code issuance (3 per minute)
func StrictRateLimiter() fiber.Handler {
	return rateLimiter(3, "-strict", "Rate limit exceeded")
}

// CustomErrorHandler renders errors that escape the handlers, including
// unknown routes and recovered panics
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return response.Error(c, fe.Code, fe.Message)
	}
	return response.Error(c, fiber.StatusInternalServerError, "Internal Server Error")
}

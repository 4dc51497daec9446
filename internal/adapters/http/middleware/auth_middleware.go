package middleware

import (
	"context"
	"errors"
	"log"
	"strings"

	"mess-feedback/internal/core/domain"
	"mess-feedback/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SessionLocal is the fiber.Ctx local holding the *domain.Session
const SessionLocal = "session"

// SessionValidator resolves an access token into a session. It fails for
// tokens whose credential no longer exists.
type SessionValidator interface {
	ValidateAccessToken(ctx context.Context, accessToken string) (*domain.Session, error)
}

// accessToken reads the token from the cookie, then the Authorization header
func accessToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(sessions SessionValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := accessToken(c)
		if token == "" {
			return response.Unauthorized(c, "Access token required")
		}

		session, err := sessions.ValidateAccessToken(c.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrTokenExpired):
			return response.Unauthorized(c, "Access token expired")
		case errors.Is(err, domain.ErrTokenRevoked), errors.Is(err, domain.ErrTokenInvalid):
			return response.Unauthorized(c, "Invalid access token")
		default:
			log.Printf("❌ Session lookup failed: %v", err)
			return response.ServiceUnavailable(c, "Service temporarily unavailable, please retry")
		}

		c.Locals(SessionLocal, session)
		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := CurrentSession(c)
		if session == nil {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if session.Role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// OptionalAuth sets the session if a valid token is present
func OptionalAuth(sessions SessionValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := accessToken(c); token != "" {
			if session, err := sessions.ValidateAccessToken(c.Context(), token); err == nil {
				c.Locals(SessionLocal, session)
			}
		}
		return c.Next()
	}
}

// CurrentSession returns the session set by AuthMiddleware, or nil
func CurrentSession(c *fiber.Ctx) *domain.Session {
	session, _ := c.Locals(SessionLocal).(*domain.Session)
	return session
}

package handlers

import (
	"errors"
	"log"

	"mess-feedback/internal/core/domain"
	"mess-feedback/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// writeError maps a service error onto the response envelope
func writeError(c *fiber.Ctx, err error) error {
	var (
		validationErr *domain.ValidationError
		attachmentErr *domain.AttachmentError
		queryErr      *domain.QueryError
		serializeErr  *domain.SerializationError
		ioErr         *domain.IOError
		storageErr    *domain.StorageError
	)

	switch {
	case errors.As(err, &validationErr):
		return response.BadRequest(c, validationErr.Error())
	case errors.Is(err, domain.ErrAuth), errors.Is(err, domain.ErrNoSession):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenRevoked), errors.Is(err, domain.ErrTokenInvalid):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, domain.ErrInvalidAdminCode), errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrInvalidRole):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, err.Error())
	case errors.As(err, &attachmentErr):
		log.Printf("❌ %v", err)
		return response.InternalServerError(c, "Failed to store attachment")
	}

	// retryable store failures get 503 so clients know to try again
	if domain.IsRetryable(err) {
		log.Printf("⚠️ %v", err)
		return response.ServiceUnavailable(c, "Service temporarily unavailable, please retry")
	}

	log.Printf("❌ %v", err)
	switch {
	case errors.As(err, &queryErr):
		return response.InternalServerError(c, "Failed to fetch feedback")
	case errors.As(err, &serializeErr):
		return response.InternalServerError(c, "Failed to build spreadsheet")
	case errors.As(err, &ioErr):
		return response.InternalServerError(c, "Failed to write export file")
	case errors.As(err, &storageErr):
		return response.InternalServerError(c, "Failed to save feedback")
	default:
		return response.InternalServerError(c, "Internal Server Error")
	}
}

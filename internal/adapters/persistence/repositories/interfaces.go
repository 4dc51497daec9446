package repositories

import (
	"context"
	"time"

	"mess-feedback/internal/adapters/persistence/models"
)

// FeedbackRepository defines the feedback record store
type FeedbackRepository interface {
	Insert(ctx context.Context, feedback *models.Feedback) (uint, error)
	QueryAll(ctx context.Context) ([]models.Feedback, error)
	Count(ctx context.Context) (int64, error)
	CountBy(ctx context.Context, column string) (map[string]int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Delete(ctx context.Context, id uint) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

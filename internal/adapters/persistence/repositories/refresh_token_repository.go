package repositories

import (
	"context"
	"time"

	"mess-feedback/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// refreshTokenRepository stores hashed refresh tokens. Rows are revoked
// rather than deleted so a replayed token is recognised; the maintenance
// job deletes them once expired.
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	return r.db.WithContext(ctx).Omit("User").Create(token).Error
}

// GetByTokenHash returns the unrevoked token with the given hash
func (r *refreshTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := r.db.WithContext(ctx).
		Where(&models.RefreshToken{TokenHash: tokenHash}).
		Where("revoked_at IS NULL").
		Take(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, id uint) error {
	return r.revoke(ctx, "id = ?", id)
}

func (r *refreshTokenRepository) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	return r.revoke(ctx, "token_hash = ?", tokenHash)
}

// RevokeAllByUserID ends every session of a user
func (r *refreshTokenRepository) RevokeAllByUserID(ctx context.Context, userID uint) error {
	return r.revoke(ctx, "user_id = ?", userID)
}

// revoke stamps revoked_at on the still-active tokens matching the condition
func (r *refreshTokenRepository) revoke(ctx context.Context, cond string, arg interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where(cond, arg).
		Where("revoked_at IS NULL").
		Update("revoked_at", time.Now()).Error
}

// DeleteExpired removes tokens past their expiry and reports how many went
func (r *refreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}

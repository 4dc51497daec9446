package repositories

import (
	"context"
	"fmt"
	"time"

	"mess-feedback/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// feedbackRepository implements FeedbackRepository interface
type feedbackRepository struct {
	db        *gorm.DB
	opTimeout time.Duration
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *gorm.DB, opTimeout time.Duration) FeedbackRepository {
	return &feedbackRepository{db: db, opTimeout: opTimeout}
}

// Insert appends one row; id and created_at are assigned by the store
func (r *feedbackRepository) Insert(ctx context.Context, feedback *models.Feedback) (uint, error) {
	ctx, cancel := withTimeout(ctx, r.opTimeout)
	defer cancel()

	feedback.ID = 0
	feedback.CreatedAt = time.Time{}

	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return 0, classify("insert feedback", err)
	}
	return feedback.ID, nil
}

// QueryAll returns every row, newest first
func (r *feedbackRepository) QueryAll(ctx context.Context) ([]models.Feedback, error) {
	ctx, cancel := withTimeout(ctx, r.opTimeout)
	defer cancel()

	rows := make([]models.Feedback, 0)
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, classify("query feedback", err)
	}
	return rows, nil
}

// Count returns the number of stored rows
func (r *feedbackRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.opTimeout)
	defer cancel()

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Feedback{}).Count(&count).Error; err != nil {
		return 0, classify("count feedback", err)
	}
	return count, nil
}

// groupableColumns are the enum columns CountBy may group on
var groupableColumns = map[string]bool{
	"mess_type":     true,
	"category":      true,
	"feedback_type": true,
}

// CountBy returns row counts grouped by an enum column
func (r *feedbackRepository) CountBy(ctx context.Context, column string) (map[string]int64, error) {
	if !groupableColumns[column] {
		return nil, fmt.Errorf("cannot group feedback by %q", column)
	}

	ctx, cancel := withTimeout(ctx, r.opTimeout)
	defer cancel()

	var rows []struct {
		Value string
		Total int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Feedback{}).
		Select(column + " AS value, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, classify("count feedback by "+column, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Value] = row.Total
	}
	return counts, nil
}

// CountSince returns the number of rows created at or after since
func (r *feedbackRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.opTimeout)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Feedback{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, classify("count recent feedback", err)
	}
	return count, nil
}

package services

import (
	"context"
	"time"

	"mess-feedback/internal/adapters/persistence/repositories"
	"mess-feedback/internal/core/domain"
)

// DashboardService summarizes stored feedback for admins
type DashboardService struct {
	feedbackRepo repositories.FeedbackRepository
	userRepo     repositories.UserRepository
	now          func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(feedbackRepo repositories.FeedbackRepository, userRepo repositories.UserRepository) *DashboardService {
	return &DashboardService{
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
		now:          time.Now,
	}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// Feedback Statistics
	TotalFeedback     int64 `json:"total_feedback"`
	FeedbackThisMonth int64 `json:"feedback_this_month"`

	// Breakdown by enum value; every value is present, zero included
	ByMessType     map[string]int64 `json:"by_mess_type"`
	ByCategory     map[string]int64 `json:"by_category"`
	ByFeedbackType map[string]int64 `json:"by_feedback_type"`

	// Account Statistics
	TotalStudents int64 `json:"total_students"`
	TotalAdmins   int64 `json:"total_admins"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}
	var err error

	if data.TotalFeedback, err = s.feedbackRepo.Count(ctx); err != nil {
		return nil, &domain.QueryError{Err: err}
	}

	// This month statistics
	now := s.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if data.FeedbackThisMonth, err = s.feedbackRepo.CountSince(ctx, startOfMonth); err != nil {
		return nil, &domain.QueryError{Err: err}
	}

	if data.ByMessType, err = s.countBy(ctx, "mess_type", enumKeys(domain.MessTypes)); err != nil {
		return nil, err
	}
	if data.ByCategory, err = s.countBy(ctx, "category", enumKeys(domain.Categories)); err != nil {
		return nil, err
	}
	if data.ByFeedbackType, err = s.countBy(ctx, "feedback_type", enumKeys(domain.FeedbackTypes)); err != nil {
		return nil, err
	}

	// Account counts by role
	if data.TotalStudents, err = s.userRepo.CountByRole(ctx, string(domain.RoleStudent)); err != nil {
		return nil, &domain.QueryError{Err: err}
	}
	if data.TotalAdmins, err = s.userRepo.CountByRole(ctx, string(domain.RoleAdmin)); err != nil {
		return nil, &domain.QueryError{Err: err}
	}

	return data, nil
}

// countBy groups on column and fills in zero counts for unused values
func (s *DashboardService) countBy(ctx context.Context, column string, values []string) (map[string]int64, error) {
	counts, err := s.feedbackRepo.CountBy(ctx, column)
	if err != nil {
		return nil, &domain.QueryError{Err: err}
	}

	out := make(map[string]int64, len(values))
	for _, v := range values {
		out[v] = counts[v]
	}
	return out, nil
}

func enumKeys[T ~string](values []T) []string {
	keys := make([]string, len(values))
	for i, v := range values {
		keys[i] = string(v)
	}
	return keys
}

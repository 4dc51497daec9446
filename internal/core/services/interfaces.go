package services

import (
	"context"

	"mess-feedback/internal/core/domain"
)

// Note: FeedbackService implementation is in feedback_service.go
// Note: AuthService implementation is in auth_service.go

// FeedbackLister lists stored feedback newest first
type FeedbackLister interface {
	ListAll(ctx context.Context) ([]domain.FeedbackRecord, error)
}

// FeedbackSubmitter accepts one feedback submission
type FeedbackSubmitter interface {
	Submit(ctx context.Context, input *SubmitFeedbackInput) (uint, error)
}

// SnapshotExporter writes a spreadsheet snapshot and returns its location
type SnapshotExporter interface {
	ExportSnapshot(ctx context.Context) (string, error)
}

// CredentialStore is the server-side credential and session store
type CredentialStore interface {
	Login(ctx context.Context, input *LoginInput) (*AuthResult, error)
	Signup(ctx context.Context, input *SignupInput) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	DeleteAccount(ctx context.Context, session *domain.Session) error
	IssueAdminCode(session *domain.Session) (string, error)
	ValidateAccessToken(ctx context.Context, accessToken string) (*domain.Session, error)
}

// AdminSummarizer builds the admin dashboard summary
type AdminSummarizer interface {
	GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error)
}

package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"mess-feedback/internal/adapters/http/handlers"
	"mess-feedback/internal/adapters/persistence/models"
	"mess-feedback/internal/adapters/storage"
	"mess-feedback/internal/config"
	"mess-feedback/internal/core/services"
	"mess-feedback/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// memUsers is an in-memory UserRepository
type memUsers struct {
	mu     sync.Mutex
	users  map[uint]models.User
	nextID uint
}

func (r *memUsers) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return nil
}

func (r *memUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *memUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUsers) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *memUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *memUsers) CountByRole(ctx context.Context, role string) (int64, error) {
	return 0, nil
}

// memRefreshTokens is an in-memory RefreshTokenRepository
type memRefreshTokens struct {
	mu     sync.Mutex
	tokens []*models.RefreshToken
}

func (r *memRefreshTokens) Create(ctx context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = uint(len(r.tokens) + 1)
	r.tokens = append(r.tokens, token)
	return nil
}

func (r *memRefreshTokens) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash && t.RevokedAt == nil {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRefreshTokens) revokeWhere(match func(*models.RefreshToken) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, t := range r.tokens {
		if match(t) {
			t.RevokedAt = &now
		}
	}
}

func (r *memRefreshTokens) Revoke(ctx context.Context, id uint) error {
	r.revokeWhere(func(t *models.RefreshToken) bool { return t.ID == id })
	return nil
}

func (r *memRefreshTokens) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	r.revokeWhere(func(t *models.RefreshToken) bool { return t.TokenHash == tokenHash })
	return nil
}

func (r *memRefreshTokens) RevokeAllByUserID(ctx context.Context, userID uint) error {
	r.revokeWhere(func(t *models.RefreshToken) bool { return t.UserID == userID })
	return nil
}

func (r *memRefreshTokens) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

// newSessionEnv wires the real credential store behind the routes
func newSessionEnv(t *testing.T) *testEnv {
	t.Helper()

	password.Cost = bcrypt.MinCost
	t.Cleanup(func() { password.Cost = password.DefaultCost })

	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "route_secret",
			RefreshSecret:    "route_refresh_secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Cookie: config.CookieConfig{SameSite: "lax"},
		Auth:   config.AuthConfig{AdminSignupCode: "INDIA", AdminCodeTTL: 15 * time.Minute},
	}
	root := t.TempDir()
	store := storage.NewLocalStorage(root)
	repo := &memFeedbackRepo{}

	authService := services.NewAuthService(
		&memUsers{users: make(map[uint]models.User)},
		&memRefreshTokens{},
		services.NewOTPService(cfg.Auth.AdminCodeTTL),
		cfg,
	)
	feedbackService := services.NewFeedbackService(repo, store, 1<<20)
	h := &Handlers{
		Health:    handlers.NewHealthHandler(nil, cfg),
		Auth:      handlers.NewAuthHandler(authService, cfg),
		Feedback:  handlers.NewFeedbackHandler(feedbackService, feedbackService),
		Export:    handlers.NewExportHandler(services.NewExportService(feedbackService, store)),
		Dashboard: handlers.NewDashboardHandler(fakeSummary{repo}),
	}

	app := fiber.New()
	serveStoredFiles(app, root)
	Register(app, h, authService)

	return &testEnv{app: app, repo: repo, root: root}
}

func TestDeletedAccountLosesBearerAccess(t *testing.T) {
	env := newSessionEnv(t)

	signup := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
		strings.NewReader(`{"username":"boss","password":"secret1","role":"admin","adminOtp":"INDIA"}`))
	signup.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, body := env.do(t, signup)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("signup: expected 201, got %d (%s)", resp.StatusCode, body.Error)
	}
	var created struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body.Data, &created); err != nil || created.AccessToken == "" {
		t.Fatalf("expected an access token in %s", body.Data)
	}
	token := created.AccessToken

	for _, path := range []string{"/api/feedback", "/api/auth/me"} {
		if resp, _ := env.do(t, withToken(httptest.NewRequest(http.MethodGet, path, nil), token)); resp.StatusCode != fiber.StatusOK {
			t.Fatalf("GET %s before delete: expected 200, got %d", path, resp.StatusCode)
		}
	}

	resp, body = env.do(t, withToken(httptest.NewRequest(http.MethodDelete, "/api/auth/account", nil), token))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete: expected 200, got %d (%s)", resp.StatusCode, body.Error)
	}

	for _, path := range []string{"/api/feedback", "/api/export", "/api/auth/me", "/api/dashboard/admin"} {
		resp, body := env.do(t, withToken(httptest.NewRequest(http.MethodGet, path, nil), token))
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("GET %s after delete: expected 401, got %d", path, resp.StatusCode)
		}
		if body.Error != "Invalid access token" {
			t.Fatalf("GET %s after delete: unexpected error %q", path, body.Error)
		}
	}
}

package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"strings"
	"time"

	"mess-feedback/internal/adapters/persistence/models"
	"mess-feedback/internal/adapters/persistence/repositories"
	"mess-feedback/internal/config"
	"mess-feedback/internal/core/domain"
	"mess-feedback/internal/pkg/jwt"
	"mess-feedback/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService is the server-side credential store. A session is the pair
// of tokens held by one client; logging in again replaces it.
type AuthService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	otpService       *OTPService
	cfg              *config.Config
	// verifyAbsent costs an unknown username the same bcrypt work as a wrong password
	verifyAbsent func(password string)
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	otpService *OTPService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		otpService:       otpService,
		cfg:              cfg,
		verifyAbsent:     password.VerifyAbsent,
	}
}

// SignupInput represents signup input
type SignupInput struct {
	Username  string
	Password  string
	Role      domain.Role
	AdminCode string
}

// LoginInput represents login input
type LoginInput struct {
	Username string
	Password string
}

// AuthResult is an established session with its tokens
type AuthResult struct {
	Session      *domain.Session
	AccessToken  string
	RefreshToken string
}

// Login authenticates a user. Unknown usernames and wrong passwords
// return the same error.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.verifyAbsent(input.Password)
			return nil, domain.ErrAuth
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrAuth
	}

	result, err := s.establishSession(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Username)
	return result, nil
}

// Signup creates a credential and logs it in. Admin signups need a valid
// admin code; a rejected signup leaves the credential set unchanged.
func (s *AuthService) Signup(ctx context.Context, input *SignupInput) (*AuthResult, error) {
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		return nil, &domain.ValidationError{Field: "username", Missing: true}
	}
	if !password.ValidatePassword(input.Password) {
		return nil, &domain.ValidationError{Field: "password"}
	}

	if input.Role == "" {
		input.Role = domain.RoleStudent
	}
	if !input.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	if input.Role == domain.RoleAdmin {
		if err := s.checkAdminCode(input.AdminCode); err != nil {
			return nil, err
		}
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrConflict
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Password: hashedPassword,
		Role:     input.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	result, err := s.establishSession(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User signed up: %s (%s)", user.Username, user.Role)
	return result, nil
}

// checkAdminCode accepts the configured bootstrap code or an issued
// one-time code. Issued codes are spent even if the signup fails later.
func (s *AuthService) checkAdminCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.ErrInvalidAdminCode
	}

	if bootstrap := s.cfg.Auth.AdminSignupCode; bootstrap != "" &&
		subtle.ConstantTimeCompare([]byte(code), []byte(bootstrap)) == 1 {
		return nil
	}

	if s.otpService != nil && s.otpService.Consume(code) == nil {
		return nil
	}
	return domain.ErrInvalidAdminCode
}

// IssueAdminCode creates a one-time admin signup code. Only admins may issue.
func (s *AuthService) IssueAdminCode(session *domain.Session) (string, error) {
	if session == nil {
		return "", domain.ErrNoSession
	}
	if !session.IsAdmin() {
		return "", domain.ErrForbidden
	}

	code, expiresAt, err := s.otpService.Issue(session.Username)
	if err != nil {
		return "", err
	}

	log.Printf("✅ Admin code issued by %s (expires %s)", session.Username, expiresAt.Format("15:04:05"))
	return code, nil
}

// Refresh rotates the refresh token and returns a new session
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := jwt.ParseRefresh(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		return nil, tokenError(err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	if storedToken.UserID != userID || storedToken.IsRevoked() {
		return nil, domain.ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	// Token rotation
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	return s.establishSession(ctx, user)
}

// Logout revokes the refresh token if there is one. Never fails for a
// client without a session.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken)); err != nil {
		return err
	}

	log.Printf("✅ User logged out")
	return nil
}

// DeleteAccount removes the session's credential and ends every session it holds
func (s *AuthService) DeleteAccount(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return domain.ErrNoSession
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNoSession
		}
		return err
	}

	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return err
	}

	log.Printf("✅ Account deleted: %s", user.Username)
	return nil
}

// ValidateAccessToken resolves an access token into a session. The token
// only counts while its credential still exists, so deleting an account
// ends every session it held.
func (s *AuthService) ValidateAccessToken(ctx context.Context, accessToken string) (*domain.Session, error) {
	claims, err := jwt.ParseAccess(accessToken, s.cfg.JWT.Secret)
	if err != nil {
		return nil, tokenError(err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenRevoked
		}
		return nil, err
	}
	if user.Username != claims.Username {
		return nil, domain.ErrTokenRevoked
	}

	return user.ToSession(), nil
}

// tokenError maps jwt package errors onto domain errors
func tokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return domain.ErrTokenExpired
	}
	return domain.ErrTokenInvalid
}

// establishSession mints a token pair for user and stores the refresh token
func (s *AuthService) establishSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	token := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: password.HashToken(tokens.RefreshToken),
		ExpiresAt: time.Now().Add(s.cfg.JWT.RefreshTTL()),
	}
	if err := s.refreshTokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &AuthResult{
		Session:      user.ToSession(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// generateTokens signs an access and refresh token pair for user
func (s *AuthService) generateTokens(user *models.User) (*domain.TokenPair, error) {
	accessToken, err := jwt.IssueAccess(user.ID, user.Username, string(user.Role), s.cfg.JWT.Secret, s.cfg.JWT.AccessTTL())
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.IssueRefresh(user.ID, uuid.NewString(), s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTTL())
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

package handlers

import (
	"errors"
	"strings"
	"time"

	"mess-feedback/internal/adapters/http/middleware"
	"mess-feedback/internal/config"
	"mess-feedback/internal/core/domain"
	"mess-feedback/internal/core/services"
	"mess-feedback/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService services.CredentialStore
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService services.CredentialStore, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// SignupRequest represents signup request body
type SignupRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
	Role            string `json:"role" validate:"omitempty,oneof=student admin"`
	AdminOTP        string `json:"adminOtp"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Signup handles account creation
// @Summary Sign up
// @Description Create a student or admin account and log it in. Admin signup needs a valid admin OTP.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body SignupRequest true "Signup data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if msg := validateRequest(&req); msg != "" {
		return response.BadRequest(c, msg)
	}

	input := &services.SignupInput{
		Username:  req.Username,
		Password:  req.Password,
		Role:      domain.Role(req.Role),
		AdminCode: req.AdminOTP,
	}

	result, err := h.authService.Signup(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}

	h.replaceSession(c, result)

	return response.Created(c, "Signup successful", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.Session,
	})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user and return tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Username = strings.TrimSpace(req.Username)
	if msg := validateRequest(&req); msg != "" {
		return response.BadRequest(c, msg)
	}

	input := &services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	}

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}

	h.replaceSession(c, result)

	return response.Success(c, "Login successful", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.Session,
	})
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Refresh access token using refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		return response.Unauthorized(c, "Refresh token not found")
	}

	result, err := h.authService.Refresh(c.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Refresh token expired, please login again")
		case errors.Is(err, domain.ErrTokenRevoked):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Refresh token revoked, please login again")
		case errors.Is(err, domain.ErrTokenInvalid):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Invalid refresh token")
		default:
			return writeError(c, err)
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Token refreshed successfully", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.Session,
	})
}

// Logout handles user logout
// @Summary Logout user
// @Description Ends the current session. Succeeds even without one.
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if refreshToken := c.Cookies("refresh_token"); refreshToken != "" {
		_ = h.authService.Logout(c.Context(), refreshToken)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out successfully", nil)
}

// Me returns the current session
// @Summary Get current session
// @Description Get the username and role of the active session
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if session == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	return response.Success(c, "Session retrieved successfully", fiber.Map{
		"user": session,
	})
}

// DeleteAccount removes the current user's credential and ends the session
// @Summary Delete account
// @Description Delete the credential of the active session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/account [delete]
func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.authService.DeleteAccount(c.Context(), middleware.CurrentSession(c)); err != nil {
		return writeError(c, err)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Account deleted successfully", nil)
}

// IssueAdminCode issues a one-time admin signup code
// @Summary Issue admin code
// @Description Issue a single-use code that authorizes one admin signup
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/admin-codes [post]
func (h *AuthHandler) IssueAdminCode(c *fiber.Ctx) error {
	code, err := h.authService.IssueAdminCode(middleware.CurrentSession(c))
	if err != nil {
		return writeError(c, err)
	}

	return response.Created(c, "Admin code issued", fiber.Map{
		"code":       code,
		"expires_in": int(h.cfg.Auth.AdminCodeTTL.Seconds()),
	})
}

// replaceSession ends any session the client already holds, then sets the new one
func (h *AuthHandler) replaceSession(c *fiber.Ctx, result *services.AuthResult) {
	if previous := c.Cookies("refresh_token"); previous != "" && previous != result.RefreshToken {
		_ = h.authService.Logout(c.Context(), previous)
	}
	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
}

// setAuthCookies sets access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	// Access token cookie (shorter expiry)
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})

	// Refresh token cookie (longer expiry)
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.RefreshTokenDays * 24 * 60 * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Now().Add(-1 * time.Hour),
			Secure:   h.cfg.Cookie.Secure,
			HTTPOnly: true,
			SameSite: h.cfg.Cookie.SameSite,
			Domain:   h.cfg.Cookie.Domain,
		})
	}
}

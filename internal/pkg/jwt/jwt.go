package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the iss claim of every token minted by the service
const Issuer = "mess-feedback"

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// AccessClaims describe the session an access token was issued for.
// The subject is the user id.
type AccessClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the user the token was issued to
func (c *AccessClaims) UserID() (uint, error) {
	return subjectID(c.Subject)
}

// RefreshClaims name one stored refresh token by its jti
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// UserID returns the user the token was issued to
func (c *RefreshClaims) UserID() (uint, error) {
	return subjectID(c.Subject)
}

// IssueAccess signs an access token for the session
func IssueAccess(userID uint, username, role, secret string, ttl time.Duration) (string, error) {
	return sign(&AccessClaims{
		Username:         username,
		Role:             role,
		RegisteredClaims: registered(userID, "", ttl),
	}, secret)
}

// IssueRefresh signs a refresh token carrying tokenID as its jti
func IssueRefresh(userID uint, tokenID, secret string, ttl time.Duration) (string, error) {
	return sign(&RefreshClaims{RegisteredClaims: registered(userID, tokenID, ttl)}, secret)
}

// ParseAccess verifies an access token
func ParseAccess(token, secret string) (*AccessClaims, error) {
	return parse(token, secret, &AccessClaims{})
}

// ParseRefresh verifies a refresh token
func ParseRefresh(token, secret string) (*RefreshClaims, error) {
	return parse(token, secret, &RefreshClaims{})
}

func registered(userID uint, tokenID string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ID:        tokenID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func sign(claims jwt.Claims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parse[C jwt.Claims](token, secret string, claims C) (C, error) {
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
	)
	if err != nil {
		var zero C
		if errors.Is(err, jwt.ErrTokenExpired) {
			return zero, ErrTokenExpired
		}
		return zero, ErrTokenInvalid
	}
	return claims, nil
}

func subjectID(subject string) (uint, error) {
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrTokenInvalid
	}
	return uint(id), nil
}

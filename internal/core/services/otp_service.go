package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// ============================================================
// OTP Service - one-time codes for admin signup
// ============================================================

// AdminCodeLength is the number of digits in an issued admin code
const AdminCodeLength = 8

var (
	ErrAdminCodeUnknown = errors.New("admin code not found")
	ErrAdminCodeExpired = errors.New("admin code expired")
)

// OTPEntry represents a single issued code in memory
type OTPEntry struct {
	IssuedBy  string
	ExpiresAt time.Time
}

// OTPService issues and consumes single-use admin signup codes
type OTPService struct {
	ttl   time.Duration
	store map[string]*OTPEntry // key = code
	mu    sync.Mutex
	now   func() time.Time
}

// NewOTPService creates a new OTP service
func NewOTPService(ttl time.Duration) *OTPService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &OTPService{
		ttl:   ttl,
		store: make(map[string]*OTPEntry),
		now:   time.Now,
	}
}

// Issue creates a new code on behalf of issuer
func (s *OTPService) Issue(issuer string) (string, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	for {
		c, err := generateSecureOTP(AdminCodeLength)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("failed to generate admin code: %w", err)
		}
		if _, taken := s.store[c]; !taken {
			code = c
			break
		}
	}

	expiresAt := s.now().Add(s.ttl)
	s.store[code] = &OTPEntry{IssuedBy: issuer, ExpiresAt: expiresAt}
	return code, expiresAt, nil
}

// Consume validates code and removes it so it cannot be used again
func (s *OTPService) Consume(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.store[code]
	if !ok {
		return ErrAdminCodeUnknown
	}
	delete(s.store, code)

	if s.now().After(entry.ExpiresAt) {
		return ErrAdminCodeExpired
	}
	return nil
}

// PurgeExpired removes expired codes and returns how many were dropped
func (s *OTPService) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := s.now()
	for code, entry := range s.store {
		if now.After(entry.ExpiresAt) {
			delete(s.store, code)
			removed++
		}
	}
	return removed
}

// generateSecureOTP generates a cryptographically secure random OTP
func generateSecureOTP(length int) (string, error) {
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		result[i] = byte('0' + n.Int64())
	}
	return string(result), nil
}

package models

import (
	"errors"
	"testing"
	"time"

	"mess-feedback/internal/core/domain"
)

func validFeedback() *Feedback {
	return &Feedback{
		RegNo:        "21BCE1001",
		Name:         "Asha",
		Block:        "A",
		Room:         "101",
		MessName:     "Central Mess",
		MessType:     domain.MessTypeNightMess,
		Category:     domain.CategoryMessTiming,
		FeedbackType: domain.FeedbackTypeSuggestion,
		Comments:     "Open the night mess at 10.",
	}
}

func TestFeedbackValidate(t *testing.T) {
	cases := map[string]func(*Feedback){
		"empty reg_no":         func(f *Feedback) { f.RegNo = "" },
		"blank comments":       func(f *Feedback) { f.Comments = "   " },
		"mess_type domain":     func(f *Feedback) { f.MessType = "Vegan" },
		"category domain":      func(f *Feedback) { f.Category = "quality" },
		"feedback_type domain": func(f *Feedback) { f.FeedbackType = "Rant" },
	}

	if err := validFeedback().BeforeCreate(nil); err != nil {
		t.Fatalf("valid row rejected: %v", err)
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := validFeedback()
			mutate(f)
			if err := f.BeforeCreate(nil); !errors.Is(err, ErrConstraint) {
				t.Fatalf("expected ErrConstraint, got %v", err)
			}
		})
	}
}

func TestFeedbackToDomain(t *testing.T) {
	proof := "/uploads/1-abc-proof.jpg"
	f := validFeedback()
	f.ID = 7
	f.ProofPath = &proof
	f.CreatedAt = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	r := f.ToDomain()
	if r.ID != 7 || r.MessType != domain.MessTypeNightMess || r.ProofPath == nil || *r.ProofPath != proof || !r.CreatedAt.Equal(f.CreatedAt) {
		t.Fatalf("unexpected record %+v", r)
	}
}

func TestUserRoleDomain(t *testing.T) {
	if err := (&User{Username: "x", Role: "warden"}).BeforeCreate(nil); !errors.Is(err, ErrConstraint) {
		t.Fatalf("expected ErrConstraint, got %v", err)
	}
	u := &User{Username: "x", Role: domain.RoleAdmin}
	if err := u.BeforeCreate(nil); err != nil {
		t.Fatalf("admin role rejected: %v", err)
	}
	if s := u.ToSession(); !s.IsAdmin() || s.Username != "x" {
		t.Fatalf("unexpected session %+v", s)
	}
}

func TestRefreshTokenState(t *testing.T) {
	now := time.Now()
	rt := &RefreshToken{ExpiresAt: now.Add(time.Hour)}
	if rt.IsRevoked() || rt.IsExpired() {
		t.Fatal("fresh token reported revoked or expired")
	}
	rt.RevokedAt = &now
	rt.ExpiresAt = now.Add(-time.Minute)
	if !rt.IsRevoked() || !rt.IsExpired() {
		t.Fatal("expected token to be revoked and expired")
	}
}

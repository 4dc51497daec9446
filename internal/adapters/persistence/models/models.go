package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mess-feedback/internal/core/domain"

	"gorm.io/gorm"
)

// ErrConstraint is returned by model hooks when a row violates the table constraints
var ErrConstraint = errors.New("constraint violation")

// ============================================================
// Feedback
// ============================================================

// Feedback represents the feedback table
type Feedback struct {
	ID           uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	RegNo        string              `gorm:"column:reg_no;size:20;not null" json:"regNo"`
	Name         string              `gorm:"size:100;not null" json:"name"`
	Block        string              `gorm:"size:50;not null" json:"block"`
	Room         string              `gorm:"size:20;not null" json:"room"`
	MessName     string              `gorm:"column:mess_name;size:100;not null" json:"messName"`
	MessType     domain.MessType     `gorm:"column:mess_type;type:enum('Veg','Non-Veg','Special','Night Mess');not null" json:"messType"`
	Category     domain.Category     `gorm:"type:enum('Quality','Quantity','Hygiene','Mess Timing');not null" json:"category"`
	FeedbackType domain.FeedbackType `gorm:"column:feedback_type;type:enum('Suggestion','Complaint','Appreciation');not null" json:"feedbackType"`
	Comments     string              `gorm:"type:text;not null" json:"comments"`
	ProofPath    *string             `gorm:"column:proof_path;size:255" json:"proofPath"`
	CreatedAt    time.Time           `gorm:"autoCreateTime;type:datetime(3);index" json:"createdAt"`
}

func (Feedback) TableName() string {
	return "feedback"
}

// BeforeCreate rejects rows with empty required fields or out-of-domain enums
func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	return f.Validate()
}

// Validate checks required fields and enum domains in column order
func (f *Feedback) Validate() error {
	required := []struct {
		column string
		value  string
	}{
		{"reg_no", f.RegNo},
		{"name", f.Name},
		{"block", f.Block},
		{"room", f.Room},
		{"mess_name", f.MessName},
		{"mess_type", string(f.MessType)},
		{"category", string(f.Category)},
		{"feedback_type", string(f.FeedbackType)},
		{"comments", f.Comments},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: column %s cannot be empty", ErrConstraint, r.column)
		}
	}

	if !f.MessType.Valid() {
		return fmt.Errorf("%w: mess_type %q out of domain", ErrConstraint, f.MessType)
	}
	if !f.Category.Valid() {
		return fmt.Errorf("%w: category %q out of domain", ErrConstraint, f.Category)
	}
	if !f.FeedbackType.Valid() {
		return fmt.Errorf("%w: feedback_type %q out of domain", ErrConstraint, f.FeedbackType)
	}
	return nil
}

// ToDomain converts the row into a domain record
func (f *Feedback) ToDomain() domain.FeedbackRecord {
	return domain.FeedbackRecord{
		ID:           f.ID,
		RegNo:        f.RegNo,
		Name:         f.Name,
		Block:        f.Block,
		Room:         f.Room,
		MessName:     f.MessName,
		MessType:     f.MessType,
		Category:     f.Category,
		FeedbackType: f.FeedbackType,
		Comments:     f.Comments,
		ProofPath:    f.ProofPath,
		CreatedAt:    f.CreatedAt,
	}
}

// ============================================================
// Credentials
// ============================================================

// User represents users table
type User struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Username  string      `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password  string      `gorm:"size:255;not null" json:"-"`
	Role      domain.Role `gorm:"type:enum('student','admin');default:'student';not null" json:"role"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate rejects unknown roles
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if !u.Role.Valid() {
		return fmt.Errorf("%w: role %q out of domain", ErrConstraint, u.Role)
	}
	return nil
}

// ToSession returns the session view of the user
func (u *User) ToSession() *domain.Session {
	return &domain.Session{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// AutoMigrate creates or updates every table owned by the service.
// Safe to run on every start.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Feedback{},
		&User{},
		&RefreshToken{},
	)
}

package domain

import "time"

// Role represents a credential role
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// MessType is the kind of mess the feedback is about
type MessType string

const (
	MessTypeVeg       MessType = "Veg"
	MessTypeNonVeg    MessType = "Non-Veg"
	MessTypeSpecial   MessType = "Special"
	MessTypeNightMess MessType = "Night Mess"
)

// MessTypes lists every MessType in declaration order
var MessTypes = []MessType{MessTypeVeg, MessTypeNonVeg, MessTypeSpecial, MessTypeNightMess}

// Valid reports whether m is one of MessTypes
func (m MessType) Valid() bool {
	for _, v := range MessTypes {
		if m == v {
			return true
		}
	}
	return false
}

// Category is the aspect of the mess being reported on
type Category string

const (
	CategoryQuality    Category = "Quality"
	CategoryQuantity   Category = "Quantity"
	CategoryHygiene    Category = "Hygiene"
	CategoryMessTiming Category = "Mess Timing"
)

// Categories lists every Category in declaration order
var Categories = []Category{CategoryQuality, CategoryQuantity, CategoryHygiene, CategoryMessTiming}

// Valid reports whether c is one of Categories
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// FeedbackType classifies the intent of a submission
type FeedbackType string

const (
	FeedbackTypeSuggestion   FeedbackType = "Suggestion"
	FeedbackTypeComplaint    FeedbackType = "Complaint"
	FeedbackTypeAppreciation FeedbackType = "Appreciation"
)

// FeedbackTypes lists every FeedbackType in declaration order
var FeedbackTypes = []FeedbackType{FeedbackTypeSuggestion, FeedbackTypeComplaint, FeedbackTypeAppreciation}

// Valid reports whether f is one of FeedbackTypes
func (f FeedbackType) Valid() bool {
	for _, v := range FeedbackTypes {
		if f == v {
			return true
		}
	}
	return false
}

// FeedbackRecord is a stored feedback submission
type FeedbackRecord struct {
	ID           uint         `json:"id"`
	RegNo        string       `json:"regNo"`
	Name         string       `json:"name"`
	Block        string       `json:"block"`
	Room         string       `json:"room"`
	MessName     string       `json:"messName"`
	MessType     MessType     `json:"messType"`
	Category     Category     `json:"category"`
	FeedbackType FeedbackType `json:"feedbackType"`
	Comments     string       `json:"comments"`
	ProofPath    *string      `json:"proofPath"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Session is the authenticated identity of one client context
type Session struct {
	UserID   uint   `json:"-"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the session carries the admin role
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

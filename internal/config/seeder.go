package config

import (
	"log"

	"mess-feedback/internal/adapters/persistence/models"
	"mess-feedback/internal/core/domain"
	"mess-feedback/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// devUser is a credential seeded for local development
type devUser struct {
	Username string
	Password string
	Role     domain.Role
}

// Development accounts. Never seeded in prod.
var devUsers = []devUser{
	{Username: "admin", Password: "admin123", Role: domain.RoleAdmin},
	{Username: "student", Password: "student123", Role: domain.RoleStudent},
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	for _, u := range devUsers {
		if err := s.seedUser(u); err != nil {
			log.Printf("⚠️ User seeder skipped for %s: %v", u.Username, err)
		}
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedUser creates u unless the username is already taken
func (s *Seeder) seedUser(u devUser) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", u.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash(u.Password)
	if err != nil {
		return err
	}

	user := &models.User{
		Username: u.Username,
		Password: hashedPassword,
		Role:     u.Role,
	}
	if err := s.db.Create(user).Error; err != nil {
		return err
	}

	log.Printf("✅ Dev user created: %s (%s)", user.Username, user.Role)
	return nil
}

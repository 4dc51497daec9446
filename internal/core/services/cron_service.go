package services

import (
	"context"
	"log"
	"time"

	"mess-feedback/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// Maintenance schedules
const (
	AdminCodePurgeSpec    = "@hourly"
	RefreshTokenPurgeSpec = "0 3 * * *"
)

// CronService runs periodic credential-store maintenance
type CronService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
	otpService       *OTPService
}

// NewCronService creates a new cron service
func NewCronService(refreshTokenRepo repositories.RefreshTokenRepository, otpService *OTPService) *CronService {
	return &CronService{
		cron:             cron.New(),
		refreshTokenRepo: refreshTokenRepo,
		otpService:       otpService,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(AdminCodePurgeSpec, s.PurgeAdminCodes); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(RefreshTokenPurgeSpec, s.PurgeRefreshTokens); err != nil {
		return err
	}
	s.cron.Start()
	log.Println("🚀 CronService started")
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

// PurgeAdminCodes drops expired admin signup codes
func (s *CronService) PurgeAdminCodes() {
	if n := s.otpService.PurgeExpired(); n > 0 {
		log.Printf("🧹 Purged %d expired admin codes", n)
	}
}

// PurgeRefreshTokens deletes expired refresh tokens
func (s *CronService) PurgeRefreshTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Failed to purge refresh tokens: %v", err)
		return
	}
	if n > 0 {
		log.Printf("🧹 Purged %d expired refresh tokens", n)
	}
}

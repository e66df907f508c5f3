package services

import (
	"context"
	"log"
	"time"

	"fuelgenie-api/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled background jobs: the daily overdue scan that
// flags outstanding ledger transactions past their due date.
type CronService struct {
	creditRepo repositories.CreditRepository
	notify     *NotificationService
	scheduler  *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(creditRepo repositories.CreditRepository, notify *NotificationService) *CronService {
	return &CronService{
		creditRepo: creditRepo,
		notify:     notify,
		scheduler:  cron.New(),
	}
}

// Start registers and launches the scheduled jobs
func (s *CronService) Start() error {
	// Overdue scan every morning at 08:30
	if _, err := s.scheduler.AddFunc("30 8 * * *", s.ScanOverdue); err != nil {
		return err
	}

	s.scheduler.Start()
	log.Println("🚀 CronService started")
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish
func (s *CronService) Stop() {
	ctx := s.scheduler.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

// ScanOverdue flags every outstanding transaction whose due date has passed
func (s *CronService) ScanOverdue() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	flagged, err := s.creditRepo.MarkOverdue(ctx, time.Now())
	if err != nil {
		log.Printf("❌ Overdue scan error: %v", err)
		return
	}

	if flagged > 0 {
		log.Printf("⚠️ Overdue scan flagged %d transaction(s)", flagged)
		if s.notify != nil {
			s.notify.NotifyOverdue(flagged)
		}
	}
}

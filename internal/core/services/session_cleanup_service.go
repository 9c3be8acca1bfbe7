package services

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/repositories"
)

// SessionCleanupService sweeps expired sessions on a schedule. This is
// the only background task in the process; everything else lives inside
// the request lifecycle.
type SessionCleanupService struct {
	cron        *cron.Cron
	sessionRepo repositories.SessionRepository
}

// NewSessionCleanupService creates a new session cleanup service
func NewSessionCleanupService(sessionRepo repositories.SessionRepository) *SessionCleanupService {
	return &SessionCleanupService{
		cron:        cron.New(),
		sessionRepo: sessionRepo,
	}
}

// Start schedules the hourly sweep.
func (s *SessionCleanupService) Start() {
	_, err := s.cron.AddFunc("@hourly", s.sweep)
	if err != nil {
		log.Printf("❌ Failed to schedule session cleanup: %v", err)
		return
	}
	s.cron.Start()
	log.Println("🚀 Session cleanup started (hourly)")
}

// Stop stops the scheduler; a running sweep finishes first.
func (s *SessionCleanupService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Session cleanup stopped")
}

func (s *SessionCleanupService) sweep() {
	removed, err := s.sessionRepo.DeleteExpired(context.Background())
	if err != nil {
		log.Printf("❌ Session sweep error: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("🧹 Removed %d expired sessions", removed)
	}
}

package services

import (
	"github.com/robfig/cron/v3"

	"github.com/automeet/automeet/backend/internal/logger"
)

// CleanupService runs periodic housekeeping: expired verification codes
// are purged and stale invites moved to the expired state.
type CleanupService struct {
	cron         *cron.Cron
	verification *VerificationService
	teams        *TeamService
}

// NewCleanupService creates a new cleanup service instance.
func NewCleanupService(verification *VerificationService, teams *TeamService) *CleanupService {
	return &CleanupService{
		cron:         cron.New(),
		verification: verification,
		teams:        teams,
	}
}

// Start schedules the hourly sweep. It returns after registering the job;
// the cron scheduler runs on its own goroutine.
func (s *CleanupService) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	logger.Log().Info("Cleanup scheduler started")
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (s *CleanupService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Sweep runs one housekeeping pass.
func (s *CleanupService) Sweep() {
	if n, err := s.verification.PurgeExpired(); err != nil {
		logger.Log().WithError(err).Error("Failed to purge expired verification codes")
	} else if n > 0 {
		logger.Log().WithField("count", n).Info("Purged expired verification codes")
	}

	if n, err := s.teams.ExpireStale(); err != nil {
		logger.Log().WithError(err).Error("Failed to expire stale invites")
	} else if n > 0 {
		logger.Log().WithField("count", n).Info("Expired stale invites")
	}
}

package jobs

import (
	"fmt"
	"time"

	"orderdesk/internal/pkg/errs"

	"go.uber.org/zap"
)

// Config holds the job schedules.
type Config struct {
	PollInterval    time.Duration
	TicketRetention time.Duration
}

// JobManager coordinates all scheduled jobs of a session.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	pollingJob *PollingFallbackJob
	sweepJob   *TicketSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	list ListRefresher,
	probe ConnectivityProbe,
	tickets TicketSweeper,
	cfg Config,
	logger *zap.Logger,
) (*JobManager, error) {
	if cfg.PollInterval <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("pollInterval", cfg.PollInterval, time.Second, time.Hour)
	}
	if cfg.TicketRetention <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("ticketRetention", cfg.TicketRetention, time.Minute, 24*time.Hour)
	}
	return &JobManager{
		pollingJob: NewPollingFallbackJob(list, probe, cfg.PollInterval, logger),
		sweepJob:   NewTicketSweepJob(tickets, cfg.TicketRetention, logger),
	}, nil
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.pollingJob.Start(); err != nil {
		return fmt.Errorf("failed to start polling fallback job: %w", err)
	}

	if err := jm.sweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.pollingJob.Stop()
		return fmt.Errorf("failed to start ticket sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.sweepJob.Stop()
	jm.pollingJob.Stop()
}

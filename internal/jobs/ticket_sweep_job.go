package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// TicketSweeper forgets tickets settled before a cutoff.
type TicketSweeper interface {
	SweepSettled(before time.Time) int
}

// TicketSweepJob removes old settled tickets once a minute.
type TicketSweepJob struct {
	tickets   TicketSweeper
	retention time.Duration
	cron      *cron.Cron
	logger    *zap.Logger
}

// NewTicketSweepJob creates the job.
func NewTicketSweepJob(tickets TicketSweeper, retention time.Duration, logger *zap.Logger) *TicketSweepJob {
	return &TicketSweepJob{
		tickets:   tickets,
		retention: retention,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With(zap.String("component", "ticket_sweep_job")),
	}
}

// Start schedules the job to run at the top of every minute.
func (j *TicketSweepJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() { j.Tick(time.Now()) })
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Ticket sweep job started", zap.Duration("retention", j.retention))
	return nil
}

// Tick sweeps tickets settled more than the retention before now.
func (j *TicketSweepJob) Tick(now time.Time) int {
	removed := j.tickets.SweepSettled(now.Add(-j.retention))
	if removed > 0 {
		j.logger.Debug("Swept settled tickets", zap.Int("removed", removed))
	}
	return removed
}

// Stop stops the job.
func (j *TicketSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Ticket sweep job stopped")
}

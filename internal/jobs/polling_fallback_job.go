package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ListRefresher refetches the order list.
type ListRefresher interface {
	Refresh(ctx context.Context) error
}

// ConnectivityProbe reports whether push events are flowing.
type ConnectivityProbe interface {
	Connected() bool
}

// PollingFallbackJob refetches the list while the realtime channel is disconnected.
type PollingFallbackJob struct {
	list     ListRefresher
	probe    ConnectivityProbe
	interval time.Duration
	timeout  time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewPollingFallbackJob creates the job. interval is rounded up to one second by the scheduler.
func NewPollingFallbackJob(
	list ListRefresher,
	probe ConnectivityProbe,
	interval time.Duration,
	logger *zap.Logger,
) *PollingFallbackJob {
	return &PollingFallbackJob{
		list:     list,
		probe:    probe,
		interval: interval,
		timeout:  interval,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With(zap.String("component", "polling_fallback_job")),
	}
}

// Start schedules the job.
func (j *PollingFallbackJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		j.Tick(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Polling fallback job started", zap.Duration("interval", j.interval))
	return nil
}

// Tick runs one polling round. It reports whether the list was refetched.
func (j *PollingFallbackJob) Tick(ctx context.Context) bool {
	if j.probe.Connected() {
		return false
	}
	if err := j.list.Refresh(ctx); err != nil {
		j.logger.Warn("Polling refetch failed", zap.Error(err))
		return false
	}
	return true
}

// Stop stops the job and waits for a running tick.
func (j *PollingFallbackJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Polling fallback job stopped")
}

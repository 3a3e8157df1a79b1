// Package jobs provides scheduled background tasks for the admin desk session.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. PollingFallbackJob - refetches the order list on an interval, but only
// while the realtime channel is down. It never runs while events flow.
// 2. TicketSweepJob - forgets bulk-action tickets that settled long ago.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager, err := jobs.NewJobManager(list, reconciler, tickets, jobs.Config{
//		PollInterval:   10 * time.Second,
//		TicketRetention: 10 * time.Minute,
//	}, logger)
//	if err != nil {
//		return err
//	}
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed refetch is logged and retried on the next tick.
// Failed job starts stop any already running jobs.
package jobs

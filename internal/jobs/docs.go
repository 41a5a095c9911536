// Package jobs provides scheduled background tasks for the order lifecycle engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. OrderEventRelayJob - Publishes unpublished order events to the broker and stamps them as published
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	relay, err := jobs.NewOrderEventRelayJob(publishHandler, "*/5 * * * * *", 100, logger)
//	if err != nil {
//		log.Fatal("Failed to create relay job:", err)
//	}
//
//	jobManager := jobs.NewJobManager()
//	jobManager.Add("order event relay", relay)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are six-field cron expressions with a leading seconds field. A
// run that is still in progress when the next tick fires causes that tick to
// be skipped, so two relays never overlap within one process.
//
// # Error Handling
//
// - A relay run with nothing to publish is not logged
// - Relay failures are logged and retried on the next tick; events are published at least once
// - Failed job starts will stop any already running jobs
package jobs

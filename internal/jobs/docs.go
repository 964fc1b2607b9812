// Package jobs provides scheduled background tasks of the back office.
//
// Jobs use github.com/robfig/cron/v3 with a seconds field and skip a tick
// while the previous run is still going.
//
// # Available Jobs
//
//  1. DeliveryRetryJob - retries failed notification deliveries whose backoff has elapsed
//  2. OutboxRelayJob - dispatches outbox events that were never dispatched (crash, full queue)
//
// # Usage
//
//	jobManager, err := jobs.NewJobManager(retryHandler, relayHandler, cfg, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and the next tick tries again; per-channel delivery
// failures are reported by the dispatcher, not by the jobs.
package jobs

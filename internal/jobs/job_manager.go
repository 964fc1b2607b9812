package jobs

import (
	"fmt"
	"time"

	"backoffice/internal/core/application/usecases/commands"

	"github.com/sirupsen/logrus"
)

// Config holds the schedules of the background jobs.
type Config struct {
	DeliveryRetryCron string
	OutboxRelayCron   string
	OutboxRelayGrace  time.Duration
	BatchSize         int
	RunTimeout        time.Duration
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	deliveryRetryJob *DeliveryRetryJob
	outboxRelayJob   *OutboxRelayJob
}

// NewJobManager creates a job manager with all required jobs.
func NewJobManager(
	retryHandler commands.RetryDueDeliveriesCommandHandler,
	relayHandler commands.RelayOutboxCommandHandler,
	cfg Config,
	logger logrus.FieldLogger,
) (*JobManager, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = time.Minute
	}

	retryJob, err := NewDeliveryRetryJob(retryHandler, cfg.DeliveryRetryCron, cfg.BatchSize, cfg.RunTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery retry job: %w", err)
	}
	relayJob, err := NewOutboxRelayJob(relayHandler, cfg.OutboxRelayCron, cfg.OutboxRelayGrace,
		cfg.BatchSize, cfg.RunTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox relay job: %w", err)
	}

	return &JobManager{deliveryRetryJob: retryJob, outboxRelayJob: relayJob}, nil
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	if err := jm.deliveryRetryJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.outboxRelayJob.Stop()
		return fmt.Errorf("failed to start delivery retry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running passes.
func (jm *JobManager) StopAll() {
	jm.deliveryRetryJob.Stop()
	jm.outboxRelayJob.Stop()
}

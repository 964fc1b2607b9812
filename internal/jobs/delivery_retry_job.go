package jobs

import (
	"context"
	"time"

	"backoffice/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DeliveryRetryJob periodically retries due deliveries.
type DeliveryRetryJob struct {
	handler  commands.RetryDueDeliveriesCommandHandler
	command  commands.RetryDueDeliveriesCommand
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   logrus.FieldLogger
}

// NewDeliveryRetryJob creates the job. batch bounds the deliveries per run.
func NewDeliveryRetryJob(
	handler commands.RetryDueDeliveriesCommandHandler,
	schedule string,
	batch int,
	timeout time.Duration,
	logger logrus.FieldLogger,
) (*DeliveryRetryJob, error) {
	cmd, err := commands.NewRetryDueDeliveriesCommand(batch)
	if err != nil {
		return nil, err
	}

	logger = logger.WithField("component", "delivery_retry_job")
	return &DeliveryRetryJob{
		handler:  handler,
		command:  cmd,
		schedule: schedule,
		timeout:  timeout,
		cron:     newCron(logger),
		logger:   logger,
	}, nil
}

// Start schedules the job.
func (j *DeliveryRetryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.WithField("schedule", j.schedule).Info("Delivery retry job started")
	return nil
}

// Run performs one retry pass.
func (j *DeliveryRetryJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	attempted, err := j.handler.Handle(ctx, j.command)
	if err != nil {
		j.logger.WithError(err).Error("Delivery retry job failed")
		return
	}
	if attempted > 0 {
		j.logger.WithField("attempted", attempted).Info("Retried due deliveries")
	}
}

// Stop waits for a running pass to finish.
func (j *DeliveryRetryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Delivery retry job stopped")
}

func newCron(logger logrus.FieldLogger) *cron.Cron {
	cronLogger := cron.PrintfLogger(logger)
	return cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cron.DiscardLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
}

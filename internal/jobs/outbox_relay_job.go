package jobs

import (
	"context"
	"time"

	"backoffice/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// OutboxRelayJob periodically dispatches events left in the outbox.
type OutboxRelayJob struct {
	handler  commands.RelayOutboxCommandHandler
	command  commands.RelayOutboxCommand
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   logrus.FieldLogger
}

// NewOutboxRelayJob creates the job. Events younger than grace are left to
// the in-process queue.
func NewOutboxRelayJob(
	handler commands.RelayOutboxCommandHandler,
	schedule string,
	grace time.Duration,
	batch int,
	timeout time.Duration,
	logger logrus.FieldLogger,
) (*OutboxRelayJob, error) {
	cmd, err := commands.NewRelayOutboxCommand(grace, batch)
	if err != nil {
		return nil, err
	}

	logger = logger.WithField("component", "outbox_relay_job")
	return &OutboxRelayJob{
		handler:  handler,
		command:  cmd,
		schedule: schedule,
		timeout:  timeout,
		cron:     newCron(logger),
		logger:   logger,
	}, nil
}

func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.WithField("schedule", j.schedule).Info("Outbox relay job started")
	return nil
}

// Run performs one relay pass.
func (j *OutboxRelayJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	relayed, err := j.handler.Handle(ctx, j.command)
	if err != nil {
		j.logger.WithError(err).WithField("relayed", relayed).Error("Outbox relay job failed")
		return
	}
	if relayed > 0 {
		j.logger.WithField("relayed", relayed).Warn("Relayed undispatched outbox events")
	}
}

func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Outbox relay job stopped")
}

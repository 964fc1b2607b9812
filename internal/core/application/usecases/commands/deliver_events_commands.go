package commands

import (
	"context"
	"errors"
	"time"

	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

var (
	ErrRetryDueDeliveriesCommandIsNotConstructed = errors.New(
		"RetryDueDeliveriesCommand must be created via NewRetryDueDeliveriesCommand constructor",
	)
	ErrRelayOutboxCommandIsNotConstructed = errors.New(
		"RelayOutboxCommand must be created via NewRelayOutboxCommand constructor",
	)
)

// EventRedeliverer is the part of the notification dispatcher the background
// commands drive.
type EventRedeliverer interface {
	// RetryDue runs the next attempt of up to limit failed deliveries that are due.
	RetryDue(ctx context.Context, limit int) (int, error)
	// Relay dispatches up to limit outbox events older than grace that were never dispatched.
	Relay(ctx context.Context, grace time.Duration, limit int) (int, error)
}

// RetryDueDeliveriesCommand asks for one retry pass over the delivery log.
type RetryDueDeliveriesCommand struct {
	limit int
	guard guard.ConstructorGuard
}

func NewRetryDueDeliveriesCommand(limit int) (RetryDueDeliveriesCommand, error) {
	if limit < 1 {
		return RetryDueDeliveriesCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return RetryDueDeliveriesCommand{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c RetryDueDeliveriesCommand) Validate() error {
	return c.guard.Validate(ErrRetryDueDeliveriesCommandIsNotConstructed)
}

type RetryDueDeliveriesCommandHandler struct {
	redeliverer EventRedeliverer
}

func NewRetryDueDeliveriesCommandHandler(redeliverer EventRedeliverer) RetryDueDeliveriesCommandHandler {
	return RetryDueDeliveriesCommandHandler{redeliverer: redeliverer}
}

// Handle returns how many deliveries were attempted.
func (h RetryDueDeliveriesCommandHandler) Handle(ctx context.Context, cmd RetryDueDeliveriesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	return h.redeliverer.RetryDue(ctx, cmd.limit)
}

// RelayOutboxCommand asks for one pass over undispatched outbox events.
type RelayOutboxCommand struct {
	grace time.Duration
	limit int
	guard guard.ConstructorGuard
}

func NewRelayOutboxCommand(grace time.Duration, limit int) (RelayOutboxCommand, error) {
	if err := errors.Join(
		validatePositiveDuration("grace", grace),
		validatePositiveInt("limit", limit),
	); err != nil {
		return RelayOutboxCommand{}, err
	}
	return RelayOutboxCommand{grace: grace, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c RelayOutboxCommand) Validate() error {
	return c.guard.Validate(ErrRelayOutboxCommandIsNotConstructed)
}

type RelayOutboxCommandHandler struct {
	redeliverer EventRedeliverer
}

func NewRelayOutboxCommandHandler(redeliverer EventRedeliverer) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{redeliverer: redeliverer}
}

// Handle returns how many events were relayed.
func (h RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	return h.redeliverer.Relay(ctx, cmd.grace, cmd.limit)
}

func validatePositiveDuration(name string, d time.Duration) error {
	if d <= 0 {
		return errs.NewValueIsOutOfRangeError(name, d, "1ns", "unbounded")
	}
	return nil
}

func validatePositiveInt(name string, v int) error {
	if v < 1 {
		return errs.NewValueIsOutOfRangeError(name, v, 1, "unbounded")
	}
	return nil
}

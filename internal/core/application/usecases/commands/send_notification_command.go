package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

var ErrSendNotificationCommandIsNotConstructed = errors.New(
	"SendNotificationCommand must be created via NewSendNotificationCommand constructor",
)

// SendNotificationCommand stores an ad hoc in-app notification for one user.
type SendNotificationCommand struct { //nolint:recvcheck //using for validation
	userID    kernel.UUID
	kitchenID *kernel.UUID
	typ       notification.Type
	title     string
	message   string
	data      map[string]any

	guard guard.ConstructorGuard
}

// NewSendNotificationCommand validates the request; every missing field is reported.
func NewSendNotificationCommand(
	userID kernel.UUID,
	kitchenID *kernel.UUID,
	t notification.Type,
	title, message string,
	data map[string]any,
) (SendNotificationCommand, error) {
	var errList []error
	if strings.TrimSpace(title) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("title"))
	}
	if strings.TrimSpace(message) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("message"))
	}
	if kitchenID != nil {
		errList = append(errList, kitchenID.Validate())
	}
	errList = append(errList, userID.Validate(), t.Validate())
	if err := errors.Join(errList...); err != nil {
		return SendNotificationCommand{}, err
	}

	return SendNotificationCommand{
		userID:    userID,
		kitchenID: kitchenID,
		typ:       t,
		title:     title,
		message:   message,
		data:      data,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SendNotificationCommand) Validate() error {
	return c.guard.Validate(ErrSendNotificationCommandIsNotConstructed)
}

// SendNotificationCommandHandler stores the notification directly; it does
// not go through the lifecycle dispatcher.
type SendNotificationCommandHandler struct {
	notifications ports.NotificationRepository
	now           func() time.Time
}

func NewSendNotificationCommandHandler(
	notifications ports.NotificationRepository,
	now func() time.Time,
) SendNotificationCommandHandler {
	if now == nil {
		now = time.Now
	}
	return SendNotificationCommandHandler{notifications: notifications, now: now}
}

func (h SendNotificationCommandHandler) Handle(
	ctx context.Context,
	cmd SendNotificationCommand,
) (*notification.Notification, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	n, err := notification.NewNotification(cmd.userID, cmd.kitchenID, cmd.typ, cmd.title, cmd.message, cmd.data, h.now())
	if err != nil {
		return nil, err
	}

	if err = h.notifications.Add(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

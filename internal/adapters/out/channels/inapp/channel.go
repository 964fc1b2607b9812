// Package inapp delivers events as notification rows read by the back-office UI.
package inapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/ports"
)

// Name is the channel name recorded in the delivery log.
const Name = "inapp"

var (
	ErrNotificationRepositoryIsRequired = errors.New("notification repository is required")
	ErrKitchenDirectoryIsRequired       = errors.New("kitchen directory is required")
)

var _ ports.Channel = (*Channel)(nil)

// Channel stores one notification per recipient of the kitchen. Kitchens
// without configured recipients notify the acting user, if any.
type Channel struct {
	notifications ports.NotificationRepository
	kitchens      ports.KitchenDirectory
	now           func() time.Time
}

func NewChannel(
	notifications ports.NotificationRepository,
	kitchens ports.KitchenDirectory,
	now func() time.Time,
) (*Channel, error) {
	if notifications == nil {
		return nil, ErrNotificationRepositoryIsRequired
	}
	if kitchens == nil {
		return nil, ErrKitchenDirectoryIsRequired
	}
	if now == nil {
		now = time.Now
	}
	return &Channel{notifications: notifications, kitchens: kitchens, now: now}, nil
}

func (c *Channel) Name() string {
	return Name
}

// Send stores the notifications. A retry after a partial failure may store
// duplicates for the recipients that already succeeded.
func (c *Channel) Send(ctx context.Context, ev event.Event) error {
	recipients := c.kitchens.Settings(ev.KitchenID()).Recipients(ev.ActorID())
	now := c.now()

	for _, userID := range recipients {
		n, err := notification.ForRecipient(ev, userID, now)
		if err != nil {
			return err
		}
		if err = c.notifications.Add(ctx, n); err != nil {
			return fmt.Errorf("store notification for user %s: %w", userID, err)
		}
	}
	return nil
}

package ports

import (
	"context"

	"backoffice/internal/core/domain/model/notification"
)

// NotificationRepository stores in-app notifications.
type NotificationRepository interface {
	Add(ctx context.Context, n *notification.Notification) error
}

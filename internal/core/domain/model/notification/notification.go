// Package notification holds the in-app Notification record, the durable
// output of the in-app channel, and the rendering of lifecycle events into
// human-readable titles and messages.
package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

// Type classifies a notification for the admin UI.
type Type string

const (
	TypeOrder        Type = "order"
	TypeSystem       Type = "system"
	TypePayment      Type = "payment"
	TypeSubscription Type = "subscription"
)

func (t Type) Validate() error {
	switch t {
	case TypeOrder, TypeSystem, TypePayment, TypeSubscription:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%q is not a valid notification type", string(t)))
	}
}

var ErrNotificationIsNotConstructed = errors.New("notification must be created via NewNotification or RestoreNotification")

// Notification is a message addressed to one user, optionally scoped to a kitchen.
// It has its own lifecycle, independent of any order.
type Notification struct {
	id        kernel.UUID
	userID    kernel.UUID
	kitchenID *kernel.UUID
	typ       Type
	title     string
	message   string
	data      map[string]any
	createdAt time.Time

	isConstructed bool
}

// NewNotification validates and creates a notification with a fresh id.
//
// Returns:
//   - ValueIsRequiredError for a blank title or message
//   - ValueIsInvalidError for an unknown type
func NewNotification(
	userID kernel.UUID,
	kitchenID *kernel.UUID,
	t Type,
	title, message string,
	data map[string]any,
	now time.Time,
) (*Notification, error) {
	return RestoreNotification(kernel.NewUUID(), userID, kitchenID, t, title, message, data, now)
}

// RestoreNotification rebuilds a notification read from storage.
func RestoreNotification(
	id, userID kernel.UUID,
	kitchenID *kernel.UUID,
	t Type,
	title, message string,
	data map[string]any,
	createdAt time.Time,
) (*Notification, error) {
	var blank []error
	if strings.TrimSpace(title) == "" {
		blank = append(blank, errs.NewValueIsRequiredError("title"))
	}
	if strings.TrimSpace(message) == "" {
		blank = append(blank, errs.NewValueIsRequiredError("message"))
	}
	if err := errors.Join(append(blank, id.Validate(), userID.Validate(), t.Validate())...); err != nil {
		return nil, err
	}

	var kitchen *kernel.UUID
	if kitchenID != nil {
		if err := kitchenID.Validate(); err != nil {
			return nil, err
		}
		k := *kitchenID
		kitchen = &k
	}

	copied := make(map[string]any, len(data))
	for k, v := range data {
		copied[k] = v
	}

	return &Notification{
		id:            id,
		userID:        userID,
		kitchenID:     kitchen,
		typ:           t,
		title:         title,
		message:       message,
		data:          copied,
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}, nil
}

func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *Notification) ID() kernel.UUID      { return n.id }
func (n *Notification) UserID() kernel.UUID  { return n.userID }
func (n *Notification) Type() Type           { return n.typ }
func (n *Notification) Title() string        { return n.title }
func (n *Notification) Message() string      { return n.message }
func (n *Notification) CreatedAt() time.Time { return n.createdAt }

func (n *Notification) KitchenID() *kernel.UUID {
	if n.kitchenID == nil {
		return nil
	}
	k := *n.kitchenID
	return &k
}

func (n *Notification) Data() map[string]any {
	copied := make(map[string]any, len(n.data))
	for k, v := range n.data {
		copied[k] = v
	}
	return copied
}

package notification

import (
	"fmt"
	"time"

	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/domain/model/kernel"
)

// Content is the human-readable rendering of a lifecycle event.
type Content struct {
	Type    Type
	Title   string
	Message string
	Data    map[string]any
}

// Render turns a lifecycle event into notification content.
//
// Example:
//
//	c := notification.Render(ev)
//	// c.Title:   "Order ORD-20240501-001 is ready"
//	// c.Message: "Order ORD-20240501-001 moved from preparing to ready."
func Render(ev event.Event) Content {
	number := ev.PayloadString(event.KeyOrderNumber)
	data := ev.Payload()
	data["event_id"] = ev.ID().String()
	data["event_type"] = ev.Type().String()
	data["order_id"] = ev.OrderID().String()

	switch ev.Type() {
	case event.OrderCreated:
		return Content{
			Type:  TypeOrder,
			Title: fmt.Sprintf("New order %s", number),
			Message: fmt.Sprintf("%s placed a %s order totalling %s.",
				ev.PayloadString(event.KeyCustomerName),
				humanOrderType(ev.PayloadString(event.KeyOrderType)),
				ev.PayloadString(event.KeyTotal)),
			Data: data,
		}
	case event.OrderStatusChanged:
		return Content{
			Type:  TypeOrder,
			Title: fmt.Sprintf("Order %s is %s", number, ev.PayloadString(event.KeyTo)),
			Message: fmt.Sprintf("Order %s moved from %s to %s.",
				number, ev.PayloadString(event.KeyFrom), ev.PayloadString(event.KeyTo)),
			Data: data,
		}
	case event.OrderPaymentStatusChanged:
		return Content{
			Type:  TypePayment,
			Title: fmt.Sprintf("Payment %s for order %s", ev.PayloadString(event.KeyTo), number),
			Message: fmt.Sprintf("Payment of %s for order %s moved from %s to %s.",
				ev.PayloadString(event.KeyTotal), number,
				ev.PayloadString(event.KeyFrom), ev.PayloadString(event.KeyTo)),
			Data: data,
		}
	default:
		return Content{
			Type:    TypeSystem,
			Title:   fmt.Sprintf("Order %s updated", number),
			Message: fmt.Sprintf("Event %s recorded for order %s.", ev.Type(), number),
			Data:    data,
		}
	}
}

// ForRecipient builds the in-app notification of ev for one user.
func ForRecipient(ev event.Event, userID kernel.UUID, now time.Time) (*Notification, error) {
	c := Render(ev)
	kitchenID := ev.KitchenID()
	return NewNotification(userID, &kitchenID, c.Type, c.Title, c.Message, c.Data, now)
}

func humanOrderType(t string) string {
	switch t {
	case "dine_in":
		return "dine-in"
	case "golf_course":
		return "golf course"
	case "":
		return "new"
	default:
		return t
	}
}

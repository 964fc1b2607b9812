// Package kitchen holds the operating settings of a kitchen, the tenant
// boundary of the back office.
package kitchen

import (
	"time"

	"backoffice/internal/core/domain/model/kernel"
)

// Settings are the per-kitchen values the core needs: the operating time
// zone used to pick the business day for order numbers, and the targets the
// notification channels deliver to.
type Settings struct {
	ID             kernel.UUID
	Location       *time.Location
	NotifyUsers    []kernel.UUID
	TelegramChatID int64
	WebhookURL     string
}

// BusinessDay returns the kitchen-local calendar day of instant t.
//
// Example:
//
//	ny, _ := time.LoadLocation("America/New_York")
//	s := kitchen.Settings{Location: ny}
//	s.BusinessDay(time.Date(2024, 5, 2, 3, 30, 0, 0, time.UTC)) // 2024-05-01
func (s Settings) BusinessDay(t time.Time) kernel.Date {
	return kernel.DateOf(t, s.Location)
}

// Recipients returns the users that receive in-app notifications for the
// kitchen. When none are configured, fallback is used if not nil.
func (s Settings) Recipients(fallback *kernel.UUID) []kernel.UUID {
	if len(s.NotifyUsers) > 0 {
		users := make([]kernel.UUID, len(s.NotifyUsers))
		copy(users, s.NotifyUsers)
		return users
	}
	if fallback != nil {
		return []kernel.UUID{*fallback}
	}
	return nil
}

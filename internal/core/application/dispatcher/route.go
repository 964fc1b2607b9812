package dispatcher

import (
	"errors"
	"time"

	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"
)

// DefaultAttemptTimeout bounds a single Send when a route sets none.
const DefaultAttemptTimeout = 5 * time.Second

// Route configures delivery of events to one channel.
type Route struct {
	// Channel receives the events.
	Channel ports.Channel
	// EventTypes restricts the accepted events; empty accepts every type.
	EventTypes []event.Type
	// Policy bounds retries of failed sends.
	Policy delivery.RetryPolicy
	// Timeout bounds one Send call; DefaultAttemptTimeout when zero.
	Timeout time.Duration
}

// Accepts reports whether the route takes events of type t.
func (r Route) Accepts(t event.Type) bool {
	if len(r.EventTypes) == 0 {
		return true
	}
	for _, accepted := range r.EventTypes {
		if accepted == t {
			return true
		}
	}
	return false
}

func (r Route) validate() error {
	if r.Channel == nil {
		return errs.NewValueIsRequiredError("channel")
	}
	if r.Channel.Name() == "" {
		return errs.NewValueIsRequiredError("channel name")
	}
	if r.Timeout < 0 {
		return errs.NewValueIsOutOfRangeError("timeout", r.Timeout, 0, "unbounded")
	}
	for _, t := range r.EventTypes {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return r.Policy.Validate()
}

func (r Route) timeout() time.Duration {
	if r.Timeout == 0 {
		return DefaultAttemptTimeout
	}
	return r.Timeout
}

func validateRoutes(routes []Route) error {
	seen := make(map[string]struct{}, len(routes))
	var errList []error
	for _, r := range routes {
		if err := r.validate(); err != nil {
			errList = append(errList, err)
			continue
		}
		if _, dup := seen[r.Channel.Name()]; dup {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"routes", errors.New("channel "+r.Channel.Name()+" is configured twice")))
		}
		seen[r.Channel.Name()] = struct{}{}
	}
	return errors.Join(errList...)
}

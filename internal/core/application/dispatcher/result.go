package dispatcher

import (
	"backoffice/internal/core/domain/model/kernel"
)

// Outcome is what happened to an event on one channel during one dispatch.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// ChannelResult is the outcome on one channel. Reason explains failures and skips.
// Recorded is false when the outcome could not be written to the delivery log.
type ChannelResult struct {
	Channel  string
	Outcome  Outcome
	Reason   string
	Recorded bool
}

// DispatchResult collects the per-channel outcomes of one event, in route order.
type DispatchResult struct {
	EventID  kernel.UUID
	Channels []ChannelResult
}

// Of returns the result for channel, and false if the channel is not configured.
func (r DispatchResult) Of(channel string) (ChannelResult, bool) {
	for _, c := range r.Channels {
		if c.Channel == channel {
			return c, true
		}
	}
	return ChannelResult{}, false
}

// Recorded reports whether every channel outcome is in the delivery log.
func (r DispatchResult) Recorded() bool {
	for _, c := range r.Channels {
		if !c.Recorded {
			return false
		}
	}
	return true
}

// Count returns how many channels ended with outcome.
func (r DispatchResult) Count(outcome Outcome) int {
	n := 0
	for _, c := range r.Channels {
		if c.Outcome == outcome {
			n++
		}
	}
	return n
}

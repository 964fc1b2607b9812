package order

import (
	"fmt"

	"backoffice/internal/pkg/errs"
)

// Status represents the kitchen workflow state of an order.
//
// State transitions:
//
//	Pending ──> Preparing ──> Ready ──> Delivered
//	   │            │           │
//	   └────────────┴───────────┴──────> Cancelled
//
// Delivered and Cancelled are terminal. Skipping a state is not allowed.
type Status int

const (
	// StatusUnknown catches uninitialized Status values.
	StatusUnknown Status = iota
	StatusPending
	StatusPreparing
	StatusReady
	StatusDelivered
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "unknown",
		StatusPending:   "pending",
		StatusPreparing: "preparing",
		StatusReady:     "ready",
		StatusDelivered: "delivered",
		StatusCancelled: "cancelled",
	}
}

// getStatusTransitions lists, for each status, the statuses it may move to.
func getStatusTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no outgoing transitions
	return map[Status][]Status{
		StatusPending:   {StatusPreparing, StatusCancelled},
		StatusPreparing: {StatusReady, StatusCancelled},
		StatusReady:     {StatusDelivered, StatusCancelled},
	}
}

// ParseStatus converts a wire name such as "preparing" into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != StatusUnknown && name == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the five known states.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusCancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further status transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range getStatusTransitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo validates a move from s to target.
//
// Returns:
//   - (target, nil) when the move is allowed
//   - (StatusUnknown, ValueIsInvalidError) when target is not a valid status
//   - (StatusUnknown, InvalidTransitionError) naming both states otherwise
//
// Example:
//
//	next, err := order.StatusDelivered.TransitionTo(order.StatusPreparing)
//	// err: invalid transition: order status cannot move from delivered to preparing
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return StatusUnknown, err
	}
	if !s.CanTransitionTo(target) {
		return StatusUnknown, errs.NewInvalidTransitionError("order status", s.String(), target.String())
	}
	return target, nil
}

package delivery

import (
	"fmt"

	"backoffice/internal/pkg/errs"
)

// State is the lifecycle state of one delivery.
type State string

const (
	StatePending   State = "pending"
	StateDelivered State = "delivered"
	StateFailed    State = "failed"
	StateDead      State = "dead"
)

func (s State) Validate() error {
	switch s {
	case StatePending, StateDelivered, StateFailed, StateDead:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("delivery_state", fmt.Errorf("%q is not a valid delivery state", string(s)))
	}
}

// IsFinal reports whether no more attempts will be made.
func (s State) IsFinal() bool {
	return s == StateDelivered || s == StateDead
}

func (s State) String() string {
	return string(s)
}

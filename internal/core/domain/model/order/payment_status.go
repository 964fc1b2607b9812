package order

import (
	"errors"
	"fmt"

	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

// PaymentStatus represents the payment workflow of an order, orthogonal to Status.
//
// State transitions:
//
//	Pending ──> Paid ──> Refunded
//	   │  ▲
//	   ▼  │ (only when PaymentPolicy allows retry)
//	  Failed
//
// Refunded is terminal. Failed is terminal unless the policy allows retry.
type PaymentStatus int

const (
	// PaymentUnknown catches uninitialized PaymentStatus values.
	PaymentUnknown PaymentStatus = iota
	PaymentPending
	PaymentPaid
	PaymentFailed
	PaymentRefunded
)

var ErrPaymentPolicyIsNotConstructed = errors.New(
	"PaymentPolicy must be created via NewPaymentPolicy: failed payment retry must be an explicit choice",
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentUnknown:  "unknown",
		PaymentPending:  "pending",
		PaymentPaid:     "paid",
		PaymentFailed:   "failed",
		PaymentRefunded: "refunded",
	}
}

// ParsePaymentStatus converts a wire name such as "paid" into a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for status, name := range getPaymentStatusStrings() {
		if status != PaymentUnknown && name == s {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment_status",
		fmt.Errorf("%q is not a valid payment status", s),
	)
}

// Validate checks if the PaymentStatus value is one of the four known states.
func (s PaymentStatus) Validate() error {
	if s <= PaymentUnknown || s > PaymentRefunded {
		return errs.NewValueIsInvalidErrorWithCause("payment_status", fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

// String returns the wire name of the payment status.
func (s PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// PaymentPolicy carries the business decisions of the payment state machine.
// It has no usable zero value: the failed-payment retry rule must be chosen
// explicitly through NewPaymentPolicy.
type PaymentPolicy struct {
	allowFailedRetry bool
	guard            guard.ConstructorGuard
}

// NewPaymentPolicy creates a policy. allowFailedRetry enables failed -> pending.
func NewPaymentPolicy(allowFailedRetry bool) PaymentPolicy {
	return PaymentPolicy{allowFailedRetry: allowFailedRetry, guard: guard.NewConstructorGuard()}
}

// Validate ensures the policy was created explicitly.
func (p PaymentPolicy) Validate() error {
	return p.guard.Validate(ErrPaymentPolicyIsNotConstructed)
}

// AllowsFailedRetry reports whether failed -> pending is permitted.
func (p PaymentPolicy) AllowsFailedRetry() bool {
	return p.allowFailedRetry
}

// IsTerminal reports whether no further payment transitions are possible under policy.
func (s PaymentStatus) IsTerminal(policy PaymentPolicy) bool {
	switch s {
	case PaymentRefunded:
		return true
	case PaymentFailed:
		return !policy.AllowsFailedRetry()
	default:
		return false
	}
}

// CanTransitionTo reports whether target is reachable from s under policy.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus, policy PaymentPolicy) bool {
	switch s {
	case PaymentPending:
		return target == PaymentPaid || target == PaymentFailed
	case PaymentFailed:
		return target == PaymentPending && policy.AllowsFailedRetry()
	case PaymentPaid:
		return target == PaymentRefunded
	default:
		return false
	}
}

// TransitionTo validates a move from s to target under policy.
//
// Returns:
//   - (target, nil) when the move is allowed
//   - ErrPaymentPolicyIsNotConstructed when policy is a zero value
//   - ValueIsInvalidError when target is not a valid payment status
//   - InvalidTransitionError naming both states otherwise
func (s PaymentStatus) TransitionTo(target PaymentStatus, policy PaymentPolicy) (PaymentStatus, error) {
	if err := policy.Validate(); err != nil {
		return PaymentUnknown, err
	}
	if err := target.Validate(); err != nil {
		return PaymentUnknown, err
	}
	if !s.CanTransitionTo(target, policy) {
		return PaymentUnknown, errs.NewInvalidTransitionError("payment status", s.String(), target.String())
	}
	return target, nil
}

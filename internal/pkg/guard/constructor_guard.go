// Package guard provides ConstructorGuard, a marker embedded in value objects,
// commands and queries to tell constructor-built values apart from zero values.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a nil error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the enclosing value was built by its constructor.
//
// Example usage:
//
//	var ErrTotalsNotConstructed = errors.New("Totals must be created via NewTotals")
//
//	type Totals struct {
//	    subtotal kernel.Money
//	    guard    guard.ConstructorGuard
//	}
//
//	func (t Totals) Validate() error {
//	    return t.guard.Validate(ErrTotalsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. A zero-value guard returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}

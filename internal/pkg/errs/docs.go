// Package errs provides standardized error types for the back office.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes two groups of error types:
//   - Validation errors (ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError,
//     VersionIsInvalidError): malformed or missing input the client can fix
//   - Operational errors (ObjectNotFoundError, InvalidTransitionError, SequenceExhaustedError,
//     ConcurrencyConflictError, DeliveryFailureError): state machine violations, exhausted
//     counters, lost optimistic races and failed notification deliveries
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel so errors.Is works across wrapping
package errs

// Package order provides the Order aggregate of the back office and the two
// state machines that govern it.
//
// The package includes:
//   - Order: the aggregate root holding identity, customer, line items, totals and lifecycle state
//   - Status: the kitchen workflow, pending -> preparing -> ready -> delivered, with cancellation
//   - PaymentStatus: the orthogonal payment workflow, governed by an explicit PaymentPolicy
//   - Number: the human-readable ORD-YYYYMMDD-NNN identifier scoped per kitchen and day
//   - Totals and LineItem: monetary values with the total = subtotal + tax + tip invariant
//
// Key business rules:
//   - Orders are created pending/pending and are never deleted; cancellation is terminal
//   - Every accepted transition bumps updated_at and the version and raises exactly one event
//   - A rejected transition changes nothing and raises nothing
//   - Whether a failed payment may be retried is decided by PaymentPolicy, never by default
package order

// Package kernel provides the value objects shared by the order and notification
// models of the back office.
//
// The package includes:
//   - UUID: identifiers for kitchens, orders, users, events and notifications
//   - Money: exact non-negative monetary amounts with two fractional digits
//   - Date: a calendar day, the partition key of daily order numbering
//
// All value objects are immutable, guarded against zero-value use and safe for
// concurrent use.
package kernel

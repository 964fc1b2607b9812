// Package services provides domain services that coordinate business rules
// spanning more than one aggregate or an aggregate and a domain port.
//
// The package includes:
//   - OrderNumberAllocator: issues per-kitchen, per-day ORD-YYYYMMDD-NNN numbers
//     from an atomic sequence store, using the kitchen's own time zone
package services

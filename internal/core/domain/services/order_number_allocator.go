package services

import (
	"context"
	"errors"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/ports"
)

var (
	ErrSequenceStoreIsRequired    = errors.New("sequence store is required")
	ErrKitchenDirectoryIsRequired = errors.New("kitchen directory is required")
)

// OrderNumberAllocator issues ORD-YYYYMMDD-NNN numbers.
//
// The date part is the business day in the kitchen's own time zone, taken
// from the KitchenDirectory, so a kitchen in New York still numbers its
// late-evening orders on the local date after UTC midnight. The suffix comes
// from SequenceStore.Next, which is atomic per (kitchen, day); the allocator
// itself holds no state and needs no locking.
//
// A number is consumed as soon as Allocate returns, even if the caller later
// fails to store the order. Numbering may therefore have gaps but never
// repeats.
//
// Example usage:
//
//	allocator, _ := services.NewOrderNumberAllocator(store, directory, time.Now)
//	number, err := allocator.Allocate(ctx, kitchenID)
//	if err != nil {
//	    // SequenceExhaustedError or a context error, never a made-up number
//	    return err
//	}
//	fmt.Println(number) // ORD-20240501-001
type OrderNumberAllocator struct {
	sequences ports.SequenceStore
	kitchens  ports.KitchenDirectory
	now       func() time.Time
}

// NewOrderNumberAllocator creates an allocator.
//
// Parameters:
//   - sequences: the atomic per-day counter
//   - kitchens: resolves the kitchen's operating time zone
//   - now: clock, time.Now when nil
func NewOrderNumberAllocator(
	sequences ports.SequenceStore,
	kitchens ports.KitchenDirectory,
	now func() time.Time,
) (*OrderNumberAllocator, error) {
	if sequences == nil {
		return nil, ErrSequenceStoreIsRequired
	}
	if kitchens == nil {
		return nil, ErrKitchenDirectoryIsRequired
	}
	if now == nil {
		now = time.Now
	}

	return &OrderNumberAllocator{sequences: sequences, kitchens: kitchens, now: now}, nil
}

// Allocate returns the next order number of the kitchen for its current
// business day. Errors from the sequence store are returned unchanged.
func (a *OrderNumberAllocator) Allocate(ctx context.Context, kitchenID kernel.UUID) (order.Number, error) {
	if err := kitchenID.Validate(); err != nil {
		return order.Number{}, err
	}

	day := a.kitchens.Settings(kitchenID).BusinessDay(a.now())

	seq, err := a.sequences.Next(ctx, kitchenID, day)
	if err != nil {
		return order.Number{}, err
	}

	return order.NewNumber(day, seq)
}

// Package ports defines the contracts between the core and its adapters:
// persistence, notification channels, kitchen settings and event publishing.
package ports

import (
	"context"

	"backoffice/internal/core/domain/model/kernel"
)

// SequenceStore is a durable counter keyed by (kitchen, business day).
type SequenceStore interface {
	// Next atomically increments and returns the counter for the key,
	// creating it at 1 on first use. Values are unique and strictly
	// increasing per key across all concurrent callers and processes.
	// Gaps are allowed. When the store cannot produce a value within its
	// retry budget it returns SequenceExhaustedError.
	Next(ctx context.Context, kitchenID kernel.UUID, day kernel.Date) (int64, error)
}

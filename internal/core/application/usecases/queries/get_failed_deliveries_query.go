package queries

import (
	"errors"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

const (
	DefaultFailedDeliveriesLimit = 50
	MaxFailedDeliveriesLimit     = 500
)

var ErrGetFailedDeliveriesQueryIsNotConstructed = errors.New(
	"GetFailedDeliveriesQuery must be created via NewGetFailedDeliveriesQuery constructor",
)

// GetFailedDeliveriesQuery lists permanently failed deliveries, newest first.
// It backs the operator failure log; kitchenID narrows it to one tenant.
//
// Example:
//
//	query, _ := NewGetFailedDeliveriesQuery(nil, 20)
//	failures, err := handler.Handle(ctx, query)
//	for _, f := range failures {
//	    fmt.Printf("%s %s on %s: %s\n", f.OrderNumber, f.EventType, f.Channel, f.LastError)
//	}
type GetFailedDeliveriesQuery struct {
	kitchenID *kernel.UUID
	limit     int

	guard guard.ConstructorGuard
}

// NewGetFailedDeliveriesQuery validates the filter. A zero limit means DefaultFailedDeliveriesLimit.
func NewGetFailedDeliveriesQuery(kitchenID *kernel.UUID, limit int) (GetFailedDeliveriesQuery, error) {
	if kitchenID != nil {
		if err := kitchenID.Validate(); err != nil {
			return GetFailedDeliveriesQuery{}, err
		}
	}
	if limit == 0 {
		limit = DefaultFailedDeliveriesLimit
	}
	if limit < 1 || limit > MaxFailedDeliveriesLimit {
		return GetFailedDeliveriesQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxFailedDeliveriesLimit)
	}

	return GetFailedDeliveriesQuery{kitchenID: kitchenID, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetFailedDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetFailedDeliveriesQueryIsNotConstructed)
}

// GetFailedDeliveriesQueryResponse is one entry of the operator failure log.
type GetFailedDeliveriesQueryResponse struct {
	DeliveryID  kernel.UUID
	EventID     kernel.UUID
	KitchenID   kernel.UUID
	OrderID     kernel.UUID
	OrderNumber string
	EventType   string
	Channel     string
	Attempts    int
	LastError   string
	FailedAt    time.Time
}

package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/adapters/out/postgres/pgerr"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a repository working on db, which may be a
// transaction. tracker may be nil for read-only use.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormOrderRepository) track(aggregate *order.Order) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	}
}

// Add inserts a new order. A second order with the same number in the same
// kitchen violates idx_orders_kitchen_number and is reported as an error.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return fmt.Errorf("order %s already exists in kitchen %s: %w",
				dto.OrderNumber, aggregate.KitchenID(), err)
		}
		return err
	}

	r.track(aggregate)
	return nil
}

// Update writes the order only if the stored row is still at the version
// the aggregate was loaded with.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND kitchen_id = ? AND version = ?", dto.ID, dto.KitchenID, aggregate.PersistedVersion()).
		Select("*").
		Omit("id", "kitchen_id", "order_number", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("order", aggregate.ID().String(), aggregate.PersistedVersion())
	}

	r.track(aggregate)
	return nil
}

// Get retrieves an order scoped to its kitchen.
func (r *GormOrderRepository) Get(ctx context.Context, kitchenID, orderID kernel.UUID) (*order.Order, error) {
	if err := errors.Join(kitchenID.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		First(&dto, "id = ? AND kitchen_id = ?", orderID.Bytes(), kitchenID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

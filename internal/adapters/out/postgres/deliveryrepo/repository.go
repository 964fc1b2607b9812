package deliveryrepo

import (
	"context"
	"errors"
	"time"

	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultClaimLease is how long GetDue hides claimed deliveries from other callers.
const DefaultClaimLease = 2 * time.Minute

var _ ports.DeliveryRepository = (*GormDeliveryRepository)(nil)

// GormDeliveryRepository implements ports.DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db         *gorm.DB
	claimLease time.Duration
}

func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db, claimLease: DefaultClaimLease}
}

// WithClaimLease sets how long a claimed delivery stays invisible to GetDue.
// It should outlast one retry run; non-positive values keep the default.
func (r *GormDeliveryRepository) WithClaimLease(lease time.Duration) *GormDeliveryRepository {
	if lease > 0 {
		r.claimLease = lease
	}
	return r
}

// Find returns the delivery of eventID on channel.
func (r *GormDeliveryRepository) Find(
	ctx context.Context,
	eventID kernel.UUID,
	channel string,
) (*delivery.Delivery, error) {
	if err := eventID.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	err := r.db.WithContext(ctx).First(&dto, "event_id = ? AND channel = ?", eventID.Bytes(), channel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", eventID.String()+"/"+channel)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Save inserts the delivery or overwrites the mutable columns of the row
// with the same event and channel.
func (r *GormDeliveryRepository) Save(ctx context.Context, d *delivery.Delivery) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromDomain(d)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "channel"}},
			DoUpdates: clause.AssignmentColumns([]string{"state", "attempts", "last_error", "next_attempt_at", "updated_at"}),
		}).
		Create(&dto).Error
}

// GetDue claims failed deliveries whose next attempt is due, earliest first.
//
// Claimed rows are locked with SKIP LOCKED and their next attempt is pushed
// out by the claim lease in the same transaction, so concurrent callers in
// other processes never receive the same delivery. Saving the outcome of the
// attempt replaces the lease; a caller that dies releases it when it expires.
func (r *GormDeliveryRepository) GetDue(ctx context.Context, now time.Time, limit int) ([]*delivery.Delivery, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []DeliveryDTO
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("state = ? AND next_attempt_at <= ?", delivery.StateFailed.String(), now.UTC()).
			Order("next_attempt_at ASC").
			Limit(limit).
			Find(&dtos).Error
		if err != nil || len(dtos) == 0 {
			return err
		}

		ids := make([]uuid.UUID, 0, len(dtos))
		for _, dto := range dtos {
			ids = append(ids, dto.ID)
		}
		return tx.Model(&DeliveryDTO{}).
			Where("id IN ?", ids).
			Update("next_attempt_at", now.UTC().Add(r.claimLease)).Error
	})
	if err != nil {
		return nil, err
	}

	deliveries := make([]*delivery.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		d, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}

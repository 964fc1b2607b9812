package outboxrepo

import (
	"context"
	"errors"
	"time"

	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.OutboxRepository = (*GormOutboxRepository)(nil)

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormOutboxRepository creates an outbox working on db, which may be a transaction.
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db, now: time.Now}
}

// Append inserts events as undispatched.
func (r *GormOutboxRepository) Append(ctx context.Context, events ...event.Event) error {
	if len(events) == 0 {
		return nil
	}

	now := r.now().UTC()
	dtos := make([]EventDTO, 0, len(events))
	for _, ev := range events {
		if err := ev.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(ev, now))
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// MarkDispatched sets dispatched_at once; later calls keep the first timestamp.
func (r *GormOutboxRepository) MarkDispatched(ctx context.Context, eventID kernel.UUID, at time.Time) error {
	if err := eventID.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&EventDTO{}).
		Where("id = ? AND dispatched_at IS NULL", eventID.Bytes()).
		Update("dispatched_at", at.UTC()).Error
}

// GetUndispatched returns events that occurred before olderThan and were
// never marked dispatched, oldest first.
func (r *GormOutboxRepository) GetUndispatched(
	ctx context.Context,
	olderThan time.Time,
	limit int,
) ([]event.Event, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []EventDTO
	err := r.db.WithContext(ctx).
		Where("dispatched_at IS NULL AND occurred_at < ?", olderThan.UTC()).
		Order("occurred_at ASC, created_at ASC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	events := make([]event.Event, 0, len(dtos))
	for _, dto := range dtos {
		ev, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		events = append(events, ev)
	}
	return events, nil
}

// Get returns one event.
func (r *GormOutboxRepository) Get(ctx context.Context, eventID kernel.UUID) (event.Event, error) {
	if err := eventID.Validate(); err != nil {
		return event.Event{}, err
	}

	var dto EventDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", eventID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return event.Event{}, errs.NewObjectNotFoundError("event", eventID.String())
		}
		return event.Event{}, err
	}

	return toDomain(dto)
}

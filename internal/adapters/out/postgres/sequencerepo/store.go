// Package sequencerepo keeps the per-kitchen, per-day order counters.
//
// Each counter is one row of day_sequences. Next increments it with a single
// INSERT ... ON CONFLICT DO UPDATE ... RETURNING statement, which PostgreSQL
// executes under a row lock, so concurrent callers in any number of processes
// always receive distinct, increasing values. The statement runs outside the
// caller's transaction: a rolled back order leaves a gap, never a reuse.
package sequencerepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/adapters/out/postgres/pgerr"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultMaxAttempts is the retry budget used when none is configured.
const DefaultMaxAttempts = 5

const nextStatement = `
INSERT INTO day_sequences (kitchen_id, day, last_value, updated_at)
VALUES (?, ?, 1, NOW())
ON CONFLICT (kitchen_id, day)
DO UPDATE SET last_value = day_sequences.last_value + 1, updated_at = NOW()
RETURNING last_value`

var _ ports.SequenceStore = (*GormSequenceStore)(nil)

// DaySequenceDTO is the day_sequences row.
type DaySequenceDTO struct {
	KitchenID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Day       time.Time `gorm:"type:date;primaryKey"`
	LastValue int64     `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (DaySequenceDTO) TableName() string {
	return "day_sequences"
}

// incrementFunc runs the increment statement once.
type incrementFunc func(ctx context.Context, kitchenID kernel.UUID, day kernel.Date) (int64, error)

// GormSequenceStore implements ports.SequenceStore on PostgreSQL.
type GormSequenceStore struct {
	db          *gorm.DB
	increment   incrementFunc
	maxAttempts int
	backoff     time.Duration
}

// NewGormSequenceStore creates a store that retries serialization failures
// and deadlocks up to maxAttempts times.
func NewGormSequenceStore(db *gorm.DB, maxAttempts int) *GormSequenceStore {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	s := &GormSequenceStore{db: db, maxAttempts: maxAttempts, backoff: 10 * time.Millisecond}
	s.increment = s.incrementRow
	return s
}

// Next returns the next value of the (kitchen, day) counter, starting at 1.
//
// Returns SequenceExhaustedError when the database rejects the increment
// maxAttempts times, fails with a non retryable error, or ctx ends first.
func (s *GormSequenceStore) Next(ctx context.Context, kitchenID kernel.UUID, day kernel.Date) (int64, error) {
	if err := errors.Join(kitchenID.Validate(), day.Validate()); err != nil {
		return 0, err
	}

	key := fmt.Sprintf("%s/%s", kitchenID, day)
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		value, err := s.increment(ctx, kitchenID, day)
		if err == nil {
			return value, nil
		}
		lastErr = err
		if !pgerr.IsRetryable(err) {
			return 0, errs.NewSequenceExhaustedErrorWithCause(key, attempt, err)
		}

		select {
		case <-ctx.Done():
			return 0, errs.NewSequenceExhaustedErrorWithCause(key, attempt, ctx.Err())
		case <-time.After(s.backoff * time.Duration(attempt)):
		}
	}

	return 0, errs.NewSequenceExhaustedErrorWithCause(key, s.maxAttempts, lastErr)
}

func (s *GormSequenceStore) incrementRow(ctx context.Context, kitchenID kernel.UUID, day kernel.Date) (int64, error) {
	var value int64
	result := s.db.WithContext(ctx).Raw(nextStatement, kitchenID.Bytes(), day.Time()).Scan(&value)
	if result.Error != nil {
		return 0, result.Error
	}
	if value < 1 {
		return 0, fmt.Errorf("day sequence returned %d", value)
	}
	return value, nil
}

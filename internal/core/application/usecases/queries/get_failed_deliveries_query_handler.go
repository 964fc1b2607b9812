package queries

import (
	"context"

	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetFailedDeliveriesQueryHandler reads dead deliveries straight from the
// delivery log, joined with the order number for display.
type GetFailedDeliveriesQueryHandler struct {
	db *gorm.DB
}

func NewGetFailedDeliveriesQueryHandler(db *gorm.DB) GetFailedDeliveriesQueryHandler {
	return GetFailedDeliveriesQueryHandler{db: db}
}

func (h GetFailedDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetFailedDeliveriesQuery,
) ([]GetFailedDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	stmt := h.db.WithContext(ctx).
		Table("event_deliveries AS d").
		Select(`
			d.id,
			d.event_id,
			d.kitchen_id,
			d.order_id,
			COALESCE(o.order_number, '') AS order_number,
			d.event_type,
			d.channel,
			d.attempts,
			d.last_error,
			d.updated_at`).
		Joins("LEFT JOIN orders AS o ON o.id = d.order_id").
		Where("d.state = ?", delivery.StateDead.String())
	if query.kitchenID != nil {
		stmt = stmt.Where("d.kitchen_id = ?", query.kitchenID.Bytes())
	}

	rows, err := stmt.Order("d.updated_at DESC").Limit(query.limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	failures := make([]GetFailedDeliveriesQueryResponse, 0)
	for rows.Next() {
		var resp GetFailedDeliveriesQueryResponse
		var id, eventID, kitchenID, orderID uuid.UUID

		if err = rows.Scan(
			&id,
			&eventID,
			&kitchenID,
			&orderID,
			&resp.OrderNumber,
			&resp.EventType,
			&resp.Channel,
			&resp.Attempts,
			&resp.LastError,
			&resp.FailedAt,
		); err != nil {
			return nil, err
		}

		for _, pair := range []struct {
			dst *kernel.UUID
			src uuid.UUID
		}{
			{&resp.DeliveryID, id},
			{&resp.EventID, eventID},
			{&resp.KitchenID, kitchenID},
			{&resp.OrderID, orderID},
		} {
			if *pair.dst, err = kernel.UUIDFromGoogle(pair.src); err != nil {
				return nil, err
			}
		}

		resp.FailedAt = resp.FailedAt.UTC()
		failures = append(failures, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return failures, nil
}

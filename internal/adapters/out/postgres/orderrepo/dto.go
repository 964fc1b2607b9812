// Package orderrepo persists the order aggregate with gorm.
//
// An order is stored as one row of the orders table. Line items live in a
// JSONB column next to the totals they must add up to, so an order is always
// read and written as a whole.
package orderrepo

import (
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO is the orders table row. The order number is unique per kitchen.
type OrderDTO struct {
	ID                  uuid.UUID                        `gorm:"type:uuid;primaryKey"`
	KitchenID           uuid.UUID                        `gorm:"type:uuid;not null;uniqueIndex:idx_orders_kitchen_number,priority:1"`
	OrderNumber         string                           `gorm:"type:varchar(32);not null;uniqueIndex:idx_orders_kitchen_number,priority:2"`
	CustomerID          *uuid.UUID                       `gorm:"type:uuid"`
	CustomerName        string                           `gorm:"not null"`
	CustomerPhone       string
	CustomerEmail       string
	OrderType           string                           `gorm:"type:varchar(16);not null"`
	TableNumber         string
	LocationDetails     string
	SpecialInstructions string
	PaymentMethod       string
	EstimatedReadyTime  *time.Time
	Items               datatypes.JSONSlice[LineItemDTO] `gorm:"type:jsonb"`
	Subtotal            decimal.Decimal                  `gorm:"type:numeric(12,2);not null"`
	TaxAmount           decimal.Decimal                  `gorm:"type:numeric(12,2);not null"`
	TipAmount           decimal.Decimal                  `gorm:"type:numeric(12,2);not null"`
	TotalAmount         decimal.Decimal                  `gorm:"type:numeric(12,2);not null"`
	Status              int                              `gorm:"not null;index"`
	PaymentStatus       int                              `gorm:"not null"`
	Version             int                              `gorm:"not null"`
	CreatedAt           time.Time                        `gorm:"not null"`
	UpdatedAt           time.Time                        `gorm:"not null"`
	CompletedAt         *time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one element of the items JSON array.
type LineItemDTO struct {
	MenuItemID *uuid.UUID      `json:"menu_item_id,omitempty"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

func fromDomain(o *order.Order) OrderDTO {
	customer := o.Customer()

	var customerID *uuid.UUID
	if id := customer.ID(); id != nil {
		raw := id.Bytes()
		customerID = &raw
	}

	items := make([]LineItemDTO, 0, len(o.Items()))
	for _, item := range o.Items() {
		var menuItemID *uuid.UUID
		if id := item.MenuItemID(); id != nil {
			raw := id.Bytes()
			menuItemID = &raw
		}
		items = append(items, LineItemDTO{
			MenuItemID: menuItemID,
			Name:       item.Name(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().Decimal(),
		})
	}

	totals := o.Totals()
	return OrderDTO{
		ID:                  o.ID().Bytes(),
		KitchenID:           o.KitchenID().Bytes(),
		OrderNumber:         o.Number().String(),
		CustomerID:          customerID,
		CustomerName:        customer.Name(),
		CustomerPhone:       customer.Phone(),
		CustomerEmail:       customer.Email(),
		OrderType:           o.Type().String(),
		TableNumber:         o.TableNumber(),
		LocationDetails:     o.LocationDetails(),
		SpecialInstructions: o.SpecialInstructions(),
		PaymentMethod:       o.PaymentMethod(),
		EstimatedReadyTime:  o.EstimatedReadyTime(),
		Items:               items,
		Subtotal:            totals.Subtotal().Decimal(),
		TaxAmount:           totals.Tax().Decimal(),
		TipAmount:           totals.Tip().Decimal(),
		TotalAmount:         totals.Total().Decimal(),
		Status:              int(o.Status()),
		PaymentStatus:       int(o.PaymentStatus()),
		Version:             o.Version(),
		CreatedAt:           o.CreatedAt(),
		UpdatedAt:           o.UpdatedAt(),
		CompletedAt:         o.CompletedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	kitchenID, err := kernel.UUIDFromGoogle(dto.KitchenID)
	if err != nil {
		return nil, err
	}
	number, err := order.ParseNumber(dto.OrderNumber)
	if err != nil {
		return nil, err
	}

	var customerID *kernel.UUID
	if dto.CustomerID != nil {
		cID, idErr := kernel.UUIDFromGoogle(*dto.CustomerID)
		if idErr != nil {
			return nil, idErr
		}
		customerID = &cID
	}
	customer, err := order.NewCustomer(customerID, dto.CustomerName, dto.CustomerPhone, dto.CustomerEmail)
	if err != nil {
		return nil, err
	}

	items, err := itemsToDomain(dto.Items)
	if err != nil {
		return nil, err
	}
	totals, err := totalsToDomain(dto)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:        id,
		KitchenID: kitchenID,
		Number:    number,
		Details: order.Details{
			Customer:            customer,
			Type:                order.Type(dto.OrderType),
			TableNumber:         dto.TableNumber,
			LocationDetails:     dto.LocationDetails,
			SpecialInstructions: dto.SpecialInstructions,
			PaymentMethod:       dto.PaymentMethod,
			EstimatedReadyTime:  dto.EstimatedReadyTime,
			Items:               items,
		},
		Totals:        totals,
		Status:        order.Status(dto.Status),
		PaymentStatus: order.PaymentStatus(dto.PaymentStatus),
		Version:       dto.Version,
		CreatedAt:     dto.CreatedAt,
		UpdatedAt:     dto.UpdatedAt,
		CompletedAt:   dto.CompletedAt,
	})
}

func itemsToDomain(dtos []LineItemDTO) ([]order.LineItem, error) {
	items := make([]order.LineItem, 0, len(dtos))
	for _, dto := range dtos {
		var menuItemID *kernel.UUID
		if dto.MenuItemID != nil {
			id, err := kernel.UUIDFromGoogle(*dto.MenuItemID)
			if err != nil {
				return nil, err
			}
			menuItemID = &id
		}
		price, err := kernel.NewMoney(dto.UnitPrice)
		if err != nil {
			return nil, err
		}
		item, err := order.NewLineItem(menuItemID, dto.Name, dto.Quantity, price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func totalsToDomain(dto OrderDTO) (order.Totals, error) {
	amounts := make([]kernel.Money, 0, 4)
	for _, d := range []decimal.Decimal{dto.Subtotal, dto.TaxAmount, dto.TipAmount, dto.TotalAmount} {
		m, err := kernel.NewMoney(d)
		if err != nil {
			return order.Totals{}, err
		}
		amounts = append(amounts, m)
	}
	return order.NewTotals(amounts[0], amounts[1], amounts[2], amounts[3])
}

package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code           int     `json:"code"`
	Message        string  `json:"error"`
	CurrentState   *string `json:"current_state,omitempty"`
	RequestedState *string `json:"requested_state,omitempty"`
}

// GenerateOrderNumberRequest carries the kitchen as a plain string so a
// missing value can be reported the way existing clients expect.
type GenerateOrderNumberRequest struct {
	KitchenID string `json:"kitchen_id"`
}

type OrderNumberResponse struct {
	OrderNumber string `json:"order_number"`
}

type SendNotificationRequest struct {
	UserID    string         `json:"user_id"`
	KitchenID *string        `json:"kitchen_id,omitempty"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

type NotificationResponse struct {
	Data Notification `json:"data"`
}

type Notification struct {
	ID        openapi_types.UUID  `json:"id"`
	UserID    openapi_types.UUID  `json:"user_id"`
	KitchenID *openapi_types.UUID `json:"kitchen_id"`
	Type      string              `json:"type"`
	Title     string              `json:"title"`
	Message   string              `json:"message"`
	Data      map[string]any      `json:"data,omitempty"`
	Read      bool                `json:"read"`
	CreatedAt time.Time           `json:"created_at"`
}

type NewLineItem struct {
	MenuItemID *openapi_types.UUID `json:"menu_item_id,omitempty"`
	Name       string              `json:"name"`
	Quantity   int                 `json:"quantity"`
	UnitPrice  decimal.Decimal     `json:"unit_price"`
}

type NewOrder struct {
	CustomerID          *openapi_types.UUID  `json:"customer_id,omitempty"`
	CustomerName        string               `json:"customer_name"`
	CustomerPhone       *string              `json:"customer_phone,omitempty"`
	CustomerEmail       *openapi_types.Email `json:"customer_email,omitempty"`
	OrderType           string               `json:"order_type"`
	TableNumber         *string              `json:"table_number,omitempty"`
	LocationDetails     *string              `json:"location_details,omitempty"`
	SpecialInstructions *string              `json:"special_instructions,omitempty"`
	PaymentMethod       *string              `json:"payment_method,omitempty"`
	EstimatedReadyTime  *time.Time           `json:"estimated_ready_time,omitempty"`
	Items               []NewLineItem        `json:"items,omitempty"`
	Subtotal            decimal.Decimal      `json:"subtotal"`
	Tax                 *decimal.Decimal     `json:"tax,omitempty"`
	Tip                 *decimal.Decimal     `json:"tip,omitempty"`
	Total               decimal.Decimal      `json:"total"`
}

type LineItem struct {
	MenuItemID *openapi_types.UUID `json:"menu_item_id,omitempty"`
	Name       string              `json:"name"`
	Quantity   int                 `json:"quantity"`
	UnitPrice  string              `json:"unit_price"`
}

type Order struct {
	ID                  openapi_types.UUID  `json:"id"`
	KitchenID           openapi_types.UUID  `json:"kitchen_id"`
	OrderNumber         string              `json:"order_number"`
	CustomerID          *openapi_types.UUID `json:"customer_id,omitempty"`
	CustomerName        string              `json:"customer_name"`
	CustomerPhone       string              `json:"customer_phone,omitempty"`
	CustomerEmail       string              `json:"customer_email,omitempty"`
	OrderType           string              `json:"order_type"`
	TableNumber         string              `json:"table_number,omitempty"`
	LocationDetails     string              `json:"location_details,omitempty"`
	SpecialInstructions string              `json:"special_instructions,omitempty"`
	PaymentMethod       string              `json:"payment_method,omitempty"`
	EstimatedReadyTime  *time.Time          `json:"estimated_ready_time,omitempty"`
	Items               []LineItem          `json:"items"`
	Subtotal            string              `json:"subtotal"`
	Tax                 string              `json:"tax"`
	Tip                 string              `json:"tip"`
	Total               string              `json:"total"`
	Status              string              `json:"status"`
	PaymentStatus       string              `json:"payment_status"`
	Version             int                 `json:"version"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
	CompletedAt         *time.Time          `json:"completed_at,omitempty"`
}

type StatusChange struct {
	Status          string `json:"status"`
	ExpectedVersion *int   `json:"expected_version,omitempty"`
}

type PaymentStatusChange struct {
	PaymentStatus   string `json:"payment_status"`
	ExpectedVersion *int   `json:"expected_version,omitempty"`
}

type FailedDelivery struct {
	ID          openapi_types.UUID `json:"id"`
	EventID     openapi_types.UUID `json:"event_id"`
	KitchenID   openapi_types.UUID `json:"kitchen_id"`
	OrderID     openapi_types.UUID `json:"order_id"`
	OrderNumber string             `json:"order_number,omitempty"`
	EventType   string             `json:"event_type"`
	Channel     string             `json:"channel"`
	Attempts    int                `json:"attempts"`
	LastError   string             `json:"last_error,omitempty"`
	FailedAt    time.Time          `json:"failed_at"`
}

// ActorParams carries the optional acting user header.
type ActorParams struct {
	XUserID *openapi_types.UUID
}

// GetFailedDeliveriesParams defines parameters for GetFailedDeliveries.
type GetFailedDeliveriesParams struct {
	KitchenID *openapi_types.UUID
	Limit     *int
}

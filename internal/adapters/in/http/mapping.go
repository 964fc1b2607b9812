package http

import (
	"backoffice/internal/adapters/in/http/api"
	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/errs"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

func toOrderInput(req api.NewOrder) (order.Details, order.Totals, error) {
	customerID, err := optionalUUID(req.CustomerID)
	if err != nil {
		return order.Details{}, order.Totals{}, errs.NewValueIsInvalidErrorWithCause("customer_id", err)
	}
	email := ""
	if req.CustomerEmail != nil {
		email = string(*req.CustomerEmail)
	}
	customer, err := order.NewCustomer(customerID, req.CustomerName, deref(req.CustomerPhone), email)
	if err != nil {
		return order.Details{}, order.Totals{}, err
	}

	items := make([]order.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		menuItemID, idErr := optionalUUID(it.MenuItemID)
		if idErr != nil {
			return order.Details{}, order.Totals{}, errs.NewValueIsInvalidErrorWithCause("menu_item_id", idErr)
		}
		unitPrice, moneyErr := kernel.NewMoney(it.UnitPrice)
		if moneyErr != nil {
			return order.Details{}, order.Totals{}, errs.NewValueIsInvalidErrorWithCause("unit_price", moneyErr)
		}
		item, itemErr := order.NewLineItem(menuItemID, it.Name, it.Quantity, unitPrice)
		if itemErr != nil {
			return order.Details{}, order.Totals{}, itemErr
		}
		items = append(items, item)
	}

	totals, err := toTotals(req)
	if err != nil {
		return order.Details{}, order.Totals{}, err
	}

	details := order.Details{
		Customer:            customer,
		Type:                order.Type(req.OrderType),
		TableNumber:         deref(req.TableNumber),
		LocationDetails:     deref(req.LocationDetails),
		SpecialInstructions: deref(req.SpecialInstructions),
		PaymentMethod:       deref(req.PaymentMethod),
		EstimatedReadyTime:  req.EstimatedReadyTime,
		Items:               items,
	}
	return details, totals, nil
}

func toTotals(req api.NewOrder) (order.Totals, error) {
	amount := func(name string, d decimal.Decimal) (kernel.Money, error) {
		m, err := kernel.NewMoney(d)
		if err != nil {
			return kernel.Money{}, errs.NewValueIsInvalidErrorWithCause(name, err)
		}
		return m, nil
	}

	subtotal, err := amount("subtotal", req.Subtotal)
	if err != nil {
		return order.Totals{}, err
	}
	tax, err := amount("tax", derefDecimal(req.Tax))
	if err != nil {
		return order.Totals{}, err
	}
	tip, err := amount("tip", derefDecimal(req.Tip))
	if err != nil {
		return order.Totals{}, err
	}
	total, err := amount("total", req.Total)
	if err != nil {
		return order.Totals{}, err
	}

	return order.NewTotals(subtotal, tax, tip, total)
}

func toOrderResponse(o *order.Order) api.Order {
	customer := o.Customer()
	totals := o.Totals()

	items := make([]api.LineItem, 0, len(o.Items()))
	for _, it := range o.Items() {
		items = append(items, api.LineItem{
			MenuItemID: toOptionalAPIUUID(it.MenuItemID()),
			Name:       it.Name(),
			Quantity:   it.Quantity(),
			UnitPrice:  it.UnitPrice().String(),
		})
	}

	return api.Order{
		ID:                  o.ID().Bytes(),
		KitchenID:           o.KitchenID().Bytes(),
		OrderNumber:         o.Number().String(),
		CustomerID:          toOptionalAPIUUID(customer.ID()),
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
		Subtotal:            totals.Subtotal().String(),
		Tax:                 totals.Tax().String(),
		Tip:                 totals.Tip().String(),
		Total:               totals.Total().String(),
		Status:              o.Status().String(),
		PaymentStatus:       o.PaymentStatus().String(),
		Version:             o.Version(),
		CreatedAt:           o.CreatedAt(),
		UpdatedAt:           o.UpdatedAt(),
		CompletedAt:         o.CompletedAt(),
	}
}

func toNotificationResponse(n *notification.Notification) api.Notification {
	return api.Notification{
		ID:        n.ID().Bytes(),
		UserID:    n.UserID().Bytes(),
		KitchenID: toOptionalAPIUUID(n.KitchenID()),
		Type:      string(n.Type()),
		Title:     n.Title(),
		Message:   n.Message(),
		Data:      n.Data(),
		CreatedAt: n.CreatedAt(),
	}
}

func toFailedDeliveryResponse(f queries.GetFailedDeliveriesQueryResponse) api.FailedDelivery {
	return api.FailedDelivery{
		ID:          f.DeliveryID.Bytes(),
		EventID:     f.EventID.Bytes(),
		KitchenID:   f.KitchenID.Bytes(),
		OrderID:     f.OrderID.Bytes(),
		OrderNumber: f.OrderNumber,
		EventType:   f.EventType,
		Channel:     f.Channel,
		Attempts:    f.Attempts,
		LastError:   f.LastError,
		FailedAt:    f.FailedAt,
	}
}

func optionalUUID(id *openapi_types.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	parsed, err := kernel.UUIDFromGoogle(*id)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func toOptionalAPIUUID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	v := id.Bytes()
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefDecimal(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

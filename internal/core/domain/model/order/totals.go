package order

import (
	"errors"
	"fmt"
	"strings"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

// LineItem is one menu entry on an order.
type LineItem struct {
	menuItemID *kernel.UUID
	name       string
	quantity   int
	unitPrice  kernel.Money
}

// NewLineItem validates a line item. Quantity must be at least 1.
func NewLineItem(menuItemID *kernel.UUID, name string, quantity int, unitPrice kernel.Money) (LineItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return LineItem{}, errs.NewValueIsRequiredError("item_name")
	}
	if quantity < 1 {
		return LineItem{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	if err := unitPrice.Validate(); err != nil {
		return LineItem{}, err
	}
	if menuItemID != nil {
		copied := *menuItemID
		menuItemID = &copied
	}

	return LineItem{menuItemID: menuItemID, name: name, quantity: quantity, unitPrice: unitPrice}, nil
}

func (i LineItem) MenuItemID() *kernel.UUID {
	if i.menuItemID == nil {
		return nil
	}
	id := *i.menuItemID
	return &id
}

func (i LineItem) Name() string            { return i.name }
func (i LineItem) Quantity() int           { return i.quantity }
func (i LineItem) UnitPrice() kernel.Money { return i.unitPrice }

// Total returns quantity x unit price.
func (i LineItem) Total() kernel.Money {
	return i.unitPrice.Times(i.quantity)
}

// Totals holds the monetary summary of an order and enforces
// total = subtotal + tax + tip.
type Totals struct {
	subtotal kernel.Money
	tax      kernel.Money
	tip      kernel.Money
	total    kernel.Money
}

// NewTotals validates the four amounts against each other.
//
// Returns:
//   - ValueIsInvalidError on "total_amount" if total differs from subtotal + tax + tip
//
// Example:
//
//	totals, err := order.NewTotals(m("18.00"), m("1.44"), m("2.00"), m("21.44"))
func NewTotals(subtotal, tax, tip, total kernel.Money) (Totals, error) {
	if err := errors.Join(subtotal.Validate(), tax.Validate(), tip.Validate(), total.Validate()); err != nil {
		return Totals{}, err
	}

	expected := subtotal.Add(tax).Add(tip)
	if !expected.IsEqual(total) {
		return Totals{}, errs.NewValueIsInvalidErrorWithCause(
			"total_amount",
			fmt.Errorf("%s does not equal subtotal %s + tax %s + tip %s", total, subtotal, tax, tip),
		)
	}

	return Totals{subtotal: subtotal, tax: tax, tip: tip, total: total}, nil
}

// CheckItems verifies that subtotal equals the sum of line totals.
// An order without line items is accepted as is.
func (t Totals) CheckItems(items []LineItem) error {
	if len(items) == 0 {
		return nil
	}

	sum := kernel.ZeroMoney()
	for _, item := range items {
		sum = sum.Add(item.Total())
	}
	if !sum.IsEqual(t.subtotal) {
		return errs.NewValueIsInvalidErrorWithCause(
			"subtotal",
			fmt.Errorf("%s does not equal the sum of line items %s", t.subtotal, sum),
		)
	}
	return nil
}

func (t Totals) Subtotal() kernel.Money { return t.subtotal }
func (t Totals) Tax() kernel.Money      { return t.tax }
func (t Totals) Tip() kernel.Money      { return t.tip }
func (t Totals) Total() kernel.Money    { return t.total }

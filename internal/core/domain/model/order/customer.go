package order

import (
	"net/mail"
	"strings"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

// ErrCustomerIsRequired is returned when an order has no customer name.
var ErrCustomerIsRequired = errs.NewValueIsRequiredError("customer_name")

// Customer identifies who placed the order. Only the name is mandatory;
// walk-in customers have no account and often no contact details.
type Customer struct {
	id    *kernel.UUID
	name  string
	phone string
	email string
}

// NewCustomer validates the customer block of an order.
//
// Returns:
//   - ValueIsRequiredError if name is blank
//   - ValueIsInvalidError if email is set but not a valid address
func NewCustomer(id *kernel.UUID, name, phone, email string) (Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Customer{}, ErrCustomerIsRequired
	}
	if id != nil {
		if err := id.Validate(); err != nil {
			return Customer{}, err
		}
		copied := *id
		id = &copied
	}

	email = strings.TrimSpace(email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return Customer{}, errs.NewValueIsInvalidErrorWithCause("customer_email", err)
		}
	}

	return Customer{id: id, name: name, phone: strings.TrimSpace(phone), email: email}, nil
}

// ID returns the customer's account id, nil for anonymous customers.
func (c Customer) ID() *kernel.UUID {
	if c.id == nil {
		return nil
	}
	id := *c.id
	return &id
}

func (c Customer) Name() string  { return c.name }
func (c Customer) Phone() string { return c.phone }
func (c Customer) Email() string { return c.email }

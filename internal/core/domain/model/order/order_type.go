package order

import (
	"fmt"

	"backoffice/internal/pkg/errs"
)

// Type tells the kitchen where the order goes once it is ready.
type Type string

const (
	TypeDineIn     Type = "dine_in"
	TypeTakeaway   Type = "takeaway"
	TypeGolfCourse Type = "golf_course"
	TypeDelivery   Type = "delivery"
)

func (t Type) Validate() error {
	switch t {
	case TypeDineIn, TypeTakeaway, TypeGolfCourse, TypeDelivery:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("order_type", fmt.Errorf("%q is not a valid order type", string(t)))
	}
}

func (t Type) String() string {
	return string(t)
}

package order

import (
	"fmt"
	"regexp"
	"strconv"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

const (
	// NumberPrefix starts every order number.
	NumberPrefix = "ORD"
	// NumberMinWidth is the minimum zero-padded width of the sequence part.
	// Sequences past 999 widen to as many digits as needed.
	NumberMinWidth = 3
)

var numberPattern = regexp.MustCompile(`^ORD-(\d{8})-(\d{3,})$`)

var ErrNumberIsNotConstructed = errs.NewValueIsRequiredError("order number must be created via NewNumber or ParseNumber")

// Number is the human-readable order identifier ORD-YYYYMMDD-NNN, unique
// within a kitchen. The date is the kitchen-local business day on which the
// number was allocated and the suffix is that day's sequence value.
type Number struct {
	day      kernel.Date
	sequence int64
	guard    guard.ConstructorGuard
}

// NewNumber builds a Number from a business day and a sequence value >= 1.
func NewNumber(day kernel.Date, sequence int64) (Number, error) {
	if err := day.Validate(); err != nil {
		return Number{}, err
	}
	if sequence < 1 {
		return Number{}, errs.NewValueIsOutOfRangeError("sequence", sequence, 1, "unbounded")
	}
	return Number{day: day, sequence: sequence, guard: guard.NewConstructorGuard()}, nil
}

// ParseNumber reads a number previously produced by String.
func ParseNumber(s string) (Number, error) {
	m := numberPattern.FindStringSubmatch(s)
	if m == nil {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("order_number", fmt.Errorf("%q does not match ORD-YYYYMMDD-NNN", s))
	}

	day, err := kernel.ParseDate(m[1][0:4] + "-" + m[1][4:6] + "-" + m[1][6:8])
	if err != nil {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("order_number", err)
	}
	seq, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("order_number", err)
	}

	return NewNumber(day, seq)
}

func (n Number) Validate() error {
	return n.guard.Validate(ErrNumberIsNotConstructed)
}

func (n Number) Day() kernel.Date {
	return n.day
}

func (n Number) Sequence() int64 {
	return n.sequence
}

// String renders the number, e.g. ORD-20240501-007 or ORD-20240501-1234.
func (n Number) String() string {
	return fmt.Sprintf("%s-%s-%0*d", NumberPrefix, n.day.Compact(), NumberMinWidth, n.sequence)
}

package kernel

import (
	"fmt"
	"time"

	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

const (
	dateLayout        = "2006-01-02"
	compactDateLayout = "20060102"
)

// ErrDateIsNotConstructed is returned when a zero-value Date is used.
var ErrDateIsNotConstructed = errs.NewValueIsRequiredError("date must be created via DateOf, NewDate or ParseDate")

// Date is a calendar day without a time zone. Order numbering is partitioned
// by (kitchen, Date), where the Date is taken in the kitchen's own time zone.
type Date struct { //nolint:recvcheck //using for validation
	year  int
	month time.Month
	day   int
	guard guard.ConstructorGuard
}

// DateOf returns the calendar day that instant t falls on in loc.
//
// Example:
//
//	loc, _ := time.LoadLocation("America/New_York")
//	instant := time.Date(2024, 5, 2, 3, 30, 0, 0, time.UTC)
//	kernel.DateOf(instant, loc).String() // "2024-05-01"
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Date{year: y, month: m, day: d, guard: guard.NewConstructorGuard()}
}

// NewDate builds a Date and rejects values that time.Date would normalize
// (for example February 30).
func NewDate(year int, month time.Month, day int) (Date, error) {
	normalized := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if normalized.Year() != year || normalized.Month() != month || normalized.Day() != day {
		return Date{}, errs.NewValueIsInvalidErrorWithCause(
			"date",
			fmt.Errorf("%04d-%02d-%02d is not a calendar day", year, month, day),
		)
	}
	return Date{year: year, month: month, day: day, guard: guard.NewConstructorGuard()}, nil
}

// ParseDate parses the ISO form "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, errs.NewValueIsInvalidErrorWithCause("date", err)
	}
	return DateOf(t, time.UTC), nil
}

// Validate ensures the Date was built through a constructor.
func (d Date) Validate() error {
	return d.guard.Validate(ErrDateIsNotConstructed)
}

// Time returns midnight UTC of the day, suitable for a DATE column.
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// String returns the ISO form "2006-01-02".
func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// Compact returns the form used inside order numbers, "20060102".
func (d Date) Compact() string {
	return d.Time().Format(compactDateLayout)
}

// IsEqual compares two dates.
func (d Date) IsEqual(other Date) bool {
	return d.year == other.year && d.month == other.month && d.day == other.day
}

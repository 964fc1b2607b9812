package order

import (
	"errors"
	"strconv"
	"time"

	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order was not built by NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("order must be created via NewOrder or RestoreOrder")

// Details groups the descriptive, mostly optional, fields of an order.
type Details struct {
	Customer            Customer
	Type                Type
	TableNumber         string
	LocationDetails     string
	SpecialInstructions string
	PaymentMethod       string
	EstimatedReadyTime  *time.Time
	Items               []LineItem
}

// Order is the aggregate root of the back office.
//
// An order belongs to exactly one kitchen for its whole life and is never
// deleted. Its two state machines, Status and PaymentStatus, are independent.
// Each accepted transition bumps updatedAt and version and records exactly one
// domain event; the events stay on the aggregate until the caller drains them
// with PullEvents after persisting.
//
// Concurrency: version is the optimistic lock. Repositories persist with
// "WHERE version = PersistedVersion()" and report ConcurrencyConflictError
// when another writer got there first.
type Order struct {
	id        kernel.UUID
	kitchenID kernel.UUID
	number    Number
	details   Details
	totals    Totals

	status        Status
	paymentStatus PaymentStatus

	version          int
	persistedVersion int

	createdAt   time.Time
	updatedAt   time.Time
	completedAt *time.Time

	events        []event.Event
	isConstructed bool
}

// NewOrder creates a pending/pending order and raises OrderCreated.
//
// Parameters:
//   - id: the new order's identity
//   - kitchenID: the owning kitchen, immutable afterwards
//   - number: the allocated ORD-YYYYMMDD-NNN number
//   - details: customer, order type and line items
//   - totals: validated amounts; subtotal must match the line items when present
//   - actorID: the user placing the order, may be nil
//   - now: creation instant
//
// Returns:
//   - *Order: version 1, carrying one OrderCreated event
//   - error: validation error on any invalid argument
func NewOrder(
	id, kitchenID kernel.UUID,
	number Number,
	details Details,
	totals Totals,
	actorID *kernel.UUID,
	now time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		kitchenID.Validate(),
		number.Validate(),
		details.Type.Validate(),
		validateCustomer(details.Customer),
		validateTotals(totals),
	); err != nil {
		return nil, err
	}
	if err := totals.CheckItems(details.Items); err != nil {
		return nil, err
	}
	if now.IsZero() {
		return nil, errs.NewValueIsRequiredError("created_at")
	}

	now = now.UTC()
	o := &Order{
		id:               id,
		kitchenID:        kitchenID,
		number:           number,
		details:          copyDetails(details),
		totals:           totals,
		status:           StatusPending,
		paymentStatus:    PaymentPending,
		version:          1,
		persistedVersion: 0,
		createdAt:        now,
		updatedAt:        now,
		isConstructed:    true,
	}

	if err := o.raise(event.OrderCreated, actorID, now, map[string]any{
		event.KeyOrderNumber:   number.String(),
		event.KeyStatus:        o.status.String(),
		event.KeyPaymentStatus: o.paymentStatus.String(),
		event.KeyTotal:         totals.Total().String(),
		event.KeyCustomerName:  details.Customer.Name(),
		event.KeyOrderType:     details.Type.String(),
	}); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot is the persisted state of an order, used to rebuild it from storage.
type Snapshot struct {
	ID            kernel.UUID
	KitchenID     kernel.UUID
	Number        Number
	Details       Details
	Totals        Totals
	Status        Status
	PaymentStatus PaymentStatus
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

// RestoreOrder rebuilds an order from storage. No events are raised and the
// loaded version becomes the optimistic-lock baseline.
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.KitchenID.Validate(),
		s.Number.Validate(),
		s.Details.Type.Validate(),
		validateCustomer(s.Details.Customer),
		validateTotals(s.Totals),
		s.Status.Validate(),
		s.PaymentStatus.Validate(),
	); err != nil {
		return nil, err
	}
	if s.Version < 1 {
		return nil, errs.NewValueIsOutOfRangeError("version", s.Version, 1, "unbounded")
	}

	var completedAt *time.Time
	if s.CompletedAt != nil {
		t := s.CompletedAt.UTC()
		completedAt = &t
	}

	return &Order{
		id:               s.ID,
		kitchenID:        s.KitchenID,
		number:           s.Number,
		details:          copyDetails(s.Details),
		totals:           s.Totals,
		status:           s.Status,
		paymentStatus:    s.PaymentStatus,
		version:          s.Version,
		persistedVersion: s.Version,
		createdAt:        s.CreatedAt.UTC(),
		updatedAt:        s.UpdatedAt.UTC(),
		completedAt:      completedAt,
		isConstructed:    true,
	}, nil
}

// ChangeStatus moves the kitchen workflow to target.
//
// On success updatedAt is set to now, version is incremented, completedAt is
// set when target is Delivered, and one OrderStatusChanged event is raised.
// On failure the order is left untouched.
//
// Returns:
//   - InvalidTransitionError when target is not reachable from the current status
//   - ValueIsInvalidError when target is not a known status
func (o *Order) ChangeStatus(target Status, actorID *kernel.UUID, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	now = now.UTC()
	prev := o.status
	if err = o.raise(event.OrderStatusChanged, actorID, now, map[string]any{
		event.KeyOrderNumber: o.number.String(),
		event.KeyFrom:        prev.String(),
		event.KeyTo:          next.String(),
		event.KeyStatus:      next.String(),
	}); err != nil {
		return err
	}

	o.status = next
	if next == StatusDelivered {
		completed := now
		o.completedAt = &completed
	}
	o.touch(now)
	return nil
}

// ChangePaymentStatus moves the payment workflow to target under policy.
// The effects on success and failure mirror ChangeStatus.
func (o *Order) ChangePaymentStatus(
	target PaymentStatus,
	policy PaymentPolicy,
	actorID *kernel.UUID,
	now time.Time,
) error {
	if err := o.Validate(); err != nil {
		return err
	}

	next, err := o.paymentStatus.TransitionTo(target, policy)
	if err != nil {
		return err
	}

	now = now.UTC()
	prev := o.paymentStatus
	if err = o.raise(event.OrderPaymentStatusChanged, actorID, now, map[string]any{
		event.KeyOrderNumber:   o.number.String(),
		event.KeyFrom:          prev.String(),
		event.KeyTo:            next.String(),
		event.KeyPaymentStatus: next.String(),
		event.KeyTotal:         o.totals.Total().String(),
	}); err != nil {
		return err
	}

	o.paymentStatus = next
	o.touch(now)
	return nil
}

// ExpectVersion fails with ConcurrencyConflictError when the caller acted on
// a different version than the one loaded.
func (o *Order) ExpectVersion(expected int) error {
	if expected != o.version {
		return errs.NewConcurrencyConflictError("order", o.id.String(), expected)
	}
	return nil
}

// PullEvents returns the events raised since the last call and clears them.
func (o *Order) PullEvents() []event.Event {
	events := o.events
	o.events = nil
	return events
}

// Events returns a copy of the pending events without clearing them.
func (o *Order) Events() []event.Event {
	events := make([]event.Event, len(o.events))
	copy(events, o.events)
	return events
}

// MarkPersisted records that the current version has been written to storage.
func (o *Order) MarkPersisted() {
	o.persistedVersion = o.version
}

// Validate ensures the order was created by a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID              { return o.id }
func (o *Order) KitchenID() kernel.UUID       { return o.kitchenID }
func (o *Order) Number() Number               { return o.number }
func (o *Order) Customer() Customer           { return o.details.Customer }
func (o *Order) Type() Type                   { return o.details.Type }
func (o *Order) TableNumber() string          { return o.details.TableNumber }
func (o *Order) LocationDetails() string      { return o.details.LocationDetails }
func (o *Order) SpecialInstructions() string  { return o.details.SpecialInstructions }
func (o *Order) PaymentMethod() string        { return o.details.PaymentMethod }
func (o *Order) Totals() Totals               { return o.totals }
func (o *Order) Status() Status               { return o.status }
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }
func (o *Order) Version() int                 { return o.version }
func (o *Order) PersistedVersion() int        { return o.persistedVersion }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }

func (o *Order) EstimatedReadyTime() *time.Time {
	return copyTime(o.details.EstimatedReadyTime)
}

func (o *Order) CompletedAt() *time.Time {
	return copyTime(o.completedAt)
}

func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.details.Items))
	copy(items, o.details.Items)
	return items
}

// String is used in log fields.
func (o *Order) String() string {
	return o.number.String() + "@v" + strconv.Itoa(o.version)
}

func (o *Order) raise(t event.Type, actorID *kernel.UUID, now time.Time, payload map[string]any) error {
	ev, err := event.New(o.kitchenID, o.id, actorID, t, now, payload)
	if err != nil {
		return err
	}
	o.events = append(o.events, ev)
	return nil
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now
	o.version++
}

func validateCustomer(c Customer) error {
	if c.name == "" {
		return ErrCustomerIsRequired
	}
	return nil
}

func validateTotals(t Totals) error {
	return errors.Join(t.subtotal.Validate(), t.tax.Validate(), t.tip.Validate(), t.total.Validate())
}

func copyDetails(d Details) Details {
	d.EstimatedReadyTime = copyTime(d.EstimatedReadyTime)
	if d.Items != nil {
		items := make([]LineItem, len(d.Items))
		copy(items, d.Items)
		d.Items = items
	}
	return d
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := t.UTC()
	return &c
}

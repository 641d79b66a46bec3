package domain

import (
	"math/big"
	"time"

	"github.com/light-bringer/catalog-service/internal/pkg/clock"
)

// Field names for discount change tracking
const (
	DiscountFieldName      = "name"
	DiscountFieldPercent   = "discount_percent"
	DiscountFieldStartDate = "start_date"
	DiscountFieldEndDate   = "end_date"
	DiscountFieldIsActive  = "is_active"
	DiscountFieldDeletedAt = "deleted_at"
)

// Transition is the outcome of a discount reconciliation check.
type Transition int

const (
	// TransitionNone means the stored state already matched the window.
	TransitionNone Transition = iota
	// TransitionActivated means the check flipped the discount to active.
	TransitionActivated
	// TransitionDeactivated means the check flipped the discount to inactive.
	TransitionDeactivated
)

// Discount is a time-windowed percentage discount. Its activation flag is
// reconciled against the window by scheduled checks rather than being derived
// on every read: Reconcile re-computes the target state from current fields,
// so duplicate or delayed checks settle on the same answer.
//
// The window is inclusive on both ends: the discount is in-window from
// startDate through endDate to the nanosecond.
type Discount struct {
	id         string
	name       string
	percent    int64 // 1-100
	startDate  time.Time
	endDate    time.Time
	isActive   bool
	categoryID *string
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time

	// Cached percent/100 to avoid an allocation on every price application.
	multiplier *big.Rat

	clock   clock.Clock
	changes *ChangeTracker
	events  []DomainEvent
}

// NewDiscount creates a new Discount aggregate (for creation).
// All dates must be in UTC to prevent ambiguity across distributed systems.
// The discount is created inactive regardless of the window; the first
// reconciliation check realizes the state the window implies.
func NewDiscount(id, name string, percent int64, startDate, endDate, now time.Time, clk clock.Clock) (*Discount, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	if percent <= 0 || percent > 100 {
		return nil, ErrInvalidDiscountPercent
	}

	if startDate.Location() != time.UTC || endDate.Location() != time.UTC {
		return nil, ErrInvalidDiscountPeriod
	}

	if !startDate.Before(endDate) {
		return nil, ErrInvalidDiscountPeriod
	}

	if endDate.Before(now) {
		return nil, ErrDiscountEndsInPast
	}

	d := &Discount{
		id:         id,
		name:       name,
		percent:    percent,
		startDate:  startDate,
		endDate:    endDate,
		isActive:   false,
		createdAt:  now,
		updatedAt:  now,
		multiplier: big.NewRat(percent, 100),
		clock:      clk,
		changes:    NewChangeTracker(),
		events:     make([]DomainEvent, 0),
	}

	d.changes.MarkAll(
		DiscountFieldName,
		DiscountFieldPercent,
		DiscountFieldStartDate,
		DiscountFieldEndDate,
		DiscountFieldIsActive,
	)

	d.recordEvent(&DiscountCreatedEvent{
		DiscountID: d.id,
		Name:       d.name,
		Percent:    d.percent,
		StartDate:  d.startDate,
		EndDate:    d.endDate,
		CreatedAt:  d.createdAt,
	})

	return d, nil
}

// ReconstructDiscount reconstitutes a Discount from database rows.
func ReconstructDiscount(
	id, name string,
	percent int64,
	startDate, endDate time.Time,
	isActive bool,
	categoryID *string,
	createdAt, updatedAt time.Time,
	deletedAt *time.Time,
	clk clock.Clock,
) *Discount {
	return &Discount{
		id:         id,
		name:       name,
		percent:    percent,
		startDate:  startDate,
		endDate:    endDate,
		isActive:   isActive,
		categoryID: categoryID,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		deletedAt:  deletedAt,
		multiplier: big.NewRat(percent, 100),
		clock:      clk,
		changes:    NewChangeTracker(),
		events:     make([]DomainEvent, 0),
	}
}

// Getters
func (d *Discount) ID() string                  { return d.id }
func (d *Discount) Name() string                { return d.name }
func (d *Discount) Percent() int64              { return d.percent }
func (d *Discount) StartDate() time.Time        { return d.startDate }
func (d *Discount) EndDate() time.Time          { return d.endDate }
func (d *Discount) IsActive() bool              { return d.isActive }
func (d *Discount) CategoryID() *string         { return d.categoryID }
func (d *Discount) CreatedAt() time.Time        { return d.createdAt }
func (d *Discount) UpdatedAt() time.Time        { return d.updatedAt }
func (d *Discount) DeletedAt() *time.Time       { return d.deletedAt }
func (d *Discount) IsDeleted() bool             { return d.deletedAt != nil }
func (d *Discount) Changes() *ChangeTracker     { return d.changes }
func (d *Discount) DomainEvents() []DomainEvent { return d.events }

// InWindow reports whether t falls inside the discount window (inclusive).
func (d *Discount) InWindow(t time.Time) bool {
	return !t.Before(d.startDate) && !t.After(d.endDate)
}

// EffectiveAt reports whether the discount actually applies at t:
// active, not deleted, and inside the window.
func (d *Discount) EffectiveAt(t time.Time) bool {
	return d.isActive && d.deletedAt == nil && d.InWindow(t)
}

// ApplyTo returns the discounted price.
// Formula: discountedPrice = price - (price * percent / 100)
func (d *Discount) ApplyTo(price *Money) *Money {
	return price.Subtract(price.MultiplyByRat(d.multiplier))
}

// Reconcile re-derives the activation flag from the stored fields at now and
// applies at most one transition. Because the target state is computed fresh
// rather than as a delta, repeated or delayed checks are safe: the second
// invocation finds nothing to do.
func (d *Discount) Reconcile(now time.Time) Transition {
	shouldDeactivate := d.isActive && (d.endDate.Before(now) || d.deletedAt != nil)
	shouldActivate := !d.isActive && d.deletedAt == nil && !d.startDate.After(now) && !d.endDate.Before(now)

	switch {
	case shouldDeactivate:
		d.isActive = false
		d.changes.MarkDirty(DiscountFieldIsActive)
		d.recordEvent(&DiscountDeactivatedEvent{DiscountID: d.id, Timestamp: now})
		return TransitionDeactivated

	case shouldActivate:
		d.isActive = true
		d.changes.MarkDirty(DiscountFieldIsActive)
		d.recordEvent(&DiscountActivatedEvent{DiscountID: d.id, Timestamp: now})
		return TransitionActivated

	default:
		return TransitionNone
	}
}

// ManualActivate flips the discount to active by an explicit administrative
// call. Allowed only strictly inside the window; an expired or not-yet-started
// discount cannot be toggled by hand.
func (d *Discount) ManualActivate(now time.Time) error {
	if err := d.checkNotDeleted(); err != nil {
		return err
	}

	if !d.InWindow(now) {
		return ErrDiscountOutsideWindow
	}

	if d.isActive {
		return ErrAlreadyActive
	}

	d.isActive = true
	d.changes.MarkDirty(DiscountFieldIsActive)

	d.recordEvent(&DiscountActivatedEvent{DiscountID: d.id, Timestamp: now})
	return nil
}

// ManualDeactivate pauses an active discount. Allowed only strictly inside
// the window; outside it the scheduled checks own the flag.
func (d *Discount) ManualDeactivate(now time.Time) error {
	if err := d.checkNotDeleted(); err != nil {
		return err
	}

	if !d.InWindow(now) {
		return ErrDiscountOutsideWindow
	}

	if !d.isActive {
		return nil
	}

	d.isActive = false
	d.changes.MarkDirty(DiscountFieldIsActive)

	d.recordEvent(&DiscountDeactivatedEvent{DiscountID: d.id, Timestamp: now})
	return nil
}

// Rename updates the discount name.
func (d *Discount) Rename(name string) error {
	if err := d.checkNotDeleted(); err != nil {
		return err
	}

	if name == "" {
		return ErrEmptyName
	}

	d.name = name
	d.changes.MarkDirty(DiscountFieldName)
	return nil
}

// Reschedule replaces the discount window.
func (d *Discount) Reschedule(startDate, endDate, now time.Time) error {
	if err := d.checkNotDeleted(); err != nil {
		return err
	}

	if startDate.Location() != time.UTC || endDate.Location() != time.UTC {
		return ErrInvalidDiscountPeriod
	}

	if !startDate.Before(endDate) {
		return ErrInvalidDiscountPeriod
	}

	if endDate.Before(now) {
		return ErrDiscountEndsInPast
	}

	d.startDate = startDate
	d.endDate = endDate
	d.changes.MarkDirty(DiscountFieldStartDate)
	d.changes.MarkDirty(DiscountFieldEndDate)
	return nil
}

// SoftDelete marks the discount deleted. The activation flag is left for the
// next reconciliation check, which treats deletion as grounds to deactivate.
func (d *Discount) SoftDelete(now time.Time) error {
	if d.deletedAt != nil {
		return ErrAlreadyDeleted
	}

	d.deletedAt = &now
	d.changes.MarkDirty(DiscountFieldDeletedAt)

	d.recordEvent(&DiscountDeletedEvent{DiscountID: d.id, DeletedAt: now})
	return nil
}

// Restore clears the deletion marker. The discount is never auto-activated
// on restore; the next reconciliation check re-evaluates it.
func (d *Discount) Restore(now time.Time) error {
	if d.deletedAt == nil {
		return ErrNotDeleted
	}

	d.deletedAt = nil
	d.changes.MarkDirty(DiscountFieldDeletedAt)

	d.recordEvent(&DiscountRestoredEvent{DiscountID: d.id, Timestamp: now})
	return nil
}

func (d *Discount) checkNotDeleted() error {
	if d.deletedAt != nil {
		return ErrEntityDeleted
	}
	return nil
}

// recordEvent adds a domain event to the list of events.
func (d *Discount) recordEvent(event DomainEvent) {
	d.events = append(d.events, event)
}

// ClearEvents clears all recorded domain events (called after dispatching).
func (d *Discount) ClearEvents() {
	d.events = make([]DomainEvent, 0)
}

package domain

import (
	"time"

	"github.com/light-bringer/catalog-service/internal/pkg/clock"
)

// Field names for variant change tracking
const (
	VariantFieldColor     = "color"
	VariantFieldSize      = "size"
	VariantFieldWaist     = "waist"
	VariantFieldLength    = "length"
	VariantFieldQuantity  = "quantity"
	VariantFieldIsActive  = "is_active"
	VariantFieldDeletedAt = "deleted_at"
)

// Size is the clothing size enum for variants sized by letter code.
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

var knownSizes = map[Size]bool{
	SizeXS: true, SizeS: true, SizeM: true, SizeL: true, SizeXL: true, SizeXXL: true,
}

// Variant is a sellable variation of a product: a color plus either a letter
// size or a waist/length measurement pair. A variant is created inactive and
// must pass the activation guard (stock present and sizing complete) before
// it counts toward the product's aggregate quantity.
type Variant struct {
	id        string
	productID string
	color     string
	size      *Size
	waist     *int64
	length    *int64
	quantity  int64
	isActive  bool
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time

	clock   clock.Clock
	changes *ChangeTracker
	events  []DomainEvent
}

// NewVariant creates a new Variant aggregate (for creation).
// Sizing is optional at creation time but waist and length must be set
// together; the activation guard enforces complete sizing later.
func NewVariant(id, productID, color string, size *Size, waist, length *int64, quantity int64, now time.Time, clk clock.Clock) (*Variant, error) {
	if color == "" {
		return nil, ErrEmptyColor
	}

	if size != nil && !knownSizes[*size] {
		return nil, ErrInvalidSize
	}

	if (waist == nil) != (length == nil) {
		return nil, ErrIncompleteMeasurements
	}

	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	v := &Variant{
		id:        id,
		productID: productID,
		color:     color,
		size:      size,
		waist:     waist,
		length:    length,
		quantity:  quantity,
		isActive:  false,
		createdAt: now,
		updatedAt: now,
		clock:     clk,
		changes:   NewChangeTracker(),
		events:    make([]DomainEvent, 0),
	}

	v.changes.MarkAll(
		VariantFieldColor,
		VariantFieldSize,
		VariantFieldWaist,
		VariantFieldLength,
		VariantFieldQuantity,
		VariantFieldIsActive,
	)

	v.recordEvent(&VariantCreatedEvent{
		VariantID: v.id,
		ProductID: v.productID,
		Color:     v.color,
		Quantity:  v.quantity,
		CreatedAt: v.createdAt,
	})

	return v, nil
}

// ReconstructVariant reconstitutes a Variant from database rows.
func ReconstructVariant(
	id, productID, color string,
	size *Size,
	waist, length *int64,
	quantity int64,
	isActive bool,
	createdAt, updatedAt time.Time,
	deletedAt *time.Time,
	clk clock.Clock,
) *Variant {
	return &Variant{
		id:        id,
		productID: productID,
		color:     color,
		size:      size,
		waist:     waist,
		length:    length,
		quantity:  quantity,
		isActive:  isActive,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
		clock:     clk,
		changes:   NewChangeTracker(),
		events:    make([]DomainEvent, 0),
	}
}

// Getters
func (v *Variant) ID() string                  { return v.id }
func (v *Variant) ProductID() string           { return v.productID }
func (v *Variant) Color() string               { return v.color }
func (v *Variant) Size() *Size                 { return v.size }
func (v *Variant) Waist() *int64               { return v.waist }
func (v *Variant) Length() *int64              { return v.length }
func (v *Variant) Quantity() int64             { return v.quantity }
func (v *Variant) IsActive() bool              { return v.isActive }
func (v *Variant) CreatedAt() time.Time        { return v.createdAt }
func (v *Variant) UpdatedAt() time.Time        { return v.updatedAt }
func (v *Variant) DeletedAt() *time.Time       { return v.deletedAt }
func (v *Variant) IsDeleted() bool             { return v.deletedAt != nil }
func (v *Variant) Changes() *ChangeTracker     { return v.changes }
func (v *Variant) DomainEvents() []DomainEvent { return v.events }

// MatchesKey reports whether the variant occupies the same (color, size)
// slot as the given key. Used for the duplicate-variant conflict check.
func (v *Variant) MatchesKey(color string, size *Size) bool {
	if v.color != color {
		return false
	}
	if v.size == nil || size == nil {
		return v.size == nil && size == nil
	}
	return *v.size == *size
}

// sellable is the activation guard: stock present and sizing complete.
func (v *Variant) sellable() bool {
	if v.quantity <= 0 {
		return false
	}
	if v.size != nil {
		return true
	}
	return v.waist != nil && v.length != nil
}

// Activate flips the variant to active. It never adjusts quantity; a variant
// without stock or with incomplete sizing fails the guard instead.
func (v *Variant) Activate(now time.Time) error {
	if err := v.checkNotDeleted(); err != nil {
		return err
	}

	if v.isActive {
		return ErrAlreadyActive
	}

	if !v.sellable() {
		return ErrVariantNotSellable
	}

	v.isActive = true
	v.changes.MarkDirty(VariantFieldIsActive)

	v.recordEvent(&VariantActivatedEvent{
		VariantID: v.id,
		ProductID: v.productID,
		Timestamp: now,
	})

	return nil
}

// Deactivate flips the variant to inactive. It is unconditional for any
// existing, undeleted variant; deactivating an inactive variant is a no-op.
func (v *Variant) Deactivate(now time.Time) error {
	if err := v.checkNotDeleted(); err != nil {
		return err
	}

	if !v.isActive {
		return nil
	}

	v.deactivate(now)
	return nil
}

// AdjustQuantity applies a signed stock delta. A delta that would drive the
// quantity negative is rejected; a delta that lands exactly on zero
// auto-deactivates the variant as part of the same operation.
func (v *Variant) AdjustQuantity(delta int64, now time.Time) error {
	if err := v.checkNotDeleted(); err != nil {
		return err
	}

	newQuantity := v.quantity + delta
	if newQuantity < 0 {
		return ErrNegativeQuantity
	}

	v.quantity = newQuantity
	v.changes.MarkDirty(VariantFieldQuantity)

	v.recordEvent(&VariantQuantityAdjustedEvent{
		VariantID:   v.id,
		ProductID:   v.productID,
		Delta:       delta,
		NewQuantity: newQuantity,
		Timestamp:   now,
	})

	if newQuantity == 0 && v.isActive {
		v.deactivate(now)
	}

	return nil
}

// SoftDelete marks the variant deleted. An active variant is deactivated in
// the same operation so the product aggregate stops counting it.
func (v *Variant) SoftDelete(now time.Time) error {
	if v.deletedAt != nil {
		return ErrAlreadyDeleted
	}

	if v.isActive {
		v.deactivate(now)
	}

	v.deletedAt = &now
	v.changes.MarkDirty(VariantFieldDeletedAt)

	v.recordEvent(&VariantDeletedEvent{
		VariantID: v.id,
		ProductID: v.productID,
		DeletedAt: now,
	})

	return nil
}

// Restore clears the deletion marker. The variant lands inactive and must
// pass the activation guard again before selling.
func (v *Variant) Restore(now time.Time) error {
	if v.deletedAt == nil {
		return ErrNotDeleted
	}

	v.deletedAt = nil
	v.changes.MarkDirty(VariantFieldDeletedAt)

	v.recordEvent(&VariantRestoredEvent{
		VariantID: v.id,
		ProductID: v.productID,
		Timestamp: now,
	})

	return nil
}

func (v *Variant) deactivate(now time.Time) {
	v.isActive = false
	v.changes.MarkDirty(VariantFieldIsActive)

	v.recordEvent(&VariantDeactivatedEvent{
		VariantID: v.id,
		ProductID: v.productID,
		Timestamp: now,
	})
}

func (v *Variant) checkNotDeleted() error {
	if v.deletedAt != nil {
		return ErrEntityDeleted
	}
	return nil
}

// recordEvent adds a domain event to the list of events.
func (v *Variant) recordEvent(event DomainEvent) {
	v.events = append(v.events, event)
}

// ClearEvents clears all recorded domain events (called after dispatching).
func (v *Variant) ClearEvents() {
	v.events = make([]DomainEvent, 0)
}

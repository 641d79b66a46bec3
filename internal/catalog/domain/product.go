package domain

import (
	"time"

	"github.com/light-bringer/catalog-service/internal/pkg/clock"
)

// Field names for product change tracking
const (
	ProductFieldName          = "name"
	ProductFieldBasePrice     = "base_price"
	ProductFieldFinalPrice    = "final_price"
	ProductFieldQuantity      = "quantity"
	ProductFieldIsActive      = "is_active"
	ProductFieldDiscountID    = "discount_id"
	ProductFieldSubCategoryID = "subcategory_id"
	ProductFieldDeletedAt     = "deleted_at"
)

// Product is the aggregate root for catalog consistency. Its quantity is
// derived from its active, undeleted variants and its final price from the
// linked discount; both are denormalized onto the row and recomputed from
// fresh reads rather than maintained incrementally.
//
// Activation is asymmetric: a product is demoted automatically when it loses
// its last sellable variant, but promotion is always an explicit manual call.
type Product struct {
	id            string
	name          string
	basePrice     *Money
	finalPrice    *Money
	quantity      int64
	isActive      bool
	discountID    *string
	subCategoryID string
	createdAt     time.Time
	updatedAt     time.Time
	deletedAt     *time.Time

	clock   clock.Clock
	changes *ChangeTracker
	events  []DomainEvent
}

// NewProduct creates a new Product aggregate (for creation).
// Products are created inactive with zero derived quantity and a final price
// equal to the base price.
func NewProduct(id, name, subCategoryID string, basePrice *Money, now time.Time, clk clock.Clock) (*Product, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	if basePrice == nil || basePrice.IsNegative() || basePrice.IsZero() {
		return nil, ErrInvalidPrice
	}

	p := &Product{
		id:            id,
		name:          name,
		basePrice:     basePrice.Copy(),
		finalPrice:    basePrice.Copy(),
		quantity:      0,
		isActive:      false,
		subCategoryID: subCategoryID,
		createdAt:     now,
		updatedAt:     now,
		clock:         clk,
		changes:       NewChangeTracker(),
		events:        make([]DomainEvent, 0),
	}

	p.changes.MarkAll(
		ProductFieldName,
		ProductFieldBasePrice,
		ProductFieldFinalPrice,
		ProductFieldQuantity,
		ProductFieldIsActive,
		ProductFieldSubCategoryID,
	)

	p.recordEvent(&ProductCreatedEvent{
		ProductID:     p.id,
		Name:          p.name,
		SubCategoryID: p.subCategoryID,
		CreatedAt:     p.createdAt,
	})

	return p, nil
}

// ReconstructProduct reconstitutes a Product from database rows.
func ReconstructProduct(
	id, name, subCategoryID string,
	basePrice, finalPrice *Money,
	quantity int64,
	isActive bool,
	discountID *string,
	createdAt, updatedAt time.Time,
	deletedAt *time.Time,
	clk clock.Clock,
) *Product {
	return &Product{
		id:            id,
		name:          name,
		basePrice:     basePrice,
		finalPrice:    finalPrice,
		quantity:      quantity,
		isActive:      isActive,
		discountID:    discountID,
		subCategoryID: subCategoryID,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		deletedAt:     deletedAt,
		clock:         clk,
		changes:       NewChangeTracker(),
		events:        make([]DomainEvent, 0),
	}
}

// Getters
func (p *Product) ID() string                  { return p.id }
func (p *Product) Name() string                { return p.name }
func (p *Product) BasePrice() *Money           { return p.basePrice.Copy() }
func (p *Product) FinalPrice() *Money          { return p.finalPrice.Copy() }
func (p *Product) Quantity() int64             { return p.quantity }
func (p *Product) IsActive() bool              { return p.isActive }
func (p *Product) DiscountID() *string         { return p.discountID }
func (p *Product) SubCategoryID() string       { return p.subCategoryID }
func (p *Product) CreatedAt() time.Time        { return p.createdAt }
func (p *Product) UpdatedAt() time.Time        { return p.updatedAt }
func (p *Product) DeletedAt() *time.Time       { return p.deletedAt }
func (p *Product) IsDeleted() bool             { return p.deletedAt != nil }
func (p *Product) Changes() *ChangeTracker     { return p.changes }
func (p *Product) DomainEvents() []DomainEvent { return p.events }

// Rename updates the product name.
func (p *Product) Rename(name string) error {
	if err := p.checkNotDeleted(); err != nil {
		return err
	}

	if name == "" {
		return ErrEmptyName
	}

	p.name = name
	p.changes.MarkDirty(ProductFieldName)
	return nil
}

// Activate promotes the product. Promotion is manual only; no cascade ever
// calls this.
func (p *Product) Activate(now time.Time) error {
	if err := p.checkNotDeleted(); err != nil {
		return err
	}

	if p.isActive {
		return ErrAlreadyActive
	}

	p.isActive = true
	p.changes.MarkDirty(ProductFieldIsActive)

	p.recordEvent(&ProductActivatedEvent{
		ProductID: p.id,
		Timestamp: now,
	})

	return nil
}

// Deactivate demotes the product, whether manually or by cascade.
// Demoting an inactive product is a no-op.
func (p *Product) Deactivate(now time.Time) error {
	if err := p.checkNotDeleted(); err != nil {
		return err
	}

	if !p.isActive {
		return nil
	}

	p.isActive = false
	p.changes.MarkDirty(ProductFieldIsActive)

	p.recordEvent(&ProductDeactivatedEvent{
		ProductID:     p.id,
		SubCategoryID: p.subCategoryID,
		Timestamp:     now,
	})

	return nil
}

// SetQuantity overwrites the derived aggregate quantity. It reports whether
// the stored value actually changed, so callers can skip no-op writes.
func (p *Product) SetQuantity(quantity int64) bool {
	if p.quantity == quantity {
		return false
	}

	p.quantity = quantity
	p.changes.MarkDirty(ProductFieldQuantity)
	return true
}

// SetFinalPrice overwrites the denormalized post-discount price. It reports
// whether the stored value actually changed.
func (p *Product) SetFinalPrice(price *Money, now time.Time) bool {
	if p.finalPrice.Equals(price) {
		return false
	}

	p.finalPrice = price.Copy()
	p.changes.MarkDirty(ProductFieldFinalPrice)

	p.recordEvent(&ProductPriceRecalculatedEvent{
		ProductID:  p.id,
		FinalPrice: p.finalPrice.Copy(),
		Timestamp:  now,
	})

	return true
}

// AttachDiscount links a discount to the product.
func (p *Product) AttachDiscount(discountID string) error {
	if err := p.checkNotDeleted(); err != nil {
		return err
	}

	p.discountID = &discountID
	p.changes.MarkDirty(ProductFieldDiscountID)
	return nil
}

// DetachDiscount removes the discount link.
func (p *Product) DetachDiscount() error {
	if err := p.checkNotDeleted(); err != nil {
		return err
	}

	p.discountID = nil
	p.changes.MarkDirty(ProductFieldDiscountID)
	return nil
}

// SoftDelete marks the product deleted and demotes it.
func (p *Product) SoftDelete(now time.Time) error {
	if p.deletedAt != nil {
		return ErrAlreadyDeleted
	}

	if p.isActive {
		p.isActive = false
		p.changes.MarkDirty(ProductFieldIsActive)

		p.recordEvent(&ProductDeactivatedEvent{
			ProductID:     p.id,
			SubCategoryID: p.subCategoryID,
			Timestamp:     now,
		})
	}

	p.deletedAt = &now
	p.changes.MarkDirty(ProductFieldDeletedAt)

	p.recordEvent(&ProductDeletedEvent{
		ProductID: p.id,
		DeletedAt: now,
	})

	return nil
}

// Restore clears the deletion marker. The product lands inactive; promotion
// requires an explicit Activate call.
func (p *Product) Restore(now time.Time) error {
	if p.deletedAt == nil {
		return ErrNotDeleted
	}

	p.deletedAt = nil
	p.changes.MarkDirty(ProductFieldDeletedAt)

	p.recordEvent(&ProductRestoredEvent{
		ProductID: p.id,
		Timestamp: now,
	})

	return nil
}

func (p *Product) checkNotDeleted() error {
	if p.deletedAt != nil {
		return ErrEntityDeleted
	}
	return nil
}

// recordEvent adds a domain event to the list of events.
func (p *Product) recordEvent(event DomainEvent) {
	p.events = append(p.events, event)
}

// ClearEvents clears all recorded domain events (called after dispatching).
func (p *Product) ClearEvents() {
	p.events = make([]DomainEvent, 0)
}

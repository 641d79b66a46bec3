package domain

import "time"

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// VariantCreatedEvent is emitted when a variant is created.
type VariantCreatedEvent struct {
	VariantID string
	ProductID string
	Color     string
	Quantity  int64
	CreatedAt time.Time
}

func (e *VariantCreatedEvent) EventType() string   { return "variant.created" }
func (e *VariantCreatedEvent) AggregateID() string { return e.VariantID }

// VariantActivatedEvent is emitted when a variant passes its activation guard.
type VariantActivatedEvent struct {
	VariantID string
	ProductID string
	Timestamp time.Time
}

func (e *VariantActivatedEvent) EventType() string   { return "variant.activated" }
func (e *VariantActivatedEvent) AggregateID() string { return e.VariantID }

// VariantDeactivatedEvent is emitted when a variant is deactivated, whether
// by an explicit call, a zero-stock adjustment, or a soft delete. It carries
// the product id so the aggregate cascade can run without another read.
type VariantDeactivatedEvent struct {
	VariantID string
	ProductID string
	Timestamp time.Time
}

func (e *VariantDeactivatedEvent) EventType() string   { return "variant.deactivated" }
func (e *VariantDeactivatedEvent) AggregateID() string { return e.VariantID }

// VariantQuantityAdjustedEvent is emitted on every quantity delta.
type VariantQuantityAdjustedEvent struct {
	VariantID   string
	ProductID   string
	Delta       int64
	NewQuantity int64
	Timestamp   time.Time
}

func (e *VariantQuantityAdjustedEvent) EventType() string   { return "variant.quantity_adjusted" }
func (e *VariantQuantityAdjustedEvent) AggregateID() string { return e.VariantID }

// VariantDeletedEvent is emitted when a variant is soft-deleted.
type VariantDeletedEvent struct {
	VariantID string
	ProductID string
	DeletedAt time.Time
}

func (e *VariantDeletedEvent) EventType() string   { return "variant.deleted" }
func (e *VariantDeletedEvent) AggregateID() string { return e.VariantID }

// VariantRestoredEvent is emitted when a soft-deleted variant is restored.
// The variant lands inactive; restore never re-activates.
type VariantRestoredEvent struct {
	VariantID string
	ProductID string
	Timestamp time.Time
}

func (e *VariantRestoredEvent) EventType() string   { return "variant.restored" }
func (e *VariantRestoredEvent) AggregateID() string { return e.VariantID }

// ProductCreatedEvent is emitted when a product is created.
type ProductCreatedEvent struct {
	ProductID     string
	Name          string
	SubCategoryID string
	CreatedAt     time.Time
}

func (e *ProductCreatedEvent) EventType() string   { return "product.created" }
func (e *ProductCreatedEvent) AggregateID() string { return e.ProductID }

// ProductActivatedEvent is emitted on an explicit manual promotion.
type ProductActivatedEvent struct {
	ProductID string
	Timestamp time.Time
}

func (e *ProductActivatedEvent) EventType() string   { return "product.activated" }
func (e *ProductActivatedEvent) AggregateID() string { return e.ProductID }

// ProductDeactivatedEvent is emitted when a product is demoted, manually or
// by cascade. It carries the subcategory id for the next cascade stage.
type ProductDeactivatedEvent struct {
	ProductID     string
	SubCategoryID string
	Timestamp     time.Time
}

func (e *ProductDeactivatedEvent) EventType() string   { return "product.deactivated" }
func (e *ProductDeactivatedEvent) AggregateID() string { return e.ProductID }

// ProductPriceRecalculatedEvent is emitted when the denormalized final price
// is recomputed from the linked discount.
type ProductPriceRecalculatedEvent struct {
	ProductID  string
	FinalPrice *Money
	Timestamp  time.Time
}

func (e *ProductPriceRecalculatedEvent) EventType() string   { return "product.price_recalculated" }
func (e *ProductPriceRecalculatedEvent) AggregateID() string { return e.ProductID }

// ProductDeletedEvent is emitted when a product is soft-deleted.
type ProductDeletedEvent struct {
	ProductID string
	DeletedAt time.Time
}

func (e *ProductDeletedEvent) EventType() string   { return "product.deleted" }
func (e *ProductDeletedEvent) AggregateID() string { return e.ProductID }

// ProductRestoredEvent is emitted when a soft-deleted product is restored.
type ProductRestoredEvent struct {
	ProductID string
	Timestamp time.Time
}

func (e *ProductRestoredEvent) EventType() string   { return "product.restored" }
func (e *ProductRestoredEvent) AggregateID() string { return e.ProductID }

// SubCategoryDeactivatedEvent is emitted when a subcategory is demoted
// because none of its products remain active.
type SubCategoryDeactivatedEvent struct {
	SubCategoryID string
	Timestamp     time.Time
}

func (e *SubCategoryDeactivatedEvent) EventType() string   { return "subcategory.deactivated" }
func (e *SubCategoryDeactivatedEvent) AggregateID() string { return e.SubCategoryID }

// DiscountCreatedEvent is emitted when a discount is created.
type DiscountCreatedEvent struct {
	DiscountID string
	Name       string
	Percent    int64
	StartDate  time.Time
	EndDate    time.Time
	CreatedAt  time.Time
}

func (e *DiscountCreatedEvent) EventType() string   { return "discount.created" }
func (e *DiscountCreatedEvent) AggregateID() string { return e.DiscountID }

// DiscountActivatedEvent is emitted when reconciliation or a manual call
// flips a discount to active.
type DiscountActivatedEvent struct {
	DiscountID string
	Timestamp  time.Time
}

func (e *DiscountActivatedEvent) EventType() string   { return "discount.activated" }
func (e *DiscountActivatedEvent) AggregateID() string { return e.DiscountID }

// DiscountDeactivatedEvent is emitted when reconciliation or a manual call
// flips a discount to inactive.
type DiscountDeactivatedEvent struct {
	DiscountID string
	Timestamp  time.Time
}

func (e *DiscountDeactivatedEvent) EventType() string   { return "discount.deactivated" }
func (e *DiscountDeactivatedEvent) AggregateID() string { return e.DiscountID }

// DiscountDeletedEvent is emitted when a discount is soft-deleted.
type DiscountDeletedEvent struct {
	DiscountID string
	DeletedAt  time.Time
}

func (e *DiscountDeletedEvent) EventType() string   { return "discount.deleted" }
func (e *DiscountDeletedEvent) AggregateID() string { return e.DiscountID }

// DiscountRestoredEvent is emitted when a soft-deleted discount is restored.
// The discount stays in its pre-delete activation state until the next
// reconciliation check re-evaluates it.
type DiscountRestoredEvent struct {
	DiscountID string
	Timestamp  time.Time
}

func (e *DiscountRestoredEvent) EventType() string   { return "discount.restored" }
func (e *DiscountRestoredEvent) AggregateID() string { return e.DiscountID }

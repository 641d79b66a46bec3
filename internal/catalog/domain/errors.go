package domain

import "errors"

// Domain errors as sentinel values
var (
	// Not-found errors
	ErrProductNotFound     = errors.New("product not found")
	ErrVariantNotFound     = errors.New("variant not found")
	ErrDiscountNotFound    = errors.New("discount not found")
	ErrSubCategoryNotFound = errors.New("subcategory not found")

	// Validation errors
	ErrEmptyName               = errors.New("name cannot be empty")
	ErrInvalidPrice            = errors.New("price must be positive")
	ErrEmptyColor              = errors.New("variant color cannot be empty")
	ErrInvalidSize             = errors.New("variant size is not a known size")
	ErrIncompleteMeasurements  = errors.New("waist and length must be set together")
	ErrNegativeQuantity        = errors.New("quantity cannot be negative")
	ErrInvalidDiscountPercent  = errors.New("discount percentage must be between 1 and 100")
	ErrInvalidDiscountPeriod   = errors.New("discount end date must be after start date")
	ErrDiscountEndsInPast      = errors.New("discount end date cannot be in the past")

	// Conflict errors
	ErrDuplicateVariant = errors.New("an undeleted variant with the same color and size already exists")
	ErrDuplicateName    = errors.New("an entity with the same name already exists")

	// Storage errors
	ErrMoneyOverflow = errors.New("money value exceeds storage capacity")

	// Invalid-state errors
	ErrVariantNotSellable     = errors.New("variant needs stock and a size or waist/length pair before activation")
	ErrAlreadyActive          = errors.New("entity is already active")
	ErrAlreadyDeleted         = errors.New("entity is already deleted")
	ErrNotDeleted             = errors.New("entity is not deleted")
	ErrEntityDeleted          = errors.New("cannot modify a deleted entity")
	ErrDiscountOutsideWindow  = errors.New("manual discount transitions are only allowed inside the active window")
)

package m_discount

// Field name constants for the discounts table.
const (
	TableName = "discounts"

	DiscountID      = "discount_id"
	Name            = "name"
	DiscountPercent = "discount_percent"
	StartDate       = "start_date"
	EndDate         = "end_date"
	IsActive        = "is_active"
	CategoryID      = "category_id"
	CreatedAt       = "created_at"
	UpdatedAt       = "updated_at"
	DeletedAt       = "deleted_at"
)

// AllColumns lists every column of the discounts table in read order.
var AllColumns = []string{
	DiscountID,
	Name,
	DiscountPercent,
	StartDate,
	EndDate,
	IsActive,
	CategoryID,
	CreatedAt,
	UpdatedAt,
	DeletedAt,
}

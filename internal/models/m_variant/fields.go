package m_variant

// Field name constants for the variants table.
const (
	TableName = "variants"

	VariantID = "variant_id"
	ProductID = "product_id"
	Color     = "color"
	Size      = "size"
	Waist     = "waist"
	Length    = "length"
	Quantity  = "quantity"
	IsActive  = "is_active"
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
	DeletedAt = "deleted_at"
)

// AllColumns lists every column of the variants table in read order.
var AllColumns = []string{
	VariantID,
	ProductID,
	Color,
	Size,
	Waist,
	Length,
	Quantity,
	IsActive,
	CreatedAt,
	UpdatedAt,
	DeletedAt,
}

package m_product

// Field name constants for the products table.
// These provide type-safe field references and prevent typos.
const (
	TableName = "products"

	ProductID             = "product_id"
	Name                  = "name"
	BasePriceNumerator    = "base_price_numerator"
	BasePriceDenominator  = "base_price_denominator"
	FinalPriceNumerator   = "final_price_numerator"
	FinalPriceDenominator = "final_price_denominator"
	Quantity              = "quantity"
	IsActive              = "is_active"
	DiscountID            = "discount_id"
	SubCategoryID         = "subcategory_id"
	CreatedAt             = "created_at"
	UpdatedAt             = "updated_at"
	DeletedAt             = "deleted_at"
)

// AllColumns lists every column of the products table in read order.
var AllColumns = []string{
	ProductID,
	Name,
	BasePriceNumerator,
	BasePriceDenominator,
	FinalPriceNumerator,
	FinalPriceDenominator,
	Quantity,
	IsActive,
	DiscountID,
	SubCategoryID,
	CreatedAt,
	UpdatedAt,
	DeletedAt,
}

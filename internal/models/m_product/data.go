package m_product

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the products table.
type Data struct {
	ProductID             string
	Name                  string
	BasePriceNumerator    int64
	BasePriceDenominator  int64
	FinalPriceNumerator   int64
	FinalPriceDenominator int64
	Quantity              int64
	IsActive              bool
	DiscountID            spanner.NullString
	SubCategoryID         string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             spanner.NullTime
}

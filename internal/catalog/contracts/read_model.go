package contracts

import (
	"context"
	"time"
)

// VariantDTO is the read-side projection of a variant.
type VariantDTO struct {
	VariantID string  `json:"variantId"`
	Color     string  `json:"color"`
	Size      *string `json:"size,omitempty"`
	Waist     *int64  `json:"waist,omitempty"`
	Length    *int64  `json:"length,omitempty"`
	Quantity  int64   `json:"quantity"`
	IsActive  bool    `json:"isActive"`
}

// ProductDetailDTO is the read-side projection of a product with its variants.
type ProductDetailDTO struct {
	ProductID     string        `json:"productId"`
	Name          string        `json:"name"`
	Price         float64       `json:"price"`
	FinalPrice    float64       `json:"finalPrice"`
	Quantity      int64         `json:"quantity"`
	IsActive      bool          `json:"isActive"`
	DiscountID    *string       `json:"discountId,omitempty"`
	SubCategoryID string        `json:"subCategoryId"`
	Variants      []*VariantDTO `json:"variants"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ProductSummaryDTO is the read-side projection used in listings.
type ProductSummaryDTO struct {
	ProductID  string  `json:"productId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	FinalPrice float64 `json:"finalPrice"`
	Quantity   int64   `json:"quantity"`
	IsActive   bool    `json:"isActive"`
}

// ReadModel serves derived catalog reads. Implementations compute fresh data
// on a cache miss; cache population happens in the background so the read
// path never blocks on a cache write.
type ReadModel interface {
	// GetProductDetail returns a product with its undeleted variants.
	GetProductDetail(ctx context.Context, productID string, activeOnly bool) (*ProductDetailDTO, error)

	// ListSubCategoryProducts returns the undeleted products under a
	// subcategory.
	ListSubCategoryProducts(ctx context.Context, subCategoryID string, activeOnly bool) ([]*ProductSummaryDTO, error)
}

package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/catalog-service/internal/catalog/domain"
)

// ProductRepository defines the interface for product persistence.
// Repositories return mutations, they don't apply them; the committer applies
// every mutation of one operation atomically.
type ProductRepository interface {
	// InsertMut creates a mutation for inserting a new product.
	// Returns error if money values exceed int64 bounds.
	InsertMut(product *domain.Product) (*spanner.Mutation, error)

	// UpdateMut creates a mutation for updating a product (only dirty fields).
	UpdateMut(product *domain.Product) (*spanner.Mutation, error)

	// GetByID retrieves a product by ID, reconstructing the domain aggregate.
	GetByID(ctx context.Context, productID string) (*domain.Product, error)

	// CountActiveBySubCategory counts active, undeleted products under a
	// subcategory. Used by the subcategory cascade.
	CountActiveBySubCategory(ctx context.Context, subCategoryID string) (int64, error)

	// ListByDiscount retrieves undeleted products linked to a discount.
	// Used to refresh denormalized final prices after a discount transition.
	ListByDiscount(ctx context.Context, discountID string) ([]*domain.Product, error)
}

// VariantRepository defines the interface for variant persistence.
type VariantRepository interface {
	InsertMut(variant *domain.Variant) *spanner.Mutation
	UpdateMut(variant *domain.Variant) *spanner.Mutation

	// GetByID retrieves a variant by ID, deleted or not.
	GetByID(ctx context.Context, variantID string) (*domain.Variant, error)

	// ListByProduct retrieves the undeleted variants of a product, read
	// fresh for duplicate checks and aggregate recomputation.
	ListByProduct(ctx context.Context, productID string) ([]*domain.Variant, error)
}

// DiscountRepository defines the interface for discount persistence.
type DiscountRepository interface {
	InsertMut(discount *domain.Discount) *spanner.Mutation
	UpdateMut(discount *domain.Discount) *spanner.Mutation

	// GetByID retrieves a discount by ID, deleted or not.
	GetByID(ctx context.Context, discountID string) (*domain.Discount, error)
}

// SubCategoryRepository defines the interface for subcategory persistence.
type SubCategoryRepository interface {
	InsertMut(subCategory *domain.SubCategory) *spanner.Mutation
	UpdateMut(subCategory *domain.SubCategory) *spanner.Mutation
	GetByID(ctx context.Context, subCategoryID string) (*domain.SubCategory, error)
}

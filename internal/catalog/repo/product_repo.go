package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
	"github.com/light-bringer/catalog-service/internal/catalog/domain"
	"github.com/light-bringer/catalog-service/internal/models/m_product"
	"github.com/light-bringer/catalog-service/internal/pkg/clock"
	"github.com/light-bringer/catalog-service/internal/pkg/query"
)

// ProductRepo implements ProductRepository for Spanner.
type ProductRepo struct {
	client *spanner.Client
	model  *m_product.Model
	clock  clock.Clock
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(client *spanner.Client, clk clock.Clock) contracts.ProductRepository {
	return &ProductRepo{
		client: client,
		model:  m_product.NewModel(),
		clock:  clk,
	}
}

// InsertMut creates a mutation for inserting a new product.
func (r *ProductRepo) InsertMut(product *domain.Product) (*spanner.Mutation, error) {
	data, err := r.domainToData(product)
	if err != nil {
		return nil, err
	}
	return r.model.InsertMut(data), nil
}

// UpdateMut creates a mutation for updating a product (only dirty fields).
func (r *ProductRepo) UpdateMut(product *domain.Product) (*spanner.Mutation, error) {
	changes := product.Changes()
	if !changes.HasChanges() {
		return nil, nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.ProductFieldName) {
		updates[m_product.Name] = product.Name()
	}

	if changes.Dirty(domain.ProductFieldBasePrice) {
		num, denom, err := moneyColumns(product.BasePrice())
		if err != nil {
			return nil, fmt.Errorf("base price: %w", err)
		}
		updates[m_product.BasePriceNumerator] = num
		updates[m_product.BasePriceDenominator] = denom
	}

	if changes.Dirty(domain.ProductFieldFinalPrice) {
		num, denom, err := moneyColumns(product.FinalPrice())
		if err != nil {
			return nil, fmt.Errorf("final price: %w", err)
		}
		updates[m_product.FinalPriceNumerator] = num
		updates[m_product.FinalPriceDenominator] = denom
	}

	if changes.Dirty(domain.ProductFieldQuantity) {
		updates[m_product.Quantity] = product.Quantity()
	}

	if changes.Dirty(domain.ProductFieldIsActive) {
		updates[m_product.IsActive] = product.IsActive()
	}

	if changes.Dirty(domain.ProductFieldDiscountID) {
		if discountID := product.DiscountID(); discountID != nil {
			updates[m_product.DiscountID] = spanner.NullString{StringVal: *discountID, Valid: true}
		} else {
			updates[m_product.DiscountID] = spanner.NullString{}
		}
	}

	if changes.Dirty(domain.ProductFieldSubCategoryID) {
		updates[m_product.SubCategoryID] = product.SubCategoryID()
	}

	if changes.Dirty(domain.ProductFieldDeletedAt) {
		if deletedAt := product.DeletedAt(); deletedAt != nil {
			updates[m_product.DeletedAt] = *deletedAt
		} else {
			updates[m_product.DeletedAt] = spanner.NullTime{}
		}
	}

	if len(updates) == 0 {
		return nil, nil
	}

	return r.model.UpdateMut(product.ID(), updates), nil
}

// GetByID retrieves a product by ID, reconstructing the domain aggregate.
func (r *ProductRepo) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	row, err := r.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{productID}, m_product.AllColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	var data m_product.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	return r.dataToDomain(&data)
}

// CountActiveBySubCategory counts active, undeleted products under a subcategory.
func (r *ProductRepo) CountActiveBySubCategory(ctx context.Context, subCategoryID string) (int64, error) {
	stmt := query.From(m_product.TableName).
		Where(query.Eq(m_product.SubCategoryID, subCategoryID)).
		Where(query.Eq(m_product.IsActive, true)).
		Where(query.IsNull(m_product.DeletedAt)).
		Count().
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count active products: %w", err)
	}

	var count int64
	if err := row.Column(0, &count); err != nil {
		return 0, fmt.Errorf("failed to parse count: %w", err)
	}
	return count, nil
}

// ListByDiscount retrieves undeleted products linked to a discount.
func (r *ProductRepo) ListByDiscount(ctx context.Context, discountID string) ([]*domain.Product, error) {
	stmt := query.From(m_product.TableName).
		Select(m_product.AllColumns...).
		Where(query.Eq(m_product.DiscountID, discountID)).
		Where(query.IsNull(m_product.DeletedAt)).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	products := make([]*domain.Product, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}

		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}

		product, err := r.dataToDomain(&data)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, nil
}

// domainToData converts a domain Product to database Data.
func (r *ProductRepo) domainToData(product *domain.Product) (*m_product.Data, error) {
	baseNum, baseDenom, err := moneyColumns(product.BasePrice())
	if err != nil {
		return nil, fmt.Errorf("base price: %w", err)
	}

	finalNum, finalDenom, err := moneyColumns(product.FinalPrice())
	if err != nil {
		return nil, fmt.Errorf("final price: %w", err)
	}

	data := &m_product.Data{
		ProductID:             product.ID(),
		Name:                  product.Name(),
		BasePriceNumerator:    baseNum,
		BasePriceDenominator:  baseDenom,
		FinalPriceNumerator:   finalNum,
		FinalPriceDenominator: finalDenom,
		Quantity:              product.Quantity(),
		IsActive:              product.IsActive(),
		SubCategoryID:         product.SubCategoryID(),
	}

	if discountID := product.DiscountID(); discountID != nil {
		data.DiscountID = spanner.NullString{StringVal: *discountID, Valid: true}
	}

	if deletedAt := product.DeletedAt(); deletedAt != nil {
		data.DeletedAt = spanner.NullTime{Time: *deletedAt, Valid: true}
	}

	return data, nil
}

// dataToDomain converts database Data to a domain Product.
func (r *ProductRepo) dataToDomain(data *m_product.Data) (*domain.Product, error) {
	basePrice, err := domain.NewMoney(data.BasePriceNumerator, data.BasePriceDenominator)
	if err != nil {
		return nil, fmt.Errorf("invalid base price: %w", err)
	}

	finalPrice, err := domain.NewMoney(data.FinalPriceNumerator, data.FinalPriceDenominator)
	if err != nil {
		return nil, fmt.Errorf("invalid final price: %w", err)
	}

	var discountID *string
	if data.DiscountID.Valid {
		discountID = &data.DiscountID.StringVal
	}

	var deletedAt *time.Time
	if data.DeletedAt.Valid {
		deletedAt = &data.DeletedAt.Time
	}

	return domain.ReconstructProduct(
		data.ProductID,
		data.Name,
		data.SubCategoryID,
		basePrice,
		finalPrice,
		data.Quantity,
		data.IsActive,
		discountID,
		data.CreatedAt,
		data.UpdatedAt,
		deletedAt,
		r.clock,
	), nil
}

// moneyColumns normalizes a Money value and splits it into storage columns.
func moneyColumns(m *domain.Money) (int64, int64, error) {
	normalized := m.Normalize()
	if !normalized.IsSafeForStorage() {
		return 0, 0, domain.ErrMoneyOverflow
	}
	num, _ := normalized.Numerator()
	denom, _ := normalized.Denominator()
	return num, denom, nil
}

package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
	"github.com/light-bringer/catalog-service/internal/catalog/domain"
	"github.com/light-bringer/catalog-service/internal/models/m_product"
	"github.com/light-bringer/catalog-service/internal/models/m_variant"
	"github.com/light-bringer/catalog-service/internal/pkg/query"
)

// SpannerReadModel serves derived catalog reads straight from Spanner.
// Callers layer caching on top; this type always computes fresh data.
type SpannerReadModel struct {
	client *spanner.Client
}

// NewReadModel creates a new SpannerReadModel.
func NewReadModel(client *spanner.Client) contracts.ReadModel {
	return &SpannerReadModel{client: client}
}

// GetProductDetail returns a product with its undeleted variants.
func (r *SpannerReadModel) GetProductDetail(ctx context.Context, productID string, activeOnly bool) (*contracts.ProductDetailDTO, error) {
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

	if data.DeletedAt.Valid {
		return nil, domain.ErrProductNotFound
	}

	detail := &contracts.ProductDetailDTO{
		ProductID:     data.ProductID,
		Name:          data.Name,
		Price:         ratio(data.BasePriceNumerator, data.BasePriceDenominator),
		FinalPrice:    ratio(data.FinalPriceNumerator, data.FinalPriceDenominator),
		Quantity:      data.Quantity,
		IsActive:      data.IsActive,
		SubCategoryID: data.SubCategoryID,
		UpdatedAt:     data.UpdatedAt,
	}
	if data.DiscountID.Valid {
		detail.DiscountID = &data.DiscountID.StringVal
	}

	variants, err := r.listVariants(ctx, productID, activeOnly)
	if err != nil {
		return nil, err
	}
	detail.Variants = variants

	return detail, nil
}

// ListSubCategoryProducts returns the undeleted products under a subcategory.
func (r *SpannerReadModel) ListSubCategoryProducts(ctx context.Context, subCategoryID string, activeOnly bool) ([]*contracts.ProductSummaryDTO, error) {
	builder := query.From(m_product.TableName).
		Select(m_product.AllColumns...).
		Where(query.Eq(m_product.SubCategoryID, subCategoryID)).
		Where(query.IsNull(m_product.DeletedAt)).
		OrderBy(m_product.Name, query.Asc)
	if activeOnly {
		builder = builder.Where(query.Eq(m_product.IsActive, true))
	}

	iter := r.client.Single().Query(ctx, builder.Build())
	defer iter.Stop()

	summaries := make([]*contracts.ProductSummaryDTO, 0)
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

		summaries = append(summaries, &contracts.ProductSummaryDTO{
			ProductID:  data.ProductID,
			Name:       data.Name,
			Price:      ratio(data.BasePriceNumerator, data.BasePriceDenominator),
			FinalPrice: ratio(data.FinalPriceNumerator, data.FinalPriceDenominator),
			Quantity:   data.Quantity,
			IsActive:   data.IsActive,
		})
	}

	return summaries, nil
}

func (r *SpannerReadModel) listVariants(ctx context.Context, productID string, activeOnly bool) ([]*contracts.VariantDTO, error) {
	builder := query.From(m_variant.TableName).
		Select(m_variant.AllColumns...).
		Where(query.Eq(m_variant.ProductID, productID)).
		Where(query.IsNull(m_variant.DeletedAt)).
		OrderBy(m_variant.CreatedAt, query.Asc)
	if activeOnly {
		builder = builder.Where(query.Eq(m_variant.IsActive, true))
	}

	iter := r.client.Single().Query(ctx, builder.Build())
	defer iter.Stop()

	variants := make([]*contracts.VariantDTO, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate variants: %w", err)
		}

		var data m_variant.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse variant: %w", err)
		}

		dto := &contracts.VariantDTO{
			VariantID: data.VariantID,
			Color:     data.Color,
			Quantity:  data.Quantity,
			IsActive:  data.IsActive,
		}
		if data.Size.Valid {
			dto.Size = &data.Size.StringVal
		}
		if data.Waist.Valid {
			dto.Waist = &data.Waist.Int64
		}
		if data.Length.Valid {
			dto.Length = &data.Length.Int64
		}

		variants = append(variants, dto)
	}

	return variants, nil
}

func ratio(num, denom int64) float64 {
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

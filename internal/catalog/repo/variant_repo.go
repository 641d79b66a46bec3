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
	"github.com/light-bringer/catalog-service/internal/models/m_variant"
	"github.com/light-bringer/catalog-service/internal/pkg/clock"
	"github.com/light-bringer/catalog-service/internal/pkg/query"
)

// VariantRepo implements VariantRepository for Spanner.
type VariantRepo struct {
	client *spanner.Client
	model  *m_variant.Model
	clock  clock.Clock
}

// NewVariantRepo creates a new VariantRepo.
func NewVariantRepo(client *spanner.Client, clk clock.Clock) contracts.VariantRepository {
	return &VariantRepo{
		client: client,
		model:  m_variant.NewModel(),
		clock:  clk,
	}
}

// InsertMut creates a mutation for inserting a new variant.
func (r *VariantRepo) InsertMut(variant *domain.Variant) *spanner.Mutation {
	return r.model.InsertMut(r.domainToData(variant))
}

// UpdateMut creates a mutation for updating a variant (only dirty fields).
func (r *VariantRepo) UpdateMut(variant *domain.Variant) *spanner.Mutation {
	changes := variant.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.VariantFieldColor) {
		updates[m_variant.Color] = variant.Color()
	}

	if changes.Dirty(domain.VariantFieldSize) {
		updates[m_variant.Size] = nullSize(variant.Size())
	}

	if changes.Dirty(domain.VariantFieldWaist) {
		updates[m_variant.Waist] = nullInt64(variant.Waist())
	}

	if changes.Dirty(domain.VariantFieldLength) {
		updates[m_variant.Length] = nullInt64(variant.Length())
	}

	if changes.Dirty(domain.VariantFieldQuantity) {
		updates[m_variant.Quantity] = variant.Quantity()
	}

	if changes.Dirty(domain.VariantFieldIsActive) {
		updates[m_variant.IsActive] = variant.IsActive()
	}

	if changes.Dirty(domain.VariantFieldDeletedAt) {
		if deletedAt := variant.DeletedAt(); deletedAt != nil {
			updates[m_variant.DeletedAt] = *deletedAt
		} else {
			updates[m_variant.DeletedAt] = spanner.NullTime{}
		}
	}

	if len(updates) == 0 {
		return nil
	}

	return r.model.UpdateMut(variant.ID(), updates)
}

// GetByID retrieves a variant by ID, reconstructing the domain aggregate.
func (r *VariantRepo) GetByID(ctx context.Context, variantID string) (*domain.Variant, error) {
	row, err := r.client.Single().ReadRow(ctx, m_variant.TableName, spanner.Key{variantID}, m_variant.AllColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to read variant: %w", err)
	}

	var data m_variant.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse variant: %w", err)
	}

	return r.dataToDomain(&data), nil
}

// ListByProduct retrieves the undeleted variants of a product.
func (r *VariantRepo) ListByProduct(ctx context.Context, productID string) ([]*domain.Variant, error) {
	stmt := query.From(m_variant.TableName).
		Select(m_variant.AllColumns...).
		Where(query.Eq(m_variant.ProductID, productID)).
		Where(query.IsNull(m_variant.DeletedAt)).
		OrderBy(m_variant.CreatedAt, query.Asc).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	variants := make([]*domain.Variant, 0)
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

		variants = append(variants, r.dataToDomain(&data))
	}

	return variants, nil
}

// domainToData converts a domain Variant to database Data.
func (r *VariantRepo) domainToData(variant *domain.Variant) *m_variant.Data {
	data := &m_variant.Data{
		VariantID: variant.ID(),
		ProductID: variant.ProductID(),
		Color:     variant.Color(),
		Size:      nullSize(variant.Size()),
		Waist:     nullInt64(variant.Waist()),
		Length:    nullInt64(variant.Length()),
		Quantity:  variant.Quantity(),
		IsActive:  variant.IsActive(),
	}

	if deletedAt := variant.DeletedAt(); deletedAt != nil {
		data.DeletedAt = spanner.NullTime{Time: *deletedAt, Valid: true}
	}

	return data
}

// dataToDomain converts database Data to a domain Variant.
func (r *VariantRepo) dataToDomain(data *m_variant.Data) *domain.Variant {
	var size *domain.Size
	if data.Size.Valid {
		s := domain.Size(data.Size.StringVal)
		size = &s
	}

	var waist, length *int64
	if data.Waist.Valid {
		waist = &data.Waist.Int64
	}
	if data.Length.Valid {
		length = &data.Length.Int64
	}

	var deletedAt *time.Time
	if data.DeletedAt.Valid {
		deletedAt = &data.DeletedAt.Time
	}

	return domain.ReconstructVariant(
		data.VariantID,
		data.ProductID,
		data.Color,
		size,
		waist,
		length,
		data.Quantity,
		data.IsActive,
		data.CreatedAt,
		data.UpdatedAt,
		deletedAt,
		r.clock,
	)
}

func nullSize(size *domain.Size) spanner.NullString {
	if size == nil {
		return spanner.NullString{}
	}
	return spanner.NullString{StringVal: string(*size), Valid: true}
}

func nullInt64(v *int64) spanner.NullInt64 {
	if v == nil {
		return spanner.NullInt64{}
	}
	return spanner.NullInt64{Int64: *v, Valid: true}
}

package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
	"github.com/light-bringer/catalog-service/internal/catalog/domain"
	"github.com/light-bringer/catalog-service/internal/models/m_subcategory"
	"github.com/light-bringer/catalog-service/internal/pkg/clock"
)

// SubCategoryRepo implements SubCategoryRepository for Spanner.
type SubCategoryRepo struct {
	client *spanner.Client
	model  *m_subcategory.Model
	clock  clock.Clock
}

// NewSubCategoryRepo creates a new SubCategoryRepo.
func NewSubCategoryRepo(client *spanner.Client, clk clock.Clock) contracts.SubCategoryRepository {
	return &SubCategoryRepo{
		client: client,
		model:  m_subcategory.NewModel(),
		clock:  clk,
	}
}

// InsertMut creates a mutation for inserting a new subcategory.
func (r *SubCategoryRepo) InsertMut(subCategory *domain.SubCategory) *spanner.Mutation {
	data := &m_subcategory.Data{
		SubCategoryID: subCategory.ID(),
		Name:          subCategory.Name(),
		IsActive:      subCategory.IsActive(),
	}

	if deletedAt := subCategory.DeletedAt(); deletedAt != nil {
		data.DeletedAt = spanner.NullTime{Time: *deletedAt, Valid: true}
	}

	return r.model.InsertMut(data)
}

// UpdateMut creates a mutation for updating a subcategory (only dirty fields).
func (r *SubCategoryRepo) UpdateMut(subCategory *domain.SubCategory) *spanner.Mutation {
	changes := subCategory.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.SubCategoryFieldName) {
		updates[m_subcategory.Name] = subCategory.Name()
	}

	if changes.Dirty(domain.SubCategoryFieldIsActive) {
		updates[m_subcategory.IsActive] = subCategory.IsActive()
	}

	if changes.Dirty(domain.SubCategoryFieldDeletedAt) {
		if deletedAt := subCategory.DeletedAt(); deletedAt != nil {
			updates[m_subcategory.DeletedAt] = *deletedAt
		} else {
			updates[m_subcategory.DeletedAt] = spanner.NullTime{}
		}
	}

	if len(updates) == 0 {
		return nil
	}

	return r.model.UpdateMut(subCategory.ID(), updates)
}

// GetByID retrieves a subcategory by ID, reconstructing the domain aggregate.
func (r *SubCategoryRepo) GetByID(ctx context.Context, subCategoryID string) (*domain.SubCategory, error) {
	row, err := r.client.Single().ReadRow(ctx, m_subcategory.TableName, spanner.Key{subCategoryID}, m_subcategory.AllColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrSubCategoryNotFound
		}
		return nil, fmt.Errorf("failed to read subcategory: %w", err)
	}

	var data m_subcategory.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse subcategory: %w", err)
	}

	var deletedAt *time.Time
	if data.DeletedAt.Valid {
		deletedAt = &data.DeletedAt.Time
	}

	return domain.ReconstructSubCategory(
		data.SubCategoryID,
		data.Name,
		data.IsActive,
		data.CreatedAt,
		data.UpdatedAt,
		deletedAt,
		r.clock,
	), nil
}

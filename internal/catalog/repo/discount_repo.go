package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
	"github.com/light-bringer/catalog-service/internal/catalog/domain"
	"github.com/light-bringer/catalog-service/internal/models/m_discount"
	"github.com/light-bringer/catalog-service/internal/pkg/clock"
)

// DiscountRepo implements DiscountRepository for Spanner.
type DiscountRepo struct {
	client *spanner.Client
	model  *m_discount.Model
	clock  clock.Clock
}

// NewDiscountRepo creates a new DiscountRepo.
func NewDiscountRepo(client *spanner.Client, clk clock.Clock) contracts.DiscountRepository {
	return &DiscountRepo{
		client: client,
		model:  m_discount.NewModel(),
		clock:  clk,
	}
}

// InsertMut creates a mutation for inserting a new discount.
func (r *DiscountRepo) InsertMut(discount *domain.Discount) *spanner.Mutation {
	data := &m_discount.Data{
		DiscountID:      discount.ID(),
		Name:            discount.Name(),
		DiscountPercent: discount.Percent(),
		StartDate:       discount.StartDate(),
		EndDate:         discount.EndDate(),
		IsActive:        discount.IsActive(),
	}

	if categoryID := discount.CategoryID(); categoryID != nil {
		data.CategoryID = spanner.NullString{StringVal: *categoryID, Valid: true}
	}

	if deletedAt := discount.DeletedAt(); deletedAt != nil {
		data.DeletedAt = spanner.NullTime{Time: *deletedAt, Valid: true}
	}

	return r.model.InsertMut(data)
}

// UpdateMut creates a mutation for updating a discount (only dirty fields).
func (r *DiscountRepo) UpdateMut(discount *domain.Discount) *spanner.Mutation {
	changes := discount.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.DiscountFieldName) {
		updates[m_discount.Name] = discount.Name()
	}

	if changes.Dirty(domain.DiscountFieldPercent) {
		updates[m_discount.DiscountPercent] = discount.Percent()
	}

	if changes.Dirty(domain.DiscountFieldStartDate) {
		updates[m_discount.StartDate] = discount.StartDate()
	}

	if changes.Dirty(domain.DiscountFieldEndDate) {
		updates[m_discount.EndDate] = discount.EndDate()
	}

	if changes.Dirty(domain.DiscountFieldIsActive) {
		updates[m_discount.IsActive] = discount.IsActive()
	}

	if changes.Dirty(domain.DiscountFieldDeletedAt) {
		if deletedAt := discount.DeletedAt(); deletedAt != nil {
			updates[m_discount.DeletedAt] = *deletedAt
		} else {
			updates[m_discount.DeletedAt] = spanner.NullTime{}
		}
	}

	if len(updates) == 0 {
		return nil
	}

	return r.model.UpdateMut(discount.ID(), updates)
}

// GetByID retrieves a discount by ID, reconstructing the domain aggregate.
func (r *DiscountRepo) GetByID(ctx context.Context, discountID string) (*domain.Discount, error) {
	row, err := r.client.Single().ReadRow(ctx, m_discount.TableName, spanner.Key{discountID}, m_discount.AllColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to read discount: %w", err)
	}

	var data m_discount.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse discount: %w", err)
	}

	var categoryID *string
	if data.CategoryID.Valid {
		categoryID = &data.CategoryID.StringVal
	}

	var deletedAt *time.Time
	if data.DeletedAt.Valid {
		deletedAt = &data.DeletedAt.Time
	}

	return domain.ReconstructDiscount(
		data.DiscountID,
		data.Name,
		data.DiscountPercent,
		data.StartDate,
		data.EndDate,
		data.IsActive,
		categoryID,
		data.CreatedAt,
		data.UpdatedAt,
		deletedAt,
		r.clock,
	), nil
}

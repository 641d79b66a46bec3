package m_discount

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the discounts table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a discount.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		AllColumns,
		[]interface{}{
			data.DiscountID,
			data.Name,
			data.DiscountPercent,
			data.StartDate,
			data.EndDate,
			data.IsActive,
			data.CategoryID,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
			data.DeletedAt,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific discount fields.
func (m *Model) UpdateMut(discountID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	updates[UpdatedAt] = spanner.CommitTimestamp

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, DiscountID)
	values = append(values, discountID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

package m_subcategory

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the subcategories table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a subcategory.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		AllColumns,
		[]interface{}{
			data.SubCategoryID,
			data.Name,
			data.IsActive,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
			data.DeletedAt,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific subcategory fields.
func (m *Model) UpdateMut(subCategoryID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	updates[UpdatedAt] = spanner.CommitTimestamp

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, SubCategoryID)
	values = append(values, subCategoryID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

package m_audit

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the audit_log table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an audit entry.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		AllColumns,
		[]interface{}{
			data.EntryID,
			data.Description,
			data.OperationType,
			data.UserID,
			data.ItemID,
			spanner.CommitTimestamp,
		},
	)
}

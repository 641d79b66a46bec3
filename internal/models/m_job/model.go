package m_job

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the scheduled_jobs table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a scheduled job.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		AllColumns,
		[]interface{}{
			data.JobID,
			data.Kind,
			data.Payload,
			data.RunAt,
			data.Status,
			data.Attempts,
			data.LeaseUntil,
			data.LastError,
			spanner.CommitTimestamp,
			data.CompletedAt,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific job fields.
func (m *Model) UpdateMut(jobID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, JobID)
	values = append(values, jobID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting a job row.
// Completed jobs are pruned by the cleanup pass, not by the poller.
func (m *Model) DeleteMut(jobID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{jobID})
}

package m_job

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the scheduled_jobs table.
type Data struct {
	JobID       string
	Kind        string
	Payload     spanner.NullJSON
	RunAt       time.Time
	Status      string
	Attempts    int64
	LeaseUntil  spanner.NullTime
	LastError   spanner.NullString
	CreatedAt   time.Time
	CompletedAt spanner.NullTime
}

package m_job

// Field name constants for the scheduled_jobs table.
const (
	TableName = "scheduled_jobs"

	JobID       = "job_id"
	Kind        = "kind"
	Payload     = "payload"
	RunAt       = "run_at"
	Status      = "status"
	Attempts    = "attempts"
	LeaseUntil  = "lease_until"
	LastError   = "last_error"
	CreatedAt   = "created_at"
	CompletedAt = "completed_at"
)

// Job status constants
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// AllColumns lists every column of the scheduled_jobs table in read order.
var AllColumns = []string{
	JobID,
	Kind,
	Payload,
	RunAt,
	Status,
	Attempts,
	LeaseUntil,
	LastError,
	CreatedAt,
	CompletedAt,
}

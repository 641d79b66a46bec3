package contracts

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"
)

// Job kinds handled by the reconciliation workers.
const (
	JobKindDiscountReconcile = "discount.reconcile"
)

// Job is a durable unit of scheduled work.
type Job struct {
	ID       string
	Kind     string
	Payload  map[string]string
	RunAt    time.Time
	Status   string
	Attempts int64
}

// JobRepository persists scheduled jobs. Enqueue/Schedule return mutations so
// a job row commits in the same transaction as the business mutation that
// requires it (e.g. a discount insert and its two boundary checks either all
// commit or none do).
type JobRepository interface {
	// EnqueueMut creates a mutation for a job due immediately.
	EnqueueMut(kind string, payload map[string]string, now time.Time) (*spanner.Mutation, error)

	// ScheduleMut creates a mutation for a job due at a future instant.
	ScheduleMut(kind string, payload map[string]string, runAt time.Time) (*spanner.Mutation, error)

	// ListDue retrieves pending jobs with run_at <= now, oldest first.
	ListDue(ctx context.Context, now time.Time, limit int64) ([]*Job, error)

	// ListExpiredLeases retrieves running jobs whose lease passed without a
	// completion or failure mark. The holder crashed or stalled; handlers are
	// idempotent, so the poller claims them again.
	ListExpiredLeases(ctx context.Context, now time.Time, limit int64) ([]*Job, error)

	// MarkRunningMut flags a claimed job and leases it until leaseUntil.
	MarkRunningMut(jobID string, attempts int64, leaseUntil time.Time) *spanner.Mutation

	// MarkCompletedMut flags a finished job.
	MarkCompletedMut(jobID string, completedAt time.Time) *spanner.Mutation

	// RequeueMut returns a failed job to pending with a later run_at. The
	// failure reason is recorded so the retry history stays visible.
	RequeueMut(jobID string, runAt time.Time, errMsg string) *spanner.Mutation

	// MarkFailedMut records a terminal failure. Failed jobs stay visible for
	// inspection and are never picked up again.
	MarkFailedMut(jobID string, errMsg string) *spanner.Mutation

	// ListCompletedBefore retrieves completed jobs finished before cutoff,
	// for the retention cleanup pass.
	ListCompletedBefore(ctx context.Context, cutoff time.Time, limit int64) ([]*Job, error)

	// DeleteMut removes a job row.
	DeleteMut(jobID string) *spanner.Mutation
}

// JobHandler executes one kind of scheduled job. Handlers must be idempotent:
// duplicate delivery, retry, or out-of-order execution may happen.
type JobHandler func(ctx context.Context, payload map[string]string) error

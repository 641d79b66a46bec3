package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
	"github.com/light-bringer/catalog-service/internal/models/m_job"
	"github.com/light-bringer/catalog-service/internal/pkg/query"
)

// JobRepo implements JobRepository for Spanner.
type JobRepo struct {
	client *spanner.Client
	model  *m_job.Model
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(client *spanner.Client) contracts.JobRepository {
	return &JobRepo{
		client: client,
		model:  m_job.NewModel(),
	}
}

// EnqueueMut creates a mutation for a job due immediately.
func (r *JobRepo) EnqueueMut(kind string, payload map[string]string, now time.Time) (*spanner.Mutation, error) {
	return r.insertMut(kind, payload, now)
}

// ScheduleMut creates a mutation for a job due at a future instant.
func (r *JobRepo) ScheduleMut(kind string, payload map[string]string, runAt time.Time) (*spanner.Mutation, error) {
	return r.insertMut(kind, payload, runAt)
}

func (r *JobRepo) insertMut(kind string, payload map[string]string, runAt time.Time) (*spanner.Mutation, error) {
	if kind == "" {
		return nil, fmt.Errorf("job kind cannot be empty")
	}

	return r.model.InsertMut(&m_job.Data{
		JobID:   uuid.New().String(),
		Kind:    kind,
		Payload: spanner.NullJSON{Value: payload, Valid: payload != nil},
		RunAt:   runAt,
		Status:  m_job.StatusPending,
	}), nil
}

// ListDue retrieves pending jobs with run_at <= now, oldest first.
func (r *JobRepo) ListDue(ctx context.Context, now time.Time, limit int64) ([]*contracts.Job, error) {
	stmt := query.From(m_job.TableName).
		Select(m_job.JobID, m_job.Kind, m_job.Payload, m_job.RunAt, m_job.Status, m_job.Attempts).
		Where(query.Eq(m_job.Status, m_job.StatusPending)).
		Where(query.Lte(m_job.RunAt, now)).
		OrderBy(m_job.RunAt, query.Asc).
		Limit(limit).
		Build()

	return r.queryJobs(ctx, stmt, limit)
}

// ListExpiredLeases retrieves running jobs whose lease_until passed, oldest
// first. These were claimed by a poller that crashed or stalled before
// marking an outcome.
func (r *JobRepo) ListExpiredLeases(ctx context.Context, now time.Time, limit int64) ([]*contracts.Job, error) {
	stmt := query.From(m_job.TableName).
		Select(m_job.JobID, m_job.Kind, m_job.Payload, m_job.RunAt, m_job.Status, m_job.Attempts).
		Where(query.Eq(m_job.Status, m_job.StatusRunning)).
		Where(query.Lte(m_job.LeaseUntil, now)).
		OrderBy(m_job.RunAt, query.Asc).
		Limit(limit).
		Build()

	return r.queryJobs(ctx, stmt, limit)
}

func (r *JobRepo) queryJobs(ctx context.Context, stmt spanner.Statement, limit int64) ([]*contracts.Job, error) {
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	jobs := make([]*contracts.Job, 0, limit)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate jobs: %w", err)
		}

		var (
			jobID    string
			kind     string
			payload  spanner.NullJSON
			runAt    time.Time
			status   string
			attempts int64
		)
		if err := row.Columns(&jobID, &kind, &payload, &runAt, &status, &attempts); err != nil {
			return nil, fmt.Errorf("failed to parse job: %w", err)
		}

		job := &contracts.Job{
			ID:       jobID,
			Kind:     kind,
			RunAt:    runAt,
			Status:   status,
			Attempts: attempts,
		}
		if payload.Valid {
			data, err := payload.MarshalJSON()
			if err != nil {
				return nil, fmt.Errorf("failed to serialize job payload: %w", err)
			}
			if err := json.Unmarshal(data, &job.Payload); err != nil {
				return nil, fmt.Errorf("failed to parse job payload: %w", err)
			}
		}

		jobs = append(jobs, job)
	}

	return jobs, nil
}

// ListCompletedBefore retrieves completed jobs finished before cutoff.
func (r *JobRepo) ListCompletedBefore(ctx context.Context, cutoff time.Time, limit int64) ([]*contracts.Job, error) {
	stmt := query.From(m_job.TableName).
		Select(m_job.JobID).
		Where(query.Eq(m_job.Status, m_job.StatusCompleted)).
		Where(query.Lte(m_job.CompletedAt, cutoff)).
		Limit(limit).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	jobs := make([]*contracts.Job, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate completed jobs: %w", err)
		}

		var jobID string
		if err := row.Column(0, &jobID); err != nil {
			return nil, fmt.Errorf("failed to parse job id: %w", err)
		}
		jobs = append(jobs, &contracts.Job{ID: jobID, Status: m_job.StatusCompleted})
	}

	return jobs, nil
}

// DeleteMut removes a job row.
func (r *JobRepo) DeleteMut(jobID string) *spanner.Mutation {
	return r.model.DeleteMut(jobID)
}

// MarkRunningMut flags a claimed job and leases it until leaseUntil.
func (r *JobRepo) MarkRunningMut(jobID string, attempts int64, leaseUntil time.Time) *spanner.Mutation {
	return r.model.UpdateMut(jobID, map[string]interface{}{
		m_job.Status:     m_job.StatusRunning,
		m_job.Attempts:   attempts,
		m_job.LeaseUntil: spanner.NullTime{Time: leaseUntil, Valid: true},
	})
}

// RequeueMut returns a failed job to pending with a later run_at.
func (r *JobRepo) RequeueMut(jobID string, runAt time.Time, errMsg string) *spanner.Mutation {
	return r.model.UpdateMut(jobID, map[string]interface{}{
		m_job.Status:     m_job.StatusPending,
		m_job.RunAt:      runAt,
		m_job.LeaseUntil: spanner.NullTime{},
		m_job.LastError:  spanner.NullString{StringVal: errMsg, Valid: errMsg != ""},
	})
}

// MarkCompletedMut flags a finished job.
func (r *JobRepo) MarkCompletedMut(jobID string, completedAt time.Time) *spanner.Mutation {
	return r.model.UpdateMut(jobID, map[string]interface{}{
		m_job.Status:      m_job.StatusCompleted,
		m_job.LeaseUntil:  spanner.NullTime{},
		m_job.CompletedAt: completedAt,
	})
}

// MarkFailedMut records a terminal failure.
func (r *JobRepo) MarkFailedMut(jobID string, errMsg string) *spanner.Mutation {
	return r.model.UpdateMut(jobID, map[string]interface{}{
		m_job.Status:     m_job.StatusFailed,
		m_job.LeaseUntil: spanner.NullTime{},
		m_job.LastError:  spanner.NullString{StringVal: errMsg, Valid: errMsg != ""},
	})
}

// Package scheduler runs durable scheduled jobs. Jobs are rows in the
// scheduled_jobs table, committed in the same plan as the business mutation
// that requires them, so a committed discount always has its boundary checks
// and an uncommitted one leaves nothing behind. The poller claims due rows
// under a lease and hands them to the worker pool; handlers are idempotent,
// so a crash between claiming and completion only delays the work until the
// lease expires and a later tick reclaims the row.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
	"github.com/light-bringer/catalog-service/internal/pkg/clock"
	"github.com/light-bringer/catalog-service/internal/pkg/committer"
	"github.com/light-bringer/catalog-service/internal/pkg/worker"
)

const (
	defaultBatchSize = 50

	// Completed jobs stay visible this long before the cleanup pass prunes
	// them.
	completedRetention = 24 * time.Hour

	// A claimed row whose lease passes without an outcome mark is treated as
	// abandoned and claimed again. Must exceed the longest handler run.
	leaseDuration = 5 * time.Minute

	// A job that failed fewer than maxAttempts times goes back to pending
	// after retryBackoff; at maxAttempts it is marked failed for good.
	retryBackoff = time.Minute
	maxAttempts  = 5
)

// Poller periodically claims due jobs and dispatches them to registered
// handlers on the worker pool.
type Poller struct {
	jobs     contracts.JobRepository
	applier  contracts.PlanApplier
	pool     *worker.Pool
	clock    clock.Clock
	logger   *zap.Logger
	interval time.Duration
	batch    int64

	handlers map[string]contracts.JobHandler
}

// NewPoller creates a new Poller. Handlers are registered before Run.
func NewPoller(
	jobs contracts.JobRepository,
	applier contracts.PlanApplier,
	pool *worker.Pool,
	clk clock.Clock,
	interval time.Duration,
	logger *zap.Logger,
) *Poller {
	return &Poller{
		jobs:     jobs,
		applier:  applier,
		pool:     pool,
		clock:    clk,
		logger:   logger,
		interval: interval,
		batch:    defaultBatchSize,
		handlers: make(map[string]contracts.JobHandler),
	}
}

// Register binds a handler to a job kind. Not safe for concurrent use; all
// registrations happen during wiring.
func (p *Poller) Register(kind string, handler contracts.JobHandler) {
	p.handlers[kind] = handler
}

// Run polls until the context is cancelled. One initial tick fires
// immediately so jobs that came due while the process was down are picked up
// without waiting a full interval.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("job poller started", zap.Duration("interval", p.interval))

	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("job poller stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	due, err := p.jobs.ListDue(ctx, p.clock.Now(), p.batch)
	if err != nil {
		p.logger.Error("failed to list due jobs", zap.Error(err))
		return
	}

	for _, job := range due {
		p.dispatch(ctx, job)
	}

	p.reclaim(ctx)
	p.prune(ctx)
}

// reclaim re-dispatches running jobs whose lease expired. The previous holder
// crashed or stalled before recording an outcome; dispatching again claims a
// fresh lease and bumps the attempt counter.
func (p *Poller) reclaim(ctx context.Context) {
	expired, err := p.jobs.ListExpiredLeases(ctx, p.clock.Now(), p.batch)
	if err != nil {
		p.logger.Error("failed to list expired leases", zap.Error(err))
		return
	}

	for _, job := range expired {
		p.logger.Warn("reclaiming abandoned job",
			zap.String("job_id", job.ID),
			zap.Int64("attempts", job.Attempts),
		)
		p.dispatch(ctx, job)
	}
}

// prune deletes completed jobs older than the retention window.
func (p *Poller) prune(ctx context.Context) {
	stale, err := p.jobs.ListCompletedBefore(ctx, p.clock.Now().Add(-completedRetention), p.batch)
	if err != nil {
		p.logger.Error("failed to list stale jobs", zap.Error(err))
		return
	}
	if len(stale) == 0 {
		return
	}

	plan := committer.NewPlan()
	for _, job := range stale {
		plan.Add(p.jobs.DeleteMut(job.ID))
	}
	if err := p.applier.Apply(ctx, plan); err != nil {
		p.logger.Error("failed to prune completed jobs", zap.Error(err))
		return
	}

	p.logger.Debug("pruned completed jobs", zap.Int("count", len(stale)))
}

// dispatch claims a job under a lease and hands it to the pool. Claiming
// marks the row running before the handler starts; if no outcome is recorded
// before the lease expires, a later tick reclaims the row.
func (p *Poller) dispatch(ctx context.Context, job *contracts.Job) {
	handler, ok := p.handlers[job.Kind]
	if !ok {
		p.logger.Warn("no handler for job kind",
			zap.String("job_id", job.ID),
			zap.String("kind", job.Kind),
		)
		p.markFailed(ctx, job.ID, "no handler registered")
		return
	}

	if job.Attempts >= maxAttempts {
		p.markFailed(ctx, job.ID, "attempt limit reached")
		return
	}

	claim := committer.NewPlan()
	claim.Add(p.jobs.MarkRunningMut(job.ID, job.Attempts+1, p.clock.Now().Add(leaseDuration)))
	if err := p.applier.Apply(ctx, claim); err != nil {
		p.logger.Error("failed to claim job",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
		return
	}

	submitted := p.pool.Submit(func(taskCtx context.Context) {
		p.execute(taskCtx, job, handler)
	})
	if !submitted {
		// Pool shut down mid-tick; the lease expires and a later tick
		// reclaims the row.
		p.logger.Warn("pool rejected job, leaving for lease expiry",
			zap.String("job_id", job.ID),
		)
	}
}

func (p *Poller) execute(ctx context.Context, job *contracts.Job, handler contracts.JobHandler) {
	logger := p.logger.With(
		zap.String("job_id", job.ID),
		zap.String("kind", job.Kind),
	)

	if err := handler(ctx, job.Payload); err != nil {
		attempt := job.Attempts + 1
		if attempt >= maxAttempts {
			logger.Error("job handler failed, attempt limit reached", zap.Error(err))
			p.markFailed(ctx, job.ID, err.Error())
			return
		}

		logger.Warn("job handler failed, will retry",
			zap.Int64("attempt", attempt),
			zap.Error(err),
		)
		p.requeue(ctx, job.ID, err.Error())
		return
	}

	plan := committer.NewPlan()
	plan.Add(p.jobs.MarkCompletedMut(job.ID, p.clock.Now()))
	if err := p.applier.Apply(ctx, plan); err != nil {
		logger.Error("failed to mark job completed", zap.Error(err))
		return
	}

	logger.Debug("job completed")
}

// requeue returns a job to pending so a later tick retries it. Handlers are
// idempotent, so a retry after a partial run is safe.
func (p *Poller) requeue(ctx context.Context, jobID, reason string) {
	plan := committer.NewPlan()
	plan.Add(p.jobs.RequeueMut(jobID, p.clock.Now().Add(retryBackoff), reason))
	if err := p.applier.Apply(ctx, plan); err != nil {
		p.logger.Error("failed to requeue job",
			zap.String("job_id", jobID),
			zap.Error(err),
		)
	}
}

func (p *Poller) markFailed(ctx context.Context, jobID, reason string) {
	plan := committer.NewPlan()
	plan.Add(p.jobs.MarkFailedMut(jobID, reason))
	if err := p.applier.Apply(ctx, plan); err != nil {
		p.logger.Error("failed to mark job failed",
			zap.String("job_id", jobID),
			zap.Error(err),
		)
	}
}

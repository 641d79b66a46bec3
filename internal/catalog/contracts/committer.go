package contracts

import (
	"context"

	"github.com/light-bringer/catalog-service/internal/pkg/committer"
)

// PlanApplier applies a CommitPlan atomically. Services depend on this
// interface so orchestration can be tested without a database.
type PlanApplier interface {
	Apply(ctx context.Context, plan *committer.CommitPlan) error
}

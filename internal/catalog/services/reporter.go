package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
	"github.com/light-bringer/catalog-service/internal/pkg/worker"
)

// ZapReporter forwards internal failures to the error log through the worker
// pool. Reporting never blocks the calling operation; when the pool is full
// the notification is dropped and only the inline operation log remains.
type ZapReporter struct {
	pool   *worker.Pool
	logger *zap.Logger
}

// NewZapReporter creates a new ZapReporter.
func NewZapReporter(pool *worker.Pool, logger *zap.Logger) contracts.ErrorReporter {
	return &ZapReporter{
		pool:   pool,
		logger: logger,
	}
}

// Report submits an asynchronous error notification.
func (r *ZapReporter) Report(_ context.Context, operation string, err error) {
	r.pool.TrySubmit(func(context.Context) {
		r.logger.Error("internal failure reported",
			zap.String("operation", operation),
			zap.Error(err),
		)
	})
}

package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
	"github.com/light-bringer/catalog-service/internal/catalog/domain"
	"github.com/light-bringer/catalog-service/internal/pkg/result"
)

// classify maps a domain error to its failure kind. Unrecognized errors are
// internal: persistence, cache, and job-queue failures all land there.
func classify(err error) result.Kind {
	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrVariantNotFound),
		errors.Is(err, domain.ErrDiscountNotFound),
		errors.Is(err, domain.ErrSubCategoryNotFound):
		return result.KindNotFound

	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrEmptyColor),
		errors.Is(err, domain.ErrInvalidSize),
		errors.Is(err, domain.ErrIncompleteMeasurements),
		errors.Is(err, domain.ErrNegativeQuantity),
		errors.Is(err, domain.ErrInvalidDiscountPercent),
		errors.Is(err, domain.ErrInvalidDiscountPeriod),
		errors.Is(err, domain.ErrDiscountEndsInPast):
		return result.KindValidation

	case errors.Is(err, domain.ErrDuplicateVariant),
		errors.Is(err, domain.ErrDuplicateName):
		return result.KindConflict

	case errors.Is(err, domain.ErrVariantNotSellable),
		errors.Is(err, domain.ErrAlreadyActive),
		errors.Is(err, domain.ErrAlreadyDeleted),
		errors.Is(err, domain.ErrNotDeleted),
		errors.Is(err, domain.ErrEntityDeleted),
		errors.Is(err, domain.ErrDiscountOutsideWindow):
		return result.KindInvalidState

	default:
		return result.KindInternal
	}
}

// fail converts an error into a failed envelope. Internal failures hide the
// underlying error behind a generic message; everything else surfaces the
// domain error text verbatim.
func fail[T any](err error) *result.Result[T] {
	kind := classify(err)
	if kind == result.KindInternal {
		return result.Fail[T](kind, "internal error")
	}
	return result.Fail[T](kind, err.Error())
}

// failInternal logs and reports an internal failure, then builds the envelope.
func failInternal[T any](ctx context.Context, logger *zap.Logger, reporter contracts.ErrorReporter, op string, err error) *result.Result[T] {
	logger.Error("operation failed",
		zap.String("operation", op),
		zap.Error(err),
	)
	reporter.Report(ctx, op, err)
	return result.Fail[T](result.KindInternal, "internal error")
}

// guard recovers a panic at the service boundary, reports it, and rewrites the
// named return into an internal failure. Deferred at the top of every public
// operation.
func guard[T any](ctx context.Context, logger *zap.Logger, reporter contracts.ErrorReporter, op string, res **result.Result[T]) {
	if r := recover(); r != nil {
		err := fmt.Errorf("panic: %v", r)
		logger.Error("operation panicked",
			zap.String("operation", op),
			zap.Any("panic", r),
		)
		reporter.Report(ctx, op, err)
		*res = result.Fail[T](result.KindInternal, "internal error")
	}
}

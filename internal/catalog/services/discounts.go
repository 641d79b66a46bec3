package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
	"github.com/light-bringer/catalog-service/internal/catalog/domain"
	"github.com/light-bringer/catalog-service/internal/models/m_audit"
	"github.com/light-bringer/catalog-service/internal/pkg/clock"
	"github.com/light-bringer/catalog-service/internal/pkg/committer"
	"github.com/light-bringer/catalog-service/internal/pkg/result"
)

// DiscountDTO is the caller-facing projection of a discount.
type DiscountDTO struct {
	DiscountID string    `json:"discountId"`
	Name       string    `json:"name"`
	Percent    int64     `json:"percent"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	IsActive   bool      `json:"isActive"`
}

// PriceQuoteDTO carries a computed selling price.
type PriceQuoteDTO struct {
	ProductID  string  `json:"productId"`
	BasePrice  float64 `json:"basePrice"`
	FinalPrice float64 `json:"finalPrice"`
	Discounted bool    `json:"discounted"`
}

// DiscountLifecycle owns discount operations: creation with its scheduled
// boundary checks, the idempotent reconciliation check, manual toggles, and
// the denormalized price refresh over linked products.
//
// Discounts are created inactive regardless of the window; the first
// reconciliation check realizes whatever state the window implies. Boundary
// checks are durable rows in the same commit plan as the discount itself.
type DiscountLifecycle struct {
	discounts   contracts.DiscountRepository
	products    contracts.ProductRepository
	jobs        contracts.JobRepository
	applier     contracts.PlanApplier
	audit       contracts.AuditRepository
	dispatcher  *Dispatcher
	invalidator *CacheInvalidator
	reporter    contracts.ErrorReporter
	clock       clock.Clock
	logger      *zap.Logger
}

// NewDiscountLifecycle creates a new DiscountLifecycle.
func NewDiscountLifecycle(
	discounts contracts.DiscountRepository,
	products contracts.ProductRepository,
	jobs contracts.JobRepository,
	applier contracts.PlanApplier,
	audit contracts.AuditRepository,
	dispatcher *Dispatcher,
	invalidator *CacheInvalidator,
	reporter contracts.ErrorReporter,
	clk clock.Clock,
	logger *zap.Logger,
) *DiscountLifecycle {
	return &DiscountLifecycle{
		discounts:   discounts,
		products:    products,
		jobs:        jobs,
		applier:     applier,
		audit:       audit,
		dispatcher:  dispatcher,
		invalidator: invalidator,
		reporter:    reporter,
		clock:       clk,
		logger:      logger,
	}
}

// CreateDiscountInput carries the fields for a new discount. Dates must be
// UTC.
type CreateDiscountInput struct {
	Name      string
	Percent   int64
	StartDate time.Time
	EndDate   time.Time
	UserID    string
}

// CreateDiscount creates a discount together with its two boundary
// reconciliation jobs, all in one commit plan: the discount row and the jobs
// that will flip it either all exist or none do.
func (l *DiscountLifecycle) CreateDiscount(ctx context.Context, input CreateDiscountInput) (res *result.Result[*DiscountDTO]) {
	const op = "discount.create"
	defer guard(ctx, l.logger, l.reporter, op, &res)

	now := l.clock.Now()
	discount, err := domain.NewDiscount(
		uuid.New().String(),
		input.Name,
		input.Percent,
		input.StartDate,
		input.EndDate,
		now,
		l.clock,
	)
	if err != nil {
		return fail[*DiscountDTO](err)
	}

	plan := committer.NewPlan()
	plan.Add(l.discounts.InsertMut(discount))
	if err := l.addBoundaryJobs(plan, discount); err != nil {
		return l.failOp(ctx, op, err)
	}
	if err := l.addAudit(plan, input.UserID, discount.ID(), m_audit.OpCreate,
		fmt.Sprintf("discount %s created, %d%% from %s to %s",
			discount.ID(), input.Percent,
			input.StartDate.Format(time.RFC3339), input.EndDate.Format(time.RFC3339))); err != nil {
		return l.failOp(ctx, op, err)
	}

	if err := l.applier.Apply(ctx, plan); err != nil {
		return l.failOp(ctx, op, err)
	}

	return l.finish(ctx, discount)
}

// UpdateDiscountInput carries discount field updates. StartDate and EndDate
// must be set together to replace the window.
type UpdateDiscountInput struct {
	DiscountID string
	Name       *string
	StartDate  *time.Time
	EndDate    *time.Time
	UserID     string
}

// UpdateDiscount renames and/or reschedules a discount. A new window gets a
// fresh pair of boundary jobs in the same plan; stale jobs for the old window
// are harmless because reconciliation re-derives state from current fields.
func (l *DiscountLifecycle) UpdateDiscount(ctx context.Context, input UpdateDiscountInput) (res *result.Result[*DiscountDTO]) {
	const op = "discount.update"
	defer guard(ctx, l.logger, l.reporter, op, &res)

	discount, err := l.discounts.GetByID(ctx, input.DiscountID)
	if err != nil {
		return l.failOp(ctx, op, err)
	}

	if input.Name != nil {
		if err := discount.Rename(*input.Name); err != nil {
			return fail[*DiscountDTO](err)
		}
	}

	rescheduled := false
	if input.StartDate != nil || input.EndDate != nil {
		if input.StartDate == nil || input.EndDate == nil {
			return fail[*DiscountDTO](domain.ErrInvalidDiscountPeriod)
		}
		if err := discount.Reschedule(*input.StartDate, *input.EndDate, l.clock.Now()); err != nil {
			return fail[*DiscountDTO](err)
		}
		rescheduled = true
	}

	plan := committer.NewPlan()
	plan.Add(l.discounts.UpdateMut(discount))
	if rescheduled {
		if err := l.addBoundaryJobs(plan, discount); err != nil {
			return l.failOp(ctx, op, err)
		}
	}
	if err := l.addAudit(plan, input.UserID, discount.ID(), m_audit.OpUpdate,
		fmt.Sprintf("discount %s updated", discount.ID())); err != nil {
		return l.failOp(ctx, op, err)
	}

	if err := l.applier.Apply(ctx, plan); err != nil {
		return l.failOp(ctx, op, err)
	}

	if rescheduled {
		if err := l.UpdateProductPriceAfterDiscount(ctx, discount); err != nil {
			return l.priceRefreshWarning(ctx, op, discount, err)
		}
	}

	return l.finish(ctx, discount)
}

// ActivateDiscount flips a discount to active by an explicit administrative
// call. Allowed only strictly inside the window.
func (l *DiscountLifecycle) ActivateDiscount(ctx context.Context, discountID, userID string) (res *result.Result[*DiscountDTO]) {
	const op = "discount.activate"
	defer guard(ctx, l.logger, l.reporter, op, &res)
	return l.applyTransition(ctx, op, discountID, userID, m_audit.OpActivate,
		fmt.Sprintf("discount %s manually activated", discountID),
		(*domain.Discount).ManualActivate)
}

// DeactivateDiscount pauses an active discount. Allowed only strictly inside
// the window; outside it the scheduled checks own the flag.
func (l *DiscountLifecycle) DeactivateDiscount(ctx context.Context, discountID, userID string) (res *result.Result[*DiscountDTO]) {
	const op = "discount.deactivate"
	defer guard(ctx, l.logger, l.reporter, op, &res)
	return l.applyTransition(ctx, op, discountID, userID, m_audit.OpDeactivate,
		fmt.Sprintf("discount %s manually deactivated", discountID),
		(*domain.Discount).ManualDeactivate)
}

// DeleteDiscount soft-deletes a discount and enqueues an immediate
// reconciliation job in the same plan; the check deactivates the discount and
// restores base prices on linked products.
func (l *DiscountLifecycle) DeleteDiscount(ctx context.Context, discountID, userID string) (res *result.Result[*DiscountDTO]) {
	const op = "discount.delete"
	defer guard(ctx, l.logger, l.reporter, op, &res)

	discount, err := l.discounts.GetByID(ctx, discountID)
	if err != nil {
		return l.failOp(ctx, op, err)
	}

	if err := discount.SoftDelete(l.clock.Now()); err != nil {
		return fail[*DiscountDTO](err)
	}

	return l.commitWithReconcileJob(ctx, op, discount, userID, m_audit.OpDelete,
		fmt.Sprintf("discount %s deleted", discountID))
}

// RestoreDiscount clears a discount's deletion marker. The discount is never
// auto-activated; an immediate reconciliation job re-evaluates it against the
// window instead.
func (l *DiscountLifecycle) RestoreDiscount(ctx context.Context, discountID, userID string) (res *result.Result[*DiscountDTO]) {
	const op = "discount.restore"
	defer guard(ctx, l.logger, l.reporter, op, &res)

	discount, err := l.discounts.GetByID(ctx, discountID)
	if err != nil {
		return l.failOp(ctx, op, err)
	}

	if err := discount.Restore(l.clock.Now()); err != nil {
		return fail[*DiscountDTO](err)
	}

	return l.commitWithReconcileJob(ctx, op, discount, userID, m_audit.OpRestore,
		fmt.Sprintf("discount %s restored", discountID))
}

// CheckOnDiscount reconciles a discount's activation flag against its window.
// The check is idempotent: it re-derives the target state from current fields,
// so running it twice, late, or out of order settles on the same answer. A
// transition refreshes the denormalized final price on every linked product.
func (l *DiscountLifecycle) CheckOnDiscount(ctx context.Context, discountID string) (res *result.Result[string]) {
	const op = "discount.check"
	defer guard(ctx, l.logger, l.reporter, op, &res)

	discount, err := l.discounts.GetByID(ctx, discountID)
	if err != nil {
		if classify(err) == result.KindInternal {
			return failInternal[string](ctx, l.logger, l.reporter, op, err)
		}
		return fail[string](err)
	}

	transition := discount.Reconcile(l.clock.Now())
	if transition == domain.TransitionNone {
		return result.OK(transitionName(transition))
	}

	plan := committer.NewPlan()
	plan.Add(l.discounts.UpdateMut(discount))
	if err := l.applier.Apply(ctx, plan); err != nil {
		return failInternal[string](ctx, l.logger, l.reporter, op, err)
	}

	dispatchErr := l.dispatcher.Dispatch(ctx, discount.DomainEvents())
	discount.ClearEvents()

	if err := l.UpdateProductPriceAfterDiscount(ctx, discount); err != nil {
		l.logger.Error("price refresh after discount transition failed",
			zap.String("discount_id", discountID),
			zap.Error(err),
		)
		l.reporter.Report(ctx, op, err)
		return result.OKWithWarnings(transitionName(transition),
			"price refresh incomplete, converges on next check")
	}

	l.invalidator.OnDiscountMutation()

	if dispatchErr != nil {
		return result.OKWithWarnings(transitionName(transition), aggregateSyncWarning)
	}
	return result.OK(transitionName(transition))
}

// UpdateProductPriceAfterDiscount recomputes the denormalized final price of
// every product linked to the discount. An effective discount applies its
// percentage to the base price; otherwise the final price reverts to base.
// Unchanged rows are skipped.
func (l *DiscountLifecycle) UpdateProductPriceAfterDiscount(ctx context.Context, discount *domain.Discount) error {
	linked, err := l.products.ListByDiscount(ctx, discount.ID())
	if err != nil {
		return err
	}

	now := l.clock.Now()
	effective := discount.EffectiveAt(now)

	plan := committer.NewPlan()
	for _, product := range linked {
		target := product.BasePrice()
		if effective {
			target = discount.ApplyTo(target)
		}

		if product.SetFinalPrice(target, now) {
			mut, err := l.products.UpdateMut(product)
			if err != nil {
				return fmt.Errorf("build price update for product %s: %w", product.ID(), err)
			}
			plan.Add(mut)
		}
	}

	if plan.IsEmpty() {
		return nil
	}

	if err := l.applier.Apply(ctx, plan); err != nil {
		return fmt.Errorf("apply price refresh: %w", err)
	}

	l.logger.Info("refreshed product prices after discount transition",
		zap.String("discount_id", discount.ID()),
		zap.Bool("effective", effective),
		zap.Int("products", plan.Count()),
	)
	return nil
}

// CalculateDiscountedPrice computes the current selling price of a product.
// The computation fails open: when the linked discount cannot be loaded the
// base price is returned with a warning rather than failing the read.
func (l *DiscountLifecycle) CalculateDiscountedPrice(ctx context.Context, productID string) (res *result.Result[*PriceQuoteDTO]) {
	const op = "discount.quote"
	defer guard(ctx, l.logger, l.reporter, op, &res)

	product, err := l.products.GetByID(ctx, productID)
	if err != nil {
		if classify(err) == result.KindInternal {
			return failInternal[*PriceQuoteDTO](ctx, l.logger, l.reporter, op, err)
		}
		return fail[*PriceQuoteDTO](err)
	}

	quote := &PriceQuoteDTO{
		ProductID:  productID,
		BasePrice:  product.BasePrice().Float64(),
		FinalPrice: product.BasePrice().Float64(),
	}

	discountID := product.DiscountID()
	if discountID == nil {
		return result.OK(quote)
	}

	discount, err := l.discounts.GetByID(ctx, *discountID)
	if err != nil {
		l.logger.Warn("linked discount unavailable, quoting base price",
			zap.String("product_id", productID),
			zap.String("discount_id", *discountID),
			zap.Error(err),
		)
		return result.OKWithWarnings(quote, "discount unavailable, base price quoted")
	}

	if discount.EffectiveAt(l.clock.Now()) {
		quote.FinalPrice = discount.ApplyTo(product.BasePrice()).Float64()
		quote.Discounted = true
	}

	return result.OK(quote)
}

// AttachDiscount links a discount to a product and refreshes the product's
// final price in the same commit.
func (l *DiscountLifecycle) AttachDiscount(ctx context.Context, productID, discountID, userID string) (res *result.Result[*contracts.ProductSummaryDTO]) {
	const op = "discount.attach"
	defer guard(ctx, l.logger, l.reporter, op, &res)

	product, err := l.products.GetByID(ctx, productID)
	if err != nil {
		return l.failProductOp(ctx, op, err)
	}

	discount, err := l.discounts.GetByID(ctx, discountID)
	if err != nil {
		return l.failProductOp(ctx, op, err)
	}
	if discount.IsDeleted() {
		return fail[*contracts.ProductSummaryDTO](domain.ErrEntityDeleted)
	}

	if err := product.AttachDiscount(discountID); err != nil {
		return fail[*contracts.ProductSummaryDTO](err)
	}

	now := l.clock.Now()
	target := product.BasePrice()
	if discount.EffectiveAt(now) {
		target = discount.ApplyTo(target)
	}
	product.SetFinalPrice(target, now)

	return l.commitProduct(ctx, op, product, userID, m_audit.OpUpdate,
		fmt.Sprintf("discount %s attached to product %s", discountID, productID))
}

// DetachDiscount removes the discount link and reverts the final price to
// base in the same commit.
func (l *DiscountLifecycle) DetachDiscount(ctx context.Context, productID, userID string) (res *result.Result[*contracts.ProductSummaryDTO]) {
	const op = "discount.detach"
	defer guard(ctx, l.logger, l.reporter, op, &res)

	product, err := l.products.GetByID(ctx, productID)
	if err != nil {
		return l.failProductOp(ctx, op, err)
	}

	if err := product.DetachDiscount(); err != nil {
		return fail[*contracts.ProductSummaryDTO](err)
	}
	product.SetFinalPrice(product.BasePrice(), l.clock.Now())

	return l.commitProduct(ctx, op, product, userID, m_audit.OpUpdate,
		fmt.Sprintf("discount detached from product %s", productID))
}

// applyTransition loads a discount, applies a manual transition, commits, and
// refreshes linked product prices.
func (l *DiscountLifecycle) applyTransition(
	ctx context.Context,
	op, discountID, userID, auditOp, description string,
	transition func(*domain.Discount, time.Time) error,
) *result.Result[*DiscountDTO] {
	discount, err := l.discounts.GetByID(ctx, discountID)
	if err != nil {
		return l.failOp(ctx, op, err)
	}

	if err := transition(discount, l.clock.Now()); err != nil {
		return fail[*DiscountDTO](err)
	}

	plan := committer.NewPlan()
	plan.Add(l.discounts.UpdateMut(discount))
	if err := l.addAudit(plan, userID, discountID, auditOp, description); err != nil {
		return l.failOp(ctx, op, err)
	}

	if err := l.applier.Apply(ctx, plan); err != nil {
		return l.failOp(ctx, op, err)
	}

	if err := l.UpdateProductPriceAfterDiscount(ctx, discount); err != nil {
		return l.priceRefreshWarning(ctx, op, discount, err)
	}

	return l.finish(ctx, discount)
}

// commitWithReconcileJob commits a discount change together with an audit
// entry and an immediate reconciliation job.
func (l *DiscountLifecycle) commitWithReconcileJob(
	ctx context.Context,
	op string,
	discount *domain.Discount,
	userID, auditOp, description string,
) *result.Result[*DiscountDTO] {
	plan := committer.NewPlan()
	plan.Add(l.discounts.UpdateMut(discount))

	jobMut, err := l.jobs.EnqueueMut(contracts.JobKindDiscountReconcile,
		map[string]string{"discount_id": discount.ID()}, l.clock.Now())
	if err != nil {
		return l.failOp(ctx, op, err)
	}
	plan.Add(jobMut)

	if err := l.addAudit(plan, userID, discount.ID(), auditOp, description); err != nil {
		return l.failOp(ctx, op, err)
	}

	if err := l.applier.Apply(ctx, plan); err != nil {
		return l.failOp(ctx, op, err)
	}

	return l.finish(ctx, discount)
}

// commitProduct commits a product-side discount link change.
func (l *DiscountLifecycle) commitProduct(
	ctx context.Context,
	op string,
	product *domain.Product,
	userID, auditOp, description string,
) *result.Result[*contracts.ProductSummaryDTO] {
	plan := committer.NewPlan()
	mut, err := l.products.UpdateMut(product)
	if err != nil {
		return l.failProductOp(ctx, op, err)
	}
	plan.Add(mut)
	if err := l.addAudit(plan, userID, product.ID(), auditOp, description); err != nil {
		return l.failProductOp(ctx, op, err)
	}

	if err := l.applier.Apply(ctx, plan); err != nil {
		return l.failProductOp(ctx, op, err)
	}

	dispatchErr := l.dispatcher.Dispatch(ctx, product.DomainEvents())
	product.ClearEvents()
	l.invalidator.OnDiscountMutation()

	dto := productToSummary(product)
	if dispatchErr != nil {
		return result.OKWithWarnings(dto, aggregateSyncWarning)
	}
	return result.OK(dto)
}

// addBoundaryJobs schedules the window-start and window-end reconciliation
// checks. The end check runs one second past the inclusive end so the check
// observes the window as closed.
func (l *DiscountLifecycle) addBoundaryJobs(plan *committer.CommitPlan, discount *domain.Discount) error {
	payload := map[string]string{"discount_id": discount.ID()}

	startMut, err := l.jobs.ScheduleMut(contracts.JobKindDiscountReconcile, payload, discount.StartDate())
	if err != nil {
		return fmt.Errorf("schedule window-start check: %w", err)
	}
	plan.Add(startMut)

	endMut, err := l.jobs.ScheduleMut(contracts.JobKindDiscountReconcile, payload, discount.EndDate().Add(time.Second))
	if err != nil {
		return fmt.Errorf("schedule window-end check: %w", err)
	}
	plan.Add(endMut)
	return nil
}

func (l *DiscountLifecycle) addAudit(plan *committer.CommitPlan, userID, itemID, opType, description string) error {
	mut, err := l.audit.InsertMut(&contracts.AuditEntry{
		Description:   description,
		OperationType: opType,
		UserID:        userID,
		ItemID:        itemID,
	})
	if err != nil {
		return fmt.Errorf("build audit entry: %w", err)
	}
	plan.Add(mut)
	return nil
}

func (l *DiscountLifecycle) finish(ctx context.Context, discount *domain.Discount) *result.Result[*DiscountDTO] {
	dispatchErr := l.dispatcher.Dispatch(ctx, discount.DomainEvents())
	discount.ClearEvents()
	l.invalidator.OnDiscountMutation()

	dto := discountToDTO(discount)
	if dispatchErr != nil {
		return result.OKWithWarnings(dto, aggregateSyncWarning)
	}
	return result.OK(dto)
}

func (l *DiscountLifecycle) priceRefreshWarning(ctx context.Context, op string, discount *domain.Discount, err error) *result.Result[*DiscountDTO] {
	l.logger.Error("price refresh failed",
		zap.String("discount_id", discount.ID()),
		zap.Error(err),
	)
	l.reporter.Report(ctx, op, err)
	l.invalidator.OnDiscountMutation()
	return result.OKWithWarnings(discountToDTO(discount),
		"price refresh incomplete, converges on next check")
}

func (l *DiscountLifecycle) failOp(ctx context.Context, op string, err error) *result.Result[*DiscountDTO] {
	if classify(err) == result.KindInternal {
		return failInternal[*DiscountDTO](ctx, l.logger, l.reporter, op, err)
	}
	return fail[*DiscountDTO](err)
}

func (l *DiscountLifecycle) failProductOp(ctx context.Context, op string, err error) *result.Result[*contracts.ProductSummaryDTO] {
	if classify(err) == result.KindInternal {
		return failInternal[*contracts.ProductSummaryDTO](ctx, l.logger, l.reporter, op, err)
	}
	return fail[*contracts.ProductSummaryDTO](err)
}

func discountToDTO(d *domain.Discount) *DiscountDTO {
	return &DiscountDTO{
		DiscountID: d.ID(),
		Name:       d.Name(),
		Percent:    d.Percent(),
		StartDate:  d.StartDate(),
		EndDate:    d.EndDate(),
		IsActive:   d.IsActive(),
	}
}

func transitionName(t domain.Transition) string {
	switch t {
	case domain.TransitionActivated:
		return "activated"
	case domain.TransitionDeactivated:
		return "deactivated"
	default:
		return "none"
	}
}

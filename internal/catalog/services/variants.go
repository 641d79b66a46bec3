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

// aggregateSyncWarning is attached when the business mutation committed but a
// post-commit event handler failed. The next recomputation over the same rows
// repairs whatever the handler left stale.
const aggregateSyncWarning = "derived state sync incomplete, converges on next recomputation"

// VariantManager owns variant lifecycle operations. Every mutation commits the
// variant row, the audit entry, and nothing else in one plan; derived product
// state is refreshed through the event dispatcher after the commit.
type VariantManager struct {
	variants    contracts.VariantRepository
	products    contracts.ProductRepository
	applier     contracts.PlanApplier
	audit       contracts.AuditRepository
	dispatcher  *Dispatcher
	invalidator *CacheInvalidator
	reporter    contracts.ErrorReporter
	clock       clock.Clock
	logger      *zap.Logger
}

// NewVariantManager creates a new VariantManager.
func NewVariantManager(
	variants contracts.VariantRepository,
	products contracts.ProductRepository,
	applier contracts.PlanApplier,
	audit contracts.AuditRepository,
	dispatcher *Dispatcher,
	invalidator *CacheInvalidator,
	reporter contracts.ErrorReporter,
	clk clock.Clock,
	logger *zap.Logger,
) *VariantManager {
	return &VariantManager{
		variants:    variants,
		products:    products,
		applier:     applier,
		audit:       audit,
		dispatcher:  dispatcher,
		invalidator: invalidator,
		reporter:    reporter,
		clock:       clk,
		logger:      logger,
	}
}

// AddVariantInput carries the fields for a new variant.
type AddVariantInput struct {
	ProductID string
	Color     string
	Size      *string
	Waist     *int64
	Length    *int64
	Quantity  int64
	UserID    string
}

// AddVariant creates a variant under a product. The (color, size) slot must be
// free among the product's undeleted variants; the new variant starts inactive.
func (m *VariantManager) AddVariant(ctx context.Context, input AddVariantInput) (res *result.Result[*contracts.VariantDTO]) {
	const op = "variant.add"
	defer guard(ctx, m.logger, m.reporter, op, &res)

	product, err := m.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return m.failOp(ctx, op, err)
	}
	if product.IsDeleted() {
		return fail[*contracts.VariantDTO](domain.ErrEntityDeleted)
	}

	var size *domain.Size
	if input.Size != nil {
		s := domain.Size(*input.Size)
		size = &s
	}

	siblings, err := m.variants.ListByProduct(ctx, input.ProductID)
	if err != nil {
		return m.failOp(ctx, op, err)
	}
	for _, sibling := range siblings {
		if sibling.MatchesKey(input.Color, size) {
			return fail[*contracts.VariantDTO](domain.ErrDuplicateVariant)
		}
	}

	now := m.clock.Now()
	variant, err := domain.NewVariant(
		uuid.New().String(),
		input.ProductID,
		input.Color,
		size,
		input.Waist,
		input.Length,
		input.Quantity,
		now,
		m.clock,
	)
	if err != nil {
		return fail[*contracts.VariantDTO](err)
	}

	plan := committer.NewPlan()
	plan.Add(m.variants.InsertMut(variant))
	if err := m.addAudit(plan, input.UserID, variant.ID(), m_audit.OpCreate,
		fmt.Sprintf("variant %s created for product %s", variant.ID(), input.ProductID)); err != nil {
		return m.failOp(ctx, op, err)
	}

	if err := m.applier.Apply(ctx, plan); err != nil {
		return m.failOp(ctx, op, err)
	}

	return m.finish(ctx, variant)
}

// ActivateVariant flips a variant to active. The variant must pass the
// activation guard: stock on hand and either a size or a complete
// waist/length pair.
func (m *VariantManager) ActivateVariant(ctx context.Context, variantID, userID string) (res *result.Result[*contracts.VariantDTO]) {
	const op = "variant.activate"
	defer guard(ctx, m.logger, m.reporter, op, &res)

	return m.applyTransition(ctx, op, variantID, userID, m_audit.OpActivate,
		fmt.Sprintf("variant %s activated", variantID),
		(*domain.Variant).Activate)
}

// DeactivateVariant flips a variant to inactive. Unconditional for any
// existing, undeleted variant; the product aggregate is demoted afterwards if
// this was its last active variant.
func (m *VariantManager) DeactivateVariant(ctx context.Context, variantID, userID string) (res *result.Result[*contracts.VariantDTO]) {
	const op = "variant.deactivate"
	defer guard(ctx, m.logger, m.reporter, op, &res)
	return m.applyTransition(ctx, op, variantID, userID, m_audit.OpDeactivate,
		fmt.Sprintf("variant %s deactivated", variantID),
		(*domain.Variant).Deactivate)
}

// AdjustQuantity applies a signed stock delta to a variant. Landing exactly on
// zero deactivates the variant as part of the same commit.
func (m *VariantManager) AdjustQuantity(ctx context.Context, variantID string, delta int64, userID string) (res *result.Result[*contracts.VariantDTO]) {
	const op = "variant.adjust_quantity"
	defer guard(ctx, m.logger, m.reporter, op, &res)
	return m.applyTransition(ctx, op, variantID, userID, m_audit.OpUpdate,
		fmt.Sprintf("variant %s quantity adjusted by %d", variantID, delta),
		func(v *domain.Variant, now time.Time) error { return v.AdjustQuantity(delta, now) })
}

// DeleteVariant soft-deletes a variant, deactivating it first when active.
func (m *VariantManager) DeleteVariant(ctx context.Context, variantID, userID string) (res *result.Result[*contracts.VariantDTO]) {
	const op = "variant.delete"
	defer guard(ctx, m.logger, m.reporter, op, &res)
	return m.applyTransition(ctx, op, variantID, userID, m_audit.OpDelete,
		fmt.Sprintf("variant %s deleted", variantID),
		(*domain.Variant).SoftDelete)
}

// RestoreVariant clears a variant's deletion marker. The variant lands
// inactive and must pass the activation guard again.
func (m *VariantManager) RestoreVariant(ctx context.Context, variantID, userID string) (res *result.Result[*contracts.VariantDTO]) {
	const op = "variant.restore"
	defer guard(ctx, m.logger, m.reporter, op, &res)
	return m.applyTransition(ctx, op, variantID, userID, m_audit.OpRestore,
		fmt.Sprintf("variant %s restored", variantID),
		(*domain.Variant).Restore)
}

// applyTransition loads a variant, applies a domain transition, and commits
// the row together with its audit entry.
func (m *VariantManager) applyTransition(
	ctx context.Context,
	op, variantID, userID, auditOp, description string,
	transition func(*domain.Variant, time.Time) error,
) *result.Result[*contracts.VariantDTO] {
	variant, err := m.variants.GetByID(ctx, variantID)
	if err != nil {
		return m.failOp(ctx, op, err)
	}

	if err := transition(variant, m.clock.Now()); err != nil {
		return fail[*contracts.VariantDTO](err)
	}

	plan := committer.NewPlan()
	plan.Add(m.variants.UpdateMut(variant))
	if err := m.addAudit(plan, userID, variantID, auditOp, description); err != nil {
		return m.failOp(ctx, op, err)
	}

	if err := m.applier.Apply(ctx, plan); err != nil {
		return m.failOp(ctx, op, err)
	}

	return m.finish(ctx, variant)
}

func (m *VariantManager) addAudit(plan *committer.CommitPlan, userID, itemID, opType, description string) error {
	mut, err := m.audit.InsertMut(&contracts.AuditEntry{
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

// finish dispatches the committed variant's events and purges derived reads.
func (m *VariantManager) finish(ctx context.Context, variant *domain.Variant) *result.Result[*contracts.VariantDTO] {
	dispatchErr := m.dispatcher.Dispatch(ctx, variant.DomainEvents())
	variant.ClearEvents()
	m.invalidator.OnVariantMutation()

	dto := variantToDTO(variant)
	if dispatchErr != nil {
		return result.OKWithWarnings(dto, aggregateSyncWarning)
	}
	return result.OK(dto)
}

func (m *VariantManager) failOp(ctx context.Context, op string, err error) *result.Result[*contracts.VariantDTO] {
	if classify(err) == result.KindInternal {
		return failInternal[*contracts.VariantDTO](ctx, m.logger, m.reporter, op, err)
	}
	return fail[*contracts.VariantDTO](err)
}

func variantToDTO(v *domain.Variant) *contracts.VariantDTO {
	dto := &contracts.VariantDTO{
		VariantID: v.ID(),
		Color:     v.Color(),
		Waist:     v.Waist(),
		Length:    v.Length(),
		Quantity:  v.Quantity(),
		IsActive:  v.IsActive(),
	}
	if size := v.Size(); size != nil {
		s := string(*size)
		dto.Size = &s
	}
	return dto
}

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

// ProductManager owns product lifecycle operations. Derived quantity and
// final price are never set here; they belong to the aggregator and the
// discount lifecycle respectively.
type ProductManager struct {
	products      contracts.ProductRepository
	subCategories contracts.SubCategoryRepository
	applier       contracts.PlanApplier
	audit         contracts.AuditRepository
	dispatcher    *Dispatcher
	invalidator   *CacheInvalidator
	reporter      contracts.ErrorReporter
	clock         clock.Clock
	logger        *zap.Logger
}

// NewProductManager creates a new ProductManager.
func NewProductManager(
	products contracts.ProductRepository,
	subCategories contracts.SubCategoryRepository,
	applier contracts.PlanApplier,
	audit contracts.AuditRepository,
	dispatcher *Dispatcher,
	invalidator *CacheInvalidator,
	reporter contracts.ErrorReporter,
	clk clock.Clock,
	logger *zap.Logger,
) *ProductManager {
	return &ProductManager{
		products:      products,
		subCategories: subCategories,
		applier:       applier,
		audit:         audit,
		dispatcher:    dispatcher,
		invalidator:   invalidator,
		reporter:      reporter,
		clock:         clk,
		logger:        logger,
	}
}

// CreateProductInput carries the fields for a new product. The base price is
// given in cents to keep the wire format free of binary-float noise.
type CreateProductInput struct {
	Name           string
	SubCategoryID  string
	BasePriceCents int64
	UserID         string
}

// CreateProduct creates a product under a subcategory. Products start
// inactive with zero derived quantity and a final price equal to the base.
func (m *ProductManager) CreateProduct(ctx context.Context, input CreateProductInput) (res *result.Result[*contracts.ProductSummaryDTO]) {
	const op = "product.create"
	defer guard(ctx, m.logger, m.reporter, op, &res)

	subCategory, err := m.subCategories.GetByID(ctx, input.SubCategoryID)
	if err != nil {
		return m.failOp(ctx, op, err)
	}
	if subCategory.IsDeleted() {
		return fail[*contracts.ProductSummaryDTO](domain.ErrEntityDeleted)
	}

	basePrice, err := domain.NewMoney(input.BasePriceCents, 100)
	if err != nil {
		return fail[*contracts.ProductSummaryDTO](domain.ErrInvalidPrice)
	}

	product, err := domain.NewProduct(
		uuid.New().String(),
		input.Name,
		input.SubCategoryID,
		basePrice,
		m.clock.Now(),
		m.clock,
	)
	if err != nil {
		return fail[*contracts.ProductSummaryDTO](err)
	}

	plan := committer.NewPlan()
	insertMut, err := m.products.InsertMut(product)
	if err != nil {
		return m.failOp(ctx, op, err)
	}
	plan.Add(insertMut)
	if err := m.addAudit(plan, input.UserID, product.ID(), m_audit.OpCreate,
		fmt.Sprintf("product %s created under subcategory %s", product.ID(), input.SubCategoryID)); err != nil {
		return m.failOp(ctx, op, err)
	}

	if err := m.applier.Apply(ctx, plan); err != nil {
		return m.failOp(ctx, op, err)
	}

	return m.finish(ctx, product)
}

// ActivateProduct promotes a product. Promotion is manual only; no cascade
// ever re-activates a demoted product.
func (m *ProductManager) ActivateProduct(ctx context.Context, productID, userID string) (res *result.Result[*contracts.ProductSummaryDTO]) {
	const op = "product.activate"
	defer guard(ctx, m.logger, m.reporter, op, &res)
	return m.applyTransition(ctx, op, productID, userID, m_audit.OpActivate,
		fmt.Sprintf("product %s activated", productID),
		(*domain.Product).Activate)
}

// DeactivateProduct demotes a product and runs the subcategory check.
func (m *ProductManager) DeactivateProduct(ctx context.Context, productID, userID string) (res *result.Result[*contracts.ProductSummaryDTO]) {
	const op = "product.deactivate"
	defer guard(ctx, m.logger, m.reporter, op, &res)
	return m.applyTransition(ctx, op, productID, userID, m_audit.OpDeactivate,
		fmt.Sprintf("product %s deactivated", productID),
		(*domain.Product).Deactivate)
}

// RenameProduct updates the product name.
func (m *ProductManager) RenameProduct(ctx context.Context, productID, name, userID string) (res *result.Result[*contracts.ProductSummaryDTO]) {
	const op = "product.rename"
	defer guard(ctx, m.logger, m.reporter, op, &res)
	return m.applyTransition(ctx, op, productID, userID, m_audit.OpUpdate,
		fmt.Sprintf("product %s renamed to %q", productID, name),
		func(p *domain.Product, _ time.Time) error { return p.Rename(name) })
}

// DeleteProduct soft-deletes a product, demoting it first when active. The
// demotion event carries the subcategory check along.
func (m *ProductManager) DeleteProduct(ctx context.Context, productID, userID string) (res *result.Result[*contracts.ProductSummaryDTO]) {
	const op = "product.delete"
	defer guard(ctx, m.logger, m.reporter, op, &res)
	return m.applyTransition(ctx, op, productID, userID, m_audit.OpDelete,
		fmt.Sprintf("product %s deleted", productID),
		(*domain.Product).SoftDelete)
}

// RestoreProduct clears a product's deletion marker. The product lands
// inactive; promotion requires an explicit ActivateProduct call.
func (m *ProductManager) RestoreProduct(ctx context.Context, productID, userID string) (res *result.Result[*contracts.ProductSummaryDTO]) {
	const op = "product.restore"
	defer guard(ctx, m.logger, m.reporter, op, &res)
	return m.applyTransition(ctx, op, productID, userID, m_audit.OpRestore,
		fmt.Sprintf("product %s restored", productID),
		(*domain.Product).Restore)
}

func (m *ProductManager) applyTransition(
	ctx context.Context,
	op, productID, userID, auditOp, description string,
	transition func(*domain.Product, time.Time) error,
) *result.Result[*contracts.ProductSummaryDTO] {
	product, err := m.products.GetByID(ctx, productID)
	if err != nil {
		return m.failOp(ctx, op, err)
	}

	if err := transition(product, m.clock.Now()); err != nil {
		return fail[*contracts.ProductSummaryDTO](err)
	}

	plan := committer.NewPlan()
	updateMut, err := m.products.UpdateMut(product)
	if err != nil {
		return m.failOp(ctx, op, err)
	}
	plan.Add(updateMut)
	if err := m.addAudit(plan, userID, productID, auditOp, description); err != nil {
		return m.failOp(ctx, op, err)
	}

	if err := m.applier.Apply(ctx, plan); err != nil {
		return m.failOp(ctx, op, err)
	}

	return m.finish(ctx, product)
}

func (m *ProductManager) addAudit(plan *committer.CommitPlan, userID, itemID, opType, description string) error {
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

func (m *ProductManager) finish(ctx context.Context, product *domain.Product) *result.Result[*contracts.ProductSummaryDTO] {
	dispatchErr := m.dispatcher.Dispatch(ctx, product.DomainEvents())
	product.ClearEvents()
	m.invalidator.OnProductMutation()

	dto := productToSummary(product)
	if dispatchErr != nil {
		return result.OKWithWarnings(dto, aggregateSyncWarning)
	}
	return result.OK(dto)
}

func (m *ProductManager) failOp(ctx context.Context, op string, err error) *result.Result[*contracts.ProductSummaryDTO] {
	if classify(err) == result.KindInternal {
		return failInternal[*contracts.ProductSummaryDTO](ctx, m.logger, m.reporter, op, err)
	}
	return fail[*contracts.ProductSummaryDTO](err)
}

func productToSummary(p *domain.Product) *contracts.ProductSummaryDTO {
	return &contracts.ProductSummaryDTO{
		ProductID:  p.ID(),
		Name:       p.Name(),
		Price:      p.BasePrice().Float64(),
		FinalPrice: p.FinalPrice().Float64(),
		Quantity:   p.Quantity(),
		IsActive:   p.IsActive(),
	}
}

package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
	"github.com/light-bringer/catalog-service/internal/catalog/domain"
	"github.com/light-bringer/catalog-service/internal/pkg/clock"
	"github.com/light-bringer/catalog-service/internal/pkg/committer"
)

// ProductAggregator keeps denormalized product state consistent with variant
// rows and runs the demotion cascade. It recomputes from fresh reads instead
// of applying deltas, so a recomputation that raced a concurrent write is
// corrected by the next one over the same rows.
//
// The cascade only ever demotes. A product that regains a sellable variant
// stays inactive until someone promotes it explicitly, and the same holds one
// level up for subcategories.
type ProductAggregator struct {
	products      contracts.ProductRepository
	variants      contracts.VariantRepository
	subCategories contracts.SubCategoryRepository
	applier       contracts.PlanApplier
	clock         clock.Clock
	logger        *zap.Logger
}

// NewProductAggregator creates a new ProductAggregator.
func NewProductAggregator(
	products contracts.ProductRepository,
	variants contracts.VariantRepository,
	subCategories contracts.SubCategoryRepository,
	applier contracts.PlanApplier,
	clk clock.Clock,
	logger *zap.Logger,
) *ProductAggregator {
	return &ProductAggregator{
		products:      products,
		variants:      variants,
		subCategories: subCategories,
		applier:       applier,
		clock:         clk,
		logger:        logger,
	}
}

// Register subscribes the aggregator to the variant and product events that
// move denormalized state.
func (a *ProductAggregator) Register(dispatcher *Dispatcher) {
	variantEvents := []string{
		"variant.created",
		"variant.activated",
		"variant.deactivated",
		"variant.quantity_adjusted",
		"variant.deleted",
		"variant.restored",
	}
	for _, eventType := range variantEvents {
		dispatcher.Subscribe(eventType, a.onVariantEvent)
	}
	dispatcher.Subscribe("product.deactivated", a.onProductDeactivated)
}

func (a *ProductAggregator) onVariantEvent(ctx context.Context, event domain.DomainEvent) error {
	var productID string
	switch e := event.(type) {
	case *domain.VariantCreatedEvent:
		productID = e.ProductID
	case *domain.VariantActivatedEvent:
		productID = e.ProductID
	case *domain.VariantDeactivatedEvent:
		productID = e.ProductID
	case *domain.VariantQuantityAdjustedEvent:
		productID = e.ProductID
	case *domain.VariantDeletedEvent:
		productID = e.ProductID
	case *domain.VariantRestoredEvent:
		productID = e.ProductID
	default:
		return nil
	}
	return a.RecomputeQuantity(ctx, productID)
}

func (a *ProductAggregator) onProductDeactivated(ctx context.Context, event domain.DomainEvent) error {
	e, ok := event.(*domain.ProductDeactivatedEvent)
	if !ok {
		return nil
	}
	return a.CascadeToSubCategory(ctx, e.SubCategoryID)
}

// RecomputeQuantity re-derives a product's aggregate quantity as the sum over
// its active, undeleted variants, read fresh. A product left without any
// active variant is demoted in the same commit, and the demotion is carried
// one level up to the subcategory check.
func (a *ProductAggregator) RecomputeQuantity(ctx context.Context, productID string) error {
	product, err := a.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.IsDeleted() {
		return nil
	}

	variants, err := a.variants.ListByProduct(ctx, productID)
	if err != nil {
		return err
	}

	var total int64
	hasActive := false
	for _, v := range variants {
		if v.IsActive() {
			total += v.Quantity()
			hasActive = true
		}
	}

	now := a.clock.Now()
	changed := product.SetQuantity(total)

	demoted := false
	if !hasActive && product.IsActive() {
		if err := product.Deactivate(now); err != nil {
			return err
		}
		demoted = true
	}

	if changed || demoted {
		mut, err := a.products.UpdateMut(product)
		if err != nil {
			return fmt.Errorf("build product update: %w", err)
		}

		plan := committer.NewPlan()
		plan.Add(mut)
		if err := a.applier.Apply(ctx, plan); err != nil {
			return fmt.Errorf("apply recompute: %w", err)
		}

		a.logger.Debug("product aggregate recomputed",
			zap.String("product_id", productID),
			zap.Int64("quantity", total),
			zap.Bool("demoted", demoted),
		)
	}

	if demoted {
		return a.CascadeToSubCategory(ctx, product.SubCategoryID())
	}
	return nil
}

// CascadeToSubCategory demotes a subcategory when none of its products remain
// active. Calling it for a subcategory that still has active products, or one
// already inactive, is a no-op.
func (a *ProductAggregator) CascadeToSubCategory(ctx context.Context, subCategoryID string) error {
	count, err := a.products.CountActiveBySubCategory(ctx, subCategoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	subCategory, err := a.subCategories.GetByID(ctx, subCategoryID)
	if err != nil {
		return err
	}
	if subCategory.IsDeleted() || !subCategory.IsActive() {
		return nil
	}

	if err := subCategory.Deactivate(a.clock.Now()); err != nil {
		return err
	}

	plan := committer.NewPlan()
	plan.Add(a.subCategories.UpdateMut(subCategory))
	if err := a.applier.Apply(ctx, plan); err != nil {
		return fmt.Errorf("apply subcategory demotion: %w", err)
	}

	a.logger.Info("subcategory demoted, no active products remain",
		zap.String("subcategory_id", subCategoryID),
	)
	return nil
}

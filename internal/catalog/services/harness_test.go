package services

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/catalog-service/internal/catalog/domain"
	"github.com/light-bringer/catalog-service/internal/pkg/clock"
	"github.com/light-bringer/catalog-service/internal/pkg/worker"
)

// harness wires the service layer against in-memory fakes. The worker pool is
// shut down up front so cache purges take the inline fallback path and
// assertions stay deterministic.
type harness struct {
	products      *fakeProducts
	variants      *fakeVariants
	discounts     *fakeDiscounts
	subCategories *fakeSubCategories
	audit         *fakeAudit
	jobs          *fakeJobs
	cache         *fakeCache
	applier       *fakeApplier
	reporter      *fakeReporter
	clk           *clock.MockClock

	dispatcher  *Dispatcher
	invalidator *CacheInvalidator
	aggregator  *ProductAggregator
}

func newHarness(now time.Time) *harness {
	logger := zap.NewNop()
	pool := worker.NewPool(1, 1, logger)
	pool.Shutdown()

	h := &harness{
		products:      newFakeProducts(),
		variants:      newFakeVariants(),
		discounts:     newFakeDiscounts(),
		subCategories: newFakeSubCategories(),
		audit:         &fakeAudit{},
		jobs:          &fakeJobs{},
		cache:         newFakeCache(),
		applier:       &fakeApplier{},
		reporter:      &fakeReporter{},
		clk:           clock.NewMockClock(now),
	}
	h.dispatcher = NewDispatcher(logger)
	h.invalidator = NewCacheInvalidator(h.cache, pool, logger)
	h.aggregator = NewProductAggregator(h.products, h.variants, h.subCategories, h.applier, h.clk, logger)
	h.aggregator.Register(h.dispatcher)
	return h
}

func (h *harness) variantManager() *VariantManager {
	return NewVariantManager(h.variants, h.products, h.applier, h.audit,
		h.dispatcher, h.invalidator, h.reporter, h.clk, zap.NewNop())
}

func (h *harness) productManager() *ProductManager {
	return NewProductManager(h.products, h.subCategories, h.applier, h.audit,
		h.dispatcher, h.invalidator, h.reporter, h.clk, zap.NewNop())
}

func (h *harness) discountLifecycle() *DiscountLifecycle {
	return NewDiscountLifecycle(h.discounts, h.products, h.jobs, h.applier,
		h.audit, h.dispatcher, h.invalidator, h.reporter, h.clk, zap.NewNop())
}

func (h *harness) subCategoryManager() *SubCategoryManager {
	return NewSubCategoryManager(h.subCategories, h.applier, h.audit,
		h.invalidator, h.reporter, h.clk, zap.NewNop())
}

func (h *harness) seedSubCategory(id string, active bool) *domain.SubCategory {
	now := h.clk.Now()
	s := domain.ReconstructSubCategory(id, "Jackets", active, now, now, nil, h.clk)
	h.subCategories.items[id] = s
	return s
}

func (h *harness) seedProduct(id, subCategoryID string, active bool, quantity int64) *domain.Product {
	now := h.clk.Now()
	price := mustMoney(100, 1)
	p := domain.ReconstructProduct(id, "Denim Jacket", subCategoryID,
		price, price, quantity, active, nil, now, now, nil, h.clk)
	h.products.items[id] = p
	return p
}

func (h *harness) seedVariant(id, productID, color string, quantity int64, active bool) *domain.Variant {
	now := h.clk.Now()
	size := domain.SizeM
	v := domain.ReconstructVariant(id, productID, color, &size, nil, nil,
		quantity, active, now, now, nil, h.clk)
	h.variants.items[id] = v
	return v
}

func (h *harness) seedDiscount(id string, percent int64, start, end time.Time, active bool) *domain.Discount {
	now := h.clk.Now()
	d := domain.ReconstructDiscount(id, "Sale", percent, start, end, active,
		nil, now, now, nil, h.clk)
	h.discounts.items[id] = d
	return d
}

func mustMoney(num, denom int64) *domain.Money {
	m, err := domain.NewMoney(num, denom)
	if err != nil {
		panic(err)
	}
	return m
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func testNow(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
}

// Package services wires the application together: Spanner client, cache,
// worker pool, repositories, domain services, and the job poller.
package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
	"github.com/light-bringer/catalog-service/internal/catalog/repo"
	"github.com/light-bringer/catalog-service/internal/catalog/scheduler"
	catalogsvc "github.com/light-bringer/catalog-service/internal/catalog/services"
	"github.com/light-bringer/catalog-service/internal/config"
	"github.com/light-bringer/catalog-service/internal/pkg/cache"
	"github.com/light-bringer/catalog-service/internal/pkg/clock"
	"github.com/light-bringer/catalog-service/internal/pkg/committer"
	"github.com/light-bringer/catalog-service/internal/pkg/worker"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	Cache         *cache.Cache
	Pool          *worker.Pool
	Poller        *scheduler.Poller

	Variants      *catalogsvc.VariantManager
	Products      *catalogsvc.ProductManager
	SubCategories *catalogsvc.SubCategoryManager
	Discounts     *catalogsvc.DiscountLifecycle
	Aggregator    *catalogsvc.ProductAggregator
	Reader        *catalogsvc.CatalogReader
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ServiceOptions, error) {
	// 1. Infrastructure
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	clk := clock.NewRealClock()
	comm := committer.NewCommitter(spannerClient)
	tagCache := cache.New(cfg.CacheTTL)
	pool := worker.NewPool(cfg.Workers, cfg.QueueSize, logger)

	// 2. Repositories
	productRepo := repo.NewProductRepo(spannerClient, clk)
	variantRepo := repo.NewVariantRepo(spannerClient, clk)
	discountRepo := repo.NewDiscountRepo(spannerClient, clk)
	subCategoryRepo := repo.NewSubCategoryRepo(spannerClient, clk)
	auditRepo := repo.NewAuditRepo()
	jobRepo := repo.NewJobRepo(spannerClient)
	readModel := repo.NewReadModel(spannerClient)

	// 3. Cross-cutting collaborators
	reporter := catalogsvc.NewZapReporter(pool, logger)
	invalidator := catalogsvc.NewCacheInvalidator(tagCache, pool, logger)
	dispatcher := catalogsvc.NewDispatcher(logger)

	// 4. Domain services
	aggregator := catalogsvc.NewProductAggregator(
		productRepo, variantRepo, subCategoryRepo, comm, clk, logger)
	aggregator.Register(dispatcher)

	variants := catalogsvc.NewVariantManager(
		variantRepo, productRepo, comm, auditRepo, dispatcher, invalidator, reporter, clk, logger)
	products := catalogsvc.NewProductManager(
		productRepo, subCategoryRepo, comm, auditRepo, dispatcher, invalidator, reporter, clk, logger)
	subCategories := catalogsvc.NewSubCategoryManager(
		subCategoryRepo, comm, auditRepo, invalidator, reporter, clk, logger)
	discounts := catalogsvc.NewDiscountLifecycle(
		discountRepo, productRepo, jobRepo, comm, auditRepo, dispatcher, invalidator, reporter, clk, logger)
	reader := catalogsvc.NewCatalogReader(
		readModel, tagCache, pool, reporter, cfg.CacheTTL, logger)

	// 5. Scheduler
	poller := scheduler.NewPoller(jobRepo, comm, pool, clk, cfg.PollInterval, logger)
	poller.Register(contracts.JobKindDiscountReconcile, func(ctx context.Context, payload map[string]string) error {
		discountID := payload["discount_id"]
		if discountID == "" {
			return fmt.Errorf("reconcile job missing discount_id")
		}
		res := discounts.CheckOnDiscount(ctx, discountID)
		if res.Failed() {
			return fmt.Errorf("reconcile discount %s: %s", discountID, res.Message)
		}
		return nil
	})

	return &ServiceOptions{
		SpannerClient: spannerClient,
		Cache:         tagCache,
		Pool:          pool,
		Poller:        poller,
		Variants:      variants,
		Products:      products,
		SubCategories: subCategories,
		Discounts:     discounts,
		Aggregator:    aggregator,
		Reader:        reader,
	}, nil
}

// Close releases all resources. The pool drains before the Spanner client
// closes so in-flight purges and job work finish against a live client.
func (s *ServiceOptions) Close() {
	if s.Pool != nil {
		s.Pool.Shutdown()
	}
	if s.Cache != nil {
		s.Cache.Close()
	}
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}

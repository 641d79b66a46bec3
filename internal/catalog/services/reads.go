package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
	"github.com/light-bringer/catalog-service/internal/pkg/result"
	"github.com/light-bringer/catalog-service/internal/pkg/worker"
)

// CatalogReader serves derived catalog reads through the cache. Keys are
// composite (entity id plus filter flags); entries carry the fixed tags the
// invalidator purges on mutation. Cache population is fire-and-forget on the
// worker pool so a read never blocks on a cache write.
type CatalogReader struct {
	readModel contracts.ReadModel
	cache     contracts.CacheService
	pool      *worker.Pool
	reporter  contracts.ErrorReporter
	ttl       time.Duration
	logger    *zap.Logger
}

// NewCatalogReader creates a new CatalogReader. A zero ttl uses the cache
// default.
func NewCatalogReader(
	readModel contracts.ReadModel,
	cache contracts.CacheService,
	pool *worker.Pool,
	reporter contracts.ErrorReporter,
	ttl time.Duration,
	logger *zap.Logger,
) *CatalogReader {
	return &CatalogReader{
		readModel: readModel,
		cache:     cache,
		pool:      pool,
		reporter:  reporter,
		ttl:       ttl,
		logger:    logger,
	}
}

// GetProductDetail returns a product with its undeleted variants, served from
// cache when fresh.
func (r *CatalogReader) GetProductDetail(ctx context.Context, productID string, activeOnly bool) (res *result.Result[*contracts.ProductDetailDTO]) {
	const op = "read.product_detail"
	defer guard(ctx, r.logger, r.reporter, op, &res)

	key := fmt.Sprintf("product-detail:%s:%t", productID, activeOnly)

	var cached contracts.ProductDetailDTO
	if hit, err := r.cache.Get(key, &cached); err == nil && hit {
		return result.OK(&cached)
	}

	detail, err := r.readModel.GetProductDetail(ctx, productID, activeOnly)
	if err != nil {
		if classify(err) == result.KindInternal {
			return failInternal[*contracts.ProductDetailDTO](ctx, r.logger, r.reporter, op, err)
		}
		return fail[*contracts.ProductDetailDTO](err)
	}

	r.populate(key, detail, []string{TagProductDetail, TagVariantList})
	return result.OK(detail)
}

// ListSubCategoryProducts returns the undeleted products under a subcategory,
// served from cache when fresh.
func (r *CatalogReader) ListSubCategoryProducts(ctx context.Context, subCategoryID string, activeOnly bool) (res *result.Result[[]*contracts.ProductSummaryDTO]) {
	const op = "read.subcategory_products"
	defer guard(ctx, r.logger, r.reporter, op, &res)

	key := fmt.Sprintf("subcategory-list:%s:%t", subCategoryID, activeOnly)

	var cached []*contracts.ProductSummaryDTO
	if hit, err := r.cache.Get(key, &cached); err == nil && hit {
		return result.OK(cached)
	}

	summaries, err := r.readModel.ListSubCategoryProducts(ctx, subCategoryID, activeOnly)
	if err != nil {
		if classify(err) == result.KindInternal {
			return failInternal[[]*contracts.ProductSummaryDTO](ctx, r.logger, r.reporter, op, err)
		}
		return fail[[]*contracts.ProductSummaryDTO](err)
	}

	r.populate(key, summaries, []string{TagSubCategoryList, TagProductSearch})
	return result.OK(summaries)
}

// populate writes a computed value back to the cache off the read path. A
// rejected submit just means the next read recomputes.
func (r *CatalogReader) populate(key string, value interface{}, tags []string) {
	r.pool.TrySubmit(func(ctx context.Context) {
		if err := r.cache.Set(key, value, r.ttl, tags); err != nil {
			r.logger.Warn("cache population failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	})
}

package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
	"github.com/light-bringer/catalog-service/internal/pkg/worker"
)

// Cache tags. The tag set is fixed and coarse: a mutation purges every entry
// that could possibly be stale, trading extra cache misses for the guarantee
// that no stale entry survives a write.
const (
	TagProductSearch   = "product-search"
	TagProductDetail   = "product-detail"
	TagSubCategoryList = "subcategory-list"
	TagVariantList     = "variant-list"
	TagDiscountList    = "discount-list"
)

// CacheInvalidator purges cache entries after catalog mutations. Purges are
// handed to the worker pool so the write path does not wait on them; if the
// pool rejects the task the purge runs inline, because a skipped purge would
// leave stale entries visible.
type CacheInvalidator struct {
	cache  contracts.CacheService
	pool   *worker.Pool
	logger *zap.Logger
}

// NewCacheInvalidator creates a new CacheInvalidator.
func NewCacheInvalidator(cache contracts.CacheService, pool *worker.Pool, logger *zap.Logger) *CacheInvalidator {
	return &CacheInvalidator{
		cache:  cache,
		pool:   pool,
		logger: logger,
	}
}

// OnProductMutation purges reads derived from product rows.
func (i *CacheInvalidator) OnProductMutation() {
	i.purge(TagProductDetail, TagProductSearch, TagSubCategoryList)
}

// OnVariantMutation purges reads derived from variant rows. Product tags are
// included because variant changes move denormalized product quantity.
func (i *CacheInvalidator) OnVariantMutation() {
	i.purge(TagVariantList, TagProductDetail, TagProductSearch)
}

// OnDiscountMutation purges reads that embed a final price.
func (i *CacheInvalidator) OnDiscountMutation() {
	i.purge(TagDiscountList, TagProductDetail, TagProductSearch, TagSubCategoryList)
}

// OnSubCategoryMutation purges subcategory listings.
func (i *CacheInvalidator) OnSubCategoryMutation() {
	i.purge(TagSubCategoryList, TagProductSearch)
}

func (i *CacheInvalidator) purge(tags ...string) {
	submitted := i.pool.TrySubmit(func(ctx context.Context) {
		i.cache.RemoveByTags(tags)
	})
	if !submitted {
		i.logger.Debug("worker pool full, purging inline", zap.Strings("tags", tags))
		i.cache.RemoveByTags(tags)
	}
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductAggregator_RecomputeQuantity(t *testing.T) {
	ctx := context.Background()
	now := testNow(t)

	t.Run("sums only active variants", func(t *testing.T) {
		h := newHarness(now)
		h.seedSubCategory("sc-1", true)
		product := h.seedProduct("p-1", "sc-1", true, 99)
		h.seedVariant("v-1", "p-1", "blue", 10, true)
		h.seedVariant("v-2", "p-1", "red", 5, false)

		require.NoError(t, h.aggregator.RecomputeQuantity(ctx, "p-1"))

		assert.Equal(t, int64(10), product.Quantity())
		assert.True(t, product.IsActive())
		assert.Equal(t, 1, h.applier.applied())
	})

	t.Run("unchanged quantity commits nothing", func(t *testing.T) {
		h := newHarness(now)
		h.seedSubCategory("sc-1", true)
		h.seedProduct("p-1", "sc-1", true, 10)
		h.seedVariant("v-1", "p-1", "blue", 10, true)

		require.NoError(t, h.aggregator.RecomputeQuantity(ctx, "p-1"))
		assert.Zero(t, h.applier.applied())
	})

	t.Run("no active variants demotes the product", func(t *testing.T) {
		h := newHarness(now)
		h.seedSubCategory("sc-1", true)
		otherActive := h.seedProduct("p-2", "sc-1", true, 5)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		h.seedVariant("v-1", "p-1", "blue", 7, false)

		require.NoError(t, h.aggregator.RecomputeQuantity(ctx, "p-1"))

		assert.Equal(t, int64(0), product.Quantity())
		assert.False(t, product.IsActive())
		assert.True(t, otherActive.IsActive())
		// The sibling still holds the subcategory up.
		assert.True(t, h.subCategories.items["sc-1"].IsActive())
	})

	t.Run("demoting the last product demotes the subcategory", func(t *testing.T) {
		h := newHarness(now)
		subCategory := h.seedSubCategory("sc-1", true)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		h.seedVariant("v-1", "p-1", "blue", 0, false)

		require.NoError(t, h.aggregator.RecomputeQuantity(ctx, "p-1"))

		assert.False(t, product.IsActive())
		assert.False(t, subCategory.IsActive())
		// One commit for the product, one for the subcategory.
		assert.Equal(t, 2, h.applier.applied())
	})

	t.Run("never promotes an inactive product", func(t *testing.T) {
		h := newHarness(now)
		h.seedSubCategory("sc-1", true)
		product := h.seedProduct("p-1", "sc-1", false, 0)
		h.seedVariant("v-1", "p-1", "blue", 12, true)

		require.NoError(t, h.aggregator.RecomputeQuantity(ctx, "p-1"))

		assert.Equal(t, int64(12), product.Quantity())
		assert.False(t, product.IsActive(), "promotion is manual only")
	})

	t.Run("deleted product is skipped", func(t *testing.T) {
		h := newHarness(now)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		require.NoError(t, product.SoftDelete(now))
		product.Changes().Clear()

		require.NoError(t, h.aggregator.RecomputeQuantity(ctx, "p-1"))
		assert.Zero(t, h.applier.applied())
	})
}

func TestProductAggregator_CascadeToSubCategory(t *testing.T) {
	ctx := context.Background()
	now := testNow(t)

	t.Run("active products block the demotion", func(t *testing.T) {
		h := newHarness(now)
		subCategory := h.seedSubCategory("sc-1", true)
		h.seedProduct("p-1", "sc-1", true, 5)

		require.NoError(t, h.aggregator.CascadeToSubCategory(ctx, "sc-1"))
		assert.True(t, subCategory.IsActive())
		assert.Zero(t, h.applier.applied())
	})

	t.Run("already inactive is a no-op", func(t *testing.T) {
		h := newHarness(now)
		h.seedSubCategory("sc-1", false)

		require.NoError(t, h.aggregator.CascadeToSubCategory(ctx, "sc-1"))
		assert.Zero(t, h.applier.applied())
	})

	t.Run("demotes when no products remain active", func(t *testing.T) {
		h := newHarness(now)
		subCategory := h.seedSubCategory("sc-1", true)
		h.seedProduct("p-1", "sc-1", false, 0)

		require.NoError(t, h.aggregator.CascadeToSubCategory(ctx, "sc-1"))
		assert.False(t, subCategory.IsActive())
		assert.Equal(t, 1, h.applier.applied())
	})
}

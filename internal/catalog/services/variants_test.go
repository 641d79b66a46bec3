package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantManager_AddVariant(t *testing.T) {
	ctx := context.Background()
	now := testNow(t)

	t.Run("creates an inactive variant with an audit entry", func(t *testing.T) {
		h := newHarness(now)
		h.seedSubCategory("sc-1", true)
		h.seedProduct("p-1", "sc-1", false, 0)
		manager := h.variantManager()

		res := manager.AddVariant(ctx, AddVariantInput{
			ProductID: "p-1",
			Color:     "blue",
			Size:      strPtr("M"),
			Quantity:  10,
			UserID:    "u-1",
		})

		require.True(t, res.Success)
		assert.Equal(t, 200, res.StatusCode)
		assert.False(t, res.Data.IsActive)
		assert.Equal(t, int64(10), res.Data.Quantity)
		require.Len(t, h.audit.entries, 1)
		assert.Equal(t, "u-1", h.audit.entries[0].UserID)
		assert.Equal(t, 1, h.applier.applied())
		assert.True(t, h.cache.removedTags()[TagVariantList])
	})

	t.Run("duplicate color and size is a conflict", func(t *testing.T) {
		h := newHarness(now)
		h.seedProduct("p-1", "sc-1", false, 0)
		h.seedVariant("v-1", "p-1", "blue", 5, false)
		manager := h.variantManager()

		res := manager.AddVariant(ctx, AddVariantInput{
			ProductID: "p-1",
			Color:     "blue",
			Size:      strPtr("M"),
			Quantity:  3,
			UserID:    "u-1",
		})

		assert.True(t, res.Failed())
		assert.Equal(t, 409, res.StatusCode)
		assert.Zero(t, h.applier.applied())
	})

	t.Run("same color under a different size is allowed", func(t *testing.T) {
		h := newHarness(now)
		h.seedProduct("p-1", "sc-1", false, 0)
		h.seedVariant("v-1", "p-1", "blue", 5, false)
		manager := h.variantManager()

		res := manager.AddVariant(ctx, AddVariantInput{
			ProductID: "p-1",
			Color:     "blue",
			Size:      strPtr("L"),
			Quantity:  3,
			UserID:    "u-1",
		})

		assert.True(t, res.Success)
	})

	t.Run("missing product is not found", func(t *testing.T) {
		h := newHarness(now)
		manager := h.variantManager()

		res := manager.AddVariant(ctx, AddVariantInput{
			ProductID: "missing",
			Color:     "blue",
			Quantity:  1,
			UserID:    "u-1",
		})

		assert.True(t, res.Failed())
		assert.Equal(t, 404, res.StatusCode)
	})

	t.Run("negative quantity is a validation failure", func(t *testing.T) {
		h := newHarness(now)
		h.seedProduct("p-1", "sc-1", false, 0)
		manager := h.variantManager()

		res := manager.AddVariant(ctx, AddVariantInput{
			ProductID: "p-1",
			Color:     "blue",
			Size:      strPtr("M"),
			Quantity:  -1,
			UserID:    "u-1",
		})

		assert.True(t, res.Failed())
		assert.Equal(t, 400, res.StatusCode)
	})
}

func TestVariantManager_ActivateVariant(t *testing.T) {
	ctx := context.Background()
	now := testNow(t)

	t.Run("activation feeds the product aggregate", func(t *testing.T) {
		h := newHarness(now)
		h.seedSubCategory("sc-1", true)
		product := h.seedProduct("p-1", "sc-1", true, 0)
		h.seedVariant("v-1", "p-1", "blue", 10, false)
		manager := h.variantManager()

		res := manager.ActivateVariant(ctx, "v-1", "u-1")

		require.True(t, res.Success)
		assert.True(t, res.Data.IsActive)
		assert.Equal(t, int64(10), product.Quantity(), "recompute runs on the activation event")
	})

	t.Run("variant without stock fails the guard", func(t *testing.T) {
		h := newHarness(now)
		h.seedProduct("p-1", "sc-1", true, 0)
		h.seedVariant("v-1", "p-1", "blue", 0, false)
		manager := h.variantManager()

		res := manager.ActivateVariant(ctx, "v-1", "u-1")

		assert.True(t, res.Failed())
		assert.Equal(t, 400, res.StatusCode)
		assert.Zero(t, h.applier.applied())
	})

	t.Run("missing variant is not found", func(t *testing.T) {
		h := newHarness(now)
		manager := h.variantManager()

		res := manager.ActivateVariant(ctx, "missing", "u-1")
		assert.Equal(t, 404, res.StatusCode)
	})
}

func TestVariantManager_DeactivateVariant(t *testing.T) {
	ctx := context.Background()
	now := testNow(t)

	t.Run("deactivating the last active variant demotes product and subcategory", func(t *testing.T) {
		h := newHarness(now)
		subCategory := h.seedSubCategory("sc-1", true)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		h.seedVariant("v-1", "p-1", "blue", 10, true)
		manager := h.variantManager()

		res := manager.DeactivateVariant(ctx, "v-1", "u-1")

		require.True(t, res.Success)
		assert.False(t, product.IsActive())
		assert.Equal(t, int64(0), product.Quantity())
		assert.False(t, subCategory.IsActive())
	})

	t.Run("other active variants keep the product up", func(t *testing.T) {
		h := newHarness(now)
		h.seedSubCategory("sc-1", true)
		product := h.seedProduct("p-1", "sc-1", true, 15)
		h.seedVariant("v-1", "p-1", "blue", 10, true)
		h.seedVariant("v-2", "p-1", "red", 5, true)
		manager := h.variantManager()

		res := manager.DeactivateVariant(ctx, "v-1", "u-1")

		require.True(t, res.Success)
		assert.True(t, product.IsActive())
		assert.Equal(t, int64(5), product.Quantity())
	})
}

func TestVariantManager_AdjustQuantity(t *testing.T) {
	ctx := context.Background()
	now := testNow(t)

	t.Run("positive delta raises the aggregate", func(t *testing.T) {
		h := newHarness(now)
		h.seedSubCategory("sc-1", true)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		h.seedVariant("v-1", "p-1", "blue", 10, true)
		manager := h.variantManager()

		res := manager.AdjustQuantity(ctx, "v-1", 5, "u-1")

		require.True(t, res.Success)
		assert.Equal(t, int64(15), res.Data.Quantity)
		assert.Equal(t, int64(15), product.Quantity())
	})

	t.Run("landing on zero deactivates and cascades", func(t *testing.T) {
		h := newHarness(now)
		subCategory := h.seedSubCategory("sc-1", true)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		variant := h.seedVariant("v-1", "p-1", "blue", 10, true)
		manager := h.variantManager()

		res := manager.AdjustQuantity(ctx, "v-1", -10, "u-1")

		require.True(t, res.Success)
		assert.False(t, variant.IsActive())
		assert.False(t, product.IsActive())
		assert.False(t, subCategory.IsActive())
	})

	t.Run("delta below zero is rejected", func(t *testing.T) {
		h := newHarness(now)
		h.seedProduct("p-1", "sc-1", true, 10)
		variant := h.seedVariant("v-1", "p-1", "blue", 10, true)
		manager := h.variantManager()

		res := manager.AdjustQuantity(ctx, "v-1", -11, "u-1")

		assert.True(t, res.Failed())
		assert.Equal(t, 400, res.StatusCode)
		assert.Equal(t, int64(10), variant.Quantity())
	})

	t.Run("adjustment order does not change the final state", func(t *testing.T) {
		for name, deltas := range map[string][]int64{
			"raise then lower": {3, -2},
			"lower then raise": {-2, 3},
		} {
			t.Run(name, func(t *testing.T) {
				h := newHarness(now)
				h.seedSubCategory("sc-1", true)
				product := h.seedProduct("p-1", "sc-1", true, 10)
				variant := h.seedVariant("v-1", "p-1", "blue", 10, true)
				manager := h.variantManager()

				for _, delta := range deltas {
					res := manager.AdjustQuantity(ctx, "v-1", delta, "u-1")
					require.True(t, res.Success)
				}

				assert.Equal(t, int64(11), variant.Quantity())
				assert.Equal(t, int64(11), product.Quantity())
				assert.True(t, variant.IsActive())
				assert.True(t, product.IsActive())
			})
		}
	})
}

func TestVariantManager_DeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	now := testNow(t)

	t.Run("deleting an active variant demotes through the cascade", func(t *testing.T) {
		h := newHarness(now)
		h.seedSubCategory("sc-1", true)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		variant := h.seedVariant("v-1", "p-1", "blue", 10, true)
		manager := h.variantManager()

		res := manager.DeleteVariant(ctx, "v-1", "u-1")

		require.True(t, res.Success)
		assert.True(t, variant.IsDeleted())
		assert.False(t, product.IsActive())
	})

	t.Run("restored variant lands inactive", func(t *testing.T) {
		h := newHarness(now)
		h.seedSubCategory("sc-1", true)
		h.seedProduct("p-1", "sc-1", false, 0)
		variant := h.seedVariant("v-1", "p-1", "blue", 10, true)
		manager := h.variantManager()

		require.True(t, manager.DeleteVariant(ctx, "v-1", "u-1").Success)
		res := manager.RestoreVariant(ctx, "v-1", "u-1")

		require.True(t, res.Success)
		assert.False(t, variant.IsDeleted())
		assert.False(t, variant.IsActive())
	})
}

func TestVariantManager_Failures(t *testing.T) {
	ctx := context.Background()
	now := testNow(t)

	t.Run("audit failure aborts before anything is applied", func(t *testing.T) {
		h := newHarness(now)
		h.seedProduct("p-1", "sc-1", false, 0)
		h.audit.failure = errors.New("audit store unavailable")
		manager := h.variantManager()

		res := manager.AddVariant(ctx, AddVariantInput{
			ProductID: "p-1",
			Color:     "blue",
			Size:      strPtr("M"),
			Quantity:  1,
			UserID:    "u-1",
		})

		assert.True(t, res.Failed())
		assert.Equal(t, 500, res.StatusCode)
		assert.Equal(t, "internal error", res.Message)
		assert.Zero(t, h.applier.applied())
		assert.NotEmpty(t, h.reporter.reports)
	})

	t.Run("commit failure is an internal failure", func(t *testing.T) {
		h := newHarness(now)
		h.seedProduct("p-1", "sc-1", true, 10)
		h.seedVariant("v-1", "p-1", "blue", 10, true)
		h.applier.failure = errors.New("aborted")
		manager := h.variantManager()

		res := manager.DeactivateVariant(ctx, "v-1", "u-1")

		assert.True(t, res.Failed())
		assert.Equal(t, 500, res.StatusCode)
		assert.NotEmpty(t, h.reporter.reports)
	})

	t.Run("failed recompute surfaces as a warning, not a failure", func(t *testing.T) {
		h := newHarness(now)
		h.seedSubCategory("sc-1", true)
		// The product row is missing, so the post-commit recompute fails.
		h.seedVariant("v-1", "p-1", "blue", 10, true)
		manager := h.variantManager()

		res := manager.DeactivateVariant(ctx, "v-1", "u-1")

		require.True(t, res.Success)
		assert.Contains(t, res.Warnings, aggregateSyncWarning)
	})
}

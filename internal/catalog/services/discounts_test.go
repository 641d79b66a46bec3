package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
)

func TestDiscountLifecycle_CreateDiscount(t *testing.T) {
	ctx := context.Background()
	now := testNow(t)

	t.Run("creates the discount with both boundary checks in one plan", func(t *testing.T) {
		h := newHarness(now)
		lifecycle := h.discountLifecycle()
		start, end := now.Add(time.Hour), now.Add(48*time.Hour)

		res := lifecycle.CreateDiscount(ctx, CreateDiscountInput{
			Name:      "Summer Sale",
			Percent:   20,
			StartDate: start,
			EndDate:   end,
			UserID:    "u-1",
		})

		require.True(t, res.Success)
		assert.False(t, res.Data.IsActive, "window state waits for the first check")
		assert.Equal(t, 1, h.applier.applied())
		require.Len(t, h.jobs.scheduled, 2)
		assert.Equal(t, contracts.JobKindDiscountReconcile, h.jobs.scheduled[0].kind)
		assert.Equal(t, start, h.jobs.scheduled[0].runAt)
		assert.Equal(t, end.Add(time.Second), h.jobs.scheduled[1].runAt, "end check runs past the inclusive bound")
		assert.Equal(t, res.Data.DiscountID, h.jobs.scheduled[0].payload["discount_id"])
		require.Len(t, h.audit.entries, 1)
	})

	t.Run("invalid percent commits nothing", func(t *testing.T) {
		h := newHarness(now)
		lifecycle := h.discountLifecycle()

		res := lifecycle.CreateDiscount(ctx, CreateDiscountInput{
			Name:      "Sale",
			Percent:   0,
			StartDate: now,
			EndDate:   now.Add(time.Hour),
			UserID:    "u-1",
		})

		assert.True(t, res.Failed())
		assert.Equal(t, 400, res.StatusCode)
		assert.Zero(t, h.applier.applied())
		assert.Empty(t, h.jobs.scheduled)
	})
}

func TestDiscountLifecycle_CheckOnDiscount(t *testing.T) {
	ctx := context.Background()
	now := testNow(t)
	start, end := now.Add(-time.Hour), now.Add(time.Hour)

	t.Run("activates an in-window discount and refreshes prices", func(t *testing.T) {
		h := newHarness(now)
		discount := h.seedDiscount("d-1", 20, start, end, false)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		require.NoError(t, product.AttachDiscount("d-1"))
		product.Changes().Clear()
		lifecycle := h.discountLifecycle()

		res := lifecycle.CheckOnDiscount(ctx, "d-1")

		require.True(t, res.Success)
		assert.Equal(t, "activated", res.Data)
		assert.True(t, discount.IsActive())
		assert.True(t, product.FinalPrice().Equals(mustMoney(80, 1)))
		// One commit for the flag, one for the price refresh.
		assert.Equal(t, 2, h.applier.applied())
	})

	t.Run("second check is a no-op without a write", func(t *testing.T) {
		h := newHarness(now)
		h.seedDiscount("d-1", 20, start, end, false)
		lifecycle := h.discountLifecycle()

		require.Equal(t, "activated", lifecycle.CheckOnDiscount(ctx, "d-1").Data)
		applied := h.applier.applied()

		res := lifecycle.CheckOnDiscount(ctx, "d-1")

		require.True(t, res.Success)
		assert.Equal(t, "none", res.Data)
		assert.Equal(t, applied, h.applier.applied())
	})

	t.Run("deactivates past the window and reverts prices", func(t *testing.T) {
		h := newHarness(now)
		discount := h.seedDiscount("d-1", 20, start, end, true)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		require.NoError(t, product.AttachDiscount("d-1"))
		product.SetFinalPrice(mustMoney(80, 1), now)
		product.Changes().Clear()
		h.clk.Set(end.Add(time.Minute))
		lifecycle := h.discountLifecycle()

		res := lifecycle.CheckOnDiscount(ctx, "d-1")

		require.True(t, res.Success)
		assert.Equal(t, "deactivated", res.Data)
		assert.False(t, discount.IsActive())
		assert.True(t, product.FinalPrice().Equals(product.BasePrice()))
	})

	t.Run("deleted discount deactivates and reverts prices", func(t *testing.T) {
		h := newHarness(now)
		discount := h.seedDiscount("d-1", 20, start, end, true)
		require.NoError(t, discount.SoftDelete(now))
		discount.Changes().Clear()
		discount.ClearEvents()
		product := h.seedProduct("p-1", "sc-1", true, 10)
		require.NoError(t, product.AttachDiscount("d-1"))
		product.SetFinalPrice(mustMoney(80, 1), now)
		product.Changes().Clear()
		lifecycle := h.discountLifecycle()

		res := lifecycle.CheckOnDiscount(ctx, "d-1")

		require.True(t, res.Success)
		assert.Equal(t, "deactivated", res.Data)
		assert.True(t, product.FinalPrice().Equals(product.BasePrice()))
	})

	t.Run("missing discount is not found", func(t *testing.T) {
		h := newHarness(now)
		lifecycle := h.discountLifecycle()

		res := lifecycle.CheckOnDiscount(ctx, "missing")
		assert.Equal(t, 404, res.StatusCode)
	})
}

func TestDiscountLifecycle_ManualTransitions(t *testing.T) {
	ctx := context.Background()
	now := testNow(t)
	start, end := now.Add(-time.Hour), now.Add(time.Hour)

	t.Run("manual activation refreshes linked prices", func(t *testing.T) {
		h := newHarness(now)
		h.seedDiscount("d-1", 25, start, end, false)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		require.NoError(t, product.AttachDiscount("d-1"))
		product.Changes().Clear()
		lifecycle := h.discountLifecycle()

		res := lifecycle.ActivateDiscount(ctx, "d-1", "u-1")

		require.True(t, res.Success)
		assert.True(t, res.Data.IsActive)
		assert.True(t, product.FinalPrice().Equals(mustMoney(75, 1)))
	})

	t.Run("manual activation outside the window is rejected", func(t *testing.T) {
		h := newHarness(now)
		h.seedDiscount("d-1", 20, now.Add(time.Hour), now.Add(48*time.Hour), false)
		lifecycle := h.discountLifecycle()

		res := lifecycle.ActivateDiscount(ctx, "d-1", "u-1")

		assert.True(t, res.Failed())
		assert.Equal(t, 400, res.StatusCode)
		assert.Zero(t, h.applier.applied())
	})

	t.Run("manual deactivation pauses and reverts prices", func(t *testing.T) {
		h := newHarness(now)
		h.seedDiscount("d-1", 20, start, end, true)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		require.NoError(t, product.AttachDiscount("d-1"))
		product.SetFinalPrice(mustMoney(80, 1), now)
		product.Changes().Clear()
		lifecycle := h.discountLifecycle()

		res := lifecycle.DeactivateDiscount(ctx, "d-1", "u-1")

		require.True(t, res.Success)
		assert.False(t, res.Data.IsActive)
		assert.True(t, product.FinalPrice().Equals(product.BasePrice()))
	})
}

func TestDiscountLifecycle_DeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	now := testNow(t)
	start, end := now.Add(-time.Hour), now.Add(time.Hour)

	t.Run("delete enqueues an immediate reconciliation job", func(t *testing.T) {
		h := newHarness(now)
		discount := h.seedDiscount("d-1", 20, start, end, true)
		lifecycle := h.discountLifecycle()

		res := lifecycle.DeleteDiscount(ctx, "d-1", "u-1")

		require.True(t, res.Success)
		assert.True(t, discount.IsDeleted())
		require.Len(t, h.jobs.scheduled, 1)
		assert.Equal(t, contracts.JobKindDiscountReconcile, h.jobs.scheduled[0].kind)
		assert.Equal(t, now, h.jobs.scheduled[0].runAt)
		assert.Equal(t, 1, h.applier.applied())
	})

	t.Run("restore never auto-activates", func(t *testing.T) {
		h := newHarness(now)
		discount := h.seedDiscount("d-1", 20, start, end, false)
		require.NoError(t, discount.SoftDelete(now))
		discount.Changes().Clear()
		discount.ClearEvents()
		lifecycle := h.discountLifecycle()

		res := lifecycle.RestoreDiscount(ctx, "d-1", "u-1")

		require.True(t, res.Success)
		assert.False(t, discount.IsDeleted())
		assert.False(t, discount.IsActive(), "the enqueued check decides the flag")
		require.Len(t, h.jobs.scheduled, 1)
	})

	t.Run("deleting twice is rejected", func(t *testing.T) {
		h := newHarness(now)
		discount := h.seedDiscount("d-1", 20, start, end, false)
		require.NoError(t, discount.SoftDelete(now))
		lifecycle := h.discountLifecycle()

		res := lifecycle.DeleteDiscount(ctx, "d-1", "u-1")
		assert.Equal(t, 400, res.StatusCode)
	})
}

func TestDiscountLifecycle_UpdateDiscount(t *testing.T) {
	ctx := context.Background()
	now := testNow(t)
	start, end := now.Add(-time.Hour), now.Add(time.Hour)

	t.Run("rename alone schedules no new checks", func(t *testing.T) {
		h := newHarness(now)
		h.seedDiscount("d-1", 20, start, end, false)
		lifecycle := h.discountLifecycle()

		res := lifecycle.UpdateDiscount(ctx, UpdateDiscountInput{
			DiscountID: "d-1",
			Name:       strPtr("Flash Sale"),
			UserID:     "u-1",
		})

		require.True(t, res.Success)
		assert.Equal(t, "Flash Sale", res.Data.Name)
		assert.Empty(t, h.jobs.scheduled)
	})

	t.Run("reschedule gets a fresh pair of boundary checks", func(t *testing.T) {
		h := newHarness(now)
		h.seedDiscount("d-1", 20, start, end, false)
		lifecycle := h.discountLifecycle()
		newStart, newEnd := now.Add(2*time.Hour), now.Add(72*time.Hour)

		res := lifecycle.UpdateDiscount(ctx, UpdateDiscountInput{
			DiscountID: "d-1",
			StartDate:  timePtr(newStart),
			EndDate:    timePtr(newEnd),
			UserID:     "u-1",
		})

		require.True(t, res.Success)
		require.Len(t, h.jobs.scheduled, 2)
		assert.Equal(t, newStart, h.jobs.scheduled[0].runAt)
		assert.Equal(t, newEnd.Add(time.Second), h.jobs.scheduled[1].runAt)
	})

	t.Run("half a window is rejected", func(t *testing.T) {
		h := newHarness(now)
		h.seedDiscount("d-1", 20, start, end, false)
		lifecycle := h.discountLifecycle()

		res := lifecycle.UpdateDiscount(ctx, UpdateDiscountInput{
			DiscountID: "d-1",
			StartDate:  timePtr(now.Add(2 * time.Hour)),
			UserID:     "u-1",
		})

		assert.True(t, res.Failed())
		assert.Equal(t, 400, res.StatusCode)
	})
}

func TestDiscountLifecycle_CalculateDiscountedPrice(t *testing.T) {
	ctx := context.Background()
	now := testNow(t)
	start, end := now.Add(-time.Hour), now.Add(time.Hour)

	t.Run("effective discount lowers the quote", func(t *testing.T) {
		h := newHarness(now)
		h.seedDiscount("d-1", 20, start, end, true)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		require.NoError(t, product.AttachDiscount("d-1"))
		lifecycle := h.discountLifecycle()

		res := lifecycle.CalculateDiscountedPrice(ctx, "p-1")

		require.True(t, res.Success)
		assert.InDelta(t, 80.0, res.Data.FinalPrice, 0.001)
		assert.True(t, res.Data.Discounted)
	})

	t.Run("inactive discount quotes base price", func(t *testing.T) {
		h := newHarness(now)
		h.seedDiscount("d-1", 20, start, end, false)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		require.NoError(t, product.AttachDiscount("d-1"))
		lifecycle := h.discountLifecycle()

		res := lifecycle.CalculateDiscountedPrice(ctx, "p-1")

		require.True(t, res.Success)
		assert.InDelta(t, 100.0, res.Data.FinalPrice, 0.001)
		assert.False(t, res.Data.Discounted)
	})

	t.Run("dangling discount link fails open with a warning", func(t *testing.T) {
		h := newHarness(now)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		require.NoError(t, product.AttachDiscount("gone"))
		lifecycle := h.discountLifecycle()

		res := lifecycle.CalculateDiscountedPrice(ctx, "p-1")

		require.True(t, res.Success)
		assert.InDelta(t, 100.0, res.Data.FinalPrice, 0.001)
		assert.NotEmpty(t, res.Warnings)
	})
}

func TestDiscountLifecycle_AttachDetach(t *testing.T) {
	ctx := context.Background()
	now := testNow(t)
	start, end := now.Add(-time.Hour), now.Add(time.Hour)

	t.Run("attach refreshes the final price in the same commit", func(t *testing.T) {
		h := newHarness(now)
		h.seedDiscount("d-1", 20, start, end, true)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		lifecycle := h.discountLifecycle()

		res := lifecycle.AttachDiscount(ctx, "p-1", "d-1", "u-1")

		require.True(t, res.Success)
		require.NotNil(t, product.DiscountID())
		assert.True(t, product.FinalPrice().Equals(mustMoney(80, 1)))
		assert.Equal(t, 1, h.applier.applied())
	})

	t.Run("attach of a pending discount keeps the base price", func(t *testing.T) {
		h := newHarness(now)
		h.seedDiscount("d-1", 20, now.Add(time.Hour), now.Add(48*time.Hour), false)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		lifecycle := h.discountLifecycle()

		res := lifecycle.AttachDiscount(ctx, "p-1", "d-1", "u-1")

		require.True(t, res.Success)
		assert.True(t, product.FinalPrice().Equals(product.BasePrice()))
	})

	t.Run("attach of a deleted discount is rejected", func(t *testing.T) {
		h := newHarness(now)
		discount := h.seedDiscount("d-1", 20, start, end, false)
		require.NoError(t, discount.SoftDelete(now))
		h.seedProduct("p-1", "sc-1", true, 10)
		lifecycle := h.discountLifecycle()

		res := lifecycle.AttachDiscount(ctx, "p-1", "d-1", "u-1")

		assert.True(t, res.Failed())
		assert.Equal(t, 400, res.StatusCode)
	})

	t.Run("detach reverts to the base price", func(t *testing.T) {
		h := newHarness(now)
		h.seedDiscount("d-1", 20, start, end, true)
		product := h.seedProduct("p-1", "sc-1", true, 10)
		require.NoError(t, product.AttachDiscount("d-1"))
		product.SetFinalPrice(mustMoney(80, 1), now)
		product.Changes().Clear()
		lifecycle := h.discountLifecycle()

		res := lifecycle.DetachDiscount(ctx, "p-1", "u-1")

		require.True(t, res.Success)
		assert.Nil(t, product.DiscountID())
		assert.True(t, product.FinalPrice().Equals(product.BasePrice()))
	})
}

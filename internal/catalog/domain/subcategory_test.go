package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/catalog-service/internal/pkg/clock"
)

func TestSubCategory_Lifecycle(t *testing.T) {
	now := time.Now().UTC()
	clk := clock.NewMockClock(now)

	t.Run("created inactive", func(t *testing.T) {
		s, err := NewSubCategory("sc-1", "Jackets", now, clk)
		require.NoError(t, err)
		assert.False(t, s.IsActive())
	})

	t.Run("empty name returns error", func(t *testing.T) {
		_, err := NewSubCategory("sc-2", "", now, clk)
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("cascade demotion records event", func(t *testing.T) {
		s, _ := NewSubCategory("sc-3", "Jackets", now, clk)
		require.NoError(t, s.Activate(now))

		require.NoError(t, s.Deactivate(now))
		assert.False(t, s.IsActive())
		require.Len(t, s.DomainEvents(), 1)
		assert.Equal(t, "subcategory.deactivated", s.DomainEvents()[0].EventType())
	})

	t.Run("demoting inactive is a no-op", func(t *testing.T) {
		s, _ := NewSubCategory("sc-4", "Jackets", now, clk)
		require.NoError(t, s.Deactivate(now))
		assert.Empty(t, s.DomainEvents())
	})

	t.Run("restore forces inactive", func(t *testing.T) {
		s, _ := NewSubCategory("sc-5", "Jackets", now, clk)
		require.NoError(t, s.Activate(now))
		require.NoError(t, s.SoftDelete(now))
		require.NoError(t, s.Restore(now))
		assert.False(t, s.IsDeleted())
		assert.False(t, s.IsActive())
	})
}

package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_Build(t *testing.T) {
	t.Run("select all from table", func(t *testing.T) {
		stmt := From("products").Build()
		assert.Equal(t, "SELECT * FROM products", stmt.SQL)
		assert.Empty(t, stmt.Params)
	})

	t.Run("select columns with conditions", func(t *testing.T) {
		stmt := From("products").
			Select("product_id", "name").
			Where(Eq("subcategory_id", "sc-1")).
			Where(Eq("is_active", true)).
			Build()

		assert.Equal(t,
			"SELECT product_id, name FROM products WHERE subcategory_id = @p0 AND is_active = @p1",
			stmt.SQL)
		assert.Equal(t, "sc-1", stmt.Params["p0"])
		assert.Equal(t, true, stmt.Params["p1"])
	})

	t.Run("null checks add no parameters", func(t *testing.T) {
		stmt := From("products").
			Where(IsNull("deleted_at")).
			Where(Eq("is_active", true)).
			Build()

		assert.Equal(t,
			"SELECT * FROM products WHERE deleted_at IS NULL AND is_active = @p0",
			stmt.SQL)
		assert.Len(t, stmt.Params, 1)
	})

	t.Run("order limit offset", func(t *testing.T) {
		now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
		stmt := From("scheduled_jobs").
			Where(Eq("status", "pending")).
			Where(Lte("run_at", now)).
			OrderBy("run_at", Asc).
			Limit(50).
			Offset(10).
			Build()

		assert.Equal(t,
			"SELECT * FROM scheduled_jobs WHERE status = @p0 AND run_at <= @p1 ORDER BY run_at ASC LIMIT @limit OFFSET @offset",
			stmt.SQL)
		assert.Equal(t, now, stmt.Params["p1"])
		assert.Equal(t, int64(50), stmt.Params["limit"])
		assert.Equal(t, int64(10), stmt.Params["offset"])
	})

	t.Run("descending order", func(t *testing.T) {
		stmt := From("audit_log").OrderBy("created_at", Desc).Build()
		assert.Equal(t, "SELECT * FROM audit_log ORDER BY created_at DESC", stmt.SQL)
	})
}

func TestBuilder_Count(t *testing.T) {
	stmt := From("products").
		Select("product_id").
		Where(Eq("subcategory_id", "sc-1")).
		OrderBy("name", Asc).
		Limit(20).
		Count().
		Build()

	assert.Equal(t, "SELECT COUNT(*) FROM products WHERE subcategory_id = @p0", stmt.SQL)
	assert.NotContains(t, stmt.Params, "limit")
}

func TestBuilder_Immutability(t *testing.T) {
	base := From("products").Where(IsNull("deleted_at"))

	filtered := base.Where(Eq("is_active", true))

	assert.Equal(t, "SELECT * FROM products WHERE deleted_at IS NULL", base.Build().SQL)
	assert.Equal(t,
		"SELECT * FROM products WHERE deleted_at IS NULL AND is_active = @p0",
		filtered.Build().SQL)
}

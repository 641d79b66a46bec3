package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_StatusCode(t *testing.T) {
	assert.Equal(t, 200, KindNone.StatusCode())
	assert.Equal(t, 400, KindValidation.StatusCode())
	assert.Equal(t, 400, KindInvalidState.StatusCode())
	assert.Equal(t, 404, KindNotFound.StatusCode())
	assert.Equal(t, 409, KindConflict.StatusCode())
	assert.Equal(t, 500, KindInternal.StatusCode())
}

func TestEnvelopes(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		r := OK("payload")
		assert.True(t, r.Success)
		assert.False(t, r.Failed())
		assert.Equal(t, 200, r.StatusCode)
		assert.Equal(t, "payload", r.Data)
		assert.Empty(t, r.Warnings)
	})

	t.Run("ok with warnings stays successful", func(t *testing.T) {
		r := OKWithWarnings("payload", "derived state pending")
		assert.True(t, r.Success)
		assert.Equal(t, []string{"derived state pending"}, r.Warnings)
	})

	t.Run("fail carries the kind's status", func(t *testing.T) {
		r := Fail[string](KindConflict, "variant already exists")
		assert.True(t, r.Failed())
		assert.Equal(t, 409, r.StatusCode)
		assert.Equal(t, "variant already exists", r.Message)
		assert.Empty(t, r.Data)
	})
}

package registry

import (
	"testing"

	"shop_ops/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("a", 1)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = r.Register("a", 2)
	require.NoError(t, err)
	assert.False(t, isNew)

	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, err = r.Register("", 3)
	assert.ErrorIs(t, err, common.ErrRequiredField)
}

func TestRegistry_MustGet(t *testing.T) {
	r := NewRegistry[string]()
	_, err := r.MustGet("missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := NewRegistry[int]()
	for _, name := range []string{"staffs", "counters", "new_orders"} {
		_, err := r.Register(name, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"counters", "new_orders", "staffs"}, r.Names())
}

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient(t *testing.T) {
	c := New()
	ctx := context.Background()

	_, found, err := c.Get(ctx, "clientes")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "clientes", "[]"))
	val, found, err := c.Get(ctx, "clientes")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", val)

	n, err := c.Delete(ctx, "clientes", "passos")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, c.Set(canceled, "clientes", "[]"), context.Canceled)
}

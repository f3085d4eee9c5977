package keyonlylocks

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAllOrNothing(t *testing.T) {
	var store sync.Map
	got, ok := AcquireLocks(&store, []string{"pdf:b", "pdf:a", "pdf:a"})
	require.True(t, ok)
	assert.Equal(t, []string{"pdf:a", "pdf:b"}, got)

	_, ok = AcquireLocks(&store, []string{"pdf:c", "pdf:b"})
	assert.False(t, ok)
	_, held := store.Load("pdf:c")
	assert.False(t, held, "partial acquisition is rolled back")

	ReleaseLocks(&store, got)
	_, ok = AcquireLocks(&store, []string{"pdf:c", "pdf:b"})
	assert.True(t, ok)
}

func TestTryLock(t *testing.T) {
	var store sync.Map
	release, ok := TryLock(&store, "pdf:r1")
	require.True(t, ok)

	noop, ok := TryLock(&store, "pdf:r1")
	assert.False(t, ok)
	noop() // safe to call and releases nothing
	_, ok = TryLock(&store, "pdf:r1")
	assert.False(t, ok)

	release()
	_, ok = TryLock(&store, "pdf:r1")
	assert.True(t, ok)
}

package kvdb_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeptools/fichas/db/kvdb"
	"github.com/zeptools/fichas/db/kvdb/impls/memory"
	"github.com/zeptools/fichas/sec"
)

func TestSealedHidesValues(t *testing.T) {
	inner := memory.New()
	sealer, err := sec.NewSealer(bytes.Repeat([]byte{1}, 32))
	require.NoError(t, err)
	c := kvdb.NewSealed(inner, sealer)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "clientes", `[{"email":"a@b.c"}]`))

	raw, found, err := inner.Get(ctx, "clientes")
	require.NoError(t, err)
	require.True(t, found)
	assert.NotContains(t, raw, "a@b.c")

	val, found, err := c.Get(ctx, "clientes")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"email":"a@b.c"}]`, val)

	_, found, err = c.Get(ctx, "passos")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSealedRejectsPlaintext(t *testing.T) {
	inner := memory.New()
	sealer, err := sec.NewSealer(bytes.Repeat([]byte{1}, 32))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, inner.Set(ctx, "clientes", "[]"))

	_, _, err = kvdb.NewSealed(inner, sealer).Get(ctx, "clientes")
	assert.Error(t, err)
}

func TestNewWrapsWhenKeyed(t *testing.T) {
	memory.Register()

	plain, err := kvdb.New(&kvdb.Conf{Type: memory.DBType})
	require.NoError(t, err)
	assert.IsType(t, &memory.Client{}, plain)

	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{9}, 32))
	sealed, err := kvdb.New(&kvdb.Conf{Type: memory.DBType, EncryptionKey: key})
	require.NoError(t, err)
	assert.IsType(t, &kvdb.Sealed{}, sealed)

	_, err = kvdb.New(&kvdb.Conf{Type: memory.DBType, EncryptionKey: "bad"})
	assert.Error(t, err)
	_, err = kvdb.New(&kvdb.Conf{Type: "memcached"})
	assert.Error(t, err)
}

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeptools/fichas/db/sqldb"
	"go.uber.org/zap/zaptest"
)

func TestClientExecAndQueryRow(t *testing.T) {
	Register(zaptest.NewLogger(t))
	c, err := sqldb.New(&sqldb.Conf{Type: DBType, DB: filepath.Join(t.TempDir(), "data", "test.db")})
	require.NoError(t, err)
	require.NoError(t, c.Init())
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	_, err = c.Exec(ctx, `CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT NOT NULL)`)
	require.NoError(t, err)
	res, err := c.Exec(ctx, `INSERT INTO kv (k, v) VALUES (?, ?)`, "a", "1")
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var v string
	require.NoError(t, c.QueryRow(ctx, `SELECT v FROM kv WHERE k = ?`, "a").Scan(&v))
	assert.Equal(t, "1", v)

	err = c.QueryRow(ctx, `SELECT v FROM kv WHERE k = ?`, "missing").Scan(&v)
	assert.ErrorIs(t, err, sqldb.ErrNoRows)
}

func TestInitNeedsPath(t *testing.T) {
	c := &Client{Conf: &sqldb.Conf{Type: DBType}}
	assert.Error(t, c.Init())
}

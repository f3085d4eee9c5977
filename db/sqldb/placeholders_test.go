package sqldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceStaticPlaceholders(t *testing.T) {
	q := "INSERT INTO t (a, b) VALUES (?, ?) ON CONFLICT (a) DO UPDATE SET b = ?"
	assert.Equal(t,
		"INSERT INTO t (a, b) VALUES ($1, $2) ON CONFLICT (a) DO UPDATE SET b = $3",
		ReplaceStaticPlaceholders(q, '$'))
	assert.Equal(t, q, ReplaceStaticPlaceholders(q, '?'))
	assert.Equal(t, q, ReplaceStaticPlaceholders(q, 0))
	assert.Equal(t, "WHERE a = $1 AND b IN (??)", ReplaceStaticPlaceholders("WHERE a = ? AND b IN (??)", '$'))
}

func TestExpandDynamicPlaceholders(t *testing.T) {
	got, err := ExpandDynamicPlaceholders("DELETE FROM t WHERE k IN (??)", '$', []int{3}, 1)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM t WHERE k IN ($1, $2, $3)", got)

	got, err = ExpandDynamicPlaceholders("DELETE FROM t WHERE k IN (??)", '?', []int{2}, 1)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM t WHERE k IN (?, ?)", got)

	_, err = ExpandDynamicPlaceholders("k IN (??) OR j IN (??)", '$', []int{1}, 1)
	assert.Error(t, err)
	_, err = ExpandDynamicPlaceholders("k = ?", 0, []int{1}, 1)
	assert.Error(t, err)
}

func TestPlaceholderPrefix(t *testing.T) {
	assert.Equal(t, byte('$'), (&Conf{Type: "pgsql"}).PlaceholderPrefix())
	assert.Equal(t, byte('?'), (&Conf{Type: "mysql"}).PlaceholderPrefix())
	assert.Equal(t, byte(0), (&Conf{Type: "sqlite"}).PlaceholderPrefix())
}

func TestNewUnknownType(t *testing.T) {
	_, err := New(&Conf{Type: "oracle"})
	assert.Error(t, err)
}

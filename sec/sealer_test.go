package sec

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = bytes.Repeat([]byte{7}, 32)

func TestSealOpen(t *testing.T) {
	s, err := NewSealer(testKey)
	require.NoError(t, err)

	sealed, err := s.Seal([]byte(`[{"id":"1"}]`), []byte("clientes"))
	require.NoError(t, err)
	assert.NotContains(t, sealed, "id")

	plain, err := s.Open(sealed, []byte("clientes"))
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(plain))

	again, err := s.Seal([]byte(`[{"id":"1"}]`), []byte("clientes"))
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ between calls")
}

func TestOpenRejectsWrongSlot(t *testing.T) {
	s, err := NewSealer(testKey)
	require.NoError(t, err)
	sealed, err := s.Seal([]byte("x"), []byte("clientes"))
	require.NoError(t, err)

	_, err = s.Open(sealed, []byte("passos"))
	assert.Error(t, err)

	_, err = s.Open("AAAA", nil)
	assert.ErrorIs(t, err, ErrSealedTooShort)
}

func TestNewSealerBase64(t *testing.T) {
	_, err := NewSealerBase64(base64.StdEncoding.EncodeToString(testKey))
	require.NoError(t, err)
	_, err = NewSealerBase64(base64.RawURLEncoding.EncodeToString(testKey))
	require.NoError(t, err)

	_, err = NewSealerBase64("short")
	assert.Error(t, err)
	_, err = NewSealer([]byte("short"))
	assert.Error(t, err)
}

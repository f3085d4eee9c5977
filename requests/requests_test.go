package requests

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", GetClientIP(r))
	assert.Equal(t, "192.0.2.7", RemoteIP(r))

	r.Header.Set("X-Real-IP", " 198.51.100.2 ")
	assert.Equal(t, "198.51.100.2", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", GetClientIP(r))
	assert.Equal(t, "192.0.2.7", RemoteIP(r), "headers never change the peer address")

	r.RemoteAddr = "@"
	assert.Equal(t, "@", RemoteIP(r))
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"nomeCliente"`
	}
	decode := func(method, body string) (payload, error) {
		var p payload
		r := httptest.NewRequest(method, "/", strings.NewReader(body))
		err := DecodeJSON(httptest.NewRecorder(), r, 64, &p)
		return p, err
	}

	p, err := decode(http.MethodPost, `{"nomeCliente":"Acme"}`)
	require.NoError(t, err)
	assert.Equal(t, "Acme", p.Name)

	_, err = decode(http.MethodPost, "")
	assert.ErrorIs(t, err, ErrEmptyBody)
	_, err = decode(http.MethodGet, `{"nomeCliente":"Acme"}`)
	assert.ErrorIs(t, err, ErrEmptyBody)
	for _, trailing := range []string{` {}`, `]`, `}`, ` x`, `,`} {
		_, err = decode(http.MethodPost, `{"nomeCliente":"Acme"}`+trailing)
		assert.Error(t, err, trailing)
	}
	_, err = decode(http.MethodPost, "{\"nomeCliente\":\"Acme\"}\n\t ")
	assert.NoError(t, err, "trailing whitespace is fine")
	_, err = decode(http.MethodPost, `{"nomeCliente":"`+strings.Repeat("a", 100)+`"}`)
	assert.Error(t, err, "body over the limit")
}

package responses

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSimpleErrorJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSimpleErrorJSON(rec, http.StatusBadRequest, "Selecione um cliente.")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{"type": "error", "message": "Selecione um cliente."}, body)
}

func TestWritePDFBytesWithFilename(t *testing.T) {
	rec := httptest.NewRecorder()
	WritePDFBytesWithFilename(rec, "ficha-tecnica-bolo.pdf", []byte("%PDF-1.3"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "8", rec.Header().Get("Content-Length"))
	disp, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disp)
	assert.Equal(t, "ficha-tecnica-bolo.pdf", params["filename"])
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
}

func TestNonASCIIFilename(t *testing.T) {
	rec := httptest.NewRecorder()
	WritePDFResponseHeaders(rec, "ficha-tecnica-pão.pdf", "inline", -1)
	_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "ficha-tecnica-pão.pdf", params["filename"])
	assert.Empty(t, rec.Header().Get("Content-Length"))
}

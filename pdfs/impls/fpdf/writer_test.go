package fpdf

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeptools/fichas/pdfs"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestWriterPlacesImages(t *testing.T) {
	w := New(pdfs.A4Size)
	w.SetTitle("Bolo de Cenoura")
	assert.Equal(t, pdfs.A4Size, w.PaperSize())

	for range 2 {
		w.AddBlankPage()
		require.NoError(t, w.PlaceImage(pngBytes(t, 20, 30), 0, 0, 210, 295))
	}
	assert.Equal(t, 2, w.PageCount())

	var buf bytes.Buffer
	n, err := w.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPlaceImageNeedsAPage(t *testing.T) {
	w := New(pdfs.A4Size)
	assert.Error(t, w.PlaceImage(pngBytes(t, 1, 1), 0, 0, 10, 10))
}

func TestPlaceImageRejectsGarbage(t *testing.T) {
	w := New(pdfs.A4Size)
	w.AddBlankPage()
	assert.Error(t, w.PlaceImage([]byte("not a png"), 0, 0, 10, 10))
	_, err := w.ProduceBytes()
	assert.Error(t, err)
}

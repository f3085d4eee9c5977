package pdfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandHeightA4(t *testing.T) {
	assert.Equal(t, 2248, BandHeight(1600, A4Size))
	assert.Equal(t, 2231, BandHeight(1588, A4Size)) // 794 px at scale 2
}

func TestPaginateCoversEveryRowOnce(t *testing.T) {
	cases := []struct {
		total, band, pages int
	}{
		{0, 100, 1},
		{1, 100, 1},
		{99, 100, 1},
		{100, 100, 1},
		{101, 100, 2},
		{250, 100, 3},
		{5000, 2247, 3},
	}
	for _, tc := range cases {
		bands := Paginate(tc.total, tc.band)
		require.Len(t, bands, tc.pages, "total=%d band=%d", tc.total, tc.band)
		next := 0
		for i, b := range bands {
			assert.Equal(t, next, b.Top, "band %d starts where the previous ended", i)
			assert.LessOrEqual(t, b.Height, tc.band)
			if i < len(bands)-1 {
				assert.Equal(t, tc.band, b.Height, "only the last band may be short")
			}
			next = b.Top + b.Height
		}
		assert.Equal(t, tc.total, next, "bands end at the bitmap bottom")
	}
}

func TestPaginateWithoutBandHeight(t *testing.T) {
	assert.Equal(t, []Band{{Top: 0, Height: 42}}, Paginate(42, 0))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "ficha-tecnica-bolo-de-cenoura.pdf", Filename("Bolo de Cenoura"))
	assert.Equal(t, "ficha-tecnica-pão-de-queijo.pdf", Filename("Pão \t de\nQueijo"))
	assert.Equal(t, "ficha-tecnica-.pdf", Filename(""))
	assert.Equal(t, "ficha-tecnica-bolo-1-2-kg.pdf", Filename("Bolo 1/2 kg"))
	assert.Equal(t, "ficha-tecnica-a-b-c-.pdf", Filename(`A\b: C?`))
	assert.Equal(t, "ficha-tecnica-..-..-etc.pdf", Filename("../../etc"))
}

func TestLayoutWidth(t *testing.T) {
	assert.Equal(t, 794, A4Size.LayoutWidthPx())
	assert.InDelta(t, 295.0, A4Size.SliceHeight(), 1e-9)
}

func TestPaperSizeByName(t *testing.T) {
	p, ok := PaperSizeByName("letter")
	assert.True(t, ok)
	assert.Equal(t, LetterSize, p)
	_, ok = PaperSizeByName("A5")
	assert.False(t, ok)
}

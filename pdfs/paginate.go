package pdfs

import "math"

// Band is a horizontal strip [Top, Top+Height) of the captured bitmap, in device pixels
type Band struct {
	Top    int
	Height int
}

// BandHeight is the number of bitmap rows that fill one page slice when a
// bitmap widthPx wide is scaled to the paper width.
func BandHeight(widthPx int, paper PaperSize) int {
	return int(math.Round(float64(widthPx) * paper.SliceHeight() / paper.Width))
}

// Paginate cuts total rows into max(1, ceil(total/band)) contiguous bands.
// Only the last band may be shorter than band. A zero-height bitmap still yields one empty band.
func Paginate(total, band int) []Band {
	if total < 0 {
		total = 0
	}
	if band <= 0 {
		return []Band{{Top: 0, Height: total}}
	}
	n := max(1, (total+band-1)/band)
	out := make([]Band, n)
	for i := range out {
		top := i * band
		out[i] = Band{Top: top, Height: min(band, total-top)}
	}
	return out
}

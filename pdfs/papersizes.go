package pdfs

import "strings"

// PaperSize is measured in millimetres
type PaperSize struct {
	Name   string
	Width  float64
	Height float64
}

var (
	LetterSize = PaperSize{Name: "Letter", Width: 215.9, Height: 279.4} // 8.5" x 11"
	A4Size     = PaperSize{Name: "A4", Width: 210, Height: 297}
)

// SliceMarginMM is left blank at the bottom of every page: an A4 page carries 295 mm of content
const SliceMarginMM = 2.0

func (p PaperSize) SliceHeight() float64 {
	return p.Height - SliceMarginMM
}

// CSS pixels per millimetre at 96 dpi
const pxPerMM = 96 / 25.4

// LayoutWidthPx is the layout width of an A4 page in CSS pixels (210 mm → 794 px)
func (p PaperSize) LayoutWidthPx() int {
	return int(p.Width*pxPerMM + 0.5)
}

// PaperSizeByName looks a size up by its case-insensitive name
func PaperSizeByName(name string) (PaperSize, bool) {
	for _, p := range []PaperSize{A4Size, LetterSize} {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return PaperSize{}, false
}

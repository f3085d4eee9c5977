package pdfs

import "io"

// Writer is a minimal, append-only PDF sink. Pages are added in order and
// receive whole PNG images; there is no page navigation.
type Writer interface {
	PaperSize() PaperSize
	SetTitle(title string)

	AddBlankPage()
	// PlaceImage puts a PNG on the current page. Units are millimetres.
	PlaceImage(png []byte, x, y, w, h float64) error

	PageCount() int
	WriteTo(w io.Writer) (int64, error)
	ProduceBytes() ([]byte, error)
}

// WriterFactory opens a new empty document
type WriterFactory func(size PaperSize) Writer

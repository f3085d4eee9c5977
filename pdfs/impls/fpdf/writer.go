// Package fpdf implements pdfs.Writer with github.com/go-pdf/fpdf
package fpdf

import (
	"bytes"
	"fmt"
	"io"

	gofpdf "github.com/go-pdf/fpdf"
	"github.com/zeptools/fichas/pdfs"
	"github.com/zeptools/fichas/rw"
)

type Writer struct {
	doc    *gofpdf.Fpdf
	size   pdfs.PaperSize
	images int
}

var _ pdfs.Writer = (*Writer)(nil)

// New starts an empty portrait document measured in millimetres
func New(size pdfs.PaperSize) *Writer {
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("fichas", true)
	return &Writer{doc: doc, size: size}
}

// Factory adapts New to pdfs.WriterFactory
func Factory(size pdfs.PaperSize) pdfs.Writer {
	return New(size)
}

func (w *Writer) PaperSize() pdfs.PaperSize {
	return w.size
}

func (w *Writer) SetTitle(title string) {
	w.doc.SetTitle(title, true)
}

func (w *Writer) AddBlankPage() {
	w.doc.AddPage()
}

func (w *Writer) PageCount() int {
	return w.doc.PageCount()
}

func (w *Writer) PlaceImage(png []byte, x, y, width, height float64) error {
	if w.doc.PageCount() == 0 {
		return fmt.Errorf("place image: no page")
	}
	name := fmt.Sprintf("band-%d", w.images)
	w.images++
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	w.doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	if err := w.doc.Error(); err != nil {
		return fmt.Errorf("register image: %w", err)
	}
	// negative y lets a caller shift a tall image upwards
	opts.AllowNegativePosition = true
	w.doc.ImageOptions(name, x, y, width, height, false, opts, 0, "")
	return w.doc.Error()
}

// WriteTo implements io.WriterTo
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	cw := rw.NewCountWriter(dst)
	err := w.doc.Output(cw)
	return cw.BytesWritten(), err
}

func (w *Writer) ProduceBytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package pdfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrGenerationFailed is the only error Render and Export return for rendering
// problems. The cause is logged, never passed on.
var ErrGenerationFailed = errors.New("falha ao gerar o PDF")

// UserMessage is what a person sees when generation fails
const UserMessage = "Falha ao gerar o PDF."

const DefaultScale = 2.0

type SurfaceOptions struct {
	Width int     // layout width, CSS px
	Scale float64 // device pixels per CSS px
}

// Surface is an off-screen rendering of one document
type Surface interface {
	Capture(ctx context.Context) (image.Image, error)
	Close() error
}

type Rasterizer interface {
	// Materialize lays doc out. On error it leaves nothing behind.
	Materialize(ctx context.Context, doc *Document, opts SurfaceOptions) (Surface, error)
}

type Saver interface {
	Save(ctx context.Context, name string, data []byte) error
}

type SaverFunc func(ctx context.Context, name string, data []byte) error

func (f SaverFunc) Save(ctx context.Context, name string, data []byte) error {
	return f(ctx, name, data)
}

// DirSaver writes files into Dir, creating it when missing.
// name must be a single path element.
type DirSaver struct {
	Dir string
}

func (s DirSaver) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("pdfs: invalid file name %q", name)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.Dir, name), data, 0o644)
}

type Result struct {
	Filename string
	PDF      []byte
	Pages    int
}

type Pipeline struct {
	Rasterizer Rasterizer
	NewWriter  WriterFactory
	Paper      PaperSize
	Scale      float64
	Logger     *zap.Logger
}

func NewPipeline(r Rasterizer, newWriter WriterFactory, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		Rasterizer: r,
		NewWriter:  newWriter,
		Paper:      A4Size,
		Scale:      DefaultScale,
		Logger:     logger.Named("pdf"),
	}
}

// Render turns doc into a paginated PDF held in memory
func (p *Pipeline) Render(ctx context.Context, doc *Document) (Result, error) {
	res, err := p.render(ctx, doc)
	if err != nil {
		p.Logger.Error("pdf generation failed", zap.String("title", doc.Title), zap.Error(err))
		return Result{}, ErrGenerationFailed
	}
	p.Logger.Info("pdf generated",
		zap.String("file", res.Filename),
		zap.Int("pages", res.Pages),
		zap.Int("bytes", len(res.PDF)),
	)
	return res, nil
}

// Export renders doc and hands the file to saver. It returns the file name.
func (p *Pipeline) Export(ctx context.Context, doc *Document, saver Saver) (string, error) {
	res, err := p.Render(ctx, doc)
	if err != nil {
		return "", err
	}
	if err = saver.Save(ctx, res.Filename, res.PDF); err != nil {
		p.Logger.Error("saving pdf failed", zap.String("file", res.Filename), zap.Error(err))
		return "", ErrGenerationFailed
	}
	return res.Filename, nil
}

func (p *Pipeline) render(ctx context.Context, doc *Document) (_ Result, err error) {
	if p.Rasterizer == nil || p.NewWriter == nil {
		return Result{}, errors.New("pipeline is missing a rasterizer or writer")
	}
	width := doc.Width
	if width <= 0 {
		width = p.Paper.LayoutWidthPx()
	}
	scale := p.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	surface, err := p.Rasterizer.Materialize(ctx, doc, SurfaceOptions{Width: width, Scale: scale})
	if err != nil {
		return Result{}, fmt.Errorf("materialize: %w", err)
	}
	defer func() {
		if closeErr := surface.Close(); closeErr != nil {
			p.Logger.Warn("closing surface", zap.Error(closeErr))
		}
	}()

	bitmap, err := surface.Capture(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("capture: %w", err)
	}
	bounds := bitmap.Bounds()
	if bounds.Dx() <= 0 {
		return Result{}, fmt.Errorf("capture: empty bitmap %v", bounds)
	}

	w := p.NewWriter(p.Paper)
	w.SetTitle(doc.Title)
	pageWidth := p.Paper.Width
	bands := Paginate(bounds.Dy(), BandHeight(bounds.Dx(), p.Paper))
	for i, band := range bands {
		if err = ctx.Err(); err != nil {
			return Result{}, err
		}
		w.AddBlankPage()
		if band.Height == 0 {
			continue
		}
		data, err := encodeBand(bitmap, band)
		if err != nil {
			return Result{}, fmt.Errorf("encode band %d: %w", i, err)
		}
		h := float64(band.Height) * pageWidth / float64(bounds.Dx())
		if err = w.PlaceImage(data, 0, 0, pageWidth, h); err != nil {
			return Result{}, fmt.Errorf("place band %d: %w", i, err)
		}
	}

	out, err := w.ProduceBytes()
	if err != nil {
		return Result{}, fmt.Errorf("serialize: %w", err)
	}
	return Result{Filename: Filename(doc.Title), PDF: out, Pages: len(bands)}, nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func encodeBand(src image.Image, band Band) ([]byte, error) {
	b := src.Bounds()
	rect := image.Rect(b.Min.X, b.Min.Y+band.Top, b.Max.X, b.Min.Y+band.Top+band.Height)
	var part image.Image
	if si, ok := src.(subImager); ok {
		part = si.SubImage(rect)
	} else {
		dst := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
		draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
		part = dst
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, part); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Package software rasterizes documents in process with the gogpu/gg 2D renderer.
// It needs no browser, so it backs tests and hosts without Chrome.
package software

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/zeptools/fichas/pdfs"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// MaxLayoutHeight bounds the bitmap a single document may produce, in CSS px
const MaxLayoutHeight = 60000

type Rasterizer struct {
	fonts  *fontSet
	logger *zap.Logger
}

var _ pdfs.Rasterizer = (*Rasterizer)(nil)

func New(logger *zap.Logger) (*Rasterizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	regular, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	return &Rasterizer{
		fonts:  &fontSet{regular: regular, bold: bold, faces: map[faceKey]text.Face{}},
		logger: logger.Named("software"),
	}, nil
}

func (r *Rasterizer) Materialize(ctx context.Context, doc *pdfs.Document, opts pdfs.SurfaceOptions) (pdfs.Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("empty document")
	}
	if opts.Width <= 0 {
		return nil, fmt.Errorf("invalid layout width %d", opts.Width)
	}
	l := &layouter{fonts: r.fonts, logger: r.logger}
	root := l.layout(doc.Root, defaultInherited, float64(opts.Width))
	height := int(math.Ceil(root.h))
	if height > MaxLayoutHeight {
		return nil, fmt.Errorf("document too tall: %d px", height)
	}
	r.logger.Debug("document laid out", zap.Int("width", opts.Width), zap.Int("height", height))
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	return &surface{root: root, width: opts.Width, height: max(height, 1), scale: scale}, nil
}

// surface paints lazily on the first Capture and keeps the gg context until Close
type surface struct {
	root   *box
	width  int
	height int
	scale  float64

	mu  sync.Mutex
	dc  *gg.Context
	img image.Image
}

func (s *surface) Capture(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img != nil {
		return s.img, nil
	}
	dc := gg.NewContextWithScale(s.width, s.height, s.scale)
	s.dc = dc
	p := &painter{dc: dc}
	p.fillRect(0, 0, float64(s.width), float64(s.height), 0, "#ffffff")
	p.paint(s.root, 0, 0)
	if p.err != nil {
		return nil, fmt.Errorf("paint: %w", p.err)
	}
	s.img = dc.Image()
	return s.img, nil
}

func (s *surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = nil
	if s.dc == nil {
		return nil
	}
	err := s.dc.Close()
	s.dc = nil
	return err
}

type faceKey struct {
	size float64
	bold bool
}

type fontSet struct {
	regular *text.FontSource
	bold    *text.FontSource

	mu    sync.Mutex
	faces map[faceKey]text.Face
}

func (f *fontSet) face(size float64, bold bool) text.Face {
	k := faceKey{size, bold}
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[k]; ok {
		return face
	}
	src := f.regular
	if bold {
		src = f.bold
	}
	face := src.Face(size)
	f.faces[k] = face
	return face
}

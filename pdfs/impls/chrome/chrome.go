// Package chrome rasterizes documents in headless Chrome through go-rod.
// The HTML materialization of a document is loaded into a fresh tab that is
// closed again when the surface is closed.
package chrome

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/zeptools/fichas/pdfs"
	"go.uber.org/zap"
)

// initial viewport height; the full page screenshot grows it to the content
const viewportHeight = 1123

type Config struct {
	ControlURL string        `json:"control_url" yaml:"control_url"` // attach to a running browser
	Bin        string        `json:"chrome_bin" yaml:"chrome_bin"`   // browser binary when launching
	NoSandbox  bool          `json:"no_sandbox" yaml:"no_sandbox"`
	Timeout    time.Duration `json:"timeout" yaml:"timeout"` // per Materialize and per Capture
}

type Rasterizer struct {
	cfg    Config
	logger *zap.Logger

	mu       sync.Mutex
	browser  *rod.Browser
	conn     *cdp.WebSocket
	launched *launcher.Launcher // nil when attached through ControlURL
}

var _ pdfs.Rasterizer = (*Rasterizer)(nil)

func New(cfg Config, logger *zap.Logger) *Rasterizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rasterizer{cfg: cfg, logger: logger.Named("chrome")}
}

func (r *Rasterizer) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, r.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// ensureBrowser connects once and reuses the connection while it answers
func (r *Rasterizer) ensureBrowser(ctx context.Context) (*rod.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		if _, err := r.browser.Version(); err == nil {
			return r.browser, nil
		}
		r.logger.Warn("stale browser connection, reconnecting")
		r.closeLocked()
	}

	controlURL := r.cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(true).NoSandbox(r.cfg.NoSandbox)
		if r.cfg.Bin != "" {
			l = l.Bin(r.cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		r.launched = l
		controlURL = u
		r.logger.Info("chrome launched", zap.String("control_url", controlURL))
	}

	// the connection outlives this request, so it is not bound to ctx
	conn := &cdp.WebSocket{}
	if err := conn.Connect(context.Background(), controlURL, nil); err != nil {
		r.killLauncherLocked()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	browser := rod.New().ControlURL("").Client(cdp.New().Start(conn)).NoDefaultDevice()
	if err := browser.Connect(); err != nil {
		_ = conn.Close()
		r.killLauncherLocked()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	r.browser = browser
	r.conn = conn
	return browser, nil
}

func (r *Rasterizer) Materialize(ctx context.Context, doc *pdfs.Document, opts pdfs.SurfaceOptions) (_ pdfs.Surface, err error) {
	html, err := pdfs.HTML(doc)
	if err != nil {
		return nil, err
	}
	browser, err := r.ensureBrowser(ctx)
	if err != nil {
		return nil, err
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer func() {
		if err != nil {
			_ = page.Close()
		}
	}()

	tctx, cancel := r.withTimeout(ctx)
	defer cancel()
	p := page.Context(tctx)
	err = p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            viewportHeight,
		DeviceScaleFactor: opts.Scale,
	})
	if err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	if err = p.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("set content: %w", err)
	}
	if err = p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}
	return &surface{page: page, rz: r}, nil
}

// Close disconnects from the browser and stops it when it was launched here.
// A browser attached through ControlURL keeps running.
func (r *Rasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closeLocked()
}

func (r *Rasterizer) closeLocked() error {
	var err error
	if r.browser != nil {
		if r.launched != nil {
			err = r.browser.Close()
		}
		_ = r.conn.Close()
		r.browser, r.conn = nil, nil
	}
	r.killLauncherLocked()
	return err
}

func (r *Rasterizer) killLauncherLocked() {
	if r.launched != nil {
		r.launched.Kill()
		r.launched.Cleanup()
		r.launched = nil
	}
}

type surface struct {
	page *rod.Page
	rz   *Rasterizer
	once sync.Once
}

func (s *surface) Capture(ctx context.Context) (image.Image, error) {
	tctx, cancel := s.rz.withTimeout(ctx)
	defer cancel()
	data, err := s.page.Context(tctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return img, nil
}

func (s *surface) Close() error {
	var err error
	s.once.Do(func() {
		err = s.page.Close()
	})
	return err
}

package conf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/zeptools/fichas/db"
	"github.com/zeptools/fichas/db/kvdb"
	"github.com/zeptools/fichas/db/kvdb/impls/memory"
	"github.com/zeptools/fichas/db/kvdb/impls/redis"
	"github.com/zeptools/fichas/db/kvdb/impls/sqlslots"
	"github.com/zeptools/fichas/db/sqldb/impls/mysql"
	"github.com/zeptools/fichas/db/sqldb/impls/pgsql"
	"github.com/zeptools/fichas/db/sqldb/impls/sqlite"
	"github.com/zeptools/fichas/pdfs"
	"github.com/zeptools/fichas/pdfs/impls/chrome"
	"github.com/zeptools/fichas/pdfs/impls/fpdf"
	"github.com/zeptools/fichas/pdfs/impls/software"
	"github.com/zeptools/fichas/records"
	"github.com/zeptools/fichas/repos"
	"github.com/zeptools/fichas/routing"
	"github.com/zeptools/fichas/sheets"
	"github.com/zeptools/fichas/svc"
	"github.com/zeptools/fichas/throttle"
	"github.com/zeptools/fichas/uds"
	"github.com/zeptools/fichas/web"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ThrottleGroupPDF is the bucket group guarding PDF downloads
const ThrottleGroupPDF = "pdf"

// Core - common config and the resources built from it
type Core struct {
	AppName     string       `json:"app_name" yaml:"app_name"`
	Listen      string       `json:"listen" yaml:"listen"`             // HTTP Server Listen IP:PORT Address
	AdminSocket string       `json:"admin_socket" yaml:"admin_socket"` // unix socket path, relative to AppRoot. empty = off
	Log         LogConf      `json:"log" yaml:"log"`
	Storage     kvdb.Conf    `json:"storage" yaml:"storage"`
	PDF         PDFConf      `json:"pdf" yaml:"pdf"`
	Throttle    ThrottleConf `json:"throttle" yaml:"throttle"`

	AppRoot             string                        `json:"-" yaml:"-"` // base for relative paths
	RootCtx             context.Context               `json:"-" yaml:"-"` // Global Context with RootCancel
	RootCancel          context.CancelFunc            `json:"-" yaml:"-"` // CancelFunc for RootCtx
	Logger              *zap.Logger                   `json:"-" yaml:"-"` // PrepareLogger
	KVDBClient          kvdb.Client                   `json:"-" yaml:"-"` // PrepareStorage
	Repos               *repos.Repos                  `json:"-" yaml:"-"` // PrepareSheets
	Rasterizer          pdfs.Rasterizer               `json:"-" yaml:"-"` // PrepareSheets
	Sheets              *sheets.Service               `json:"-" yaml:"-"` // PrepareSheets
	ThrottleBucketStore *throttle.BucketStore[string] `json:"-" yaml:"-"` // PrepareThrottleBucketStore
	WebService          *web.Service                  `json:"-" yaml:"-"` // PrepareWebService
	UDSService          *uds.Service                  `json:"-" yaml:"-"` // PrepareUDSService

	services []svc.Service // Services to Manage
	done     chan error
}

// Defaults returns a Core that runs with no config file at all
func Defaults() *Core {
	return &Core{
		AppName: "fichas",
		Listen:  "127.0.0.1:8080",
		Log:     LogConf{Level: "info", Format: "console"},
		Storage: kvdb.Conf{Type: sqlite.DBType},
		PDF: PDFConf{
			Rasterizer: "software",
			OutDir:     ".",
			Scale:      pdfs.DefaultScale,
			Paper:      pdfs.A4Size.Name,
			Timeout:    Duration(30 * time.Second),
		},
		Throttle: ThrottleConf{
			Burst:            6,
			Increment:        1,
			Period:           Duration(10 * time.Second),
			CleanupCycle:     Duration(5 * time.Minute),
			CleanupOlderThan: Duration(30 * time.Minute),
		},
	}
}

// LoadFile reads path over the current values. .yaml and .yml are YAML, anything else JSON.
func (c *Core) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, c)
	default:
		err = json.Unmarshal(b, c)
	}
	if err != nil {
		return fmt.Errorf("conf: %s: %w", path, err)
	}
	return nil
}

// BaseInit - 1st step for initialization
// 1. set AppRoot
// 2. load config/.core.json file
// 3. prepare the logger
// 4. Start ShutdownSignalListener
func (c *Core) BaseInit(appRoot string, rootCtx context.Context, rootCancel context.CancelFunc) error {
	return c.InitFromFile(appRoot, filepath.Join(appRoot, "config", ".core.json"), rootCtx, rootCancel)
}

// InitFromFile is BaseInit with an explicit config file. An empty confPath keeps the defaults.
func (c *Core) InitFromFile(appRoot, confPath string, rootCtx context.Context, rootCancel context.CancelFunc) error {
	c.AppRoot = appRoot
	if confPath != "" {
		if err := c.LoadFile(confPath); err != nil {
			return err
		}
	}
	c.RootCtx = rootCtx
	c.RootCancel = rootCancel
	if err := c.PrepareLogger(); err != nil {
		return err
	}
	c.startShutdownSignalListener()
	return nil
}

// Path resolves p against AppRoot unless it is absolute
func (c *Core) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.AppRoot, p)
}

func (c *Core) PrepareLogger() error {
	var cfg zap.Config
	switch c.Log.Format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
	default:
		return fmt.Errorf("conf: unknown log format %q", c.Log.Format)
	}
	if c.Log.Level != "" {
		level, err := zapcore.ParseLevel(c.Log.Level)
		if err != nil {
			return fmt.Errorf("conf: log level: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	c.Logger = logger.With(zap.String("app", c.AppName))
	zap.ReplaceGlobals(c.Logger)
	return nil
}

func (c *Core) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Core) AddService(s svc.Service) {
	c.services = append(c.services, s)
	c.logger().Info("service added", zap.String("service", s.Name()), zap.Int("total", len(c.services)))
}

func (c *Core) StartServices() error {
	c.done = make(chan error, len(c.services))
	for _, s := range c.services {
		if err := s.Start(); err != nil {
			return fmt.Errorf("%s: %w", s.Name(), err)
		}
		go func() {
			c.done <- <-s.Done()
		}()
	}
	return nil
}

// WaitServicesDone blocks until every started service reported its shutdown.
// The first service to end cancels RootCtx, which stops the rest.
func (c *Core) WaitServicesDone() error {
	var errs []error
	for i := range c.services {
		if err := <-c.done; err != nil {
			errs = append(errs, err)
		}
		if i == 0 && c.RootCancel != nil {
			c.RootCancel()
		}
	}
	return errors.Join(errs...)
}

func (c *Core) StopServices() {
	for _, s := range c.services {
		s.Stop()
	}
}

var once sync.Once

func (c *Core) startShutdownSignalListener() {
	if c.RootCancel == nil {
		return
	}
	once.Do(func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigs
			c.logger().Info("shutting down", zap.String("signal", sig.String()))
			c.RootCancel() // broadcast to all child services via Context.Done()
		}()
		c.logger().Debug("shutdown signal listener started")
	})
}

// PrepareStorage registers every slot backend and opens the configured one
func (c *Core) PrepareStorage() error {
	logger := c.logger()
	memory.Register()
	redis.Register(logger)
	sqlite.Register(logger)
	pgsql.Register(logger)
	mysql.Register(logger)
	sqlslots.Register(logger)

	st := c.Storage
	if st.Type == sqlite.DBType {
		if st.SQL.DB == "" {
			st.SQL.DB = filepath.Join("data", "fichas.db")
		}
		st.SQL.DB = c.Path(st.SQL.DB)
		if err := os.MkdirAll(filepath.Dir(st.SQL.DB), 0o755); err != nil {
			return err
		}
	}
	client, err := kvdb.New(&st)
	if err != nil {
		return err
	}
	if err = client.Init(); err != nil {
		return fmt.Errorf("storage %q: %w", st.Type, err)
	}
	c.KVDBClient = client
	logger.Info("storage ready", zap.String("type", st.Type), zap.Bool("sealed", st.EncryptionKey != ""))
	return nil
}

func (c *Core) paper() (pdfs.PaperSize, error) {
	if c.PDF.Paper == "" {
		return pdfs.A4Size, nil
	}
	p, ok := pdfs.PaperSizeByName(c.PDF.Paper)
	if !ok {
		return pdfs.PaperSize{}, fmt.Errorf("conf: unknown paper %q", c.PDF.Paper)
	}
	return p, nil
}

func (c *Core) newRasterizer() (pdfs.Rasterizer, error) {
	switch c.PDF.Rasterizer {
	case "", "software":
		return software.New(c.logger())
	case "chrome":
		return chrome.New(chrome.Config{
			ControlURL: c.PDF.ControlURL,
			Bin:        c.PDF.ChromeBin,
			NoSandbox:  c.PDF.NoSandbox,
			Timeout:    c.PDF.Timeout.Std(),
		}, c.logger()), nil
	default:
		return nil, fmt.Errorf("conf: unknown rasterizer %q", c.PDF.Rasterizer)
	}
}

// PrepareSheets builds repositories, the PDF pipeline and the sheets service.
// Use after PrepareStorage.
func (c *Core) PrepareSheets() error {
	if c.KVDBClient == nil {
		return errors.New("conf: storage not prepared")
	}
	logger := c.logger()
	paper, err := c.paper()
	if err != nil {
		return err
	}
	raster, err := c.newRasterizer()
	if err != nil {
		return err
	}
	pipeline := pdfs.NewPipeline(raster, fpdf.Factory, logger)
	pipeline.Paper = paper
	if c.PDF.Scale > 0 {
		pipeline.Scale = c.PDF.Scale
	}

	c.Rasterizer = raster
	c.Repos = repos.New(records.NewStore(c.KVDBClient, logger), repos.Options{Logger: logger})
	c.Sheets = sheets.New(c.Repos, pipeline, sheets.Options{
		Logger:  logger,
		Compose: []pdfs.ComposeOption{pdfs.WithPaper(paper)},
	})
	return nil
}

// ExportDir is where exported PDFs land
func (c *Core) ExportDir() string {
	if c.PDF.OutDir == "" {
		return c.AppRoot
	}
	return c.Path(c.PDF.OutDir)
}

func (c *Core) PrepareThrottleBucketStore() {
	t := c.Throttle
	if t.Burst <= 0 {
		return
	}
	c.ThrottleBucketStore = throttle.NewBucketStore[string](c.RootCtx, t.CleanupCycle.Std(), t.CleanupOlderThan.Std(), c.logger())
	c.ThrottleBucketStore.SetBucketGroup(ThrottleGroupPDF, throttle.BucketConf{
		Burst:     t.Burst,
		Increment: t.Increment,
		Period:    t.Period.Std(),
	})
	c.AddService(c.ThrottleBucketStore)
}

// Router builds the HTTP routes. Use after PrepareSheets and PrepareThrottleBucketStore.
func (c *Core) Router() *routing.BaseRouter {
	logger := c.logger()
	var pdfWrappers []routing.HandlerWrapper
	if c.ThrottleBucketStore != nil {
		pdfWrappers = append(pdfWrappers, throttle.PerIPWrapper(c.ThrottleBucketStore, ThrottleGroupPDF, c.Throttle.BehindProxy))
	}
	router := routing.NewBaseRouter()
	web.NewAPI(c.Sheets, logger).Routes(router, pdfWrappers,
		routing.AccessLogWrapper(logger.Named("access")),
		routing.RecoverWrapper(logger),
	)
	return router
}

func (c *Core) PrepareWebService() {
	c.WebService = web.NewService(c.RootCtx, c.Listen, c.Router(), c.logger())
	c.AddService(c.WebService)
}

// PrepareUDSService adds the admin console when AdminSocket is set
func (c *Core) PrepareUDSService() {
	if c.AdminSocket == "" {
		return
	}
	c.UDSService = uds.NewService(c.RootCtx, c.Path(c.AdminSocket), AdminCommands(c.Sheets, c.ExportDir()), c.logger())
	c.AddService(c.UDSService)
}

func (c *Core) ResourceCleanUp() {
	logger := c.logger()
	logger.Info("cleaning up resources")
	if closer, ok := c.Rasterizer.(io.Closer); ok {
		db.CloseClient("rasterizer", closer, logger)
	}
	if c.KVDBClient != nil {
		db.CloseClient("storage", c.KVDBClient, logger)
	}
	_ = logger.Sync()
}

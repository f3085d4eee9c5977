package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/zeptools/fichas/db/sqldb"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // side-effect: registers "sqlite"
)

const DBType = "sqlite"

type Client struct {
	Conf   *sqldb.Conf
	Logger *zap.Logger
	db     *sql.DB
	dsn    string
}

// Ensure sqlite.Client implements sqldb.Client interface
var _ sqldb.Client = (*Client)(nil)

// Register makes "sqlite" available to sqldb.New
func Register(logger *zap.Logger) {
	sqldb.RegisterFactory(DBType, func(conf *sqldb.Conf) (sqldb.Client, error) {
		return &Client{Conf: conf, Logger: logger}, nil
	})
}

// DSN for a database file. WAL plus a busy timeout keeps the CLI and the server from tripping over each other.
func DSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + path + "?" + q.Encode()
}

func (c *Client) Init() error {
	var err error
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	switch {
	case c.Conf.DSN != "":
		c.dsn = c.Conf.DSN
	case c.Conf.DB != "":
		if dir := filepath.Dir(c.Conf.DB); dir != "." {
			if err = os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("sqlite: create data dir: %w", err)
			}
		}
		c.dsn = DSN(c.Conf.DB)
	default:
		return errors.New("sqlite: conf needs `db` (file path) or `dsn`")
	}
	if c.db, err = sql.Open("sqlite", c.dsn); err != nil {
		return err
	}
	// one writer at a time; sqlite serializes writes anyway
	c.db.SetMaxOpenConns(1)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = c.Ping(ctx); err != nil {
		_ = c.db.Close()
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	c.Logger.Info("sqlite client initialized", zap.String("db", c.Conf.DB))
	return nil
}

func (c *Client) GetConf() *sqldb.Conf {
	return c.Conf
}

func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *Client) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	return c.db.ExecContext(ctx, query, args...)
}

func (c *Client) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	return row{c.db.QueryRowContext(ctx, query, args...)}
}

func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return err
	}
	c.Logger.Info("sqlite client closed")
	return nil
}

type row struct {
	*sql.Row
}

func (r row) Scan(dest ...any) error {
	err := r.Row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return sqldb.ErrNoRows
	}
	return err
}

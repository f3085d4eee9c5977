package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zeptools/fichas/db/sqldb"
	"go.uber.org/zap"
)

const DBType = "pgsql"

type Client struct {
	Handle // [Embedded] for Promoted Methods
	Conf   *sqldb.Conf
	Logger *zap.Logger
	dsn    string
}

// Ensure pgsql.Client implements sqldb.Client interface
var _ sqldb.Client = (*Client)(nil)

// Register makes "pgsql" available to sqldb.New
func Register(logger *zap.Logger) {
	sqldb.RegisterFactory(DBType, func(conf *sqldb.Conf) (sqldb.Client, error) {
		return &Client{Conf: conf, Logger: logger}, nil
	})
}

func (c *Client) Init() error {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Conf.DSN != "" {
		c.dsn = c.Conf.DSN
	} else {
		// NOTE: sslmode=disable is often used for local dev, adjust as needed.
		c.dsn = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.Conf.Host,
			c.Conf.Port,
			c.Conf.User,
			c.Conf.PW,
			c.Conf.DB,
		)
		if c.Conf.TZ != "" {
			c.dsn += " TimeZone=" + c.Conf.TZ
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	config, err := pgxpool.ParseConfig(c.dsn)
	if err != nil {
		return fmt.Errorf("failed to parse pgx config: %w", err)
	}
	// a handful of slots never needs a big pool
	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = 3 * time.Minute
	if c.Pool, err = pgxpool.NewWithConfig(ctx, config); err != nil {
		return fmt.Errorf("failed to connect pgx pool: %w", err)
	}
	if err = c.Ping(ctx); err != nil {
		c.Pool.Close()
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	c.Logger.Info("pgsql client initialized", zap.String("host", c.Conf.Host), zap.String("db", c.Conf.DB))
	return nil
}

func (c *Client) GetConf() *sqldb.Conf {
	return c.Conf
}

func (c *Client) Close() error {
	if c.Pool == nil {
		return nil
	}
	c.Pool.Close()
	c.Logger.Info("pgsql client closed")
	return nil
}

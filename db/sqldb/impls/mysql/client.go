package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // side-effect
	"github.com/zeptools/fichas/db/sqldb"
	"go.uber.org/zap"
)

const DBType = "mysql"

type Client struct {
	Handle // [Embedded]
	Conf   *sqldb.Conf
	Logger *zap.Logger
	dsn    string
}

// Ensure mysql.Client implements sqldb.Client interface
var _ sqldb.Client = (*Client)(nil)

// Register makes "mysql" available to sqldb.New
func Register(logger *zap.Logger) {
	sqldb.RegisterFactory(DBType, func(conf *sqldb.Conf) (sqldb.Client, error) {
		return &Client{Conf: conf, Logger: logger}, nil
	})
}

func (c *Client) Init() error {
	var err error
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Conf.DSN != "" {
		c.dsn = c.Conf.DSN
	} else {
		loc := c.Conf.TZ
		if loc == "" {
			loc = "UTC"
		}
		c.dsn = fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=%s&sql_mode=ANSI_QUOTES",
			c.Conf.User,
			c.Conf.PW,
			c.Conf.Host,
			c.Conf.Port,
			c.Conf.DB,
			loc,
		)
	}
	if c.DB, err = sql.Open("mysql", c.dsn); err != nil {
		return err
	}
	c.DB.SetConnMaxLifetime(time.Minute * 3)
	c.DB.SetMaxOpenConns(4)
	c.DB.SetMaxIdleConns(4)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = c.Ping(ctx); err != nil {
		_ = c.DB.Close()
		return fmt.Errorf("mysql ping failed: %w", err)
	}
	c.Logger.Info("mysql client initialized", zap.String("host", c.Conf.Host), zap.String("db", c.Conf.DB))
	return nil
}

func (c *Client) GetConf() *sqldb.Conf {
	return c.Conf
}

func (c *Client) Close() error {
	if c.DB == nil {
		return nil
	}
	if err := c.DB.Close(); err != nil {
		return err
	}
	c.Logger.Info("mysql client closed")
	return nil
}

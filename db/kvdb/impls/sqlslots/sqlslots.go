// Package sqlslots stores kvdb slots as rows of a single table in a SQL database
package sqlslots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeptools/fichas/db/kvdb"
	"github.com/zeptools/fichas/db/sqldb"
	"go.uber.org/zap"
)

const (
	Table              = "fichas_slots"
	defaultInitTimeout = 10 * time.Second
)

var dialects = map[string]dialect{
	"sqlite": {
		create: `CREATE TABLE IF NOT EXISTS ` + Table + ` (slot_key VARCHAR(191) PRIMARY KEY, slot_value TEXT NOT NULL)`,
		upsert: `INSERT INTO ` + Table + ` (slot_key, slot_value) VALUES (?, ?) ON CONFLICT (slot_key) DO UPDATE SET slot_value = excluded.slot_value`,
	},
	"pgsql": {
		create: `CREATE TABLE IF NOT EXISTS ` + Table + ` (slot_key VARCHAR(191) PRIMARY KEY, slot_value TEXT NOT NULL)`,
		upsert: `INSERT INTO ` + Table + ` (slot_key, slot_value) VALUES (?, ?) ON CONFLICT (slot_key) DO UPDATE SET slot_value = EXCLUDED.slot_value`,
	},
	"mysql": {
		create: `CREATE TABLE IF NOT EXISTS ` + Table + ` (slot_key VARCHAR(191) PRIMARY KEY, slot_value LONGTEXT NOT NULL) DEFAULT CHARSET=utf8mb4`,
		upsert: `INSERT INTO ` + Table + ` (slot_key, slot_value) VALUES (?, ?) ON DUPLICATE KEY UPDATE slot_value = VALUES(slot_value)`,
	},
}

const (
	selectQuery = `SELECT slot_value FROM ` + Table + ` WHERE slot_key = ?`
	deleteQuery = `DELETE FROM ` + Table + ` WHERE slot_key IN (??)`
)

type dialect struct {
	create string
	upsert string
}

type Client struct {
	Conf   *kvdb.Conf
	Logger *zap.Logger

	db      sqldb.Client
	prefix  byte
	selectQ string
	upsertQ string
}

// Ensure sqlslots.Client implements kvdb.Client interface
var _ kvdb.Client = (*Client)(nil)

// Register makes every SQL dialect usable as a kvdb type.
// The matching sqldb implementation must be registered too.
func Register(logger *zap.Logger) {
	for dbType := range dialects {
		kvdb.RegisterFactory(dbType, func(conf *kvdb.Conf) (kvdb.Client, error) {
			return &Client{Conf: conf, Logger: logger}, nil
		})
	}
}

// NewWithDB wraps an already initialized sqldb client
func NewWithDB(conf *kvdb.Conf, db sqldb.Client, logger *zap.Logger) (*Client, error) {
	c := &Client{Conf: conf, Logger: logger, db: db}
	if err := c.Init(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) Init() error {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	sqlConf := &c.Conf.SQL
	if sqlConf.Type == "" {
		sqlConf.Type = c.Conf.Type
	}
	d, ok := dialects[sqlConf.Type]
	if !ok {
		return fmt.Errorf("sqlslots: unsupported sql type %q", sqlConf.Type)
	}
	if c.db == nil {
		db, err := sqldb.New(sqlConf)
		if err != nil {
			return err
		}
		if err = db.Init(); err != nil {
			return err
		}
		c.db = db
	}
	c.prefix = sqlConf.PlaceholderPrefix()
	c.selectQ = sqldb.ReplaceStaticPlaceholders(selectQuery, c.prefix)
	c.upsertQ = sqldb.ReplaceStaticPlaceholders(d.upsert, c.prefix)

	ctx, cancel := context.WithTimeout(context.Background(), defaultInitTimeout)
	defer cancel()
	if _, err := c.db.Exec(ctx, d.create); err != nil {
		return fmt.Errorf("sqlslots: create table: %w", err)
	}
	c.Logger.Debug("slot table ready", zap.String("type", sqlConf.Type), zap.String("table", Table))
	return nil
}

func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Client) GetConf() *kvdb.Conf {
	return c.Conf
}

func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	var val string
	err := c.db.QueryRow(ctx, c.selectQ, key).Scan(&val)
	if errors.Is(err, sqldb.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *Client) Set(ctx context.Context, key string, value string) error {
	_, err := c.db.Exec(ctx, c.upsertQ, key, value)
	return err
}

func (c *Client) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	q, err := sqldb.ExpandDynamicPlaceholders(deleteQuery, c.prefix, []int{len(keys)}, 1)
	if err != nil {
		return 0, err
	}
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	res, err := c.db.Exec(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

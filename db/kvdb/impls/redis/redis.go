package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	lowimpl "github.com/redis/go-redis/v9"
	"github.com/zeptools/fichas/db/kvdb"
	"go.uber.org/zap"
)

const DBType = "redis"

type Client struct {
	Conf   *kvdb.Conf
	Logger *zap.Logger

	// implementation details, not exported
	internal *lowimpl.Client
}

// Ensure redis.Client implements kvdb.Client interface
var _ kvdb.Client = (*Client)(nil)

func Register(logger *zap.Logger) {
	kvdb.RegisterFactory(DBType, func(conf *kvdb.Conf) (kvdb.Client, error) {
		return &Client{Conf: conf, Logger: logger}, nil
	})
}

func (c *Client) Init() error {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	c.internal = lowimpl.NewClient(&lowimpl.Options{
		Addr:     fmt.Sprintf("%s:%d", c.Conf.Host, c.Conf.Port),
		Password: c.Conf.PW,
		DB:       c.Conf.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.internal.Ping(ctx).Err(); err != nil {
		_ = c.internal.Close()
		c.internal = nil
		return fmt.Errorf("redis ping failed: %w", err)
	}
	c.Logger.Info("redis client initialized",
		zap.String("addr", c.internal.Options().Addr),
		zap.Int("db", c.Conf.DB),
		zap.String("key_prefix", c.Conf.KeyPrefix))
	return nil
}

func (c *Client) Close() error {
	if c.internal == nil {
		return nil
	}
	err := c.internal.Close()
	c.internal = nil
	return err
}

func (c *Client) GetConf() *kvdb.Conf {
	return c.Conf
}

func (c *Client) key(k string) string {
	return c.Conf.KeyPrefix + k
}

func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.internal.Get(ctx, c.key(key)).Result()
	if errors.Is(err, lowimpl.Nil) {
		return "", false, nil // redis.Nil -> ok: false, err: nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores without expiration; slots are permanent
func (c *Client) Set(ctx context.Context, key string, value string) error {
	return c.internal.Set(ctx, c.key(key), value, 0).Err()
}

func (c *Client) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.internal.Del(ctx, full...).Result()
}

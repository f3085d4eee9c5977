// Package memory is a process-local kvdb.Client. Nothing survives Close.
package memory

import (
	"context"
	"sync"

	"github.com/zeptools/fichas/db/kvdb"
)

const DBType = "memory"

type Client struct {
	Conf *kvdb.Conf

	mu    sync.RWMutex
	slots map[string]string
}

// Ensure memory.Client implements kvdb.Client interface
var _ kvdb.Client = (*Client)(nil)

func Register() {
	kvdb.RegisterFactory(DBType, func(conf *kvdb.Conf) (kvdb.Client, error) {
		return &Client{Conf: conf}, nil
	})
}

// New returns an initialized client
func New() *Client {
	c := &Client{Conf: &kvdb.Conf{Type: DBType}}
	_ = c.Init()
	return c
}

func (c *Client) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.slots == nil {
		c.slots = make(map[string]string)
	}
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots = nil
	return nil
}

func (c *Client) GetConf() *kvdb.Conf {
	return c.Conf
}

func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.slots[key]
	return val, ok, nil
}

func (c *Client) Set(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.slots == nil {
		c.slots = make(map[string]string)
	}
	c.slots[key] = value
	return nil
}

func (c *Client) Delete(ctx context.Context, keys ...string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := c.slots[k]; ok {
			delete(c.slots, k)
			n++
		}
	}
	return n, nil
}

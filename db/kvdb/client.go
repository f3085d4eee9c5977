package kvdb

import (
	"context"
)

// Client is a string-slot store. One slot holds one whole serialized collection.
type Client interface {
	Init() error
	Close() error
	GetConf() *Conf

	Get(ctx context.Context, key string) (string, bool, error) // val, found, err
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) (int64, error) // number of slots removed
}

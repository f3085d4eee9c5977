package sqldb

import (
	"context"
	"errors"
)

// Client is the narrow SQL surface the slot store needs
type Client interface {
	Init() error
	Close() error
	GetConf() *Conf
	Ping(ctx context.Context) error
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

var ErrNoRows = errors.New("sqldb: no rows in result set")

type Row interface {
	Scan(dest ...any) error
}

type Result interface {
	RowsAffected() (int64, error)
}

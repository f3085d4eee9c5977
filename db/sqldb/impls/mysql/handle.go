package mysql

import (
	"context"
	"database/sql"

	"github.com/zeptools/fichas/db/sqldb"
)

type Handle struct {
	*sql.DB // [Embedded]
}

func (h *Handle) Ping(ctx context.Context) error {
	return h.DB.PingContext(ctx)
}

func (h *Handle) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	result, err := h.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Result{result: result}, nil
}

func (h *Handle) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	return &Row{row: h.DB.QueryRowContext(ctx, query, args...)}
}

package uds

import (
	"context"
	"io"
)

// CmdHnd is one admin command. Fn writes its output to w; a returned error is
// reported to the connected client as "error: ...".
type CmdHnd struct {
	Desc  string
	Usage string
	Fn    func(ctx context.Context, args []string, w io.Writer) error
}

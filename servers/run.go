package servers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Serve runs server on listener until ctx is done, then shuts it down gracefully.
// - timeout: max duration for requests in flight to finish
// - cleanup: optional, runs after the server stopped accepting requests
func Serve(ctx context.Context, server *http.Server, listener net.Listener, timeout time.Duration, logger *zap.Logger, cleanup func()) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	serverErrChan := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", listener.Addr().String()))
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		} else {
			serverErrChan <- nil
		}
	}()

	select {
	case err := <-serverErrChan:
		// the server died on its own
		if cleanup != nil {
			cleanup()
		}
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down", zap.Duration("timeout", timeout))

	// Shutdown stops accepting new requests immediately,
	// requests already being processed get until the timeout to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	shutdownErr := server.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		logger.Error("server shutdown failed", zap.Error(shutdownErr))
	}
	if cleanup != nil {
		cleanup()
	}
	if err := <-serverErrChan; err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return shutdownErr
}

// ListenAndServe is Serve on a fresh TCP listener for server.Addr
func ListenAndServe(ctx context.Context, server *http.Server, timeout time.Duration, logger *zap.Logger, cleanup func()) error {
	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}
	return Serve(ctx, server, listener, timeout, logger, cleanup)
}

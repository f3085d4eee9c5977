package db

import (
	"io"
	"reflect"

	"go.uber.org/zap"
)

// CloseClient closes c and logs the outcome. Safe on nil clients.
func CloseClient(name string, c io.Closer, logger *zap.Logger) {
	if c == nil || (reflect.ValueOf(c).Kind() == reflect.Pointer && reflect.ValueOf(c).IsNil()) {
		logger.Debug("nothing to close", zap.String("client", name))
		return
	}
	if err := c.Close(); err != nil {
		logger.Warn("failed to close client", zap.String("client", name), zap.Error(err))
		return
	}
	logger.Info("client closed", zap.String("client", name))
}

package routing

import (
	"net/http"
	"time"

	"github.com/zeptools/fichas/responses"
	"go.uber.org/zap"
)

// InternalErrorMsg is the only text a panicking handler leaks to the client
const InternalErrorMsg = "Erro interno do servidor."

// RecoverWrapper turns a handler panic into a 500 JSON error
func RecoverWrapper(logger *zap.Logger) HandlerWrapper {
	return HandlerWrapperFunc(func(inner http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Any("panic", rec),
						zap.StackSkip("stack", 1),
					)
					responses.WriteSimpleErrorJSON(w, http.StatusInternalServerError, InternalErrorMsg)
				}
			}()
			inner.ServeHTTP(w, r)
		})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(p []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(p)
	s.bytes += n
	return n, err
}

// AccessLogWrapper logs one line per request at Debug, or Warn for 5xx
func AccessLogWrapper(logger *zap.Logger) HandlerWrapper {
	return HandlerWrapperFunc(func(inner http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			inner.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			level := zap.DebugLevel
			if rec.status >= http.StatusInternalServerError {
				level = zap.WarnLevel
			}
			logger.Log(level, "request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Int("bytes", rec.bytes),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	})
}

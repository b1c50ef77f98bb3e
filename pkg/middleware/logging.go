package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// slowRequestThreshold is the latency above which a request is logged at
// WARN. Large spreadsheet imports routinely take seconds; anything slower
// than this deserves attention.
const slowRequestThreshold = 10 * time.Second

// RequestLogger returns middleware that logs HTTP requests at DEBUG level,
// promoting slow requests to WARN. Pass nil logger to disable logging.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logger == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			elapsed := time.Since(start)
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", wrapped.statusCode),
				zap.Duration("duration", elapsed),
				zap.Int64("request_bytes", r.ContentLength),
				zap.String("remote_addr", r.RemoteAddr),
			}
			if elapsed > slowRequestThreshold {
				logger.Warn("Slow HTTP request", fields...)
				return
			}
			logger.Debug("HTTP request", fields...)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"running-page/internal/metrics"
)

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Instrument wraps an HTTP handler with Prometheus metrics, a debug access
// log line and panic recovery
func Instrument(endpoint string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			defer func() {
				if p := recover(); p != nil {
					logger.Error("Handler panicked", "endpoint", endpoint, "panic", p)
					if !wrapped.written {
						http.Error(wrapped, "Internal server error", http.StatusInternalServerError)
					}
					wrapped.statusCode = http.StatusInternalServerError
				}

				duration := time.Since(start)
				statusStr := strconv.Itoa(wrapped.statusCode)
				metrics.HTTPRequestsTotal.WithLabelValues(endpoint, statusStr).Inc()
				metrics.HTTPRequestDuration.WithLabelValues(endpoint, statusStr).Observe(duration.Seconds())

				logger.Debug("Request handled",
					"endpoint", endpoint,
					"method", r.Method,
					"path", r.URL.Path,
					"status", wrapped.statusCode,
					"duration", duration)
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}

// WrapHandler is a convenience function to wrap a HandlerFunc with Instrument
// using the default logger
func WrapHandler(endpoint string, handler http.HandlerFunc) http.Handler {
	return Instrument(endpoint, slog.Default())(handler)
}

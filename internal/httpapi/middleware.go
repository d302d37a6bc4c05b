// Package httpapi exposes the kernel's document routes over HTTP,
// routing and status-coding per spec §6.1. Bundles and journals have no
// routes here.
package httpapi

import (
	"bytes"
	"net/http"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/scieloorg/kernel-sub000/internal/corelog"
	"github.com/scieloorg/kernel-sub000/internal/metrics"
)

// responseWriter wraps http.ResponseWriter to capture the status code and
// body size logging and metrics need after the handler has already
// written its response.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// LoggingMiddleware logs one structured line per request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		corelog.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.Int("status", rw.statusCode),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// RecoveryMiddleware recovers a panicking handler and responds 500.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				stackTrace := debug.Stack()
				corelog.Error("panic recovered",
					zap.Any("error", err),
					zap.ByteString("stack", stackTrace),
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// MetricsMiddleware wraps handler with the in-progress gauge, duration
// histogram and response-size summary, labelled by name - grounded on the
// original system's Pyramid tween that wrapped every route the same way.
func MetricsMiddleware(name string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequestsInProgress.Inc()
		defer metrics.HTTPRequestsInProgress.Dec()

		start := time.Now()
		rw := newResponseWriter(w)
		handler.ServeHTTP(rw, r)

		metrics.HTTPRequestDuration.WithLabelValues(name, r.Method).Observe(time.Since(start).Seconds())
		metrics.HTTPResponseSize.WithLabelValues(name).Observe(float64(rw.size))
	})
}

// ApplyMiddleware wraps handler with each middleware in turn, so the first
// middleware listed ends up innermost (closest to handler) and the last
// ends up outermost - e.g. ApplyMiddleware(mux, Recovery, Logging) makes
// Logging see the final status code Recovery already turned a panic into.
func ApplyMiddleware(handler http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	for _, m := range middleware {
		handler = m(handler)
	}
	return handler
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + escapeJSON(message) + `"}`))
}

func escapeJSON(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '"', '\\':
			buf.WriteByte('\\')
			buf.WriteRune(r)
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

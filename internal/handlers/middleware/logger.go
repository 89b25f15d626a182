package middleware

import (
	"net/http"
	"time"
)

type logger interface {
	Info(msg string, args ...any)
}

// responseMeter wraps ResponseWriter to record what was actually sent
type responseMeter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *responseMeter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (w *responseMeter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	w.status = statusCode
}

// LoggerMiddleware logs every served request with its outcome.
// Token values never appear here: only method, path and response metadata
func LoggerMiddleware(l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			meter := &responseMeter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(meter, r)

			l.Info(
				"http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", meter.status,
				"duration", time.Since(start),
				"bytes", meter.bytes,
			)
		})
	}
}

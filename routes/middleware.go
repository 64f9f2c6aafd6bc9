package routes

import (
	"io"
	"log/slog"
	"net/http"
	"time"
)

// statusWriter captures the response code so the access log can show failed
// navigation and render requests.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Logger logs one line per request: latency, method, path, response status,
// and the search query when one was sent, so a session's navigation can be
// traced from the server log.
func Logger(out io.Writer) func(http.Handler) http.Handler {
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			start := time.Now()
			next.ServeHTTP(sw, r)

			attrs := []any{
				"latency", time.Since(start).String(),
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
			}
			if q := r.URL.Query().Get("query"); q != "" {
				attrs = append(attrs, "query", q)
			}
			logger.Info("request", attrs...)
		})
	}
}

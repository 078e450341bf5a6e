package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/lucasefe/daxgen/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// requestLogger tags each request with an ID, stores a request-scoped logger
// in the context and logs completion by status class. /health is not logged.
func requestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set(requestIDHeader, requestID)

			log := logger.WithRequestID(base, requestID).With(
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", r.RemoteAddr,
			)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), log)))

			if r.URL.Path == "/health" {
				return
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log = log.With(
				"status", status,
				"bytes", ww.BytesWritten(),
				"latency_ms", time.Since(start).Milliseconds(),
			)
			switch {
			case status >= 500:
				log.Error("request completed with server error")
			case status >= 400:
				log.Warn("request completed with client error")
			default:
				log.Info("request completed")
			}
		})
	}
}

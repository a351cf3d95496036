package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rshade/webtables/internal/logging"
)

// HeaderTraceID carries the request trace ID in both directions.
const HeaderTraceID = "X-Trace-Id"

// traceMiddleware attaches a trace ID and the base logger to the request
// context. An incoming X-Trace-Id header is reused.
func traceMiddleware(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(HeaderTraceID)
			if traceID == "" {
				traceID = logging.NewTraceID()
			}
			ctx := logging.ContextWithTraceID(r.Context(), traceID)
			ctx = base.WithContext(ctx)

			w.Header().Set(HeaderTraceID, traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestLogMiddleware logs one line per request at debug level, or warn for
// server errors.
func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		ctx := r.Context()
		log := logging.FromContext(ctx)
		event := log.Debug()
		if ww.Status() >= http.StatusInternalServerError {
			event = log.Warn()
		}
		event.Ctx(ctx).
			Str("component", "server").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

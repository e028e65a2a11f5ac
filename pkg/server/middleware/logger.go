package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func Logger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			reqLogger := logger.With().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", req.RemoteAddr).
				Str("request_id", middleware.GetReqID(req.Context())).
				Logger()

			ctx := reqLogger.WithContext(req.Context())
			req = req.WithContext(ctx)

			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, req)

			reqLogger.Info().
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request completed")
		})
	}
}

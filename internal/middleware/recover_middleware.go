package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"notes-api/pkg/response"
)

// RecoverMiddleware turns a handler panic into a 500 JSON error.
func RecoverMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("Handler panicked",
						"panic", rec,
						"path", r.URL.Path,
						"request_id", GetRequestID(r),
						"stack", string(debug.Stack()),
					)
					response.InternalError(w, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

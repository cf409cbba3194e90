package middleware

import (
	"log/slog"
	"net/http"
)

// Stack returns the middleware applied to every route, outermost first. The
// request logger sits outside panic recovery so recovered requests are logged
// with their 500 status.
func Stack(log *slog.Logger, allowedOrigins, allowedMethods, allowedHeaders string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		RequestIDMiddleware(),
		LoggerMiddleware(log),
		RecoverMiddleware(log),
		CORSMiddleware(allowedOrigins, allowedMethods, allowedHeaders),
	}
}

// Wrap applies mws around h, first element outermost.
func Wrap(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

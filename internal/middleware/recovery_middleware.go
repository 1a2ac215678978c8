package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// RecoveryMiddleware turns a panic in a handler into a logged error and a call to onPanic,
// which is expected to write the 500 page.
func RecoveryMiddleware(logger *zap.Logger, onPanic func(w http.ResponseWriter, r *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic while serving request",
						zap.Any("error", rec),
						zap.String("path", r.URL.Path),
						zap.String("stack", string(debug.Stack())))
					onPanic(w, r)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"
	"runtime/debug"
)

func RecoverPanic(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						"request_id", RequestIDFromContext(r.Context()),
						"path", r.URL.Path,
						"panic", err,
						"stack", string(debug.Stack()),
					)
					w.Header().Set("Connection", "close")
					writeJSONError(w, http.StatusInternalServerError, "Something went wrong on our end.")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

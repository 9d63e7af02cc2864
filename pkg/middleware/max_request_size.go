package middleware

import (
	"net/http"
)

// MaxRequestSize caps request body size. Oversized bodies surface as read
// errors inside handlers, which decode failures map to 400.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

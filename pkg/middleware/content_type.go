package middleware

import (
	"net/http"
	"strings"

	"linkuup/pkg/logger"
)

// ContentTypeValidation rejects body-carrying requests whose media type is
// not application/json before any handler parses them.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				contentType := mediaType(r.Header.Get("Content-Type"))
				if contentType != "application/json" {
					log.Warn("Invalid Content-Type header",
						"request_id", requestIDFrom(r.Context()),
						"content_type", contentType,
						"path", r.URL.Path,
						"method", r.Method,
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnsupportedMediaType)
					_, _ = w.Write([]byte(`{"error":"Content-Type must be application/json"}`))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// mediaType strips any charset or boundary parameters from the header value.
func mediaType(header string) string {
	if header == "" {
		return ""
	}
	value, _, _ := strings.Cut(header, ";")
	return strings.TrimSpace(value)
}

package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// contextKey namespaces the values this package stores on a request context.
type contextKey string

const requestIDKey contextKey = "request_id"

// maxRequestIDLen bounds caller-supplied ids; a uuid string is 36.
const maxRequestIDLen = 64

// RequestID tags each request with an id, echoed in X-Request-ID and carried
// into the access log. A caller-supplied id is reused only when it is short
// and made of URL-safe characters; anything else is replaced with a fresh uuid.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), requestIDKey, rid)
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return false
		}
	}
	return true
}

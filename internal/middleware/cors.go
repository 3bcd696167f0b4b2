package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const corsMaxAge = 24 * time.Hour

// CORS echoes allowed origins with credentials enabled. Requests without an
// Origin header pass through untouched; unknown origins get no CORS headers
// and are logged.
func CORS(allowedOrigins []string, l zerolog.Logger) func(http.Handler) http.Handler {
	allow := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allow[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				if _, ok := allow[origin]; ok {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
					h.Set("Access-Control-Allow-Credentials", "true")
					h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
					h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
					h.Set("Access-Control-Max-Age", strconv.Itoa(int(corsMaxAge.Seconds())))
				} else {
					l.Warn().Str("origin", origin).Msg("cors origin blocked")
				}
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"
)

const countryKey contextKey = "country"

// CountryLookup resolves an ISO country code for an IP address.
type CountryLookup func(ip string) (string, error)

var countryHeaders = []string{"CF-IPCountry", "X-Country-Code", "X-IP-Country", "X-Appengine-Country"}

// Country stores a best-effort ISO country code in the request context.
// CDN headers win; lookup is consulted only when none is present and may be nil.
func Country(lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if country := resolveCountry(r, lookup); country != "" {
				r = r.WithContext(context.WithValue(r.Context(), countryKey, country))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(countryKey).(string); ok {
		return v
	}
	return ""
}

func resolveCountry(r *http.Request, lookup CountryLookup) string {
	for _, key := range countryHeaders {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	if lookup == nil {
		return ""
	}
	country, err := lookup(clientIPForRateLimit(r))
	if err != nil {
		return ""
	}
	return strings.ToUpper(country)
}

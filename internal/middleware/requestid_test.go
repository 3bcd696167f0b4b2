package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("generated id %q is not a uuid: %v", seen, err)
	}
	if rr.Header().Get("X-Request-ID") != seen {
		t.Fatalf("header %q does not match context %q", rr.Header().Get("X-Request-ID"), seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "caller-supplied" {
		t.Fatalf("id = %q, want caller-supplied", seen)
	}
}

func TestRequestIDReplacesUnsafeCallerValues(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	cases := map[string]string{
		"too long":    strings.Repeat("a", maxRequestIDLen+1),
		"log forging": "abc\" level=error msg=forged",
		"space":       "two words",
		"unicode":     "idé",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", value)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if seen == value {
				t.Fatalf("unsafe id %q was reused", value)
			}
			if _, err := uuid.Parse(seen); err != nil {
				t.Fatalf("replacement id %q is not a uuid: %v", seen, err)
			}
			if got := rr.Header().Get("X-Request-ID"); got != seen {
				t.Fatalf("header %q does not match context %q", got, seen)
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "edge-01:req_42.a")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "edge-01:req_42.a" {
		t.Fatalf("id = %q, want edge-01:req_42.a", seen)
	}
}

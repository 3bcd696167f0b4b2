package modelcall

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed model attempt.
type Kind int

const (
	KindUnknown Kind = iota
	KindEmptyResponse
	KindRateLimited
	KindSafetyBlocked
	KindQuotaExceeded
	KindConfiguration
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindEmptyResponse:
		return "empty_response"
	case KindRateLimited:
		return "rate_limited"
	case KindSafetyBlocked:
		return "safety_blocked"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindConfiguration:
		return "configuration"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Retryable reports whether another attempt could succeed. Credential,
// permission and quota problems never clear up on their own, and a safety
// filter rejects the same prompt again.
func (k Kind) Retryable() bool {
	switch k {
	case KindSafetyBlocked, KindQuotaExceeded, KindConfiguration, KindCanceled:
		return false
	default:
		return true
	}
}

// ErrEmptyResponse marks a completion that was blank after trimming.
var ErrEmptyResponse = errors.New("empty response from model")

// ProviderError is the normalized error a Generator returns for a failed call.
// Status is the HTTP status code, Code the provider's symbolic status such as
// PERMISSION_DENIED.
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	switch {
	case e.Code != "" && e.Status != 0:
		return fmt.Sprintf("model provider: %d %s: %s", e.Status, e.Code, e.Message)
	case e.Code != "":
		return fmt.Sprintf("model provider: %s: %s", e.Code, e.Message)
	default:
		return fmt.Sprintf("model provider: %s", e.Message)
	}
}

var (
	configurationMarkers = []string{"API_KEY", "PERMISSION_DENIED", "UNAUTHENTICATED"}
	quotaMarkers         = []string{"QUOTA_EXCEEDED"}
	safetyMarkers        = []string{"SAFETY"}
	rateLimitMarkers     = []string{"RESOURCE_EXHAUSTED", "RATE_LIMIT", "TOO_MANY_REQUESTS"}
)

// Classify maps any error to a Kind. Non-retryable markers win over the
// others so a message mentioning both a key problem and a rate limit aborts.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	if errors.Is(err, ErrEmptyResponse) {
		return KindEmptyResponse
	}

	status := 0
	text := err.Error()
	var pe *ProviderError
	if errors.As(err, &pe) {
		status = pe.Status
		text = pe.Code + " " + pe.Message
	}
	text = normalizeMarkers(text)

	switch {
	case containsAny(text, configurationMarkers), status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindConfiguration
	case containsAny(text, quotaMarkers):
		return KindQuotaExceeded
	case containsAny(text, safetyMarkers):
		return KindSafetyBlocked
	case containsAny(text, rateLimitMarkers), status == http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindUnknown
	}
}

// normalizeMarkers upper-cases text and joins words with underscores so
// "API key not valid" and "API_KEY_INVALID" both carry API_KEY.
func normalizeMarkers(text string) string {
	return strings.Join(strings.Fields(strings.ToUpper(text)), "_")
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rideinsight/internal/domain"
	"rideinsight/internal/infra"
	"rideinsight/internal/sqlinline"
)

const (
	ProviderGemini = "gemini"
)

// ErrEmptyToken rejects blank keys before they reach the database.
var ErrEmptyToken = errors.New("credentials: token is required")

// Store keeps provider API keys in the integration_tokens table so operators
// can rotate a key without redeploying.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// GeminiAPIKey returns the stored Gemini key, or "" when none is stored.
func (s *Store) GeminiAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderGemini)
}

func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("load %s token: %w", provider, err)
	}
	return strings.TrimSpace(token), nil
}

func (s *Store) SetToken(ctx context.Context, provider, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if _, err := s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token); err != nil {
		return fmt.Errorf("store %s token: %w", provider, err)
	}
	return nil
}

// ResolveGeminiAPIKey prefers the environment key and falls back to the stored one.
func ResolveGeminiAPIKey(ctx context.Context, envKey string, repo domain.CredentialRepository) (string, error) {
	if key := strings.TrimSpace(envKey); key != "" {
		return key, nil
	}
	if repo == nil {
		return "", nil
	}
	return repo.Token(ctx, ProviderGemini)
}

var _ domain.CredentialRepository = (*Store)(nil)

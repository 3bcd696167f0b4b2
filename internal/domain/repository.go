package domain

import "context"

// RecordStore supplies trips, users and rollups on demand. Trips come back
// most recent first.
type RecordStore interface {
	FetchTrips(ctx context.Context, plan FetchPlan) ([]Trip, error)
	FetchUsers(ctx context.Context, limit int) ([]User, error)
	FetchAggregateCounts(ctx context.Context, windowDays int) (AggregateCounts, error)
}

// CredentialRepository stores provider API keys outside the environment.
type CredentialRepository interface {
	Token(ctx context.Context, provider string) (string, error)
	SetToken(ctx context.Context, provider, token string) error
}

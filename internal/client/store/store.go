// Package store keeps the session token across process restarts.
//
// Only the bearer token is persisted. The profile is always fetched again
// from the backend.
package store

import "context"

// CredentialStore is an atomic slot for one token.
type CredentialStore interface {
	// Get returns "" when no token is stored.
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

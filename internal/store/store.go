// Package store keeps short-lived string tokens, such as password reset
// tokens, with an expiry.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrTokenNotFound is returned when a token is unknown or has expired.
var ErrTokenNotFound = errors.New("token not found")

// TokenStore maps tokens to values for a bounded time.
type TokenStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	// Take returns the value and removes the key in one step. Of several
	// concurrent callers at most one sees the value.
	Take(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

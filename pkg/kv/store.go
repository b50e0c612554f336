package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for a key with no stored value.
var ErrNotFound = errors.New("kv.not_found")

// Store is a string-keyed value store. Implementations must be safe for
// concurrent use: session writes (login, logout) race with reads from
// in-flight gateway calls by design, and readers must simply observe
// either the old or the new value.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

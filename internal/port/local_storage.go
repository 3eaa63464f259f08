package port

import "context"

// LocalStorage is profile-scoped key/value persistence, the server-side
// stand-in for a browser's localStorage.
type LocalStorage interface {
	// GetItem returns the stored value and whether the key exists
	GetItem(ctx context.Context, profile, key string) (string, bool, error)

	// SetItem overwrites the value stored under key
	SetItem(ctx context.Context, profile, key, value string) error

	// RemoveItem deletes key; removing a missing key is not an error
	RemoveItem(ctx context.Context, profile, key string) error
}

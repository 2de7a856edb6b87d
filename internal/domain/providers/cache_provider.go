package providers

import (
	"context"
	"fmt"
)

// CacheProvider defines the interface for caching operations
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// DeletePattern removes every key matching the glob pattern
	DeletePattern(ctx context.Context, pattern string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)
}

// UserAppointmentsPrefix returns the cache key prefix under which a user's
// appointment listings are stored.
func UserAppointmentsPrefix(userID string) string {
	return fmt.Sprintf("user:%s:appointments", userID)
}

// ProviderSchedulePrefix returns the cache key prefix under which a
// provider's schedule views are stored.
func ProviderSchedulePrefix(providerID string) string {
	return fmt.Sprintf("user:%s:schedule", providerID)
}

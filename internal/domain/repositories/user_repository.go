package repositories

import (
	"context"

	"github.com/slotline/booking-api/internal/domain/entities"
)

// UserRepository defines the read-side interface for user lookups. The
// booking core never writes users.
type UserRepository interface {
	// GetByID retrieves a user by ID; NotFound error when absent
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetProvider retrieves the user with the given ID only when its
	// provider flag is set; NotFound error when absent or not a provider.
	GetProvider(ctx context.Context, id string) (*entities.User, error)
}

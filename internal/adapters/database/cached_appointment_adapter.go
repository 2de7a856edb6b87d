package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/slotline/booking-api/internal/domain/entities"
	"github.com/slotline/booking-api/internal/domain/providers"
	"github.com/slotline/booking-api/internal/domain/repositories"
)

// CachedAppointmentAdapter wraps an AppointmentRepository with cache-aside
// reads. Listings are cached under the user's appointment prefix, which the
// booking pipeline invalidates after every write, so a stale listing lives at
// most until the next booking or the TTL.
type CachedAppointmentAdapter struct {
	adapter repositories.AppointmentRepository
	cache   providers.CacheProvider
}

// NewCachedAppointmentAdapter creates a new cached appointment adapter
func NewCachedAppointmentAdapter(adapter repositories.AppointmentRepository, cache providers.CacheProvider) repositories.AppointmentRepository {
	return &CachedAppointmentAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// listTTL bounds staleness for cached listings (in seconds)
const listTTL = 300

func listCacheKey(userID string, filter repositories.AppointmentFilter) string {
	from, to := "", ""
	if filter.From != nil {
		from = filter.From.UTC().Format(time.RFC3339)
	}
	if filter.To != nil {
		to = filter.To.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("%s:%t:%s:%s:%d:%d",
		providers.UserAppointmentsPrefix(userID), filter.ActiveOnly, from, to, filter.Limit, filter.Offset)
}

// Create delegates to the underlying adapter; the booking pipeline owns
// invalidation of the requester's listing prefix.
func (a *CachedAppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	return a.adapter.Create(ctx, appointment)
}

// GetByID delegates to the underlying adapter. Single appointments are not
// cached; conflict decisions must never read stale data.
func (a *CachedAppointmentAdapter) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	return a.adapter.GetByID(ctx, id)
}

// GetActiveByProviderAndSlot always hits the store. The conflict pre-check
// feeds the booking decision and must see committed state.
func (a *CachedAppointmentAdapter) GetActiveByProviderAndSlot(ctx context.Context, providerID string, slot time.Time) (*entities.Appointment, error) {
	return a.adapter.GetActiveByProviderAndSlot(ctx, providerID, slot)
}

// Cancel delegates to the underlying adapter
func (a *CachedAppointmentAdapter) Cancel(ctx context.Context, id string) error {
	return a.adapter.Cancel(ctx, id)
}

// ListByUser retrieves a user's appointments with cache-aside semantics
func (a *CachedAppointmentAdapter) ListByUser(ctx context.Context, userID string, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	cacheKey := listCacheKey(userID, filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil && cached != nil {
		var appointments []*entities.Appointment
		if err := json.Unmarshal(cached, &appointments); err == nil {
			return appointments, nil
		}
	}

	appointments, err := a.adapter.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(appointments); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, listTTL); err != nil {
			log.Debug().Err(err).Str("key", cacheKey).Msg("failed to cache appointment listing")
		}
	}

	return appointments, nil
}

package database_test

import (
	"context"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotline/booking-api/internal/adapters/database"
	"github.com/slotline/booking-api/internal/domain/entities"
	"github.com/slotline/booking-api/internal/domain/providers"
	"github.com/slotline/booking-api/internal/domain/repositories"
	apperrors "github.com/slotline/booking-api/pkg/errors"
)

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, apperrors.NewNotFoundError("cache miss")
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memoryCache) DeletePattern(_ context.Context, pattern string) error {
	for key := range c.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.data, key)
		}
	}
	return nil
}

func (c *memoryCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

type countingRepository struct {
	appointments []*entities.Appointment
	listCalls    int
}

func (r *countingRepository) Create(_ context.Context, _ *entities.Appointment) error { return nil }

func (r *countingRepository) GetByID(_ context.Context, _ string) (*entities.Appointment, error) {
	return nil, nil
}

func (r *countingRepository) GetActiveByProviderAndSlot(_ context.Context, _ string, _ time.Time) (*entities.Appointment, error) {
	return nil, nil
}

func (r *countingRepository) Cancel(_ context.Context, _ string) error { return nil }

func (r *countingRepository) ListByUser(_ context.Context, _ string, _ repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	r.listCalls++
	return r.appointments, nil
}

func TestCachedAppointmentAdapter_ListByUser(t *testing.T) {
	slot := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)
	stored := []*entities.Appointment{
		{
			ID:         "a-1",
			UserID:     "u-1",
			ProviderID: "p-1",
			Date:       slot.Add(25 * time.Minute),
			Slot:       slot,
		},
	}

	t.Run("serves repeated listings from cache", func(t *testing.T) {
		base := &countingRepository{appointments: stored}
		cache := newMemoryCache()
		adapter := database.NewCachedAppointmentAdapter(base, cache)

		filter := repositories.AppointmentFilter{ActiveOnly: true, Limit: 10}

		first, err := adapter.ListByUser(context.Background(), "u-1", filter)
		require.NoError(t, err)
		require.Len(t, first, 1)
		assert.Equal(t, 1, base.listCalls)

		second, err := adapter.ListByUser(context.Background(), "u-1", filter)
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, "a-1", second[0].ID)
		assert.True(t, second[0].Slot.Equal(slot))
		assert.Equal(t, 1, base.listCalls, "second listing should not hit the store")
	})

	t.Run("distinct filters use distinct cache entries", func(t *testing.T) {
		base := &countingRepository{appointments: stored}
		cache := newMemoryCache()
		adapter := database.NewCachedAppointmentAdapter(base, cache)

		_, err := adapter.ListByUser(context.Background(), "u-1", repositories.AppointmentFilter{ActiveOnly: true})
		require.NoError(t, err)
		_, err = adapter.ListByUser(context.Background(), "u-1", repositories.AppointmentFilter{ActiveOnly: false})
		require.NoError(t, err)

		assert.Equal(t, 2, base.listCalls)
	})

	t.Run("invalidating the user prefix clears cached listings", func(t *testing.T) {
		base := &countingRepository{appointments: stored}
		cache := newMemoryCache()
		adapter := database.NewCachedAppointmentAdapter(base, cache)

		filter := repositories.AppointmentFilter{ActiveOnly: true}

		_, err := adapter.ListByUser(context.Background(), "u-1", filter)
		require.NoError(t, err)

		err = cache.DeletePattern(context.Background(), providers.UserAppointmentsPrefix("u-1")+"*")
		require.NoError(t, err)

		_, err = adapter.ListByUser(context.Background(), "u-1", filter)
		require.NoError(t, err)
		assert.Equal(t, 2, base.listCalls, "listing after invalidation should hit the store")
	})
}

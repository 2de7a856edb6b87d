package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/slotline/booking-api/internal/domain/entities"
	"github.com/slotline/booking-api/internal/domain/providers"
)

// CacheInvalidationService keeps provider-side cached schedule views in sync
// with bookings. The requester's own appointment cache is invalidated inline
// by the booking pipeline; this worker handles the provider fan-out so the
// booking path stays short.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for booking events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelBookings)
	if err != nil {
		return fmt.Errorf("failed to subscribe to booking events: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.BookingEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.BookingEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pattern := providers.ProviderSchedulePrefix(event.ProviderID) + "*"
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		log.Warn().Err(err).
			Str("event_id", event.ID).
			Str("provider_id", event.ProviderID).
			Msg("failed to invalidate provider schedule cache")
		return
	}

	log.Debug().
		Str("event_id", event.ID).
		Str("provider_id", event.ProviderID).
		Str("pattern", pattern).
		Msg("invalidated provider schedule cache")
}

// InvalidateProviderSchedule invalidates the cached schedule views for a
// single provider outside the event flow, e.g. during maintenance.
func (s *CacheInvalidationService) InvalidateProviderSchedule(ctx context.Context, providerID string) error {
	pattern := providers.ProviderSchedulePrefix(providerID) + "*"
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		return fmt.Errorf("failed to invalidate provider schedule cache: %w", err)
	}
	return nil
}

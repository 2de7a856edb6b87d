package providers

import (
	"context"

	"github.com/slotline/booking-api/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to booking
// events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.BookingEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.BookingEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelBookings is the channel carrying all booking events
const EventChannelBookings = "bookings:events"

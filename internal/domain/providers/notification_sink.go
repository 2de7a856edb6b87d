package providers

import (
	"context"

	"github.com/slotline/booking-api/internal/domain/entities"
)

// NotificationSink defines the write-only interface for notification
// creation. Delivery and display are owned by an external mechanism.
type NotificationSink interface {
	// Create writes a notification addressed to userID
	Create(ctx context.Context, content, userID string) (*entities.Notification, error)
}

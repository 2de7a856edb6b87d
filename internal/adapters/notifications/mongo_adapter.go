package notifications

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/slotline/booking-api/internal/domain/entities"
	"github.com/slotline/booking-api/internal/domain/providers"
	mongoclient "github.com/slotline/booking-api/internal/infrastructure/clients/mongo"
)

const notificationsCollection = "notifications"

// MongoAdapter implements the NotificationSink interface backed by a MongoDB
// collection. Notifications are write-once here; the consumer that displays
// and marks them read lives outside this service.
type MongoAdapter struct {
	collection *mongo.Collection
}

// NewMongoAdapter creates a new MongoDB notification adapter
func NewMongoAdapter(client *mongoclient.Client) providers.NotificationSink {
	return &MongoAdapter{
		collection: client.Collection(notificationsCollection),
	}
}

// Create writes a notification addressed to userID
func (a *MongoAdapter) Create(ctx context.Context, content, userID string) (*entities.Notification, error) {
	notification := &entities.Notification{
		Content:   content,
		UserID:    userID,
		Read:      false,
		CreatedAt: time.Now(),
	}

	result, err := a.collection.InsertOne(ctx, notification)
	if err != nil {
		return nil, fmt.Errorf("failed to insert notification: %w", err)
	}

	if oid, ok := result.InsertedID.(interface{ Hex() string }); ok {
		notification.ID = oid.Hex()
	}

	return notification, nil
}

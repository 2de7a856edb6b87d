package entities

import "time"

// Notification is a write-once message addressed to a user. The booking core
// only creates notifications; delivery and display belong to another system.
type Notification struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Content   string    `json:"content" bson:"content"`
	UserID    string    `json:"user" bson:"user"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

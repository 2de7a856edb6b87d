package repositories

import (
	"context"
	"time"

	"github.com/slotline/booking-api/internal/domain/entities"
)

// AppointmentRepository defines the interface for appointment data operations.
//
// The store owns slot uniqueness: at most one active (canceled_at IS NULL)
// appointment may exist per (provider_id, slot). Create must surface a
// concurrent violation of that uniqueness as a Conflict error so racing
// bookings cannot double-book a slot even when both passed the pre-check.
type AppointmentRepository interface {
	// Create persists a new appointment. Returns a Conflict error when an
	// active appointment already holds (provider_id, slot).
	Create(ctx context.Context, appointment *entities.Appointment) error

	// GetByID retrieves an appointment by ID
	GetByID(ctx context.Context, id string) (*entities.Appointment, error)

	// GetActiveByProviderAndSlot retrieves the active appointment occupying
	// the given provider slot, or nil when the slot is free.
	GetActiveByProviderAndSlot(ctx context.Context, providerID string, slot time.Time) (*entities.Appointment, error)

	// Cancel marks an appointment as canceled, freeing its slot
	Cancel(ctx context.Context, id string) error

	// ListByUser retrieves appointments booked by a user, soonest first
	ListByUser(ctx context.Context, userID string, filter AppointmentFilter) ([]*entities.Appointment, error)
}

// AppointmentFilter defines filters for listing appointments
type AppointmentFilter struct {
	ActiveOnly bool
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

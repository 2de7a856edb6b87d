package entities

import (
	"time"

	"github.com/google/uuid"
)

// BookingEventType represents the type of booking event
type BookingEventType string

const (
	BookingEventTypeCreated  BookingEventType = "booking_created"
	BookingEventTypeCanceled BookingEventType = "booking_canceled"
)

// BookingEvent represents a booking lifecycle event published after the
// appointment has been committed. Consumers must treat it as best-effort
// fan-out, never as the source of truth.
type BookingEvent struct {
	ID            string           `json:"id"`
	AppointmentID string           `json:"appointment_id"`
	UserID        string           `json:"user_id"`
	ProviderID    string           `json:"provider_id"`
	Slot          time.Time        `json:"slot"`
	EventType     BookingEventType `json:"event_type"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// NewBookingEvent creates a new booking event
func NewBookingEvent(appointment *Appointment, eventType BookingEventType) *BookingEvent {
	return &BookingEvent{
		ID:            uuid.New().String(),
		AppointmentID: appointment.ID,
		UserID:        appointment.UserID,
		ProviderID:    appointment.ProviderID,
		Slot:          appointment.Slot,
		EventType:     eventType,
		OccurredAt:    time.Now(),
	}
}

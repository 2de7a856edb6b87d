package entities

import (
	"time"
)

// Appointment represents one booked hour slot between a client and a provider
type Appointment struct {
	ID         string     `json:"id" db:"id"`
	UserID     string     `json:"user_id" db:"user_id"`
	ProviderID string     `json:"provider_id" db:"provider_id"`
	Date       time.Time  `json:"date" db:"date"`
	Slot       time.Time  `json:"slot" db:"slot"`
	CanceledAt *time.Time `json:"canceled_at,omitempty" db:"canceled_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// Active reports whether the appointment still occupies its slot.
func (a *Appointment) Active() bool {
	return a.CanceledAt == nil
}

// SlotFor truncates t to the start of its hour in t's own location. The
// truncated value is the canonical key for conflict comparison; the original
// timestamp is what gets stored on the appointment. Built from the wall-clock
// fields rather than Truncate so zones with fractional offsets still land on
// the hour boundary.
func SlotFor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

package providers

import "time"

// SlotFormatter renders a slot timestamp as human-readable localized text
// for notification content. Locale rules stay behind this interface so the
// booking decision procedure carries no presentation logic.
type SlotFormatter interface {
	Format(t time.Time) string
}

package locale

import (
	"fmt"
	"time"

	"github.com/slotline/booking-api/internal/domain/providers"
)

// ptBRMonths maps time.Month to brazilian portuguese month names
var ptBRMonths = [...]string{
	time.January:   "janeiro",
	time.February:  "fevereiro",
	time.March:     "março",
	time.April:     "abril",
	time.May:       "maio",
	time.June:      "junho",
	time.July:      "julho",
	time.August:    "agosto",
	time.September: "setembro",
	time.October:   "outubro",
	time.November:  "novembro",
	time.December:  "dezembro",
}

// PtBRFormatter renders slot timestamps in brazilian portuguese,
// e.g. "10 de junho, às 14:00h".
type PtBRFormatter struct{}

// NewPtBRFormatter creates a new pt-BR slot formatter
func NewPtBRFormatter() providers.SlotFormatter {
	return &PtBRFormatter{}
}

// Format implements providers.SlotFormatter
func (f *PtBRFormatter) Format(t time.Time) string {
	return fmt.Sprintf("%02d de %s, às %d:%02dh",
		t.Day(), ptBRMonths[t.Month()], t.Hour(), t.Minute())
}

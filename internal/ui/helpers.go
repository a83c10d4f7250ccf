package ui

import (
	"github.com/1enzz/vtrstudio/internal/studio"
)

// truncate shortens a string to limit runes, appending an ellipsis.
func truncate(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}

// formatBookingDate renders a booking timestamp as a short local date.
func formatBookingDate(b studio.Booking) string {
	t := b.ParsedDate()
	if t.IsZero() {
		return b.Date
	}
	return t.Format("02/01/2006")
}

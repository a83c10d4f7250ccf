package ui

import (
	"testing"

	"github.com/1enzz/vtrstudio/internal/studio"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"zero_limit", "abc", 0, ""},
		{"fits", "abc", 5, "abc"},
		{"exact", "abc", 3, "abc"},
		{"truncated", "abcdef", 4, "abc…"},
		{"limit_one", "abcdef", 1, "…"},
		{"multibyte", "ação longa", 5, "ação…"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncate(tc.in, tc.limit); got != tc.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
			}
		})
	}
}

func TestFormatBookingDate(t *testing.T) {
	b := studio.Booking{Date: "2024-06-10T14:30:00Z"}
	if got := formatBookingDate(b); got != "10/06/2024" {
		t.Fatalf("formatBookingDate = %q, want 10/06/2024", got)
	}

	b = studio.Booking{Date: "2024-06-10"}
	if got := formatBookingDate(b); got != "10/06/2024" {
		t.Fatalf("formatBookingDate = %q, want 10/06/2024", got)
	}

	// Unparsable values pass through untouched.
	b = studio.Booking{Date: "soon"}
	if got := formatBookingDate(b); got != "soon" {
		t.Fatalf("formatBookingDate = %q, want raw value", got)
	}
}

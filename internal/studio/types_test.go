package studio

import (
	"testing"
	"time"
)

func TestComposeTimestamp(t *testing.T) {
	got, err := ComposeTimestamp("2024-06-10", "14:30")
	if err != nil {
		t.Fatalf("ComposeTimestamp returned error: %v", err)
	}
	want := time.Date(2024, 6, 10, 14, 30, 0, 0, time.Local).Format(time.RFC3339)
	if got != want {
		t.Fatalf("ComposeTimestamp = %q, want %q", got, want)
	}

	if _, err := ComposeTimestamp("2024-06-10", "25:00"); err == nil {
		t.Fatal("expected error for invalid hour")
	}
	if _, err := ComposeTimestamp("junk", "14:30"); err == nil {
		t.Fatal("expected error for invalid date")
	}
}

func TestBookingParsedDate(t *testing.T) {
	b := Booking{Date: "2024-06-10T14:30:00Z"}
	parsed := b.ParsedDate()
	if parsed.Year() != 2024 || parsed.Hour() != 14 {
		t.Fatalf("ParsedDate = %v", parsed)
	}

	b = Booking{Date: "2024-06-10"}
	parsed = b.ParsedDate()
	if parsed.Year() != 2024 || parsed.Hour() != 0 {
		t.Fatalf("ParsedDate = %v", parsed)
	}

	b = Booking{Date: "not a date"}
	if !b.ParsedDate().IsZero() {
		t.Fatal("ParsedDate should be zero for unparsable input")
	}
}

package studio

import (
	"time"
)

// Booking status values used by the backend.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	dateLayout = "2006-01-02"
	hourLayout = "15:04"
)

// Booking mirrors the booking payload returned by the backend.
type Booking struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	ServiceType  string `json:"serviceType"`
	VehicleModel string `json:"vehicleModel"`
	Date         string `json:"date"`
	Status       string `json:"status"`
}

// ParsedDate returns the booking date as time.Time when possible.
func (b Booking) ParsedDate() time.Time {
	return parseTime(b.Date)
}

// VehicleRef identifies the vehicle inside a booking request.
type VehicleRef struct {
	Model     string `json:"model"`
	SizeClass string `json:"sizeClass"`
}

// BookingRequest is the payload for POST /Bookings/criar.
type BookingRequest struct {
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Vehicle     VehicleRef `json:"vehicle"`
	ServiceType string     `json:"serviceType"`
	Date        string     `json:"date"`
}

// availableServicesResponse mirrors /AvailableServicesPerVehicle.
type availableServicesResponse struct {
	AvailableServices []string `json:"availableServices"`
}

// isHourlyResponse mirrors /ServiceRules/is-hourly.
type isHourlyResponse struct {
	IsHourly bool `json:"isHourly"`
}

// VehicleCategory groups vehicle models under a size category.
type VehicleCategory struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Vehicles    []string `json:"vehicles"`
}

// ServiceRule describes a bookable service and its capacity limits.
type ServiceRule struct {
	ID          string         `json:"id,omitempty"`
	ServiceType string         `json:"serviceType"`
	Duration    string         `json:"duration"`
	MaxPerDay   map[string]int `json:"maxPerDay"`
}

// AdminUser is a back-office account.
type AdminUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// CreateUserRequest is the payload for POST /users.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserRequest is the payload for PUT /users/{username}.
// Empty fields are omitted so the backend keeps the current value.
type UpdateUserRequest struct {
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
}

// loginRequest is the payload for POST /login on the admin scope.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse mirrors the admin login reply.
type loginResponse struct {
	Token string `json:"token"`
}

// ComposeTimestamp merges a yyyy-mm-dd date with an HH:mm hour in the local
// zone and returns the RFC 3339 timestamp the booking endpoint expects.
func ComposeTimestamp(date, hour string) (string, error) {
	t, err := time.ParseInLocation(dateLayout+" "+hourLayout, date+" "+hour, time.Local)
	if err != nil {
		return "", err
	}
	return t.Format(time.RFC3339), nil
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, dateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

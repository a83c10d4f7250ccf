package studio

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestParseBaseURL_AppendsScopeAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("example.com:5080", customerScopePath)
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Path != "/api/" {
		t.Fatalf("path = %q, want /api/", u.Path)
	}

	u, err = parseBaseURL("https://example.com/booking/?x=1#frag", adminScopePath)
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "/booking/admin/" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("  ", customerScopePath); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var gotServicesQuery url.Values
	var gotHoursQuery url.Values
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/Vehicle/buscar-veiculos":
			_ = json.NewEncoder(w).Encode([]string{"Civic", "Corolla"})
		case "/api/AvailableServicesPerVehicle":
			gotServicesQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode(availableServicesResponse{AvailableServices: []string{"Polimento"}})
		case "/api/ServiceRules/is-hourly":
			_ = json.NewEncoder(w).Encode(isHourlyResponse{IsHourly: true})
		case "/api/DailyAvailability/verifica-disponibilidade":
			_ = json.NewEncoder(w).Encode([]string{"2024-07-01"})
		case "/api/DailyAvailability/horas-disponiveis":
			gotHoursQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode([]string{"09:00", "14:30"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	vehicles, err := c.Vehicles(ctx)
	if err != nil {
		t.Fatalf("Vehicles returned error: %v", err)
	}
	if len(vehicles) != 2 || vehicles[0] != "Civic" {
		t.Fatalf("Vehicles = %v, want [Civic Corolla]", vehicles)
	}

	services, err := c.ServicesForVehicle(ctx, "Fusca Azul")
	if err != nil {
		t.Fatalf("ServicesForVehicle returned error: %v", err)
	}
	if len(services) != 1 || services[0] != "Polimento" {
		t.Fatalf("ServicesForVehicle = %v, want [Polimento]", services)
	}
	if gotServicesQuery.Get("model") != "Fusca Azul" {
		t.Fatalf("model query = %q, want encoded model", gotServicesQuery.Get("model"))
	}

	hourly, err := c.ServiceIsHourly(ctx, "Polimento")
	if err != nil {
		t.Fatalf("ServiceIsHourly returned error: %v", err)
	}
	if !hourly {
		t.Fatal("ServiceIsHourly = false, want true")
	}

	dates, err := c.AvailableDates(ctx, "Polimento", "Civic")
	if err != nil {
		t.Fatalf("AvailableDates returned error: %v", err)
	}
	if len(dates) != 1 || dates[0] != "2024-07-01" {
		t.Fatalf("AvailableDates = %v", dates)
	}

	hours, err := c.AvailableHours(ctx, "Polimento", "Civic", "2024-07-01")
	if err != nil {
		t.Fatalf("AvailableHours returned error: %v", err)
	}
	if len(hours) != 2 {
		t.Fatalf("AvailableHours = %v, want 2 slots", hours)
	}
	if gotHoursQuery.Get("serviceType") != "Polimento" ||
		gotHoursQuery.Get("vehicleModel") != "Civic" ||
		gotHoursQuery.Get("date") != "2024-07-01" {
		t.Fatalf("hours query = %v, want params encoded", gotHoursQuery)
	}

	if gotUserAgent != defaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotUserAgent, defaultUserAgent)
	}
}

func TestClient_CheckBookingStatusHandling(t *testing.T) {
	t.Parallel()

	var status int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/UserCheck/check" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("phone") != "11999998888" {
			t.Errorf("phone query = %q", r.URL.Query().Get("phone"))
		}
		switch status {
		case http.StatusOK:
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(Booking{ID: "b1", Phone: "11999998888", Status: StatusPending})
		default:
			w.WriteHeader(status)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	status = http.StatusOK
	booking, err := c.CheckBooking(ctx, "11999998888")
	if err != nil {
		t.Fatalf("CheckBooking returned error: %v", err)
	}
	if booking == nil || booking.ID != "b1" {
		t.Fatalf("CheckBooking = %#v, want booking b1", booking)
	}

	status = http.StatusNoContent
	booking, err = c.CheckBooking(ctx, "11999998888")
	if err != nil {
		t.Fatalf("CheckBooking returned error: %v", err)
	}
	if booking != nil {
		t.Fatalf("CheckBooking = %#v, want nil for 204", booking)
	}

	status = http.StatusInternalServerError
	_, err = c.CheckBooking(ctx, "11999998888")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("CheckBooking error = %v, want *StatusError", err)
	}
	if statusErr.Status != http.StatusInternalServerError {
		t.Fatalf("Status = %d, want 500", statusErr.Status)
	}
}

func TestClient_CreateConfirmCancelBodies(t *testing.T) {
	t.Parallel()

	type captured struct {
		method string
		path   string
		body   string
	}
	var got []captured

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = append(got, captured{method: r.Method, path: r.URL.Path, body: string(body)})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	req := BookingRequest{
		Name:        "Ana",
		Phone:       "11999998888",
		Vehicle:     VehicleRef{Model: "Civic", SizeClass: "Pequeno"},
		ServiceType: "Polimento",
		Date:        "2024-07-01",
	}
	if err := c.CreateBooking(ctx, req); err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}
	if err := c.ConfirmBooking(ctx, "b1"); err != nil {
		t.Fatalf("ConfirmBooking returned error: %v", err)
	}
	if err := c.CancelBooking(ctx, "b1"); err != nil {
		t.Fatalf("CancelBooking returned error: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("captured %d requests, want 3", len(got))
	}
	if got[0].method != http.MethodPost || got[0].path != "/api/Bookings/criar" {
		t.Fatalf("create request = %+v", got[0])
	}
	var decoded BookingRequest
	if err := json.Unmarshal([]byte(got[0].body), &decoded); err != nil {
		t.Fatalf("decode create body: %v", err)
	}
	if decoded != req {
		t.Fatalf("create body = %+v, want %+v", decoded, req)
	}

	// Confirm and cancel send the bare id as a JSON string.
	if got[1].method != http.MethodPut || got[1].path != "/api/UserCheck/confirm" || got[1].body != `"b1"` {
		t.Fatalf("confirm request = %+v", got[1])
	}
	if got[2].method != http.MethodPut || got[2].path != "/api/UserCheck/cancel" || got[2].body != `"b1"` {
		t.Fatalf("cancel request = %+v", got[2])
	}
}

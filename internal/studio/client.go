package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// BookingAPI defines the customer-scope operations the wizard depends on.
// This interface is implemented by *Client and can be used for testing.
type BookingAPI interface {
	Vehicles(ctx context.Context) ([]string, error)
	ServicesForVehicle(ctx context.Context, model string) ([]string, error)
	ServiceIsHourly(ctx context.Context, serviceType string) (bool, error)
	AvailableDates(ctx context.Context, serviceType, vehicleModel string) ([]string, error)
	AvailableHours(ctx context.Context, serviceType, vehicleModel, date string) ([]string, error)
	CheckBooking(ctx context.Context, phone string) (*Booking, error)
	CreateBooking(ctx context.Context, req BookingRequest) error
	ConfirmBooking(ctx context.Context, id string) error
	CancelBooking(ctx context.Context, id string) error
}

// Ensure Client implements BookingAPI at compile time.
var _ BookingAPI = (*Client)(nil)

// StatusError reports a non-success HTTP status from the backend.
type StatusError struct {
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

// Client talks to the customer scope of the studio backend.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	customerScopePath = "/api"
	defaultUserAgent  = "vtrstudio/0.1"
	requestTimeout    = 5 * time.Second
)

// NewClient builds a Client for the given backend base URL. The customer
// scope path is appended automatically.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL, customerScopePath)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = requestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Vehicles retrieves the list of bookable vehicle models. The model name
// doubles as the vehicle identifier.
func (c *Client) Vehicles(ctx context.Context) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []string
	if err := c.get(ctx, "/Vehicle/buscar-veiculos", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ServicesForVehicle retrieves the services offered for a vehicle model.
func (c *Client) ServicesForVehicle(ctx context.Context, model string) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("model", model)
	var payload availableServicesResponse
	if err := c.get(ctx, "/AvailableServicesPerVehicle", values, &payload); err != nil {
		return nil, err
	}
	return payload.AvailableServices, nil
}

// ServiceIsHourly reports whether a service books by time slot rather than
// occupying the whole day.
func (c *Client) ServiceIsHourly(ctx context.Context, serviceType string) (bool, error) {
	if c == nil {
		return false, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("serviceType", serviceType)
	var payload isHourlyResponse
	if err := c.get(ctx, "/ServiceRules/is-hourly", values, &payload); err != nil {
		return false, err
	}
	return payload.IsHourly, nil
}

// AvailableDates retrieves the bookable dates for a service/vehicle pair as
// ISO date strings.
func (c *Client) AvailableDates(ctx context.Context, serviceType, vehicleModel string) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("serviceType", serviceType)
	values.Set("vehicleModel", vehicleModel)
	var payload []string
	if err := c.get(ctx, "/DailyAvailability/verifica-disponibilidade", values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// AvailableHours retrieves the open HH:mm slots for a service/vehicle pair on
// the given yyyy-mm-dd date.
func (c *Client) AvailableHours(ctx context.Context, serviceType, vehicleModel, date string) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("serviceType", serviceType)
	values.Set("vehicleModel", vehicleModel)
	values.Set("date", date)
	var payload []string
	if err := c.get(ctx, "/DailyAvailability/horas-disponiveis", values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CheckBooking looks up an open booking for the given phone number. A 204
// response means no booking exists and yields (nil, nil).
func (c *Client) CheckBooking(ctx context.Context, phone string) (*Booking, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("phone", phone)
	rel := &url.URL{Path: "/UserCheck/check", RawQuery: values.Encode()}

	resp, err := c.doRaw(ctx, http.MethodGet, rel, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil, nil
	case http.StatusOK:
		var booking Booking
		if err := json.NewDecoder(resp.Body).Decode(&booking); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return &booking, nil
	default:
		return nil, &StatusError{Path: rel.Path, Status: resp.StatusCode}
	}
}

// CreateBooking submits a new booking.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.send(ctx, http.MethodPost, "/Bookings/criar", req, nil)
}

// ConfirmBooking confirms an existing booking by id.
func (c *Client) ConfirmBooking(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	// The backend expects the bare id as a JSON string body.
	return c.send(ctx, http.MethodPut, "/UserCheck/confirm", id, nil)
}

// CancelBooking cancels an existing booking by id.
func (c *Client) CancelBooking(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.send(ctx, http.MethodPut, "/UserCheck/cancel", id, nil)
}

func (c *Client) get(ctx context.Context, path string, values url.Values, dest any) error {
	rel := &url.URL{Path: path}
	if len(values) > 0 {
		rel.RawQuery = values.Encode()
	}
	return doJSON(ctx, c.http, c.baseURL, c.userAgent, http.MethodGet, rel, nil, dest, nil)
}

func (c *Client) send(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return doJSON(ctx, c.http, c.baseURL, c.userAgent, method, rel, body, dest, nil)
}

func (c *Client) doRaw(ctx context.Context, method string, rel *url.URL, body io.Reader) (*http.Response, error) {
	reqURL := c.baseURL.ResolveReference(relativeRef(rel))
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

// doJSON performs a JSON request against base+rel. The header hook, when
// non-nil, runs before the request is sent (the admin scope injects its
// bearer token through it).
func doJSON(ctx context.Context, hc *http.Client, base *url.URL, userAgent, method string, rel *url.URL, body, dest any, header func(*http.Request) error) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	reqURL := base.ResolveReference(relativeRef(rel))
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if header != nil {
		if err := header(req); err != nil {
			return err
		}
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &StatusError{Path: rel.Path, Status: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// relativeRef strips the leading slash so ResolveReference keeps the scope
// path prefix of the base URL.
func relativeRef(rel *url.URL) *url.URL {
	dup := *rel
	dup.Path = strings.TrimPrefix(dup.Path, "/")
	return &dup
}

func parseBaseURL(raw, scopePath string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("base url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + scopePath + "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

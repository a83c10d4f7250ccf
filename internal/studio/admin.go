package studio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNoSession indicates that no usable admin token is available. The admin
// UI routes to the login view when it sees this error.
var ErrNoSession = errors.New("no admin session")

// TokenSource supplies the bearer token attached to admin-scope requests.
// Implementations return ErrNoSession when no valid token is stored.
type TokenSource interface {
	Token() (string, error)
}

// AdminAPI defines the back-office operations used by the admin UI.
type AdminAPI interface {
	Login(ctx context.Context, username, password string) (string, error)

	ListBookings(ctx context.Context) ([]Booking, error)
	ConfirmBookingByID(ctx context.Context, id string) error
	CancelBookingByID(ctx context.Context, id string) error
	DeleteBooking(ctx context.Context, id string) error

	VehicleCategories(ctx context.Context) ([]VehicleCategory, error)
	AddVehicle(ctx context.Context, category, model string) error
	RenameVehicle(ctx context.Context, category, oldModel, newModel string) error
	RemoveVehicle(ctx context.Context, category, model string) error

	ServiceRules(ctx context.Context) ([]ServiceRule, error)
	ServiceRule(ctx context.Context, id string) (*ServiceRule, error)
	CreateServiceRule(ctx context.Context, rule ServiceRule) (*ServiceRule, error)
	UpdateServiceRule(ctx context.Context, id string, rule ServiceRule) (*ServiceRule, error)
	DeleteServiceRule(ctx context.Context, id string) error

	CreateUser(ctx context.Context, req CreateUserRequest) (*AdminUser, error)
	User(ctx context.Context, username string) (*AdminUser, error)
	UpdateUser(ctx context.Context, username string, req UpdateUserRequest) (*AdminUser, error)
	DeleteUser(ctx context.Context, username string) error
}

var _ AdminAPI = (*AdminClient)(nil)

// AdminClient talks to the bearer-token-authenticated admin scope.
type AdminClient struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tokens    TokenSource
}

const adminScopePath = "/admin"

// NewAdminClient builds an AdminClient for the given backend base URL. The
// token source is consulted on every request rather than captured once, so a
// fresh login takes effect immediately.
func NewAdminClient(baseURL string, timeout time.Duration, tokens TokenSource) (*AdminClient, error) {
	base, err := parseBaseURL(baseURL, adminScopePath)
	if err != nil {
		return nil, err
	}
	if tokens == nil {
		return nil, fmt.Errorf("token source is nil")
	}
	if timeout <= 0 {
		timeout = requestTimeout
	}
	return &AdminClient{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
		tokens:    tokens,
	}, nil
}

// Login authenticates a staff user and returns the issued bearer token.
// Login is the only admin operation that does not attach a token.
func (c *AdminClient) Login(ctx context.Context, username, password string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	var payload loginResponse
	rel := &url.URL{Path: "/login"}
	err := doJSON(ctx, c.http, c.baseURL, c.userAgent, http.MethodPost, rel, loginRequest{Username: username, Password: password}, &payload, nil)
	if err != nil {
		return "", err
	}
	if payload.Token == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return payload.Token, nil
}

// ListBookings retrieves all bookings visible to the back office.
func (c *AdminClient) ListBookings(ctx context.Context) ([]Booking, error) {
	var payload []Booking
	if err := c.do(ctx, http.MethodGet, "/bookings", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ConfirmBookingByID marks a booking confirmed.
func (c *AdminClient) ConfirmBookingByID(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/bookings/"+id+"/confirm", nil, nil)
}

// CancelBookingByID marks a booking cancelled.
func (c *AdminClient) CancelBookingByID(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/bookings/"+id+"/cancel", nil, nil)
}

// DeleteBooking removes a booking entirely.
func (c *AdminClient) DeleteBooking(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/bookings/"+id, nil, nil)
}

// VehicleCategories retrieves the size categories and their vehicle models.
func (c *AdminClient) VehicleCategories(ctx context.Context) ([]VehicleCategory, error) {
	var payload []VehicleCategory
	if err := c.do(ctx, http.MethodGet, "/vehicle-categories", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// AddVehicle appends a vehicle model to a category. The backend expects the
// bare model name as a JSON string body.
func (c *AdminClient) AddVehicle(ctx context.Context, category, model string) error {
	return c.do(ctx, http.MethodPost, "/vehicle-categories/"+category+"/add", model, nil)
}

// RenameVehicle replaces a model name inside a category.
func (c *AdminClient) RenameVehicle(ctx context.Context, category, oldModel, newModel string) error {
	body := struct {
		OldName string `json:"oldName"`
		NewName string `json:"newName"`
	}{OldName: oldModel, NewName: newModel}
	return c.do(ctx, http.MethodPut, "/vehicle-categories/"+category+"/edit", body, nil)
}

// RemoveVehicle removes a vehicle model from a category.
func (c *AdminClient) RemoveVehicle(ctx context.Context, category, model string) error {
	rel := &url.URL{Path: "/vehicle-categories/" + category + "/remove"}
	values := url.Values{}
	values.Set("name", model)
	rel.RawQuery = values.Encode()
	return c.doRel(ctx, http.MethodDelete, rel, nil, nil)
}

// ServiceRules retrieves every configured service rule.
func (c *AdminClient) ServiceRules(ctx context.Context) ([]ServiceRule, error) {
	var payload []ServiceRule
	if err := c.do(ctx, http.MethodGet, "/services", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ServiceRule retrieves a single service rule by id.
func (c *AdminClient) ServiceRule(ctx context.Context, id string) (*ServiceRule, error) {
	var payload ServiceRule
	if err := c.do(ctx, http.MethodGet, "/services/"+id, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreateServiceRule registers a new service rule.
func (c *AdminClient) CreateServiceRule(ctx context.Context, rule ServiceRule) (*ServiceRule, error) {
	var payload ServiceRule
	if err := c.do(ctx, http.MethodPost, "/services", rule, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateServiceRule replaces a service rule by id.
func (c *AdminClient) UpdateServiceRule(ctx context.Context, id string, rule ServiceRule) (*ServiceRule, error) {
	var payload ServiceRule
	if err := c.do(ctx, http.MethodPut, "/services/"+id, rule, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteServiceRule removes a service rule by id.
func (c *AdminClient) DeleteServiceRule(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/services/"+id, nil, nil)
}

// CreateUser registers a back-office account.
func (c *AdminClient) CreateUser(ctx context.Context, req CreateUserRequest) (*AdminUser, error) {
	var payload AdminUser
	if err := c.do(ctx, http.MethodPost, "/users", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// User retrieves a back-office account by username.
func (c *AdminClient) User(ctx context.Context, username string) (*AdminUser, error) {
	var payload AdminUser
	if err := c.do(ctx, http.MethodGet, "/users/"+username, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateUser modifies a back-office account.
func (c *AdminClient) UpdateUser(ctx context.Context, username string, req UpdateUserRequest) (*AdminUser, error) {
	var payload AdminUser
	if err := c.do(ctx, http.MethodPut, "/users/"+username, req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteUser removes a back-office account.
func (c *AdminClient) DeleteUser(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+username, nil, nil)
}

func (c *AdminClient) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doRel(ctx, method, rel, body, dest)
}

func (c *AdminClient) doRel(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return doJSON(ctx, c.http, c.baseURL, c.userAgent, method, rel, body, dest, c.authorize)
}

func (c *AdminClient) authorize(req *http.Request) error {
	token, err := c.tokens.Token()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

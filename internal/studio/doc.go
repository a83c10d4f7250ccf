// Package studio provides HTTP clients for the VTR Studio booking backend.
//
// # Overview
//
// This package defines the two API clients the application uses: the
// customer-facing booking client and the authenticated back-office client.
// It handles HTTP communication, JSON serialization, and type-safe
// representation of bookings, services, and vehicle categories.
//
// # Architecture
//
// The package is split into three files:
//
//   - client.go: customer booking client over the /api scope
//   - admin.go: back-office client over the /admin scope
//   - types.go: data structures mirroring the backend API schema
//
// # Client Usage
//
// Create a booking client from the configured base URL:
//
//	client, err := studio.NewClient("http://127.0.0.1:5080", 5*time.Second)
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	vehicles, err := client.Vehicles(ctx)
//	if err != nil {
//		log.Printf("vehicle fetch failed: %v", err)
//	}
//
// The admin client additionally takes a TokenSource that supplies the bearer
// token per request:
//
//	admin, err := studio.NewAdminClient(baseURL, timeout, tokens)
//
// A TokenSource returning ErrNoSession makes the request fail before it is
// sent, which callers use to route the operator back to the login screen.
//
// # Error Handling
//
// All methods return wrapped errors with context about the failed operation.
// Non-success HTTP statuses become a *StatusError carrying the request path
// and status code, so callers can distinguish an expired session (401) from
// other failures with errors.As.
//
// # Context Support
//
// Every request method accepts a context.Context, so callers can cancel
// in-flight requests when the UI moves on.
package studio

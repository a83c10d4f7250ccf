// Package app provides the orchestration layer for the vtrstudio client.
//
// # Overview
//
// This package wires together configuration, the booking API clients, the
// wizard controller, and the UI into the complete vtrstudio experience. It is
// the composition root where all dependencies are initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load client configuration from ~/.config/vtrstudio/config.toml
//  2. Load the persisted session (stored admin token and theme)
//  3. Initialize the customer booking client against the /api scope
//  4. Initialize the admin client against the /admin scope, fed bearer
//     tokens from the session store
//  5. Create the wizard controller around the booking client
//  6. Start the TUI in either the wizard or the back-office face and block
//     until the user exits or the context cancels
//
// # Components
//
//   - app.go: Options struct and the Run function
//
// # Error Handling
//
// Run returns an error only for startup failures: an unreadable config file
// or a malformed base URL. Everything after the UI starts is recoverable;
// request failures surface as messages inside the running interface.
//
// # Configuration
//
// The Options struct allows callers to customize:
//
//   - ConfigPath: path to config.toml (default: ~/.config/vtrstudio/config.toml)
//   - SessionPath: path to session.toml (default: ~/.config/vtrstudio/session.toml)
//   - BaseURL: backend address override, taking precedence over the config file
//   - Admin: open the back office instead of the booking wizard
//
// # Dependencies
//
//   - config: loads and parses the client configuration file
//   - session: persisted admin token and theme preference
//   - studio: HTTP clients for the booking backend
//   - wizard: the booking flow state machine
//   - ui: terminal user interface implementation
package app

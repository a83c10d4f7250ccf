// Package config handles loading and parsing the vtrstudio configuration file.
//
// # Overview
//
// This package reads the client's TOML configuration to discover the booking
// backend's address and the HTTP timeout. The configuration is deliberately
// small; everything else the client needs is negotiated at runtime.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/vtrstudio/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/vtrstudio/config.toml
//   - Backend base URL: http://127.0.0.1:5080
//   - HTTP timeout: 5 seconds
//
// # TOML Format
//
// Example config.toml:
//
//	base_url = "https://booking.vtrstudio.example"
//	timeout_seconds = 10
//
// Both fields are optional. Tilde expansion is performed on the config path.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//
// A missing config file is NOT an error - defaults are used instead. This
// lets vtrstudio work out-of-the-box against a locally running backend.
//
// # Design Philosophy
//
// The config package is read-only and stateless - it loads configuration
// once at startup and returns an immutable Config struct. No global state
// or singleton patterns are used.
package config

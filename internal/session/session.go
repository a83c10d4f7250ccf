// Package session persists per-user client state for vtrstudio.
// State is stored in ~/.config/vtrstudio/session.toml.
package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/1enzz/vtrstudio/internal/studio"
)

// Session holds the persisted client state: the admin bearer token issued by
// the backend and the preferred UI theme.
type Session struct {
	AdminToken string `toml:"admin_token"`
	Theme      string `toml:"theme"`
}

const (
	defaultSessionPath = "~/.config/vtrstudio/session.toml"
	defaultTheme       = "Studio"
)

// Load reads the session from the given path, falling back to defaults if
// the file is missing or unreadable.
func Load(path string) (Session, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Session{Theme: defaultTheme}, nil
	}

	s := Session{Theme: defaultTheme}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return s, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &s); err != nil {
		return Session{Theme: defaultTheme}, nil // Graceful degradation
	}

	if strings.TrimSpace(s.Theme) == "" {
		s.Theme = defaultTheme
	}

	return s, nil
}

// Save writes the session to the given path, creating directories as needed.
func Save(path string, s Session) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	bytes, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	// The token is a credential; keep the file private.
	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	return nil
}

// Store is a TokenSource over the persisted session file. It re-reads the
// file on every request so a login in the same process takes effect without
// restarting.
type Store struct {
	Path string
}

var _ studio.TokenSource = (*Store)(nil)

// Token returns the stored admin bearer token. It yields
// studio.ErrNoSession when no token is stored or the stored one has expired.
func (s *Store) Token() (string, error) {
	sess, err := Load(s.Path)
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(sess.AdminToken)
	if token == "" {
		return "", studio.ErrNoSession
	}
	if Expired(token, time.Now()) {
		return "", studio.ErrNoSession
	}
	return token, nil
}

// SaveToken persists a freshly issued token, keeping the other fields.
func (s *Store) SaveToken(token string) error {
	sess, err := Load(s.Path)
	if err != nil {
		return err
	}
	sess.AdminToken = token
	return Save(s.Path, sess)
}

// Clear drops the stored token, keeping the other fields.
func (s *Store) Clear() error {
	sess, err := Load(s.Path)
	if err != nil {
		return err
	}
	sess.AdminToken = ""
	return Save(s.Path, sess)
}

// Expired reports whether the token's exp claim lies in the past. The
// signature is not verified client-side; only the backend can do that. A
// token without a parsable exp claim is treated as unexpired and left for
// the backend to reject.
func Expired(token string, now time.Time) bool {
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSessionPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

package session

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/1enzz/vtrstudio/internal/studio"
)

// unsignedToken builds a syntactically valid JWT around the given claims
// JSON. The signature is junk; expiry checks never verify it.
func unsignedToken(claims string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(claims))
	return header + "." + payload + ".sig"
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", s.Theme, defaultTheme)
	}
	if s.AdminToken != "" {
		t.Fatalf("AdminToken = %q, want empty", s.AdminToken)
	}
}

func TestLoad_CorruptFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(path, []byte("{{{{not toml"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", s.Theme, defaultTheme)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.toml")
	want := Session{AdminToken: "tok-123", Theme: "Slate"}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("file mode = %o, want 600", perm)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
}

func TestStore_TokenLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	store := &Store{Path: path}

	if _, err := store.Token(); !errors.Is(err, studio.ErrNoSession) {
		t.Fatalf("Token error = %v, want ErrNoSession for empty store", err)
	}

	future := unsignedToken(`{"exp": 9999999999}`)
	if err := store.SaveToken(future); err != nil {
		t.Fatalf("SaveToken returned error: %v", err)
	}
	token, err := store.Token()
	if err != nil {
		t.Fatalf("Token returned error: %v", err)
	}
	if token != future {
		t.Fatalf("Token = %q, want stored token", token)
	}

	// Saving a token keeps the rest of the session intact.
	sess, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if sess.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want preserved default", sess.Theme)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, err := store.Token(); !errors.Is(err, studio.ErrNoSession) {
		t.Fatalf("Token error = %v, want ErrNoSession after clear", err)
	}
}

func TestStore_ExpiredTokenYieldsNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	store := &Store{Path: path}

	expired := unsignedToken(`{"exp": 1000000000}`)
	if err := store.SaveToken(expired); err != nil {
		t.Fatalf("SaveToken returned error: %v", err)
	}

	if _, err := store.Token(); !errors.Is(err, studio.ErrNoSession) {
		t.Fatalf("Token error = %v, want ErrNoSession for expired token", err)
	}
}

func TestExpired(t *testing.T) {
	now := time.Unix(1800000000, 0)

	if !Expired(unsignedToken(`{"exp": 1700000000}`), now) {
		t.Fatal("past exp not reported as expired")
	}
	if Expired(unsignedToken(`{"exp": 1900000000}`), now) {
		t.Fatal("future exp reported as expired")
	}
	if Expired(unsignedToken(`{}`), now) {
		t.Fatal("token without exp reported as expired")
	}
	if Expired("not-a-jwt", now) {
		t.Fatal("unparsable token reported as expired")
	}
}

// Package prefs persists the user's local preferences: the auth token,
// the language/currency pair and the resolved shipping country. The mobile
// app keeps these in device storage; here they live in a JSON file under
// the OS config directory.
package prefs

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Prefs is the persisted preference set.
type Prefs struct {
	Token    string `json:"token,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Language string `json:"language,omitempty"`
	Currency string `json:"currency,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Store reads and writes Prefs at a fixed path.
type Store struct {
	mu   sync.Mutex
	path string
}

// DefaultPath returns the preference file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wanslu", "prefs.json"), nil
}

// Open creates a Store backed by the given file path.
func Open(path string) *Store {
	return &Store{path: path}
}

// Load reads the current preferences. A missing file yields zero Prefs
// without error.
func (s *Store) Load() (Prefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (Prefs, error) {
	var p Prefs
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Prefs{}, err
	}
	return p, nil
}

// Save writes the preferences, creating the parent directory if needed.
func (s *Store) Save(p Prefs) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Update loads, applies fn, and saves in one locked step.
func (s *Store) Update(fn func(*Prefs)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load()
	if err != nil {
		return err
	}
	fn(&p)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Token returns the persisted bearer token. ok is false when no token is
// stored or the file cannot be read (callers fail open).
func (s *Store) Token() (string, bool) {
	p, err := s.Load()
	if err != nil || p.Token == "" {
		return "", false
	}
	return p.Token, true
}

// LocaleHint returns the "language/currency" header value, e.g. "en/USD".
// ok is false when either half of the preference is absent or the read
// fails; the hint must then be omitted entirely, not defaulted.
func (s *Store) LocaleHint() (string, bool) {
	p, err := s.Load()
	if err != nil || p.Language == "" || p.Currency == "" {
		return "", false
	}
	return p.Language + "/" + p.Currency, true
}

// Country returns the resolved shipping country code, or fallback when the
// preference is absent or unreadable.
func (s *Store) Country(fallback string) string {
	p, err := s.Load()
	if err != nil || p.Country == "" {
		return fallback
	}
	return p.Country
}

package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aymane70/taskman/internal/model"
)

// ErrNotFound is returned by Load when no credentials have been persisted
var ErrNotFound = errors.New("no stored credentials")

// Credentials is the one piece of durable state the client owns: the
// session token plus the minimal identity needed to personalize the UI.
type Credentials struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Store persists credentials as a JSON file, readable only by the owner
type Store struct {
	path string
}

// Open creates a store backed by the given file path
func Open(path string) *Store {
	return &Store{path: path}
}

// OpenDefault creates a store at ~/.taskman/credentials.json
func OpenDefault() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return Open(filepath.Join(home, ".taskman", "credentials.json")), nil
}

// Load reads the persisted credentials. A missing or unreadable file is
// reported as ErrNotFound so callers fall back to anonymous.
func (s *Store) Load() (Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Credentials{}, ErrNotFound
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, ErrNotFound
	}
	if creds.Token == "" || creds.User.ID == "" {
		return Credentials{}, ErrNotFound
	}
	return creds, nil
}

// Save writes the credentials with owner-only permissions
func (s *Store) Save(creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// Clear removes the persisted credentials; a missing file is not an error
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

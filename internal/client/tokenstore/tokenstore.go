// Package tokenstore persists the bearer token used by the admin client.
//
// Exactly one token is active at a time. It is overwritten on re-login and
// removed on logout. Read failures of the backing medium are treated as
// "no token" rather than surfaced to callers.
package tokenstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	configDir = "toweradmin"
	cacheFile = "token.json"
)

// Store holds a single opaque bearer token. Set with an empty string clears
// the stored token.
type Store interface {
	Set(token string) error
	Get() string
}

// tokenCache is the on-disk shape. The jwt_token key is the sole
// authentication indicator across restarts.
type tokenCache struct {
	Token string `json:"jwt_token"`
}

// FileStore persists the token under ~/.config/toweradmin/token.json with
// owner-only permissions.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore resolves the cache location under the user's home directory.
func NewFileStore() (*FileStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return &FileStore{path: filepath.Join(home, ".config", configDir, cacheFile)}, nil
}

// NewFileStoreAt uses an explicit path, mainly for tests.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(token) == "" {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove token cache: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	b, err := json.MarshalIndent(tokenCache{Token: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token cache: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}

// Get returns the cached token, or "" when the cache is absent or unreadable.
func (s *FileStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	var cache tokenCache
	if err := json.Unmarshal(b, &cache); err != nil {
		return ""
	}
	return strings.TrimSpace(cache.Token)
}

// MemStore keeps the token in memory only.
type MemStore struct {
	mu    sync.Mutex
	token string
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
	return nil
}

func (s *MemStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Package tokencache persists Taiga auth tokens so users can
// re-authenticate without re-entering credentials. One JSON file per
// host under a user-private cache directory; the directory is 0700 and
// every file 0600.
package tokencache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotCached reports that no token is stored for the requested host.
var ErrNotCached = errors.New("no cached token for host")

// Entry is the persisted token record.
type Entry struct {
	Host      string `json:"host"`
	AuthToken string `json:"auth_token"`
	TokenType string `json:"token_type"`
	UserID    int    `json:"user_id,omitempty"`
}

// Info describes a cached token without exposing its value.
type Info struct {
	Host      string    `json:"host"`
	TokenType string    `json:"token_type"`
	UserID    int       `json:"user_id,omitempty"`
	SavedAt   time.Time `json:"saved_at"`
}

// Store reads and writes token files under one directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, defaulting to
// <user cache dir>/taiga-mcp when dir is empty. The directory is
// created with owner-only permissions.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolving user cache dir: %w", err)
		}
		dir = filepath.Join(base, "taiga-mcp")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}
	// MkdirAll leaves pre-existing directories alone; tighten anyway.
	if err := os.Chmod(dir, 0o700); err != nil {
		return nil, fmt.Errorf("restricting cache dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the cache directory path.
func (s *Store) Dir() string { return s.dir }

// Path returns the token file path for a host.
func (s *Store) Path(host string) string {
	return filepath.Join(s.dir, sanitizeHost(host)+".json")
}

// Save writes the entry for its host, replacing any previous token.
func (s *Store) Save(e Entry) error {
	if e.Host == "" || e.AuthToken == "" {
		return fmt.Errorf("token entry needs host and auth token")
	}
	if e.TokenType == "" {
		e.TokenType = "Bearer"
	}

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token entry: %w", err)
	}
	path := s.Path(e.Host)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing token file %s: %w", path, err)
	}
	return nil
}

// Load reads the entry for host. Returns ErrNotCached when absent.
func (s *Store) Load(host string) (Entry, error) {
	data, err := os.ReadFile(s.Path(host))
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, fmt.Errorf("%w: %s", ErrNotCached, host)
		}
		return Entry{}, fmt.Errorf("reading token file for %s: %w", host, err)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, fmt.Errorf("parsing token file for %s: %w", host, err)
	}
	return e, nil
}

// Delete removes the token for host and reports whether one existed.
func (s *Store) Delete(host string) (bool, error) {
	err := os.Remove(s.Path(host))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("deleting token file for %s: %w", host, err)
	}
	return true, nil
}

// List returns metadata for every cached token. Token values are never
// included.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading cache dir %s: %w", s.dir, err)
	}

	var infos []Info
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, de.Name()))
		if err != nil {
			continue
		}
		var e Entry
		if json.Unmarshal(data, &e) != nil || e.Host == "" {
			continue
		}
		info := Info{Host: e.Host, TokenType: e.TokenType, UserID: e.UserID}
		if fi, err := de.Info(); err == nil {
			info.SavedAt = fi.ModTime()
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// sanitizeHost turns a host URL into a safe filename: scheme dropped,
// anything outside [a-zA-Z0-9.-] replaced.
func sanitizeHost(host string) string {
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimRight(host, "/")

	var b strings.Builder
	for _, r := range host {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

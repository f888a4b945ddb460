// Package session maps opaque session identifiers to authenticated
// Taiga client handles.
//
// The registry is the single owner of the session map: every tool call
// resolves its session_id here, and logout removes it here. Handles are
// stored unexamined except for their authentication predicate. Sessions
// never expire on their own; only explicit removal or process restart
// clears them.
package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Handle is the minimal contract the registry requires from a stored
// client. Everything else about the handle is opaque.
type Handle interface {
	IsAuthenticated() bool
}

// AuthError reports that a session identifier cannot be used for
// authenticated work: it is either unknown or its handle no longer
// holds credentials. The caller should prompt for a new login.
type AuthError struct {
	ID string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("invalid or expired session ID: %q. Please login again", e.ID)
}

// Status describes a session without side effects.
type Status struct {
	Found         bool
	Authenticated bool
}

// Registry is a concurrency-safe in-memory session store. The zero
// value is not usable; construct with NewRegistry.
type Registry[H Handle] struct {
	mu       sync.Mutex
	sessions map[string]H
}

// NewRegistry creates an empty session registry.
func NewRegistry[H Handle]() *Registry[H] {
	return &Registry[H]{sessions: make(map[string]H)}
}

// Create stores the handle under a fresh random identifier and returns
// the identifier. Each call yields a new identifier, even for a handle
// pointing at the same account and host.
func (r *Registry[H]) Create(h H) string {
	id := uuid.NewString()

	r.mu.Lock()
	r.sessions[id] = h
	r.mu.Unlock()

	slog.Debug("session created", "session", Short(id))
	return id
}

// Get looks up a handle by identifier. It does not check whether the
// handle is still authenticated.
func (r *Registry[H]) Get(id string) (H, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.sessions[id]
	return h, ok
}

// Authenticated looks up a handle and verifies it still holds
// credentials. It returns an *AuthError when the identifier is unknown
// or the handle reports not-authenticated.
func (r *Registry[H]) Authenticated(id string) (H, error) {
	r.mu.Lock()
	h, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok || !h.IsAuthenticated() {
		slog.Warn("invalid or expired session", "session", Short(id))
		var zero H
		return zero, &AuthError{ID: id}
	}
	return h, nil
}

// Remove deletes the session if present and reports whether a session
// was removed. Removing an unknown identifier is not an error.
func (r *Registry[H]) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Status reports whether the session exists and whether its handle is
// authenticated. It never fails; used for diagnostics.
func (r *Registry[H]) Status(id string) Status {
	r.mu.Lock()
	h, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok {
		return Status{}
	}
	return Status{Found: true, Authenticated: h.IsAuthenticated()}
}

// Len returns the number of active sessions.
func (r *Registry[H]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Short truncates a session identifier for logging so full tokens
// never land in log output.
func Short(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

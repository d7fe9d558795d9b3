// Package session holds the currently authenticated user and keeps it in
// durable local storage so it survives restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"bookkeeping/internal/core"
	"bookkeeping/internal/log"
	"bookkeeping/internal/storage"
)

// StorageKey is the single key the session is stored under.
const StorageKey = "user"

// ErrNotAuthenticated is returned by callers that need a session user.
var ErrNotAuthenticated = errors.New("not authenticated")

// Store holds at most one user. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	user    *core.User
	storage storage.LocalStorage
	logger  *log.Logger
}

// New restores the session from s. A stored record that does not decode to a
// valid user is discarded and the store starts logged out; only storage
// failures are returned as errors.
func New(ctx context.Context, s storage.LocalStorage, logger *log.Logger) (*Store, error) {
	st := &Store{
		storage: s,
		logger:  log.OrDefault(logger).WithComponent(log.ComponentSession),
	}

	raw, ok, err := s.GetItem(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return st, nil
	}

	u, err := Decode([]byte(raw))
	if err != nil {
		st.logger.WarnContext(ctx, "Discarding malformed session record", log.FieldError, err)
		if rmErr := s.RemoveItem(ctx, StorageKey); rmErr != nil {
			return nil, fmt.Errorf("remove malformed session: %w", rmErr)
		}
		return st, nil
	}

	st.user = &u
	return st, nil
}

// Decode parses and validates a serialized user record.
func Decode(data []byte) (core.User, error) {
	var u core.User
	if err := json.Unmarshal(data, &u); err != nil {
		return core.User{}, fmt.Errorf("decode session: %w", err)
	}
	if err := u.Validate(); err != nil {
		return core.User{}, fmt.Errorf("invalid session user: %w", err)
	}
	return u, nil
}

// Encode serializes the user the way it is stored.
func Encode(u core.User) ([]byte, error) {
	return json.Marshal(u)
}

// User returns the current user, if any.
func (s *Store) User() (core.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return core.User{}, false
	}
	return *s.user, true
}

// IsAuthenticated is true iff a user is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// RequireUser returns the current user or ErrNotAuthenticated.
func (s *Store) RequireUser() (core.User, error) {
	u, ok := s.User()
	if !ok {
		return core.User{}, ErrNotAuthenticated
	}
	return u, nil
}

// SetUser persists u and makes it the current user. Memory is only updated
// once the write has succeeded.
func (s *Store) SetUser(ctx context.Context, u core.User) error {
	if err := u.Validate(); err != nil {
		return fmt.Errorf("set user: %w", err)
	}
	data, err := Encode(u)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.SetItem(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.user = &u
	s.logger.DebugContext(ctx, "Session stored", log.FieldUserID, u.ID)
	return nil
}

// Logout clears the user and removes the stored record.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	if err := s.storage.RemoveItem(ctx, StorageKey); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	s.logger.DebugContext(ctx, "Session cleared")
	return nil
}

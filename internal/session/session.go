// ABOUTME: Session store holding the opaque access/refresh credential pair
// ABOUTME: One injected instance per process; reset hooks replace a hard reload on sign-out

package session

import (
	"log/slog"
	"sync"

	"go.uber.org/multierr"
)

// Persisted key names
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Credential is the token pair issued at sign-in. Neither token is ever
// inspected; presence of Access is the only authentication signal.
type Credential struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Store is the process-wide credential holder
type Store struct {
	storage Storage
	logger  *slog.Logger

	mu    sync.Mutex
	hooks []func()
}

// NewStore wraps storage. A nil logger uses slog.Default().
func NewStore(storage Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		storage: storage,
		logger:  logger.With("component", "session"),
	}
}

// Save writes both tokens, overwriting any prior value
func (s *Store) Save(cred Credential) error {
	if err := s.storage.Set(AccessTokenKey, cred.Access); err != nil {
		return err
	}
	if err := s.storage.Set(RefreshTokenKey, cred.Refresh); err != nil {
		return err
	}
	s.logger.Debug("credential saved")
	return nil
}

// Clear removes both keys, then runs every reset hook so that views holding
// authenticated-only state can drop it. Hooks run even if removal failed.
func (s *Store) Clear() error {
	err := multierr.Append(
		s.storage.Remove(AccessTokenKey),
		s.storage.Remove(RefreshTokenKey),
	)
	if err != nil {
		s.logger.Warn("clearing credential failed", "error", err)
	}

	s.mu.Lock()
	hooks := make([]func(), len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
	s.logger.Debug("credential cleared", "hooks", len(hooks))
	return err
}

// Current returns the access token, or "" when signed out.
// A storage read failure is treated as signed out.
func (s *Store) Current() string {
	v, _, err := s.storage.Get(AccessTokenKey)
	if err != nil {
		s.logger.Warn("reading access token failed", "error", err)
		return ""
	}
	return v
}

// Credential returns the stored pair and whether an access token is present
func (s *Store) Credential() (Credential, bool) {
	access := s.Current()
	if access == "" {
		return Credential{}, false
	}
	refresh, _, err := s.storage.Get(RefreshTokenKey)
	if err != nil {
		s.logger.Warn("reading refresh token failed", "error", err)
	}
	return Credential{Access: access, Refresh: refresh}, true
}

// OnClear registers a hook run after every Clear
func (s *Store) OnClear(hook func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

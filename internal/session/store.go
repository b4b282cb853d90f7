// Package session holds the player's short-lived access token and its expiry.
//
// A Store is created once per client process and passed to whatever needs to
// know whether the player is signed in. Every mutation is written through to a
// Storage so the token survives restarts; expiry is only evaluated when
// IsTokenValid is called, nothing clears a stale token in the background.
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// TokenTTL is how long a token stays valid after it is set.
const TokenTTL = 12 * time.Hour

// StorageKey namespaces the persisted entry.
const StorageKey = "dice-arena-session"

// State is the persisted shape. Both fields are nil or both are set.
type State struct {
	AccessToken *string `json:"accessToken"`
	TokenExpiry *int64  `json:"tokenExpiry"` // epoch milliseconds
}

// Storage loads and saves the whole State at once.
type Storage interface {
	Load() (State, error)
	Save(State) error
}

type Store struct {
	mu      sync.RWMutex
	state   State
	storage Storage
	now     func() time.Time
	logger  *zap.Logger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore rehydrates from storage. A failed or inconsistent load starts the
// store empty.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if storage == nil {
		return s
	}
	loaded, err := storage.Load()
	if err != nil {
		s.logger.Warn("session: load persisted state failed", zap.Error(err))
		return s
	}
	if (loaded.AccessToken == nil) != (loaded.TokenExpiry == nil) {
		s.logger.Warn("session: discarding half-populated persisted state")
		return s
	}
	s.state = loaded
	return s
}

// SetAccessToken stores token and re-arms the expiry. A nil token clears.
func (s *Store) SetAccessToken(token *string) {
	if token == nil {
		s.ClearAccessToken()
		return
	}

	value := *token
	expiry := s.now().Add(TokenTTL).UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{AccessToken: &value, TokenExpiry: &expiry}
	s.persistLocked()
}

func (s *Store) ClearAccessToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	s.persistLocked()
}

// IsTokenValid reports whether a token is held and now is strictly before its
// expiry. It never modifies the store.
func (s *Store) IsTokenValid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.AccessToken == nil || s.state.TokenExpiry == nil {
		return false
	}
	return s.now().UnixMilli() < *s.state.TokenExpiry
}

// AccessToken returns the stored token even when it has expired.
func (s *Store) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.AccessToken == nil {
		return "", false
	}
	return *s.state.AccessToken, true
}

func (s *Store) TokenExpiry() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.TokenExpiry == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*s.state.TokenExpiry), true
}

// State returns a copy safe to hold after further mutations.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}
	if err := s.storage.Save(copyState(s.state)); err != nil {
		s.logger.Warn("session: persist state failed, keeping in-memory copy", zap.Error(err))
	}
}

func copyState(in State) State {
	var out State
	if in.AccessToken != nil {
		token := *in.AccessToken
		out.AccessToken = &token
	}
	if in.TokenExpiry != nil {
		expiry := *in.TokenExpiry
		out.TokenExpiry = &expiry
	}
	return out
}

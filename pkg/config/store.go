package config

import "sync"

// Store is the shared, mutable home of the live configuration. The session
// copies a snapshot out of it at activation time; the settings page swaps
// new values in. All access is through copies, so no caller ever holds a
// pointer into shared state.
type Store struct {
	mu  sync.RWMutex
	cfg Config
}

// NewStore creates a store seeded with cfg.
func NewStore(cfg *Config) *Store {
	return &Store{cfg: *cfg}
}

// Get returns a copy of the current configuration.
func (s *Store) Get() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.cfg
	return &c
}

// Set replaces the configuration after clamping it.
func (s *Store) Set(cfg *Config) {
	c := *cfg
	c.Clamp()
	s.mu.Lock()
	s.cfg = c
	s.mu.Unlock()
}

// Package cache provides an in-process TTL key/value store.
//
// Services that previously kept ad hoc package-level maps now take a *Store
// via their ServiceConfig, which keeps them testable and safe under
// concurrent requests.
package cache

import (
	"sync"
	"time"
)

// Store is a thread-safe key/value cache with per-entry expiry.
type Store struct {
	ttl             time.Duration
	cleanupInterval time.Duration

	mu          sync.RWMutex
	entries     map[string]entry
	lastCleanup time.Time
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Config holds configuration for a Store.
type Config struct {
	// TTL is the default lifetime of an entry (default: 5 minutes).
	TTL time.Duration

	// CleanupInterval is how often expired entries are swept on write
	// (default: 5 minutes).
	CleanupInterval time.Duration
}

// New creates a Store with the given configuration.
func New(cfg Config) *Store {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval == 0 {
		cleanupInterval = 5 * time.Minute
	}

	return &Store{
		ttl:             ttl,
		cleanupInterval: cleanupInterval,
		entries:         make(map[string]entry),
		lastCleanup:     time.Now(),
	}
}

// Get returns the value for key if present and not expired.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL.
func (s *Store) Set(key string, value any) {
	s.SetWithTTL(key, value, s.ttl)
}

// SetWithTTL stores value under key with an explicit TTL.
func (s *Store) SetWithTTL(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	s.cleanupLocked()
}

// Delete removes key from the store.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Flush removes all entries.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}

// Len returns the number of entries, including any not yet swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// cleanupLocked sweeps expired entries if the cleanup interval has passed.
// Caller must hold the write lock.
func (s *Store) cleanupLocked() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}
	s.lastCleanup = now

	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

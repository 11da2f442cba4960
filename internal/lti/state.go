package lti

import (
	"context"
	"sync"
	"time"
)

// StateTTL is how long a login state stays valid.
const StateTTL = 5 * time.Minute

// StateEntry is what Login remembers about a pending launch.
type StateEntry struct {
	Nonce     string
	Issuer    string
	TargetURI string
	Expires   time.Time
}

// StateStore holds pending login states in memory. Entries are one-shot
// and expire after the TTL.
type StateStore struct {
	mu      sync.Mutex
	entries map[string]StateEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewStateStore creates a store. A nil clock means time.Now; ttl <= 0
// means StateTTL.
func NewStateStore(ttl time.Duration, now func() time.Time) *StateStore {
	if ttl <= 0 {
		ttl = StateTTL
	}
	if now == nil {
		now = time.Now
	}
	return &StateStore{entries: make(map[string]StateEntry), ttl: ttl, now: now}
}

// Put records entry under state. A zero Expires is set to now + TTL.
func (s *StateStore) Put(state string, entry StateEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.Expires.IsZero() {
		entry.Expires = s.now().Add(s.ttl)
	}
	s.entries[state] = entry
}

// Consume removes and returns the entry for state. Expired entries are
// removed and reported as missing.
func (s *StateStore) Consume(state string) (StateEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[state]
	if !ok {
		return StateEntry{}, false
	}
	delete(s.entries, state)
	if !s.now().Before(e.Expires) {
		return StateEntry{}, false
	}
	return e, true
}

// Sweep drops expired entries and returns how many were removed.
func (s *StateStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for k, e := range s.entries {
		if !now.Before(e.Expires) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries, expired or not.
func (s *StateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Run sweeps every interval until ctx is done.
func (s *StateStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

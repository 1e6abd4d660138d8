// Package session keeps short-lived per-user conversation state, such
// as "this user still has to tell us their name". State is explicit
// and expiring, never an ambient global map.
package session

import (
	"sync"
	"time"
)

// State enumerates what the bot is waiting for from a user.
type State int

const (
	// StateNone means no pending interaction.
	StateNone State = iota
	// StateAwaitingName means the next plain-text message is the
	// user's display name.
	StateAwaitingName
)

type entry struct {
	state     State
	expiresAt time.Time
}

// Store maps user ids to pending states with a TTL. Expired states
// read as StateNone; a janitor goroutine drops them for real.
type Store struct {
	mu          sync.Mutex
	ttl         time.Duration
	entries     map[int64]entry
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

func NewStore(ttl time.Duration) *Store {
	s := &Store{
		ttl:         ttl,
		entries:     make(map[int64]entry),
		stopCleanup: make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Set records a pending state for a user, restarting its TTL.
func (s *Store) Set(userID int64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == StateNone {
		delete(s.entries, userID)
		return
	}
	s.entries[userID] = entry{state: state, expiresAt: time.Now().Add(s.ttl)}
}

// Get returns the user's pending state, expiring it lazily.
func (s *Store) Get(userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok {
		return StateNone
	}
	if time.Now().After(e.expiresAt) {
		delete(s.entries, userID)
		return StateNone
	}
	return e.state
}

// Clear drops any pending state for a user. Command handlers call this
// on every command receipt so stale prompts never linger.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}

// Len reports the number of live states, for metrics and tests.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the janitor goroutine.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stopCleanup) })
}

func (s *Store) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCleanup:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for id, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

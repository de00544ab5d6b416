package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-glance/internal/screen"
)

var (
	// ErrNotFound is returned when no state has been saved yet.
	ErrNotFound = errors.New("no screen state")
)

// MemoryStore is a concurrency-safe holder of the current screen state and
// a bounded history of earlier ones.
type MemoryStore struct {
	mu sync.RWMutex

	latest  *screen.State
	history []screen.State

	// retention configuration
	maxHistory int           // max number of past states kept
	maxAge     time.Duration // optional max age for past states

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save makes state the current one. A finished state is also appended to
// the history; loading placeholders are not.
func (s *MemoryStore) Save(state screen.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = &state
	if state.Phase == screen.PhaseLoading {
		return
	}

	s.history = append(s.history, state)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.history) > s.maxHistory {
		over := len(s.history) - s.maxHistory
		s.history = s.history[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.history); i++ {
			if !s.history[i].UpdatedAt.Before(cutoff) {
				break
			}
		}
		s.history = s.history[i:]
	}
}

// Latest returns the current state.
func (s *MemoryStore) Latest() (screen.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return screen.State{}, ErrNotFound
	}
	return *s.latest, nil
}

// History returns finished states, oldest first.
func (s *MemoryStore) History() []screen.State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]screen.State, len(s.history))
	copy(out, s.history)
	return out
}

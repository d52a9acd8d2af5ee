package stability

import (
	"sync"

	"SignalPulse/internal/domain/models"
	"SignalPulse/internal/domain/repository"
)

// MemoryStore holds per-symbol stability state for the process lifetime.
// Symbols lock independently, so unrelated evaluations never contend.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]models.StabilityState
	locks  map[string]*sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]models.StabilityState),
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *MemoryStore) Get(symbol string) (models.StabilityState, bool) {
	s.mu.Lock()
	st, ok := s.states[symbol]
	s.mu.Unlock()
	return st, ok
}

func (s *MemoryStore) Put(symbol string, st models.StabilityState) {
	s.mu.Lock()
	s.states[symbol] = st
	s.mu.Unlock()
}

// Reset clears all state. Per-symbol locks are kept so an in-flight
// WithLock is not orphaned.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	s.states = make(map[string]models.StabilityState)
	s.mu.Unlock()
}

// WithLock runs fn holding the symbol's lock, creating it on first use.
func (s *MemoryStore) WithLock(symbol string, fn func()) {
	s.mu.Lock()
	l, ok := s.locks[symbol]
	if !ok {
		l = &sync.Mutex{}
		s.locks[symbol] = l
	}
	s.mu.Unlock()

	l.Lock()
	defer l.Unlock()
	fn()
}

var _ repository.StateStore = (*MemoryStore)(nil)

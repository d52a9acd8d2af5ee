package correlation

import (
	"sync"
	"time"

	"SignalPulse/internal/domain/models"
)

// AnchorStore is a read-mostly TTL map of the last strong reading per
// symbol. Dependent evaluations read concurrently; each symbol's own
// evaluation is the only writer for its key.
type AnchorStore struct {
	mu sync.RWMutex
	m  map[string]models.CorrelationAnchor
}

func NewAnchorStore() *AnchorStore {
	return &AnchorStore{m: make(map[string]models.CorrelationAnchor)}
}

// Get returns the anchor for a symbol if present and not expired.
// Expired entries are dropped lazily.
func (s *AnchorStore) Get(symbol string, now time.Time) (models.CorrelationAnchor, bool) {
	s.mu.RLock()
	a, ok := s.m[symbol]
	s.mu.RUnlock()
	if !ok {
		return models.CorrelationAnchor{}, false
	}
	if a.Expired(now) {
		s.mu.Lock()
		if cur, still := s.m[symbol]; still && cur.Expired(now) {
			delete(s.m, symbol)
		}
		s.mu.Unlock()
		return models.CorrelationAnchor{}, false
	}
	return a, true
}

func (s *AnchorStore) Put(a models.CorrelationAnchor) {
	s.mu.Lock()
	s.m[a.Symbol] = a
	s.mu.Unlock()
}

func (s *AnchorStore) Reset() {
	s.mu.Lock()
	s.m = make(map[string]models.CorrelationAnchor)
	s.mu.Unlock()
}

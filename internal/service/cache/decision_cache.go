package cache

import (
	"context"
	"errors"
	"time"

	"SignalPulse/internal/domain/models"
	pkgcache "SignalPulse/pkg/cache"
)

// DecisionCache keeps the last emitted decision per symbol so fetch
// requests never trigger a recomputation. Backed by any cache.Service,
// typically layered memory+redis so replicas share reads.
type DecisionCache struct {
	backend pkgcache.Service
	ttl     time.Duration
}

func NewDecisionCache(backend pkgcache.Service, ttl time.Duration) *DecisionCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &DecisionCache{backend: backend, ttl: ttl}
}

func key(symbol string) string {
	return pkgcache.GenerateKey("decision:last", symbol)
}

func (c *DecisionCache) Store(ctx context.Context, d *models.SignalDecision) error {
	return c.backend.Set(ctx, key(d.Symbol), d, c.ttl)
}

// Last returns the cached decision for a symbol, or ok=false on a miss.
func (c *DecisionCache) Last(ctx context.Context, symbol string) (*models.SignalDecision, bool, error) {
	var d models.SignalDecision
	err := c.backend.Get(ctx, key(symbol), &d)
	if err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &d, true, nil
}

func (c *DecisionCache) Invalidate(ctx context.Context, symbols ...string) error {
	keys := make([]string, 0, len(symbols))
	for _, s := range symbols {
		keys = append(keys, key(s))
	}
	return c.backend.Delete(ctx, keys...)
}

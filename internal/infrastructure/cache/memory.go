// Package cache provides the bounded-lifetime quote stores behind the
// orchestrator. Entries expire by time, not by count; symbol cardinality is
// small and bounded by active holdings.
package cache

import (
	"context"
	"sync"
	"time"

	"marketdata-service/internal/application"
	"marketdata-service/internal/domain"
)

type entry struct {
	quote    domain.Quote
	storedAt time.Time
}

// Memory is an in-process TTL cache. Expired entries are discarded lazily on
// the next Get; there is no background sweep.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	items map[string]entry
}

var _ application.QuoteCache = (*Memory)(nil)

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, items: map[string]entry{}}
}

func (c *Memory) Get(_ context.Context, symbol string) (domain.Quote, bool) {
	c.mu.RLock()
	e, ok := c.items[symbol]
	c.mu.RUnlock()
	if !ok {
		return domain.Quote{}, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have refreshed it.
		if cur, ok := c.items[symbol]; ok && c.now().Sub(cur.storedAt) >= c.ttl {
			delete(c.items, symbol)
		}
		c.mu.Unlock()
		return domain.Quote{}, false
	}
	return e.quote, true
}

func (c *Memory) Put(_ context.Context, symbol string, q domain.Quote) {
	c.mu.Lock()
	c.items[symbol] = entry{quote: q, storedAt: c.now()}
	c.mu.Unlock()
}

func (c *Memory) Clear(_ context.Context) {
	c.mu.Lock()
	c.items = map[string]entry{}
	c.mu.Unlock()
}

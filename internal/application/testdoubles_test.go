package application

import (
	"context"
	"sync"
	"time"

	"marketdata-service/internal/domain"
)

// fakeProvider serves quotes from a fixed map. Symbols outside the map yield
// ErrNoData unless failWith forces a hard failure, or all makes every symbol
// succeed.
type fakeProvider struct {
	name      string
	available bool
	synthetic bool
	all       bool
	quotes    map[string]domain.Quote
	failWith  error
	batchErr  error

	calls      int
	batchCalls int
}

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Available() bool { return f.available }

func (f *fakeProvider) SyntheticData() bool { return f.synthetic }

func (f *fakeProvider) RateLimit() RateLimit { return RateLimit{Remaining: -1} }

func (f *fakeProvider) GetQuote(_ context.Context, symbol string) (domain.Quote, error) {
	f.calls++
	if f.failWith != nil {
		return domain.Quote{}, f.failWith
	}
	if f.all {
		return domain.Quote{Symbol: symbol, Price: 100, Synthetic: f.synthetic, UpdatedAt: time.Unix(1700000000, 0)}, nil
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return domain.Quote{}, domain.ErrNoData
	}
	q.Symbol = symbol
	q.Synthetic = f.synthetic
	return q, nil
}

func (f *fakeProvider) GetBatchQuotes(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
	f.batchCalls++
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make(map[string]domain.Quote, len(symbols))
	for _, sym := range symbols {
		q, err := f.GetQuote(ctx, sym)
		f.calls--
		if err != nil {
			continue
		}
		out[sym] = q
	}
	return out, nil
}

// fakeCache is a TTL-less map store; expiry behavior is tested against the
// real cache implementations.
type fakeCache struct {
	mu      sync.Mutex
	store   map[string]domain.Quote
	puts    int
	cleared bool
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string]domain.Quote{}} }

func (c *fakeCache) Get(_ context.Context, symbol string) (domain.Quote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.store[symbol]
	return q, ok
}

func (c *fakeCache) Put(_ context.Context, symbol string, q domain.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[symbol] = q
	c.puts++
}

func (c *fakeCache) Clear(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = map[string]domain.Quote{}
	c.cleared = true
}

// fakeClock advances by step on every Now call and records Sleep durations
// without actually sleeping.
type fakeClock struct {
	now    time.Time
	step   time.Duration
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), step: 10 * time.Millisecond}
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	return nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryBaseDelay = time.Millisecond
	cfg.RateLimitDelay = 100 * time.Millisecond
	return cfg
}

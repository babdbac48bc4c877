package application

import (
	"context"

	"marketdata-service/internal/domain"

	"go.uber.org/zap"
)

const cachedSuffix = " (cached)"

// Service aggregates quotes from an ordered provider chain behind a TTL
// cache. It exclusively owns the cache and the metrics; providers are shared,
// stateless collaborators.
type Service struct {
	cfg       Config
	providers []QuoteProvider
	cache     QuoteCache
	clock     Clock
	metrics   *metricsRecorder
	log       *zap.Logger
}

type Option func(*Service)

func WithClock(c Clock) Option        { return func(s *Service) { s.clock = c } }
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

// New builds the service. The provider slice fixes the fallback priority for
// the service's lifetime; the synthetic provider, when enabled, is expected
// last.
func New(cfg Config, providers []QuoteProvider, cache QuoteCache, opts ...Option) *Service {
	cfg = cfg.withDefaults()
	s := &Service{
		cfg:       cfg,
		providers: providers,
		cache:     cache,
		metrics:   newMetricsRecorder(cfg.MetricsEnabled),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// GetQuote returns a quote for symbol from cache or the first provider in
// priority order that succeeds. Each provider call is wrapped in
// retry-with-backoff; exhausting one provider moves to the next. When every
// provider is unavailable, exhausted or has no data, the typed
// domain.ErrAllProvidersFailed is returned.
func (s *Service) GetQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	sym := domain.NormalizeSymbol(symbol)
	s.metrics.request()
	if !domain.ValidateSymbol(sym) {
		s.metrics.failure()
		return domain.Quote{}, domain.ErrInvalidSymbol
	}

	if q, ok := s.cache.Get(ctx, sym); ok {
		s.metrics.cacheHit()
		q.Source += cachedSuffix
		return q, nil
	}
	s.metrics.cacheMiss()

	start := s.clock.Now()
	for _, p := range s.providers {
		if !p.Available() {
			continue
		}
		q, err := s.fetchWithRetry(ctx, func() (domain.Quote, error) {
			return p.GetQuote(ctx, sym)
		})
		if err != nil {
			s.log.Warn("provider_fetch_failed",
				zap.String("provider", p.Name()),
				zap.String("symbol", sym),
				zap.Error(err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		q.Symbol = sym
		q.Source = p.Name()
		s.cache.Put(ctx, sym, q)
		s.metrics.success(p.Name(), s.clock.Now().Sub(start))
		return q, nil
	}

	s.metrics.failure()
	return domain.Quote{}, domain.ErrAllProvidersFailed
}

// GetBatchQuotes resolves symbols best effort: cached symbols are served
// directly, the rest are fetched in BatchSize chunks with a pacing delay
// between consecutive chunks. Unresolved symbols are simply absent from the
// result; batch fetch never fails for partial coverage.
func (s *Service) GetBatchQuotes(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
	out := make(map[string]domain.Quote, len(symbols))
	seen := make(map[string]struct{}, len(symbols))
	var uncached []string

	for _, raw := range symbols {
		sym := domain.NormalizeSymbol(raw)
		if !domain.ValidateSymbol(sym) {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		s.metrics.request()
		if q, ok := s.cache.Get(ctx, sym); ok {
			s.metrics.cacheHit()
			q.Source += cachedSuffix
			out[sym] = q
			continue
		}
		s.metrics.cacheMiss()
		uncached = append(uncached, sym)
	}

	for i := 0; i < len(uncached); i += s.cfg.BatchSize {
		if i > 0 {
			if err := s.clock.Sleep(ctx, s.cfg.RateLimitDelay); err != nil {
				return out, nil
			}
		}
		end := i + s.cfg.BatchSize
		if end > len(uncached) {
			end = len(uncached)
		}
		s.fetchChunk(ctx, uncached[i:end], out)
	}
	return out, nil
}

// fetchChunk walks the provider chain for one chunk, handing each provider
// only the symbols still unresolved. Resolved symbols are cached and removed
// from the remaining set before the next provider runs.
func (s *Service) fetchChunk(ctx context.Context, chunk []string, out map[string]domain.Quote) {
	remaining := make(map[string]struct{}, len(chunk))
	for _, sym := range chunk {
		remaining[sym] = struct{}{}
	}

	for _, p := range s.providers {
		if len(remaining) == 0 {
			return
		}
		if !p.Available() {
			continue
		}
		want := make([]string, 0, len(remaining))
		for _, sym := range chunk {
			if _, ok := remaining[sym]; ok {
				want = append(want, sym)
			}
		}
		start := s.clock.Now()
		got, err := p.GetBatchQuotes(ctx, want)
		if err != nil {
			s.log.Warn("provider_batch_failed",
				zap.String("provider", p.Name()),
				zap.Int("symbols", len(want)),
				zap.Error(err))
			continue
		}
		elapsed := s.clock.Now().Sub(start)
		for sym, q := range got {
			if _, ok := remaining[sym]; !ok {
				continue
			}
			q.Symbol = sym
			q.Source = p.Name()
			s.cache.Put(ctx, sym, q)
			out[sym] = q
			delete(remaining, sym)
			s.metrics.success(p.Name(), elapsed)
		}
	}

	for range remaining {
		s.metrics.failure()
	}
}

// GetHistoricalData delegates to the first available provider implementing
// the historical capability. Historical data is enrichment: an empty series,
// never an error, when no provider can serve it.
func (s *Service) GetHistoricalData(ctx context.Context, symbol, period string) ([]domain.Candle, error) {
	sym := domain.NormalizeSymbol(symbol)
	if !domain.ValidateSymbol(sym) {
		return []domain.Candle{}, nil
	}
	for _, p := range s.providers {
		hp, ok := p.(HistoricalProvider)
		if !ok || !p.Available() {
			continue
		}
		candles, err := hp.GetHistoricalData(ctx, sym, period)
		if err != nil {
			s.log.Warn("historical_fetch_failed",
				zap.String("provider", p.Name()),
				zap.String("symbol", sym),
				zap.Error(err))
			continue
		}
		if len(candles) == 0 {
			continue
		}
		return candles, nil
	}
	return []domain.Candle{}, nil
}

// Metrics returns a snapshot of the service counters.
func (s *Service) Metrics() Metrics { return s.metrics.snapshot() }

// ClearCache empties the cache layer. Administrative action, not part of the
// normal request flow.
func (s *Service) ClearCache(ctx context.Context) { s.cache.Clear(ctx) }

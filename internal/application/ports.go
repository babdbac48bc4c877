package application

import (
	"context"
	"time"

	"marketdata-service/internal/domain"
)

// RateLimit is a provider's remaining request budget.
// Remaining of -1 means unbounded; a zero ResetAt means no reset is scheduled.
type RateLimit struct {
	Remaining int
	ResetAt   time.Time
}

// QuoteProvider is a single upstream data source behind a uniform contract.
// Implementations are stateless apart from their own rate-limit bookkeeping
// and never touch orchestrator state.
type QuoteProvider interface {
	Name() string

	// Available is a cheap pre-check (credential present, budget left).
	// It must not perform a network call.
	Available() bool

	// GetQuote returns domain.ErrNoData when the upstream has nothing for
	// the symbol, and a distinguishable error when the call itself failed.
	GetQuote(ctx context.Context, symbol string) (domain.Quote, error)

	// GetBatchQuotes is best effort: symbols with no data are omitted from
	// the result, never reported as errors.
	GetBatchQuotes(ctx context.Context, symbols []string) (map[string]domain.Quote, error)

	RateLimit() RateLimit
}

// HistoricalProvider is an optional capability; providers without it are
// skipped during historical fetches.
type HistoricalProvider interface {
	GetHistoricalData(ctx context.Context, symbol, period string) ([]domain.Candle, error)
}

// QuoteCache is a bounded-lifetime symbol -> quote store. Get must treat
// expired entries as absent. Put unconditionally overwrites.
type QuoteCache interface {
	Get(ctx context.Context, symbol string) (domain.Quote, bool)
	Put(ctx context.Context, symbol string, q domain.Quote)
	Clear(ctx context.Context)
}

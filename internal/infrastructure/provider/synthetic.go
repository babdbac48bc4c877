package provider

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"marketdata-service/internal/application"
	"marketdata-service/internal/domain"
)

const syntheticName = "synthetic"

// Synthetic generates deterministic pseudo-random quotes without any network
// dependency. It always succeeds and is meant to sit last in the fallback
// chain. Every quote it produces is flagged Synthetic.
type Synthetic struct {
	now func() time.Time
}

var _ application.QuoteProvider = (*Synthetic)(nil)

func NewSynthetic() *Synthetic { return &Synthetic{now: time.Now} }

func (p *Synthetic) Name() string { return syntheticName }

func (p *Synthetic) Available() bool { return true }

func (p *Synthetic) RateLimit() application.RateLimit {
	return application.RateLimit{Remaining: -1}
}

// SyntheticData marks the provider for health classification.
func (p *Synthetic) SyntheticData() bool { return true }

func (p *Synthetic) GetQuote(_ context.Context, symbol string) (domain.Quote, error) {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	// Stable base price per symbol in [10, 500), with derived OHLC spread.
	price := 10 + rng.Float64()*490
	prevClose := price * (1 - (rng.Float64()-0.5)*0.04)
	change := price - prevClose
	changePct := 0.0
	if prevClose != 0 {
		changePct = change / prevClose * 100
	}

	return domain.Quote{
		Symbol:        symbol,
		Price:         round2(price),
		Change:        round2(change),
		ChangePercent: round2(changePct),
		Volume:        int64(rng.Intn(9_000_000) + 1_000_000),
		High:          round2(price * 1.02),
		Low:           round2(price * 0.98),
		Open:          round2(prevClose * 1.001),
		PreviousClose: round2(prevClose),
		UpdatedAt:     p.now().UTC(),
		Source:        syntheticName,
		Synthetic:     true,
	}, nil
}

func (p *Synthetic) GetBatchQuotes(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
	out := make(map[string]domain.Quote, len(symbols))
	for _, sym := range symbols {
		q, _ := p.GetQuote(ctx, sym)
		out[sym] = q
	}
	return out, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

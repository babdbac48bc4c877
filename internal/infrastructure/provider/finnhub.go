package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"marketdata-service/internal/application"
	"marketdata-service/internal/domain"
	"marketdata-service/internal/infrastructure/httpx"
)

const (
	finnhubDefaultBaseURL = "https://finnhub.io/api/v1"
	finnhubName           = "finnhub"
)

// Finnhub fetches quotes from the Finnhub REST API. It has no batch endpoint
// on the free tier, so batch fetches loop per symbol.
type Finnhub struct {
	BaseURL string
	APIKey  string
	Client  *httpx.Client

	budget *budget
}

var _ application.QuoteProvider = (*Finnhub)(nil)
var _ application.HistoricalProvider = (*Finnhub)(nil)

func NewFinnhub(apiKey string, client *httpx.Client, maxPerMinute int) *Finnhub {
	return &Finnhub{
		BaseURL: finnhubDefaultBaseURL,
		APIKey:  apiKey,
		Client:  client,
		budget:  newBudget(maxPerMinute),
	}
}

func (p *Finnhub) Name() string { return finnhubName }

// Available reports a credential is configured and rate budget remains.
// A missing key makes the provider degrade out of the chain instead of
// erroring on every call.
func (p *Finnhub) Available() bool {
	return p.APIKey != "" && !p.budget.exhausted()
}

func (p *Finnhub) RateLimit() application.RateLimit { return p.budget.limit() }

type fhQuoteResp struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

func (p *Finnhub) GetQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	if p.APIKey == "" {
		return domain.Quote{}, domain.ErrUnavailable
	}
	if !p.budget.take() {
		return domain.Quote{}, domain.ErrUnavailable
	}

	u, err := url.Parse(p.baseURL() + "/quote")
	if err != nil {
		return domain.Quote{}, fmt.Errorf("finnhub: invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("symbol", symbol)
	q.Set("token", p.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("finnhub: create request: %w", err)
	}

	var body fhQuoteResp
	if err := p.client().DoJSON(ctx, req, &body); err != nil {
		return domain.Quote{}, fmt.Errorf("finnhub: %w", err)
	}

	// Finnhub answers unknown symbols with an all-zero quote.
	if body.Current == 0 && body.Timestamp == 0 {
		return domain.Quote{}, domain.ErrNoData
	}

	return domain.Quote{
		Symbol:        symbol,
		Price:         body.Current,
		Change:        body.Change,
		ChangePercent: body.ChangePercent,
		High:          body.High,
		Low:           body.Low,
		Open:          body.Open,
		PreviousClose: body.PreviousClose,
		UpdatedAt:     time.Unix(body.Timestamp, 0).UTC(),
		Source:        finnhubName,
	}, nil
}

// GetBatchQuotes is best effort: symbols without data are omitted. The whole
// call fails only when nothing was resolved and at least one fetch errored.
func (p *Finnhub) GetBatchQuotes(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
	out := make(map[string]domain.Quote, len(symbols))
	var lastErr error
	for _, sym := range symbols {
		q, err := p.GetQuote(ctx, sym)
		if err != nil {
			if !errors.Is(err, domain.ErrNoData) {
				lastErr = err
			}
			if ctx.Err() != nil {
				break
			}
			continue
		}
		out[sym] = q
	}
	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

type fhCandleResp struct {
	Status     string    `json:"s"`
	Close      []float64 `json:"c"`
	High       []float64 `json:"h"`
	Low        []float64 `json:"l"`
	Open       []float64 `json:"o"`
	Timestamps []int64   `json:"t"`
	Volume     []float64 `json:"v"`
}

func (p *Finnhub) GetHistoricalData(ctx context.Context, symbol, period string) ([]domain.Candle, error) {
	if p.APIKey == "" {
		return nil, domain.ErrUnavailable
	}
	if !p.budget.take() {
		return nil, domain.ErrUnavailable
	}

	now := time.Now().UTC()
	u, err := url.Parse(p.baseURL() + "/stock/candle")
	if err != nil {
		return nil, fmt.Errorf("finnhub: invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("symbol", symbol)
	q.Set("resolution", "D")
	q.Set("from", fmt.Sprint(periodStart(period, now).Unix()))
	q.Set("to", fmt.Sprint(now.Unix()))
	q.Set("token", p.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("finnhub: create request: %w", err)
	}

	var body fhCandleResp
	if err := p.client().DoJSON(ctx, req, &body); err != nil {
		return nil, fmt.Errorf("finnhub: %w", err)
	}
	if body.Status == "no_data" {
		return []domain.Candle{}, nil
	}
	if body.Status != "ok" {
		return nil, fmt.Errorf("finnhub: candle status %q", body.Status)
	}
	n := len(body.Timestamps)
	if len(body.Open) != n || len(body.High) != n || len(body.Low) != n || len(body.Close) != n {
		return nil, fmt.Errorf("finnhub: mismatched candle arrays")
	}

	candles := make([]domain.Candle, 0, n)
	for i := 0; i < n; i++ {
		c := domain.Candle{
			Time:  time.Unix(body.Timestamps[i], 0).UTC(),
			Open:  body.Open[i],
			High:  body.High[i],
			Low:   body.Low[i],
			Close: body.Close[i],
		}
		if i < len(body.Volume) {
			c.Volume = int64(body.Volume[i])
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func (p *Finnhub) baseURL() string {
	if p.BaseURL != "" {
		return p.BaseURL
	}
	return finnhubDefaultBaseURL
}

func (p *Finnhub) client() *httpx.Client {
	if p.Client != nil {
		return p.Client
	}
	return httpx.New(0)
}

package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"marketdata-service/internal/application"
	"marketdata-service/internal/domain"
	"marketdata-service/internal/infrastructure/httpx"
)

const (
	alphaVantageDefaultBaseURL = "https://www.alphavantage.co"
	alphaVantageName           = "alphavantage"
)

// AlphaVantage fetches quotes from the Alpha Vantage REST API. The API signals
// rate limiting and errors inside otherwise-200 JSON bodies ("Note",
// "Information", "Error Message"), so responses are parsed defensively.
type AlphaVantage struct {
	BaseURL string
	APIKey  string
	Client  *httpx.Client

	budget *budget
}

var _ application.QuoteProvider = (*AlphaVantage)(nil)
var _ application.HistoricalProvider = (*AlphaVantage)(nil)

func NewAlphaVantage(apiKey string, client *httpx.Client, maxPerMinute int) *AlphaVantage {
	return &AlphaVantage{
		BaseURL: alphaVantageDefaultBaseURL,
		APIKey:  apiKey,
		Client:  client,
		budget:  newBudget(maxPerMinute),
	}
}

func (p *AlphaVantage) Name() string { return alphaVantageName }

func (p *AlphaVantage) Available() bool {
	return p.APIKey != "" && !p.budget.exhausted()
}

func (p *AlphaVantage) RateLimit() application.RateLimit { return p.budget.limit() }

type avEnvelope struct {
	GlobalQuote map[string]string            `json:"Global Quote"`
	DailySeries map[string]map[string]string `json:"Time Series (Daily)"`
	Note        string                       `json:"Note"`
	Information string                       `json:"Information"`
	ErrorMsg    string                       `json:"Error Message"`
}

// embeddedError surfaces the failure signals Alpha Vantage hides in 200
// responses.
func (e *avEnvelope) embeddedError() error {
	switch {
	case e.ErrorMsg != "":
		return fmt.Errorf("alphavantage: %s", e.ErrorMsg)
	case e.Note != "":
		return fmt.Errorf("alphavantage: rate limited: %s", e.Note)
	case e.Information != "":
		return fmt.Errorf("alphavantage: %s", e.Information)
	}
	return nil
}

func (p *AlphaVantage) GetQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	var body avEnvelope
	if err := p.query(ctx, url.Values{"function": {"GLOBAL_QUOTE"}, "symbol": {symbol}}, &body); err != nil {
		return domain.Quote{}, err
	}
	if err := body.embeddedError(); err != nil {
		return domain.Quote{}, err
	}
	// An empty Global Quote object means the symbol is unknown.
	if len(body.GlobalQuote) == 0 || body.GlobalQuote["05. price"] == "" {
		return domain.Quote{}, domain.ErrNoData
	}

	g := body.GlobalQuote
	price, err := strconv.ParseFloat(g["05. price"], 64)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("alphavantage: parse price %q: %w", g["05. price"], err)
	}

	q := domain.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        avFloat(g["09. change"]),
		ChangePercent: avFloat(strings.TrimSuffix(g["10. change percent"], "%")),
		Volume:        avInt(g["06. volume"]),
		High:          avFloat(g["03. high"]),
		Low:           avFloat(g["04. low"]),
		Open:          avFloat(g["02. open"]),
		PreviousClose: avFloat(g["08. previous close"]),
		UpdatedAt:     time.Now().UTC(),
		Source:        alphaVantageName,
	}
	if day, err := time.Parse("2006-01-02", g["07. latest trading day"]); err == nil {
		q.UpdatedAt = day.UTC()
	}
	return q, nil
}

func (p *AlphaVantage) GetBatchQuotes(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
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

func (p *AlphaVantage) GetHistoricalData(ctx context.Context, symbol, period string) ([]domain.Candle, error) {
	var body avEnvelope
	if err := p.query(ctx, url.Values{"function": {"TIME_SERIES_DAILY"}, "symbol": {symbol}, "outputsize": {"full"}}, &body); err != nil {
		return nil, err
	}
	if err := body.embeddedError(); err != nil {
		return nil, err
	}
	if len(body.DailySeries) == 0 {
		return []domain.Candle{}, nil
	}

	from := periodStart(period, time.Now().UTC())
	candles := make([]domain.Candle, 0, len(body.DailySeries))
	for day, fields := range body.DailySeries {
		ts, err := time.Parse("2006-01-02", day)
		if err != nil || ts.Before(from) {
			continue
		}
		candles = append(candles, domain.Candle{
			Time:   ts.UTC(),
			Open:   avFloat(fields["1. open"]),
			High:   avFloat(fields["2. high"]),
			Low:    avFloat(fields["3. low"]),
			Close:  avFloat(fields["4. close"]),
			Volume: avInt(fields["5. volume"]),
		})
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return candles, nil
}

func (p *AlphaVantage) query(ctx context.Context, params url.Values, out *avEnvelope) error {
	if p.APIKey == "" {
		return domain.ErrUnavailable
	}
	if !p.budget.take() {
		return domain.ErrUnavailable
	}

	base := p.BaseURL
	if base == "" {
		base = alphaVantageDefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("alphavantage: invalid base url: %w", err)
	}
	u.Path = "/query"
	params.Set("apikey", p.APIKey)
	u.RawQuery = params.Encode()

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("alphavantage: create request: %w", err)
	}
	client := p.Client
	if client == nil {
		client = httpx.New(0)
	}
	if err := client.DoJSON(ctx, req, out); err != nil {
		return fmt.Errorf("alphavantage: %w", err)
	}
	return nil
}

func avFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func avInt(s string) int64 {
	i, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return i
}

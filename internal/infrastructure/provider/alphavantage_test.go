package provider

import (
	"context"
	"testing"
	"time"

	"marketdata-service/internal/domain"

	"github.com/stretchr/testify/require"
)

const avQuoteOK = `{
  "Global Quote": {
    "01. symbol": "AAPL",
    "02. open": "189.33",
    "03. high": "191.56",
    "04. low": "188.90",
    "05. price": "190.64",
    "06. volume": "48087681",
    "07. latest trading day": "2025-05-30",
    "08. previous close": "189.99",
    "09. change": "0.65",
    "10. change percent": "0.3421%"
  }
}`

func TestAlphaVantage_GetQuote(t *testing.T) {
	p := NewAlphaVantage("key", fixedClient(avQuoteOK, 200), 5)

	q, err := p.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.InDelta(t, 190.64, q.Price, 1e-9)
	require.InDelta(t, 0.65, q.Change, 1e-9)
	require.InDelta(t, 0.3421, q.ChangePercent, 1e-9)
	require.EqualValues(t, 48087681, q.Volume)
	require.InDelta(t, 189.99, q.PreviousClose, 1e-9)
	require.Equal(t, time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC), q.UpdatedAt)
	require.Equal(t, "alphavantage", q.Source)
}

func TestAlphaVantage_GetQuote_EmptyGlobalQuote(t *testing.T) {
	p := NewAlphaVantage("key", fixedClient(`{"Global Quote": {}}`, 200), 5)

	_, err := p.GetQuote(context.Background(), "ZZZZ")
	require.ErrorIs(t, err, domain.ErrNoData)
}

func TestAlphaVantage_GetQuote_RateLimitNote(t *testing.T) {
	// Alpha Vantage embeds the throttle signal in a 200 response.
	body := `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`
	p := NewAlphaVantage("key", fixedClient(body, 200), 5)

	_, err := p.GetQuote(context.Background(), "AAPL")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrNoData)
	require.Contains(t, err.Error(), "rate limited")
}

func TestAlphaVantage_GetQuote_ErrorMessage(t *testing.T) {
	body := `{"Error Message": "Invalid API call."}`
	p := NewAlphaVantage("key", fixedClient(body, 200), 5)

	_, err := p.GetQuote(context.Background(), "AAPL")
	require.Error(t, err)
}

func TestAlphaVantage_GetQuote_MalformedPrice(t *testing.T) {
	body := `{"Global Quote": {"05. price": "not-a-number"}}`
	p := NewAlphaVantage("key", fixedClient(body, 200), 5)

	_, err := p.GetQuote(context.Background(), "AAPL")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrNoData)
}

func TestAlphaVantage_MissingKeyUnavailable(t *testing.T) {
	p := NewAlphaVantage("", fixedClient(avQuoteOK, 200), 5)

	require.False(t, p.Available())
	_, err := p.GetQuote(context.Background(), "AAPL")
	require.ErrorIs(t, err, domain.ErrUnavailable)
}

const avDailyOK = `{
  "Time Series (Daily)": {
    "2025-05-29": {"1. open": "188.1", "2. high": "190.2", "3. low": "187.5", "4. close": "189.99", "5. volume": "40000000"},
    "2025-05-30": {"1. open": "189.33", "2. high": "191.56", "3. low": "188.90", "4. close": "190.64", "5. volume": "48087681"}
  }
}`

func TestAlphaVantage_GetHistoricalData_SortedAscending(t *testing.T) {
	p := NewAlphaVantage("key", fixedClient(avDailyOK, 200), 5)

	candles, err := p.GetHistoricalData(context.Background(), "AAPL", "5y")
	require.NoError(t, err)
	require.Len(t, candles, 2)
	require.True(t, candles[0].Time.Before(candles[1].Time))
	require.InDelta(t, 190.64, candles[1].Close, 1e-9)
	require.EqualValues(t, 48087681, candles[1].Volume)
}

func TestAlphaVantage_GetHistoricalData_Empty(t *testing.T) {
	p := NewAlphaVantage("key", fixedClient(`{}`, 200), 5)

	candles, err := p.GetHistoricalData(context.Background(), "ZZZZ", "1m")
	require.NoError(t, err)
	require.Empty(t, candles)
}

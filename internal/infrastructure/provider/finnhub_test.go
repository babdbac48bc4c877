package provider

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"marketdata-service/internal/domain"
	"marketdata-service/internal/infrastructure/httpx"

	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r), nil }

func fixedClient(body string, code int) *httpx.Client {
	return &httpx.Client{HTTP: &http.Client{
		Timeout: 2 * time.Second,
		Transport: roundTripFunc(func(r *http.Request) *http.Response {
			return &http.Response{
				StatusCode: code,
				Body:       io.NopCloser(strings.NewReader(body)),
				Header:     make(http.Header),
				Request:    r,
			}
		}),
	}}
}

const fhQuoteOK = `{"c":261.74,"d":1.5,"dp":0.58,"h":263.31,"l":260.68,"o":261.07,"pc":260.24,"t":1582641000}`

func TestFinnhub_GetQuote(t *testing.T) {
	p := NewFinnhub("key", fixedClient(fhQuoteOK, 200), 60)

	q, err := p.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.InDelta(t, 261.74, q.Price, 1e-9)
	require.InDelta(t, 1.5, q.Change, 1e-9)
	require.InDelta(t, 0.58, q.ChangePercent, 1e-9)
	require.InDelta(t, 260.24, q.PreviousClose, 1e-9)
	require.Equal(t, time.Unix(1582641000, 0).UTC(), q.UpdatedAt)
	require.Equal(t, "finnhub", q.Source)
	require.False(t, q.Synthetic)
}

func TestFinnhub_GetQuote_UnknownSymbol(t *testing.T) {
	// Finnhub answers unknown symbols with an all-zero body.
	p := NewFinnhub("key", fixedClient(`{"c":0,"d":null,"dp":null,"h":0,"l":0,"o":0,"pc":0,"t":0}`, 200), 60)

	_, err := p.GetQuote(context.Background(), "ZZZZ")
	require.ErrorIs(t, err, domain.ErrNoData)
}

func TestFinnhub_GetQuote_ServerError(t *testing.T) {
	p := NewFinnhub("key", fixedClient("oops", 500), 60)

	_, err := p.GetQuote(context.Background(), "AAPL")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrNoData)
}

func TestFinnhub_MissingKeyUnavailable(t *testing.T) {
	p := NewFinnhub("", fixedClient(fhQuoteOK, 200), 60)

	require.False(t, p.Available())
	_, err := p.GetQuote(context.Background(), "AAPL")
	require.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestFinnhub_RateBudgetExhausts(t *testing.T) {
	p := NewFinnhub("key", fixedClient(fhQuoteOK, 200), 2)

	for i := 0; i < 2; i++ {
		_, err := p.GetQuote(context.Background(), "AAPL")
		require.NoError(t, err)
	}
	require.False(t, p.Available())
	_, err := p.GetQuote(context.Background(), "AAPL")
	require.ErrorIs(t, err, domain.ErrUnavailable)

	rl := p.RateLimit()
	require.Equal(t, 0, rl.Remaining)
	require.False(t, rl.ResetAt.IsZero())
}

func TestFinnhub_GetBatchQuotes_BestEffort(t *testing.T) {
	var n int
	client := &httpx.Client{HTTP: &http.Client{
		Transport: roundTripFunc(func(r *http.Request) *http.Response {
			n++
			body := fhQuoteOK
			if n == 2 {
				body = `{"c":0,"t":0}`
			}
			return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader(body)), Header: make(http.Header), Request: r}
		}),
	}}
	p := NewFinnhub("key", client, 60)

	out, err := p.GetBatchQuotes(context.Background(), []string{"AAPL", "ZZZZ", "MSFT"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.NotContains(t, out, "ZZZZ")
}

const fhCandleOK = `{"s":"ok","t":[1569297600,1569384000],"o":[221.03,218.55],"h":[221.37,219.92],"l":[218.3,217.85],"c":[218.82,219.89],"v":[11250155.0,8644657.0]}`

func TestFinnhub_GetHistoricalData(t *testing.T) {
	p := NewFinnhub("key", fixedClient(fhCandleOK, 200), 60)

	candles, err := p.GetHistoricalData(context.Background(), "AAPL", "1m")
	require.NoError(t, err)
	require.Len(t, candles, 2)
	require.Equal(t, time.Unix(1569297600, 0).UTC(), candles[0].Time)
	require.InDelta(t, 218.82, candles[0].Close, 1e-9)
	require.EqualValues(t, 11250155, candles[0].Volume)
}

func TestFinnhub_GetHistoricalData_NoData(t *testing.T) {
	p := NewFinnhub("key", fixedClient(`{"s":"no_data"}`, 200), 60)

	candles, err := p.GetHistoricalData(context.Background(), "ZZZZ", "1m")
	require.NoError(t, err)
	require.Empty(t, candles)
}

func TestFinnhub_GetHistoricalData_MismatchedArrays(t *testing.T) {
	p := NewFinnhub("key", fixedClient(`{"s":"ok","t":[1,2],"o":[1.0],"h":[1.0,2.0],"l":[1.0,2.0],"c":[1.0,2.0]}`, 200), 60)

	_, err := p.GetHistoricalData(context.Background(), "AAPL", "1m")
	require.Error(t, err)
}

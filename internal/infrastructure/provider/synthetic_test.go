package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSynthetic_Deterministic(t *testing.T) {
	p := NewSynthetic()

	a, err := p.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	b, err := p.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)

	require.Equal(t, a.Price, b.Price)
	require.Equal(t, a.Volume, b.Volume)
	require.True(t, a.Synthetic)
	require.Equal(t, "synthetic", a.Source)
}

func TestSynthetic_DistinctSymbolsDistinctPrices(t *testing.T) {
	p := NewSynthetic()

	a, _ := p.GetQuote(context.Background(), "AAPL")
	m, _ := p.GetQuote(context.Background(), "MSFT")
	require.NotEqual(t, a.Price, m.Price)
}

func TestSynthetic_AlwaysAvailable(t *testing.T) {
	p := NewSynthetic()

	require.True(t, p.Available())
	require.True(t, p.SyntheticData())
	require.Equal(t, -1, p.RateLimit().Remaining)
}

func TestSynthetic_BatchCoversAllSymbols(t *testing.T) {
	p := NewSynthetic()

	out, err := p.GetBatchQuotes(context.Background(), []string{"AAPL", "MSFT", "ZZZZ"})
	require.NoError(t, err)
	require.Len(t, out, 3)
	for sym, q := range out {
		require.Equal(t, sym, q.Symbol)
		require.True(t, q.Synthetic)
		require.Greater(t, q.Price, 0.0)
	}
}

func TestSynthetic_PriceBounds(t *testing.T) {
	p := NewSynthetic()

	for _, sym := range []string{"A", "BB", "CCC", "DDDD", "EEEEE"} {
		q, err := p.GetQuote(context.Background(), sym)
		require.NoError(t, err)
		require.GreaterOrEqual(t, q.Price, 10.0)
		require.Less(t, q.Price, 500.0*1.01)
	}
}

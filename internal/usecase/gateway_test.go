package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/service/retry"
	"StockPulse/internal/service/simulate"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/logger"
)

type fakeProvider struct {
	id     string
	quote  func(ctx context.Context, symbol string) (*models.Quote, error)
	search func(ctx context.Context, keywords string) ([]models.SearchResult, error)
	series func(ctx context.Context, symbol string, days int) (*models.DailySeries, error)

	quoteCalls int
}

func (f *fakeProvider) ID() string { return f.id }

func (f *fakeProvider) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	f.quoteCalls++
	return f.quote(ctx, symbol)
}

func (f *fakeProvider) Search(ctx context.Context, keywords string) ([]models.SearchResult, error) {
	return f.search(ctx, keywords)
}

func (f *fakeProvider) DailySeries(ctx context.Context, symbol string, days int) (*models.DailySeries, error) {
	return f.series(ctx, symbol, days)
}

type nopMetrics struct{}

func (nopMetrics) RecordProviderCall(provider, op, outcome string) {}
func (nopMetrics) RecordFallback(op string)                       {}
func (nopMetrics) RecordLastPrice(symbol string, price float64)   {}
func (nopMetrics) RecordLatency(op string, seconds float64)       {}

func liveQuote(symbol string) *models.Quote {
	q := &models.Quote{
		Symbol:           symbol,
		Open:             100,
		High:             103,
		Low:              99,
		Price:            102,
		Volume:           1000,
		LatestTradingDay: "2026-08-31",
		PreviousClose:    100,
	}
	q.Recompute()
	return q
}

func newTestGateway(t *testing.T, p repository.StockProvider) *Gateway {
	t.Helper()
	factory := func(id, apiKey string) (repository.StockProvider, error) {
		if id != p.ID() {
			return nil, fmt.Errorf("%w: %q", models.ErrUnknownProvider, id)
		}
		return p, nil
	}
	g, err := NewGateway(p.ID(), "", GatewayOptions{
		Factory: factory,
		Executor: retry.New(logger.Nop(),
			retry.WithMaxAttempts(2),
			retry.WithJitter(time.Millisecond, time.Millisecond),
			retry.WithCooldown(time.Millisecond),
		),
		Simulator: simulate.New(simulate.WithSeed(1)),
		Cache:     cache.NewMemoryCache(),
		Metrics:   nopMetrics{},
		Logger:    logger.Nop(),
		QuoteTTL:  time.Minute,
		SeriesTTL: time.Minute,
	})
	require.NoError(t, err)
	return g
}

func TestGatewayQuoteLive(t *testing.T) {
	p := &fakeProvider{
		id: "yahoo",
		quote: func(_ context.Context, symbol string) (*models.Quote, error) {
			return liveQuote(symbol), nil
		},
	}
	g := newTestGateway(t, p)

	res, err := g.Quote(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "yahoo", res.Source)
	assert.Equal(t, "AAPL", res.Quote.Symbol)
	assert.Equal(t, 102.0, res.Quote.Price)
}

func TestGatewayQuoteServedFromCache(t *testing.T) {
	p := &fakeProvider{
		id: "yahoo",
		quote: func(_ context.Context, symbol string) (*models.Quote, error) {
			return liveQuote(symbol), nil
		},
	}
	g := newTestGateway(t, p)

	_, err := g.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	_, err = g.Quote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 1, p.quoteCalls, "second request should hit the cache")
}

func TestGatewayQuoteFallsBackWhenExhausted(t *testing.T) {
	p := &fakeProvider{
		id: "yahoo",
		quote: func(context.Context, string) (*models.Quote, error) {
			return nil, models.ErrRateLimited
		},
	}
	g := newTestGateway(t, p)

	res, err := g.Quote(context.Background(), "AAPL")
	require.NoError(t, err, "exhaustion must degrade, not fail")
	assert.Equal(t, SourceSimulated, res.Source)

	q := res.Quote
	assert.Equal(t, "AAPL", q.Symbol)
	assert.GreaterOrEqual(t, q.High, q.Price)
	assert.LessOrEqual(t, q.Low, q.Price)
	assert.Equal(t, 2, p.quoteCalls)
}

func TestGatewayQuoteNotFoundPassesThrough(t *testing.T) {
	p := &fakeProvider{
		id: "yahoo",
		quote: func(context.Context, string) (*models.Quote, error) {
			return nil, models.ErrNotFound
		},
	}
	g := newTestGateway(t, p)

	_, err := g.Quote(context.Background(), "NOPE")
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, 1, p.quoteCalls, "not-found must not be retried")
}

func TestGatewaySearchFallsBackToEmpty(t *testing.T) {
	p := &fakeProvider{
		id: "yahoo",
		search: func(context.Context, string) ([]models.SearchResult, error) {
			return nil, models.NewTransportError("search", fmt.Errorf("conn refused"))
		},
	}
	g := newTestGateway(t, p)

	res, err := g.Search(context.Background(), "apple")
	require.NoError(t, err)
	assert.Equal(t, SourceUnavailable, res.Source)
	assert.Empty(t, res.Matches)
	assert.NotNil(t, res.Matches)
}

func TestGatewaySearchEmptyQuery(t *testing.T) {
	p := &fakeProvider{id: "yahoo"}
	g := newTestGateway(t, p)

	res, err := g.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, res.Matches)
	assert.Equal(t, "yahoo", res.Source)
}

func TestGatewaySeriesFallsBackWhenExhausted(t *testing.T) {
	p := &fakeProvider{
		id: "yahoo",
		series: func(context.Context, string, int) (*models.DailySeries, error) {
			return nil, models.ErrRateLimited
		},
	}
	g := newTestGateway(t, p)

	res, err := g.DailySeries(context.Background(), "TSLA", 10)
	require.NoError(t, err)
	assert.Equal(t, SourceSimulated, res.Source)
	assert.Len(t, res.Series.Days, 10)
}

func TestGatewayUseUnknownProvider(t *testing.T) {
	p := &fakeProvider{
		id: "yahoo",
		quote: func(_ context.Context, symbol string) (*models.Quote, error) {
			return liveQuote(symbol), nil
		},
	}
	g := newTestGateway(t, p)

	err := g.Use("bloomberg", "")
	require.ErrorIs(t, err, models.ErrUnknownProvider)

	// The previous binding must survive the failed switch.
	res, err := g.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "yahoo", res.Source)
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/service/retry"
	"StockPulse/internal/service/simulate"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/logger"
)

// Data-source labels reported alongside payloads that did not come from the
// active provider. SourceSimulated marks synthetic data; SourceUnavailable
// marks a degraded empty result where nothing was simulated.
const (
	SourceSimulated   = "simulated"
	SourceUnavailable = "unavailable"
)

// ProviderFactory builds an adapter for a provider id. It returns
// models.ErrUnknownProvider for ids outside the registry and
// models.ErrMissingCredential when the provider needs a key that was not
// supplied.
type ProviderFactory func(id, apiKey string) (repository.StockProvider, error)

// Gateway is the single entry point for quote, search and historical data.
// Every live fetch goes through the bounded-retry executor; when the active
// provider is exhausted the gateway degrades to simulated data instead of
// failing the request.
type Gateway struct {
	mu       sync.RWMutex
	provider repository.StockProvider

	factory   ProviderFactory
	exec      *retry.Executor
	sim       *simulate.Simulator
	cache     cache.Service
	metrics   repository.Metrics
	logger    *logger.Logger
	quoteTTL  time.Duration
	seriesTTL time.Duration
}

// GatewayOptions carries the gateway's collaborators.
type GatewayOptions struct {
	Factory   ProviderFactory
	Executor  *retry.Executor
	Simulator *simulate.Simulator
	Cache     cache.Service
	Metrics   repository.Metrics
	Logger    *logger.Logger
	QuoteTTL  time.Duration
	SeriesTTL time.Duration
}

// NewGateway creates a gateway with the given initial provider.
func NewGateway(initialProvider, apiKey string, opts GatewayOptions) (*Gateway, error) {
	g := &Gateway{
		factory:   opts.Factory,
		exec:      opts.Executor,
		sim:       opts.Simulator,
		cache:     opts.Cache,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		quoteTTL:  opts.QuoteTTL,
		seriesTTL: opts.SeriesTTL,
	}
	if err := g.Use(initialProvider, apiKey); err != nil {
		return nil, err
	}
	return g, nil
}

// Use switches the active provider. The current provider stays in place
// when the switch fails.
func (g *Gateway) Use(id, apiKey string) error {
	p, err := g.factory(strings.ToLower(strings.TrimSpace(id)), apiKey)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.provider = p
	g.mu.Unlock()

	g.logger.Info("provider selected", logger.String("provider", p.ID()))
	return nil
}

// Provider returns the descriptor of the active provider.
func (g *Gateway) Provider() models.ProviderDescriptor {
	d, _ := models.DescriptorFor(g.active().ID())
	return d
}

func (g *Gateway) active() repository.StockProvider {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.provider
}

// QuoteResult pairs a quote with the source that produced it.
type QuoteResult struct {
	Quote  *models.Quote
	Source string
}

// Quote returns the current quote for a symbol. Exhausted live fetches
// degrade to a simulated quote; ErrNotFound is returned as-is.
func (g *Gateway) Quote(ctx context.Context, symbol string) (*QuoteResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	p := g.active()
	start := time.Now()
	defer func() { g.metrics.RecordLatency("quote", time.Since(start).Seconds()) }()

	key := cache.Key("quote", p.ID(), symbol)
	var cached models.Quote
	if err := g.cache.Get(ctx, key, &cached); err == nil {
		return &QuoteResult{Quote: &cached, Source: p.ID()}, nil
	}

	q, err := retry.Do(ctx, g.exec, "quote", func(ctx context.Context) (*models.Quote, error) {
		return p.Quote(ctx, symbol)
	})
	switch {
	case err == nil:
		g.metrics.RecordProviderCall(p.ID(), "quote", "success")
		g.metrics.RecordLastPrice(symbol, q.Price)
		if err := g.cache.Set(ctx, key, q, g.quoteTTL); err != nil {
			g.logger.Debug("quote cache write failed", logger.Error(err))
		}
		return &QuoteResult{Quote: q, Source: p.ID()}, nil

	case errors.Is(err, models.ErrExhausted):
		g.metrics.RecordProviderCall(p.ID(), "quote", "exhausted")
		g.metrics.RecordFallback("quote")
		g.logger.Warn("provider exhausted, serving simulated quote",
			logger.String("provider", p.ID()),
			logger.String("symbol", symbol),
		)
		return &QuoteResult{Quote: g.sim.Quote(symbol), Source: SourceSimulated}, nil

	default:
		g.metrics.RecordProviderCall(p.ID(), "quote", "error")
		return nil, err
	}
}

// SearchResult pairs search matches with the source that produced them.
type SearchResult struct {
	Matches []models.SearchResult
	Source  string
}

// Search looks up symbols by keywords. There is nothing sensible to
// simulate for a search, so exhaustion degrades to an empty match list.
func (g *Gateway) Search(ctx context.Context, keywords string) (*SearchResult, error) {
	p := g.active()
	start := time.Now()
	defer func() { g.metrics.RecordLatency("search", time.Since(start).Seconds()) }()

	if strings.TrimSpace(keywords) == "" {
		return &SearchResult{Matches: []models.SearchResult{}, Source: p.ID()}, nil
	}

	matches, err := retry.Do(ctx, g.exec, "search", func(ctx context.Context) ([]models.SearchResult, error) {
		return p.Search(ctx, keywords)
	})
	switch {
	case err == nil:
		g.metrics.RecordProviderCall(p.ID(), "search", "success")
		if matches == nil {
			matches = []models.SearchResult{}
		}
		return &SearchResult{Matches: matches, Source: p.ID()}, nil

	case errors.Is(err, models.ErrExhausted):
		g.metrics.RecordProviderCall(p.ID(), "search", "exhausted")
		g.metrics.RecordFallback("search")
		g.logger.Warn("provider exhausted, search degraded to empty",
			logger.String("provider", p.ID()),
			logger.String("keywords", keywords),
		)
		return &SearchResult{Matches: []models.SearchResult{}, Source: SourceUnavailable}, nil

	default:
		g.metrics.RecordProviderCall(p.ID(), "search", "error")
		return nil, err
	}
}

// SeriesResult pairs a daily series with the source that produced it.
type SeriesResult struct {
	Series *models.DailySeries
	Source string
}

// DailySeries returns up to days of daily history, newest day today.
func (g *Gateway) DailySeries(ctx context.Context, symbol string, days int) (*SeriesResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	p := g.active()
	start := time.Now()
	defer func() { g.metrics.RecordLatency("historical", time.Since(start).Seconds()) }()

	key := cache.Key("series", p.ID(), symbol, days)
	var cached models.DailySeries
	if err := g.cache.Get(ctx, key, &cached); err == nil {
		return &SeriesResult{Series: &cached, Source: p.ID()}, nil
	}

	series, err := retry.Do(ctx, g.exec, "daily series", func(ctx context.Context) (*models.DailySeries, error) {
		return p.DailySeries(ctx, symbol, days)
	})
	switch {
	case err == nil:
		g.metrics.RecordProviderCall(p.ID(), "historical", "success")
		if err := g.cache.Set(ctx, key, series, g.seriesTTL); err != nil {
			g.logger.Debug("series cache write failed", logger.Error(err))
		}
		return &SeriesResult{Series: series, Source: p.ID()}, nil

	case errors.Is(err, models.ErrExhausted):
		g.metrics.RecordProviderCall(p.ID(), "historical", "exhausted")
		g.metrics.RecordFallback("historical")
		g.logger.Warn("provider exhausted, serving simulated series",
			logger.String("provider", p.ID()),
			logger.String("symbol", symbol),
		)
		return &SeriesResult{Series: g.sim.DailySeries(symbol, days), Source: SourceSimulated}, nil

	default:
		g.metrics.RecordProviderCall(p.ID(), "historical", "error")
		return nil, err
	}
}

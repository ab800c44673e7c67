package repository

import (
	"context"

	"StockPulse/internal/domain/models"
)

// StockProvider is the contract every external data source adapter
// implements. All three operations return canonical shapes; provider-specific
// field names never leak past an adapter.
type StockProvider interface {
	// ID returns the provider identifier ("yahoo", "fmp", "alphavantage").
	ID() string

	// Quote fetches the current quote for a symbol.
	// Returns models.ErrNotFound when the symbol yields no data.
	Quote(ctx context.Context, symbol string) (*models.Quote, error)

	// Search looks up symbols by company name or keywords. An empty slice
	// is a valid result.
	Search(ctx context.Context, keywords string) ([]models.SearchResult, error)

	// DailySeries fetches up to days of daily history for a symbol.
	DailySeries(ctx context.Context, symbol string, days int) (*models.DailySeries, error)
}

type Metrics interface {
	RecordProviderCall(provider, op, outcome string)
	RecordFallback(op string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}

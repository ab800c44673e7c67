package fmp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

const defaultBaseURL = "https://financialmodelingprep.com/api/v3"

// Client adapts the Financial Modeling Prep REST API. The free tier works
// without a key but caps out at 250 requests a day, after which the API
// starts answering 429.
type Client struct {
	http    *xhttp.Client
	logger  *logger.Logger
	baseURL string
}

// Option configures Client.
type Option func(*Client)

// WithBaseURL overrides the API root, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// New creates an FMP adapter.
func New(hc *xhttp.Client, l *logger.Logger, opts ...Option) repository.StockProvider {
	c := &Client{
		http:    hc,
		logger:  l,
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ID() string { return models.ProviderFMP }

type fmpQuote struct {
	Symbol        string   `json:"symbol"`
	Price         *float64 `json:"price"`
	Open          *float64 `json:"open"`
	DayHigh       *float64 `json:"dayHigh"`
	DayLow        *float64 `json:"dayLow"`
	PreviousClose *float64 `json:"previousClose"`
	Volume        *int64   `json:"volume"`
	Timestamp     int64    `json:"timestamp"`
}

func (c *Client) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	var payload []fmpQuote
	err := c.get(ctx, "quote", fmt.Sprintf("%s/quote/%s", c.baseURL, symbol), nil, &payload)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, models.ErrNotFound
	}
	raw := payload[0]

	price := deref(raw.Price, 0)
	if price == 0 {
		return nil, models.ErrNotFound
	}

	q := &models.Quote{
		Symbol:           symbol,
		Open:             deref(raw.Open, price),
		High:             deref(raw.DayHigh, price),
		Low:              deref(raw.DayLow, price),
		Price:            price,
		Volume:           derefInt(raw.Volume, 0),
		LatestTradingDay: tradingDay(raw.Timestamp),
		PreviousClose:    deref(raw.PreviousClose, price),
	}
	q.Recompute()
	return q, nil
}

type fmpMatch struct {
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	Currency          string `json:"currency"`
	StockExchange     string `json:"stockExchange"`
	ExchangeShortName string `json:"exchangeShortName"`
}

func (c *Client) Search(ctx context.Context, keywords string) ([]models.SearchResult, error) {
	var payload []fmpMatch
	err := c.get(ctx, "search", c.baseURL+"/search", map[string]string{
		"query": strings.TrimSpace(keywords),
		"limit": "10",
	}, &payload)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(payload))
	for _, m := range payload {
		if m.Symbol == "" {
			continue
		}
		currency := m.Currency
		if currency == "" {
			currency = "USD"
		}
		results = append(results, models.SearchResult{
			Symbol:   m.Symbol,
			Name:     m.Name,
			Type:     "Stock",
			Region:   region(m.ExchangeShortName),
			Currency: currency,
		})
	}
	return results, nil
}

type fmpHistorical struct {
	Symbol     string `json:"symbol"`
	Historical []struct {
		Date   string  `json:"date"`
		Open   float64 `json:"open"`
		High   float64 `json:"high"`
		Low    float64 `json:"low"`
		Close  float64 `json:"close"`
		Volume int64   `json:"volume"`
	} `json:"historical"`
}

func (c *Client) DailySeries(ctx context.Context, symbol string, days int) (*models.DailySeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if days <= 0 {
		days = 30
	}

	var payload fmpHistorical
	err := c.get(ctx, "daily series",
		fmt.Sprintf("%s/historical-price-full/%s", c.baseURL, symbol),
		map[string]string{"timeseries": fmt.Sprintf("%d", days)},
		&payload)
	if err != nil {
		return nil, err
	}
	if len(payload.Historical) == 0 {
		return nil, models.ErrNotFound
	}

	series := models.NewDailySeries(symbol)
	for _, bar := range payload.Historical {
		series.Days[bar.Date] = models.DailyBar{
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		}
	}
	series.RefreshMeta()
	return series, nil
}

func (c *Client) get(ctx context.Context, op, url string, params map[string]string, dest any) error {
	err := c.http.GetJSON(ctx, &xhttp.RequestOptions{URL: url, QueryParams: params}, dest)
	if err == nil {
		return nil
	}

	var se *xhttp.StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusTooManyRequests, http.StatusForbidden:
			// The free tier answers 403 once the daily allowance is gone.
			return models.ErrRateLimited
		case http.StatusNotFound:
			return models.ErrNotFound
		default:
			c.logger.Warn("fmp returned unexpected status",
				logger.String("op", op),
				logger.Int("status", se.Code),
			)
			return models.NewTransportError(op, err)
		}
	}
	return models.NewTransportError(op, err)
}

// tradingDay converts the quote's unix timestamp, falling back to today
// when the API leaves it out.
func tradingDay(ts int64) string {
	if ts <= 0 {
		return util.ISODate(time.Now())
	}
	return util.ISODate(time.Unix(ts, 0))
}

func region(exchange string) string {
	switch strings.ToUpper(exchange) {
	case "", "NYSE", "NASDAQ", "AMEX", "OTC":
		return "US"
	default:
		return exchange
	}
}

func deref(v *float64, def float64) float64 {
	if v == nil || *v == 0 {
		return def
	}
	return *v
}

func derefInt(v *int64, def int64) int64 {
	if v == nil {
		return def
	}
	return *v
}

package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/service/symbols"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Client adapts the Yahoo Finance chart endpoint. No API key is needed.
// Symbol search has no usable public endpoint, so it is served from the
// built-in catalog.
type Client struct {
	http    *xhttp.Client
	logger  *logger.Logger
	baseURL string
	now     func() time.Time
}

// Option configures Client.
type Option func(*Client)

// WithBaseURL overrides the chart endpoint, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New creates a Yahoo Finance adapter.
func New(hc *xhttp.Client, l *logger.Logger, opts ...Option) repository.StockProvider {
	c := &Client{
		http:    hc,
		logger:  l,
		baseURL: defaultBaseURL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ID() string { return models.ProviderYahoo }

// chartResponse mirrors the chart payload. Numeric fields are pointers:
// Yahoo omits or nulls them freely and absence must not fail the parse.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string   `json:"symbol"`
				RegularMarketPrice   *float64 `json:"regularMarketPrice"`
				PreviousClose        *float64 `json:"previousClose"`
				ChartPreviousClose   *float64 `json:"chartPreviousClose"`
				RegularMarketOpen    *float64 `json:"regularMarketOpen"`
				RegularMarketDayHigh *float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  *float64 `json:"regularMarketDayLow"`
				RegularMarketVolume  *int64   `json:"regularMarketVolume"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []chartBars `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

type chartBars struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

func (c *Client) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	var payload chartResponse
	if err := c.fetchChart(ctx, "quote", symbol, 5, &payload); err != nil {
		return nil, err
	}
	if len(payload.Chart.Result) == 0 {
		return nil, models.ErrNotFound
	}
	result := payload.Chart.Result[0]
	meta := result.Meta

	price := deref(meta.RegularMarketPrice, 0)
	if price == 0 {
		// Meta carried no price; fall back to the most recent close in
		// the indicator arrays.
		price = mostRecentClose(result.Indicators.Quote)
	}
	if price == 0 {
		return nil, models.ErrNotFound
	}

	prev := deref(meta.PreviousClose, deref(meta.ChartPreviousClose, price))

	day := util.ISODate(c.now())
	if n := len(result.Timestamp); n > 0 {
		day = util.ISODate(time.Unix(result.Timestamp[n-1], 0))
	}

	q := &models.Quote{
		Symbol:           symbol,
		Open:             deref(meta.RegularMarketOpen, price),
		High:             deref(meta.RegularMarketDayHigh, price),
		Low:              deref(meta.RegularMarketDayLow, price),
		Price:            price,
		Volume:           derefInt(meta.RegularMarketVolume, 1_000_000),
		LatestTradingDay: day,
		PreviousClose:    prev,
	}
	q.Recompute()
	return q, nil
}

func (c *Client) Search(_ context.Context, keywords string) ([]models.SearchResult, error) {
	return symbols.Search(keywords), nil
}

func (c *Client) DailySeries(ctx context.Context, symbol string, days int) (*models.DailySeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if days <= 0 {
		days = 30
	}

	var payload chartResponse
	if err := c.fetchChart(ctx, "daily series", symbol, days, &payload); err != nil {
		return nil, err
	}
	if len(payload.Chart.Result) == 0 {
		return nil, models.ErrNotFound
	}
	result := payload.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, models.ErrNotFound
	}
	bars := result.Indicators.Quote[0]

	series := models.NewDailySeries(symbol)
	for i, ts := range result.Timestamp {
		date := util.ISODate(time.Unix(ts, 0))
		series.Days[date] = models.DailyBar{
			Open:   derefAt(bars.Open, i),
			High:   derefAt(bars.High, i),
			Low:    derefAt(bars.Low, i),
			Close:  derefAt(bars.Close, i),
			Volume: derefIntAt(bars.Volume, i),
		}
	}
	series.RefreshMeta()
	return series, nil
}

// fetchChart issues one chart request covering the trailing span of days and
// maps failures onto the shared error taxonomy.
func (c *Client) fetchChart(ctx context.Context, op, symbol string, days int, dest *chartResponse) error {
	now := c.now()
	err := c.http.GetJSON(ctx, &xhttp.RequestOptions{
		URL: fmt.Sprintf("%s/%s", c.baseURL, symbol),
		QueryParams: map[string]string{
			"period1":        strconv.FormatInt(now.AddDate(0, 0, -days).Unix(), 10),
			"period2":        strconv.FormatInt(now.Unix(), 10),
			"interval":       "1d",
			"includePrePost": "false",
		},
	}, dest)
	if err == nil {
		return nil
	}

	var se *xhttp.StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusTooManyRequests:
			return models.ErrRateLimited
		case http.StatusNotFound:
			return models.ErrNotFound
		default:
			c.logger.Warn("yahoo returned unexpected status",
				logger.String("op", op),
				logger.String("symbol", symbol),
				logger.Int("status", se.Code),
			)
			return models.NewTransportError(op, err)
		}
	}
	return models.NewTransportError(op, err)
}

// mostRecentClose walks the close array backwards past trailing nulls.
func mostRecentClose(quotes []chartBars) float64 {
	if len(quotes) == 0 {
		return 0
	}
	closes := quotes[0].Close
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] != nil && *closes[i] != 0 {
			return *closes[i]
		}
	}
	return 0
}

func deref(v *float64, def float64) float64 {
	if v == nil || *v == 0 {
		return def
	}
	return *v
}

func derefInt(v *int64, def int64) int64 {
	if v == nil || *v == 0 {
		return def
	}
	return *v
}

func derefAt(vs []*float64, i int) float64 {
	if i >= len(vs) || vs[i] == nil {
		return 0
	}
	return *vs[i]
}

func derefIntAt(vs []*int64, i int) int64 {
	if i >= len(vs) || vs[i] == nil {
		return 0
	}
	return *vs[i]
}

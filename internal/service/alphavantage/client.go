package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/logger"
)

const defaultBaseURL = "https://www.alphavantage.co/query"

// Client adapts the Alpha Vantage query API. A key is mandatory, and the
// free tier allows 5 requests per minute, so outgoing calls are paced
// through a limiter instead of letting the API throttle us.
type Client struct {
	http    *xhttp.Client
	logger  *logger.Logger
	apiKey  string
	baseURL string
	limiter *rate.Limiter
}

// Option configures Client.
type Option func(*Client)

// WithBaseURL overrides the query endpoint, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithLimiter replaces the request pacer, for tests.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// New creates an Alpha Vantage adapter. It fails when no API key is
// configured rather than letting every request bounce.
func New(hc *xhttp.Client, apiKey string, l *logger.Logger, opts ...Option) (repository.StockProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, models.ErrMissingCredential
	}
	c := &Client{
		http:    hc,
		logger:  l,
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: defaultBaseURL,
		limiter: rate.NewLimiter(rate.Every(12*time.Second), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) ID() string { return models.ProviderAlphaVantage }

// throttleNotice carries the fields Alpha Vantage uses to report an
// exhausted allowance inside an HTTP 200 body.
type throttleNotice struct {
	Note        string `json:"Note"`
	Information string `json:"Information"`
}

func (n throttleNotice) throttled() bool {
	return n.Note != "" || n.Information != ""
}

func (c *Client) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	var payload struct {
		throttleNotice
		GlobalQuote models.Quote `json:"Global Quote"`
	}
	err := c.query(ctx, "quote", map[string]string{
		"function": "GLOBAL_QUOTE",
		"symbol":   symbol,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.throttled() {
		return nil, models.ErrRateLimited
	}
	if payload.GlobalQuote.Symbol == "" || payload.GlobalQuote.Price == 0 {
		return nil, models.ErrNotFound
	}

	q := payload.GlobalQuote
	if q.ChangePercent == "" {
		q.Recompute()
	}
	return &q, nil
}

type avMatch struct {
	Symbol   string `json:"1. symbol"`
	Name     string `json:"2. name"`
	Type     string `json:"3. type"`
	Region   string `json:"4. region"`
	Currency string `json:"8. currency"`
}

func (c *Client) Search(ctx context.Context, keywords string) ([]models.SearchResult, error) {
	var payload struct {
		throttleNotice
		BestMatches []avMatch `json:"bestMatches"`
	}
	err := c.query(ctx, "search", map[string]string{
		"function": "SYMBOL_SEARCH",
		"keywords": strings.TrimSpace(keywords),
	}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.throttled() {
		return nil, models.ErrRateLimited
	}

	results := make([]models.SearchResult, 0, len(payload.BestMatches))
	for _, m := range payload.BestMatches {
		if m.Symbol == "" {
			continue
		}
		results = append(results, models.SearchResult{
			Symbol:   m.Symbol,
			Name:     m.Name,
			Type:     m.Type,
			Region:   m.Region,
			Currency: m.Currency,
		})
	}
	return results, nil
}

func (c *Client) DailySeries(ctx context.Context, symbol string, days int) (*models.DailySeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if days <= 0 {
		days = 30
	}

	var payload struct {
		throttleNotice
		models.DailySeries
	}
	err := c.query(ctx, "daily series", map[string]string{
		"function":   "TIME_SERIES_DAILY",
		"symbol":     symbol,
		"outputsize": "compact",
	}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.throttled() {
		return nil, models.ErrRateLimited
	}
	if len(payload.Days) == 0 {
		return nil, models.ErrNotFound
	}

	series := &payload.DailySeries
	trimSeries(series, days)
	series.Meta.Symbol = symbol
	series.Meta.Information = models.SeriesInformation
	series.RefreshMeta()
	return series, nil
}

// trimSeries keeps only the most recent n dates. The compact output size
// always returns around 100 trading days regardless of what was asked.
func trimSeries(s *models.DailySeries, n int) {
	if len(s.Days) <= n {
		return
	}
	dates := make([]string, 0, len(s.Days))
	for d := range s.Days {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	for _, d := range dates[n:] {
		delete(s.Days, d)
	}
}

func (c *Client) query(ctx context.Context, op string, params map[string]string, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params["apikey"] = c.apiKey
	err := c.http.GetJSON(ctx, &xhttp.RequestOptions{URL: c.baseURL, QueryParams: params}, dest)
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
			c.logger.Warn("alphavantage returned unexpected status",
				logger.String("op", op),
				logger.Int("status", se.Code),
			)
			return models.NewTransportError(op, err)
		}
	}
	return models.NewTransportError(op, err)
}

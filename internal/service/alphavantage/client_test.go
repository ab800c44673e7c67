package alphavantage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"StockPulse/internal/domain/models"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := New(xhttp.NewClient(), "demo-key", logger.Nop(),
		WithBaseURL(srv.URL),
		WithLimiter(rate.NewLimiter(rate.Inf, 1)),
	)
	require.NoError(t, err)
	return p.(*Client)
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(xhttp.NewClient(), "   ", logger.Nop())
	require.ErrorIs(t, err, models.ErrMissingCredential)
}

func TestQuoteParsesOrdinalKeys(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "demo-key", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, `{
			"Global Quote": {
				"01. symbol": "IBM",
				"02. open": "184.00",
				"03. high": "186.20",
				"04. low": "183.10",
				"05. price": "185.50",
				"06. volume": "4200000",
				"07. latest trading day": "2026-08-31",
				"08. previous close": "184.50",
				"09. change": "1.00",
				"10. change percent": "0.5420%"
			}
		}`)
	})

	q, err := c.Quote(context.Background(), "ibm")
	require.NoError(t, err)

	assert.Equal(t, "IBM", q.Symbol)
	assert.Equal(t, 185.5, q.Price)
	assert.Equal(t, int64(4200000), q.Volume)
	assert.Equal(t, "0.5420%", q.ChangePercent, "provider-supplied change is kept")
}

func TestQuoteThrottleNotice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute"}`)
	})

	_, err := c.Quote(context.Background(), "IBM")
	require.ErrorIs(t, err, models.ErrRateLimited)
}

func TestQuoteUnknownSymbol(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Global Quote": {}}`)
	})

	_, err := c.Quote(context.Background(), "NOPE")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestSearchNormalizesDivergentKeys(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SYMBOL_SEARCH", r.URL.Query().Get("function"))
		fmt.Fprint(w, `{
			"bestMatches": [{
				"1. symbol": "BA",
				"2. name": "Boeing Company",
				"3. type": "Equity",
				"4. region": "United States",
				"8. currency": "USD"
			}]
		}`)
	})

	results, err := c.Search(context.Background(), "boeing")
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "BA", results[0].Symbol)
	assert.Equal(t, "United States", results[0].Region)
	assert.Equal(t, "USD", results[0].Currency)
}

func TestDailySeriesTruncates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_DAILY", r.URL.Query().Get("function"))
		fmt.Fprint(w, `{
			"Meta Data": {
				"1. Information": "Daily Prices (open, high, low, close) and Volumes",
				"2. Symbol": "IBM",
				"3. Last Refreshed": "2026-08-31",
				"4. Output Size": "Compact",
				"5. Time Zone": "US/Eastern"
			},
			"Time Series (Daily)": {
				"2026-08-31": {"1. open": "184.00", "2. high": "186.20", "3. low": "183.10", "4. close": "185.50", "5. volume": "4200000"},
				"2026-08-28": {"1. open": "183.00", "2. high": "184.90", "3. low": "182.50", "4. close": "184.50", "5. volume": "3900000"},
				"2026-08-27": {"1. open": "182.00", "2. high": "183.90", "3. low": "181.50", "4. close": "183.00", "5. volume": "3700000"}
			}
		}`)
	})

	series, err := c.DailySeries(context.Background(), "IBM", 2)
	require.NoError(t, err)

	require.Len(t, series.Days, 2, "compact output is trimmed to the requested window")
	assert.Contains(t, series.Days, "2026-08-31")
	assert.Contains(t, series.Days, "2026-08-28")
	assert.Equal(t, "2026-08-31", series.Meta.LastRefreshed)
	assert.Equal(t, 185.5, series.Days["2026-08-31"].Close)
}

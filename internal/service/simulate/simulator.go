package simulate

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/util"
)

// defaultBasePrice anchors symbols absent from the reference table.
const defaultBasePrice = 100.0

// basePrices holds reference prices used to anchor synthetic quotes.
// Values are approximate by design; simulated data is never authoritative.
var basePrices = map[string]float64{
	"AAPL": 211.27, "GOOGL": 2850.45, "GOOG": 2845.12, "MSFT": 425.72,
	"TSLA": 258.33, "AMZN": 3456.78, "META": 488.91, "NVDA": 875.44,
	"NFLX": 612.33, "AMD": 145.67, "INTC": 32.45, "ORCL": 138.92,
	"CRM": 245.78, "IBM": 185.34, "DIS": 112.45, "KO": 62.18,
	"PEP": 178.32, "WMT": 168.90, "HD": 345.67, "V": 267.89,
	"MA": 478.23, "JPM": 198.45, "BAC": 34.56, "WFC": 45.23,
	"GS": 432.10, "JNJ": 156.78, "PFE": 28.90, "XOM": 89.34,
	"CVX": 156.78, "BA": 234.56, "MMM": 98.76, "NKE": 89.12,
	"MCD": 289.45, "SBUX": 98.67, "ADBE": 567.89, "ZM": 67.34,
	"UBER": 78.90, "ABNB": 134.56, "COIN": 189.23, "PYPL": 78.45,
	"SQ": 89.12, "SPOT": 198.34, "SNOW": 167.89, "PLTR": 23.45,
}

// Simulator produces plausible synthetic quotes and series without network
// access. Each instance owns an independently seeded random source, so
// concurrent gateways never share correlated synthetic paths.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// Option configures Simulator.
type Option func(*Simulator)

// WithSeed fixes the random source, for reproducible tests.
func WithSeed(seed int64) Option {
	return func(s *Simulator) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) {
		s.now = now
	}
}

// New creates a simulator with its own random source.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote synthesizes a current quote for a symbol. The base reference price
// acts as previous close; the current price is a bounded perturbation of it,
// and open/high/low are derived so that low <= open, price <= high holds by
// construction.
func (s *Simulator) Quote(symbol string) *models.Quote {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	base, ok := basePrices[symbol]
	if !ok {
		base = defaultBasePrice
	}

	price := base * (1 + s.uniform(-0.02, 0.02))
	open := base * s.uniform(0.995, 1.005)
	high := maxf(open, price) * s.uniform(1.0, 1.015)
	low := minf(open, price) * s.uniform(0.985, 1.0)

	q := &models.Quote{
		Symbol:           symbol,
		Open:             models.Round2(open),
		High:             models.Round2(high),
		Low:              models.Round2(low),
		Price:            models.Round2(price),
		Volume:           s.int63n(1_000_000, 50_000_000),
		LatestTradingDay: util.ISODate(s.now()),
		PreviousClose:    models.Round2(base),
	}
	q.Recompute()
	return q
}

// DailySeries synthesizes exactly days consecutive calendar days ending
// today. Day 0 is anchored on a fresh synthetic quote; earlier days apply an
// independent bounded daily drift scaled toward the anchor. The path looks
// plausible but is explicitly non-authoritative.
func (s *Simulator) DailySeries(symbol string, days int) *models.DailySeries {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if days <= 0 {
		days = 30
	}

	base := s.Quote(symbol).Price

	series := models.NewDailySeries(symbol)
	now := s.now()
	for i := 0; i < days; i++ {
		date := util.DaysAgo(now, i)

		drift := s.uniform(-0.03, 0.03)
		closePrice := base * (1 + drift*float64(days-i)/float64(days))

		open := closePrice * s.uniform(0.99, 1.01)
		high := maxf(open, closePrice) * s.uniform(1.0, 1.02)
		low := minf(open, closePrice) * s.uniform(0.98, 1.0)

		series.Days[date] = models.DailyBar{
			Open:   models.Round2(open),
			High:   models.Round2(high),
			Low:    models.Round2(low),
			Close:  models.Round2(closePrice),
			Volume: s.int63n(1_000_000, 100_000_000),
		}
	}
	series.RefreshMeta()
	return series
}

func (s *Simulator) uniform(min, max float64) float64 {
	s.mu.Lock()
	f := s.rng.Float64()
	s.mu.Unlock()
	return min + f*(max-min)
}

func (s *Simulator) int63n(min, max int64) int64 {
	s.mu.Lock()
	n := s.rng.Int63n(max - min)
	s.mu.Unlock()
	return min + n
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

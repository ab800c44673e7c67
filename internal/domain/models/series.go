package models

import (
	"encoding/json"
	"strconv"
)

// SeriesMeta is the metadata block of a daily series.
type SeriesMeta struct {
	Information   string `json:"1. Information"`
	Symbol        string `json:"2. Symbol"`
	LastRefreshed string `json:"3. Last Refreshed"`
	OutputSize    string `json:"4. Output Size"`
	TimeZone      string `json:"5. Time Zone"`
}

// DailyBar is one OHLCV record of a daily series.
type DailyBar struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

type ordinalDailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

func (b DailyBar) MarshalJSON() ([]byte, error) {
	return json.Marshal(ordinalDailyBar{
		Open:   formatPrice(b.Open),
		High:   formatPrice(b.High),
		Low:    formatPrice(b.Low),
		Close:  formatPrice(b.Close),
		Volume: strconv.FormatInt(b.Volume, 10),
	})
}

func (b *DailyBar) UnmarshalJSON(data []byte) error {
	var w ordinalDailyBar
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	b.Open = parseFloat(w.Open)
	b.High = parseFloat(w.High)
	b.Low = parseFloat(w.Low)
	b.Close = parseFloat(w.Close)
	b.Volume = parseInt(w.Volume)
	return nil
}

// DailySeries is a daily historical series keyed by ISO date.
// Invariant: Meta.LastRefreshed equals the maximum date key present.
type DailySeries struct {
	Meta SeriesMeta          `json:"Meta Data"`
	Days map[string]DailyBar `json:"Time Series (Daily)"`
}

// SeriesInformation is the information string all providers normalize to.
const SeriesInformation = "Daily Prices (open, high, low, close) and Volumes"

// NewDailySeries builds a series with standard metadata for a symbol.
func NewDailySeries(symbol string) *DailySeries {
	return &DailySeries{
		Meta: SeriesMeta{
			Information: SeriesInformation,
			Symbol:      symbol,
			OutputSize:  "Compact",
			TimeZone:    "US/Eastern",
		},
		Days: make(map[string]DailyBar),
	}
}

// RefreshMeta recomputes LastRefreshed from the date keys.
func (s *DailySeries) RefreshMeta() {
	last := ""
	for d := range s.Days {
		if d > last {
			last = d
		}
	}
	s.Meta.LastRefreshed = last
}

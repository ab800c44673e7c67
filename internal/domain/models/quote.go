package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Quote is the canonical normalized quote all providers are mapped into.
// Fields are strongly typed; the legacy ordinal-keyed wire form is produced
// only by JSON marshaling.
type Quote struct {
	Symbol           string
	Open             float64
	High             float64
	Low              float64
	Price            float64
	Volume           int64
	LatestTradingDay string // ISO 8601 date
	PreviousClose    float64
	Change           float64
	ChangePercent    string // formatted, e.g. "1.25%"
}

// Recompute derives Change and ChangePercent from Price and PreviousClose.
func (q *Quote) Recompute() {
	q.Change = Round2(q.Price - q.PreviousClose)
	if q.PreviousClose != 0 {
		q.ChangePercent = fmt.Sprintf("%.2f%%", q.Change/q.PreviousClose*100)
	} else {
		q.ChangePercent = "0.00%"
	}
}

// ordinalQuote is the legacy wire format kept for interop with consumers of
// the original keyed-provider payloads. All values travel as strings.
type ordinalQuote struct {
	Symbol           string `json:"01. symbol"`
	Open             string `json:"02. open"`
	High             string `json:"03. high"`
	Low              string `json:"04. low"`
	Price            string `json:"05. price"`
	Volume           string `json:"06. volume"`
	LatestTradingDay string `json:"07. latest trading day"`
	PreviousClose    string `json:"08. previous close"`
	Change           string `json:"09. change"`
	ChangePercent    string `json:"10. change percent"`
}

func (q Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal(ordinalQuote{
		Symbol:           strings.ToUpper(q.Symbol),
		Open:             formatPrice(q.Open),
		High:             formatPrice(q.High),
		Low:              formatPrice(q.Low),
		Price:            formatPrice(q.Price),
		Volume:           strconv.FormatInt(q.Volume, 10),
		LatestTradingDay: q.LatestTradingDay,
		PreviousClose:    formatPrice(q.PreviousClose),
		Change:           formatPrice(q.Change),
		ChangePercent:    q.ChangePercent,
	})
}

func (q *Quote) UnmarshalJSON(b []byte) error {
	var w ordinalQuote
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	q.Symbol = strings.ToUpper(w.Symbol)
	q.Open = parseFloat(w.Open)
	q.High = parseFloat(w.High)
	q.Low = parseFloat(w.Low)
	q.Price = parseFloat(w.Price)
	q.Volume = parseInt(w.Volume)
	q.LatestTradingDay = w.LatestTradingDay
	q.PreviousClose = parseFloat(w.PreviousClose)
	q.Change = parseFloat(w.Change)
	q.ChangePercent = w.ChangePercent
	return nil
}

// Round2 rounds to two decimal places, the precision the wire format carries.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', 2, 64)
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

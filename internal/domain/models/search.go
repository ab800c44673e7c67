package models

import (
	"encoding/json"
	"strings"
)

// SearchResult is one entry of a symbol-search response.
type SearchResult struct {
	Symbol   string
	Name     string
	Type     string // currently always "Stock"
	Region   string
	Currency string
}

type ordinalSearchResult struct {
	Symbol   string `json:"1. symbol"`
	Name     string `json:"2. name"`
	Type     string `json:"3. type"`
	Region   string `json:"4. region"`
	Currency string `json:"5. currency"`
}

func (r SearchResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(ordinalSearchResult{
		Symbol:   strings.ToUpper(r.Symbol),
		Name:     r.Name,
		Type:     r.Type,
		Region:   r.Region,
		Currency: r.Currency,
	})
}

func (r *SearchResult) UnmarshalJSON(b []byte) error {
	var w ordinalSearchResult
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	r.Symbol = strings.ToUpper(w.Symbol)
	r.Name = w.Name
	r.Type = w.Type
	r.Region = w.Region
	r.Currency = w.Currency
	return nil
}

// TickerShaped reports whether a query plausibly is a ticker itself:
// at most 6 characters, uppercase letters and digits apart from dots.
// Lowercase queries are treated as company keywords, not tickers.
func TickerShaped(q string) bool {
	if len(q) == 0 || len(q) > 6 {
		return false
	}
	for _, r := range strings.ReplaceAll(q, ".", "") {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return strings.ReplaceAll(q, ".", "") != ""
}

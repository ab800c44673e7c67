package symbols

import (
	"fmt"
	"strings"

	"StockPulse/internal/domain/models"
)

// maxResults caps one search response.
const maxResults = 10

type entry struct {
	Symbol string
	Name   string
}

// catalog maps lowercase company keywords to listed symbols. Search iterates
// it directly; no external call is involved.
var catalog = map[string][]entry{
	"apple":            {{"AAPL", "Apple Inc."}},
	"microsoft":        {{"MSFT", "Microsoft Corporation"}},
	"google":           {{"GOOGL", "Alphabet Inc. Class A"}, {"GOOG", "Alphabet Inc. Class C"}},
	"alphabet":         {{"GOOGL", "Alphabet Inc. Class A"}},
	"amazon":           {{"AMZN", "Amazon.com Inc."}},
	"tesla":            {{"TSLA", "Tesla, Inc."}},
	"meta":             {{"META", "Meta Platforms, Inc."}},
	"facebook":         {{"META", "Meta Platforms, Inc."}},
	"netflix":          {{"NFLX", "Netflix, Inc."}},
	"nvidia":           {{"NVDA", "NVIDIA Corporation"}},
	"intel":            {{"INTC", "Intel Corporation"}},
	"amd":              {{"AMD", "Advanced Micro Devices, Inc."}},
	"ibm":              {{"IBM", "International Business Machines Corporation"}},
	"oracle":           {{"ORCL", "Oracle Corporation"}},
	"salesforce":       {{"CRM", "Salesforce, Inc."}},
	"disney":           {{"DIS", "The Walt Disney Company"}},
	"coca cola":        {{"KO", "The Coca-Cola Company"}},
	"pepsi":            {{"PEP", "PepsiCo, Inc."}},
	"walmart":          {{"WMT", "Walmart Inc."}},
	"home depot":       {{"HD", "The Home Depot, Inc."}},
	"visa":             {{"V", "Visa Inc."}},
	"mastercard":       {{"MA", "Mastercard Incorporated"}},
	"jpmorgan":         {{"JPM", "JPMorgan Chase & Co."}},
	"bank of america":  {{"BAC", "Bank of America Corporation"}},
	"wells fargo":      {{"WFC", "Wells Fargo & Company"}},
	"goldman sachs":    {{"GS", "The Goldman Sachs Group, Inc."}},
	"johnson":          {{"JNJ", "Johnson & Johnson"}},
	"pfizer":           {{"PFE", "Pfizer Inc."}},
	"berkshire":        {{"BRK.A", "Berkshire Hathaway Inc. Class A"}, {"BRK.B", "Berkshire Hathaway Inc. Class B"}},
	"exxon":            {{"XOM", "Exxon Mobil Corporation"}},
	"chevron":          {{"CVX", "Chevron Corporation"}},
	"boeing":           {{"BA", "The Boeing Company"}},
	"caterpillar":      {{"CAT", "Caterpillar Inc."}},
	"american express": {{"AXP", "American Express Company"}},
	"honeywell":        {{"HON", "Honeywell International Inc."}},
	"3m":               {{"MMM", "3M Company"}},
	"nike":             {{"NKE", "NIKE, Inc."}},
	"mcdonalds":        {{"MCD", "McDonald's Corporation"}},
	"starbucks":        {{"SBUX", "Starbucks Corporation"}},
	"adobe":            {{"ADBE", "Adobe Inc."}},
	"zoom":             {{"ZM", "Zoom Video Communications, Inc."}},
	"uber":             {{"UBER", "Uber Technologies, Inc."}},
	"airbnb":           {{"ABNB", "Airbnb, Inc."}},
	"coinbase":         {{"COIN", "Coinbase Global, Inc."}},
	"paypal":           {{"PYPL", "PayPal Holdings, Inc."}},
	"square":           {{"SQ", "Block, Inc."}},
	"spotify":          {{"SPOT", "Spotify Technology S.A."}},
	"snowflake":        {{"SNOW", "Snowflake Inc."}},
	"palantir":         {{"PLTR", "Palantir Technologies Inc."}},
}

// Search matches keywords against the catalog, then prepends a synthesized
// direct guess when the query itself looks like a ticker. Capped at
// maxResults entries; no match and no guess yields an empty slice.
func Search(keywords string) []models.SearchResult {
	needle := strings.ToLower(strings.TrimSpace(keywords))
	results := make([]models.SearchResult, 0, maxResults)

	for company, entries := range catalog {
		if needle == "" {
			break
		}
		if strings.Contains(company, needle) || strings.Contains(needle, company) {
			for _, e := range entries {
				results = append(results, newResult(e.Symbol, e.Name))
			}
		}
	}

	if trimmed := strings.TrimSpace(keywords); models.TickerShaped(trimmed) {
		guess := newResult(trimmed, fmt.Sprintf("%s Corporation", trimmed))
		results = append([]models.SearchResult{guess}, results...)
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func newResult(symbol, name string) models.SearchResult {
	return models.SearchResult{
		Symbol:   symbol,
		Name:     name,
		Type:     "Stock",
		Region:   "US",
		Currency: "USD",
	}
}

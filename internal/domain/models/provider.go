package models

// Known provider identifiers.
const (
	ProviderYahoo        = "yahoo"
	ProviderFMP          = "fmp"
	ProviderAlphaVantage = "alphavantage"
)

// ProviderDescriptor identifies an external data source. Descriptors are
// static; one exists per known provider id and never changes at runtime.
type ProviderDescriptor struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	RequiresAPIKey bool     `json:"requires_api_key"`
	RateLimit      string   `json:"rate_limit"`
	Features       []string `json:"features"`
	Reliability    string   `json:"reliability"`
}

var descriptors = map[string]ProviderDescriptor{
	ProviderYahoo: {
		ID:             ProviderYahoo,
		Name:           "Yahoo Finance",
		RequiresAPIKey: false,
		RateLimit:      "Generous",
		Features:       []string{"Real-time quotes", "Historical data", "Symbol search"},
		Reliability:    "High",
	},
	ProviderFMP: {
		ID:             ProviderFMP,
		Name:           "Financial Modeling Prep",
		RequiresAPIKey: false,
		RateLimit:      "Limited (250 requests/day)",
		Features:       []string{"Real-time quotes", "Historical data", "Symbol search"},
		Reliability:    "Medium",
	},
	ProviderAlphaVantage: {
		ID:             ProviderAlphaVantage,
		Name:           "Alpha Vantage",
		RequiresAPIKey: true,
		RateLimit:      "5 requests/minute (free tier)",
		Features:       []string{"Real-time quotes", "Historical data", "Symbol search", "Technical indicators"},
		Reliability:    "High",
	},
}

// DescriptorFor returns the static descriptor for a provider id.
func DescriptorFor(id string) (ProviderDescriptor, bool) {
	d, ok := descriptors[id]
	return d, ok
}

// ProviderIDs lists the known provider identifiers.
func ProviderIDs() []string {
	return []string{ProviderYahoo, ProviderFMP, ProviderAlphaVantage}
}

package models

// Requests for the stock HTTP endpoints. Defined in domain for consistency and reuse.

type SetupRequest struct {
	Provider string `json:"provider" form:"provider" default:"yahoo" validate:"required,oneof=yahoo fmp alphavantage"`
	APIKey   string `json:"api_key" form:"api_key"`
}

type QuoteRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,min=1,max=12"`
}

type SearchRequest struct {
	Keywords string `param:"keywords" json:"keywords" validate:"required,min=1,max=64"`
}

type HistoricalRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Days   int    `query:"days" json:"days" default:"30" validate:"gte=1,lte=100"`
}

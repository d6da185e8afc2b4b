package models

import "github.com/shopspring/decimal"

// StrikeVolume pairs a strike with its total traded volume across both legs.
type StrikeVolume struct {
	Strike decimal.Decimal `json:"strike"`
	Volume int64           `json:"volume" example:"1200"`
}

// ChainSummary is the headline view of one fetched chain: contract counts,
// per-side open interest totals, the overall put/call ratio, and the most
// active strikes by volume.
//
// swagger:model ChainSummary
type ChainSummary struct {
	TotalContracts int      `json:"total_contracts" example:"120"`
	CallContracts  int      `json:"call_contracts" example:"60"`
	PutContracts   int      `json:"put_contracts" example:"60"`
	TotalCallOI    int64    `json:"total_call_oi" example:"150000"`
	TotalPutOI     int64    `json:"total_put_oi" example:"90000"`
	PCROI          *float64 `json:"pcr_oi" example:"0.6"`

	// MaxCallOIStrike / MaxPutOIStrike are nil when the respective side has no
	// open interest at all.
	MaxCallOIStrike *decimal.Decimal `json:"max_call_oi_strike,omitempty"`
	MaxPutOIStrike  *decimal.Decimal `json:"max_put_oi_strike,omitempty"`

	MeanVolume float64 `json:"mean_volume" example:"420.5"`
	MaxVolume  float64 `json:"max_volume" example:"9000"`

	// TopStrikes lists the N most active strikes by total volume, descending.
	TopStrikes []StrikeVolume `json:"top_strikes"`
}

// UnderlyingQuote is a snapshot of the underlying instrument, shown alongside
// the chain the way the original dashboard shows price and market cap.
//
// swagger:model UnderlyingQuote
type UnderlyingQuote struct {
	Symbol    string  `json:"symbol" example:"AAPL"`
	Name      string  `json:"name,omitempty" example:"Apple Inc."`
	LastPrice float64 `json:"last_price" example:"189.72"`
	MarketCap int64   `json:"market_cap,omitempty" example:"2950000000000"`
}

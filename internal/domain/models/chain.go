package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OptionType distinguishes call and put contracts.
type OptionType string

const (
	// CallOption is the right to buy the underlying at the strike.
	CallOption OptionType = "CALL"
	// PutOption is the right to sell the underlying at the strike.
	PutOption OptionType = "PUT"
)

// Valid reports whether the option type is one of the two known kinds.
func (t OptionType) Valid() bool {
	return t == CallOption || t == PutOption
}

// Source identifies the upstream market a row came from.
type Source string

const (
	// SourceNSE marks rows fetched from the NSE India option-chain endpoint.
	SourceNSE Source = "NSE"
	// SourceUS marks rows fetched from the Yahoo Finance option-chain endpoint.
	SourceUS Source = "US"
)

// OptionChainRow is one contract snapshot in the common shape shared by all
// sources. Open interest and volume are guaranteed non-negative by the
// normalizer; rows that fail that invariant never reach this type.
//
// Strikes are opaque decimals: NSE lists integer strikes, US markets fractional
// ones, and no cross-market alignment is attempted.
//
// swagger:model OptionChainRow
type OptionChainRow struct {
	Underlying   string          `json:"underlying" example:"NIFTY"`
	Expiry       time.Time       `json:"expiry"`
	Strike       decimal.Decimal `json:"strike"`
	OptionType   OptionType      `json:"option_type" example:"CALL"`
	OpenInterest int64           `json:"open_interest" example:"500"`
	Volume       int64           `json:"volume" example:"100"`
	Source       Source          `json:"source" example:"NSE"`
}

// AggregatedStrikeRow is one strike's combined call/put view, recomputed on
// every aggregation pass and never persisted independently of its source rows.
//
// PCROI is nil (JSON null) when CallOI is zero; division by zero is never
// raised.
//
// swagger:model AggregatedStrikeRow
type AggregatedStrikeRow struct {
	Strike     decimal.Decimal `json:"strike"`
	CallOI     int64           `json:"call_oi" example:"500"`
	PutOI      int64           `json:"put_oi" example:"300"`
	CallVolume int64           `json:"call_volume" example:"100"`
	PutVolume  int64           `json:"put_volume" example:"80"`
	PCROI      *float64        `json:"pcr_oi" example:"0.6"`
}

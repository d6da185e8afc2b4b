package source

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/oipulse/oipulse/internal/domain/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Adapter is the contract every market adapter implements.
//
// FetchChain performs exactly one option-chain request against the upstream
// (the NSE adapter additionally warms up a session cookie first) and returns
// the raw records for the requested expiry. A zero expiry selects the nearest
// listed expiry, matching the upstream default. No caching, no retries.
//
// Failure modes:
//   - *FetchError on network failure or non-success HTTP status; wraps
//     ErrRateLimited on HTTP 429.
//   - *ParseError when the payload does not match the source's schema.
type Adapter interface {
	Market() models.Source
	FetchChain(ctx context.Context, symbol string, expiry time.Time) ([]RawRecord, error)
}

// RawRecord is a tagged variant carrying one source-specific record. Exactly
// one of NSE / US is non-nil, matching Source. The normalizer is the only
// consumer that looks inside; everything downstream of it sees the common
// models.OptionChainRow shape.
type RawRecord struct {
	Source     models.Source
	Underlying string

	NSE *NSERecord
	US  *USRecord
}

// NSERecord is one strike entry from the NSE option-chain payload. CE and PE
// legs are optional; a strike may list only one side.
type NSERecord struct {
	StrikePrice Numeric `json:"strikePrice"`
	// ExpiryDate uses NSE's "02-Jan-2006" label format.
	ExpiryDate string  `json:"expiryDate"`
	CE         *NSELeg `json:"CE"`
	PE         *NSELeg `json:"PE"`
}

// NSELeg is one side (call or put) of an NSE strike entry.
type NSELeg struct {
	OpenInterest      Numeric `json:"openInterest"`
	ChangeInOI        Numeric `json:"changeinOpenInterest"`
	TotalTradedVolume Numeric `json:"totalTradedVolume"`
	ImpliedVolatility Numeric `json:"impliedVolatility"`
	LastPrice         Numeric `json:"lastPrice"`
	UnderlyingValue   Numeric `json:"underlyingValue"`
}

// USRecord is one contract from the Yahoo Finance option-chain payload.
// Side records which array ("calls" or "puts") the contract came from; the
// normalizer maps it to the option type, falling back to the OCC-style
// contract symbol when the side is missing.
type USRecord struct {
	ContractSymbol string  `json:"contractSymbol"`
	Side           string  `json:"-"`
	Strike         Numeric `json:"strike"`
	OpenInterest   Numeric `json:"openInterest"`
	Volume         Numeric `json:"volume"`
	// Expiration is a unix timestamp (seconds).
	Expiration int64 `json:"expiration"`
}

package dto

import (
	"time"

	"github.com/oipulse/oipulse/internal/domain/models"
)

// ChainResponse represents the JSON structure returned by the
// GET /api/v1/chain endpoint.
//
// Fields match the API contract and may differ from internal domain models.
// This ensures loose coupling between the API surface and business logic.
type ChainResponse struct {
	Symbol     string                       `json:"symbol" example:"NIFTY"`
	Market     models.Source                `json:"market" example:"NSE"`
	Expiry     time.Time                    `json:"expiry"`
	FetchedAt  time.Time                    `json:"fetched_at"`
	Summary    models.ChainSummary          `json:"summary"`
	Strikes    []models.AggregatedStrikeRow `json:"strikes"`
	Underlying *models.UnderlyingQuote      `json:"underlying,omitempty"`

	// DroppedRows counts raw records the normalizer rejected (non-numeric OI
	// or volume, unknown option type). Surfaced so callers can judge payload
	// quality instead of losing rows silently.
	DroppedRows int `json:"dropped_rows" example:"0"`
}

// ComparisonResponse is returned by GET /api/v1/comparison: one chain per
// market, fetched in parallel, side by side.
type ComparisonResponse struct {
	NSE *ChainResponse `json:"nse,omitempty"`
	US  *ChainResponse `json:"us,omitempty"`
}

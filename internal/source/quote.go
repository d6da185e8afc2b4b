package source

import (
	"fmt"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"

	"github.com/oipulse/oipulse/internal/domain/models"
)

// quoteFetch is an indirection for fetching equity snapshots; tests can
// override this.
var quoteFetch = func(symbol string) (*finance.Equity, error) {
	return equity.Get(symbol)
}

// FetchUnderlyingQuote returns a snapshot of the underlying instrument via
// Yahoo's equity feed. Used for US symbols only; NSE payloads carry the
// underlying value inline.
func FetchUnderlyingQuote(symbol string) (*models.UnderlyingQuote, error) {
	q, err := quoteFetch(symbol)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("quote %s: empty response", symbol)
	}
	return &models.UnderlyingQuote{
		Symbol:    q.Symbol,
		Name:      q.ShortName,
		LastPrice: q.RegularMarketPrice,
		MarketCap: q.MarketCap,
	}, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oipulse/oipulse/config"
	"github.com/oipulse/oipulse/internal/aggregate"
	"github.com/oipulse/oipulse/internal/domain/dto"
	"github.com/oipulse/oipulse/internal/domain/models"
	"github.com/oipulse/oipulse/internal/logger"
	"github.com/oipulse/oipulse/internal/normalize"
	"github.com/oipulse/oipulse/internal/source"
)

// ChainService defines business logic for fetching and shaping option chains.
type ChainService interface {
	// FetchRows runs fetch + normalize for one market and returns the
	// contract-level rows together with the drop report.
	FetchRows(ctx context.Context, market models.Source, symbol string, expiry time.Time) ([]models.OptionChainRow, normalize.Report, error)

	// GetChain runs the full pipeline for one market and returns the
	// aggregated per-strike table plus the chain summary.
	GetChain(ctx context.Context, market models.Source, symbol string, expiry time.Time) (*dto.ChainResponse, error)

	// GetComparison fetches the NSE and US chains in parallel. The two legs
	// share no state and no cancellation: a failure on one side never aborts
	// the other, though the comparison as a whole fails if either leg does.
	GetComparison(ctx context.Context, nseSymbol, usSymbol string) (*dto.ComparisonResponse, error)
}

type chainService struct {
	adapters map[models.Source]source.Adapter
	cfg      config.PipelineConfig

	// quoteFor is an indirection for the underlying-quote lookup; tests can
	// override it.
	quoteFor func(symbol string) (*models.UnderlyingQuote, error)
}

// NewChainService wires the adapters into a ChainService.
func NewChainService(nse, us source.Adapter, cfg config.PipelineConfig) ChainService {
	return &chainService{
		adapters: map[models.Source]source.Adapter{
			models.SourceNSE: nse,
			models.SourceUS:  us,
		},
		cfg:      cfg,
		quoteFor: source.FetchUnderlyingQuote,
	}
}

func (s *chainService) FetchRows(ctx context.Context, market models.Source, symbol string, expiry time.Time) ([]models.OptionChainRow, normalize.Report, error) {
	_, rows, report, err := s.fetch(ctx, market, symbol, expiry)
	return rows, report, err
}

// fetch runs the adapter and the normalizer, keeping the raw records around
// for callers that need payload-level fields the common row shape drops.
func (s *chainService) fetch(ctx context.Context, market models.Source, symbol string, expiry time.Time) ([]source.RawRecord, []models.OptionChainRow, normalize.Report, error) {
	adapter, ok := s.adapters[market]
	if !ok || adapter == nil {
		return nil, nil, normalize.Report{}, fmt.Errorf("unknown market %q", market)
	}

	raw, err := adapter.FetchChain(ctx, symbol, expiry)
	if err != nil {
		return nil, nil, normalize.Report{}, err
	}

	rows, report, err := normalize.Normalize(raw, s.cfg)
	if err != nil {
		return nil, nil, report, err
	}
	if report.Dropped > 0 {
		logger.With("service.chain").Warn().
			Str("market", string(market)).
			Str("symbol", symbol).
			Int("dropped", report.Dropped).
			Int("total", report.Total).
			Msg("rows dropped during normalization")
	}
	return raw, rows, report, nil
}

func (s *chainService) GetChain(ctx context.Context, market models.Source, symbol string, expiry time.Time) (*dto.ChainResponse, error) {
	raw, rows, report, err := s.fetch(ctx, market, symbol, expiry)
	if err != nil {
		return nil, err
	}

	resp := &dto.ChainResponse{
		Symbol:      symbol,
		Market:      market,
		FetchedAt:   time.Now().UTC(),
		Summary:     aggregate.Summarize(rows, s.cfg.TopStrikes),
		Strikes:     aggregate.Aggregate(rows),
		DroppedRows: report.Dropped,
	}
	if len(rows) > 0 {
		resp.Symbol = rows[0].Underlying
		resp.Expiry = rows[0].Expiry
	}

	// The underlying snapshot is best effort: a chain without it is still a
	// chain. NSE payloads carry the underlying value inline; US symbols go
	// through the Yahoo quote feed.
	switch market {
	case models.SourceNSE:
		resp.Underlying = nseUnderlying(raw, resp.Symbol)
	case models.SourceUS:
		quote, qerr := s.quoteFor(resp.Symbol)
		if qerr != nil {
			logger.With("service.chain").Warn().Str("symbol", resp.Symbol).Err(qerr).Msg("underlying quote unavailable")
		} else {
			resp.Underlying = quote
		}
	}

	return resp, nil
}

// nseUnderlying lifts the underlying spot price out of the chain payload.
// Every NSE leg repeats it; the first readable one wins. Nil when no leg
// carries a usable value.
func nseUnderlying(raw []source.RawRecord, symbol string) *models.UnderlyingQuote {
	for _, rec := range raw {
		if rec.NSE == nil {
			continue
		}
		for _, leg := range []*source.NSELeg{rec.NSE.CE, rec.NSE.PE} {
			if leg == nil || !leg.UnderlyingValue.IsSet() {
				continue
			}
			if v, err := leg.UnderlyingValue.Float64(); err == nil && v > 0 {
				return &models.UnderlyingQuote{Symbol: symbol, LastPrice: v}
			}
		}
	}
	return nil
}

func (s *chainService) GetComparison(ctx context.Context, nseSymbol, usSymbol string) (*dto.ComparisonResponse, error) {
	var (
		out dto.ComparisonResponse
		g   errgroup.Group
	)

	// Plain errgroup, deliberately not WithContext: the legs are independent
	// and one failing must not cancel the other.
	g.Go(func() error {
		resp, err := s.GetChain(ctx, models.SourceNSE, nseSymbol, time.Time{})
		if err != nil {
			return fmt.Errorf("nse %s: %w", nseSymbol, err)
		}
		out.NSE = resp
		return nil
	})
	g.Go(func() error {
		resp, err := s.GetChain(ctx, models.SourceUS, usSymbol, time.Time{})
		if err != nil {
			return fmt.Errorf("us %s: %w", usSymbol, err)
		}
		out.US = resp
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Package normalize translates source-specific raw records into the common
// OptionChainRow shape. It is the single chokepoint between the adapters and
// the rest of the pipeline: adding a third market means one new adapter plus
// one branch here.
package normalize

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oipulse/oipulse/config"
	"github.com/oipulse/oipulse/internal/domain/models"
	"github.com/oipulse/oipulse/internal/source"
)

const nseExpiryLayout = "02-Jan-2006"

// Report counts how the normalization pass went. Dropped rows are counted,
// never silently lost: callers surface the count to their own consumers.
type Report struct {
	Total   int
	Dropped int
}

// DropRatio returns the dropped fraction, 0 for an empty input.
func (r Report) DropRatio() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Dropped) / float64(r.Total)
}

// ThresholdError reports that too large a fraction of the payload was
// unparseable to trust the remainder.
type ThresholdError struct {
	Dropped  int
	Total    int
	MaxRatio float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("dropped %d of %d rows, above the %.0f%% threshold", e.Dropped, e.Total, e.MaxRatio*100)
}

// Normalize maps raw records onto the common row shape. Pure function, no
// side effects.
//
// Coercion rules:
//   - numeric fields may arrive as numbers or strings; junk values drop the
//     row and bump the report, they never become defaults
//   - negative open interest or volume drops the row
//   - rows whose option type cannot be determined are dropped
//
// When the dropped fraction exceeds cfg.MaxDropRatio the whole pass fails
// with *ThresholdError; otherwise the valid subset is returned together with
// the report.
func Normalize(records []source.RawRecord, cfg config.PipelineConfig) ([]models.OptionChainRow, Report, error) {
	var (
		rows   []models.OptionChainRow
		report Report
	)

	for _, rec := range records {
		switch {
		case rec.NSE != nil:
			emitted, attempted := normalizeNSE(rec)
			report.Total += attempted
			report.Dropped += attempted - len(emitted)
			rows = append(rows, emitted...)
		case rec.US != nil:
			report.Total++
			row, ok := normalizeUS(rec)
			if !ok {
				report.Dropped++
				continue
			}
			rows = append(rows, row)
		default:
			// untagged record: nothing to translate
			report.Total++
			report.Dropped++
		}
	}

	if report.Total > 0 && report.DropRatio() > cfg.MaxDropRatio {
		return nil, report, &ThresholdError{Dropped: report.Dropped, Total: report.Total, MaxRatio: cfg.MaxDropRatio}
	}
	return rows, report, nil
}

// normalizeNSE expands one NSE strike entry into up to two rows (CE and PE
// legs). Returns the emitted rows and how many rows were attempted.
func normalizeNSE(rec source.RawRecord) ([]models.OptionChainRow, int) {
	r := rec.NSE

	attempted := 0
	if r.CE != nil {
		attempted++
	}
	if r.PE != nil {
		attempted++
	}
	if attempted == 0 {
		// a strike entry with no legs carries no determinable option type
		return nil, 1
	}

	strike, err := r.StrikePrice.Decimal()
	if err != nil {
		return nil, attempted
	}
	expiry, err := time.Parse(nseExpiryLayout, r.ExpiryDate)
	if err != nil {
		return nil, attempted
	}

	var rows []models.OptionChainRow
	if r.CE != nil {
		if row, ok := nseLegRow(rec.Underlying, expiry, strike, models.CallOption, r.CE); ok {
			rows = append(rows, row)
		}
	}
	if r.PE != nil {
		if row, ok := nseLegRow(rec.Underlying, expiry, strike, models.PutOption, r.PE); ok {
			rows = append(rows, row)
		}
	}
	return rows, attempted
}

func nseLegRow(underlying string, expiry time.Time, strike decimal.Decimal, optType models.OptionType, leg *source.NSELeg) (models.OptionChainRow, bool) {
	oi, err := leg.OpenInterest.Int64()
	if err != nil || oi < 0 {
		return models.OptionChainRow{}, false
	}
	vol, err := leg.TotalTradedVolume.Int64()
	if err != nil || vol < 0 {
		return models.OptionChainRow{}, false
	}
	return models.OptionChainRow{
		Underlying:   underlying,
		Expiry:       expiry,
		Strike:       strike,
		OptionType:   optType,
		OpenInterest: oi,
		Volume:       vol,
		Source:       models.SourceNSE,
	}, true
}

// normalizeUS maps one Yahoo contract onto a row.
func normalizeUS(rec source.RawRecord) (models.OptionChainRow, bool) {
	r := rec.US

	optType, ok := usOptionType(r)
	if !ok {
		return models.OptionChainRow{}, false
	}
	strike, err := r.Strike.Decimal()
	if err != nil {
		return models.OptionChainRow{}, false
	}
	oi, err := r.OpenInterest.Int64()
	if err != nil || oi < 0 {
		return models.OptionChainRow{}, false
	}
	vol, err := r.Volume.Int64()
	if err != nil || vol < 0 {
		return models.OptionChainRow{}, false
	}

	var expiry time.Time
	if r.Expiration > 0 {
		expiry = time.Unix(r.Expiration, 0).UTC()
	}

	return models.OptionChainRow{
		Underlying:   rec.Underlying,
		Expiry:       expiry,
		Strike:       strike,
		OptionType:   optType,
		OpenInterest: oi,
		Volume:       vol,
		Source:       models.SourceUS,
	}, true
}

// usOptionType determines call/put from the array the contract came from,
// falling back to the type letter in the OCC-style contract symbol
// (ROOT + YYMMDD + C|P + 8-digit strike).
func usOptionType(r *source.USRecord) (models.OptionType, bool) {
	switch r.Side {
	case "calls":
		return models.CallOption, true
	case "puts":
		return models.PutOption, true
	}
	if len(r.ContractSymbol) > 9 {
		switch r.ContractSymbol[len(r.ContractSymbol)-9] {
		case 'C':
			return models.CallOption, true
		case 'P':
			return models.PutOption, true
		}
	}
	return "", false
}

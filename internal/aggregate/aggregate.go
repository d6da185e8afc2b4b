// Package aggregate folds normalized option rows into per-strike totals and
// chain-level summaries. It performs no I/O and raises no domain errors;
// malformed input reaching it indicates an upstream contract violation.
package aggregate

import (
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/oipulse/oipulse/internal/domain/models"
)

// Aggregate groups rows by strike, sums open interest and volume per option
// type, and computes the per-strike put/call OI ratio. Output is sorted
// ascending by strike with exactly one row per distinct strike, so an
// identical input multiset always yields an identical output sequence.
func Aggregate(rows []models.OptionChainRow) []models.AggregatedStrikeRow {
	byStrike := make(map[string]*models.AggregatedStrikeRow)

	for _, row := range rows {
		key := row.Strike.String()
		agg, ok := byStrike[key]
		if !ok {
			agg = &models.AggregatedStrikeRow{Strike: row.Strike}
			byStrike[key] = agg
		}
		switch row.OptionType {
		case models.CallOption:
			agg.CallOI += row.OpenInterest
			agg.CallVolume += row.Volume
		case models.PutOption:
			agg.PutOI += row.OpenInterest
			agg.PutVolume += row.Volume
		}
	}

	out := make([]models.AggregatedStrikeRow, 0, len(byStrike))
	for _, agg := range byStrike {
		agg.PCROI = pcr(agg.PutOI, agg.CallOI)
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Strike.Cmp(out[j].Strike) < 0
	})
	return out
}

// pcr returns put/call as a pointer, nil when the call side is zero. Division
// by zero is never raised; nil serializes as JSON null.
func pcr(putOI, callOI int64) *float64 {
	if callOI == 0 {
		return nil
	}
	v := float64(putOI) / float64(callOI)
	return &v
}

// Summarize computes the chain-level headline view: contract counts, per-side
// OI totals, overall PCR, the strikes carrying the most OI on each side, and
// the topN most active strikes by total volume.
func Summarize(rows []models.OptionChainRow, topN int) models.ChainSummary {
	summary := models.ChainSummary{TotalContracts: len(rows)}

	volByStrike := make(map[string]int64)
	strikeByKey := make(map[string]decimal.Decimal)
	oiByStrikeCall := make(map[string]int64)
	oiByStrikePut := make(map[string]int64)

	volumes := make(stats.Float64Data, 0, len(rows))
	for _, row := range rows {
		key := row.Strike.String()
		strikeByKey[key] = row.Strike
		volByStrike[key] += row.Volume
		volumes = append(volumes, float64(row.Volume))

		switch row.OptionType {
		case models.CallOption:
			summary.CallContracts++
			summary.TotalCallOI += row.OpenInterest
			oiByStrikeCall[key] += row.OpenInterest
		case models.PutOption:
			summary.PutContracts++
			summary.TotalPutOI += row.OpenInterest
			oiByStrikePut[key] += row.OpenInterest
		}
	}

	summary.PCROI = pcr(summary.TotalPutOI, summary.TotalCallOI)
	summary.MaxCallOIStrike = maxOIStrike(oiByStrikeCall, strikeByKey)
	summary.MaxPutOIStrike = maxOIStrike(oiByStrikePut, strikeByKey)

	if len(volumes) > 0 {
		if mean, err := stats.Mean(volumes); err == nil {
			summary.MeanVolume = mean
		}
		if max, err := stats.Max(volumes); err == nil {
			summary.MaxVolume = max
		}
	}

	summary.TopStrikes = topStrikesByVolume(volByStrike, strikeByKey, topN)
	return summary
}

// maxOIStrike picks the strike with the largest summed OI, lowest strike on
// ties for determinism. Nil when the side carries no OI at all.
func maxOIStrike(oiByStrike map[string]int64, strikeByKey map[string]decimal.Decimal) *decimal.Decimal {
	var (
		best   decimal.Decimal
		bestOI int64
		found  bool
	)
	for key, oi := range oiByStrike {
		if oi <= 0 {
			continue
		}
		strike := strikeByKey[key]
		if !found || oi > bestOI || (oi == bestOI && strike.Cmp(best) < 0) {
			best, bestOI, found = strike, oi, true
		}
	}
	if !found {
		return nil
	}
	return &best
}

// topStrikesByVolume returns the topN strikes by total volume, descending,
// ascending strike on ties.
func topStrikesByVolume(volByStrike map[string]int64, strikeByKey map[string]decimal.Decimal, topN int) []models.StrikeVolume {
	if topN <= 0 {
		return nil
	}
	list := make([]models.StrikeVolume, 0, len(volByStrike))
	for key, vol := range volByStrike {
		list = append(list, models.StrikeVolume{Strike: strikeByKey[key], Volume: vol})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Volume != list[j].Volume {
			return list[i].Volume > list[j].Volume
		}
		return list[i].Strike.Cmp(list[j].Strike) < 0
	})
	if len(list) > topN {
		list = list[:topN]
	}
	return list
}

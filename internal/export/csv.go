// Package export renders chain data as CSV, mirroring the download the
// dashboard offers. The column layout is part of the downstream contract;
// change it deliberately.
package export

import (
	"time"

	"github.com/gocarina/gocsv"

	"github.com/oipulse/oipulse/internal/domain/models"
)

// contractCSVRow is the CSV projection of one normalized contract row.
type contractCSVRow struct {
	Underlying   string `csv:"underlying"`
	Expiry       string `csv:"expiry"`
	Strike       string `csv:"strike"`
	OptionType   string `csv:"option_type"`
	OpenInterest int64  `csv:"open_interest"`
	Volume       int64  `csv:"volume"`
	Source       string `csv:"source"`
}

// strikeCSVRow is the CSV projection of one aggregated strike row. PCR stays
// a pointer so a null ratio renders as an empty cell, not a fake zero.
type strikeCSVRow struct {
	Strike     string   `csv:"strike"`
	CallOI     int64    `csv:"call_oi"`
	PutOI      int64    `csv:"put_oi"`
	CallVolume int64    `csv:"call_volume"`
	PutVolume  int64    `csv:"put_volume"`
	PCROI      *float64 `csv:"pcr_oi"`
}

// ContractsCSV renders normalized rows as CSV.
func ContractsCSV(rows []models.OptionChainRow) (string, error) {
	out := make([]contractCSVRow, 0, len(rows))
	for _, r := range rows {
		expiry := ""
		if !r.Expiry.IsZero() {
			expiry = r.Expiry.UTC().Format("2006-01-02")
		}
		out = append(out, contractCSVRow{
			Underlying:   r.Underlying,
			Expiry:       expiry,
			Strike:       r.Strike.String(),
			OptionType:   string(r.OptionType),
			OpenInterest: r.OpenInterest,
			Volume:       r.Volume,
			Source:       string(r.Source),
		})
	}
	return gocsv.MarshalString(&out)
}

// StrikesCSV renders aggregated strike rows as CSV.
func StrikesCSV(rows []models.AggregatedStrikeRow) (string, error) {
	out := make([]strikeCSVRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, strikeCSVRow{
			Strike:     r.Strike.String(),
			CallOI:     r.CallOI,
			PutOI:      r.PutOI,
			CallVolume: r.CallVolume,
			PutVolume:  r.PutVolume,
			PCROI:      r.PCROI,
		})
	}
	return gocsv.MarshalString(&out)
}

// Filename builds the attachment name used by the API and the CLI, e.g.
// "NIFTY_options_20260831_153000.csv".
func Filename(symbol string, now time.Time) string {
	return symbol + "_options_" + now.UTC().Format("20060102_150405") + ".csv"
}

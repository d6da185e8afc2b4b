package aggregate

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/oipulse/oipulse/internal/domain/models"
)

func row(strike string, t models.OptionType, oi, vol int64) models.OptionChainRow {
	return models.OptionChainRow{
		Underlying:   "NIFTY",
		Strike:       decimal.RequireFromString(strike),
		OptionType:   t,
		OpenInterest: oi,
		Volume:       vol,
		Source:       models.SourceNSE,
	}
}

// The canonical scenario: (20000, CALL, 500/100) + (20000, PUT, 300/80)
// aggregates to one strike row with pcr_oi = 0.6.
func TestAggregate_SingleStrike(t *testing.T) {
	rows := []models.OptionChainRow{
		row("20000", models.CallOption, 500, 100),
		row("20000", models.PutOption, 300, 80),
	}

	out := Aggregate(rows)
	if len(out) != 1 {
		t.Fatalf("want 1 row, got %d", len(out))
	}
	agg := out[0]
	if agg.CallOI != 500 || agg.PutOI != 300 || agg.CallVolume != 100 || agg.PutVolume != 80 {
		t.Fatalf("unexpected sums: %+v", agg)
	}
	if agg.PCROI == nil || *agg.PCROI != 0.6 {
		t.Fatalf("pcr_oi=%v, want 0.6", agg.PCROI)
	}
}

func TestAggregate_SortedOneRowPerStrike(t *testing.T) {
	rows := []models.OptionChainRow{
		row("20100", models.CallOption, 10, 1),
		row("19900", models.PutOption, 20, 2),
		row("20000", models.CallOption, 30, 3),
		row("20000", models.CallOption, 5, 1), // second contract at same strike sums in
		row("19900", models.CallOption, 7, 1),
	}

	out := Aggregate(rows)
	if len(out) != 3 {
		t.Fatalf("want 3 rows, got %d", len(out))
	}
	wantOrder := []string{"19900", "20000", "20100"}
	for i, w := range wantOrder {
		if out[i].Strike.String() != w {
			t.Fatalf("position %d: strike %s, want %s", i, out[i].Strike.String(), w)
		}
	}
	if out[1].CallOI != 35 {
		t.Fatalf("same-strike sums not combined: %+v", out[1])
	}
}

// pcr_oi must be null when the call side is zero, never a division error.
func TestAggregate_PCRNullOnZeroCallOI(t *testing.T) {
	out := Aggregate([]models.OptionChainRow{
		row("20000", models.PutOption, 300, 80),
	})
	if len(out) != 1 {
		t.Fatalf("want 1 row, got %d", len(out))
	}
	if out[0].PCROI != nil {
		t.Fatalf("pcr_oi=%v, want nil", *out[0].PCROI)
	}
}

// Identical input multiset always yields an identical output sequence.
func TestAggregate_Idempotent(t *testing.T) {
	rows := []models.OptionChainRow{
		row("20100", models.CallOption, 10, 1),
		row("19900", models.PutOption, 20, 2),
		row("20000", models.CallOption, 30, 3),
		row("20000", models.PutOption, 12, 4),
	}
	first := Aggregate(rows)
	second := Aggregate(rows)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregate not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestAggregate_Empty(t *testing.T) {
	if out := Aggregate(nil); len(out) != 0 {
		t.Fatalf("want empty output, got %+v", out)
	}
}

func TestSummarize(t *testing.T) {
	rows := []models.OptionChainRow{
		row("19900", models.CallOption, 100, 10),
		row("19900", models.PutOption, 50, 20),
		row("20000", models.CallOption, 500, 100),
		row("20000", models.PutOption, 300, 80),
		row("20100", models.PutOption, 900, 5),
	}

	s := Summarize(rows, 2)

	if s.TotalContracts != 5 || s.CallContracts != 2 || s.PutContracts != 3 {
		t.Fatalf("counts wrong: %+v", s)
	}
	if s.TotalCallOI != 600 || s.TotalPutOI != 1250 {
		t.Fatalf("OI totals wrong: %+v", s)
	}
	if s.PCROI == nil || *s.PCROI != 1250.0/600.0 {
		t.Fatalf("pcr wrong: %v", s.PCROI)
	}
	if s.MaxCallOIStrike == nil || s.MaxCallOIStrike.String() != "20000" {
		t.Fatalf("max call OI strike: %v", s.MaxCallOIStrike)
	}
	if s.MaxPutOIStrike == nil || s.MaxPutOIStrike.String() != "20100" {
		t.Fatalf("max put OI strike: %v", s.MaxPutOIStrike)
	}
	if s.MaxVolume != 100 {
		t.Fatalf("max volume=%v, want 100", s.MaxVolume)
	}
	if s.MeanVolume != 43 {
		t.Fatalf("mean volume=%v, want 43", s.MeanVolume)
	}

	// top 2 by total volume: 20000 (180), 19900 (30)
	if len(s.TopStrikes) != 2 {
		t.Fatalf("top strikes: %+v", s.TopStrikes)
	}
	if s.TopStrikes[0].Strike.String() != "20000" || s.TopStrikes[0].Volume != 180 {
		t.Fatalf("top[0]: %+v", s.TopStrikes[0])
	}
	if s.TopStrikes[1].Strike.String() != "19900" || s.TopStrikes[1].Volume != 30 {
		t.Fatalf("top[1]: %+v", s.TopStrikes[1])
	}
}

func TestSummarize_EmptyAndNoCalls(t *testing.T) {
	s := Summarize(nil, 5)
	if s.TotalContracts != 0 || s.PCROI != nil || s.MaxCallOIStrike != nil || len(s.TopStrikes) != 0 {
		t.Fatalf("unexpected empty summary: %+v", s)
	}

	s = Summarize([]models.OptionChainRow{row("10", models.PutOption, 5, 1)}, 5)
	if s.PCROI != nil {
		t.Fatalf("pcr should be nil without call OI")
	}
	if s.MaxCallOIStrike != nil || s.MaxPutOIStrike == nil {
		t.Fatalf("max OI strikes wrong: %+v", s)
	}
}

// Equal strike values arriving with different decimal exponents (190 as an
// integer vs 190.0 from a float-formatted payload) must land in the same row.
func TestAggregate_MixedExponentStrikes(t *testing.T) {
	rows := []models.OptionChainRow{
		{Strike: decimal.NewFromInt(190), OptionType: models.CallOption, OpenInterest: 10, Volume: 1, Source: models.SourceUS},
		{Strike: decimal.New(1900, -1), OptionType: models.PutOption, OpenInterest: 5, Volume: 2, Source: models.SourceUS},
		{Strike: decimal.RequireFromString("190.00"), OptionType: models.CallOption, OpenInterest: 3, Volume: 1, Source: models.SourceUS},
	}

	out := Aggregate(rows)
	if len(out) != 1 {
		t.Fatalf("equal-valued strikes must share one row, got %d", len(out))
	}
	agg := out[0]
	if agg.CallOI != 13 || agg.PutOI != 5 || agg.CallVolume != 2 || agg.PutVolume != 2 {
		t.Fatalf("unexpected totals: %+v", agg)
	}
	if !agg.Strike.Equal(decimal.NewFromInt(190)) {
		t.Fatalf("strike: %s", agg.Strike)
	}
}

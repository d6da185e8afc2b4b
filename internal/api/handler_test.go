package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/oipulse/oipulse/internal/domain/dto"
	"github.com/oipulse/oipulse/internal/domain/models"
	"github.com/oipulse/oipulse/internal/normalize"
	"github.com/oipulse/oipulse/internal/service"
	"github.com/oipulse/oipulse/internal/source"
)

type mockChainService struct {
	rows       []models.OptionChainRow
	report     normalize.Report
	chain      *dto.ChainResponse
	comparison *dto.ComparisonResponse
	err        error
}

func (m *mockChainService) FetchRows(context.Context, models.Source, string, time.Time) ([]models.OptionChainRow, normalize.Report, error) {
	return m.rows, m.report, m.err
}

func (m *mockChainService) GetChain(context.Context, models.Source, string, time.Time) (*dto.ChainResponse, error) {
	return m.chain, m.err
}

func (m *mockChainService) GetComparison(context.Context, string, string) (*dto.ComparisonResponse, error) {
	return m.comparison, m.err
}

var _ service.ChainService = (*mockChainService)(nil)

func setupRouterWithMock(s service.ChainService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s)
	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.GET("/chain", h.GetChain)
	v1.GET("/chain/export", h.ExportChain)
	v1.GET("/comparison", h.GetComparison)
	return r
}

func TestGetChain_TableDriven(t *testing.T) {
	pcr := 0.6
	okResp := &dto.ChainResponse{
		Symbol: "NIFTY",
		Market: models.SourceNSE,
		Strikes: []models.AggregatedStrikeRow{
			{Strike: decimal.NewFromInt(20000), CallOI: 500, PutOI: 300, CallVolume: 100, PutVolume: 80, PCROI: &pcr},
		},
	}

	cases := []struct {
		name   string
		svc    *mockChainService
		query  string
		status int
		assert func(t *testing.T, body []byte)
	}{
		{
			name:   "missing market",
			svc:    &mockChainService{},
			query:  "/api/v1/chain?symbol=NIFTY",
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown market",
			svc:    &mockChainService{},
			query:  "/api/v1/chain?market=LSE&symbol=NIFTY",
			status: http.StatusBadRequest,
		},
		{
			name:   "missing symbol",
			svc:    &mockChainService{},
			query:  "/api/v1/chain?market=NSE",
			status: http.StatusBadRequest,
		},
		{
			name:   "invalid expiry format",
			svc:    &mockChainService{},
			query:  "/api/v1/chain?market=NSE&symbol=NIFTY&expiry=26-09-2026",
			status: http.StatusBadRequest,
		},
		{
			name:   "rate limited upstream",
			svc:    &mockChainService{err: &source.FetchError{Source: models.SourceNSE, Status: 429, Err: source.ErrRateLimited}},
			query:  "/api/v1/chain?market=NSE&symbol=NIFTY",
			status: http.StatusTooManyRequests,
		},
		{
			name:   "upstream failure",
			svc:    &mockChainService{err: &source.FetchError{Source: models.SourceUS, Status: 500, Err: errors.New("boom")}},
			query:  "/api/v1/chain?market=US&symbol=SPY",
			status: http.StatusBadGateway,
		},
		{
			name:   "schema mismatch",
			svc:    &mockChainService{err: &source.ParseError{Source: models.SourceUS, Err: errors.New("missing optionChain")}},
			query:  "/api/v1/chain?market=US&symbol=SPY",
			status: http.StatusBadGateway,
		},
		{
			name:   "payload too dirty",
			svc:    &mockChainService{err: &normalize.ThresholdError{Dropped: 9, Total: 10, MaxRatio: 0.5}},
			query:  "/api/v1/chain?market=NSE&symbol=NIFTY",
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "internal error",
			svc:    &mockChainService{err: errors.New("unexpected")},
			query:  "/api/v1/chain?market=NSE&symbol=NIFTY",
			status: http.StatusInternalServerError,
		},
		{
			name:   "success with lowercase market alias",
			svc:    &mockChainService{chain: okResp},
			query:  "/api/v1/chain?market=nse&symbol=nifty&expiry=2026-09-26",
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				var out dto.ChainResponse
				if err := json.Unmarshal(body, &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if out.Symbol != "NIFTY" || out.Market != models.SourceNSE {
					t.Fatalf("unexpected body: %+v", out)
				}
				if len(out.Strikes) != 1 || out.Strikes[0].PCROI == nil || *out.Strikes[0].PCROI != 0.6 {
					t.Fatalf("unexpected strikes: %+v", out.Strikes)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(tc.svc)
			req := httptest.NewRequest(http.MethodGet, tc.query, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (body=%s)", tc.status, w.Code, w.Body.String())
			}
			if tc.assert != nil {
				tc.assert(t, w.Body.Bytes())
			}
		})
	}
}

func TestExportChain_TableDriven(t *testing.T) {
	rows := []models.OptionChainRow{
		{
			Underlying:   "NIFTY",
			Expiry:       time.Date(2026, 9, 26, 0, 0, 0, 0, time.UTC),
			Strike:       decimal.NewFromInt(20000),
			OptionType:   models.CallOption,
			OpenInterest: 500,
			Volume:       100,
			Source:       models.SourceNSE,
		},
	}

	cases := []struct {
		name    string
		svc     *mockChainService
		query   string
		status  int
		header  string
		hasDisp bool
	}{
		{
			name:   "invalid kind",
			svc:    &mockChainService{},
			query:  "/api/v1/chain/export?market=NSE&symbol=NIFTY&kind=legs",
			status: http.StatusBadRequest,
		},
		{
			name:   "upstream failure",
			svc:    &mockChainService{err: &source.FetchError{Source: models.SourceNSE, Status: 503, Err: errors.New("down")}},
			query:  "/api/v1/chain/export?market=NSE&symbol=NIFTY",
			status: http.StatusBadGateway,
		},
		{
			name:    "contracts by default",
			svc:     &mockChainService{rows: rows},
			query:   "/api/v1/chain/export?market=NSE&symbol=NIFTY",
			status:  http.StatusOK,
			header:  "underlying,expiry,strike,option_type,open_interest,volume,source",
			hasDisp: true,
		},
		{
			name:    "aggregated strikes",
			svc:     &mockChainService{rows: rows},
			query:   "/api/v1/chain/export?market=NSE&symbol=NIFTY&kind=strikes",
			status:  http.StatusOK,
			header:  "strike,call_oi,put_oi,call_volume,put_volume,pcr_oi",
			hasDisp: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(tc.svc)
			req := httptest.NewRequest(http.MethodGet, tc.query, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (body=%s)", tc.status, w.Code, w.Body.String())
			}
			if tc.header != "" && !strings.HasPrefix(w.Body.String(), tc.header) {
				t.Fatalf("expected csv header %q, got body %q", tc.header, w.Body.String())
			}
			if tc.hasDisp {
				disp := w.Header().Get("Content-Disposition")
				if !strings.Contains(disp, "NIFTY_options_") || !strings.HasSuffix(disp, `.csv"`) {
					t.Fatalf("unexpected Content-Disposition: %q", disp)
				}
			}
		})
	}
}

func TestGetComparison_TableDriven(t *testing.T) {
	okResp := &dto.ComparisonResponse{
		NSE: &dto.ChainResponse{Symbol: "NIFTY", Market: models.SourceNSE},
		US:  &dto.ChainResponse{Symbol: "SPY", Market: models.SourceUS},
	}

	cases := []struct {
		name   string
		svc    *mockChainService
		query  string
		status int
		assert func(t *testing.T, body []byte)
	}{
		{
			name:   "missing nse_symbol",
			svc:    &mockChainService{},
			query:  "/api/v1/comparison?us_symbol=SPY",
			status: http.StatusBadRequest,
		},
		{
			name:   "missing us_symbol",
			svc:    &mockChainService{},
			query:  "/api/v1/comparison?nse_symbol=NIFTY",
			status: http.StatusBadRequest,
		},
		{
			name:   "one leg rate limited",
			svc:    &mockChainService{err: &source.FetchError{Source: models.SourceNSE, Status: 429, Err: source.ErrRateLimited}},
			query:  "/api/v1/comparison?nse_symbol=NIFTY&us_symbol=SPY",
			status: http.StatusTooManyRequests,
		},
		{
			name:   "success",
			svc:    &mockChainService{comparison: okResp},
			query:  "/api/v1/comparison?nse_symbol=nifty&us_symbol=spy",
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				var out dto.ComparisonResponse
				if err := json.Unmarshal(body, &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if out.NSE == nil || out.NSE.Symbol != "NIFTY" || out.US == nil || out.US.Symbol != "SPY" {
					t.Fatalf("unexpected body: %+v", out)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(tc.svc)
			req := httptest.NewRequest(http.MethodGet, tc.query, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (body=%s)", tc.status, w.Code, w.Body.String())
			}
			if tc.assert != nil {
				tc.assert(t, w.Body.Bytes())
			}
		})
	}
}

func TestParseMarket(t *testing.T) {
	cases := []struct {
		in   string
		want models.Source
		ok   bool
	}{
		{"NSE", models.SourceNSE, true},
		{" nse ", models.SourceNSE, true},
		{"US", models.SourceUS, true},
		{"yahoo", models.SourceUS, true},
		{"", "", false},
		{"LSE", "", false},
	}
	for _, tc := range cases {
		got, ok := parseMarket(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("parseMarket(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

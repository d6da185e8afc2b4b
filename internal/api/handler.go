package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oipulse/oipulse/internal/aggregate"
	"github.com/oipulse/oipulse/internal/domain/dto"
	"github.com/oipulse/oipulse/internal/domain/models"
	"github.com/oipulse/oipulse/internal/export"
	"github.com/oipulse/oipulse/internal/normalize"
	"github.com/oipulse/oipulse/internal/service"
	"github.com/oipulse/oipulse/internal/source"
)

// Handler provides HTTP handlers for the option-chain endpoints.
//
// Responsibilities:
//   - Validate incoming HTTP query parameters
//   - Invoke the chain service
//   - Translate pipeline errors into status codes the driver can act on
//   - Return structured JSON (or CSV) responses
type Handler struct {
	svc service.ChainService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.ChainService) *Handler {
	return &Handler{svc: svc}
}

// parseMarket maps the market query parameter onto a source tag.
func parseMarket(raw string) (models.Source, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "NSE":
		return models.SourceNSE, true
	case "US", "YAHOO":
		return models.SourceUS, true
	}
	return "", false
}

// statusForError maps pipeline errors onto HTTP statuses:
//   - 429 when the upstream throttled us
//   - 502 for other fetch failures and schema mismatches (the upstream broke,
//     not this service)
//   - 422 when the payload was too dirty to normalize
func statusForError(err error) int {
	var fe *source.FetchError
	var pe *source.ParseError
	var te *normalize.ThresholdError
	switch {
	case errors.Is(err, source.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.As(err, &fe), errors.As(err, &pe):
		return http.StatusBadGateway
	case errors.As(err, &te):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// GetChain handles GET /api/v1/chain requests.
//
// GetChain godoc
// @Summary      Fetch and aggregate an option chain
// @Description  Fetches the option chain for a symbol from the selected market, normalizes it, and returns per-strike OI/volume totals with a chain summary
// @Tags         chain
// @Produce      json
// @Param        market  query     string  true   "Market (NSE or US)" example(NSE)
// @Param        symbol  query     string  true   "Underlying symbol" example(NIFTY)
// @Param        expiry  query     string  false  "Expiry in YYYY-MM-DD (defaults to nearest listed)" example(2026-09-26)
// @Success      200     {object}  dto.ChainResponse      "Success"
// @Failure      400     {object}  dto.ErrorResponse      "Bad Request"
// @Failure      422     {object}  dto.ErrorResponse      "Payload too dirty to normalize"
// @Failure      429     {object}  dto.ErrorResponse      "Upstream rate limited"
// @Failure      502     {object}  dto.ErrorResponse      "Upstream failure"
// @Router       /api/v1/chain [get]
func (h *Handler) GetChain(c *gin.Context) {
	market, symbol, expiry, ok := h.chainParams(c)
	if !ok {
		return
	}

	resp, err := h.svc.GetChain(c.Request.Context(), market, symbol, expiry)
	if err != nil {
		c.JSON(statusForError(err), dto.NewErrorResponse("failed to fetch option chain", err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportChain handles GET /api/v1/chain/export requests, returning the chain
// as a CSV attachment.
//
// ExportChain godoc
// @Summary      Export an option chain as CSV
// @Description  Same pipeline as /chain, rendered as CSV. kind=contracts exports contract-level rows, kind=strikes the aggregated table
// @Tags         chain
// @Produce      text/csv
// @Param        market  query     string  true   "Market (NSE or US)" example(NSE)
// @Param        symbol  query     string  true   "Underlying symbol" example(NIFTY)
// @Param        expiry  query     string  false  "Expiry in YYYY-MM-DD" example(2026-09-26)
// @Param        kind    query     string  false  "contracts (default) or strikes" example(strikes)
// @Success      200     {string}  string  "CSV body"
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Router       /api/v1/chain/export [get]
func (h *Handler) ExportChain(c *gin.Context) {
	market, symbol, expiry, ok := h.chainParams(c)
	if !ok {
		return
	}

	kind := strings.ToLower(c.DefaultQuery("kind", "contracts"))
	if kind != "contracts" && kind != "strikes" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("kind must be 'contracts' or 'strikes'", nil))
		return
	}

	rows, _, err := h.svc.FetchRows(c.Request.Context(), market, symbol, expiry)
	if err != nil {
		c.JSON(statusForError(err), dto.NewErrorResponse("failed to fetch option chain", err))
		return
	}

	var body string
	if kind == "strikes" {
		body, err = export.StrikesCSV(aggregate.Aggregate(rows))
	} else {
		body, err = export.ContractsCSV(rows)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to render csv", err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(symbol, time.Now())+`"`)
	c.Data(http.StatusOK, "text/csv", []byte(body))
}

// GetComparison handles GET /api/v1/comparison requests.
//
// GetComparison godoc
// @Summary      Compare NSE and US chains
// @Description  Fetches both chains in parallel and returns them side by side
// @Tags         chain
// @Produce      json
// @Param        nse_symbol  query     string  true  "NSE underlying" example(NIFTY)
// @Param        us_symbol   query     string  true  "US underlying" example(SPY)
// @Success      200         {object}  dto.ComparisonResponse  "Success"
// @Failure      400         {object}  dto.ErrorResponse       "Bad Request"
// @Router       /api/v1/comparison [get]
func (h *Handler) GetComparison(c *gin.Context) {
	nseSymbol := strings.ToUpper(strings.TrimSpace(c.Query("nse_symbol")))
	usSymbol := strings.ToUpper(strings.TrimSpace(c.Query("us_symbol")))
	if nseSymbol == "" || usSymbol == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("nse_symbol and us_symbol are required", nil))
		return
	}

	resp, err := h.svc.GetComparison(c.Request.Context(), nseSymbol, usSymbol)
	if err != nil {
		c.JSON(statusForError(err), dto.NewErrorResponse("failed to fetch comparison", err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// chainParams validates the query parameters shared by chain endpoints. On
// failure it writes the 400 response itself and returns ok=false.
func (h *Handler) chainParams(c *gin.Context) (models.Source, string, time.Time, bool) {
	market, ok := parseMarket(c.Query("market"))
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("market must be NSE or US", nil))
		return "", "", time.Time{}, false
	}

	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("symbol is required", nil))
		return "", "", time.Time{}, false
	}

	var expiry time.Time
	if s := c.Query("expiry"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid expiry format, expected YYYY-MM-DD", err))
			return "", "", time.Time{}, false
		}
		expiry = parsed
	}
	return market, symbol, expiry, true
}

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oipulse/oipulse/config"
	"github.com/oipulse/oipulse/internal/domain/models"
	"github.com/oipulse/oipulse/internal/logger"
)

const yahooOptionsPath = "/v7/finance/options/"

// YahooAdapter fetches US option chains from the Yahoo Finance query API.
type YahooAdapter struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewYahooAdapter builds an adapter from the upstream configuration.
func NewYahooAdapter(cfg config.UpstreamConfig) *YahooAdapter {
	return &YahooAdapter{
		baseURL:   strings.TrimRight(cfg.YahooBaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Market implements Adapter.
func (a *YahooAdapter) Market() models.Source { return models.SourceUS }

// Close releases idle upstream connections.
func (a *YahooAdapter) Close() { a.client.CloseIdleConnections() }

// yahooEnvelope mirrors the relevant slice of the response:
//
//	{"optionChain": {"result": [{"options": [{"calls": [...], "puts": [...]}]}], "error": null}}
type yahooEnvelope struct {
	OptionChain struct {
		Result []yahooResult  `json:"result"`
		Error  *yahooAPIError `json:"error"`
	} `json:"optionChain"`
}

type yahooResult struct {
	UnderlyingSymbol string  `json:"underlyingSymbol"`
	ExpirationDates  []int64 `json:"expirationDates"`
	Options          []struct {
		ExpirationDate int64      `json:"expirationDate"`
		Calls          []USRecord `json:"calls"`
		Puts           []USRecord `json:"puts"`
	} `json:"options"`
}

// yahooAPIError is Yahoo's in-band error object, reported with HTTP 200 for
// things like unknown symbols.
type yahooAPIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// FetchChain implements Adapter for the US market.
//
// Without a date parameter Yahoo returns the nearest expiry, which matches
// the zero-expiry contract; a non-zero expiry is passed as a unix timestamp.
func (a *YahooAdapter) FetchChain(ctx context.Context, symbol string, expiry time.Time) ([]RawRecord, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	reqURL := a.baseURL + yahooOptionsPath + url.PathEscape(symbol)
	if !expiry.IsZero() {
		reqURL += "?date=" + strconv.FormatInt(expiry.UTC().Unix(), 10)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Source: models.SourceUS, URL: reqURL, Err: err}
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := a.client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: models.SourceUS, URL: reqURL, Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == http.StatusTooManyRequests {
		return nil, &FetchError{Source: models.SourceUS, URL: reqURL, Status: res.StatusCode, Err: ErrRateLimited}
	}
	if res.StatusCode != http.StatusOK {
		return nil, &FetchError{Source: models.SourceUS, URL: reqURL, Status: res.StatusCode, Err: fmt.Errorf("unexpected status %s", res.Status)}
	}

	var payload yahooEnvelope
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, &ParseError{Source: models.SourceUS, Err: fmt.Errorf("decode: %w", err)}
	}
	if apiErr := payload.OptionChain.Error; apiErr != nil {
		return nil, &ParseError{Source: models.SourceUS, Err: fmt.Errorf("upstream error %s: %s", apiErr.Code, apiErr.Description)}
	}
	if len(payload.OptionChain.Result) == 0 {
		return nil, &ParseError{Source: models.SourceUS, Err: fmt.Errorf("empty result for %s", symbol)}
	}

	result := payload.OptionChain.Result[0]
	underlying := result.UnderlyingSymbol
	if underlying == "" {
		underlying = symbol
	}

	var out []RawRecord
	for _, block := range result.Options {
		for i := range block.Calls {
			rec := block.Calls[i]
			rec.Side = "calls"
			if rec.Expiration == 0 {
				rec.Expiration = block.ExpirationDate
			}
			out = append(out, RawRecord{Source: models.SourceUS, Underlying: underlying, US: &rec})
		}
		for i := range block.Puts {
			rec := block.Puts[i]
			rec.Side = "puts"
			if rec.Expiration == 0 {
				rec.Expiration = block.ExpirationDate
			}
			out = append(out, RawRecord{Source: models.SourceUS, Underlying: underlying, US: &rec})
		}
	}
	if len(out) == 0 {
		return nil, &ParseError{Source: models.SourceUS, Err: fmt.Errorf("no contracts for %s", symbol)}
	}

	logger.With("source.yahoo").Debug().
		Str("symbol", symbol).
		Int("records", len(out)).
		Msg("chain fetched")

	return out, nil
}

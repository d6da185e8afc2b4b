package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/oipulse/oipulse/config"
	"github.com/oipulse/oipulse/internal/domain/models"
	"github.com/oipulse/oipulse/internal/logger"
)

const (
	nseIndexChainPath  = "/api/option-chain-indices"
	nseEquityChainPath = "/api/option-chain-equities"

	// nseExpiryLayout matches labels like "26-Sep-2026".
	nseExpiryLayout = "02-Jan-2006"
)

// nseIndexSymbols are the underlyings served by the indices endpoint; every
// other symbol goes through the equities endpoint.
var nseIndexSymbols = map[string]struct{}{
	"NIFTY":      {},
	"BANKNIFTY":  {},
	"FINNIFTY":   {},
	"MIDCPNIFTY": {},
	"NIFTYNXT50": {},
}

// NSEAdapter fetches option chains from the NSE India JSON API.
//
// NSE refuses API calls from sessions that have not visited the site first,
// so every fetch warms up a cookie with a request against the site root. The
// cookie jar is shared across calls; the warm-up is cheap once the session
// exists.
type NSEAdapter struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNSEAdapter builds an adapter from the upstream configuration.
func NewNSEAdapter(cfg config.UpstreamConfig) *NSEAdapter {
	jar, _ := cookiejar.New(nil)
	return &NSEAdapter{
		baseURL:   strings.TrimRight(cfg.NSEBaseURL, "/"),
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
	}
}

// Market implements Adapter.
func (a *NSEAdapter) Market() models.Source { return models.SourceNSE }

// Close releases idle upstream connections.
func (a *NSEAdapter) Close() { a.client.CloseIdleConnections() }

// nseChainPayload mirrors the relevant slice of the NSE response:
//
//	{"records": {"expiryDates": [...], "data": [{...}, ...]}}
type nseChainPayload struct {
	Records *struct {
		ExpiryDates []string    `json:"expiryDates"`
		Data        []NSERecord `json:"data"`
	} `json:"records"`
}

// FetchChain implements Adapter for the NSE market.
//
// The endpoint returns the full chain across all listed expiries; expiry
// selection happens client-side. A zero expiry picks the nearest listed one.
func (a *NSEAdapter) FetchChain(ctx context.Context, symbol string, expiry time.Time) ([]RawRecord, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if err := a.warmup(ctx); err != nil {
		return nil, err
	}

	path := nseEquityChainPath
	if _, ok := nseIndexSymbols[symbol]; ok {
		path = nseIndexChainPath
	}
	reqURL := a.baseURL + path + "?symbol=" + url.QueryEscape(symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Source: models.SourceNSE, URL: reqURL, Err: err}
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", a.baseURL+"/option-chain")

	res, err := a.client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: models.SourceNSE, URL: reqURL, Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == http.StatusTooManyRequests {
		return nil, &FetchError{Source: models.SourceNSE, URL: reqURL, Status: res.StatusCode, Err: ErrRateLimited}
	}
	if res.StatusCode != http.StatusOK {
		return nil, &FetchError{Source: models.SourceNSE, URL: reqURL, Status: res.StatusCode, Err: fmt.Errorf("unexpected status %s", res.Status)}
	}

	var payload nseChainPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, &ParseError{Source: models.SourceNSE, Err: fmt.Errorf("decode: %w", err)}
	}
	if payload.Records == nil || len(payload.Records.Data) == 0 {
		return nil, &ParseError{Source: models.SourceNSE, Err: fmt.Errorf("missing records.data for %s", symbol)}
	}

	label, err := resolveNSEExpiry(expiry, payload.Records.ExpiryDates)
	if err != nil {
		return nil, &ParseError{Source: models.SourceNSE, Err: err}
	}

	var out []RawRecord
	for i := range payload.Records.Data {
		rec := payload.Records.Data[i]
		if label != "" && rec.ExpiryDate != label {
			continue
		}
		out = append(out, RawRecord{Source: models.SourceNSE, Underlying: symbol, NSE: &rec})
	}
	if len(out) == 0 {
		return nil, &ParseError{Source: models.SourceNSE, Err: fmt.Errorf("no records for %s expiry %s", symbol, label)}
	}

	logger.With("source.nse").Debug().
		Str("symbol", symbol).
		Str("expiry", label).
		Int("records", len(out)).
		Msg("chain fetched")

	return out, nil
}

// warmup visits the site root so the session cookie needed by the API exists.
func (a *NSEAdapter) warmup(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/", nil)
	if err != nil {
		return &FetchError{Source: models.SourceNSE, URL: a.baseURL, Err: err}
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "text/html")

	res, err := a.client.Do(req)
	if err != nil {
		return &FetchError{Source: models.SourceNSE, URL: a.baseURL, Err: fmt.Errorf("cookie warmup: %w", err)}
	}
	defer func() { _ = res.Body.Close() }()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode == http.StatusTooManyRequests {
		return &FetchError{Source: models.SourceNSE, URL: a.baseURL, Status: res.StatusCode, Err: ErrRateLimited}
	}
	if res.StatusCode >= 400 {
		return &FetchError{Source: models.SourceNSE, URL: a.baseURL, Status: res.StatusCode, Err: fmt.Errorf("cookie warmup: status %s", res.Status)}
	}
	return nil
}

// resolveNSEExpiry turns the requested expiry into NSE's label format.
// A zero expiry selects the nearest listed one (NSE lists them in ascending
// order). When the payload carries no expiry list and none was requested,
// the empty label means "keep every record".
func resolveNSEExpiry(expiry time.Time, listed []string) (string, error) {
	if !expiry.IsZero() {
		return expiry.Format(nseExpiryLayout), nil
	}
	for _, label := range listed {
		if _, err := time.Parse(nseExpiryLayout, label); err == nil {
			return label, nil
		}
	}
	if len(listed) > 0 {
		return "", fmt.Errorf("no parseable expiry label in %v", listed)
	}
	return "", nil
}

package source

import (
	"errors"
	"fmt"

	"github.com/oipulse/oipulse/internal/domain/models"
)

// ErrRateLimited marks an upstream HTTP 429. It is always wrapped inside a
// *FetchError, so callers can distinguish throttling from other fetch
// failures with errors.Is(err, ErrRateLimited) and decide whether to retry.
// Retry/backoff policy itself lives in the driver, not in the adapters.
var ErrRateLimited = errors.New("upstream rate limited")

// FetchError reports a failed upstream call: transport errors, timeouts, and
// non-success HTTP statuses.
type FetchError struct {
	Source models.Source
	URL    string
	Status int // HTTP status, 0 when the request never got a response
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s fetch %s: status %d: %v", e.Source, e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("%s fetch %s: %v", e.Source, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a payload whose shape does not match the expected schema
// for its source: undecodable JSON, missing envelopes, in-band upstream error
// objects, or an empty result where a chain was expected.
type ParseError struct {
	Source models.Source
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s payload: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

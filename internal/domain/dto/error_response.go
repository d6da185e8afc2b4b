package dto

import "time"

// ErrorResponse is the standardized JSON error body returned by every API
// endpoint and by the recovery middleware.
//
// Fields:
//   - Message: short human-readable description of what failed.
//   - ErrorDetails: underlying error text, when one is available.
//   - Timestamp: server time the error was produced.
type ErrorResponse struct {
	Message      string    `json:"message" example:"failed to fetch option chain"`
	ErrorDetails string    `json:"error,omitempty" example:"context deadline exceeded"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so an ErrorResponse can travel through
// gin's error list.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails != "" {
		return e.Message + ": " + e.ErrorDetails
	}
	return e.Message
}

// NewErrorResponse builds an ErrorResponse from a message and an optional
// inner error.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

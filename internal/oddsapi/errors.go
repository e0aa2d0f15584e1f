package oddsapi

import "errors"

// APIError represents a failed odds provider call
type APIError struct {
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Status  int    // HTTP status, zero when no response was received
	Err     error  // Underlying error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return "the odds api: " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return "the odds api: " + e.Code + ": " + e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// ErrMissingSport is returned when a fetch is attempted without a sport key.
var ErrMissingSport = errors.New("sport is required")

func newAPIError(code, message string, status int, err error) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

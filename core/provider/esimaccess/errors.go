package esimaccess

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies catalog fetch failures.
type ErrorCategory string

const (
	// ErrorTransport indicates the request never produced a response (network, timeout).
	ErrorTransport ErrorCategory = "transport"
	// ErrorStatus indicates a non-2xx HTTP status.
	ErrorStatus ErrorCategory = "status"
	// ErrorProvider indicates the provider answered success=false.
	ErrorProvider ErrorCategory = "provider"
	// ErrorDecode indicates the body could not be decoded.
	ErrorDecode ErrorCategory = "decode"
)

// FetchError is returned for every failed catalog fetch.
type FetchError struct {
	Category   ErrorCategory
	StatusCode int
	Code       string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("esimaccess fetch [%s]", e.Category)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" status=%d", e.StatusCode)
	}
	if e.Code != "" {
		msg += fmt.Sprintf(" code=%s", e.Code)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Underlying
}

func newFetchError(category ErrorCategory, status int, code, message string, underlying error) *FetchError {
	retryable := category == ErrorTransport || (category == ErrorStatus && (status == 429 || status >= 500))
	return &FetchError{
		Category:   category,
		StatusCode: status,
		Code:       code,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable checks if a fetch error is worth retrying.
func IsRetryable(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Retryable
	}
	return false
}

// Package models defines the provider-neutral request and response model and
// the errors every dialect reports.
package models

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by TransportError.
var (
	ErrEmptyResponse     = errors.New("empty response")
	ErrMalformedResponse = errors.New("malformed response")
	ErrHTTPStatus        = errors.New("unexpected HTTP status")
	ErrNetwork           = errors.New("network error")
)

// maxBodyInError bounds how much of a response body is quoted in an error.
const maxBodyInError = 500

// TransportError is any failure of a provider round trip.
type TransportError struct {
	Dialect    Dialect
	StatusCode int
	Message    string
	Retryable  bool
	Err        error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Dialect, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", e.Dialect, msg)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if err is a retryable TransportError.
func IsRetryable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}
	return false
}

// RetryableStatus reports whether an HTTP status is worth retrying.
func RetryableStatus(code int) bool {
	return code == 429 || code >= 500
}

// Snippet trims a response body for inclusion in an error message.
func Snippet(body []byte) string {
	if len(body) <= maxBodyInError {
		return string(body)
	}
	return string(body[:maxBodyInError]) + "..."
}

// Malformed builds the error for an unparseable response.
func Malformed(d Dialect, cause error, body []byte) *TransportError {
	msg := fmt.Sprintf("malformed response: %v", cause)
	if len(body) > 0 {
		msg += ": " + Snippet(body)
	}
	return &TransportError{
		Dialect: d,
		Message: msg,
		Err:     fmt.Errorf("%w: %w", ErrMalformedResponse, cause),
	}
}

// Empty builds the error for a reply with neither text nor tool calls.
func Empty(d Dialect) *TransportError {
	return &TransportError{Dialect: d, Message: "model returned empty response", Err: ErrEmptyResponse}
}

package llmclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Common error variables
var (
	// ErrNoAPIKey indicates the API key is missing
	ErrNoAPIKey = errors.New("API key is required")

	// ErrEmptyResponse indicates the API returned no choices
	ErrEmptyResponse = errors.New("empty response from API")

	// ErrTimeout indicates the reasoning engine did not answer in time
	ErrTimeout = errors.New("reasoning engine timed out")

	// ErrUnavailable indicates the reasoning engine could not be reached
	// or kept failing after retries
	ErrUnavailable = errors.New("reasoning engine unavailable")
)

// APIError represents an error response from the chat completions API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
	Code       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error is retryable.
func (e *APIError) IsRetryable() bool {
	if e.StatusCode >= 500 && e.StatusCode < 600 {
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests
}

// Is lets errors.Is match retryable API errors against ErrUnavailable.
func (e *APIError) Is(target error) bool {
	return target == ErrUnavailable && e.IsRetryable()
}

// classify maps transport-level failures onto the ErrTimeout /
// ErrUnavailable sentinels so callers can branch without inspecting
// net internals.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsRetryable() {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return err
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

package parser

import (
	"fmt"
	"strconv"
	"time"

	"mediabrief/internal/domain"
)

// ProviderError is a non-success HTTP status from a model provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, truncate(e.Body, 500))
}

// Unwrap classifies every provider failure as model unavailability.
func (e *ProviderError) Unwrap() error {
	return domain.ErrModelUnavailable
}

// RateLimitError indicates a provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() []error {
	return []error{e.Err, domain.ErrModelUnavailable}
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// StatusError builds the error for a non-200 provider response, promoting 429 to RateLimitError.
func StatusError(provider string, status int, body []byte, retryAfterHeader string) error {
	base := &ProviderError{Provider: provider, StatusCode: status, Body: string(body)}
	if status == 429 {
		return NewRateLimitError(provider, base, ParseRetryAfterHeader(retryAfterHeader))
	}
	return base
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

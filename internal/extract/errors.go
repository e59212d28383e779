package extract

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse tags model output that is not parseable JSON or does
// not match the expected shape. MalformedResponseError wraps it so callers
// can match with errors.Is.
var ErrMalformedResponse = errors.New("malformed model response")

// MalformedResponseError carries the reason a model response was rejected.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed model response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed model response: %s", e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformedResponse
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// RetryableError indicates a transient API failure (rate limit or upstream
// outage) that a caller may retry.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable model call failure (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

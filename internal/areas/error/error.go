package error

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEnvelope is returned when a successful response body lacks the
// fields the caller needs.
var ErrUnexpectedEnvelope = errors.New("unexpected response envelope")

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

// APIError reports a non-2xx answer from the admin API. Payload holds the raw
// response body.
type APIError struct {
	StatusCode int
	Message    string
	Payload    []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("admin api: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("admin api: status %d: %s", e.StatusCode, e.Payload)
}

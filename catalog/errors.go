package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Detail when the catalog has no content for the id.
var ErrNotFound = errors.New("content not found")

// APIError is an application-level failure reported inside a 2xx response body.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unknown error"
	}
	return fmt.Sprintf("catalog api error: %s (code %d)", msg, e.Code)
}

// ErrorCode implements network.Coded.
func (e *APIError) ErrorCode() int {
	return e.Code
}

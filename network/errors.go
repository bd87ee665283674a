package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrOffline reports that the remote API could not be reached at all.
	ErrOffline = errors.New("network unavailable")

	// ErrTimeout reports that the request deadline elapsed before a response arrived.
	ErrTimeout = errors.New("request timed out")
)

// Display codes for failures that carry no HTTP or application code of their own.
const (
	CodeOffline = 0
	CodeTimeout = http.StatusRequestTimeout
	CodeUnknown = http.StatusInternalServerError
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d (%s)", e.Code, http.StatusText(e.Code))
}

// ErrorCode implements Coded.
func (e *StatusError) ErrorCode() int {
	return e.Code
}

// Coded is implemented by errors that carry a numeric code suitable for display.
type Coded interface {
	ErrorCode() int
}

// Classify converts a transport failure returned by http.Client.Do into the
// offline or timeout class. Caller cancellation is passed through untouched.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	return fmt.Errorf("%w: %w", ErrOffline, err)
}

// Code returns a display code for any error produced by the API clients.
func Code(err error) int {
	var coded Coded
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &coded):
		return coded.ErrorCode()
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	case errors.Is(err, ErrOffline):
		return CodeOffline
	default:
		return CodeUnknown
	}
}

// CheckStatus returns a *StatusError for any non-2xx response.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, URL: resp.Request.URL.Redacted()}
	}
	return nil
}

// Online reports whether the host is reachable within the context deadline.
// It stands in for a browser's connectivity flag when deciding whether a retry is worthwhile.
func Online(ctx context.Context, host string) bool {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", host)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

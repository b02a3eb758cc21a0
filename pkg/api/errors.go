package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrCannotConnect matches every connectivity failure (timeout, DNS, socket, transport).
	ErrCannotConnect = errors.New("cannot connect to the fuel price API")
	// ErrRequest matches every rejected request (bad status, malformed payload).
	ErrRequest = errors.New("fuel price API request error")
)

// CannotConnectError is returned when the API could not be reached.
type CannotConnectError struct {
	Timeout bool
	Err     error
}

func newCannotConnectError(err error) *CannotConnectError {
	var netErr net.Error
	timeout := errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
	return &CannotConnectError{Timeout: timeout, Err: err}
}

func (e *CannotConnectError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("timeout occurred while connecting to the fuel price API: %v", e.Err)
	}
	return fmt.Sprintf("error occurred while communicating with the fuel price API: %v", e.Err)
}

func (e *CannotConnectError) Unwrap() []error {
	return []error{ErrCannotConnect, e.Err}
}

// RequestError is returned when the API answered with a non-200 status or a
// payload without results.
type RequestError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("API request error %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("API request error %d: %s", e.StatusCode, e.Body)
}

func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRequest}
	}
	return []error{ErrRequest, e.Err}
}

package search

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned, without any request being made, for an empty or
// whitespace-only query.
var ErrEmptyQuery = errors.New("search: query is empty")

// NetworkError means the request could not complete: connection failure,
// timeout or cancellation.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("search: %s: network error: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServiceError means the service answered, but not with a usable result:
// a non-200 status or a malformed body.
type ServiceError struct {
	Op         string
	StatusCode int // 0 when the status was fine and the body was malformed
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("search: %s: service error: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("search: %s: service error: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsNetwork reports whether err is (or wraps) a *NetworkError
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsService reports whether err is (or wraps) a *ServiceError
func IsService(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}

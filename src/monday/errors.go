package monday

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds for Monday API calls. Callers that add retry later can use
// these to tell retryable transport faults from hard application errors.
var (
	// ErrTransport is returned when the HTTP request itself fails (DNS,
	// connection refused, timeout).
	ErrTransport = errors.New("monday: transport failure")

	// ErrHTTPStatus is returned when the API answers with a non-2xx status.
	ErrHTTPStatus = errors.New("monday: unexpected HTTP status")

	// ErrApplication is returned when the response carries a top-level
	// GraphQL errors array, even with HTTP 200.
	ErrApplication = errors.New("monday: GraphQL error")

	// ErrBoardNotFound is returned when a query for a board comes back empty.
	ErrBoardNotFound = errors.New("monday: board not found")
)

// RequestError wraps a failed API call with the operation that issued it.
type RequestError struct {
	// Op is the client operation that failed, e.g. "CreateItem".
	Op string

	// Err is one of the sentinel errors above, or the underlying cause.
	Err error

	// StatusCode is set for ErrHTTPStatus failures.
	StatusCode int

	// Messages holds GraphQL error messages for ErrApplication failures.
	Messages []string

	// Detail is extra context, e.g. a response body excerpt.
	Detail string
}

func (e *RequestError) Error() string {
	switch {
	case len(e.Messages) > 0:
		return fmt.Sprintf("monday: %s failed: %v: %s", e.Op, e.Err, strings.Join(e.Messages, "; "))
	case e.StatusCode != 0:
		return fmt.Sprintf("monday: %s failed: %v: status %d: %s", e.Op, e.Err, e.StatusCode, e.Detail)
	case e.Detail != "":
		return fmt.Sprintf("monday: %s failed: %s: %v", e.Op, e.Detail, e.Err)
	default:
		return fmt.Sprintf("monday: %s failed: %v", e.Op, e.Err)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func newTransportError(op string, err error) error {
	return &RequestError{Op: op, Err: fmt.Errorf("%w: %v", ErrTransport, err)}
}

func newHTTPStatusError(op string, status int, body string) error {
	return &RequestError{Op: op, Err: ErrHTTPStatus, StatusCode: status, Detail: body}
}

func newApplicationError(op string, messages []string) error {
	return &RequestError{Op: op, Err: ErrApplication, Messages: messages}
}

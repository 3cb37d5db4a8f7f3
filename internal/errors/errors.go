package errors

import (
	"errors"
	"fmt"
)

// ErrCode represents an error code
type ErrCode string

const (
	ErrCodeTransport  ErrCode = "TRANSPORT_ERROR"
	ErrCodeHTTPStatus ErrCode = "HTTP_STATUS"
	ErrCodeDecode     ErrCode = "DECODE_ERROR"
)

// TransportError represents a failure to obtain a usable response from the
// DataSight API: a network-level failure, a non-2xx status, or a response
// body that is not valid JSON. Fetch operations never let one of these
// escape as a panic; they fold it into a tagged metric result.
type TransportError struct {
	Code       ErrCode
	Op         string // e.g. "GET /releases/metric/lttd/teambook/metric"
	StatusCode int    // 0 when the request never got a response
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s: status %d: %s", e.Code, e.Op, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (%v)", e.Code, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates an error for a request that failed before any
// response was received.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{
		Code:    ErrCodeTransport,
		Op:      op,
		Message: "request failed",
		Err:     err,
	}
}

// NewHTTPStatusError creates an error for a non-2xx response.
func NewHTTPStatusError(op string, status int, body string) *TransportError {
	return &TransportError{
		Code:       ErrCodeHTTPStatus,
		Op:         op,
		StatusCode: status,
		Message:    body,
	}
}

// NewDecodeError creates an error for a response body that could not be
// parsed as JSON.
func NewDecodeError(op string, err error) *TransportError {
	return &TransportError{
		Code:    ErrCodeDecode,
		Op:      op,
		Message: "invalid JSON response",
		Err:     err,
	}
}

// IsTransport checks if the error is a TransportError of any code.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

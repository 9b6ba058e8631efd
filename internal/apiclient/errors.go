package apiclient

import (
	"errors"
	"fmt"
)

// Kind classifies a request failure.
type Kind int

const (
	// KindTransport covers network, DNS, timeout and cancellation failures.
	KindTransport Kind = iota + 1
	// KindStatus is a non-2xx HTTP response.
	KindStatus
	// KindDecode is a 2xx response whose body is not the expected schema.
	KindDecode
	// KindValidation is a client-side precondition failure; no request was sent.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is returned by every Client operation.
type Error struct {
	Kind   Kind
	Op     string // fixed, human-readable description of the failed operation
	Status int    // HTTP status code, 0 unless Kind is KindStatus
	Cause  error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindStatus:
		return fmt.Sprintf("%s (HTTP %d)", e.Op, e.Status)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	default:
		return e.Op
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func statusError(op string, status int) *Error {
	return &Error{Kind: KindStatus, Op: op, Status: status}
}

func transportError(op string, cause error) *Error {
	return &Error{Kind: KindTransport, Op: op, Cause: cause}
}

func decodeError(op string, cause error) *Error {
	return &Error{Kind: KindDecode, Op: op, Cause: cause}
}

func validationError(op string, cause error) *Error {
	return &Error{Kind: KindValidation, Op: op, Cause: cause}
}

package todo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeTransport indicates the request never produced a usable answer
	// (connection refused, timeout, DNS, unexpected HTTP status)
	ErrTypeTransport ErrorType = iota
	// ErrTypeNotFound indicates the backend has no todo with the given id
	ErrTypeNotFound
	// ErrTypeValidation indicates a rejected payload
	ErrTypeValidation
	// ErrTypeParse indicates the response body could not be decoded
	ErrTypeParse
)

// TransportSubtype gives a finer classification of transport failures
type TransportSubtype int

const (
	TransportGeneral TransportSubtype = iota
	TransportTimeout
	TransportConnectionRefused
	TransportDNS
	TransportHostUnreachable
	TransportNetworkUnreachable
	TransportStatus
	TransportCanceled
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned by every Client method
type Error struct {
	Type       ErrorType        // Category of error
	Message    string           // Human-readable error message
	StatusCode int              // HTTP status code (if applicable)
	Err        error            // Underlying error (if any)
	Subtype    TransportSubtype // Finer transport classification
	Op         string           // Client operation, e.g. "list" or "toggle-status"
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyTransportError inspects a failed round trip and returns a transport error
// with the most specific subtype it can find.
func ClassifyTransportError(err error) *Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return &Error{Type: ErrTypeTransport, Message: "Request canceled", Err: err, Subtype: TransportCanceled}
	}

	if os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Type: ErrTypeTransport, Message: "Request timed out", Err: err, Subtype: TransportTimeout}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{
			Type:    ErrTypeTransport,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:     err,
			Subtype: TransportDNS,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &Error{Type: ErrTypeTransport, Message: "Backend refused connection", Err: err, Subtype: TransportConnectionRefused}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
			return &Error{Type: ErrTypeTransport, Message: "Host unreachable", Err: err, Subtype: TransportHostUnreachable}
		}
		if errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &Error{Type: ErrTypeTransport, Message: "Network unreachable", Err: err, Subtype: TransportNetworkUnreachable}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// Recursively classify the underlying error
		return ClassifyTransportError(urlErr.Err)
	}

	return &Error{Type: ErrTypeTransport, Message: "Network error occurred", Err: err, Subtype: TransportGeneral}
}

// NewTransportError creates a transport error with automatic classification
func NewTransportError(message string, err error) *Error {
	classified := ClassifyTransportError(err)
	if classified == nil {
		return &Error{Type: ErrTypeTransport, Message: message}
	}
	classified.Message = message
	return classified
}

// NewStatusError maps an HTTP status onto the error taxonomy.
// 404 becomes NotFound, 400 and 422 become Validation, anything else is Transport.
func NewStatusError(statusCode int, message string) *Error {
	switch statusCode {
	case http.StatusNotFound:
		return &Error{Type: ErrTypeNotFound, Message: message, StatusCode: statusCode}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &Error{Type: ErrTypeValidation, Message: message, StatusCode: statusCode}
	default:
		return &Error{Type: ErrTypeTransport, Message: message, StatusCode: statusCode, Subtype: TransportStatus}
	}
}

// NewNotFoundError creates a not-found error for the given id
func NewNotFoundError(id int64) *Error {
	return &Error{
		Type:       ErrTypeNotFound,
		Message:    fmt.Sprintf("todo %d not found", id),
		StatusCode: http.StatusNotFound,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *Error {
	return &Error{Type: ErrTypeParse, Message: message, Err: err}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *Error {
	return &Error{Type: ErrTypeValidation, Message: message}
}

func asError(err error) (*Error, bool) {
	var todoErr *Error
	if errors.As(err, &todoErr) {
		return todoErr, true
	}
	return nil, false
}

// IsTransportError checks if an error is a transport error
func IsTransportError(err error) bool {
	e, ok := asError(err)
	return ok && e.Type == ErrTypeTransport
}

// IsNotFoundError checks if an error is a not-found error
func IsNotFoundError(err error) bool {
	e, ok := asError(err)
	return ok && e.Type == ErrTypeNotFound
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	e, ok := asError(err)
	return ok && e.Type == ErrTypeValidation
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	e, ok := asError(err)
	return ok && e.Type == ErrTypeParse
}

// IsCanceled checks if a transport error was caused by context cancellation
func IsCanceled(err error) bool {
	e, ok := asError(err)
	return ok && e.Type == ErrTypeTransport && e.Subtype == TransportCanceled
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	e, ok := asError(err)
	if !ok {
		return err.Error()
	}

	switch e.Type {
	case ErrTypeTransport:
		switch e.Subtype {
		case TransportTimeout:
			return "Backend not responding (timeout)"
		case TransportConnectionRefused:
			return "Backend refused connection - is the server running?"
		case TransportDNS:
			return "Cannot resolve backend hostname"
		case TransportHostUnreachable:
			return "Backend unreachable - check network connection"
		case TransportNetworkUnreachable:
			return "Network unreachable"
		case TransportStatus:
			return fmt.Sprintf("Backend error (HTTP %d)", e.StatusCode)
		case TransportCanceled:
			return "Request canceled"
		default:
			return "Network error - check connection"
		}
	case ErrTypeNotFound:
		return "Todo no longer exists"
	case ErrTypeValidation:
		return e.Message
	case ErrTypeParse:
		return "Failed to parse backend response"
	default:
		return e.Message
	}
}

package mapsapi

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("invalid request")
	ErrTransport   = errors.New("transport failure")
	ErrParse       = errors.New("malformed response")
	ErrUnsupported = errors.New("operation not supported")
	ErrAPI         = errors.New("request declined by service")
)

// ValidationError reports a malformed, missing or out-of-range request field.
// It is raised before any network call.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ValidationError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Field == "" {
		return "mapsapi: invalid request: " + msg
	}
	return fmt.Sprintf("mapsapi: invalid request: %s: %s", e.Field, msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

type TransportKind string

const (
	TransportNetwork    TransportKind = "network"
	TransportTimeout    TransportKind = "timeout"
	TransportCancelled  TransportKind = "cancelled"
	TransportHTTPStatus TransportKind = "http_status"
)

// TransportError reports a failed round trip: network failure, timeout,
// cancellation or a non-2xx HTTP status. Callers may retry; the client does not.
type TransportError struct {
	Kind       TransportKind
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Kind == TransportHTTPStatus {
		return fmt.Sprintf("mapsapi: transport: http status %d", e.StatusCode)
	}
	if e.Err == nil {
		return fmt.Sprintf("mapsapi: transport: %s", e.Kind)
	}
	return fmt.Sprintf("mapsapi: transport: %s: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ParseError reports a response body that does not match the expected
// schema or carries an unrecognized status.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	switch {
	case e.Err == nil:
		return "mapsapi: parse: " + e.Msg
	case e.Msg == "":
		return "mapsapi: parse: " + e.Err.Error()
	}
	return fmt.Sprintf("mapsapi: parse: %s: %v", e.Msg, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// APIError is a declined call converted into an error by Envelope.Err.
type APIError struct {
	Status  Status
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "mapsapi: " + e.Status.String()
	}
	return fmt.Sprintf("mapsapi: %s: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool { return target == ErrAPI }

// Kind classifies err into a short, stable label suitable for logs and metrics.
func Kind(err error) string {
	var te *TransportError
	var ae *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.As(err, &te):
		return string(te.Kind)
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.As(err, &ae):
		if ae.Status.IsTransient() {
			return "api_transient"
		}
		return "api_fatal"
	case errors.Is(err, context.DeadlineExceeded):
		return string(TransportTimeout)
	case errors.Is(err, context.Canceled):
		return string(TransportCancelled)
	default:
		return "internal"
	}
}

package mapsapi

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", invalid("Radius", "must be positive"), "validation"},
		{"unsupported", &ValidationError{Field: "DisableSSL", Err: ErrUnsupported}, "unsupported"},
		{"network", &TransportError{Kind: TransportNetwork}, "network"},
		{"http status", fmt.Errorf("wrapped: %w", &TransportError{Kind: TransportHTTPStatus, StatusCode: 503}), "http_status"},
		{"parse", &ParseError{Msg: "missing status field"}, "parse"},
		{"transient api", &APIError{Status: StatusOverQueryLimit}, "api_transient"},
		{"fatal api", &APIError{Status: StatusRequestDenied}, "api_fatal"},
		{"deadline", context.DeadlineExceeded, "timeout"},
		{"cancelled", context.Canceled, "cancelled"},
		{"other", errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{invalid("Radius", "must be between %d and %d", 1, 50000), "mapsapi: invalid request: Radius: must be between 1 and 50000"},
		{errNilRequest, "mapsapi: invalid request: nil request"},
		{&TransportError{Kind: TransportHTTPStatus, StatusCode: 502}, "mapsapi: transport: http status 502"},
		{&TransportError{Kind: TransportTimeout}, "mapsapi: transport: timeout"},
		{&ParseError{Msg: "decode body", Err: errors.New("eof")}, "mapsapi: parse: decode body: eof"},
		{&APIError{Status: StatusRequestDenied, Message: "The provided API key is invalid."}, "mapsapi: REQUEST_DENIED: The provided API key is invalid."},
		{&APIError{Status: StatusOverQueryLimit}, "mapsapi: OVER_QUERY_LIMIT"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestEnvelope_Err(t *testing.T) {
	for _, s := range []Status{StatusOK, StatusZeroResults} {
		e := Envelope{Status: s}
		if err := e.Err(); err != nil {
			t.Errorf("%v: unexpected error %v", s, err)
		}
	}
	e := Envelope{Status: StatusInvalidRequest, ErrorMessage: "Invalid request. Missing the 'input' parameter."}
	var ae *APIError
	if err := e.Err(); !errors.As(err, &ae) || ae.Status != StatusInvalidRequest || !errors.Is(err, ErrAPI) {
		t.Errorf("unexpected error %v", err)
	}
}

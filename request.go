package mapsapi

import (
	"net/url"
	"strings"
)

// Common holds the fields shared by every request. Empty fields fall back
// to the client defaults.
type Common struct {
	APIKey   string
	Language string
	Region   string
	// Signing switches the request to premium-plan URL signing.
	Signing *BusinessKey
	// DisableSSL sends the request over plain http where the endpoint allows it.
	DisableSSL bool
}

func (c *Common) common() *Common { return c }

// merge returns a copy of c with empty fields taken from defaults.
func (c Common) merge(defaults Common) Common {
	if c.APIKey == "" {
		c.APIKey = defaults.APIKey
	}
	if c.Language == "" {
		c.Language = defaults.Language
	}
	if c.Region == "" {
		c.Region = defaults.Region
	}
	if c.Signing == nil {
		c.Signing = defaults.Signing
	}
	return c
}

// credentialRule states which credentials an endpoint needs.
type credentialRule int

const (
	credentialsNone credentialRule = iota
	// credentialsKeyOrClient is met by an API key or a business client id.
	credentialsKeyOrClient
	// credentialsKey is met by an API key only, even when the request is signed.
	credentialsKey
)

func (c Common) satisfies(rule credentialRule) bool {
	hasKey := strings.TrimSpace(c.APIKey) != ""
	switch rule {
	case credentialsKeyOrClient:
		return hasKey || (c.Signing != nil && c.Signing.ClientID != "")
	case credentialsKey:
		return hasKey
	}
	return true
}

// Request is implemented by the endpoint request types of this package:
// *DirectionsRequest, *GeocodingRequest, *PlacesRequest,
// *PlaceAutocompleteRequest and *ElevationRequest.
type Request interface {
	// BaseURL is the endpoint host and path, without scheme and output format.
	BaseURL() string
	// RequiresSSL reports whether the endpoint refuses plain http.
	RequiresSSL() bool
	// Validate checks the endpoint-specific fields.
	Validate() error
	// QueryParameters serializes the endpoint-specific fields. The request
	// must have passed Validate.
	QueryParameters() Params

	common() *Common
	credentials() credentialRule
}

// Param is one query string key/value pair.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query parameters with unique keys.
type Params []Param

// Add appends key=value.
func (p *Params) Add(key, value string) {
	*p = append(*p, Param{Key: key, Value: value})
}

// AddIf appends key=value when value is not blank.
func (p *Params) AddIf(key, value string) {
	if strings.TrimSpace(value) != "" {
		p.Add(key, value)
	}
}

// Get returns the value for key.
func (p Params) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Encode renders the list in order as a query string; spaces become '+'.
func (p Params) Encode() string {
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.Value))
	}
	return b.String()
}

var errNilRequest = &ValidationError{Msg: "nil request"}

package mapsapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// HttpRequester executes the GET requests built by the client. *http.Client satisfies it.
type HttpRequester interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestObserver receives the duration of every HTTP round trip, labelled by endpoint.
type RequestObserver interface {
	ObserveHTTPRequest(label string, duration time.Duration)
}

// Client issues typed requests against the maps web services. It holds no
// mutable state after construction and is safe for concurrent use.
type Client struct {
	// defaults fill empty Common fields of each request
	defaults Common
	// baseURL replaces scheme and host of every endpoint, e.g. for a test server
	baseURL *url.URL
	client  HttpRequester
	// timeout bounds blocking calls
	timeout  time.Duration
	observer RequestObserver
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// NewClient creates a Client. Without options it uses an *http.Client with
// DefaultTimeout and no credentials.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		timeout: DefaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.client == nil {
		hc, err := NewHTTPClient("", 0)
		if err != nil {
			return nil, err
		}
		c.client = hc
	}
	return c, nil
}

// WithAPIKey sets the default API key.
func WithAPIKey(key string) Option {
	return func(c *Client) error {
		c.defaults.APIKey = key
		return nil
	}
}

// WithLanguage sets the default output language.
func WithLanguage(language string) Option {
	return func(c *Client) error {
		c.defaults.Language = language
		return nil
	}
}

// WithRegion sets the default region bias (ccTLD code).
func WithRegion(region string) Option {
	return func(c *Client) error {
		c.defaults.Region = region
		return nil
	}
}

// WithBusinessKey signs every request with a premium-plan client id and signing key.
func WithBusinessKey(bkey *BusinessKey) Option {
	return func(c *Client) error {
		if bkey == nil {
			return errors.New("empty BusinessKey")
		}
		if bkey.ClientID == "" || bkey.SigningKey == "" {
			return errors.New("BusinessKey needs both ClientID and SigningKey")
		}
		c.defaults.Signing = bkey
		return nil
	}
}

// WithHTTPClient injects the transport.
func WithHTTPClient(client HttpRequester) Option {
	return func(c *Client) error {
		if client == nil {
			return errors.New("empty HTTPClient")
		}
		c.client = client
		return nil
	}
}

// WithTimeout bounds blocking calls. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = d
		return nil
	}
}

// WithObserver measures HTTP request durations.
func WithObserver(observer RequestObserver) Option {
	return func(c *Client) error {
		c.observer = observer
		return nil
	}
}

// WithLogger enables debug logging of dispatched requests.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithBaseURL sends requests to rawURL's scheme and host instead of the
// public endpoints. Endpoint paths are kept.
func WithBaseURL(rawURL string) Option {
	return func(c *Client) error {
		u, err := url.Parse(rawURL)
		if err != nil {
			return err
		}
		if u.Scheme == "" || u.Host == "" {
			return errors.New("base url needs a scheme and a host")
		}
		c.baseURL = u
		return nil
	}
}

// Directions fetches routes, blocking until the response arrives or the client timeout expires.
func (c *Client) Directions(req *DirectionsRequest) (*DirectionsResponse, error) {
	return query[DirectionsResponse](c, req)
}

// DirectionsAsync starts a directions call that can be cancelled through ctx.
func (c *Client) DirectionsAsync(ctx context.Context, req *DirectionsRequest) *Call[DirectionsResponse] {
	return start[DirectionsResponse](ctx, c, req)
}

// Geocode runs a forward or reverse geocoding request.
func (c *Client) Geocode(req *GeocodingRequest) (*GeocodingResponse, error) {
	return query[GeocodingResponse](c, req)
}

func (c *Client) GeocodeAsync(ctx context.Context, req *GeocodingRequest) *Call[GeocodingResponse] {
	return start[GeocodingResponse](ctx, c, req)
}

// ReverseGeocode looks up the addresses at lat, lng. Only ctx bounds the
// call; the client timeout does not apply.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodingResponse, error) {
	loc := NewLocation(lat, lng)
	return c.GeocodeAsync(ctx, &GeocodingRequest{Location: &loc}).Wait()
}

// Places runs a nearby search.
func (c *Client) Places(req *PlacesRequest) (*PlacesResponse, error) {
	return query[PlacesResponse](c, req)
}

func (c *Client) PlacesAsync(ctx context.Context, req *PlacesRequest) *Call[PlacesResponse] {
	return start[PlacesResponse](ctx, c, req)
}

// PlaceAutocomplete returns predictions for a partial input.
func (c *Client) PlaceAutocomplete(req *PlaceAutocompleteRequest) (*PlaceAutocompleteResponse, error) {
	return query[PlaceAutocompleteResponse](c, req)
}

func (c *Client) PlaceAutocompleteAsync(ctx context.Context, req *PlaceAutocompleteRequest) *Call[PlaceAutocompleteResponse] {
	return start[PlaceAutocompleteResponse](ctx, c, req)
}

// Elevation returns elevation data for points or along a path.
func (c *Client) Elevation(req *ElevationRequest) (*ElevationResponse, error) {
	return query[ElevationResponse](c, req)
}

func (c *Client) ElevationAsync(ctx context.Context, req *ElevationRequest) *Call[ElevationResponse] {
	return start[ElevationResponse](ctx, c, req)
}

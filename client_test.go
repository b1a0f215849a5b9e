package mapsapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type fakeHttpRequester struct {
	responseBodyJSON string
	statusCode       int
	err              error

	calls   atomic.Int32
	mu      sync.Mutex
	lastURL string
}

func (c *fakeHttpRequester) Do(req *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.lastURL = req.URL.String()
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	code := c.statusCode
	if code == 0 {
		code = http.StatusOK
	}
	r := io.NopCloser(bytes.NewReader([]byte(c.responseBodyJSON)))
	return &http.Response{StatusCode: code, Body: r}, nil
}

// blockingHttpRequester returns only once the request context is done.
type blockingHttpRequester struct{}

func (blockingHttpRequester) Do(req *http.Request) (*http.Response, error) {
	<-req.Context().Done()
	return nil, req.Context().Err()
}

// slowHttpRequester answers after delay without looking at the request context.
type slowHttpRequester struct {
	delay            time.Duration
	responseBodyJSON string
}

func (c *slowHttpRequester) Do(req *http.Request) (*http.Response, error) {
	time.Sleep(c.delay)
	r := io.NopCloser(bytes.NewReader([]byte(c.responseBodyJSON)))
	return &http.Response{StatusCode: http.StatusOK, Body: r}, nil
}

type fakeRequestObserver struct {
	mu     sync.Mutex
	labels []string
}

func (c *fakeRequestObserver) ObserveHTTPRequest(label string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labels = append(c.labels, label)
}

const placesFixture = `{
  "status": "OK",
  "html_attributions": [],
  "next_page_token": "CpQCAgEAAFxg8o",
  "results": [{
    "place_id": "ChIJ-seattle-coffee",
    "name": "Storyville Coffee",
    "vicinity": "94 Pike St, Seattle",
    "types": ["cafe", "food"],
    "rating": 4.6,
    "price_level": 2,
    "opening_hours": {"open_now": true},
    "geometry": {"location": {"lat": 47.6086, "lng": -122.3401}}
  }]
}`

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestClient_Places(t *testing.T) {
	requester := &fakeHttpRequester{responseBodyJSON: placesFixture}
	observer := &fakeRequestObserver{}
	c := newTestClient(t, WithAPIKey("AIza-key"), WithHTTPClient(requester), WithObserver(observer))

	resp, err := c.Places(&PlacesRequest{Location: seattle(), Radius: float(500), Keyword: "coffee"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != StatusOK || len(resp.Results) != 1 || resp.Results[0].Name != "Storyville Coffee" {
		t.Errorf("unexpected response %+v", resp)
	}
	if !resp.HasNextPage() {
		t.Error("expected a next page")
	}
	if !resp.Results[0].OpeningHours.OpenNow {
		t.Error("expected open_now")
	}

	wantURL := "https://maps.googleapis.com/maps/api/place/search/json?key=AIza-key&location=47.611162%2C-122.337644&radius=500&keyword=coffee"
	if requester.lastURL != wantURL {
		t.Errorf("results not match\nGot:\n%v\nExpected:\n%v", requester.lastURL, wantURL)
	}
	if len(observer.labels) != 1 || observer.labels[0] != "place/search" {
		t.Errorf("observer labels = %v", observer.labels)
	}
}

func TestClient_FailFast(t *testing.T) {
	requester := &fakeHttpRequester{responseBodyJSON: placesFixture}
	c := newTestClient(t, WithAPIKey("AIza-key"), WithHTTPClient(requester))

	if _, err := c.Places(&PlacesRequest{Radius: float(500)}); !errors.Is(err, ErrValidation) {
		t.Errorf("blocking: expected validation error, got %v", err)
	}

	call := c.PlacesAsync(context.Background(), &PlacesRequest{Radius: float(500)})
	select {
	case <-call.Done():
	default:
		t.Fatal("a call failing validation must be done on return")
	}
	if resp, err := call.Wait(); resp != nil || !errors.Is(err, ErrValidation) {
		t.Errorf("async: got %v, %v", resp, err)
	}

	if _, err := c.Places(nil); !errors.Is(err, ErrValidation) {
		t.Errorf("nil request: expected validation error, got %v", err)
	}
	insecure := &PlacesRequest{Location: seattle(), Radius: float(500)}
	insecure.DisableSSL = true
	if _, err := c.Places(insecure); !errors.Is(err, ErrUnsupported) {
		t.Errorf("plain http places: expected ErrUnsupported, got %v", err)
	}

	if n := requester.calls.Load(); n != 0 {
		t.Errorf("expected no network calls, got %d", n)
	}
}

func TestClient_BlockingAndAsyncAgree(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/directions/json" || r.URL.Query().Get("origin") != "NYC, USA" {
			http.Error(w, "unexpected request "+r.URL.String(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, directionsFixture)
	}))
	defer srv.Close()

	c := newTestClient(t, WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	req := &DirectionsRequest{Origin: "NYC, USA", Destination: "Miami, USA"}

	blocking, err := c.Directions(req)
	if err != nil {
		t.Fatalf("blocking: %v", err)
	}
	async, err := c.DirectionsAsync(context.Background(), req).Wait()
	if err != nil {
		t.Fatalf("async: %v", err)
	}
	if diff := cmp.Diff(blocking, async); diff != "" {
		t.Errorf("blocking and async responses differ (-blocking +async):\n%s", diff)
	}
}

func TestClient_ConcurrentCalls(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		io.WriteString(w, `{"status": "OK", "results": [{"elevation": 1608.6, "location": {"lat": 39.7391536, "lng": -104.9847034}, "resolution": 4.77}]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	calls := make([]*Call[ElevationResponse], 8)
	for i := range calls {
		calls[i] = c.ElevationAsync(context.Background(), &ElevationRequest{Locations: []Location{NewLocation(39.7391536, -104.9847034)}})
	}
	for i, call := range calls {
		resp, err := call.Wait()
		if err != nil || len(resp.Results) != 1 || resp.Results[0].Elevation != 1608.6 {
			t.Errorf("call %d: %v, %v", i, resp, err)
		}
	}
	if n := hits.Load(); n != int32(len(calls)) {
		t.Errorf("server saw %d requests, want %d", n, len(calls))
	}
}

func TestClient_Cancellation(t *testing.T) {
	c := newTestClient(t, WithHTTPClient(blockingHttpRequester{}))
	ctx, cancel := context.WithCancel(context.Background())
	call := c.GeocodeAsync(ctx, &GeocodingRequest{Address: "Toledo"})
	cancel()

	resp, err := call.Wait()
	var te *TransportError
	if resp != nil || !errors.As(err, &te) || te.Kind != TransportCancelled {
		t.Errorf("expected a cancelled transport error, got %v, %v", resp, err)
	}
}

func TestClient_CancellationWithContextUnawareRequester(t *testing.T) {
	requester := &slowHttpRequester{delay: 50 * time.Millisecond, responseBodyJSON: `{"status": "OK", "results": []}`}
	c := newTestClient(t, WithHTTPClient(requester))
	ctx, cancel := context.WithCancel(context.Background())
	call := c.GeocodeAsync(ctx, &GeocodingRequest{Address: "Toledo"})
	cancel()

	resp, err := call.Wait()
	var te *TransportError
	if resp != nil || !errors.As(err, &te) || te.Kind != TransportCancelled {
		t.Errorf("expected a cancelled transport error, got %v, %v", resp, err)
	}

	timed := newTestClient(t, WithHTTPClient(requester), WithTimeout(10*time.Millisecond))
	if resp, err := timed.Geocode(&GeocodingRequest{Address: "Toledo"}); resp != nil || Kind(err) != "timeout" {
		t.Errorf("expected a timeout, got %v, %v", resp, err)
	}
}

func TestClient_Timeout(t *testing.T) {
	c := newTestClient(t, WithHTTPClient(blockingHttpRequester{}), WithTimeout(20*time.Millisecond))
	_, err := c.Geocode(&GeocodingRequest{Address: "Toledo"})
	if Kind(err) != "timeout" {
		t.Errorf("expected a timeout, got %v", err)
	}
}

func TestClient_TransportErrors(t *testing.T) {
	tests := []struct {
		name       string
		requester  *fakeHttpRequester
		kind       TransportKind
		statusCode int
	}{
		{"network", &fakeHttpRequester{err: errors.New("connection refused")}, TransportNetwork, 0},
		{"server error", &fakeHttpRequester{statusCode: 503, responseBodyJSON: "upstream unavailable"}, TransportHTTPStatus, 503},
		{"forbidden", &fakeHttpRequester{statusCode: 403, responseBodyJSON: `{"status": "OK", "results": []}`}, TransportHTTPStatus, 403},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, WithHTTPClient(tt.requester))
			_, err := c.Geocode(&GeocodingRequest{Address: "Toledo"})
			var te *TransportError
			if !errors.As(err, &te) || te.Kind != tt.kind || te.StatusCode != tt.statusCode {
				t.Fatalf("unexpected error %v", err)
			}
			if !errors.Is(err, ErrTransport) {
				t.Errorf("%v does not match ErrTransport", err)
			}
		})
	}
}

func TestClient_DeclinedCallIsNotAnError(t *testing.T) {
	requester := &fakeHttpRequester{responseBodyJSON: `{"status": "OVER_QUERY_LIMIT", "error_message": "You have exceeded your rate-limit.", "results": []}`}
	c := newTestClient(t, WithHTTPClient(requester))
	resp, err := c.ReverseGeocode(context.Background(), 45.32, 12.67)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != StatusOverQueryLimit || !resp.Status.IsTransient() || Kind(resp.Err()) != "api_transient" {
		t.Errorf("unexpected response %+v", resp)
	}
	if !strings.Contains(requester.lastURL, "latlng=45.32%2C12.67") {
		t.Errorf("unexpected url %v", requester.lastURL)
	}
}

func TestClient_ParseFailure(t *testing.T) {
	c := newTestClient(t, WithHTTPClient(&fakeHttpRequester{responseBodyJSON: `{"status": "SOMETHING_NEW"}`}))
	resp, err := c.PlaceAutocomplete(&PlaceAutocompleteRequest{Input: "abb", Common: Common{APIKey: "AIza-key"}})
	if resp != nil || !errors.Is(err, ErrParse) {
		t.Errorf("expected a parse error, got %v, %v", resp, err)
	}
}

func TestClient_LogsRedactedURL(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := newTestClient(t,
		WithAPIKey("AIzaSyD-secret-7890"),
		WithLogger(logger),
		WithHTTPClient(&fakeHttpRequester{responseBodyJSON: `{"status": "ZERO_RESULTS", "predictions": []}`}),
	)
	if _, err := c.PlaceAutocomplete(&PlaceAutocompleteRequest{Input: "abb"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "AIzaSyD-secret-7890") {
		t.Errorf("api key leaked into log:\n%s", out)
	}
	if !strings.Contains(out, "endpoint=place/autocomplete") || !strings.Contains(out, "request_id=") {
		t.Errorf("missing request attributes:\n%s", out)
	}
}

func Test_redactURL(t *testing.T) {
	u, _ := url.Parse("https://maps.googleapis.com/maps/api/place/search/json?key=AIzaSyD-1234567890&pagetoken=abc&location=1%2C2")
	want := "https://maps.googleapis.com/maps/api/place/search/json?key=AIza...7890&pagetoken=...&location=1%2C2"
	if got := redactURL(u); got != want {
		t.Errorf("results not match\nGot:\n%v\nExpected:\n%v", got, want)
	}
}

func TestNewClient_Options(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"nil business key", WithBusinessKey(nil)},
		{"business key without signing key", WithBusinessKey(&BusinessKey{ClientID: "gme-client"})},
		{"nil http client", WithHTTPClient(nil)},
		{"negative timeout", WithTimeout(-time.Second)},
		{"relative base url", WithBaseURL("/maps")},
	}
	for _, tt := range tests {
		if _, err := NewClient(tt.opt); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}

	if _, err := NewClient(WithTimeout(0), WithLogger(nil), WithObserver(nil)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

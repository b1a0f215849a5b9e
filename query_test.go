package mapsapi

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func Test_buildQuery(t *testing.T) {
	common := Common{
		APIKey:   "AIza-key",
		Language: "fr",
		Signing:  &BusinessKey{ClientID: "gme-client", SigningKey: "c2lnbg==", Channel: "web"},
	}
	got, err := buildQuery(common, Params{{"address", "Paris"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Params{
		{"key", "AIza-key"},
		{"language", "fr"},
		{"client", "gme-client"},
		{"channel", "web"},
		{"address", "Paris"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildQuery()\nGot:\n%v\nExpected:\n%v", got, want)
	}

	if _, err := buildQuery(common, Params{{"language", "de"}}); err == nil {
		t.Error("expected an error for a duplicated key")
	}
}

func TestClient_buildURL(t *testing.T) {
	loc := NewLocation(45.32, 12.67)
	tests := []struct {
		name     string
		opts     []Option
		req      Request
		expected string
	}{
		{
			name: "signed",
			opts: []Option{
				WithLanguage("en"),
				WithBusinessKey(&BusinessKey{ClientID: "my_test_client", SigningKey: "bXlfdGVzdF9rZXk=", Channel: "grg-local"}),
			},
			req:      &GeocodingRequest{Location: &loc},
			expected: "https://maps.googleapis.com/maps/api/geocode/json?language=en&client=my_test_client&channel=grg-local&latlng=45.32%2C12.67&signature=kLOra6JJ-fc8HXsS3gm3_A0mAX0%3D",
		},
		{
			name: "signed with escaped values",
			opts: []Option{
				WithLanguage("en"),
				WithBusinessKey(&BusinessKey{ClientID: "my&test&client", SigningKey: "bXlfdGVzdF9rZXk=", Channel: "grg-local!@#$%^&*() "}),
			},
			req:      &GeocodingRequest{Location: &loc},
			expected: "https://maps.googleapis.com/maps/api/geocode/json?language=en&client=my%26test%26client&channel=grg-local%21%40%23%24%25%5E%26%2A%28%29+&latlng=45.32%2C12.67&signature=uN4GOJT8Neu1ujIEU8zcf_yGvnU%3D",
		},
		{
			name:     "api key",
			opts:     []Option{WithAPIKey("AIza-key"), WithRegion("es")},
			req:      &GeocodingRequest{Address: "Toledo"},
			expected: "https://maps.googleapis.com/maps/api/geocode/json?key=AIza-key&region=es&address=Toledo",
		},
		{
			name:     "plain http",
			req:      &GeocodingRequest{Address: "Toledo", Common: Common{DisableSSL: true}},
			expected: "http://maps.googleapis.com/maps/api/geocode/json?address=Toledo",
		},
		{
			name:     "request overrides defaults",
			opts:     []Option{WithLanguage("en")},
			req:      &GeocodingRequest{Address: "Toledo", Common: Common{Language: "es"}},
			expected: "https://maps.googleapis.com/maps/api/geocode/json?language=es&address=Toledo",
		},
		{
			name:     "base url",
			opts:     []Option{WithBaseURL("http://127.0.0.1:8080/proxy/")},
			req:      &ElevationRequest{Locations: []Location{NewLocation(39.7391536, -104.9847034)}},
			expected: "http://127.0.0.1:8080/proxy/maps/api/elevation/json?locations=enc%3AuppqFjyw_S",
		},
	}
	for _, tt := range tests {
		c, err := NewClient(tt.opts...)
		if err != nil {
			t.Fatalf("test for %v Failed - NewClient: %v", tt.name, err)
		}
		u, err := c.prepare(tt.req)
		if err != nil {
			t.Fatalf("test for %v Failed - prepare: %v", tt.name, err)
		}
		if u.String() != tt.expected {
			t.Errorf("test for %v Failed - results not match\nGot:\n%v\nExpected:\n%v", tt.name, u.String(), tt.expected)
		}
	}
}

func TestClient_prepare_Credentials(t *testing.T) {
	c, err := NewClient()
	if err != nil {
		t.Fatal(err)
	}
	places := &PlacesRequest{Location: seattle(), Radius: float(500)}
	if _, err := c.prepare(places); !errors.Is(err, ErrValidation) {
		t.Errorf("places without key: expected validation error, got %v", err)
	}

	places.APIKey = "AIza-key"
	if _, err := c.prepare(places); err != nil {
		t.Errorf("places with key: unexpected error %v", err)
	}

	half := &GeocodingRequest{Address: "Toledo", Common: Common{Signing: &BusinessKey{ClientID: "gme-client"}}}
	if _, err := c.prepare(half); !errors.Is(err, ErrValidation) {
		t.Errorf("incomplete business key: expected validation error, got %v", err)
	}

	bad := &GeocodingRequest{Address: "Toledo", Common: Common{Signing: &BusinessKey{ClientID: "gme-client", SigningKey: "!!not base64!!"}}}
	var ve *ValidationError
	if _, err := c.prepare(bad); !errors.As(err, &ve) || ve.Field != "Signing.SigningKey" {
		t.Errorf("malformed signing key: got %v", err)
	}

	signed := newTestClient(t, WithBusinessKey(&BusinessKey{ClientID: "gme-client", SigningKey: "bXlfdGVzdF9rZXk="}))
	if _, err := signed.prepare(&PlacesRequest{Location: seattle(), Radius: float(500)}); !errors.Is(err, ErrValidation) {
		t.Errorf("signed places without key: expected validation error, got %v", err)
	}
	if _, err := signed.prepare(&PlaceAutocompleteRequest{Input: "pizza"}); !errors.Is(err, ErrValidation) {
		t.Errorf("signed autocomplete without key: expected validation error, got %v", err)
	}
	keyed := &PlaceAutocompleteRequest{Input: "pizza", Common: Common{APIKey: "AIza-key"}}
	if _, err := signed.prepare(keyed); err != nil {
		t.Errorf("signed autocomplete with key: unexpected error %v", err)
	}
	dep := time.Now().Add(time.Hour)
	traffic := &DirectionsRequest{Origin: "NYC, USA", Destination: "Miami, USA", DepartureTime: &dep}
	if _, err := signed.prepare(traffic); err != nil {
		t.Errorf("signed traffic-aware directions: unexpected error %v", err)
	}
	if _, err := c.prepare(traffic); !errors.Is(err, ErrValidation) {
		t.Errorf("traffic-aware directions without credentials: expected validation error, got %v", err)
	}
}

func TestParams_Encode(t *testing.T) {
	p := Params{{"input", "128 abbey r"}, {"components", "country:gb|country:ie"}}
	want := "input=128+abbey+r&components=country%3Agb%7Ccountry%3Aie"
	if got := p.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}

	var q Params
	q.AddIf("a", " ")
	q.AddIf("b", "x")
	if v, ok := q.Get("b"); len(q) != 1 || !ok || v != "x" {
		t.Errorf("AddIf kept %v", q)
	}
}

package mapsapi

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// PlaceAutocompleteRequest returns place predictions for a partial input.
type PlaceAutocompleteRequest struct {
	Common

	Input string
	// Offset is the position of the last character the service should use for matching.
	Offset   *int
	Location *Location
	// Radius is passed through unchecked; the service normalizes zero,
	// negative and oversized values itself.
	Radius *float64
	Types  string
	// Countries restricts results, e.g. []string{"fr", "be"}.
	Countries    []string
	SessionToken string
	StrictBounds bool
}

func (r *PlaceAutocompleteRequest) BaseURL() string {
	return "maps.googleapis.com/maps/api/place/autocomplete/"
}

func (r *PlaceAutocompleteRequest) RequiresSSL() bool { return true }

func (r *PlaceAutocompleteRequest) credentials() credentialRule { return credentialsKey }

func (r *PlaceAutocompleteRequest) Validate() error {
	if r == nil {
		return errNilRequest
	}
	if strings.TrimSpace(r.Input) == "" {
		return invalid("Input", "must be provided")
	}
	if r.DisableSSL {
		return &ValidationError{Field: "DisableSSL", Msg: "place autocomplete requests must use SSL", Err: ErrUnsupported}
	}
	if r.Offset != nil && (*r.Offset < 0 || *r.Offset > utf8.RuneCountInString(r.Input)) {
		return invalid("Offset", "must be between 0 and the input length, got %d", *r.Offset)
	}
	if r.StrictBounds && (r.Location == nil || r.Radius == nil) {
		return invalid("StrictBounds", "requires Location and Radius")
	}
	for _, c := range r.Countries {
		if strings.TrimSpace(c) == "" {
			return invalid("Countries", "empty country code")
		}
	}
	return nil
}

func (r *PlaceAutocompleteRequest) QueryParameters() Params {
	var params Params
	params.Add("input", r.Input)
	if r.Offset != nil {
		params.Add("offset", strconv.Itoa(*r.Offset))
	}
	if r.Location != nil {
		params.Add("location", r.Location.String())
	}
	if r.Radius != nil {
		params.Add("radius", strconv.FormatFloat(*r.Radius, 'f', -1, 64))
	}
	params.AddIf("types", r.Types)
	if len(r.Countries) > 0 {
		countries := make([]string, len(r.Countries))
		for i, c := range r.Countries {
			countries[i] = "country:" + c
		}
		params.Add("components", strings.Join(countries, "|"))
	}
	params.AddIf("sessiontoken", r.SessionToken)
	if r.StrictBounds {
		params.Add("strictbounds", "true")
	}
	return params
}

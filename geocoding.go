package mapsapi

import (
	"sort"
	"strings"
)

// GeocodingRequest converts between addresses and coordinates. Set Address
// and/or Components for forward geocoding, Location or PlaceID for reverse.
type GeocodingRequest struct {
	Common

	Address string
	// Components filters by address component, e.g. {"country": "US"}.
	Components map[string]string
	Location   *Location
	PlaceID    string
	// Bounds biases forward results towards a viewport.
	Bounds *Bounds
	// ResultTypes and LocationTypes filter reverse geocoding results.
	ResultTypes   []string
	LocationTypes []string
}

func (r *GeocodingRequest) BaseURL() string { return "maps.googleapis.com/maps/api/geocode/" }

func (r *GeocodingRequest) RequiresSSL() bool { return false }

func (r *GeocodingRequest) credentials() credentialRule { return credentialsNone }

func (r *GeocodingRequest) reverse() bool {
	return r.Location != nil || r.PlaceID != ""
}

func (r *GeocodingRequest) Validate() error {
	if r == nil {
		return errNilRequest
	}
	address := strings.TrimSpace(r.Address)
	if address == "" && len(r.Components) == 0 && !r.reverse() {
		return invalid("Address", "one of Address, Components, Location or PlaceID must be provided")
	}
	if r.Location != nil && r.PlaceID != "" {
		return invalid("PlaceID", "cannot be combined with Location")
	}
	if address != "" && r.reverse() {
		return invalid("Address", "cannot be combined with Location or PlaceID")
	}
	if r.Location != nil {
		if err := validateLocation("Location", *r.Location); err != nil {
			return err
		}
	}
	if (len(r.ResultTypes) > 0 || len(r.LocationTypes) > 0) && !r.reverse() {
		return invalid("ResultTypes", "filters apply to reverse geocoding only")
	}
	for k, v := range r.Components {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			return invalid("Components", "empty component filter %q:%q", k, v)
		}
	}
	return nil
}

func (r *GeocodingRequest) QueryParameters() Params {
	var params Params
	params.AddIf("address", r.Address)
	if len(r.Components) > 0 {
		keys := make([]string, 0, len(r.Components))
		for k := range r.Components {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		filters := make([]string, len(keys))
		for i, k := range keys {
			filters[i] = k + ":" + r.Components[k]
		}
		params.Add("components", strings.Join(filters, "|"))
	}
	if r.Location != nil {
		params.Add("latlng", r.Location.String())
	}
	params.AddIf("place_id", r.PlaceID)
	if r.Bounds != nil {
		params.Add("bounds", r.Bounds.String())
	}
	if len(r.ResultTypes) > 0 {
		params.Add("result_type", strings.Join(r.ResultTypes, "|"))
	}
	if len(r.LocationTypes) > 0 {
		params.Add("location_type", strings.Join(r.LocationTypes, "|"))
	}
	return params
}

func validateLocation(field string, l Location) error {
	if !(l.Latitude >= -90 && l.Latitude <= 90) {
		return invalid(field, "latitude %v out of range [-90, 90]", l.Latitude)
	}
	if !(l.Longitude >= -180 && l.Longitude <= 180) {
		return invalid(field, "longitude %v out of range [-180, 180]", l.Longitude)
	}
	return nil
}

package mapsapi

import (
	"fmt"
	"strconv"
)

// ElevationRequest asks for the elevation at discrete Locations, or at
// Samples points spread evenly along Path. Exactly one of the two is set.
type ElevationRequest struct {
	Common

	Locations []Location
	Path      []Location
	Samples   int
}

func (r *ElevationRequest) BaseURL() string { return "maps.googleapis.com/maps/api/elevation/" }

func (r *ElevationRequest) RequiresSSL() bool { return false }

func (r *ElevationRequest) credentials() credentialRule { return credentialsNone }

func (r *ElevationRequest) Validate() error {
	if r == nil {
		return errNilRequest
	}
	switch {
	case len(r.Locations) == 0 && len(r.Path) == 0:
		return invalid("Locations", "one of Locations or Path must be provided")
	case len(r.Locations) > 0 && len(r.Path) > 0:
		return invalid("Path", "cannot be combined with Locations")
	case len(r.Path) > 0 && len(r.Path) < 2:
		return invalid("Path", "needs at least two points")
	case len(r.Path) > 0 && r.Samples <= 0:
		return invalid("Samples", "must be positive for a path request")
	case len(r.Path) == 0 && r.Samples != 0:
		return invalid("Samples", "is only supported for a path request")
	}
	field, points := "Locations", r.Locations
	if len(r.Path) > 0 {
		field, points = "Path", r.Path
	}
	for i, l := range points {
		if err := validateLocation(fmt.Sprintf("%s[%d]", field, i), l); err != nil {
			return err
		}
	}
	return nil
}

func (r *ElevationRequest) QueryParameters() Params {
	var params Params
	if len(r.Path) > 0 {
		params.Add("path", "enc:"+EncodePolyline(r.Path))
		params.Add("samples", strconv.Itoa(r.Samples))
		return params
	}
	params.Add("locations", "enc:"+EncodePolyline(r.Locations))
	return params
}

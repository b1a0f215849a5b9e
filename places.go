package mapsapi

import (
	"fmt"
	"math"
	"strconv"
)

// RankBy is the ordering strategy for a places search.
type RankBy int

const (
	RankByProminence RankBy = iota
	RankByDistance
)

func (r RankBy) String() string {
	switch r {
	case RankByProminence:
		return "prominence"
	case RankByDistance:
		return "distance"
	}
	return fmt.Sprintf("RankBy(%d)", int(r))
}

// ParseRankBy maps "prominence" or "distance" onto a RankBy.
func ParseRankBy(s string) (RankBy, error) {
	switch s {
	case "", "prominence":
		return RankByProminence, nil
	case "distance":
		return RankByDistance, nil
	}
	return 0, invalid("RankBy", "unrecognized value %q", s)
}

const (
	minPlacesRadius = 1
	maxPlacesRadius = 50000
)

// PlacesRequest is a nearby search around a location.
type PlacesRequest struct {
	Common

	// Location is required.
	Location *Location
	// Radius in meters, within [1, 50000]. Required unless RankBy is
	// RankByDistance, in which case it must be nil.
	Radius  *float64
	Keyword string
	Name    string
	Type    string
	RankBy  RankBy
	OpenNow bool
	// MinPrice and MaxPrice restrict results to a price level in [0, 4].
	MinPrice *int
	MaxPrice *int
	// PageToken is the NextPageToken of a previous response. The service
	// ignores the other fields when it is set, but they are still sent.
	PageToken string
}

func (r *PlacesRequest) BaseURL() string { return "maps.googleapis.com/maps/api/place/search/" }

func (r *PlacesRequest) RequiresSSL() bool { return true }

func (r *PlacesRequest) credentials() credentialRule { return credentialsKey }

func (r *PlacesRequest) Validate() error {
	if r == nil {
		return errNilRequest
	}
	if r.Location == nil {
		return invalid("Location", "must be provided")
	}
	if r.DisableSSL {
		return &ValidationError{Field: "DisableSSL", Msg: "places requests must use SSL", Err: ErrUnsupported}
	}
	if r.RankBy != RankByProminence && r.RankBy != RankByDistance {
		return invalid("RankBy", "unrecognized value %d", int(r.RankBy))
	}
	if r.RankBy == RankByDistance {
		if r.Radius != nil {
			return invalid("Radius", "must not be set when RankBy is distance")
		}
	} else {
		if r.Radius == nil {
			return invalid("Radius", "must be provided unless RankBy is distance")
		}
		if rad := *r.Radius; math.IsNaN(rad) || rad < minPlacesRadius || rad > maxPlacesRadius {
			return invalid("Radius", "must be between %d and %d, got %v", minPlacesRadius, maxPlacesRadius, rad)
		}
	}
	if err := validatePrice("MinPrice", r.MinPrice); err != nil {
		return err
	}
	if err := validatePrice("MaxPrice", r.MaxPrice); err != nil {
		return err
	}
	if r.MinPrice != nil && r.MaxPrice != nil && *r.MinPrice > *r.MaxPrice {
		return invalid("MinPrice", "must not exceed MaxPrice")
	}
	return nil
}

func validatePrice(field string, price *int) error {
	if price != nil && (*price < 0 || *price > 4) {
		return invalid(field, "must be between 0 and 4, got %d", *price)
	}
	return nil
}

func (r *PlacesRequest) QueryParameters() Params {
	var params Params
	params.Add("location", r.Location.String())
	if r.Radius != nil {
		params.Add("radius", strconv.FormatFloat(*r.Radius, 'f', -1, 64))
	}
	params.AddIf("keyword", r.Keyword)
	params.AddIf("type", r.Type)
	params.AddIf("name", r.Name)
	if r.RankBy == RankByDistance {
		params.Add("rankby", "distance")
	}
	if r.OpenNow {
		params.Add("opennow", "true")
	}
	if r.MinPrice != nil {
		params.Add("minprice", strconv.Itoa(*r.MinPrice))
	}
	if r.MaxPrice != nil {
		params.Add("maxprice", strconv.Itoa(*r.MaxPrice))
	}
	params.AddIf("pagetoken", r.PageToken)
	return params
}

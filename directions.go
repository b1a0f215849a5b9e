package mapsapi

import (
	"strconv"
	"strings"
	"time"
)

type TravelMode string

const (
	TravelModeDriving   TravelMode = "driving"
	TravelModeWalking   TravelMode = "walking"
	TravelModeBicycling TravelMode = "bicycling"
	TravelModeTransit   TravelMode = "transit"
)

type Avoid string

const (
	AvoidTolls    Avoid = "tolls"
	AvoidHighways Avoid = "highways"
	AvoidFerries  Avoid = "ferries"
	AvoidIndoor   Avoid = "indoor"
)

type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

type TransitMode string

const (
	TransitModeBus    TransitMode = "bus"
	TransitModeSubway TransitMode = "subway"
	TransitModeTrain  TransitMode = "train"
	TransitModeTram   TransitMode = "tram"
	TransitModeRail   TransitMode = "rail"
)

type TrafficModel string

const (
	TrafficModelBestGuess   TrafficModel = "best_guess"
	TrafficModelPessimistic TrafficModel = "pessimistic"
	TrafficModelOptimistic  TrafficModel = "optimistic"
)

// DirectionsRequest asks for routes between two places. Origin, Destination
// and Waypoints accept an address, a place id ("place_id:...") or "lat,lng".
type DirectionsRequest struct {
	Common

	Origin      string
	Destination string
	Waypoints   []string
	// OptimizeWaypoints lets the service reorder Waypoints.
	OptimizeWaypoints bool
	// TravelMode defaults to driving when empty.
	TravelMode   TravelMode
	Avoid        []Avoid
	Alternatives bool
	Units        Units
	// DepartureTime in driving mode asks for a traffic-aware duration and
	// needs an API key.
	DepartureTime *time.Time
	// ArrivalTime is only meaningful for transit.
	ArrivalTime  *time.Time
	TransitModes []TransitMode
	TrafficModel TrafficModel
}

func (r *DirectionsRequest) BaseURL() string { return "maps.googleapis.com/maps/api/directions/" }

func (r *DirectionsRequest) RequiresSSL() bool { return false }

// A traffic-aware duration needs an API key or a business client id.
func (r *DirectionsRequest) credentials() credentialRule {
	if r.DepartureTime != nil && r.driving() {
		return credentialsKeyOrClient
	}
	return credentialsNone
}

func (r *DirectionsRequest) driving() bool {
	return r.TravelMode == "" || r.TravelMode == TravelModeDriving
}

func (r *DirectionsRequest) Validate() error {
	if r == nil {
		return errNilRequest
	}
	if strings.TrimSpace(r.Origin) == "" {
		return invalid("Origin", "must be provided")
	}
	if strings.TrimSpace(r.Destination) == "" {
		return invalid("Destination", "must be provided")
	}
	for i, wp := range r.Waypoints {
		if strings.TrimSpace(wp) == "" {
			return invalid("Waypoints", "entry %d is empty", i)
		}
	}
	switch r.TravelMode {
	case "", TravelModeDriving, TravelModeWalking, TravelModeBicycling, TravelModeTransit:
	default:
		return invalid("TravelMode", "unrecognized value %q", r.TravelMode)
	}
	for _, a := range r.Avoid {
		switch a {
		case AvoidTolls, AvoidHighways, AvoidFerries, AvoidIndoor:
		default:
			return invalid("Avoid", "unrecognized value %q", a)
		}
	}
	switch r.Units {
	case "", UnitsMetric, UnitsImperial:
	default:
		return invalid("Units", "unrecognized value %q", r.Units)
	}
	if r.DepartureTime != nil && r.ArrivalTime != nil {
		return invalid("ArrivalTime", "cannot be combined with DepartureTime")
	}
	if r.ArrivalTime != nil && r.TravelMode != TravelModeTransit {
		return invalid("ArrivalTime", "is only supported for transit")
	}
	for _, m := range r.TransitModes {
		if r.TravelMode != TravelModeTransit {
			return invalid("TransitModes", "is only supported for transit")
		}
		switch m {
		case TransitModeBus, TransitModeSubway, TransitModeTrain, TransitModeTram, TransitModeRail:
		default:
			return invalid("TransitModes", "unrecognized value %q", m)
		}
	}
	if r.TrafficModel != "" {
		switch r.TrafficModel {
		case TrafficModelBestGuess, TrafficModelPessimistic, TrafficModelOptimistic:
		default:
			return invalid("TrafficModel", "unrecognized value %q", r.TrafficModel)
		}
		if r.DepartureTime == nil || !r.driving() {
			return invalid("TrafficModel", "requires DepartureTime in driving mode")
		}
	}
	return nil
}

func (r *DirectionsRequest) QueryParameters() Params {
	var params Params
	params.Add("origin", r.Origin)
	params.Add("destination", r.Destination)
	if r.TravelMode != "" {
		params.Add("mode", string(r.TravelMode))
	}
	if r.DepartureTime != nil {
		params.Add("departure_time", strconv.FormatInt(r.DepartureTime.Unix(), 10))
	}
	if r.ArrivalTime != nil {
		params.Add("arrival_time", strconv.FormatInt(r.ArrivalTime.Unix(), 10))
	}
	if len(r.Waypoints) > 0 {
		waypoints := strings.Join(r.Waypoints, "|")
		if r.OptimizeWaypoints {
			waypoints = "optimize:true|" + waypoints
		}
		params.Add("waypoints", waypoints)
	}
	if r.Alternatives {
		params.Add("alternatives", "true")
	}
	if len(r.Avoid) > 0 {
		avoid := make([]string, len(r.Avoid))
		for i, a := range r.Avoid {
			avoid[i] = string(a)
		}
		params.Add("avoid", strings.Join(avoid, "|"))
	}
	if r.Units != "" {
		params.Add("units", string(r.Units))
	}
	if len(r.TransitModes) > 0 {
		modes := make([]string, len(r.TransitModes))
		for i, m := range r.TransitModes {
			modes[i] = string(m)
		}
		params.Add("transit_mode", strings.Join(modes, "|"))
	}
	if r.TrafficModel != "" {
		params.Add("traffic_model", string(r.TrafficModel))
	}
	return params
}

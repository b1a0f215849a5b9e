package mapsapi

import (
	"strconv"
	"time"
)

// Location is a latitude/longitude pair in degrees.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// NewLocation returns a Location for lat, lng.
func NewLocation(lat, lng float64) Location {
	return Location{Latitude: lat, Longitude: lng}
}

// String renders the location the way the web services expect it in a query: "lat,lng".
func (l Location) String() string {
	return strconv.FormatFloat(l.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(l.Longitude, 'f', -1, 64)
}

type Bounds struct {
	NorthEast Location `json:"northeast"`
	SouthWest Location `json:"southwest"`
}

// Center returns the midpoint of the bounding box.
func (b Bounds) Center() Location {
	return Location{
		Latitude:  (b.NorthEast.Latitude + b.SouthWest.Latitude) / 2,
		Longitude: (b.NorthEast.Longitude + b.SouthWest.Longitude) / 2,
	}
}

// String renders the bounds as "southwest|northeast".
func (b Bounds) String() string {
	return b.SouthWest.String() + "|" + b.NorthEast.String()
}

type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type Geometry struct {
	Location     Location `json:"location"`
	LocationType string   `json:"location_type,omitempty"`
	Viewport     *Bounds  `json:"viewport,omitempty"`
	Bounds       *Bounds  `json:"bounds,omitempty"`
}

// BusinessKey holds the premium-plan credentials used for URL signing.
type BusinessKey struct {
	ClientID string
	// SigningKey is the URL-safe base64 secret issued with the client id
	SigningKey string
	Channel    string
}

// Distance is a length as reported by the directions service.
type Distance struct {
	Text   string `json:"text"`
	Meters int64  `json:"value"`
}

// Duration is a time span as reported by the directions service.
type Duration struct {
	Text    string `json:"text"`
	Seconds int64  `json:"value"`
}

// Duration converts d to a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d.Seconds) * time.Second
}

// TimeValue is a wall clock time with its time zone, used by transit legs.
type TimeValue struct {
	Text     string `json:"text"`
	TimeZone string `json:"time_zone"`
	Value    int64  `json:"value"`
}

// Time converts the epoch value to a time.Time in the reported zone when it is known.
func (t TimeValue) Time() time.Time {
	ts := time.Unix(t.Value, 0)
	if loc, err := time.LoadLocation(t.TimeZone); err == nil {
		return ts.In(loc)
	}
	return ts.UTC()
}

// Geocoding

type GeocodingResponse struct {
	Envelope
	Results []GeocodingResult `json:"results"`
}

type GeocodingResult struct {
	AddressComponents []AddressComponent `json:"address_components"`
	FormattedAddress  string             `json:"formatted_address"`
	Geometry          Geometry           `json:"geometry"`
	PlaceID           string             `json:"place_id"`
	Types             []string           `json:"types"`
	PartialMatch      bool               `json:"partial_match,omitempty"`
}

// Directions

type DirectionsResponse struct {
	Envelope
	GeocodedWaypoints []GeocodedWaypoint `json:"geocoded_waypoints,omitempty"`
	Routes            []Route            `json:"routes"`
	AvailableModes    []string           `json:"available_travel_modes,omitempty"`
}

type GeocodedWaypoint struct {
	GeocoderStatus string   `json:"geocoder_status"`
	PlaceID        string   `json:"place_id"`
	Types          []string `json:"types"`
	PartialMatch   bool     `json:"partial_match,omitempty"`
}

type Route struct {
	Summary          string   `json:"summary"`
	Legs             []Leg    `json:"legs"`
	WaypointOrder    []int    `json:"waypoint_order"`
	OverviewPolyline Polyline `json:"overview_polyline"`
	Bounds           Bounds   `json:"bounds"`
	Copyrights       string   `json:"copyrights"`
	Warnings         []string `json:"warnings"`
	Fare             *Fare    `json:"fare,omitempty"`
}

type Fare struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
	Text     string  `json:"text"`
}

type Leg struct {
	Steps             []Step     `json:"steps"`
	Distance          Distance   `json:"distance"`
	Duration          Duration   `json:"duration"`
	DurationInTraffic *Duration  `json:"duration_in_traffic,omitempty"`
	ArrivalTime       *TimeValue `json:"arrival_time,omitempty"`
	DepartureTime     *TimeValue `json:"departure_time,omitempty"`
	StartLocation     Location   `json:"start_location"`
	EndLocation       Location   `json:"end_location"`
	StartAddress      string     `json:"start_address"`
	EndAddress        string     `json:"end_address"`
}

type Step struct {
	HTMLInstructions string          `json:"html_instructions"`
	Distance         Distance        `json:"distance"`
	Duration         Duration        `json:"duration"`
	StartLocation    Location        `json:"start_location"`
	EndLocation      Location        `json:"end_location"`
	Polyline         Polyline        `json:"polyline"`
	TravelMode       string          `json:"travel_mode"`
	Maneuver         string          `json:"maneuver,omitempty"`
	Steps            []Step          `json:"steps,omitempty"`
	TransitDetails   *TransitDetails `json:"transit_details,omitempty"`
}

type TransitDetails struct {
	ArrivalStop   TransitStop `json:"arrival_stop"`
	DepartureStop TransitStop `json:"departure_stop"`
	ArrivalTime   TimeValue   `json:"arrival_time"`
	DepartureTime TimeValue   `json:"departure_time"`
	Headsign      string      `json:"headsign"`
	NumStops      int         `json:"num_stops"`
	Line          TransitLine `json:"line"`
}

type TransitStop struct {
	Name     string   `json:"name"`
	Location Location `json:"location"`
}

type TransitLine struct {
	Name      string          `json:"name"`
	ShortName string          `json:"short_name"`
	Color     string          `json:"color"`
	TextColor string          `json:"text_color"`
	Vehicle   *TransitVehicle `json:"vehicle,omitempty"`
	Agencies  []TransitAgency `json:"agencies"`
}

type TransitVehicle struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Icon string `json:"icon"`
}

type TransitAgency struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Phone string `json:"phone"`
}

// Places

type PlacesResponse struct {
	Envelope
	Results          []Place  `json:"results"`
	HTMLAttributions []string `json:"html_attributions,omitempty"`
	NextPageToken    string   `json:"next_page_token,omitempty"`
}

type Place struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	Vicinity         string        `json:"vicinity,omitempty"`
	Geometry         Geometry      `json:"geometry"`
	Types            []string      `json:"types"`
	Icon             string        `json:"icon,omitempty"`
	Rating           float64       `json:"rating,omitempty"`
	UserRatingsTotal int           `json:"user_ratings_total,omitempty"`
	PriceLevel       int           `json:"price_level,omitempty"`
	BusinessStatus   string        `json:"business_status,omitempty"`
	OpeningHours     *OpeningHours `json:"opening_hours,omitempty"`
	Photos           []Photo       `json:"photos,omitempty"`
}

type OpeningHours struct {
	OpenNow bool `json:"open_now"`
}

type Photo struct {
	Height           int      `json:"height"`
	Width            int      `json:"width"`
	PhotoReference   string   `json:"photo_reference"`
	HTMLAttributions []string `json:"html_attributions"`
}

// Place autocomplete

type PlaceAutocompleteResponse struct {
	Envelope
	Results []Prediction `json:"predictions"`
}

type Prediction struct {
	Description          string                `json:"description"`
	PlaceID              string                `json:"place_id"`
	Types                []string              `json:"types"`
	MatchedSubstrings    []MatchedSubstring    `json:"matched_substrings"`
	Terms                []PredictionTerm      `json:"terms"`
	StructuredFormatting *StructuredFormatting `json:"structured_formatting,omitempty"`
}

type MatchedSubstring struct {
	Length int `json:"length"`
	Offset int `json:"offset"`
}

type PredictionTerm struct {
	Offset int    `json:"offset"`
	Value  string `json:"value"`
}

type StructuredFormatting struct {
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}

// Elevation

type ElevationResponse struct {
	Envelope
	Results []ElevationResult `json:"results"`
}

type ElevationResult struct {
	Elevation  float64  `json:"elevation"`
	Location   Location `json:"location"`
	Resolution float64  `json:"resolution"`
}

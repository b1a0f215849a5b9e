package mapsapi

import (
	"github.com/tidwall/gjson"

	"github.com/alvillain/mapsapi/internal/json"
)

// Envelope carries the service outcome shared by every response.
type Envelope struct {
	Status       Status `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Err returns nil for OK and ZERO_RESULTS and an *APIError otherwise.
func (e *Envelope) Err() error {
	if e.Status.IsSuccess() {
		return nil
	}
	return &APIError{Status: e.Status, Message: e.ErrorMessage}
}

func (e *Envelope) envelope() *Envelope { return e }

type response interface {
	envelope() *Envelope
	// statuses lists the status codes the endpoint is documented to return.
	statuses() statusSet
	resultCount() int
}

func (r *DirectionsResponse) statuses() statusSet { return directionsStatuses }

func (r *DirectionsResponse) resultCount() int { return len(r.Routes) }

func (r *GeocodingResponse) statuses() statusSet { return commonStatuses }

func (r *GeocodingResponse) resultCount() int { return len(r.Results) }

func (r *PlacesResponse) statuses() statusSet { return placesStatuses }

func (r *PlacesResponse) resultCount() int { return len(r.Results) }

func (r *PlaceAutocompleteResponse) statuses() statusSet { return placesStatuses }

func (r *PlaceAutocompleteResponse) resultCount() int { return len(r.Results) }

func (r *ElevationResponse) statuses() statusSet { return commonStatuses }

func (r *ElevationResponse) resultCount() int { return len(r.Results) }

// resolve decodes body into resp. On error resp must be discarded.
func resolve(body []byte, resp response) error {
	if !gjson.ValidBytes(body) {
		return &ParseError{Msg: "body is not valid JSON"}
	}
	field := gjson.GetBytes(body, "status")
	if !field.Exists() {
		return &ParseError{Msg: "missing status field"}
	}
	if field.Type != gjson.String {
		return &ParseError{Msg: "status field is not a string: " + field.Raw}
	}
	status, err := ParseStatus(field.Str)
	if err != nil {
		return err
	}
	if !resp.statuses().contains(status) {
		return &ParseError{Msg: "status " + status.String() + " is not expected from this endpoint"}
	}

	if err := json.Unmarshal(body, resp); err != nil {
		return &ParseError{Msg: "decode body", Err: err}
	}
	resp.envelope().Status = status

	if status == StatusZeroResults && resp.resultCount() > 0 {
		return &ParseError{Msg: "ZERO_RESULTS response carries results"}
	}
	return nil
}

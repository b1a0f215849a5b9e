package mapsapi

import "fmt"

// Status is the per-call outcome code reported by the web service in the
// top-level "status" field. It is distinct from the HTTP status.
type Status int

const (
	StatusUnset Status = iota
	StatusOK
	StatusZeroResults
	StatusOverQueryLimit
	StatusOverDailyLimit
	StatusRequestDenied
	StatusInvalidRequest
	StatusUnknownError
	StatusNotFound
	StatusMaxWaypointsExceeded
	StatusMaxRouteLengthExceeded
)

var statusNames = map[Status]string{
	StatusOK:                     "OK",
	StatusZeroResults:            "ZERO_RESULTS",
	StatusOverQueryLimit:         "OVER_QUERY_LIMIT",
	StatusOverDailyLimit:         "OVER_DAILY_LIMIT",
	StatusRequestDenied:          "REQUEST_DENIED",
	StatusInvalidRequest:         "INVALID_REQUEST",
	StatusUnknownError:           "UNKNOWN_ERROR",
	StatusNotFound:               "NOT_FOUND",
	StatusMaxWaypointsExceeded:   "MAX_WAYPOINTS_EXCEEDED",
	StatusMaxRouteLengthExceeded: "MAX_ROUTE_LENGTH_EXCEEDED",
}

var statusByName = func() map[string]Status {
	m := make(map[string]Status, len(statusNames))
	for s, name := range statusNames {
		m[name] = s
	}
	return m
}()

// ParseStatus maps the wire representation onto a Status. Strings outside
// the table are rejected rather than folded into StatusUnknownError.
func ParseStatus(s string) (Status, error) {
	st, ok := statusByName[s]
	if !ok {
		return StatusUnset, &ParseError{Msg: fmt.Sprintf("unrecognized status %q", s)}
	}
	return st, nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("mapsapi: cannot marshal %v", s)
	}
	return []byte(name), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	st, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// IsSuccess reports whether the call completed normally (OK or ZERO_RESULTS).
func (s Status) IsSuccess() bool {
	return s == StatusOK || s == StatusZeroResults
}

// IsTransient reports whether repeating the same call later may succeed.
// The client never repeats calls itself.
func (s Status) IsTransient() bool {
	switch s {
	case StatusOverQueryLimit, StatusOverDailyLimit, StatusUnknownError:
		return true
	}
	return false
}

// IsFatal reports whether the service declined the call because of the
// request or the account configuration.
func (s Status) IsFatal() bool {
	return s != StatusUnset && !s.IsSuccess() && !s.IsTransient()
}

type statusSet map[Status]struct{}

func newStatusSet(extra ...Status) statusSet {
	set := statusSet{
		StatusOK:             {},
		StatusZeroResults:    {},
		StatusOverQueryLimit: {},
		StatusOverDailyLimit: {},
		StatusRequestDenied:  {},
		StatusInvalidRequest: {},
		StatusUnknownError:   {},
	}
	for _, s := range extra {
		set[s] = struct{}{}
	}
	return set
}

var (
	commonStatuses     = newStatusSet()
	directionsStatuses = newStatusSet(StatusNotFound, StatusMaxWaypointsExceeded, StatusMaxRouteLengthExceeded)
	placesStatuses     = newStatusSet(StatusNotFound)
)

func (set statusSet) contains(s Status) bool {
	_, ok := set[s]
	return ok
}

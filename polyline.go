package mapsapi

import (
	"fmt"
	"math"
	"strings"

	"github.com/alvillain/mapsapi/internal/json"
)

// polylinePrecision is the quantization step of the encoded polyline format: 1e-5 degrees.
const polylinePrecision = 1e5

// Polyline is a route geometry in both its encoded and decoded forms.
type Polyline struct {
	Encoded string     `json:"points"`
	Points  []Location `json:"-"`
}

// NewPolyline builds a Polyline from points, computing the encoded form.
func NewPolyline(points []Location) Polyline {
	return Polyline{Encoded: EncodePolyline(points), Points: points}
}

// UnmarshalJSON reads {"points": "<encoded>"} and decodes the points eagerly.
func (p *Polyline) UnmarshalJSON(b []byte) error {
	var raw struct {
		Points string `json:"points"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	points, err := DecodePolyline(raw.Points)
	if err != nil {
		return err
	}
	p.Encoded = raw.Points
	p.Points = points
	return nil
}

// DecodePolyline expands an encoded polyline into its points.
func DecodePolyline(encoded string) ([]Location, error) {
	var (
		points   []Location
		lat, lng int64
		pos      int
	)
	for pos < len(encoded) {
		dlat, next, err := decodePolylineValue(encoded, pos)
		if err != nil {
			return nil, err
		}
		if next >= len(encoded) {
			return nil, fmt.Errorf("polyline: latitude at offset %d has no longitude", pos)
		}
		dlng, next, err := decodePolylineValue(encoded, next)
		if err != nil {
			return nil, err
		}
		pos = next

		lat += dlat
		lng += dlng
		points = append(points, Location{
			Latitude:  float64(lat) / polylinePrecision,
			Longitude: float64(lng) / polylinePrecision,
		})
	}
	return points, nil
}

// decodePolylineValue reads one zig-zag encoded integer starting at pos and
// returns it together with the offset of the following character.
func decodePolylineValue(s string, pos int) (int64, int, error) {
	var (
		result int64
		shift  uint
	)
	for {
		if pos >= len(s) {
			return 0, pos, fmt.Errorf("polyline: truncated value at end of input")
		}
		chunk := int64(s[pos]) - 63
		if chunk < 0 || chunk > 0x3f {
			return 0, pos, fmt.Errorf("polyline: invalid character %q at offset %d", s[pos], pos)
		}
		pos++

		if shift >= 60 && chunk&0x1f > 0x0f {
			return 0, pos, fmt.Errorf("polyline: value at offset %d overflows", pos)
		}
		result |= (chunk & 0x1f) << shift
		shift += 5
		if chunk&0x20 == 0 {
			break
		}
		if shift > 60 {
			return 0, pos, fmt.Errorf("polyline: value at offset %d overflows", pos)
		}
	}
	if result&1 != 0 {
		return ^(result >> 1), pos, nil
	}
	return result >> 1, pos, nil
}

// EncodePolyline compresses points into the encoded polyline format.
// Coordinates are rounded to 1e-5 degrees.
func EncodePolyline(points []Location) string {
	var (
		b                strings.Builder
		prevLat, prevLng int64
	)
	b.Grow(len(points) * 8)
	for _, p := range points {
		lat := int64(math.Round(p.Latitude * polylinePrecision))
		lng := int64(math.Round(p.Longitude * polylinePrecision))
		encodePolylineValue(&b, lat-prevLat)
		encodePolylineValue(&b, lng-prevLng)
		prevLat, prevLng = lat, lng
	}
	return b.String()
}

func encodePolylineValue(b *strings.Builder, v int64) {
	u := uint64((v << 1) ^ (v >> 63))
	for u >= 0x20 {
		b.WriteByte(byte((0x20 | (u & 0x1f)) + 63))
		u >>= 5
	}
	b.WriteByte(byte(u + 63))
}

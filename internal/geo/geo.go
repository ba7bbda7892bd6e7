// Package geo converts listing coordinates between GeoJSON (API) and WKB
// (storage) and measures distances for radius search.
package geo

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

const earthRadiusKm = 6371.0

var ErrNotPoint = errors.New("geometry must be a GeoJSON Point")

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lng float64
}

func (p Point) validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %v out of range", p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude %v out of range", p.Lng)
	}
	return nil
}

// PointToWKB parses a GeoJSON Point and returns its WKB encoding.
func PointToWKB(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("invalid geometry: %w", err)
	}
	pt, ok := g.(*geom.Point)
	if !ok {
		return nil, ErrNotPoint
	}
	if err := (Point{Lat: pt.Y(), Lng: pt.X()}).validate(); err != nil {
		return nil, err
	}
	return wkb.Marshal(pt, binary.LittleEndian)
}

// WKBToGeoJSON converts stored WKB bytes into GeoJSON. Empty input yields nil.
func WKBToGeoJSON(b []byte) (json.RawMessage, error) {
	if len(b) == 0 {
		return nil, nil
	}
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	out, err := gjson.Marshal(g)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PointFromWKB decodes a stored point.
func PointFromWKB(b []byte) (Point, error) {
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return Point{}, err
	}
	pt, ok := g.(*geom.Point)
	if !ok {
		return Point{}, ErrNotPoint
	}
	return Point{Lat: pt.Y(), Lng: pt.X()}, nil
}

// ParseLatLng parses "lat,lng".
func ParseLatLng(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("expected \"lat,lng\", got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("longitude: %w", err)
	}
	p := Point{Lat: lat, Lng: lng}
	if err := p.validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// DistanceKm is the great-circle distance between a and b.
func DistanceKm(a, b Point) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

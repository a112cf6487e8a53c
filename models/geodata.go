package models

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"

	"nearby-search-system/geohash"
)

// GeoData is the location value stored on every place record. Geohash is
// always the full-precision encoding of the coordinates and is re-derived
// whenever they change.
type GeoData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Geohash   string  `json:"geohash"`
}

// NewGeoData validates the coordinates and derives the stored hash.
func NewGeoData(lat, lon float64) (GeoData, error) {
	if lat < -90 || lat > 90 {
		return GeoData{}, fmt.Errorf("%w: latitude %v out of range [-90, 90]", geohash.ErrInvalidInput, lat)
	}
	if lon < -180 || lon > 180 {
		return GeoData{}, fmt.Errorf("%w: longitude %v out of range [-180, 180]", geohash.ErrInvalidInput, lon)
	}
	return GeoData{
		Latitude:  lat,
		Longitude: lon,
		Geohash:   geohash.Encode(lat, lon, geohash.StoredPrecision),
	}, nil
}

// FieldMap is the nested-map form persisted under the configured field path.
func (g GeoData) FieldMap() map[string]interface{} {
	return map[string]interface{}{
		"latitude":  g.Latitude,
		"longitude": g.Longitude,
		"geohash":   g.Geohash,
	}
}

// Point returns the location as an orb point (lon, lat order).
func (g GeoData) Point() orb.Point {
	return orb.Point{g.Longitude, g.Latitude}
}

// GeoJSONPoint is the GeoJSON representation kept alongside the raw
// coordinates for interoperability with PostGIS-style consumers.
type GeoJSONPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// ToGeoJSON converts the location to a GeoJSON point.
func (g GeoData) ToGeoJSON() GeoJSONPoint {
	p := g.Point()
	return GeoJSONPoint{
		Type:        "Point",
		Coordinates: []float64{p.Lon(), p.Lat()},
	}
}

// FieldAt walks a dotted path through nested field maps.
func FieldAt(fields map[string]interface{}, path string) (interface{}, bool) {
	var v interface{} = fields
	for _, part := range strings.Split(path, ".") {
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, false
		}
		v, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return v, true
}

// SetFieldAt writes a value at a dotted path, creating intermediate maps
// as needed.
func SetFieldAt(fields map[string]interface{}, path string, v interface{}) {
	parts := strings.Split(path, ".")
	m := fields
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = v
}

// GeoDataAt resolves the value at a dotted path and interprets it as a
// stored location. The second return is false when the path does not
// resolve or the value has no usable coordinates.
func GeoDataAt(fields map[string]interface{}, path string) (GeoData, bool) {
	v, ok := FieldAt(fields, path)
	if !ok {
		return GeoData{}, false
	}
	return GeoDataFromValue(v)
}

// GeoDataFromValue interprets a document field value as a stored location.
// It accepts a GeoData value, a {latitude, longitude, geohash} map, or a
// GeoJSON point map.
func GeoDataFromValue(v interface{}) (GeoData, bool) {
	switch val := v.(type) {
	case GeoData:
		return val, true
	case map[string]interface{}:
		if t, _ := val["type"].(string); t == "Point" {
			return geoDataFromGeoJSON(val)
		}
		lat, okLat := toFloat(val["latitude"])
		lon, okLon := toFloat(val["longitude"])
		if !okLat || !okLon {
			return GeoData{}, false
		}
		g := GeoData{Latitude: lat, Longitude: lon}
		if h, ok := val["geohash"].(string); ok {
			g.Geohash = h
		} else {
			g.Geohash = geohash.Encode(lat, lon, geohash.StoredPrecision)
		}
		return g, true
	}
	return GeoData{}, false
}

func geoDataFromGeoJSON(val map[string]interface{}) (GeoData, bool) {
	coords, ok := val["coordinates"].([]interface{})
	if !ok || len(coords) < 2 {
		return GeoData{}, false
	}
	lon, okLon := toFloat(coords[0])
	lat, okLat := toFloat(coords[1])
	if !okLon || !okLat {
		return GeoData{}, false
	}
	p := orb.Point{lon, lat}
	return GeoData{
		Latitude:  p.Lat(),
		Longitude: p.Lon(),
		Geohash:   geohash.Encode(p.Lat(), p.Lon(), geohash.StoredPrecision),
	}, true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

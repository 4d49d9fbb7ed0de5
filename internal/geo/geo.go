// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

// Package geo provides great-circle distance helpers used by the
// recommendation strategies and the professional ranking.
//
// All inputs are decimal degrees and all distances are kilometers. The
// unrounded distance is used for every comparison; Round2 exists only for
// values that end up in API responses.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// DefaultRadiusKm is the search radius used for location scoring.
const DefaultRadiusKm = 50.0

// Point is a coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Box is a latitude/longitude rectangle used as a coarse range prefilter.
type Box struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func toDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// Distance returns the haversine distance between two coordinates in km.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	deltaLat := toRadians(lat2 - lat1)
	deltaLon := toRadians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	// Rounding can push a just past 1 for antipodal points.
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// DistanceBetween is Distance for two Points.
func DistanceBetween(a, b Point) float64 {
	return Distance(a.Lat, a.Lon, b.Lat, b.Lon)
}

// DistanceRounded returns Distance rounded to 2 decimal places.
func DistanceRounded(lat1, lon1, lat2, lon2 float64) float64 {
	return Round2(Distance(lat1, lon1, lat2, lon2))
}

// Round2 rounds a kilometer value to 2 decimal places for display.
func Round2(km float64) float64 {
	return math.Round(km*100) / 100
}

// WithinRadius reports whether the two coordinates are at most radiusKm apart.
func WithinRadius(lat1, lon1, lat2, lon2, radiusKm float64) bool {
	return Distance(lat1, lon1, lat2, lon2) <= radiusKm
}

// BoundingBox returns the rectangle enclosing a circle of radiusKm around
// (lat, lon). The box over-approximates the circle, so callers must confirm
// membership with Distance or WithinRadius.
func BoundingBox(lat, lon, radiusKm float64) Box {
	latDelta := toDegrees(radiusKm / EarthRadiusKm)

	cosLat := math.Cos(toRadians(lat))
	var lonDelta float64
	if cosLat < 1e-12 {
		// At a pole every longitude is within range.
		lonDelta = 180
	} else {
		lonDelta = math.Min(180, latDelta/cosLat)
	}

	return Box{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLon: lon - lonDelta,
		MaxLon: lon + lonDelta,
	}
}

// LonRange is a closed longitude interval inside [-180, 180].
type LonRange struct {
	Min float64
	Max float64
}

// LonRanges returns the box's longitude span folded into [-180, 180]. A box
// that crosses the antimeridian yields two ranges, one on each side of it.
func (b Box) LonRanges() []LonRange {
	switch {
	case b.MaxLon-b.MinLon >= 360:
		return []LonRange{{Min: -180, Max: 180}}
	case b.MinLon < -180:
		return []LonRange{{Min: b.MinLon + 360, Max: 180}, {Min: -180, Max: b.MaxLon}}
	case b.MaxLon > 180:
		return []LonRange{{Min: b.MinLon, Max: 180}, {Min: -180, Max: b.MaxLon - 360}}
	default:
		return []LonRange{{Min: b.MinLon, Max: b.MaxLon}}
	}
}

// Contains reports whether the coordinate lies inside the box.
func (b Box) Contains(lat, lon float64) bool {
	if lat < b.MinLat || lat > b.MaxLat {
		return false
	}
	for _, r := range b.LonRanges() {
		if lon >= r.Min && lon <= r.Max {
			return true
		}
	}
	return false
}

// ProximityScore maps a distance onto a linear score: 1 at distance 0,
// falling to 0 at radiusKm. The second result is false when the distance is
// outside the radius.
func ProximityScore(distanceKm, radiusKm float64) (float64, bool) {
	if radiusKm <= 0 || distanceKm > radiusKm {
		return 0, false
	}
	return 1 - distanceKm/radiusKm, true
}

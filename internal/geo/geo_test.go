// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		lat1      float64
		lon1      float64
		lat2      float64
		lon2      float64
		expected  float64
		tolerance float64
	}{
		{
			name: "Kabul to Herat",
			lat1: 34.5553, lon1: 69.2075,
			lat2: 34.3482, lon2: 62.1997,
			expected:  644,
			tolerance: 5,
		},
		{
			name: "NYC to London",
			lat1: 40.7128, lon1: -74.0060,
			lat2: 51.5074, lon2: -0.1278,
			expected:  5570,
			tolerance: 50,
		},
		{
			name: "same point",
			lat1: 34.5553, lon1: 69.2075,
			lat2: 34.5553, lon2: 69.2075,
			expected:  0,
			tolerance: 0,
		},
		{
			name: "antipodal points",
			lat1: 0, lon1: 0,
			lat2: 0, lon2: 180,
			expected:  math.Pi * EarthRadiusKm,
			tolerance: 0.001,
		},
		{
			name: "pole to pole",
			lat1: 90, lon1: 0,
			lat2: -90, lon2: 0,
			expected:  math.Pi * EarthRadiusKm,
			tolerance: 0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.IsNaN(got) {
				t.Fatalf("Distance() returned NaN")
			}
			if math.Abs(got-tt.expected) > tt.tolerance {
				t.Errorf("Distance() = %.3f km, want %.3f ± %.3f", got, tt.expected, tt.tolerance)
			}
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	t.Parallel()

	points := []Point{
		{34.5553, 69.2075},
		{34.3482, 62.1997},
		{-33.8688, 151.2093},
		{51.5074, -0.1278},
		{89.9, 10},
		{0, -179.9},
	}

	for _, a := range points {
		if d := DistanceBetween(a, a); d != 0 {
			t.Errorf("DistanceBetween(%v, %v) = %v, want 0", a, a, d)
		}
		for _, b := range points {
			ab := DistanceBetween(a, b)
			ba := DistanceBetween(b, a)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("distance not symmetric for %v/%v: %v vs %v", a, b, ab, ba)
			}
		}
	}
}

func TestDistanceRounded(t *testing.T) {
	t.Parallel()

	got := DistanceRounded(34.5553, 69.2075, 34.3482, 62.1997)
	if got != math.Round(got*100)/100 {
		t.Errorf("DistanceRounded() = %v has more than 2 decimals", got)
	}
	if Round2(12.3456) != 12.35 {
		t.Errorf("Round2(12.3456) = %v, want 12.35", Round2(12.3456))
	}
}

func TestWithinRadiusMatchesDistance(t *testing.T) {
	t.Parallel()

	origin := Point{34.5553, 69.2075}
	radii := []float64{0, 1, 10, 49.99, 50, 100, 700}

	for dLat := -1.0; dLat <= 1.0; dLat += 0.25 {
		for dLon := -1.0; dLon <= 1.0; dLon += 0.25 {
			other := Point{origin.Lat + dLat, origin.Lon + dLon}
			d := DistanceBetween(origin, other)
			for _, r := range radii {
				got := WithinRadius(origin.Lat, origin.Lon, other.Lat, other.Lon, r)
				if got != (d <= r) {
					t.Errorf("WithinRadius(%v, %v, %v) = %v, distance %v", origin, other, r, got, d)
				}
			}
		}
	}
}

func TestBoundingBox(t *testing.T) {
	t.Parallel()

	t.Run("contains points within radius", func(t *testing.T) {
		t.Parallel()
		origin := Point{34.5553, 69.2075}
		box := BoundingBox(origin.Lat, origin.Lon, 50)

		for dLat := -0.5; dLat <= 0.5; dLat += 0.05 {
			for dLon := -0.6; dLon <= 0.6; dLon += 0.05 {
				p := Point{origin.Lat + dLat, origin.Lon + dLon}
				if WithinRadius(origin.Lat, origin.Lon, p.Lat, p.Lon, 50) && !box.Contains(p.Lat, p.Lon) {
					t.Errorf("box %+v excludes in-radius point %v", box, p)
				}
			}
		}
	})

	t.Run("corner is inside box but outside radius", func(t *testing.T) {
		t.Parallel()
		box := BoundingBox(0, 0, 50)
		if !box.Contains(box.MaxLat, box.MaxLon) {
			t.Fatal("box should contain its own corner")
		}
		if WithinRadius(0, 0, box.MaxLat, box.MaxLon, 50) {
			t.Error("box corner should be outside the radius")
		}
	})

	t.Run("latitude delta", func(t *testing.T) {
		t.Parallel()
		box := BoundingBox(10, 20, EarthRadiusKm*math.Pi/180)
		if math.Abs(box.MaxLat-11) > 1e-9 || math.Abs(box.MinLat-9) > 1e-9 {
			t.Errorf("latitude range = [%v, %v], want [9, 11]", box.MinLat, box.MaxLat)
		}
	})

	t.Run("wraps across the antimeridian", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name   string
			origin Point
			other  Point
		}{
			{"east of the line", Point{-16.5, 179.95}, Point{-16.5, -179.95}},
			{"west of the line", Point{-16.5, -179.95}, Point{-16.5, 179.95}},
			{"exactly on the line", Point{65.0, 180}, Point{65.1, -179.8}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				if !WithinRadius(tt.origin.Lat, tt.origin.Lon, tt.other.Lat, tt.other.Lon, 50) {
					t.Fatalf("%v and %v should be within 50 km", tt.origin, tt.other)
				}
				box := BoundingBox(tt.origin.Lat, tt.origin.Lon, 50)
				if !box.Contains(tt.other.Lat, tt.other.Lon) {
					t.Errorf("box %+v excludes in-radius point %v", box, tt.other)
				}
				if got := len(box.LonRanges()); got != 2 {
					t.Errorf("LonRanges() returned %d ranges, want 2", got)
				}
				if box.Contains(tt.other.Lat, 0) {
					t.Errorf("box %+v should not contain longitude 0", box)
				}
			})
		}
	})

	t.Run("lon ranges stay inside the valid interval", func(t *testing.T) {
		t.Parallel()
		for _, lon := range []float64{-180, -179.9, -90, 0, 90, 179.9, 180} {
			for _, r := range BoundingBox(-16.5, lon, 50).LonRanges() {
				if r.Min < -180 || r.Max > 180 || r.Min > r.Max {
					t.Errorf("BoundingBox(-16.5, %v).LonRanges() has range %+v", lon, r)
				}
			}
		}
		if got := BoundingBox(89.99, 0, 50).LonRanges(); len(got) != 1 || got[0] != (LonRange{Min: -180, Max: 180}) {
			t.Errorf("polar box LonRanges() = %+v, want the full circle", got)
		}
	})

	t.Run("pole does not divide by zero", func(t *testing.T) {
		t.Parallel()
		box := BoundingBox(90, 0, 50)
		if math.IsInf(box.MaxLon, 0) || math.IsNaN(box.MaxLon) {
			t.Errorf("pole box longitude = %v", box.MaxLon)
		}
	})
}

func TestProximityScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		distance float64
		want     float64
		ok       bool
	}{
		{"at origin", 0, 1, true},
		{"halfway", 25, 0.5, true},
		{"at edge", 50, 0, true},
		{"outside", 50.01, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ProximityScore(tt.distance, DefaultRadiusKm)
			if ok != tt.ok || math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ProximityScore(%v) = (%v, %v), want (%v, %v)", tt.distance, got, ok, tt.want, tt.ok)
			}
		})
	}
}

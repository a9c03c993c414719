package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	// Reference distances computed on the same spherical model
	// (R = 6371 km), so tolerances can be tight.
	cases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		wantKm                 float64
	}{
		{"Paris to London", 48.8566, 2.3522, 51.5074, -0.1278, 343.5},
		{"New York to Los Angeles", 40.7128, -74.0060, 34.0522, -118.2437, 3935.7},
		{"Bangalore to Chennai", 12.9716, 77.5946, 13.0827, 80.2707, 290.2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := HaversineKm(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
			assert.InDelta(t, tc.wantKm, got, tc.wantKm*0.01)
		})
	}
}

func TestHaversineKmZeroDistance(t *testing.T) {
	assert.Equal(t, 0.0, HaversineKm(12.9716, 77.5946, 12.9716, 77.5946))
}

func TestHaversineKmSymmetric(t *testing.T) {
	ab := HaversineKm(48.8566, 2.3522, 51.5074, -0.1278)
	ba := HaversineKm(51.5074, -0.1278, 48.8566, 2.3522)
	assert.InDelta(t, ab, ba, 1e-9)
}

func TestBoundingBox(t *testing.T) {
	box := boundingBox(12.9716, 77.5946, 11.1)

	delta := 11.1 / 111.0
	assert.InDelta(t, 12.9716-delta, box.MinLat, 1e-9)
	assert.InDelta(t, 12.9716+delta, box.MaxLat, 1e-9)
	assert.InDelta(t, 77.5946-delta, box.MinLng, 1e-9)
	assert.InDelta(t, 77.5946+delta, box.MaxLng, 1e-9)
}

func TestBoundingBoxContainsRadius(t *testing.T) {
	// A point radiusKm due north must land inside the box.
	lat, lng, radius := 12.9716, 77.5946, 10.0
	box := boundingBox(lat, lng, radius)

	north := lat + radius/111.0
	assert.LessOrEqual(t, north, box.MaxLat+1e-9)
	assert.GreaterOrEqual(t, lat-radius/111.0, box.MinLat-1e-9)
}

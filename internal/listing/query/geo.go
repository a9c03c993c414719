package query

import "math"

const (
	earthRadiusKm = 6371.0

	// kmPerDegree is the rough length of one degree of latitude. Longitude
	// degrees shrink toward the poles; no correction is applied, which is an
	// accepted approximation for city-scale radii since the box is only a
	// prefilter superset of the true circle.
	kmPerDegree = 111.0
)

// HaversineKm returns the great-circle distance in kilometers between two
// latitude/longitude points.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// boundingBox returns the rectangular window around (lat, lng) that contains
// every point within radiusKm.
func boundingBox(lat, lng, radiusKm float64) GeoBox {
	delta := radiusKm / kmPerDegree
	return GeoBox{
		MinLat: lat - delta,
		MaxLat: lat + delta,
		MinLng: lng - delta,
		MaxLng: lng + delta,
	}
}

// Package geo provides great-circle distance and the supported-region
// bounding box used as a sanity filter for Brandenburg waters.
package geo

import "math"

// earthRadiusKm is the mean Earth radius.
const earthRadiusKm = 6371

// Supported region bounding box, inclusive on all edges.
const (
	MinLat = 47.0
	MaxLat = 55.0
	MinLng = 5.0
	MaxLng = 16.0
)

// DistanceKm returns the haversine distance between two points in kilometers.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// InSupportedRegion reports whether the point lies inside the supported
// bounding box. Boundary values are inside.
func InSupportedRegion(lat, lng float64) bool {
	return lat >= MinLat && lat <= MaxLat && lng >= MinLng && lng <= MaxLng
}

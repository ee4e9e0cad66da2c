// Package geo has the small amount of spherical geometry the service needs
// for proximity checks and upstream bounding-box queries.
package geo

import (
	"math"
)

const (
	earthRadiusMeters = 6_371_000.0
	feetPerMeter      = 3.28084
	metersPerDegree   = 111_000.0
)

// DistanceMeters is the great-circle distance between two points (haversine).
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)
	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Pow(math.Sin(dLon/2), 2)
	return earthRadiusMeters * 2 * math.Asin(math.Sqrt(a))
}

func MetersToFeet(m float64) float64 {
	return m * feetPerMeter
}

// BoundingBox is a lat/lon rectangle around a center point.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// BoxAround builds a bounding box covering radiusM meters around a point.
// The longitude span is widened by the cosine of the latitude, floored so
// the box never degenerates near the poles.
func BoxAround(lat, lon float64, radiusM int) BoundingBox {
	latDelta := float64(radiusM) / metersPerDegree
	lonScale := math.Max(math.Cos(radians(lat)), 0.1)
	lonDelta := float64(radiusM) / (metersPerDegree * lonScale)
	return BoundingBox{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLon: lon - lonDelta,
		MaxLon: lon + lonDelta,
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

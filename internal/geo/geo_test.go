package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMetersZero(t *testing.T) {
	assert.InDelta(t, 0, DistanceMeters(40.7128, -74.0060, 40.7128, -74.0060), 0.001)
}

func TestDistanceMetersKnownPair(t *testing.T) {
	// City Hall to the Brooklyn Bridge entrance, roughly 250 m.
	d := DistanceMeters(40.7127, -74.0059, 40.7112, -74.0035)
	assert.InDelta(t, 265, d, 30)
}

func TestDistanceMetersOneDegreeLatitude(t *testing.T) {
	d := DistanceMeters(40.0, -74.0, 41.0, -74.0)
	assert.InDelta(t, 111_000, d, 1_000)
}

func TestMetersToFeet(t *testing.T) {
	assert.InDelta(t, 3.28084, MetersToFeet(1), 0.00001)
	assert.InDelta(t, 49.2126, MetersToFeet(15), 0.001)
}

func TestBoxAround(t *testing.T) {
	box := BoxAround(40.7128, -74.0060, 100)

	assert.Less(t, box.MinLat, 40.7128)
	assert.Greater(t, box.MaxLat, 40.7128)
	assert.Less(t, box.MinLon, -74.0060)
	assert.Greater(t, box.MaxLon, -74.0060)

	// Longitude span widens with latitude.
	latSpan := box.MaxLat - box.MinLat
	lonSpan := box.MaxLon - box.MinLon
	assert.Greater(t, lonSpan, latSpan)
	assert.InDelta(t, 2*100.0/111_000, latSpan, 0.00001)
}

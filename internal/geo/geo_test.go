package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters_KnownPairs(t *testing.T) {
	// Plaza Nueva to the Alhambra, roughly 750m as the crow flies.
	d := DistanceMeters(37.1773, -3.5986, 37.1761, -3.5881)
	assert.InDelta(t, 940, d, 60)

	// Madrid to Barcelona, roughly 505km.
	d = DistanceMeters(40.4168, -3.7038, 41.3874, 2.1686)
	assert.InDelta(t, 505_000, d, 5_000)
}

func TestDistanceMeters_ZeroForSamePoint(t *testing.T) {
	assert.Equal(t, 0.0, DistanceMeters(37.18, -3.6, 37.18, -3.6))
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	a := DistanceMeters(37.18, -3.6, 40.41, -3.70)
	b := DistanceMeters(40.41, -3.70, 37.18, -3.6)
	assert.InDelta(t, a, b, 1e-9)
}

func TestNewBoundingBox_CoversRadius(t *testing.T) {
	const lat, lng, radius = 37.18, -3.6, 5_000.0
	box := NewBoundingBox(lat, lng, radius)

	assert.True(t, box.Contains(lat, lng))
	// Points radius meters due north/south/east/west must fall inside.
	latDelta := radius / 111_320
	assert.True(t, box.Contains(lat+latDelta, lng))
	assert.True(t, box.Contains(lat-latDelta, lng))
	assert.False(t, box.Contains(lat+10*latDelta, lng))
}

func TestNewBoundingBox_ClampsAtPole(t *testing.T) {
	box := NewBoundingBox(89.9999, 0, 50_000)
	assert.LessOrEqual(t, box.MaxLat, 90.0)
	assert.GreaterOrEqual(t, box.MinLng, -180.0)
	assert.LessOrEqual(t, box.MaxLng, 180.0)
}

func TestNewBoundingBox_WiderLngAtHighLatitude(t *testing.T) {
	equator := NewBoundingBox(0, 0, 10_000)
	north := NewBoundingBox(60, 0, 10_000)

	equatorWidth := equator.MaxLng - equator.MinLng
	northWidth := north.MaxLng - north.MinLng
	assert.Greater(t, northWidth, equatorWidth)
}

// Package geo provides the cheap bounding-box pre-filter and the exact
// great-circle distance used by nearby search.
package geo

import "math"

const (
	earthRadiusMeters = 6_371_000
	// metersPerDegreeLat is close enough everywhere for a conservative
	// pre-filter; longitude degrees shrink with cos(lat).
	metersPerDegreeLat = 111_320
)

// BoundingBox is an axis-aligned lat/lng range that fully covers the search
// circle. It is intentionally wider than the circle, so every candidate must
// still pass the exact DistanceMeters cut-off.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// NewBoundingBox converts a center and radius to a degree-delta box. Near the
// poles cos(lat) approaches zero; the longitude delta is clamped to the full
// range instead of blowing up.
func NewBoundingBox(lat, lng, radiusMeters float64) BoundingBox {
	latDelta := radiusMeters / metersPerDegreeLat

	cosLat := math.Cos(lat * math.Pi / 180)
	lngDelta := 180.0
	if cosLat > 1e-6 {
		lngDelta = radiusMeters / (metersPerDegreeLat * cosLat)
	}

	return BoundingBox{
		MinLat: math.Max(lat-latDelta, -90),
		MaxLat: math.Min(lat+latDelta, 90),
		MinLng: math.Max(lng-lngDelta, -180),
		MaxLng: math.Min(lng+lngDelta, 180),
	}
}

// Contains reports whether the point falls inside the box.
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// DistanceMeters computes the haversine great-circle distance between two
// points.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

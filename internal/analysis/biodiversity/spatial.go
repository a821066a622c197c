package biodiversity

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// SpreadReferenceMeters is the mean distance from the centroid that maps to
// a spatial spread of 1.
const SpreadReferenceMeters = 1000.0

// SpatialSpread measures how dispersed a species' sightings are: the mean
// great-circle distance of each point from the points' centroid divided by
// SpreadReferenceMeters, clamped to [0,1]. Fewer than two points give
// DefaultSpatialSpread.
func SpatialSpread(points []orb.Point) float64 {
	if len(points) < 2 {
		return DefaultSpatialSpread
	}

	center := centroid(points)
	sum := 0.0
	for _, p := range points {
		sum += geo.Distance(center, p)
	}
	spread := sum / float64(len(points)) / SpreadReferenceMeters

	return min(max(spread, 0), 1)
}

// centroid is the arithmetic mean of the points. Study sites span a few
// kilometres, where the planar mean is accurate enough.
func centroid(points []orb.Point) orb.Point {
	var lng, lat float64
	for _, p := range points {
		lng += p.Lon()
		lat += p.Lat()
	}
	n := float64(len(points))
	return orb.Point{lng / n, lat / n}
}

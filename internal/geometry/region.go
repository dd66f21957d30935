package geometry

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"propwatch/server/config"
	"propwatch/server/internal/models"
)

// points collects the coordinates of properties that have them.
func points(properties []models.Property) orb.MultiPoint {
	var mp orb.MultiPoint
	for _, p := range properties {
		if p.Latitude == nil || p.Longitude == nil {
			continue
		}
		mp = append(mp, orb.Point{*p.Longitude, *p.Latitude})
	}
	return mp
}

// Centroid returns the mean coordinate of the properties that carry
// one. The second return is false when no property has coordinates.
func Centroid(properties []models.Property) (orb.Point, bool) {
	mp := points(properties)
	if len(mp) == 0 {
		return orb.Point{}, false
	}
	var sumLon, sumLat float64
	for _, p := range mp {
		sumLon += p.Lon()
		sumLat += p.Lat()
	}
	n := float64(len(mp))
	return orb.Point{sumLon / n, sumLat / n}, true
}

// Bound returns the bounding box of the properties' coordinates, or
// nil when none carry coordinates.
func Bound(properties []models.Property) *models.RegionBounds {
	mp := points(properties)
	if len(mp) == 0 {
		return nil
	}
	b := mp.Bound()
	return &models.RegionBounds{
		SouthWest: models.Coordinates{Lat: b.Min.Lat(), Lng: b.Min.Lon()},
		NorthEast: models.Coordinates{Lat: b.Max.Lat(), Lng: b.Max.Lon()},
	}
}

// NearestCity finds the known city centroid closest to a point and the
// great-circle distance to it in meters. Iteration is over sorted names
// so equidistant ties resolve the same way every call.
func NearestCity(p orb.Point) (string, float64) {
	centroids := config.CityCentroids()
	names := make([]string, 0, len(centroids))
	for name := range centroids {
		names = append(names, name)
	}
	sort.Strings(names)

	var nearest string
	var best float64
	for _, name := range names {
		d := geo.Distance(p, centroids[name])
		if nearest == "" || d < best {
			nearest = name
			best = d
		}
	}
	return nearest, best
}

// Package geo has the great-circle math behind radius queries, on top of the
// s2 sphere geometry library.
package geo

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the radius used to turn kilometres into radians.
const EarthRadiusKm = 6378.1

// KmToRadians converts a surface distance to a central angle.
func KmToRadians(km float64) float64 {
	return km / EarthRadiusKm
}

func point(lng, lat float64) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lng))
}

// Angle returns the central angle in radians between two points given in degrees.
func Angle(lng1, lat1, lng2, lat2 float64) float64 {
	return s2.LatLngFromDegrees(lat1, lng1).Distance(s2.LatLngFromDegrees(lat2, lng2)).Radians()
}

// DistanceKm is the great-circle distance between two points.
func DistanceKm(lng1, lat1, lng2, lat2 float64) float64 {
	return Angle(lng1, lat1, lng2, lat2) * EarthRadiusKm
}

// Cap is the spherical cap of radiusKm around (lng, lat).
func Cap(centerLng, centerLat, radiusKm float64) s2.Cap {
	return s2.CapFromCenterAngle(point(centerLng, centerLat), s1.Angle(KmToRadians(radiusKm)))
}

// Within reports whether (lng, lat) lies inside the cap of radiusKm around
// the centre. The boundary is inclusive.
func Within(centerLng, centerLat, radiusKm, lng, lat float64) bool {
	return Cap(centerLng, centerLat, radiusKm).ContainsPoint(point(lng, lat))
}

// Box is a lng/lat rectangle in degrees. When it crosses the antimeridian
// MinLng > MaxLng.
type Box struct {
	MinLng, MaxLng float64
	MinLat, MaxLat float64
}

// CrossesAntimeridian reports whether the box wraps around lng = ±180.
func (b Box) CrossesAntimeridian() bool {
	return b.MinLng > b.MaxLng
}

// BoundingBox returns a box that contains every point within radiusKm of the
// centre. It is used as a coarse index prefilter before Within.
func BoundingBox(centerLng, centerLat, radiusKm float64) Box {
	rect := Cap(centerLng, centerLat, radiusKm).RectBound()

	box := Box{
		MinLat: latDegrees(rect.Lat.Lo),
		MaxLat: latDegrees(rect.Lat.Hi),
		MinLng: -180,
		MaxLng: 180,
	}
	if !rect.Lng.IsFull() {
		box.MinLng = s1.Angle(rect.Lng.Lo).Degrees()
		box.MaxLng = s1.Angle(rect.Lng.Hi).Degrees()
	}
	return box
}

// latDegrees pins the poles to exactly ±90.
func latDegrees(rad float64) float64 {
	switch {
	case rad >= math.Pi/2:
		return 90
	case rad <= -math.Pi/2:
		return -90
	}
	return s1.Angle(rad).Degrees()
}

// Package geomap routes over a geographic map. Points carry longitude in X and
// latitude in Y.
package geomap

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/daedongje/service-wayfinding/internal/domain/geometry"
)

// EarthRadiusKm is the sphere radius used for straight-line estimates.
const EarthRadiusKm = 6371.0

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// FromPoint reads a geometry point stored as (lng, lat).
func FromPoint(p geometry.Point) LatLng {
	return LatLng{Lat: p.Y, Lng: p.X}
}

// Point returns the coordinate as a geometry point (lng, lat).
func (l LatLng) Point() geometry.Point {
	return geometry.Pt(l.Lng, l.Lat)
}

// Orb returns the coordinate as an orb point.
func (l LatLng) Orb() orb.Point {
	return orb.Point{l.Lng, l.Lat}
}

// Valid reports whether the coordinate is a finite point on the globe.
func (l LatLng) Valid() bool {
	if math.IsNaN(l.Lat) || math.IsNaN(l.Lng) {
		return false
	}
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

// HaversineKm returns the great-circle distance between a and b in kilometres.
func HaversineKm(a, b LatLng) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// BoundsOf returns the viewport that frames every coordinate.
func BoundsOf(points ...LatLng) geometry.Bounds {
	mp := make(orb.MultiPoint, 0, len(points))
	for _, p := range points {
		mp = append(mp, p.Orb())
	}
	if len(mp) == 0 {
		return geometry.Bounds{}
	}
	b := mp.Bound()
	return geometry.Bounds{
		Min: geometry.Pt(b.Min.Lon(), b.Min.Lat()),
		Max: geometry.Pt(b.Max.Lon(), b.Max.Lat()),
	}
}

// LineString converts a (lng, lat) path into an orb line string.
func LineString(path []geometry.Point) orb.LineString {
	ls := make(orb.LineString, 0, len(path))
	for _, p := range path {
		ls = append(ls, orb.Point{p.X, p.Y})
	}
	return ls
}

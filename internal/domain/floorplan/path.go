package floorplan

import (
	"math"

	"github.com/daedongje/service-wayfinding/internal/domain/geometry"
)

// CorridorPath returns the corridor-constrained path from start to end.
//
// When exactly one endpoint lies outside the corridor the path always bends
// along x=25 if the start is outside and along x=75 if the end is outside,
// whichever side that endpoint is on.
func CorridorPath(start, end geometry.Point) []geometry.Point {
	startIn := InCorridor(start)
	endIn := InCorridor(end)
	midY := (start.Y + end.Y) / 2

	switch {
	case !startIn && !endIn:
		return []geometry.Point{start, {X: CorridorMinX, Y: midY}, {X: CorridorMaxX, Y: midY}, end}
	case !startIn:
		return []geometry.Point{start, {X: CorridorMinX, Y: start.Y}, {X: CorridorMinX, Y: end.Y}, end}
	case !endIn:
		return []geometry.Point{start, {X: CorridorMaxX, Y: start.Y}, {X: CorridorMaxX, Y: end.Y}, end}
	case math.Abs(start.X-end.X) < SameLaneThreshold:
		return []geometry.Point{start, end}
	default:
		return []geometry.Point{start, {X: start.X, Y: midY}, {X: end.X, Y: midY}, end}
	}
}

// PathMeters converts a view box path into rounded meters.
func PathMeters(path []geometry.Point) int {
	return geometry.RoundMeters(geometry.PathLength(path) * MetersPerUnit)
}

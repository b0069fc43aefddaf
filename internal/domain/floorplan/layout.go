// Package floorplan routes over a schematic floor plan drawn in a fixed
// 100x60 view box with a central corridor.
package floorplan

import (
	"github.com/daedongje/service-wayfinding/internal/domain/facility"
	"github.com/daedongje/service-wayfinding/internal/domain/geometry"
)

// View box dimensions.
const (
	ViewBoxWidth  = 100.0
	ViewBoxHeight = 60.0
)

// Corridor x-range, inclusive at both ends.
const (
	CorridorMinX = 25.0
	CorridorMaxX = 75.0
)

const (
	// SnapThreshold is the view box distance within which a click snaps to a facility.
	SnapThreshold = 5.0
	// SameLaneThreshold is the x separation under which two corridor points share a lane.
	SameLaneThreshold = 5.0
	// MetersPerUnit converts view box units into approximate meters.
	MetersPerUnit = 2.0
)

// Zone is a named x-range of the view box used as a fallback snap target.
type Zone struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
}

// Contains reports whether x lies within the zone, edges included.
func (z Zone) Contains(x float64) bool {
	return x >= z.MinX && x <= z.MaxX
}

// Zones are checked in order, so the corridor claims its boundaries.
var Zones = []Zone{
	{ID: "corridor", Name: "복도", MinX: CorridorMinX, MaxX: CorridorMaxX},
	{ID: "office-area", Name: "사무실 구역", MinX: 0, MaxX: CorridorMinX},
	{ID: "venue-area", Name: "행사장 구역", MinX: CorridorMaxX, MaxX: ViewBoxWidth},
}

// DefaultPositions places the standard facilities of the festival floor plan.
var DefaultPositions = map[string]geometry.Point{
	"restroom-1": {X: 15, Y: 20},
	"restroom-2": {X: 15, Y: 50},
	"cafe-1":     {X: 50, Y: 35},
	"exit-1":     {X: 50, Y: 5},
	"exit-2":     {X: 85, Y: 35},
	"elevator-1": {X: 30, Y: 35},
	"stairs-1":   {X: 70, Y: 35},
}

// InCorridor reports whether p lies in the corridor x-range.
func InCorridor(p geometry.Point) bool {
	return p.X >= CorridorMinX && p.X <= CorridorMaxX
}

// ToViewBox maps an element-relative click into view box units using
// independent x and y scales.
func ToViewBox(click geometry.Point, elementWidth, elementHeight float64) geometry.Point {
	return geometry.Pt(click.X*ViewBoxWidth/elementWidth, click.Y*ViewBoxHeight/elementHeight)
}

// StandardFacilities returns the facilities of the default floor plan. They
// carry no position and are placed by DefaultPositions.
func StandardFacilities() []facility.Facility {
	return []facility.Facility{
		{ID: "restroom-1", Name: "남자 화장실", Type: facility.TypeRestroom},
		{ID: "restroom-2", Name: "여자 화장실", Type: facility.TypeRestroom},
		{ID: "cafe-1", Name: "카페테리아", Type: facility.TypeCafe},
		{ID: "exit-1", Name: "메인 출구", Type: facility.TypeExit},
		{ID: "exit-2", Name: "비상 출구", Type: facility.TypeExit},
		{ID: "elevator-1", Name: "엘리베이터", Type: facility.TypeElevator},
		{ID: "stairs-1", Name: "계단", Type: facility.TypeStairs},
	}
}

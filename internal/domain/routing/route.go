package routing

import "github.com/daedongje/service-wayfinding/internal/domain/geometry"

// Kind identifies the coordinate space a widget routes in.
type Kind string

const (
	KindImage Kind = "image"
	KindFloor Kind = "floor"
	KindGeo   Kind = "geo"
)

// IsValid returns true if the kind is recognized.
func (k Kind) IsValid() bool {
	switch k {
	case KindImage, KindFloor, KindGeo:
		return true
	}
	return false
}

// RouteSource records which policy produced a route.
type RouteSource string

const (
	SourceStraightLine RouteSource = "straight_line"
	SourceCorridor     RouteSource = "corridor"
	SourceDirections   RouteSource = "directions"
)

// LineStyle is how the route polyline is stroked.
type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
)

// Anchor is a resolved click: a point in the widget's space, optionally
// snapped to a named facility or zone.
type Anchor struct {
	Point geometry.Point `json:"point"`
	ID    string         `json:"id,omitempty"`
	Name  string         `json:"name,omitempty"`
}

// Route is a synthesized path with its distance estimate.
type Route struct {
	Path      []geometry.Point `json:"path"`
	Meters    int              `json:"meters"`
	Distance  string           `json:"distance"`
	Duration  string           `json:"duration,omitempty"`
	Source    RouteSource      `json:"source"`
	LineStyle LineStyle        `json:"line_style"`
	// Bounds is the viewport that frames both endpoints, set by the geo space.
	Bounds *geometry.Bounds `json:"bounds,omitempty"`
}

// NewRoute builds a route from a path and a meter estimate.
func NewRoute(path []geometry.Point, meters int, source RouteSource, style LineStyle) *Route {
	return &Route{
		Path:      path,
		Meters:    meters,
		Distance:  geometry.FormatDistance(meters),
		Source:    source,
		LineStyle: style,
	}
}

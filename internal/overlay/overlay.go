// Package overlay turns a widget's selection snapshot into the draw model a
// client renders: panel, background, markers, route polyline and pins.
package overlay

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/daedongje/service-wayfinding/internal/domain/facility"
	"github.com/daedongje/service-wayfinding/internal/domain/floorplan"
	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
	"github.com/daedongje/service-wayfinding/internal/domain/geometry"
	"github.com/daedongje/service-wayfinding/internal/domain/imagemap"
	"github.com/daedongje/service-wayfinding/internal/domain/routing"
)

// Pin and route colors shared by every widget.
const (
	StartColor = "#4A90E2"
	EndColor   = "#E74C3C"
	RouteColor = "#C2FE0F"
)

// Panel actions a client can trigger.
const (
	ActionOpen  = "open"
	ActionClose = "close"
	ActionStart = "start"
	ActionReset = "reset"
)

// Button is a panel control.
type Button struct {
	Action string `json:"action"`
	Label  string `json:"label"`
}

// Field is a labelled value shown in the routed panel.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Panel is the selection control panel. When closed only the open button is drawn.
type Panel struct {
	Open    bool     `json:"open"`
	Title   string   `json:"title"`
	Status  string   `json:"status,omitempty"`
	Prompt  string   `json:"prompt,omitempty"`
	Fields  []Field  `json:"fields,omitempty"`
	Buttons []Button `json:"buttons"`
}

// Background describes what the overlay is drawn over.
type Background struct {
	Type      string         `json:"type"`
	Source    string         `json:"source,omitempty"`
	ViewBox   string         `json:"view_box,omitempty"`
	Width     float64        `json:"width,omitempty"`
	Height    float64        `json:"height,omitempty"`
	Center    *geomap.LatLng `json:"center,omitempty"`
	Level     int            `json:"level,omitempty"`
	ScriptURL string         `json:"script_url,omitempty"`
	// Displayed is the letterboxed image rectangle within the container.
	Displayed *geometry.Rect `json:"displayed,omitempty"`
}

// Marker is a static facility marker.
type Marker struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	At          geometry.Point `json:"at"`
	Style       facility.Style `json:"style"`
}

// Band is a floor plan zone drawn as a vertical strip.
type Band struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
}

// Pin is a start or end marker.
type Pin struct {
	At    geometry.Point `json:"at"`
	Color string         `json:"color"`
	Icon  string         `json:"icon"`
	Name  string         `json:"name,omitempty"`
}

// Polyline is the drawn route.
type Polyline struct {
	Points  []geometry.Point `json:"points"`
	Stroke  string           `json:"stroke"`
	Width   float64          `json:"width"`
	Dash    string           `json:"dash,omitempty"`
	Opacity float64          `json:"opacity"`
}

// Overlay is the full draw model for one widget.
type Overlay struct {
	Kind       routing.Kind           `json:"kind"`
	State      routing.SelectionState `json:"state"`
	Inert      bool                   `json:"inert"`
	Cursor     string                 `json:"cursor"`
	Panel      Panel                  `json:"panel"`
	Background Background             `json:"background"`
	Bands      []Band                 `json:"bands,omitempty"`
	Markers    []Marker               `json:"markers,omitempty"`
	Route      *Polyline              `json:"route,omitempty"`
	Bounds     *geometry.Bounds       `json:"bounds,omitempty"`
	Start      *Pin                   `json:"start,omitempty"`
	End        *Pin                   `json:"end,omitempty"`
	GeoJSON    json.RawMessage        `json:"geojson,omitempty"`
}

// Builder builds overlays. ScriptURL is the map SDK script handed to geo clients.
type Builder struct {
	ScriptURL string
}

// Build renders snap for the widget's space.
func (b Builder) Build(snap routing.Snapshot, space routing.CoordinateSpace) (*Overlay, error) {
	o := &Overlay{
		Kind:   snap.Kind,
		State:  snap.State,
		Cursor: "default",
		Panel:  buildPanel(snap),
	}
	if snap.State.IsPicking() {
		o.Cursor = "crosshair"
	}

	switch s := space.(type) {
	case *imagemap.Space:
		c := s.Container()
		displayed := s.Fit().Displayed()
		o.Background = Background{
			Type:      "image",
			Source:    s.ImagePath(),
			Width:     c.Width,
			Height:    c.Height,
			Displayed: &displayed,
		}
		o.Route = polyline(snap.Route, 4, "8,4", 1)
	case *floorplan.Space:
		o.Background = Background{
			Type:    "svg",
			ViewBox: fmt.Sprintf("0 0 %g %g", floorplan.ViewBoxWidth, floorplan.ViewBoxHeight),
		}
		for _, z := range floorplan.Zones {
			o.Bands = append(o.Bands, Band{ID: z.ID, Name: z.Name, MinX: z.MinX, MaxX: z.MaxX})
		}
		for _, f := range s.Facilities() {
			o.Markers = append(o.Markers, Marker{
				ID:          f.ID,
				Name:        f.Name,
				Description: f.Description,
				At:          f.At,
				Style:       facility.StyleOf(f.Type),
			})
		}
		o.Route = polyline(snap.Route, 0.8, "2,2", 1)
	case *geomap.Space:
		center := s.Center()
		o.Inert = !s.Ready()
		o.Background = Background{Type: "tiles", Center: &center, Level: s.Level(), ScriptURL: b.ScriptURL}
		for _, m := range s.Markers() {
			o.Markers = append(o.Markers, Marker{
				Name:        m.Title,
				Description: m.Description,
				At:          m.Position.Point(),
				Style:       facility.StyleOf(m.Type),
			})
		}
		if snap.Route != nil {
			dash := ""
			if snap.Route.LineStyle == routing.LineDashed {
				dash = "dashed"
			}
			o.Route = polyline(snap.Route, 5, dash, 0.8)
			o.Bounds = snap.Route.Bounds
		}
		raw, err := routeGeoJSON(snap)
		if err != nil {
			return nil, err
		}
		o.GeoJSON = raw
	default:
		return nil, fmt.Errorf("unsupported coordinate space: %T", space)
	}

	if snap.Start != nil {
		o.Start = &Pin{At: snap.Start.Point, Color: StartColor, Icon: "📍", Name: snap.Start.Name}
	}
	if snap.End != nil {
		o.End = &Pin{At: snap.End.Point, Color: EndColor, Icon: "🎯", Name: snap.End.Name}
	}
	return o, nil
}

func polyline(r *routing.Route, width float64, dash string, opacity float64) *Polyline {
	if r == nil {
		return nil
	}
	return &Polyline{
		Points:  r.Path,
		Stroke:  RouteColor,
		Width:   width,
		Dash:    dash,
		Opacity: opacity,
	}
}

func buildPanel(snap routing.Snapshot) Panel {
	p := Panel{Open: snap.PanelOpen, Title: "길찾기"}
	if !snap.PanelOpen {
		p.Buttons = []Button{{Action: ActionOpen, Label: "길찾기"}}
		return p
	}

	surface := "지도"
	if snap.Kind == routing.KindFloor {
		surface = "약도"
	}
	closeButton := Button{Action: ActionClose, Label: "✕"}

	switch snap.State {
	case routing.StateIdle:
		p.Buttons = []Button{{Action: ActionStart, Label: "출발지 선택"}, closeButton}
	case routing.StatePickingStart:
		p.Prompt = surface + "를 클릭하여 출발지를 선택하세요"
		p.Buttons = []Button{{Action: ActionReset, Label: "취소"}, closeButton}
	case routing.StatePickingEnd:
		name := "선택됨"
		if snap.Start != nil && snap.Start.Name != "" {
			name = snap.Start.Name
		}
		p.Status = "출발지: " + name + " ✓"
		p.Prompt = surface + "를 클릭하여 도착지를 선택하세요"
		p.Buttons = []Button{{Action: ActionReset, Label: "취소"}, closeButton}
	case routing.StateRouted:
		if snap.Pending || snap.Route == nil {
			p.Status = "경로 계산 중..."
		} else {
			p.Fields = routedFields(snap)
		}
		p.Buttons = []Button{{Action: ActionReset, Label: "다시 선택"}, closeButton}
	}
	return p
}

func routedFields(snap routing.Snapshot) []Field {
	var fields []Field
	if snap.Kind == routing.KindFloor {
		if snap.Start != nil {
			fields = append(fields, Field{Label: "출발지", Value: snap.Start.Name})
		}
		if snap.End != nil {
			fields = append(fields, Field{Label: "도착지", Value: snap.End.Name})
		}
	}
	fields = append(fields, Field{Label: "거리", Value: snap.Route.Distance})
	if snap.Route.Duration != "" {
		fields = append(fields, Field{Label: "예상 시간", Value: snap.Route.Duration})
	}
	return fields
}

// routeGeoJSON renders the geo selection as a feature collection of the start
// and end pins and the route line.
func routeGeoJSON(snap routing.Snapshot) (json.RawMessage, error) {
	fc := geojson.NewFeatureCollection()
	if snap.Start != nil {
		f := geojson.NewFeature(orb.Point{snap.Start.Point.X, snap.Start.Point.Y})
		f.Properties["role"] = "start"
		f.Properties["color"] = StartColor
		fc.Append(f)
	}
	if snap.End != nil {
		f := geojson.NewFeature(orb.Point{snap.End.Point.X, snap.End.Point.Y})
		f.Properties["role"] = "end"
		f.Properties["color"] = EndColor
		fc.Append(f)
	}
	if snap.Route != nil {
		f := geojson.NewFeature(geomap.LineString(snap.Route.Path))
		f.Properties["role"] = "route"
		f.Properties["distance"] = snap.Route.Distance
		f.Properties["duration"] = snap.Route.Duration
		f.Properties["source"] = string(snap.Route.Source)
		f.Properties["dashed"] = snap.Route.LineStyle == routing.LineDashed
		f.Properties["stroke"] = RouteColor
		fc.Append(f)
	}
	raw, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode route geojson: %w", err)
	}
	return raw, nil
}

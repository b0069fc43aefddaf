package geomap

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/daedongje/service-wayfinding/internal/domain/facility"
	"github.com/daedongje/service-wayfinding/internal/domain/geometry"
	"github.com/daedongje/service-wayfinding/internal/domain/routing"
)

const (
	// DurationStraightLine is the duration label of a fallback route.
	DurationStraightLine = "직선 거리"
	// DurationUnknown is shown when the directions API reports no duration.
	DurationUnknown = "계산 중"

	defaultLevel          = 3
	defaultRequestTimeout = 5 * time.Second
)

// Directions is a road route returned by a directions provider.
type Directions struct {
	Path            []LatLng
	DistanceMeters  float64
	DurationSeconds float64
}

// DirectionsProvider fetches a road route between two coordinates.
type DirectionsProvider interface {
	Route(ctx context.Context, origin, destination LatLng) (*Directions, error)
}

// Marker is a static point drawn on the map.
type Marker struct {
	Position    LatLng        `json:"position"`
	Title       string        `json:"title,omitempty"`
	Type        facility.Type `json:"type,omitempty"`
	Description string        `json:"description,omitempty"`
}

// Option configures a Space.
type Option func(*Space)

// WithDirections sets the road route provider. Without one every route is a
// straight-line fallback.
func WithDirections(p DirectionsProvider) Option {
	return func(s *Space) { s.provider = p }
}

// WithReadiness sets the check that gates clicks on the map SDK being ready.
func WithReadiness(ready func() bool) Option {
	return func(s *Space) { s.ready = ready }
}

// WithRequestTimeout bounds each directions request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Space) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used to record directions fallbacks.
func WithLogger(l *zap.Logger) Option {
	return func(s *Space) { s.logger = l }
}

// Space is the geographic coordinate space.
type Space struct {
	center   LatLng
	level    int
	markers  []Marker
	provider DirectionsProvider
	ready    func() bool
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates a geo space centered on center at the given zoom level.
func New(center LatLng, level int, markers []Marker, opts ...Option) (*Space, error) {
	if !center.Valid() {
		return nil, fmt.Errorf("invalid map center: %v,%v", center.Lat, center.Lng)
	}
	for i, m := range markers {
		if !m.Position.Valid() {
			return nil, fmt.Errorf("marker %d: invalid position: %v,%v", i, m.Position.Lat, m.Position.Lng)
		}
	}
	if level <= 0 {
		level = defaultLevel
	}
	s := &Space{
		center:  center,
		level:   level,
		markers: markers,
		timeout: defaultRequestTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Kind implements routing.CoordinateSpace.
func (s *Space) Kind() routing.Kind { return routing.KindGeo }

// SynthesizesAsync implements routing.AsyncSynthesizer.
func (s *Space) SynthesizesAsync() bool { return true }

// Center returns the initial map center.
func (s *Space) Center() LatLng { return s.center }

// Level returns the zoom level.
func (s *Space) Level() int { return s.level }

// Markers returns the static markers.
func (s *Space) Markers() []Marker { return append([]Marker(nil), s.markers...) }

// Ready reports whether the map SDK is available. A space that is not ready
// ignores every click.
func (s *Space) Ready() bool {
	return s.ready == nil || s.ready()
}

// Resolve accepts any valid coordinate once the map is ready. Clicks carry
// longitude in X and latitude in Y.
func (s *Space) Resolve(c routing.Click) (routing.Anchor, bool) {
	if !s.Ready() {
		return routing.Anchor{}, false
	}
	ll := FromPoint(c.Point())
	if !ll.Valid() {
		return routing.Anchor{}, false
	}
	return routing.Anchor{Point: ll.Point()}, true
}

// Synthesize asks the directions provider for a road route and falls back to
// a dashed great-circle line when there is no provider, the request fails or
// the route has fewer than two vertices. It never returns an error.
func (s *Space) Synthesize(ctx context.Context, start, end routing.Anchor) (*routing.Route, error) {
	from, to := FromPoint(start.Point), FromPoint(end.Point)

	if s.provider != nil {
		reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
		d, err := s.provider.Route(reqCtx, from, to)
		cancel()
		switch {
		case err != nil:
			s.logger.Warn("directions request failed, using straight line", zap.Error(err))
		case d == nil || len(d.Path) < 2:
			s.logger.Info("directions returned no usable path, using straight line")
		default:
			return roadRoute(from, to, d), nil
		}
	}
	return StraightRoute(from, to), nil
}

func roadRoute(from, to LatLng, d *Directions) *routing.Route {
	path := make([]geometry.Point, len(d.Path))
	for i, ll := range d.Path {
		path[i] = ll.Point()
	}
	meters := geometry.RoundMeters(d.DistanceMeters)
	bounds := BoundsOf(from, to)
	return &routing.Route{
		Path:      path,
		Meters:    meters,
		Distance:  FormatKm(float64(meters) / 1000),
		Duration:  FormatDuration(d.DurationSeconds),
		Source:    routing.SourceDirections,
		LineStyle: routing.LineSolid,
		Bounds:    &bounds,
	}
}

// StraightRoute is the dashed great-circle fallback between two coordinates.
func StraightRoute(from, to LatLng) *routing.Route {
	km := HaversineKm(from, to)
	bounds := BoundsOf(from, to)
	return &routing.Route{
		Path:      []geometry.Point{from.Point(), to.Point()},
		Meters:    geometry.RoundMeters(km * 1000),
		Distance:  FormatKm(km),
		Duration:  DurationStraightLine,
		Source:    routing.SourceStraightLine,
		LineStyle: routing.LineDashed,
		Bounds:    &bounds,
	}
}

// FormatKm renders kilometres with one decimal, halves rounding up.
func FormatKm(km float64) string {
	return fmt.Sprintf("%.1fkm", math.Round(km*10)/10)
}

// FormatDuration renders seconds as whole minutes, or DurationUnknown when the
// duration rounds to zero.
func FormatDuration(seconds float64) string {
	minutes := int(math.Round(seconds / 60))
	if minutes <= 0 {
		return DurationUnknown
	}
	return fmt.Sprintf("%d분", minutes)
}

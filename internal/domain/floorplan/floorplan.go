package floorplan

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/daedongje/service-wayfinding/internal/domain/facility"
	"github.com/daedongje/service-wayfinding/internal/domain/geometry"
	"github.com/daedongje/service-wayfinding/internal/domain/routing"
)

// PlacedFacility is a facility with its resolved view box position.
type PlacedFacility struct {
	facility.Facility
	At geometry.Point `json:"at"`
}

// Space is the floor plan coordinate space.
type Space struct {
	mu         sync.RWMutex
	width      float64
	height     float64
	facilities []PlacedFacility
}

// New creates a floor plan space rendered in an element of the given size.
// Facilities without an explicit position take their default layout position;
// those with neither are drawn nowhere and never snapped to.
func New(width, height float64, facilities []facility.Facility) (*Space, error) {
	if err := validSize(width, height); err != nil {
		return nil, err
	}
	placed := make([]PlacedFacility, 0, len(facilities))
	for _, f := range facilities {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if f.Position != nil {
			placed = append(placed, PlacedFacility{Facility: f, At: *f.Position})
			continue
		}
		if p, ok := DefaultPositions[f.ID]; ok {
			placed = append(placed, PlacedFacility{Facility: f, At: p})
		}
	}
	return &Space{width: width, height: height, facilities: placed}, nil
}

func validSize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("element size must be positive, got %vx%v", width, height)
	}
	return nil
}

// Kind implements routing.CoordinateSpace.
func (s *Space) Kind() routing.Kind { return routing.KindFloor }

// ClosesPanelOnIdleClick implements routing.PanelCloser.
func (s *Space) ClosesPanelOnIdleClick() bool { return true }

// Facilities returns the placed facilities.
func (s *Space) Facilities() []PlacedFacility {
	return append([]PlacedFacility(nil), s.facilities...)
}

// Resize updates the rendered element size.
func (s *Space) Resize(width, height float64) error {
	if err := validSize(width, height); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	return nil
}

// Resolve maps the click into the view box and snaps it.
func (s *Space) Resolve(c routing.Click) (routing.Anchor, bool) {
	s.mu.RLock()
	p := ToViewBox(c.Point(), s.width, s.height)
	s.mu.RUnlock()
	return s.Snap(p)
}

// Snap resolves a view box point to the nearest facility within SnapThreshold,
// else to the zone containing it, else to nothing. Zone snaps keep the
// original point.
func (s *Space) Snap(p geometry.Point) (routing.Anchor, bool) {
	var nearest *PlacedFacility
	best := math.Inf(1)
	for i := range s.facilities {
		if d := geometry.Distance(p, s.facilities[i].At); d < best {
			best = d
			nearest = &s.facilities[i]
		}
	}
	if nearest != nil && best <= SnapThreshold {
		return routing.Anchor{Point: nearest.At, ID: nearest.ID, Name: nearest.Name}, true
	}
	for _, z := range Zones {
		if z.Contains(p.X) {
			return routing.Anchor{Point: p, ID: z.ID, Name: z.Name}, true
		}
	}
	return routing.Anchor{}, false
}

// Synthesize builds the corridor-constrained path.
func (s *Space) Synthesize(_ context.Context, start, end routing.Anchor) (*routing.Route, error) {
	path := CorridorPath(start.Point, end.Point)
	return routing.NewRoute(path, PathMeters(path), routing.SourceCorridor, routing.LineDashed), nil
}

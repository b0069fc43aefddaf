// Package imagemap routes over a raster festival map drawn with a contain fit
// inside its container.
package imagemap

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/daedongje/service-wayfinding/internal/domain/geometry"
	"github.com/daedongje/service-wayfinding/internal/domain/routing"
)

const (
	// meterFactor converts scaled pixels into approximate meters.
	meterFactor = 0.5
	// scaleBase is the container side length that maps one pixel to one scale unit.
	scaleBase = 1000.0
)

// Size is a width and height in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s Size) valid() bool {
	return s.Width > 0 && s.Height > 0 && !math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

// ContainFit is the placement of an image scaled to fit entirely inside a
// container, centered.
type ContainFit struct {
	Scale      float64 `json:"scale"`
	DisplayedW float64 `json:"displayed_width"`
	DisplayedH float64 `json:"displayed_height"`
	OffsetX    float64 `json:"offset_x"`
	OffsetY    float64 `json:"offset_y"`
}

// Fit computes the contain fit of image inside container.
func Fit(container, image Size) ContainFit {
	scale := math.Min(container.Width/image.Width, container.Height/image.Height)
	w := image.Width * scale
	h := image.Height * scale
	return ContainFit{
		Scale:      scale,
		DisplayedW: w,
		DisplayedH: h,
		OffsetX:    (container.Width - w) / 2,
		OffsetY:    (container.Height - h) / 2,
	}
}

// Displayed returns the displayed image rectangle in container coordinates.
func (f ContainFit) Displayed() geometry.Rect {
	return geometry.Rect{X: f.OffsetX, Y: f.OffsetY, Width: f.DisplayedW, Height: f.DisplayedH}
}

// Contains reports whether a container-relative point lands on the image.
func (f ContainFit) Contains(p geometry.Point) bool {
	return f.Displayed().Contains(p)
}

// ToImage converts a container-relative point into intrinsic image pixels.
func (f ContainFit) ToImage(p geometry.Point) geometry.Point {
	return geometry.Pt((p.X-f.OffsetX)/f.Scale, (p.Y-f.OffsetY)/f.Scale)
}

// Space is the image coordinate space. Points are container-relative pixels so
// they can be drawn directly on an overlay spanning the container.
type Space struct {
	mu        sync.RWMutex
	imagePath string
	container Size
	image     Size
}

// New creates an image space for an image of the given intrinsic size shown in
// a container of the given size.
func New(imagePath string, container, image Size) (*Space, error) {
	if !image.valid() {
		return nil, fmt.Errorf("image size must be positive, got %vx%v", image.Width, image.Height)
	}
	if !container.valid() {
		return nil, fmt.Errorf("container size must be positive, got %vx%v", container.Width, container.Height)
	}
	return &Space{imagePath: imagePath, container: container, image: image}, nil
}

// Kind implements routing.CoordinateSpace.
func (s *Space) Kind() routing.Kind { return routing.KindImage }

// ImagePath returns the background image location.
func (s *Space) ImagePath() string { return s.imagePath }

// Container returns the current container size.
func (s *Space) Container() Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.container
}

// Fit returns the current contain fit.
func (s *Space) Fit() ContainFit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Fit(s.container, s.image)
}

// Resize updates the rendered container size.
func (s *Space) Resize(width, height float64) error {
	size := Size{Width: width, Height: height}
	if !size.valid() {
		return fmt.Errorf("container size must be positive, got %vx%v", width, height)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.container = size
	return nil
}

// Resolve accepts clicks that land on the displayed image and reports them in
// container coordinates.
func (s *Space) Resolve(c routing.Click) (routing.Anchor, bool) {
	p := c.Point()
	if !s.Fit().Contains(p) {
		return routing.Anchor{}, false
	}
	return routing.Anchor{Point: p}, true
}

// Synthesize draws a straight line. The meter estimate scales the pixel length
// by the smaller container side over 1000, then by 0.5.
func (s *Space) Synthesize(_ context.Context, start, end routing.Anchor) (*routing.Route, error) {
	container := s.Container()
	path := []geometry.Point{start.Point, end.Point}
	scale := math.Min(container.Width, container.Height) / scaleBase
	meters := geometry.RoundMeters(geometry.Distance(start.Point, end.Point) * scale * meterFactor)
	return routing.NewRoute(path, meters, routing.SourceStraightLine, routing.LineDashed), nil
}

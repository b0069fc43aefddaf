// Package routing holds the selection state machine shared by every wayfinding
// widget. A Controller is parameterised by a CoordinateSpace that knows how to
// resolve clicks and synthesize routes in one coordinate system.
package routing

import (
	"context"
	"errors"
	"sync"

	"github.com/daedongje/service-wayfinding/internal/domain/geometry"
	"github.com/daedongje/service-wayfinding/internal/platform/errs"
)

// ErrStaleSelection is returned by Settle when the selection moved on while the
// route was being synthesized.
var ErrStaleSelection = errors.New("selection changed before route settled")

// Click is a raw pointer event in the widget's input frame: element-relative
// pixels for image and floor widgets, (lng, lat) for geo widgets.
type Click struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point returns the click as a geometry point.
func (c Click) Point() geometry.Point {
	return geometry.Pt(c.X, c.Y)
}

// CoordinateSpace is the capability a Controller is instantiated with.
type CoordinateSpace interface {
	Kind() Kind
	// Resolve maps a click into the space. ok is false for clicks that land
	// outside the mapped region or snap to nothing.
	Resolve(c Click) (Anchor, bool)
	Synthesize(ctx context.Context, start, end Anchor) (*Route, error)
}

// PanelCloser is implemented by spaces where a click outside a selection
// closes an open panel.
type PanelCloser interface {
	ClosesPanelOnIdleClick() bool
}

// AsyncSynthesizer is implemented by spaces whose synthesis must not run under
// the controller lock. Their routes are attached later through Settle.
type AsyncSynthesizer interface {
	SynthesizesAsync() bool
}

// Resizer is implemented by spaces whose click mapping depends on the rendered
// element size.
type Resizer interface {
	Resize(width, height float64) error
}

// ClickOutcome describes what a click did to the selection.
type ClickOutcome string

const (
	OutcomeIgnored     ClickOutcome = "ignored"
	OutcomeStartSet    ClickOutcome = "start_set"
	OutcomeEndSet      ClickOutcome = "end_set"
	OutcomePanelClosed ClickOutcome = "panel_closed"
)

// ClickResult is returned by Click. When Pending is true the caller must call
// Settle with Token to attach the route.
type ClickResult struct {
	Outcome ClickOutcome `json:"outcome"`
	Token   uint64       `json:"token"`
	Pending bool         `json:"pending"`
}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	Kind      Kind           `json:"kind"`
	State     SelectionState `json:"state"`
	PanelOpen bool           `json:"panel_open"`
	Start     *Anchor        `json:"start,omitempty"`
	End       *Anchor        `json:"end,omitempty"`
	Route     *Route         `json:"route,omitempty"`
	Pending   bool           `json:"pending"`
	Token     uint64         `json:"token"`
}

// Controller is the selection state machine for one widget. It is safe for
// concurrent use.
type Controller struct {
	mu        sync.Mutex
	space     CoordinateSpace
	state     SelectionState
	panelOpen bool
	start     *Anchor
	end       *Anchor
	route     *Route
	pending   bool
	token     uint64
}

// NewController creates an idle controller with a closed panel.
func NewController(space CoordinateSpace) *Controller {
	return &Controller{
		space: space,
		state: StateIdle,
	}
}

// Space returns the coordinate space the controller routes in.
func (c *Controller) Space() CoordinateSpace { return c.space }

// OpenPanel shows the routing panel. A routed selection is kept as is; any
// other selection is cleared back to idle.
func (c *Controller) OpenPanel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.panelOpen = true
	if c.state == StateRouted {
		return
	}
	c.clearLocked()
	c.state = StateIdle
}

// ClosePanel hides the routing panel without touching the selection.
func (c *Controller) ClosePanel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panelOpen = false
}

// StartRouting discards any selection and waits for a start click.
func (c *Controller) StartRouting() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearLocked()
	c.state = StatePickingStart
	c.panelOpen = true
}

// Reset discards any selection, returns to idle and closes the panel.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearLocked()
	c.state = StateIdle
	c.panelOpen = false
}

// Resize forwards new element dimensions to spaces that depend on them.
func (c *Controller) Resize(width, height float64) error {
	r, ok := c.space.(Resizer)
	if !ok {
		return errors.New("coordinate space does not track element size")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return r.Resize(width, height)
}

// Click feeds one pointer event into the state machine. Clicks that resolve to
// nothing leave the state untouched.
func (c *Controller) Click(ctx context.Context, click Click) (ClickResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StatePickingStart:
		anchor, ok := c.space.Resolve(click)
		if !ok {
			return ClickResult{Outcome: OutcomeIgnored, Token: c.token}, nil
		}
		if err := c.transitionLocked(StatePickingEnd); err != nil {
			return ClickResult{Outcome: OutcomeIgnored, Token: c.token}, err
		}
		c.start = &anchor
		return ClickResult{Outcome: OutcomeStartSet, Token: c.token}, nil

	case StatePickingEnd:
		anchor, ok := c.space.Resolve(click)
		if !ok {
			return ClickResult{Outcome: OutcomeIgnored, Token: c.token}, nil
		}
		if err := c.transitionLocked(StateRouted); err != nil {
			return ClickResult{Outcome: OutcomeIgnored, Token: c.token}, err
		}
		c.end = &anchor
		c.route = nil
		c.token++

		if isAsync(c.space) {
			c.pending = true
			return ClickResult{Outcome: OutcomeEndSet, Token: c.token, Pending: true}, nil
		}
		route, err := c.space.Synthesize(ctx, *c.start, anchor)
		if err != nil {
			return ClickResult{Outcome: OutcomeEndSet, Token: c.token}, err
		}
		c.route = route
		return ClickResult{Outcome: OutcomeEndSet, Token: c.token}, nil
	}

	if c.panelOpen && closesPanel(c.space) {
		c.panelOpen = false
		return ClickResult{Outcome: OutcomePanelClosed, Token: c.token}, nil
	}
	return ClickResult{Outcome: OutcomeIgnored, Token: c.token}, nil
}

// Settle synthesizes the route for a pending selection identified by token and
// attaches it. The space is called without holding the lock, so a reset or a
// new selection may win the race; the late result is then dropped and
// ErrStaleSelection returned.
func (c *Controller) Settle(ctx context.Context, token uint64) (*Route, error) {
	c.mu.Lock()
	if token != c.token || !c.pending {
		c.mu.Unlock()
		return nil, ErrStaleSelection
	}
	start, end := *c.start, *c.end
	c.mu.Unlock()

	route, err := c.space.Synthesize(ctx, start, end)

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.token || !c.pending {
		return nil, ErrStaleSelection
	}
	c.pending = false
	if err != nil {
		return nil, err
	}
	c.route = route
	return route, nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Kind:      c.space.Kind(),
		State:     c.state,
		PanelOpen: c.panelOpen,
		Pending:   c.pending,
		Token:     c.token,
	}
	if c.start != nil {
		start := *c.start
		s.Start = &start
	}
	if c.end != nil {
		end := *c.end
		s.End = &end
	}
	if c.route != nil {
		route := *c.route
		route.Path = append([]geometry.Point(nil), c.route.Path...)
		s.Route = &route
	}
	return s
}

func (c *Controller) transitionLocked(target SelectionState) error {
	if !c.state.CanTransitionTo(target) {
		return errs.NewInvalidStateError(c.state.String(), target.String())
	}
	c.state = target
	return nil
}

// clearLocked drops both points and the route and invalidates any in-flight
// synthesis. Callers hold c.mu.
func (c *Controller) clearLocked() {
	c.start = nil
	c.end = nil
	c.route = nil
	c.pending = false
	c.token++
}

func isAsync(space CoordinateSpace) bool {
	a, ok := space.(AsyncSynthesizer)
	return ok && a.SynthesizesAsync()
}

func closesPanel(space CoordinateSpace) bool {
	p, ok := space.(PanelCloser)
	return ok && p.ClosesPanelOnIdleClick()
}

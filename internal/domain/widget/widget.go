// Package widget models a mounted wayfinding widget: one selection controller
// bound to one coordinate space, alive until unmounted.
package widget

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daedongje/service-wayfinding/internal/domain/routing"
)

// Widget is the aggregate root for a mounted widget.
type Widget struct {
	id         uuid.UUID
	eventID    string
	controller *routing.Controller
	createdAt  time.Time

	mu         sync.Mutex
	lastActive time.Time
}

// New mounts a widget over space.
func New(eventID string, space routing.CoordinateSpace) *Widget {
	now := time.Now().UTC()
	return &Widget{
		id:         uuid.New(),
		eventID:    eventID,
		controller: routing.NewController(space),
		createdAt:  now,
		lastActive: now,
	}
}

// --- Getters ---

func (w *Widget) ID() uuid.UUID                   { return w.id }
func (w *Widget) EventID() string                 { return w.eventID }
func (w *Widget) Kind() routing.Kind              { return w.controller.Space().Kind() }
func (w *Widget) Controller() *routing.Controller { return w.controller }
func (w *Widget) Space() routing.CoordinateSpace  { return w.controller.Space() }
func (w *Widget) CreatedAt() time.Time            { return w.createdAt }

// LastActive returns when the widget last received an interaction.
func (w *Widget) LastActive() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastActive
}

// Touch records an interaction.
func (w *Widget) Touch() {
	w.mu.Lock()
	w.lastActive = time.Now().UTC()
	w.mu.Unlock()
}

// Repository holds mounted widgets.
type Repository interface {
	Save(ctx context.Context, w *Widget) error
	FindByID(ctx context.Context, id uuid.UUID) (*Widget, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteIdleSince(ctx context.Context, cutoff time.Time) ([]*Widget, error)
	Count(ctx context.Context) (int, error)
}

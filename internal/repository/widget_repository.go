package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	widgetDomain "github.com/daedongje/service-wayfinding/internal/domain/widget"
	"github.com/daedongje/service-wayfinding/internal/platform/errs"
)

// MemoryWidgetRepository keeps mounted widgets in process memory. Selection
// state is never persisted.
type MemoryWidgetRepository struct {
	mu      sync.RWMutex
	widgets map[uuid.UUID]*widgetDomain.Widget
}

func NewMemoryWidgetRepository() *MemoryWidgetRepository {
	return &MemoryWidgetRepository{widgets: make(map[uuid.UUID]*widgetDomain.Widget)}
}

func (r *MemoryWidgetRepository) Save(_ context.Context, w *widgetDomain.Widget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.widgets[w.ID()]; exists {
		return errs.NewConflictError("widget already mounted: " + w.ID().String())
	}
	r.widgets[w.ID()] = w
	return nil
}

func (r *MemoryWidgetRepository) FindByID(_ context.Context, id uuid.UUID) (*widgetDomain.Widget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.widgets[id]
	if !ok {
		return nil, errs.NewNotFoundError("Widget", id.String())
	}
	return w, nil
}

func (r *MemoryWidgetRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.widgets[id]; !ok {
		return errs.NewNotFoundError("Widget", id.String())
	}
	delete(r.widgets, id)
	return nil
}

// DeleteIdleSince unmounts widgets with no interaction after cutoff and
// returns them.
func (r *MemoryWidgetRepository) DeleteIdleSince(_ context.Context, cutoff time.Time) ([]*widgetDomain.Widget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []*widgetDomain.Widget
	for id, w := range r.widgets {
		if w.LastActive().Before(cutoff) {
			delete(r.widgets, id)
			removed = append(removed, w)
		}
	}
	return removed, nil
}

func (r *MemoryWidgetRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.widgets), nil
}

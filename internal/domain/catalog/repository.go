package catalog

import (
	"context"

	"github.com/google/uuid"
)

// EventRepository defines persistence operations for event listings.
type EventRepository interface {
	FindByID(ctx context.Context, id string) (*Event, error)
	FindAll(ctx context.Context) ([]*Event, error)
	Save(ctx context.Context, event *Event) error
	Count(ctx context.Context) (int64, error)
}

// LocationRepository defines persistence operations for event locations.
type LocationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)
	FindByEventID(ctx context.Context, eventID string) ([]*Location, error)
	FindAll(ctx context.Context) ([]*Location, error)
	Upsert(ctx context.Context, location *Location) error
	Delete(ctx context.Context, id uuid.UUID) error
}

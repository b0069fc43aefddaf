package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
)

// Category groups locations the way the festival guide lists them.
type Category string

const (
	CategoryFacility Category = "facility"
	CategoryBooth    Category = "booth"
	CategoryStage    Category = "stage"
)

// IsValid returns true if the category is recognized.
func (c Category) IsValid() bool {
	switch c {
	case CategoryFacility, CategoryBooth, CategoryStage:
		return true
	}
	return false
}

// locationNamespace seeds deterministic location IDs.
var locationNamespace = uuid.MustParse("8f6d2c1e-4b0a-4d8e-9a57-3c1f0e2b7d44")

// LocationID derives a stable ID for a location from its event, category and name.
func LocationID(eventID string, category Category, name string) uuid.UUID {
	return uuid.NewSHA1(locationNamespace, []byte(eventID+"/"+string(category)+"/"+name))
}

// Location is a named point of interest at an event.
type Location struct {
	id        uuid.UUID
	eventID   string
	category  Category
	name      string
	kind      string
	position  geomap.LatLng
	createdAt time.Time
	updatedAt time.Time
}

// NewLocation creates a location. kind is the facility type for facilities and
// may be empty for booths and stages.
func NewLocation(id uuid.UUID, eventID string, category Category, name, kind string, position geomap.LatLng) (*Location, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("location ID is required")
	}
	if eventID == "" {
		return nil, fmt.Errorf("event ID is required")
	}
	if !category.IsValid() {
		return nil, fmt.Errorf("invalid location category: %s", category)
	}
	if name == "" {
		return nil, fmt.Errorf("location name is required")
	}
	if !position.Valid() {
		return nil, fmt.Errorf("invalid location position: %v,%v", position.Lat, position.Lng)
	}

	now := time.Now().UTC()
	return &Location{
		id:        id,
		eventID:   eventID,
		category:  category,
		name:      name,
		kind:      kind,
		position:  position,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructLocation rebuilds a Location from persistence data (no validation).
func ReconstructLocation(
	id uuid.UUID,
	eventID string,
	category Category,
	name, kind string,
	position geomap.LatLng,
	createdAt, updatedAt time.Time,
) *Location {
	return &Location{
		id:        id,
		eventID:   eventID,
		category:  category,
		name:      name,
		kind:      kind,
		position:  position,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

func (l *Location) ID() uuid.UUID           { return l.id }
func (l *Location) EventID() string         { return l.eventID }
func (l *Location) Category() Category      { return l.category }
func (l *Location) Name() string            { return l.name }
func (l *Location) Kind() string            { return l.kind }
func (l *Location) Position() geomap.LatLng { return l.position }
func (l *Location) CreatedAt() time.Time    { return l.createdAt }
func (l *Location) UpdatedAt() time.Time    { return l.updatedAt }

// Move relocates the location and renames it.
func (l *Location) Move(name, kind string, position geomap.LatLng) error {
	if name == "" {
		return fmt.Errorf("location name is required")
	}
	if !position.Valid() {
		return fmt.Errorf("invalid location position: %v,%v", position.Lat, position.Lng)
	}
	l.name = name
	l.kind = kind
	l.position = position
	l.updatedAt = time.Now().UTC()
	return nil
}

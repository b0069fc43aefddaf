// Package catalog holds the festival events and the points of interest that
// wayfinding widgets and assistants route to.
package catalog

import (
	"fmt"
	"time"

	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
)

// Event is the aggregate root for a festival or event listing.
type Event struct {
	id             string
	name           string
	schedule       string
	venue          string
	address        string
	description    string
	posterPath     string
	going          int
	tags           []string
	host           string
	position       geomap.LatLng
	floorPlanImage string
	createdAt      time.Time
	updatedAt      time.Time
}

// NewEvent creates an event listing with validated fields.
func NewEvent(
	id, name, schedule, venue, address, description, posterPath string,
	going int,
	tags []string,
	host string,
	position geomap.LatLng,
) (*Event, error) {
	if id == "" {
		return nil, fmt.Errorf("event ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("event name is required")
	}
	if going < 0 {
		return nil, fmt.Errorf("attendance cannot be negative")
	}
	if !position.Valid() {
		return nil, fmt.Errorf("invalid event position: %v,%v", position.Lat, position.Lng)
	}

	now := time.Now().UTC()
	return &Event{
		id:          id,
		name:        name,
		schedule:    schedule,
		venue:       venue,
		address:     address,
		description: description,
		posterPath:  posterPath,
		going:       going,
		tags:        append([]string(nil), tags...),
		host:        host,
		position:    position,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructEvent rebuilds an Event from persistence data (no validation).
func ReconstructEvent(
	id, name, schedule, venue, address, description, posterPath string,
	going int,
	tags []string,
	host string,
	position geomap.LatLng,
	floorPlanImage string,
	createdAt, updatedAt time.Time,
) *Event {
	return &Event{
		id:             id,
		name:           name,
		schedule:       schedule,
		venue:          venue,
		address:        address,
		description:    description,
		posterPath:     posterPath,
		going:          going,
		tags:           tags,
		host:           host,
		position:       position,
		floorPlanImage: floorPlanImage,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// --- Getters ---

func (e *Event) ID() string              { return e.id }
func (e *Event) Name() string            { return e.name }
func (e *Event) Schedule() string        { return e.schedule }
func (e *Event) Venue() string           { return e.venue }
func (e *Event) Address() string         { return e.address }
func (e *Event) Description() string     { return e.description }
func (e *Event) PosterPath() string      { return e.posterPath }
func (e *Event) Going() int              { return e.going }
func (e *Event) Tags() []string          { return append([]string(nil), e.tags...) }
func (e *Event) Host() string            { return e.host }
func (e *Event) Position() geomap.LatLng { return e.position }
func (e *Event) FloorPlanImage() string  { return e.floorPlanImage }
func (e *Event) CreatedAt() time.Time    { return e.createdAt }
func (e *Event) UpdatedAt() time.Time    { return e.updatedAt }

// SetFloorPlanImage attaches the festival map image used by image widgets.
func (e *Event) SetFloorPlanImage(path string) {
	e.floorPlanImage = path
	e.updatedAt = time.Now().UTC()
}

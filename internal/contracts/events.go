// Package contracts defines the Kafka topics and CloudEvent payloads the
// wayfinding service produces and consumes.
package contracts

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicRouteEvents   = "wayfinding.route.events"
	TopicCatalogEvents = "catalog.facility.events"
)

// Event types.
const (
	RouteSynthesized = "wayfinding.route.synthesized"
	FacilityUpserted = "catalog.facility.upserted"
	FacilityRemoved  = "catalog.facility.removed"
)

// Source is the CloudEvent source of events this service publishes.
const Source = "service-wayfinding"

// Coordinate is a point in the widget's own coordinate space.
type Coordinate struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Name string  `json:"name,omitempty"`
}

// RouteSynthesizedEvent is published whenever a widget attaches a route.
type RouteSynthesizedEvent struct {
	WidgetID      uuid.UUID  `json:"widget_id"`
	EventID       string     `json:"event_id,omitempty"`
	Kind          string     `json:"kind"`
	Source        string     `json:"source"`
	Start         Coordinate `json:"start"`
	End           Coordinate `json:"end"`
	Points        int        `json:"points"`
	Meters        int        `json:"meters"`
	Distance      string     `json:"distance"`
	Duration      string     `json:"duration,omitempty"`
	SynthesizedAt time.Time  `json:"synthesized_at"`
}

// FacilityUpsertedEvent creates or moves a catalog location.
type FacilityUpsertedEvent struct {
	LocationID uuid.UUID `json:"location_id"`
	EventID    string    `json:"event_id"`
	Category   string    `json:"category"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind,omitempty"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
}

// FacilityRemovedEvent deletes a catalog location.
type FacilityRemovedEvent struct {
	LocationID uuid.UUID `json:"location_id"`
}

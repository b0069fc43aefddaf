package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/daedongje/service-wayfinding/internal/contracts"
	catalogDomain "github.com/daedongje/service-wayfinding/internal/domain/catalog"
	"github.com/daedongje/service-wayfinding/internal/domain/facility"
	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
	"github.com/daedongje/service-wayfinding/internal/domain/geometry"
	"github.com/daedongje/service-wayfinding/internal/platform/errs"
)

// EventDTO is the response representation of an event listing.
type EventDTO struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Schedule       string        `json:"schedule"`
	Venue          string        `json:"venue"`
	Address        string        `json:"address"`
	Description    string        `json:"description"`
	PosterPath     string        `json:"poster_path"`
	Going          int           `json:"going"`
	Tags           []string      `json:"tags"`
	Host           string        `json:"host"`
	Position       geomap.LatLng `json:"position"`
	FloorPlanImage string        `json:"floor_plan_image,omitempty"`
}

// LocationDTO is the response representation of an event location.
type LocationDTO struct {
	ID       uuid.UUID       `json:"id"`
	EventID  string          `json:"event_id"`
	Category string          `json:"category"`
	Name     string          `json:"name"`
	Kind     string          `json:"kind,omitempty"`
	Style    *facility.Style `json:"style,omitempty"`
	Position geomap.LatLng   `json:"position"`
	Updated  time.Time       `json:"updated_at"`
}

// NearestDTO is a location found near a position, with a map deep link.
type NearestDTO struct {
	Location LocationDTO `json:"location"`
	Meters   int         `json:"meters"`
	Distance string      `json:"distance"`
	MapURL   string      `json:"map_url"`
}

// CatalogService is the application service for events and their locations.
type CatalogService struct {
	events    catalogDomain.EventRepository
	locations catalogDomain.LocationRepository
	logger    *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	events catalogDomain.EventRepository,
	locations catalogDomain.LocationRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		events:    events,
		locations: locations,
		logger:    logger,
	}
}

// Seed loads the bundled events and locations into an empty catalog.
func (s *CatalogService) Seed(ctx context.Context) error {
	n, err := s.events.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count events: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, e := range catalogDomain.SeedEvents() {
		if err := s.events.Save(ctx, e); err != nil {
			return fmt.Errorf("failed to seed event %s: %w", e.ID(), err)
		}
	}
	for _, l := range catalogDomain.SeedLocations() {
		if err := s.locations.Upsert(ctx, l); err != nil {
			return fmt.Errorf("failed to seed location %s: %w", l.Name(), err)
		}
	}

	s.logger.Info("catalog seeded")
	return nil
}

// ListEvents returns every event listing.
func (s *CatalogService) ListEvents(ctx context.Context) ([]EventDTO, error) {
	events, err := s.events.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]EventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, toEventDTO(e))
	}
	return out, nil
}

// GetEvent returns one event listing.
func (s *CatalogService) GetEvent(ctx context.Context, id string) (*EventDTO, error) {
	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toEventDTO(e)
	return &result, nil
}

// ListLocations returns an event's locations in guide order, optionally
// narrowed to one category.
func (s *CatalogService) ListLocations(ctx context.Context, eventID, category string) ([]LocationDTO, error) {
	if category != "" && !catalogDomain.Category(category).IsValid() {
		return nil, errs.NewValidationError(fmt.Sprintf("invalid location category: %s", category))
	}
	locations, err := s.eventLocations(ctx, eventID)
	if err != nil {
		return nil, err
	}

	out := make([]LocationDTO, 0, len(locations))
	for _, l := range locations {
		if category != "" && string(l.Category()) != category {
			continue
		}
		out = append(out, toLocationDTO(l))
	}
	return out, nil
}

// SearchLocation finds a location by keyword.
func (s *CatalogService) SearchLocation(ctx context.Context, eventID, keyword string) (*LocationDTO, error) {
	if keyword == "" {
		return nil, errs.NewValidationError("keyword is required")
	}
	locations, err := s.eventLocations(ctx, eventID)
	if err != nil {
		return nil, err
	}

	l := catalogDomain.FindByKeyword(locations, keyword)
	if l == nil {
		return nil, errs.NewNotFoundError("Location", keyword)
	}
	result := toLocationDTO(l)
	return &result, nil
}

// NearestLocation finds the location closest to from, optionally narrowed by
// keyword, with a map link that starts at from.
func (s *CatalogService) NearestLocation(ctx context.Context, eventID string, from geomap.LatLng, keyword string) (*NearestDTO, error) {
	if !from.Valid() {
		return nil, errs.NewValidationError(fmt.Sprintf("invalid position: %v,%v", from.Lat, from.Lng))
	}
	locations, err := s.eventLocations(ctx, eventID)
	if err != nil {
		return nil, err
	}

	l := catalogDomain.FindNearest(locations, from, keyword)
	if l == nil {
		return nil, errs.NewNotFoundError("Location", keyword)
	}

	meters := geometry.RoundMeters(geomap.HaversineKm(from, l.Position()) * 1000)
	return &NearestDTO{
		Location: toLocationDTO(l),
		Meters:   meters,
		Distance: geometry.FormatDistance(meters),
		MapURL:   catalogDomain.NaverMapURL(l.Position(), l.Name(), &from),
	}, nil
}

func (s *CatalogService) eventLocations(ctx context.Context, eventID string) ([]*catalogDomain.Location, error) {
	if eventID == "" {
		eventID = catalogDomain.DefaultEventID
	}
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.locations.FindByEventID(ctx, eventID)
}

// ApplyFacilityUpserted creates or moves a location from a catalog event.
func (s *CatalogService) ApplyFacilityUpserted(ctx context.Context, evt contracts.FacilityUpsertedEvent) error {
	category := catalogDomain.Category(evt.Category)
	id := evt.LocationID
	if id == uuid.Nil {
		id = catalogDomain.LocationID(evt.EventID, category, evt.Name)
	}
	position := geomap.LatLng{Lat: evt.Latitude, Lng: evt.Longitude}

	existing, err := s.locations.FindByID(ctx, id)
	if err != nil {
		if kind, ok := errs.KindOf(err); !ok || kind != errs.KindNotFound {
			return err
		}
		l, err := catalogDomain.NewLocation(id, evt.EventID, category, evt.Name, evt.Kind, position)
		if err != nil {
			return errs.NewValidationError(err.Error())
		}
		existing = l
	} else if err := existing.Move(evt.Name, evt.Kind, position); err != nil {
		return errs.NewValidationError(err.Error())
	}

	if err := s.locations.Upsert(ctx, existing); err != nil {
		return fmt.Errorf("failed to upsert location: %w", err)
	}

	s.logger.Info("location upserted",
		zap.String("location_id", id.String()),
		zap.String("event_id", existing.EventID()),
		zap.String("name", existing.Name()),
	)
	return nil
}

// ApplyFacilityRemoved deletes a location. Removing an unknown location is a
// no-op so redelivered events are harmless.
func (s *CatalogService) ApplyFacilityRemoved(ctx context.Context, evt contracts.FacilityRemovedEvent) error {
	err := s.locations.Delete(ctx, evt.LocationID)
	if err != nil {
		if kind, ok := errs.KindOf(err); ok && kind == errs.KindNotFound {
			s.logger.Debug("location already removed", zap.String("location_id", evt.LocationID.String()))
			return nil
		}
		return fmt.Errorf("failed to delete location: %w", err)
	}

	s.logger.Info("location removed", zap.String("location_id", evt.LocationID.String()))
	return nil
}

func toEventDTO(e *catalogDomain.Event) EventDTO {
	return EventDTO{
		ID:             e.ID(),
		Name:           e.Name(),
		Schedule:       e.Schedule(),
		Venue:          e.Venue(),
		Address:        e.Address(),
		Description:    e.Description(),
		PosterPath:     e.PosterPath(),
		Going:          e.Going(),
		Tags:           e.Tags(),
		Host:           e.Host(),
		Position:       e.Position(),
		FloorPlanImage: e.FloorPlanImage(),
	}
}

func toLocationDTO(l *catalogDomain.Location) LocationDTO {
	dto := LocationDTO{
		ID:       l.ID(),
		EventID:  l.EventID(),
		Category: string(l.Category()),
		Name:     l.Name(),
		Kind:     l.Kind(),
		Position: l.Position(),
		Updated:  l.UpdatedAt(),
	}
	if t := facility.Type(l.Kind()); l.Category() == catalogDomain.CategoryFacility && t.IsValid() {
		style := facility.StyleOf(t)
		dto.Style = &style
	}
	return dto
}

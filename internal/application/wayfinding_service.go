package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/daedongje/service-wayfinding/internal/contracts"
	catalogDomain "github.com/daedongje/service-wayfinding/internal/domain/catalog"
	"github.com/daedongje/service-wayfinding/internal/domain/facility"
	"github.com/daedongje/service-wayfinding/internal/domain/floorplan"
	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
	"github.com/daedongje/service-wayfinding/internal/domain/geometry"
	"github.com/daedongje/service-wayfinding/internal/domain/imagemap"
	"github.com/daedongje/service-wayfinding/internal/domain/routing"
	widgetDomain "github.com/daedongje/service-wayfinding/internal/domain/widget"
	"github.com/daedongje/service-wayfinding/internal/geolocation"
	"github.com/daedongje/service-wayfinding/internal/overlay"
	"github.com/daedongje/service-wayfinding/internal/platform/errs"
	"github.com/daedongje/service-wayfinding/internal/platform/kafka"
)

// FacilityDTO is a facility supplied to a floor widget.
type FacilityDTO struct {
	ID          string          `json:"id" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Type        string          `json:"type" binding:"required"`
	Description string          `json:"description"`
	Position    *geometry.Point `json:"position"`
}

// MarkerDTO is a facility marker supplied to a geo widget.
type MarkerDTO struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Title       string  `json:"title"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
}

// CreateWidgetRequest mounts a widget. Fields a kind does not use are ignored;
// missing ones fall back to the event's defaults.
type CreateWidgetRequest struct {
	Kind    string `json:"kind" binding:"required,oneof=image floor geo"`
	EventID string `json:"event_id"`

	// Rendered element size, for image and floor widgets.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	ImagePath   string  `json:"image_path"`
	ImageWidth  float64 `json:"image_width"`
	ImageHeight float64 `json:"image_height"`

	Facilities []FacilityDTO `json:"facilities"`

	Center      *geomap.LatLng `json:"center"`
	Level       int            `json:"level"`
	Markers     []MarkerDTO    `json:"markers"`
	UseLocation bool           `json:"use_location"`
}

// ResizeRequest reports new element dimensions.
type ResizeRequest struct {
	Width  float64 `json:"width" binding:"required,gt=0"`
	Height float64 `json:"height" binding:"required,gt=0"`
}

// WidgetDTO is the response representation of a mounted widget.
type WidgetDTO struct {
	ID        uuid.UUID `json:"id"`
	EventID   string    `json:"event_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	routing.Snapshot
}

// ClickDTO is the result of forwarding a click.
type ClickDTO struct {
	Outcome routing.ClickOutcome `json:"outcome"`
	Widget  WidgetDTO            `json:"widget"`
}

// MapSettings is the map configuration the wayfinding service needs.
type MapSettings struct {
	DisplayLoadTimeout  time.Duration
	LocationLoadTimeout time.Duration
	RequestTimeout      time.Duration
}

// MapReadiness reports whether the shared map SDK became usable within a
// bounded wait.
type MapReadiness interface {
	WaitReady(ctx context.Context, timeout time.Duration) bool
}

// WayfindingService is the application service for widget sessions.
type WayfindingService struct {
	widgets    widgetDomain.Repository
	events     catalogDomain.EventRepository
	locations  catalogDomain.LocationRepository
	sdk        MapReadiness
	directions geomap.DirectionsProvider
	builder    overlay.Builder
	settings   MapSettings
	producer   kafka.Publisher
	logger     *zap.Logger

	settling sync.WaitGroup
}

// NewWayfindingService creates a new WayfindingService. sdk and directions may
// be nil: geo widgets then stay inert or fall back to straight lines.
func NewWayfindingService(
	widgets widgetDomain.Repository,
	events catalogDomain.EventRepository,
	locations catalogDomain.LocationRepository,
	sdk MapReadiness,
	directions geomap.DirectionsProvider,
	builder overlay.Builder,
	settings MapSettings,
	producer kafka.Publisher,
	logger *zap.Logger,
) *WayfindingService {
	if settings.DisplayLoadTimeout <= 0 {
		settings.DisplayLoadTimeout = 5 * time.Second
	}
	if settings.LocationLoadTimeout <= 0 {
		settings.LocationLoadTimeout = 10 * time.Second
	}
	if settings.RequestTimeout <= 0 {
		settings.RequestTimeout = 5 * time.Second
	}
	return &WayfindingService{
		widgets:    widgets,
		events:     events,
		locations:  locations,
		sdk:        sdk,
		directions: directions,
		builder:    builder,
		settings:   settings,
		producer:   producer,
		logger:     logger,
	}
}

// CreateWidget mounts a new widget with an idle selection and a closed panel.
func (s *WayfindingService) CreateWidget(ctx context.Context, req CreateWidgetRequest) (*WidgetDTO, error) {
	var event *catalogDomain.Event
	if req.EventID != "" {
		e, err := s.events.FindByID(ctx, req.EventID)
		if err != nil {
			return nil, err
		}
		event = e
	}

	var (
		space routing.CoordinateSpace
		err   error
	)
	switch routing.Kind(req.Kind) {
	case routing.KindImage:
		space, err = s.imageSpace(req, event)
	case routing.KindFloor:
		space, err = s.floorSpace(req)
	case routing.KindGeo:
		space, err = s.geoSpace(ctx, req, event)
	default:
		return nil, errs.NewValidationError(fmt.Sprintf("invalid widget kind: %s", req.Kind))
	}
	if err != nil {
		return nil, err
	}

	w := widgetDomain.New(req.EventID, space)
	if err := s.widgets.Save(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to mount widget: %w", err)
	}

	s.logger.Info("widget mounted",
		zap.String("widget_id", w.ID().String()),
		zap.String("kind", string(w.Kind())),
		zap.String("event_id", req.EventID),
	)

	result := toWidgetDTO(w)
	return &result, nil
}

func (s *WayfindingService) imageSpace(req CreateWidgetRequest, event *catalogDomain.Event) (routing.CoordinateSpace, error) {
	path := req.ImagePath
	if path == "" && event != nil {
		path = event.FloorPlanImage()
	}
	if path == "" {
		return nil, errs.NewValidationError("image_path is required")
	}
	space, err := imagemap.New(path,
		imagemap.Size{Width: req.Width, Height: req.Height},
		imagemap.Size{Width: req.ImageWidth, Height: req.ImageHeight},
	)
	if err != nil {
		return nil, errs.NewValidationError(err.Error())
	}
	return space, nil
}

func (s *WayfindingService) floorSpace(req CreateWidgetRequest) (routing.CoordinateSpace, error) {
	facilities := floorplan.StandardFacilities()
	if req.Facilities != nil {
		facilities = make([]facility.Facility, 0, len(req.Facilities))
		for _, f := range req.Facilities {
			t, err := facility.ParseType(f.Type)
			if err != nil {
				return nil, errs.NewValidationError(err.Error())
			}
			facilities = append(facilities, facility.Facility{
				ID:          f.ID,
				Name:        f.Name,
				Type:        t,
				Description: f.Description,
				Position:    f.Position,
			})
		}
	}
	space, err := floorplan.New(req.Width, req.Height, facilities)
	if err != nil {
		return nil, errs.NewValidationError(err.Error())
	}
	return space, nil
}

func (s *WayfindingService) geoSpace(ctx context.Context, req CreateWidgetRequest, event *catalogDomain.Event) (routing.CoordinateSpace, error) {
	center := geolocation.DefaultCenter
	switch {
	case req.Center != nil:
		center = *req.Center
	case event != nil:
		center = event.Position()
	}

	markers, err := s.geoMarkers(ctx, req, event)
	if err != nil {
		return nil, err
	}

	timeout := s.settings.DisplayLoadTimeout
	if req.UseLocation {
		timeout = s.settings.LocationLoadTimeout
	}
	ready := s.sdk != nil && s.sdk.WaitReady(ctx, timeout)
	if !ready {
		s.logger.Warn("map sdk not ready, geo widget is inert", zap.Duration("waited", timeout))
	}

	opts := []geomap.Option{
		geomap.WithReadiness(func() bool { return ready }),
		geomap.WithRequestTimeout(s.settings.RequestTimeout),
		geomap.WithLogger(s.logger),
	}
	if s.directions != nil {
		opts = append(opts, geomap.WithDirections(s.directions))
	}

	space, err := geomap.New(center, req.Level, markers, opts...)
	if err != nil {
		return nil, errs.NewValidationError(err.Error())
	}
	return space, nil
}

// geoMarkers uses the request markers, or the event's catalogued facilities
// when none are given.
func (s *WayfindingService) geoMarkers(ctx context.Context, req CreateWidgetRequest, event *catalogDomain.Event) ([]geomap.Marker, error) {
	if req.Markers != nil {
		markers := make([]geomap.Marker, 0, len(req.Markers))
		for _, m := range req.Markers {
			t := facility.TypeOther
			if m.Type != "" {
				parsed, err := facility.ParseType(m.Type)
				if err != nil {
					return nil, errs.NewValidationError(err.Error())
				}
				t = parsed
			}
			markers = append(markers, geomap.Marker{
				Position:    geomap.LatLng{Lat: m.Lat, Lng: m.Lng},
				Title:       m.Title,
				Type:        t,
				Description: m.Description,
			})
		}
		return markers, nil
	}
	if event == nil {
		return nil, nil
	}

	locations, err := s.locations.FindByEventID(ctx, event.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to load event locations: %w", err)
	}
	var markers []geomap.Marker
	for _, l := range locations {
		if l.Category() != catalogDomain.CategoryFacility {
			continue
		}
		t := facility.Type(l.Kind())
		if !t.IsValid() {
			t = facility.TypeOther
		}
		markers = append(markers, geomap.Marker{
			Position: l.Position(),
			Title:    l.Name(),
			Type:     t,
		})
	}
	return markers, nil
}

// GetWidget returns a mounted widget.
func (s *WayfindingService) GetWidget(ctx context.Context, id uuid.UUID) (*WidgetDTO, error) {
	w, err := s.widgets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toWidgetDTO(w)
	return &result, nil
}

// OpenPanel shows the routing panel.
func (s *WayfindingService) OpenPanel(ctx context.Context, id uuid.UUID) (*WidgetDTO, error) {
	return s.apply(ctx, id, (*routing.Controller).OpenPanel)
}

// ClosePanel hides the routing panel.
func (s *WayfindingService) ClosePanel(ctx context.Context, id uuid.UUID) (*WidgetDTO, error) {
	return s.apply(ctx, id, (*routing.Controller).ClosePanel)
}

// StartRouting discards any selection and waits for a start click.
func (s *WayfindingService) StartRouting(ctx context.Context, id uuid.UUID) (*WidgetDTO, error) {
	return s.apply(ctx, id, (*routing.Controller).StartRouting)
}

// Reset discards any selection and closes the panel.
func (s *WayfindingService) Reset(ctx context.Context, id uuid.UUID) (*WidgetDTO, error) {
	return s.apply(ctx, id, (*routing.Controller).Reset)
}

func (s *WayfindingService) apply(ctx context.Context, id uuid.UUID, op func(*routing.Controller)) (*WidgetDTO, error) {
	w, err := s.widgets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Touch()
	op(w.Controller())

	result := toWidgetDTO(w)
	return &result, nil
}

// Resize reports new element dimensions for image and floor widgets.
func (s *WayfindingService) Resize(ctx context.Context, id uuid.UUID, req ResizeRequest) (*WidgetDTO, error) {
	w, err := s.widgets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Touch()
	if err := w.Controller().Resize(req.Width, req.Height); err != nil {
		return nil, errs.NewValidationError(err.Error())
	}

	result := toWidgetDTO(w)
	return &result, nil
}

// Click forwards a pointer event. Clicks that resolve to nothing are not
// errors; the unchanged widget is returned. Geo routes are synthesized in the
// background and appear on a later read.
func (s *WayfindingService) Click(ctx context.Context, id uuid.UUID, click routing.Click) (*ClickDTO, error) {
	w, err := s.widgets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Touch()

	res, err := w.Controller().Click(ctx, click)
	if err != nil {
		return nil, fmt.Errorf("failed to handle click: %w", err)
	}

	if res.Outcome == routing.OutcomeEndSet {
		if res.Pending {
			s.settling.Add(1)
			go s.settle(w, res.Token)
		} else {
			s.publishRouteSynthesized(ctx, w, w.Controller().Snapshot())
		}
	}

	return &ClickDTO{Outcome: res.Outcome, Widget: toWidgetDTO(w)}, nil
}

// settle attaches an asynchronously synthesized route. A selection that moved
// on in the meantime drops the result.
func (s *WayfindingService) settle(w *widgetDomain.Widget, token uint64) {
	defer s.settling.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 2*s.settings.RequestTimeout)
	defer cancel()

	_, err := w.Controller().Settle(ctx, token)
	switch {
	case errors.Is(err, routing.ErrStaleSelection):
		s.logger.Debug("discarded stale route",
			zap.String("widget_id", w.ID().String()),
			zap.Uint64("token", token),
		)
		return
	case err != nil:
		s.logger.Error("failed to synthesize route",
			zap.String("widget_id", w.ID().String()),
			zap.Error(err),
		)
		return
	}

	s.publishRouteSynthesized(ctx, w, w.Controller().Snapshot())
}

// WaitSettled blocks until every in-flight background synthesis finished or
// ctx is done.
func (s *WayfindingService) WaitSettled(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.settling.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Overlay returns the draw model for a widget.
func (s *WayfindingService) Overlay(ctx context.Context, id uuid.UUID) (*overlay.Overlay, error) {
	w, err := s.widgets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.builder.Build(w.Controller().Snapshot(), w.Space())
}

// DeleteWidget unmounts a widget. An in-flight synthesis for it finishes
// against a controller nothing reads any more.
func (s *WayfindingService) DeleteWidget(ctx context.Context, id uuid.UUID) error {
	w, err := s.widgets.FindByID(ctx, id)
	if err != nil {
		return err
	}
	w.Controller().Reset()
	if err := s.widgets.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("widget unmounted", zap.String("widget_id", id.String()))
	return nil
}

// ReapIdle unmounts widgets idle for longer than idle. Like DeleteWidget it
// resets each one, so a route still settling for it is dropped.
func (s *WayfindingService) ReapIdle(ctx context.Context, idle time.Duration) (int, error) {
	reaped, err := s.widgets.DeleteIdleSince(ctx, time.Now().UTC().Add(-idle))
	if err != nil {
		return 0, fmt.Errorf("failed to reap idle widgets: %w", err)
	}
	for _, w := range reaped {
		w.Controller().Reset()
	}
	if len(reaped) > 0 {
		s.logger.Info("reaped idle widgets", zap.Int("count", len(reaped)))
	}
	return len(reaped), nil
}

// RunReaper calls ReapIdle every interval until ctx is cancelled.
func (s *WayfindingService) RunReaper(ctx context.Context, interval, idle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.ReapIdle(ctx, idle); err != nil {
				s.logger.Error("widget reaper error", zap.Error(err))
			}
		}
	}
}

// ResolveLocation picks the map center for a client's position report, falling
// back to the event venue and then to the default center.
func (s *WayfindingService) ResolveLocation(ctx context.Context, eventID string, report geolocation.Report) (*geolocation.Resolution, error) {
	var fallback *geomap.LatLng
	if eventID != "" {
		event, err := s.events.FindByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		pos := event.Position()
		fallback = &pos
	}

	res, err := geolocation.Resolve(report, fallback)
	if err != nil {
		return nil, errs.NewValidationError(err.Error())
	}
	return &res, nil
}

func toWidgetDTO(w *widgetDomain.Widget) WidgetDTO {
	return WidgetDTO{
		ID:        w.ID(),
		EventID:   w.EventID(),
		CreatedAt: w.CreatedAt(),
		Snapshot:  w.Controller().Snapshot(),
	}
}

func (s *WayfindingService) publishRouteSynthesized(ctx context.Context, w *widgetDomain.Widget, snap routing.Snapshot) {
	if snap.Route == nil || snap.Start == nil || snap.End == nil {
		return
	}
	evt := contracts.RouteSynthesizedEvent{
		WidgetID:      w.ID(),
		EventID:       w.EventID(),
		Kind:          string(snap.Kind),
		Source:        string(snap.Route.Source),
		Start:         toCoordinate(*snap.Start),
		End:           toCoordinate(*snap.End),
		Points:        len(snap.Route.Path),
		Meters:        snap.Route.Meters,
		Distance:      snap.Route.Distance,
		Duration:      snap.Route.Duration,
		SynthesizedAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, contracts.TopicRouteEvents, contracts.RouteSynthesized, evt)
}

func toCoordinate(a routing.Anchor) contracts.Coordinate {
	return contracts.Coordinate{X: a.Point.X, Y: a.Point.Y, Name: a.Name}
}

func (s *WayfindingService) publishEvent(ctx context.Context, topic, eventType string, data any) {
	cloudEvent, err := kafka.NewCloudEvent(contracts.Source, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

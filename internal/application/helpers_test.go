package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
	"github.com/daedongje/service-wayfinding/internal/overlay"
	"github.com/daedongje/service-wayfinding/internal/platform/database"
	"github.com/daedongje/service-wayfinding/internal/platform/kafka"
	"github.com/daedongje/service-wayfinding/internal/repository"
)

type publishedEvent struct {
	Topic string
	Event kafka.CloudEvent
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, Event: event})
	return nil
}

func (p *recordingPublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type fixedReadiness bool

func (r fixedReadiness) WaitReady(context.Context, time.Duration) bool { return bool(r) }

// gatedDirections blocks every call until release is closed.
type gatedDirections struct {
	release chan struct{}
	result  *geomap.Directions
}

func (g *gatedDirections) Route(ctx context.Context, _, _ geomap.LatLng) (*geomap.Directions, error) {
	select {
	case <-g.release:
		return g.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type testStack struct {
	Wayfinding *WayfindingService
	Catalog    *CatalogService
	Publisher  *recordingPublisher
}

type stackOption func(*stackConfig)

type stackConfig struct {
	sdk        MapReadiness
	directions geomap.DirectionsProvider
}

func withSDK(r MapReadiness) stackOption {
	return func(c *stackConfig) { c.sdk = r }
}

func withDirections(d geomap.DirectionsProvider) stackOption {
	return func(c *stackConfig) { c.directions = d }
}

func newTestStack(t *testing.T, opts ...stackOption) *testStack {
	t.Helper()
	cfg := stackConfig{sdk: fixedReadiness(true)}
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, SQLitePath: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	events := repository.NewGormEventRepository(db)
	locations := repository.NewGormLocationRepository(db)
	catalog := NewCatalogService(events, locations, zap.NewNop())
	require.NoError(t, catalog.Seed(context.Background()))

	pub := &recordingPublisher{}
	wayfinding := NewWayfindingService(
		repository.NewMemoryWidgetRepository(),
		events,
		locations,
		cfg.sdk,
		cfg.directions,
		overlay.Builder{ScriptURL: "https://maps.example/sdk.js?appkey=k&autoload=false"},
		MapSettings{RequestTimeout: time.Second},
		pub,
		zap.NewNop(),
	)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = wayfinding.WaitSettled(ctx)
	})

	return &testStack{Wayfinding: wayfinding, Catalog: catalog, Publisher: pub}
}

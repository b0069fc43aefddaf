package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/daedongje/service-wayfinding/internal/application"
	"github.com/daedongje/service-wayfinding/internal/overlay"
	"github.com/daedongje/service-wayfinding/internal/platform/database"
	"github.com/daedongje/service-wayfinding/internal/platform/kafka"
	"github.com/daedongje/service-wayfinding/internal/repository"
)

type readyMap struct{}

func (readyMap) WaitReady(context.Context, time.Duration) bool { return true }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	catalog := application.NewCatalogService(events, locations, zap.NewNop())
	require.NoError(t, catalog.Seed(context.Background()))

	wayfinding := application.NewWayfindingService(
		repository.NewMemoryWidgetRepository(),
		events,
		locations,
		readyMap{},
		nil,
		overlay.Builder{},
		application.MapSettings{},
		kafka.Discard{},
		zap.NewNop(),
	)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = wayfinding.WaitSettled(ctx)
	})
	client := application.NewClientService(application.ClientSettings{
		SDKKey:    "key",
		QRBaseURL: "https://api.qrserver.com/v1/create-qr-code/",
	})

	router := gin.New()
	NewWidgetHandler(wayfinding).RegisterRoutes(&router.RouterGroup)
	NewCatalogHandler(catalog).RegisterRoutes(&router.RouterGroup)
	NewClientHandler(client, 5*time.Second).RegisterRoutes(&router.RouterGroup)
	return router
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

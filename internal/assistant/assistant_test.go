package assistant

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/daedongje/service-wayfinding/internal/application"
	"github.com/daedongje/service-wayfinding/internal/platform/database"
	"github.com/daedongje/service-wayfinding/internal/repository"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, SQLitePath: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	catalog := application.NewCatalogService(
		repository.NewGormEventRepository(db),
		repository.NewGormLocationRepository(db),
		zap.NewNop(),
	)
	require.NoError(t, catalog.Seed(context.Background()))

	s, err := NewServer(catalog, zap.NewNop())
	require.NoError(t, err)
	return s
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestTools_AllHaveHandlers(t *testing.T) {
	s := newTestServer(t)
	handlers := s.handlers()
	for name, tool := range Tools() {
		assert.Equal(t, name, tool.Name)
		assert.Contains(t, handlers, name)
	}
}

func TestFindLocation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleFindLocation(ctx, call(ToolFindLocation, map[string]any{"keyword": "toilet"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var loc application.LocationDTO
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &loc))
	assert.Equal(t, "화장실", loc.Name)

	res, err = s.handleFindLocation(ctx, call(ToolFindLocation, map[string]any{"keyword": "주차장"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleFindLocation(ctx, call(ToolFindLocation, map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestNearestLocation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleNearestLocation(ctx, call(ToolNearestLocation, map[string]any{
		"lat": 37.5667, "lng": 126.9782,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var got application.NearestDTO
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, "쓰레기통", got.Location.Name)
	assert.Contains(t, got.MapURL, "&start=126.9782,37.5667")

	res, err = s.handleNearestLocation(ctx, call(ToolNearestLocation, map[string]any{"lat": 37.5}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestStraightRoute(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleStraightRoute(context.Background(), call(ToolStraightRoute, map[string]any{
		"fromLat": 37.5665, "fromLng": 126.9780,
		"toLat": 37.5700, "toLng": 126.9920,
		"toName": "광장",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var got StraightRouteResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.InDelta(t, 1290, got.Meters, 20)
	assert.Equal(t, "직선 거리", got.Duration)
	assert.Contains(t, got.MapURL, "title=%EA%B4%91%EC%9E%A5")

	res, err = s.handleStraightRoute(context.Background(), call(ToolStraightRoute, map[string]any{
		"fromLat": 95.0, "fromLng": 126.9780, "toLat": 37.57, "toLng": 126.99,
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

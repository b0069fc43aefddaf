package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daedongje/service-wayfinding/internal/application"
	"github.com/daedongje/service-wayfinding/internal/domain/routing"
	"github.com/daedongje/service-wayfinding/internal/geolocation"
	"github.com/daedongje/service-wayfinding/internal/overlay"
)

func TestWidgetHandler_FloorSelection(t *testing.T) {
	router := newTestRouter(t)

	code, env := do(t, router, http.MethodPost, "/api/v1/widgets", map[string]any{
		"kind": "floor", "width": 1000, "height": 600,
	})
	require.Equal(t, http.StatusCreated, code)
	created := decode[application.WidgetDTO](t, env)
	assert.Equal(t, routing.StateIdle, created.State)
	base := "/api/v1/widgets/" + created.ID.String()

	code, env = do(t, router, http.MethodPost, base+"/start", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, routing.StatePickingStart, decode[application.WidgetDTO](t, env).State)

	code, env = do(t, router, http.MethodPost, base+"/click", routing.Click{X: 150, Y: 200})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, routing.OutcomeStartSet, decode[application.ClickDTO](t, env).Outcome)

	code, env = do(t, router, http.MethodPost, base+"/click", routing.Click{X: 850, Y: 350})
	require.Equal(t, http.StatusOK, code)
	clicked := decode[application.ClickDTO](t, env)
	assert.Equal(t, routing.StateRouted, clicked.Widget.State)
	require.NotNil(t, clicked.Widget.Route)

	code, env = do(t, router, http.MethodGet, base+"/overlay", nil)
	require.Equal(t, http.StatusOK, code)
	ov := decode[overlay.Overlay](t, env)
	assert.Equal(t, "svg", ov.Background.Type)
	require.NotNil(t, ov.Route)
	require.NotNil(t, ov.Start)
	assert.Equal(t, overlay.StartColor, ov.Start.Color)

	code, env = do(t, router, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, code)
	reset := decode[application.WidgetDTO](t, env)
	assert.Equal(t, routing.StateIdle, reset.State)
	assert.Nil(t, reset.Route)
	assert.False(t, reset.PanelOpen)

	code, _ = do(t, router, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, env = do(t, router, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestWidgetHandler_PanelToggle(t *testing.T) {
	router := newTestRouter(t)

	_, env := do(t, router, http.MethodPost, "/api/v1/widgets", map[string]any{
		"kind": "image", "image_path": "/map.png", "width": 800, "height": 600,
		"image_width": 800, "image_height": 600,
	})
	base := "/api/v1/widgets/" + decode[application.WidgetDTO](t, env).ID.String()

	_, env = do(t, router, http.MethodPost, base+"/panel/open", nil)
	assert.True(t, decode[application.WidgetDTO](t, env).PanelOpen)
	_, env = do(t, router, http.MethodPost, base+"/panel/close", nil)
	assert.False(t, decode[application.WidgetDTO](t, env).PanelOpen)
}

func TestWidgetHandler_BadRequests(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"missing kind", http.MethodPost, "/api/v1/widgets", map[string]any{}, http.StatusBadRequest},
		{"unknown kind", http.MethodPost, "/api/v1/widgets", map[string]any{"kind": "svg"}, http.StatusBadRequest},
		{"bad id", http.MethodGet, "/api/v1/widgets/not-a-uuid", nil, http.StatusBadRequest},
		{"unknown widget", http.MethodPost, "/api/v1/widgets/00000000-0000-0000-0000-000000000001/click", routing.Click{X: 1, Y: 1}, http.StatusNotFound},
		{"unknown event", http.MethodPost, "/api/v1/widgets", map[string]any{"kind": "floor", "event_id": "nope", "width": 10, "height": 10}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, code)
			assert.False(t, env.Success)
		})
	}
}

func TestWidgetHandler_ResolveLocation(t *testing.T) {
	router := newTestRouter(t)

	code, env := do(t, router, http.MethodPost, "/api/v1/geolocation/resolve", map[string]any{
		"event_id": "rock-festival", "code": 1,
	})
	require.Equal(t, http.StatusOK, code)
	got := decode[geolocation.Resolution](t, env)
	assert.False(t, got.Located)
	assert.Equal(t, 37.5219, got.Center.Lat)
	require.NotNil(t, got.Guidance)
	assert.Equal(t, geolocation.FailurePermissionDenied, got.Guidance.Failure)
	assert.NotEmpty(t, got.Guidance.Message)
}

package handler

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daedongje/service-wayfinding/internal/application"
)

func TestCatalogHandler_Events(t *testing.T) {
	router := newTestRouter(t)

	code, env := do(t, router, http.MethodGet, "/api/v1/events", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]application.EventDTO](t, env), 3)

	code, env = do(t, router, http.MethodGet, "/api/v1/events/rock-festival", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "rock-festival", decode[application.EventDTO](t, env).ID)

	code, _ = do(t, router, http.MethodGet, "/api/v1/events/missing", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCatalogHandler_Locations(t *testing.T) {
	router := newTestRouter(t)

	code, env := do(t, router, http.MethodGet, "/api/v1/events/yonsei-festival/locations?category=stage", nil)
	require.Equal(t, http.StatusOK, code)
	stages := decode[[]application.LocationDTO](t, env)
	require.Len(t, stages, 2)
	assert.Equal(t, "메인 무대", stages[0].Name)

	code, _ = do(t, router, http.MethodGet, "/api/v1/events/yonsei-festival/locations?category=parking", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCatalogHandler_Search(t *testing.T) {
	router := newTestRouter(t)

	code, env := do(t, router, http.MethodGet, "/api/v1/locations/search?keyword="+url.QueryEscape("흡연"), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "흡연장", decode[application.LocationDTO](t, env).Name)

	code, _ = do(t, router, http.MethodGet, "/api/v1/locations/search", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCatalogHandler_Nearest(t *testing.T) {
	router := newTestRouter(t)

	code, env := do(t, router, http.MethodGet, "/api/v1/locations/nearest?lat=37.5666&lng=126.9781&keyword=toilet", nil)
	require.Equal(t, http.StatusOK, code)
	got := decode[application.NearestDTO](t, env)
	assert.Equal(t, "화장실", got.Location.Name)
	assert.True(t, strings.HasPrefix(got.MapURL, "https://map.naver.com?lng=126.978&lat=37.5665"))

	code, _ = do(t, router, http.MethodGet, "/api/v1/locations/nearest?lat=37.5", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

package geolocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
)

func TestCategorize(t *testing.T) {
	assert.Equal(t, FailurePermissionDenied, Categorize(1))
	assert.Equal(t, FailureUnavailable, Categorize(2))
	assert.Equal(t, FailureTimeout, Categorize(3))
	assert.Equal(t, FailureUnknown, Categorize(0))
	assert.Equal(t, FailureUnknown, Categorize(42))
}

func TestGuidanceFor(t *testing.T) {
	tests := []struct {
		failure Failure
		message string
		hasHint bool
	}{
		{FailurePermissionDenied, "위치 권한이 거부되었습니다.", true},
		{FailureUnavailable, "위치 정보를 사용할 수 없습니다.", true},
		{FailureTimeout, "위치 정보 요청 시간이 초과되었습니다.", true},
		{FailureUnsupported, "이 브라우저는 위치 정보를 지원하지 않습니다.", false},
		{Failure("weird"), "위치 정보를 가져올 수 없습니다.", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.failure), func(t *testing.T) {
			g := GuidanceFor(tt.failure)
			assert.Equal(t, tt.message, g.Message)
			assert.Equal(t, tt.hasHint, g.Hint != "")
		})
	}
}

func TestResolve(t *testing.T) {
	fix := geomap.LatLng{Lat: 37.51, Lng: 127.04}
	res, err := Resolve(Report{Fix: &fix}, nil)
	require.NoError(t, err)
	assert.True(t, res.Located)
	assert.Equal(t, fix, res.Center)
	assert.Nil(t, res.Guidance)

	event := geomap.LatLng{Lat: 37.5640, Lng: 126.9369}
	res, err = Resolve(Report{Code: CodePermissionDenied}, &event)
	require.NoError(t, err)
	assert.False(t, res.Located)
	assert.Equal(t, event, res.Center)
	require.NotNil(t, res.Guidance)
	assert.Equal(t, FailurePermissionDenied, res.Guidance.Failure)

	res, err = Resolve(Report{Failure: FailureUnsupported}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultCenter, res.Center)
	assert.Equal(t, FailureUnsupported, res.Guidance.Failure)

	bad := geomap.LatLng{Lat: 200}
	_, err = Resolve(Report{Fix: &bad}, nil)
	assert.Error(t, err)
}

package floorplan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daedongje/service-wayfinding/internal/domain/facility"
	"github.com/daedongje/service-wayfinding/internal/domain/geometry"
	"github.com/daedongje/service-wayfinding/internal/domain/routing"
)

func TestCorridorPath(t *testing.T) {
	tests := []struct {
		name       string
		start, end geometry.Point
		want       []geometry.Point
	}{
		{
			name:  "both outside",
			start: geometry.Pt(10, 20),
			end:   geometry.Pt(90, 40),
			want:  []geometry.Point{{X: 10, Y: 20}, {X: 25, Y: 30}, {X: 75, Y: 30}, {X: 90, Y: 40}},
		},
		{
			name:  "only start outside",
			start: geometry.Pt(10, 20),
			end:   geometry.Pt(50, 40),
			want:  []geometry.Point{{X: 10, Y: 20}, {X: 25, Y: 20}, {X: 25, Y: 40}, {X: 50, Y: 40}},
		},
		{
			name:  "only start outside on the right still bends at 25",
			start: geometry.Pt(90, 20),
			end:   geometry.Pt(50, 40),
			want:  []geometry.Point{{X: 90, Y: 20}, {X: 25, Y: 20}, {X: 25, Y: 40}, {X: 50, Y: 40}},
		},
		{
			name:  "only end outside",
			start: geometry.Pt(50, 10),
			end:   geometry.Pt(90, 40),
			want:  []geometry.Point{{X: 50, Y: 10}, {X: 75, Y: 10}, {X: 75, Y: 40}, {X: 90, Y: 40}},
		},
		{
			name:  "same lane",
			start: geometry.Pt(50, 10),
			end:   geometry.Pt(54.9, 50),
			want:  []geometry.Point{{X: 50, Y: 10}, {X: 54.9, Y: 50}},
		},
		{
			name:  "different lanes",
			start: geometry.Pt(30, 10),
			end:   geometry.Pt(70, 50),
			want:  []geometry.Point{{X: 30, Y: 10}, {X: 30, Y: 30}, {X: 70, Y: 30}, {X: 70, Y: 50}},
		},
		{
			name:  "corridor edges count as inside",
			start: geometry.Pt(25, 10),
			end:   geometry.Pt(75, 10),
			want:  []geometry.Point{{X: 25, Y: 10}, {X: 25, Y: 10}, {X: 75, Y: 10}, {X: 75, Y: 10}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CorridorPath(tt.start, tt.end))
		})
	}
}

func TestCorridorPath_LaneCountProperty(t *testing.T) {
	for sx := 25.0; sx <= 75; sx += 2.5 {
		for ex := 25.0; ex <= 75; ex += 2.5 {
			path := CorridorPath(geometry.Pt(sx, 10), geometry.Pt(ex, 50))
			if ex-sx < 5 && sx-ex < 5 {
				assert.Len(t, path, 2, "start x=%v end x=%v", sx, ex)
				continue
			}
			require.Len(t, path, 4, "start x=%v end x=%v", sx, ex)
			assert.Equal(t, path[1].Y, path[2].Y)
			assert.Equal(t, 30.0, path[1].Y)
		}
	}
}

func TestFloorScenario(t *testing.T) {
	ctx := context.Background()
	s, err := New(ViewBoxWidth, ViewBoxHeight, nil)
	require.NoError(t, err)
	c := routing.NewController(s)

	c.StartRouting()
	_, err = c.Click(ctx, routing.Click{X: 10, Y: 20})
	require.NoError(t, err)
	_, err = c.Click(ctx, routing.Click{X: 90, Y: 40})
	require.NoError(t, err)

	snap := c.Snapshot()
	require.NotNil(t, snap.Route)
	assert.Equal(t, []geometry.Point{{X: 10, Y: 20}, {X: 25, Y: 30}, {X: 75, Y: 30}, {X: 90, Y: 40}}, snap.Route.Path)
	assert.Equal(t, 172, snap.Route.Meters)
	assert.Equal(t, "172m", snap.Route.Distance)
	assert.Equal(t, "사무실 구역", snap.Start.Name)
	assert.Equal(t, "행사장 구역", snap.End.Name)
}

func TestSpace_Snap(t *testing.T) {
	s, err := New(ViewBoxWidth, ViewBoxHeight, StandardFacilities())
	require.NoError(t, err)

	tests := []struct {
		name   string
		at     geometry.Point
		wantID string
		wantAt geometry.Point
	}{
		{"facility within threshold", geometry.Pt(18, 22), "restroom-1", geometry.Pt(15, 20)},
		{"facility at exactly five", geometry.Pt(15, 25), "restroom-1", geometry.Pt(15, 20)},
		{"corridor zone", geometry.Pt(40, 50), "corridor", geometry.Pt(40, 50)},
		{"office zone", geometry.Pt(5, 35), "office-area", geometry.Pt(5, 35)},
		{"venue zone", geometry.Pt(95, 10), "venue-area", geometry.Pt(95, 10)},
		{"boundary belongs to corridor", geometry.Pt(25, 5), "corridor", geometry.Pt(25, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := s.Snap(tt.at)
			require.True(t, ok)
			assert.Equal(t, tt.wantID, a.ID)
			assert.Equal(t, tt.wantAt, a.Point)
		})
	}

	_, ok := s.Snap(geometry.Pt(120, 30))
	assert.False(t, ok)
	_, ok = s.Snap(geometry.Pt(-3, 30))
	assert.False(t, ok)
}

func TestSpace_ResolveScalesIndependently(t *testing.T) {
	s, err := New(200, 60, nil)
	require.NoError(t, err)

	a, ok := s.Resolve(routing.Click{X: 100, Y: 30})
	require.True(t, ok)
	assert.Equal(t, geometry.Pt(50, 30), a.Point)

	require.NoError(t, s.Resize(100, 120))
	a, ok = s.Resolve(routing.Click{X: 50, Y: 60})
	require.True(t, ok)
	assert.Equal(t, geometry.Pt(50, 30), a.Point)
}

func TestSpace_SnapToNothingIsNoOp(t *testing.T) {
	ctx := context.Background()
	s, err := New(100, 60, nil)
	require.NoError(t, err)
	c := routing.NewController(s)
	c.StartRouting()
	before := c.Snapshot()

	_, err = c.Click(ctx, routing.Click{X: 150, Y: 10})
	require.NoError(t, err)
	assert.Equal(t, before, c.Snapshot())
}

func TestSpace_IdleClickClosesPanel(t *testing.T) {
	ctx := context.Background()
	s, err := New(100, 60, StandardFacilities())
	require.NoError(t, err)
	c := routing.NewController(s)
	c.OpenPanel()

	res, err := c.Click(ctx, routing.Click{X: 50, Y: 35})
	require.NoError(t, err)
	assert.Equal(t, routing.OutcomePanelClosed, res.Outcome)
	assert.False(t, c.Snapshot().PanelOpen)
}

func TestNew_Placement(t *testing.T) {
	custom := geometry.Pt(60, 10)
	s, err := New(100, 60, []facility.Facility{
		{ID: "cafe-1", Name: "카페테리아", Type: facility.TypeCafe},
		{ID: "booth-9", Name: "안내", Type: facility.TypeOther, Position: &custom},
		{ID: "smoking-1", Name: "흡연실", Type: facility.TypeSmoking},
	})
	require.NoError(t, err)

	placed := s.Facilities()
	require.Len(t, placed, 2)
	assert.Equal(t, geometry.Pt(50, 35), placed[0].At)
	assert.Equal(t, custom, placed[1].At)

	_, err = New(100, 60, []facility.Facility{{ID: "x", Name: "x", Type: "lobby"}})
	assert.Error(t, err)
	_, err = New(0, 60, nil)
	assert.Error(t, err)
}

func TestPathMeters_Monotonic(t *testing.T) {
	prev := -1
	for x := 30.0; x <= 75; x += 5 {
		m := PathMeters([]geometry.Point{{X: 25, Y: 30}, {X: x, Y: 30}})
		assert.GreaterOrEqual(t, m, prev)
		prev = m
	}
}

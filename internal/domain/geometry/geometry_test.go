package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 500.0, Distance(Pt(100, 100), Pt(500, 400)), 1e-9)
	assert.Equal(t, 0.0, Distance(Pt(3, 4), Pt(3, 4)))
}

func TestPathLength(t *testing.T) {
	path := []Point{Pt(0, 0), Pt(3, 4), Pt(3, 10)}
	assert.InDelta(t, 11.0, PathLength(path), 1e-9)
	assert.Equal(t, 0.0, PathLength([]Point{Pt(1, 1)}))
	assert.Equal(t, 0.0, PathLength(nil))
}

func TestDistanceIsMonotonic(t *testing.T) {
	origin := Pt(0, 0)
	prev := -1
	for d := 0.0; d <= 5000; d += 37.5 {
		m := RoundMeters(Distance(origin, Pt(d, 0)) * 0.3)
		assert.GreaterOrEqual(t, m, 0)
		assert.GreaterOrEqual(t, m, prev)
		prev = m
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters int
		want   string
	}{
		{0, "0m"},
		{150, "150m"},
		{999, "999m"},
		{1000, "1.0km"},
		{1250, "1.3km"},
		{1249, "1.2km"},
		{12345, "12.3km"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDistance(tt.meters))
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 10}
	assert.True(t, r.Contains(Pt(10, 10)))
	assert.True(t, r.Contains(Pt(30, 20)))
	assert.False(t, r.Contains(Pt(30.1, 15)))
	assert.False(t, r.Contains(Pt(15, 9.9)))
}

func TestBoundsOf(t *testing.T) {
	b := BoundsOf(Pt(5, -1), Pt(-2, 4), Pt(3, 3))
	assert.Equal(t, Pt(-2, -1), b.Min)
	assert.Equal(t, Pt(5, 4), b.Max)
	assert.Equal(t, Bounds{}, BoundsOf())
}

package facility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleOf(t *testing.T) {
	tests := []struct {
		typ   Type
		color string
		label string
	}{
		{TypeRestroom, "#4A90E2", "화장실"},
		{TypeCafe, "#27AE60", "카페"},
		{TypeExit, "#E74C3C", "출구"},
		{TypeElevator, "#9B59B6", "엘리베이터"},
		{TypeStairs, "#F39C12", "계단"},
		{TypeSmoking, "#95A5A6", "시설"},
		{TypeOther, "#95A5A6", "시설"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			s := StyleOf(tt.typ)
			assert.Equal(t, tt.color, s.Color)
			assert.Equal(t, tt.label, s.Label)
		})
	}
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("stairs")
	require.NoError(t, err)
	assert.Equal(t, TypeStairs, typ)

	_, err = ParseType("fountain")
	assert.Error(t, err)
}

func TestFacility_Validate(t *testing.T) {
	assert.NoError(t, Facility{ID: "cafe-1", Name: "카페테리아", Type: TypeCafe}.Validate())
	assert.Error(t, Facility{Name: "x", Type: TypeCafe}.Validate())
	assert.Error(t, Facility{ID: "x", Type: TypeCafe}.Validate())
	assert.Error(t, Facility{ID: "x", Name: "x", Type: "lobby"}.Validate())
}

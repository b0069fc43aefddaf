// Package facility describes the typed anchor points that wayfinding widgets
// draw and snap to.
package facility

import (
	"fmt"

	"github.com/daedongje/service-wayfinding/internal/domain/geometry"
)

// Type is the kind of facility.
type Type string

const (
	TypeRestroom Type = "restroom"
	TypeExit     Type = "exit"
	TypeElevator Type = "elevator"
	TypeStairs   Type = "stairs"
	TypeSmoking  Type = "smoking"
	TypeCafe     Type = "cafe"
	TypeOther    Type = "other"
)

var validTypes = map[Type]bool{
	TypeRestroom: true,
	TypeExit:     true,
	TypeElevator: true,
	TypeStairs:   true,
	TypeSmoking:  true,
	TypeCafe:     true,
	TypeOther:    true,
}

// IsValid returns true if the type is recognized.
func (t Type) IsValid() bool {
	return validTypes[t]
}

// ParseType converts a string to a Type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid facility type: %s", s)
	}
	return t, nil
}

// Style is how a facility type is drawn.
type Style struct {
	Color string `json:"color"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

var styles = map[Type]Style{
	TypeRestroom: {Color: "#4A90E2", Emoji: "🚻", Label: "화장실"},
	TypeCafe:     {Color: "#27AE60", Emoji: "☕", Label: "카페"},
	TypeExit:     {Color: "#E74C3C", Emoji: "🚪", Label: "출구"},
	TypeElevator: {Color: "#9B59B6", Emoji: "🛗", Label: "엘리베이터"},
	TypeStairs:   {Color: "#F39C12", Emoji: "🪜", Label: "계단"},
}

var defaultStyle = Style{Color: "#95A5A6", Emoji: "📍", Label: "시설"}

// StyleOf returns the display style for t. Types without a dedicated style
// share the generic one.
func StyleOf(t Type) Style {
	if s, ok := styles[t]; ok {
		return s
	}
	return defaultStyle
}

// Facility is a named, typed anchor point. Position is nil when the caller
// leaves placement to the widget's layout.
type Facility struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        Type            `json:"type"`
	Description string          `json:"description,omitempty"`
	Position    *geometry.Point `json:"position,omitempty"`
}

// Validate checks the fields every facility needs.
func (f Facility) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("facility id is required")
	}
	if f.Name == "" {
		return fmt.Errorf("facility %s: name is required", f.ID)
	}
	if !f.Type.IsValid() {
		return fmt.Errorf("facility %s: invalid type: %s", f.ID, f.Type)
	}
	return nil
}

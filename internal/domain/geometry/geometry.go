// Package geometry holds the planar primitives shared by every coordinate space.
package geometry

import (
	"fmt"
	"math"
)

// Point is an (x, y) pair. The coordinate space is implied by the widget that owns it.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// PathLength returns the summed segment lengths of path.
func PathLength(path []Point) float64 {
	var total float64
	for i := 0; i+1 < len(path); i++ {
		total += Distance(path[i], path[i+1])
	}
	return total
}

// RoundMeters rounds half away from zero and clamps negatives to zero.
func RoundMeters(m float64) int {
	if m <= 0 || math.IsNaN(m) {
		return 0
	}
	return int(math.Round(m))
}

// FormatDistance renders meters as "{n}m" below a kilometre and "{n.n}km" above.
// Halves round up, so 1250 renders as "1.3km".
func FormatDistance(meters int) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", meters)
	}
	tenths := math.Round(float64(meters) / 100)
	return fmt.Sprintf("%.1fkm", tenths/10)
}

// Bounds is the axis-aligned box spanning Min to Max.
type Bounds struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// BoundsOf returns the smallest Bounds containing every point.
func BoundsOf(points ...Point) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

package vec

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector in view coordinates: +x right, +y down.
type Vec2 struct {
	X, Y float64
}

var Zero = Vec2{}

func New(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Polar returns the vector with the given magnitude and angle (radians).
func Polar(magnitude, angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{X: magnitude * cos, Y: magnitude * sin}
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{X: v.X * f, Y: v.Y * f} }

func (v Vec2) Norm() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", v.X, v.Y)
}

package shaker

import (
	"math"

	"github.com/san-kum/beerslab/internal/event"
	"github.com/san-kum/beerslab/internal/vec"
)

const (
	DefaultX                 = 340.0
	DefaultY                 = 170.0
	DefaultOrientation       = 0.75 * math.Pi
	DefaultMaxDispensingRate = 0.2 // mol/s
)

// Shaker is the dispensing source. Particles leave from Position in the
// direction of Orientation while DispensingRate is positive.
type Shaker struct {
	Position          *event.Property[vec.Vec2]
	Orientation       float64 // radians
	DispensingRate    *event.Property[float64]
	MaxDispensingRate float64
}

func New(position vec.Vec2, orientation, maxDispensingRate float64) *Shaker {
	return &Shaker{
		Position:          event.NewProperty(position),
		Orientation:       orientation,
		DispensingRate:    event.NewProperty(0.0),
		MaxDispensingRate: maxDispensingRate,
	}
}

func NewDefault() *Shaker {
	return New(vec.New(DefaultX, DefaultY), DefaultOrientation, DefaultMaxDispensingRate)
}

// SetDispensingRate clamps rate to [0, MaxDispensingRate].
func (s *Shaker) SetDispensingRate(rate float64) {
	s.DispensingRate.Set(math.Max(0, math.Min(rate, s.MaxDispensingRate)))
}

func (s *Shaker) Reset() {
	s.Position.Reset()
	s.DispensingRate.Reset()
}

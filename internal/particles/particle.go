package particles

import (
	"github.com/san-kum/beerslab/internal/solute"
	"github.com/san-kum/beerslab/internal/vec"
)

// Particle is one grain of solute. The solute is fixed at creation.
type Particle struct {
	ID           uint64 // creation order within the owning pool, from 1
	Position     vec.Vec2
	Velocity     vec.Vec2
	Acceleration vec.Vec2
	Orientation  float64 // radians, cosmetic

	solute *solute.Solute
}

func newParticle(s *solute.Solute, position, velocity, acceleration vec.Vec2, orientation float64) *Particle {
	return &Particle{
		Position:     position,
		Velocity:     velocity,
		Acceleration: acceleration,
		Orientation:  orientation,
		solute:       s,
	}
}

func (p *Particle) Solute() *solute.Solute { return p.solute }

// State is the saved form of a particle.
type State struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	VX          float64 `json:"vx"`
	VY          float64 `json:"vy"`
	AX          float64 `json:"ax"`
	AY          float64 `json:"ay"`
	Orientation float64 `json:"orientation"`
}

func (p *Particle) State() State {
	return State{
		X: p.Position.X, Y: p.Position.Y,
		VX: p.Velocity.X, VY: p.Velocity.Y,
		AX: p.Acceleration.X, AY: p.Acceleration.Y,
		Orientation: p.Orientation,
	}
}

func (s State) particle(sol *solute.Solute) *Particle {
	return newParticle(sol, vec.New(s.X, s.Y), vec.New(s.VX, s.VY), vec.New(s.AX, s.AY), s.Orientation)
}

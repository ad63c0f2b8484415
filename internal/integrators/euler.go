package integrators

import "github.com/san-kum/beerslab/internal/vec"

// Kinematic is a body with constant acceleration over one step.
type Kinematic struct {
	Position     vec.Vec2
	Velocity     vec.Vec2
	Acceleration vec.Vec2
}

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

// Step advances velocity first and then position with the updated velocity.
func (e *Euler) Step(k Kinematic, dt float64) Kinematic {
	k.Velocity = k.Velocity.Add(k.Acceleration.Scale(dt))
	k.Position = k.Position.Add(k.Velocity.Scale(dt))
	return k
}

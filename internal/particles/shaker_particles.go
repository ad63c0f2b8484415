package particles

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/beerslab/internal/beaker"
	"github.com/san-kum/beerslab/internal/event"
	"github.com/san-kum/beerslab/internal/integrators"
	"github.com/san-kum/beerslab/internal/shaker"
	"github.com/san-kum/beerslab/internal/solute"
	"github.com/san-kum/beerslab/internal/solution"
	"github.com/san-kum/beerslab/internal/vec"
)

const (
	DefaultGravity      = 150.0 // view units/s^2, +y is down
	DefaultInitialSpeed = 100.0 // view units/s
	DefaultMaxXOffset   = 20
	DefaultMaxYOffset   = 5
)

type ShakerConfig struct {
	Gravity      vec.Vec2
	InitialSpeed float64
	// New particles appear within [-MaxXOffset, MaxXOffset] horizontally and
	// [0, MaxYOffset] below the shaker position, in whole units.
	MaxXOffset int
	MaxYOffset int
	Rand       *rand.Rand
}

func DefaultShakerConfig(r *rand.Rand) ShakerConfig {
	return ShakerConfig{
		Gravity:      vec.New(0, DefaultGravity),
		InitialSpeed: DefaultInitialSpeed,
		MaxXOffset:   DefaultMaxXOffset,
		MaxYOffset:   DefaultMaxYOffset,
		Rand:         r,
	}
}

// ShakerParticles moves particles from the shaker into the solution.
//
// Only the beaker's left wall is a collider. With the shaker above the
// beaker pouring left and gravity pointing down, particles cannot reach the
// right wall or the floor before they hit the solution surface.
type ShakerParticles struct {
	solution *solution.Solution
	beaker   *beaker.Beaker
	shaker   *shaker.Shaker
	cfg      ShakerConfig
	integ    *integrators.Euler
	pool     Pool

	// Moved fires at most once per Step with the number of particles that
	// moved and were not dissolved.
	Moved event.Emitter[int]

	dispensed uint64
	dissolved uint64
}

func NewShakerParticles(sol *solution.Solution, b *beaker.Beaker, sh *shaker.Shaker, cfg ShakerConfig) *ShakerParticles {
	sp := &ShakerParticles{
		solution: sol,
		beaker:   b,
		shaker:   sh,
		cfg:      cfg,
		integ:    integrators.NewEuler(),
	}

	sol.Solute.Subscribe(func(u event.Update[*solute.Solute]) {
		if u.Restoring {
			return
		}
		logrus.Debugf("solute changed to %s, flushing %d shaker particles", u.New, sp.pool.Len())
		sp.pool.Clear()
	})

	return sp
}

func (sp *ShakerParticles) Pool() *Pool { return &sp.pool }

// Dispensed is the number of particles created since construction.
func (sp *ShakerParticles) Dispensed() uint64 { return sp.dispensed }

// Dissolved is the number of particles absorbed by the solution since construction.
func (sp *ShakerParticles) Dissolved() uint64 { return sp.dissolved }

// Step advances existing particles by dt, dissolves those that crossed the
// solution surface, then dispenses new particles if the shaker is active.
func (sp *ShakerParticles) Step(dt float64) {
	s := sp.solution.Solute.Value()
	surfaceY := sp.beaker.LevelY(sp.solution.Volume.Value()) - s.ParticleSize

	moved := 0
	for i := sp.pool.Len() - 1; i >= 0; i-- {
		p := sp.pool.At(i)
		sp.propagate(p, dt)

		if p.Position.Y > surfaceY {
			sp.pool.RemoveAt(i)
			sp.solution.AddSolute(s.MolesPerParticle())
			sp.dissolved++
		} else {
			moved++
		}
	}

	if rate := sp.shaker.DispensingRate.Value(); rate > 0 {
		n := int(math.Round(math.Max(1, rate*s.ParticlesPerMole*dt)))
		for i := 0; i < n; i++ {
			sp.pool.Add(sp.createParticle(s))
		}
		sp.dispensed += uint64(n)
	}

	if moved > 0 {
		sp.Moved.Emit(moved)
	}
}

func (sp *ShakerParticles) propagate(p *Particle, dt float64) {
	k := sp.integ.Step(integrators.Kinematic{
		Position:     p.Position,
		Velocity:     p.Velocity,
		Acceleration: p.Acceleration,
	}, dt)
	p.Position, p.Velocity = k.Position, k.Velocity

	minX := sp.beaker.Left() + p.Solute().ParticleSize
	if p.Position.X <= minX {
		p.Position.X = minX
		p.Velocity.X = math.Abs(p.Velocity.X)
	}
}

func (sp *ShakerParticles) createParticle(s *solute.Solute) *Particle {
	r := sp.cfg.Rand
	origin := sp.shaker.Position.Value()
	position := vec.New(
		origin.X+float64(intBetween(r, -sp.cfg.MaxXOffset, sp.cfg.MaxXOffset)),
		origin.Y+float64(intBetween(r, 0, sp.cfg.MaxYOffset)),
	)
	velocity := vec.Polar(sp.cfg.InitialSpeed, sp.shaker.Orientation)
	return newParticle(s, position, velocity, sp.cfg.Gravity, r.Float64()*2*math.Pi)
}

// Reset removes all particles. The solution is not touched.
func (sp *ShakerParticles) Reset() {
	sp.pool.Clear()
}

// Restore replaces the pool with saved particles of the current solute.
func (sp *ShakerParticles) Restore(states []State) {
	sp.pool.Clear()
	s := sp.solution.Solute.Value()
	for _, st := range states {
		sp.pool.Add(st.particle(s))
	}
}

// intBetween returns a uniform integer in [lo, hi].
func intBetween(r *rand.Rand, lo, hi int) int {
	return lo + r.Intn(hi-lo+1)
}

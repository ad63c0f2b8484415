package particles

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/beerslab/internal/beaker"
	"github.com/san-kum/beerslab/internal/event"
	"github.com/san-kum/beerslab/internal/solute"
	"github.com/san-kum/beerslab/internal/solution"
	"github.com/san-kum/beerslab/internal/vec"
)

type PrecipitateConfig struct {
	Rand *rand.Rand
}

// PrecipitateParticles keeps one resting particle on the beaker floor per
// unit of Solution.PrecipitateParticleCount. Particles never move once placed.
type PrecipitateParticles struct {
	solution *solution.Solution
	beaker   *beaker.Beaker
	cfg      PrecipitateConfig
	pool     Pool
}

func NewPrecipitateParticles(sol *solution.Solution, b *beaker.Beaker, cfg PrecipitateConfig) *PrecipitateParticles {
	pp := &PrecipitateParticles{solution: sol, beaker: b, cfg: cfg}

	sol.PrecipitateMoles.Subscribe(func(u event.Update[float64]) {
		if u.Restoring {
			return
		}
		pp.update()
	})

	sol.Solute.Subscribe(func(u event.Update[*solute.Solute]) {
		if u.Restoring {
			return
		}
		pp.update()
	})

	pp.update()
	return pp
}

func (pp *PrecipitateParticles) Pool() *Pool { return &pp.pool }

// update adds or removes particles until the pool matches the solution.
// Particles of a previous solute are flushed before anything is added, so
// the pool never holds two solutes at once. The precipitate moles listener
// can see a solute change before the solute listener does.
func (pp *PrecipitateParticles) update() {
	s := pp.solution.Solute.Value()
	if last := pp.pool.Last(); last != nil && last.Solute() != s {
		logrus.Debugf("solute changed to %s, flushing %d precipitate particles", s, pp.pool.Len())
		pp.pool.Clear()
	}

	target := pp.solution.PrecipitateParticleCount()
	current := pp.pool.Len()

	switch {
	case target < current:
		pp.pool.RemoveLast(current - target)
	case target > current:
		pp.addParticles(target - current)
	}

	if pp.pool.Len() != target {
		logrus.Panicf("particles: precipitate pool has %d particles, want %d", pp.pool.Len(), target)
	}
}

func (pp *PrecipitateParticles) addParticles(n int) {
	if n <= 0 {
		logrus.Panicf("particles: cannot add %d precipitate particles", n)
	}
	s := pp.solution.Solute.Value()
	for i := 0; i < n; i++ {
		pp.pool.Add(pp.createParticle(s))
	}
}

// createParticle places a particle at a random spot on the floor, inset by
// the particle size so a rotated square stays inside the walls.
func (pp *PrecipitateParticles) createParticle(s *solute.Solute) *Particle {
	r := pp.cfg.Rand
	margin := s.ParticleSize
	position := vec.New(
		pp.beaker.Left()+margin+r.Float64()*(pp.beaker.Size.Width-2*margin),
		pp.beaker.Position.Y-margin,
	)
	return newParticle(s, position, vec.Zero, vec.Zero, r.Float64()*2*math.Pi)
}

// Restore replaces the pool with saved particles of the current solute and
// then reconciles, so the count matches the solution even if the saved
// state disagrees with it.
func (pp *PrecipitateParticles) Restore(states []State) {
	pp.pool.Clear()
	s := pp.solution.Solute.Value()
	for _, st := range states {
		pp.pool.Add(st.particle(s))
	}
	pp.update()
}

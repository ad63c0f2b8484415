package particles

import (
	"iter"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/beerslab/internal/event"
)

// Pool is an insertion-ordered set of live particles owned by one engine.
// Bulk removals always take the newest particles first, so Removed
// listeners may treat them as shrinking the pool from the tail.
type Pool struct {
	particles []*Particle
	lastID    uint64

	Added   event.Emitter[*Particle]
	Removed event.Emitter[*Particle]
}

// Add assigns the next creation ID to p and appends it.
func (p *Pool) Add(pt *Particle) {
	p.lastID++
	pt.ID = p.lastID
	p.particles = append(p.particles, pt)
	p.Added.Emit(pt)
}

// RemoveAt removes the particle at index i, keeping the order of the rest.
// Indexes below i are unaffected.
func (p *Pool) RemoveAt(i int) *Particle {
	pt := p.particles[i]
	copy(p.particles[i:], p.particles[i+1:])
	p.particles[len(p.particles)-1] = nil
	p.particles = p.particles[:len(p.particles)-1]
	p.Removed.Emit(pt)
	return pt
}

// RemoveLast removes the n newest particles, newest first.
func (p *Pool) RemoveLast(n int) {
	if n <= 0 || n > len(p.particles) {
		logrus.Panicf("particles: cannot remove %d of %d particles", n, len(p.particles))
	}
	for ; n > 0; n-- {
		p.RemoveAt(len(p.particles) - 1)
	}
}

// Clear removes every particle, newest first.
func (p *Pool) Clear() {
	if len(p.particles) > 0 {
		p.RemoveLast(len(p.particles))
	}
}

func (p *Pool) Len() int { return len(p.particles) }

func (p *Pool) At(i int) *Particle { return p.particles[i] }

// Last returns the newest particle, or nil when the pool is empty.
func (p *Pool) Last() *Particle {
	if len(p.particles) == 0 {
		return nil
	}
	return p.particles[len(p.particles)-1]
}

// All iterates oldest to newest. The pool must not be modified during iteration.
func (p *Pool) All() iter.Seq2[int, *Particle] {
	return func(yield func(int, *Particle) bool) {
		for i, pt := range p.particles {
			if !yield(i, pt) {
				return
			}
		}
	}
}

// States returns the saved form of every particle, oldest first.
func (p *Pool) States() []State {
	out := make([]State, len(p.particles))
	for i, pt := range p.particles {
		out[i] = pt.State()
	}
	return out
}

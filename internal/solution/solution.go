package solution

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/beerslab/internal/event"
	"github.com/san-kum/beerslab/internal/solute"
)

const (
	DefaultVolume         = 0.5 // L
	DefaultMaxVolume      = 1.0 // L
	DefaultMaxSoluteMoles = 5.0 // mol
)

// Solution is the solvent plus the solute currently dissolved or
// precipitated in it. PrecipitateMoles is derived and is recomputed
// whenever Solute, Volume or SoluteMoles changes; a restoring write on any
// of them produces a restoring update of PrecipitateMoles.
type Solution struct {
	Solute           *event.Property[*solute.Solute]
	Volume           *event.Property[float64]
	SoluteMoles      *event.Property[float64]
	PrecipitateMoles *event.Property[float64]

	maxVolume      float64
	maxSoluteMoles float64
}

type Config struct {
	Solute         *solute.Solute
	Volume         float64
	MaxVolume      float64
	SoluteMoles    float64
	MaxSoluteMoles float64
}

func DefaultConfig() Config {
	return Config{
		Solute:         solute.DrinkMix,
		Volume:         DefaultVolume,
		MaxVolume:      DefaultMaxVolume,
		MaxSoluteMoles: DefaultMaxSoluteMoles,
	}
}

func New(cfg Config) *Solution {
	s := &Solution{
		Solute:         event.NewProperty(cfg.Solute),
		Volume:         event.NewProperty(cfg.Volume),
		SoluteMoles:    event.NewProperty(cfg.SoluteMoles),
		maxVolume:      cfg.MaxVolume,
		maxSoluteMoles: cfg.MaxSoluteMoles,
	}
	s.PrecipitateMoles = event.NewProperty(s.computePrecipitateMoles())

	s.Solute.Subscribe(func(u event.Update[*solute.Solute]) { s.derive(u.Restoring) })
	s.Volume.Subscribe(func(u event.Update[float64]) { s.derive(u.Restoring) })
	s.SoluteMoles.Subscribe(func(u event.Update[float64]) { s.derive(u.Restoring) })
	return s
}

func (s *Solution) derive(restoring bool) {
	v := s.computePrecipitateMoles()
	if restoring {
		s.PrecipitateMoles.Restore(v)
	} else {
		s.PrecipitateMoles.Set(v)
	}
}

func (s *Solution) computePrecipitateMoles() float64 {
	return math.Max(0, s.SoluteMoles.Value()-s.Volume.Value()*s.SaturatedConcentration())
}

func (s *Solution) MaxVolume() float64      { return s.maxVolume }
func (s *Solution) MaxSoluteMoles() float64 { return s.maxSoluteMoles }

func (s *Solution) SaturatedConcentration() float64 {
	return s.Solute.Value().SaturatedConcentration
}

// Concentration is the dissolved concentration in mol/L, capped at saturation.
func (s *Solution) Concentration() float64 {
	volume := s.Volume.Value()
	if volume <= 0 {
		return 0
	}
	return math.Min(s.SaturatedConcentration(), s.SoluteMoles.Value()/volume)
}

func (s *Solution) IsSaturated() bool {
	return s.PrecipitateMoles.Value() > 0
}

// PrecipitateParticleCount is the number of particles that should rest on
// the beaker floor. Any nonzero precipitate shows at least one particle.
func (s *Solution) PrecipitateParticleCount() int {
	precipitate := s.PrecipitateMoles.Value()
	n := int(math.Round(s.Solute.Value().ParticlesPerMole * precipitate))
	if n == 0 && precipitate > 0 {
		n = 1
	}
	return n
}

// AddSolute adds moles, capped at the maximum amount, and returns the
// amount actually added.
func (s *Solution) AddSolute(moles float64) float64 {
	before := s.SoluteMoles.Value()
	after := math.Min(s.maxSoluteMoles, before+moles)
	if after >= s.maxSoluteMoles && before < s.maxSoluteMoles {
		logrus.Warnf("solute amount reached maximum of %.2f mol", s.maxSoluteMoles)
	}
	s.SoluteMoles.Set(after)
	return after - before
}

// SetVolume clamps volume to [0, MaxVolume].
func (s *Solution) SetVolume(volume float64) {
	s.Volume.Set(math.Max(0, math.Min(volume, s.maxVolume)))
}

func (s *Solution) Reset() {
	s.Solute.Reset()
	s.Volume.Reset()
	s.SoluteMoles.Reset()
}


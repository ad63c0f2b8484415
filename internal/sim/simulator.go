package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/beerslab/internal/beaker"
	"github.com/san-kum/beerslab/internal/config"
	"github.com/san-kum/beerslab/internal/particles"
	"github.com/san-kum/beerslab/internal/rng"
	"github.com/san-kum/beerslab/internal/shaker"
	"github.com/san-kum/beerslab/internal/snapshot"
	"github.com/san-kum/beerslab/internal/solute"
	"github.com/san-kum/beerslab/internal/solution"
	"github.com/san-kum/beerslab/internal/vec"
)

// Simulator hosts a beaker, solution and shaker with both particle engines
// and drives them headlessly from a config schedule.
type Simulator struct {
	Beaker          *beaker.Beaker
	Solution        *solution.Solution
	Shaker          *shaker.Shaker
	ShakerParticles *particles.ShakerParticles
	Precipitate     *particles.PrecipitateParticles

	cfg       *config.Config
	solutes   *solute.Registry
	time      float64
	metrics   []Metric
	observers []Observer
}

func New(cfg *config.Config, solutes *solute.Registry) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := solutes.Get(cfg.Solute)
	if err != nil {
		return nil, err
	}

	b := beaker.New(
		vec.New(cfg.Beaker.X, cfg.Beaker.Y),
		beaker.Size{Width: cfg.Beaker.Width, Height: cfg.Beaker.Height},
		cfg.Beaker.Volume,
	)
	sol := solution.New(solution.Config{
		Solute:         s,
		Volume:         cfg.Solution.Volume,
		MaxVolume:      cfg.Solution.MaxVolume,
		SoluteMoles:    cfg.Solution.SoluteMoles,
		MaxSoluteMoles: cfg.Solution.MaxSoluteMoles,
	})
	sh := shaker.New(vec.New(cfg.Shaker.X, cfg.Shaker.Y), cfg.Shaker.Orientation, cfg.Shaker.MaxDispensingRate)
	r := rng.NewPartitioned(cfg.Seed)

	return &Simulator{
		Beaker:          b,
		Solution:        sol,
		Shaker:          sh,
		ShakerParticles: particles.NewShakerParticles(sol, b, sh, particles.DefaultShakerConfig(r.For(rng.SubsystemShaker))),
		Precipitate:     particles.NewPrecipitateParticles(sol, b, particles.PrecipitateConfig{Rand: r.For(rng.SubsystemPrecipitate)}),
		cfg:             cfg,
		solutes:         solutes,
		metrics:         make([]Metric, 0),
		observers:       make([]Observer, 0),
	}, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Time() float64 { return s.time }

// Step applies the schedule and evaporation for the current time, then
// advances the shaker particles by dt.
func (s *Simulator) Step(dt float64) {
	s.Shaker.SetDispensingRate(s.cfg.RateAt(s.time))
	if s.cfg.EvaporationRate > 0 {
		s.Solution.SetVolume(s.Solution.Volume.Value() - s.cfg.EvaporationRate*dt)
	}
	s.ShakerParticles.Step(dt)
	s.time += dt
}

func (s *Simulator) Sample() Sample {
	return Sample{
		Time:                 s.time,
		DispensingRate:       s.Shaker.DispensingRate.Value(),
		Volume:               s.Solution.Volume.Value(),
		SoluteMoles:          s.Solution.SoluteMoles.Value(),
		Concentration:        s.Solution.Concentration(),
		PrecipitateMoles:     s.Solution.PrecipitateMoles.Value(),
		ShakerParticles:      s.ShakerParticles.Pool().Len(),
		PrecipitateParticles: s.Precipitate.Pool().Len(),
		Dispensed:            s.ShakerParticles.Dispensed(),
		Dissolved:            s.ShakerParticles.Dissolved(),
	}
}

// Run steps from the current time until the configured duration has
// elapsed, recording a sample every RecordEvery steps and at the end.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	dt := s.cfg.Dt
	steps := int(math.Round((s.cfg.Duration - s.time) / dt))
	if steps < 0 {
		steps = 0
	}
	result := &Result{
		Samples: make([]Sample, 0, steps/s.cfg.RecordEvery+2),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	logrus.Debugf("run: solute=%s dt=%.4f from t=%.2f for %d steps", s.Solution.Solute.Value(), dt, s.time, steps)
	result.Samples = append(result.Samples, s.Sample())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s.Step(dt)
		result.Steps++

		sample := s.Sample()
		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, obs := range s.observers {
			obs.OnStep(sample)
		}
		if (i+1)%s.cfg.RecordEvery == 0 || i == steps-1 {
			result.Samples = append(result.Samples, sample)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	final := s.Sample()
	logrus.Debugf("run done: t=%.2f moles=%.4f dispensed=%d dissolved=%d precipitate=%d",
		final.Time, final.SoluteMoles, final.Dispensed, final.Dissolved, final.PrecipitateParticles)
	return result, nil
}

// Reset returns the lab to its configured initial state.
func (s *Simulator) Reset() {
	s.ShakerParticles.Reset()
	s.Shaker.Reset()
	s.Solution.Reset()
	s.time = 0
}

// Capture saves the current state under name.
func (s *Simulator) Capture(name string) *snapshot.State {
	return &snapshot.State{
		Name:           name,
		Time:           s.time,
		Solute:         s.Solution.Solute.Value().Name,
		Volume:         s.Solution.Volume.Value(),
		SoluteMoles:    s.Solution.SoluteMoles.Value(),
		DispensingRate: s.Shaker.DispensingRate.Value(),
		Shaker:         s.ShakerParticles.Pool().States(),
		Precipitate:    s.Precipitate.Pool().States(),
	}
}

// Restore puts the lab back into a captured state. Solution values are
// written as restoring updates so the engines keep their pools, which are
// then repopulated from the snapshot.
func (s *Simulator) Restore(st *snapshot.State) error {
	sol, err := s.solutes.Get(st.Solute)
	if err != nil {
		return fmt.Errorf("restore %s: %w", st.Name, err)
	}
	if st.Volume < 0 || st.Volume > s.Solution.MaxVolume() {
		return fmt.Errorf("restore %s: volume %.3f out of range", st.Name, st.Volume)
	}
	if st.SoluteMoles < 0 || st.SoluteMoles > s.Solution.MaxSoluteMoles() {
		return fmt.Errorf("restore %s: solute moles %.3f out of range", st.Name, st.SoluteMoles)
	}

	s.Solution.Solute.Restore(sol)
	s.Solution.Volume.Restore(st.Volume)
	s.Solution.SoluteMoles.Restore(st.SoluteMoles)
	s.Shaker.DispensingRate.Restore(st.DispensingRate)
	s.ShakerParticles.Restore(st.Shaker)
	s.Precipitate.Restore(st.Precipitate)
	s.time = st.Time

	logrus.Infof("restored snapshot %s at t=%.2f", st.Name, st.Time)
	return nil
}

package sim

import (
	"context"
	"sync"

	"github.com/san-kum/beerslab/internal/config"
	"github.com/san-kum/beerslab/internal/solute"
)

// Ensemble runs the same scenario under consecutive seeds in parallel.
// Each run gets its own Simulator and a fresh set of metrics from
// newMetrics, since metrics keep per-run state.
type Ensemble struct {
	cfg        *config.Config
	solutes    *solute.Registry
	numRuns    int
	seedStart  int64
	newMetrics func() []Metric
}

func NewEnsemble(cfg *config.Config, solutes *solute.Registry, numRuns int, seedStart int64, newMetrics func() []Metric) *Ensemble {
	return &Ensemble{cfg: cfg, solutes: solutes, numRuns: numRuns, seedStart: seedStart, newMetrics: newMetrics}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := *e.cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			s, err := New(&cfgCopy, e.solutes)
			if err != nil {
				errs[idx] = err
				return
			}
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

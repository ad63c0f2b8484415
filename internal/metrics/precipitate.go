package metrics

import (
	"math"

	"github.com/san-kum/beerslab/internal/sim"
)

type PeakPrecipitate struct {
	name string
	peak float64
}

func NewPeakPrecipitate() *PeakPrecipitate {
	return &PeakPrecipitate{name: "peak_precipitate_particles"}
}

func (p *PeakPrecipitate) Name() string { return p.name }

func (p *PeakPrecipitate) Observe(s sim.Sample) {
	p.peak = math.Max(p.peak, float64(s.PrecipitateParticles))
}

func (p *PeakPrecipitate) Value() float64 { return p.peak }

func (p *PeakPrecipitate) Reset() { p.peak = 0 }

// TimeToSaturation is the first observed time with precipitate, or -1.
type TimeToSaturation struct {
	name string
	at   float64
}

func NewTimeToSaturation() *TimeToSaturation {
	return &TimeToSaturation{name: "time_to_saturation", at: -1}
}

func (t *TimeToSaturation) Name() string { return t.name }

func (t *TimeToSaturation) Observe(s sim.Sample) {
	if t.at < 0 && s.PrecipitateMoles > 0 {
		t.at = s.Time
	}
}

func (t *TimeToSaturation) Value() float64 { return t.at }

func (t *TimeToSaturation) Reset() { t.at = -1 }

package metrics

import "github.com/san-kum/beerslab/internal/sim"

// DissolutionRate is the mean number of particles absorbed per second.
type DissolutionRate struct {
	name    string
	first   sim.Sample
	last    sim.Sample
	samples int
}

func NewDissolutionRate() *DissolutionRate {
	return &DissolutionRate{name: "dissolution_rate"}
}

func (d *DissolutionRate) Name() string { return d.name }

func (d *DissolutionRate) Observe(s sim.Sample) {
	if d.samples == 0 {
		d.first = s
	}
	d.last = s
	d.samples++
}

func (d *DissolutionRate) Value() float64 {
	elapsed := d.last.Time - d.first.Time
	if d.samples < 2 || elapsed <= 0 {
		return 0
	}
	return float64(d.last.Dissolved-d.first.Dissolved) / elapsed
}

func (d *DissolutionRate) Reset() {
	d.first = sim.Sample{}
	d.last = sim.Sample{}
	d.samples = 0
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/beerslab/internal/sim"
)

const namespace = "beerslab"

// Exporter mirrors simulator samples into Prometheus collectors. It is a
// sim.Observer; register it with AddObserver.
type Exporter struct {
	registry *prometheus.Registry

	shakerParticles      prometheus.Gauge
	precipitateParticles prometheus.Gauge
	soluteMoles          prometheus.Gauge
	concentration        prometheus.Gauge
	dispensed            prometheus.Counter
	dissolved            prometheus.Counter

	lastDispensed uint64
	lastDissolved uint64
}

func NewExporter(reg *prometheus.Registry, solute string) *Exporter {
	labels := prometheus.Labels{"solute": solute}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help, ConstLabels: labels})
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help, ConstLabels: labels})
	}

	e := &Exporter{
		registry:             reg,
		shakerParticles:      gauge("shaker_particles", "Particles falling from the shaker."),
		precipitateParticles: gauge("precipitate_particles", "Particles resting on the beaker floor."),
		soluteMoles:          gauge("solute_moles", "Total solute in the beaker, dissolved or not."),
		concentration:        gauge("concentration_molar", "Dissolved concentration in mol/L."),
		dispensed:            counter("particles_dispensed_total", "Particles created by the shaker."),
		dissolved:            counter("particles_dissolved_total", "Particles absorbed by the solution."),
	}
	reg.MustRegister(e.shakerParticles, e.precipitateParticles, e.soluteMoles, e.concentration, e.dispensed, e.dissolved)
	return e
}

func (e *Exporter) OnStep(s sim.Sample) {
	e.shakerParticles.Set(float64(s.ShakerParticles))
	e.precipitateParticles.Set(float64(s.PrecipitateParticles))
	e.soluteMoles.Set(s.SoluteMoles)
	e.concentration.Set(s.Concentration)

	if s.Dispensed > e.lastDispensed {
		e.dispensed.Add(float64(s.Dispensed - e.lastDispensed))
		e.lastDispensed = s.Dispensed
	}
	if s.Dissolved > e.lastDissolved {
		e.dissolved.Add(float64(s.Dissolved - e.lastDissolved))
		e.lastDissolved = s.Dissolved
	}
}

// WriteTextfile writes the registry in the text exposition format.
func (e *Exporter) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, e.registry)
}

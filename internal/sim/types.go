package sim

// Sample is the observable state of the lab after a step.
type Sample struct {
	Time                 float64
	DispensingRate       float64
	Volume               float64
	SoluteMoles          float64
	Concentration        float64
	PrecipitateMoles     float64
	ShakerParticles      int
	PrecipitateParticles int
	Dispensed            uint64
	Dissolved            uint64
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Result struct {
	Samples []Sample
	Steps   int
	Metrics map[string]float64
}

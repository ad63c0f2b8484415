package solute

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownSolute = errors.New("solute: unknown solute")

const (
	DefaultParticleSize     = 5.0
	DefaultParticlesPerMole = 200.0
)

// Solute holds the physical constants of a substance that can be shaken
// into the beaker. Values are shared by reference and must not be mutated.
type Solute struct {
	Name      string  `yaml:"name" json:"name"`
	Formula   string  `yaml:"formula" json:"formula"`
	MolarMass float64 `yaml:"molar_mass" json:"molar_mass"`

	// Concentrations in mol/L.
	SaturatedConcentration     float64 `yaml:"saturated_concentration" json:"saturated_concentration"`
	StockSolutionConcentration float64 `yaml:"stock_concentration" json:"stock_concentration"`

	// ParticleSize is the edge length of a square particle in view units.
	ParticleSize     float64 `yaml:"particle_size" json:"particle_size"`
	ParticlesPerMole float64 `yaml:"particles_per_mole" json:"particles_per_mole"`
	Color            string  `yaml:"color" json:"color"`
}

func (s *Solute) String() string { return s.Name }

// MolesPerParticle is the amount of solute one particle delivers when it dissolves.
func (s *Solute) MolesPerParticle() float64 { return 1 / s.ParticlesPerMole }

var (
	DrinkMix = &Solute{
		Name: "drinkMix", Formula: "drink mix", MolarMass: 342.296,
		SaturatedConcentration: 5.96, StockSolutionConcentration: 5.5,
		ParticleSize: DefaultParticleSize, ParticlesPerMole: DefaultParticlesPerMole, Color: "#ff0000",
	}
	CobaltIINitrate = &Solute{
		Name: "cobaltIINitrate", Formula: "Co(NO3)2", MolarMass: 182.942,
		SaturatedConcentration: 5.64, StockSolutionConcentration: 5.0,
		ParticleSize: DefaultParticleSize, ParticlesPerMole: DefaultParticlesPerMole, Color: "#ff0000",
	}
	CobaltChloride = &Solute{
		Name: "cobaltChloride", Formula: "CoCl2", MolarMass: 129.839,
		SaturatedConcentration: 4.35, StockSolutionConcentration: 4.0,
		ParticleSize: DefaultParticleSize, ParticlesPerMole: DefaultParticlesPerMole, Color: "#ff6a8d",
	}
	PotassiumDichromate = &Solute{
		Name: "potassiumDichromate", Formula: "K2Cr2O7", MolarMass: 294.185,
		SaturatedConcentration: 0.51, StockSolutionConcentration: 0.5,
		ParticleSize: DefaultParticleSize, ParticlesPerMole: 1000, Color: "#ff7f00",
	}
	PotassiumChromate = &Solute{
		Name: "potassiumChromate", Formula: "K2CrO4", MolarMass: 194.191,
		SaturatedConcentration: 3.35, StockSolutionConcentration: 3.0,
		ParticleSize: DefaultParticleSize, ParticlesPerMole: DefaultParticlesPerMole, Color: "#ffff00",
	}
	NickelIIChloride = &Solute{
		Name: "nickelIIChloride", Formula: "NiCl2", MolarMass: 129.599,
		SaturatedConcentration: 5.21, StockSolutionConcentration: 5.0,
		ParticleSize: DefaultParticleSize, ParticlesPerMole: DefaultParticlesPerMole, Color: "#008000",
	}
	CopperSulfate = &Solute{
		Name: "copperSulfate", Formula: "CuSO4", MolarMass: 159.609,
		SaturatedConcentration: 1.38, StockSolutionConcentration: 1.0,
		ParticleSize: DefaultParticleSize, ParticlesPerMole: DefaultParticlesPerMole, Color: "#1e90ff",
	}
	PotassiumPermanganate = &Solute{
		Name: "potassiumPermanganate", Formula: "KMnO4", MolarMass: 158.034,
		SaturatedConcentration: 0.48, StockSolutionConcentration: 0.4,
		ParticleSize: 4, ParticlesPerMole: 1000, Color: "#500050",
	}
)

// Registry maps solute names to their constants.
type Registry struct {
	solutes map[string]*Solute
	order   []string
}

func NewRegistry(solutes ...*Solute) *Registry {
	r := &Registry{solutes: make(map[string]*Solute, len(solutes))}
	for _, s := range solutes {
		r.Register(s)
	}
	return r
}

// DefaultRegistry returns the lab's solutes in menu order.
func DefaultRegistry() *Registry {
	return NewRegistry(
		DrinkMix,
		CobaltIINitrate,
		CobaltChloride,
		PotassiumDichromate,
		PotassiumChromate,
		NickelIIChloride,
		CopperSulfate,
		PotassiumPermanganate,
	)
}

func (r *Registry) Register(s *Solute) {
	if _, ok := r.solutes[s.Name]; !ok {
		r.order = append(r.order, s.Name)
	}
	r.solutes[s.Name] = s
}

func (r *Registry) Get(name string) (*Solute, error) {
	s, ok := r.solutes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownSolute, name, r.sortedNames())
	}
	return s, nil
}

// List returns solutes in registration order.
func (r *Registry) List() []*Solute {
	out := make([]*Solute, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.solutes[name])
	}
	return out
}

func (r *Registry) sortedNames() []string {
	names := make([]string, 0, len(r.solutes))
	for name := range r.solutes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

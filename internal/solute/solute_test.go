package solute

import (
	"errors"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	list := r.List()
	if len(list) != 8 {
		t.Fatalf("expected 8 solutes, got %d", len(list))
	}
	if list[0] != DrinkMix {
		t.Errorf("expected drink mix first, got %s", list[0])
	}

	for _, s := range list {
		if s.ParticleSize <= 0 {
			t.Errorf("%s: particle size should be positive", s.Name)
		}
		if s.ParticlesPerMole <= 0 {
			t.Errorf("%s: particles per mole should be positive", s.Name)
		}
		if s.SaturatedConcentration < s.StockSolutionConcentration {
			t.Errorf("%s: stock solution should not be supersaturated", s.Name)
		}
	}
}

func TestRegistryGet(t *testing.T) {
	r := DefaultRegistry()

	s, err := r.Get("copperSulfate")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if s != CopperSulfate {
		t.Errorf("expected copper sulfate, got %s", s)
	}

	_, err = r.Get("unobtainium")
	if !errors.Is(err, ErrUnknownSolute) {
		t.Errorf("expected ErrUnknownSolute, got %v", err)
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	custom := &Solute{Name: "drinkMix", ParticleSize: 10, ParticlesPerMole: 20}
	r := NewRegistry(DrinkMix, custom)

	if n := len(r.List()); n != 1 {
		t.Fatalf("expected 1 solute, got %d", n)
	}
	s, _ := r.Get("drinkMix")
	if s != custom {
		t.Error("expected later registration to win")
	}
}

func TestMolesPerParticle(t *testing.T) {
	s := &Solute{ParticlesPerMole: 20}
	if got := s.MolesPerParticle(); got != 0.05 {
		t.Errorf("expected 0.05, got %f", got)
	}
}

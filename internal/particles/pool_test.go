package particles

import (
	"testing"

	"github.com/san-kum/beerslab/internal/vec"
)

func fill(p *Pool, n int) {
	for i := 0; i < n; i++ {
		p.Add(newParticle(testSolute, vec.New(float64(i), 0), vec.Zero, vec.Zero, 0))
	}
}

func TestPoolAddAssignsCreationOrder(t *testing.T) {
	var p Pool
	fill(&p, 3)

	for i, pt := range p.All() {
		if pt.ID != uint64(i+1) {
			t.Errorf("index %d: expected id %d, got %d", i, i+1, pt.ID)
		}
	}
	if p.Last().ID != 3 {
		t.Errorf("expected last id 3, got %d", p.Last().ID)
	}
}

func TestPoolRemoveLast(t *testing.T) {
	var p Pool
	fill(&p, 5)

	var removed []uint64
	p.Removed.Subscribe(func(pt *Particle) { removed = append(removed, pt.ID) })

	p.RemoveLast(2)

	if p.Len() != 3 {
		t.Fatalf("expected 3 particles, got %d", p.Len())
	}
	if len(removed) != 2 || removed[0] != 5 || removed[1] != 4 {
		t.Errorf("expected removals [5 4], got %v", removed)
	}
}

func TestPoolRemoveLastInvalidPanics(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"zero", 0},
		{"negative", -1},
		{"too many", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Pool
			fill(&p, 3)
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			p.RemoveLast(tt.n)
		})
	}
}

func TestPoolRemoveAtKeepsOrder(t *testing.T) {
	var p Pool
	fill(&p, 4)

	got := p.RemoveAt(1)
	if got.ID != 2 {
		t.Errorf("expected to remove id 2, got %d", got.ID)
	}

	want := []uint64{1, 3, 4}
	for i, pt := range p.All() {
		if pt.ID != want[i] {
			t.Errorf("index %d: expected id %d, got %d", i, want[i], pt.ID)
		}
	}
}

func TestPoolClear(t *testing.T) {
	var p Pool
	p.Clear()
	if p.Len() != 0 || p.Last() != nil {
		t.Error("clearing an empty pool should be a no-op")
	}

	fill(&p, 3)
	p.Clear()
	if p.Len() != 0 {
		t.Errorf("expected empty pool, got %d", p.Len())
	}

	fill(&p, 1)
	if p.Last().ID != 4 {
		t.Errorf("ids should keep increasing after clear, got %d", p.Last().ID)
	}
}

func TestPoolStates(t *testing.T) {
	var p Pool
	p.Add(newParticle(testSolute, vec.New(1, 2), vec.New(3, 4), vec.New(5, 6), 0.5))

	states := p.States()
	want := State{X: 1, Y: 2, VX: 3, VY: 4, AX: 5, AY: 6, Orientation: 0.5}
	if len(states) != 1 || states[0] != want {
		t.Errorf("expected %+v, got %+v", want, states)
	}

	pt := states[0].particle(otherSolute)
	if pt.Solute() != otherSolute || pt.Position != vec.New(1, 2) {
		t.Errorf("state did not round trip: %+v", pt)
	}
}

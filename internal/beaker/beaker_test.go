package beaker

import (
	"testing"

	"github.com/san-kum/beerslab/internal/vec"
)

func TestWalls(t *testing.T) {
	b := New(vec.New(350, 550), Size{Width: 600, Height: 300}, 1)

	if b.Left() != 50 {
		t.Errorf("expected left 50, got %f", b.Left())
	}
	if b.Right() != 650 {
		t.Errorf("expected right 650, got %f", b.Right())
	}
}

func TestLevelY(t *testing.T) {
	b := NewDefault()

	tests := []struct {
		volume   float64
		expected float64
	}{
		{0, 550},
		{0.5, 400},
		{1, 250},
	}

	for _, tt := range tests {
		if got := b.LevelY(tt.volume); got != tt.expected {
			t.Errorf("LevelY(%v) = %v, want %v", tt.volume, got, tt.expected)
		}
	}
}

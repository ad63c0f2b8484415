package shaker

import (
	"testing"

	"github.com/san-kum/beerslab/internal/vec"
)

func TestSetDispensingRateClamps(t *testing.T) {
	s := NewDefault()

	tests := []struct {
		in, expected float64
	}{
		{0.1, 0.1},
		{-1, 0},
		{5, DefaultMaxDispensingRate},
	}

	for _, tt := range tests {
		s.SetDispensingRate(tt.in)
		if got := s.DispensingRate.Value(); got != tt.expected {
			t.Errorf("SetDispensingRate(%v): got %v, want %v", tt.in, got, tt.expected)
		}
	}
}

func TestReset(t *testing.T) {
	s := NewDefault()
	s.Position.Set(vec.New(1, 2))
	s.SetDispensingRate(0.1)

	s.Reset()

	if s.Position.Value() != vec.New(DefaultX, DefaultY) {
		t.Errorf("expected default position, got %v", s.Position.Value())
	}
	if s.DispensingRate.Value() != 0 {
		t.Errorf("expected zero rate, got %v", s.DispensingRate.Value())
	}
}

// Package snapshot persists saved lab state so a run can be resumed.
package snapshot

import (
	"errors"
	"time"

	"github.com/san-kum/beerslab/internal/particles"
)

var ErrNotFound = errors.New("snapshot: not found")

// State is everything needed to put a lab back where it was: solution
// amounts, the shaker rate, and both particle pools.
type State struct {
	Name           string            `json:"name"`
	SavedAt        time.Time         `json:"saved_at"`
	Time           float64           `json:"time"`
	Solute         string            `json:"solute"`
	Volume         float64           `json:"volume"`
	SoluteMoles    float64           `json:"solute_moles"`
	DispensingRate float64           `json:"dispensing_rate"`
	Shaker         []particles.State `json:"shaker_particles"`
	Precipitate    []particles.State `json:"precipitate_particles"`
}

// Summary describes a stored snapshot without its particles.
type Summary struct {
	Name        string
	SavedAt     time.Time
	Solute      string
	Shaker      int
	Precipitate int
}

package particles

import (
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/beerslab/internal/beaker"
	"github.com/san-kum/beerslab/internal/solute"
	"github.com/san-kum/beerslab/internal/solution"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

func TestParticles(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Particles Suite")
}

// testSolute saturates at 1 mol in the default 0.5 L of solution.
var testSolute = &solute.Solute{
	Name:                   "test",
	SaturatedConcentration: 2.0,
	ParticleSize:           10,
	ParticlesPerMole:       20,
}

var otherSolute = &solute.Solute{
	Name:                   "other",
	SaturatedConcentration: 1.0,
	ParticleSize:           4,
	ParticlesPerMole:       100,
}

func newTestSolution(moles float64) *solution.Solution {
	return solution.New(solution.Config{
		Solute:         testSolute,
		Volume:         0.5,
		MaxVolume:      1,
		SoluteMoles:    moles,
		MaxSoluteMoles: 5,
	})
}

// newTestBeaker has its left wall at x=50 and its floor at y=550.
func newTestBeaker() *beaker.Beaker {
	return beaker.NewDefault()
}

package particles

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/beerslab/internal/solution"
	"github.com/san-kum/beerslab/internal/vec"
)

var _ = Describe("PrecipitateParticles", func() {
	var (
		sol     *solution.Solution
		pp      *PrecipitateParticles
		added   []uint64
		removed []uint64
	)

	build := func(moles float64) {
		sol = newTestSolution(moles)
		pp = NewPrecipitateParticles(sol, newTestBeaker(), PrecipitateConfig{Rand: rand.New(rand.NewSource(3))})
		added, removed = nil, nil
		pp.Pool().Added.Subscribe(func(p *Particle) { added = append(added, p.ID) })
		pp.Pool().Removed.Subscribe(func(p *Particle) { removed = append(removed, p.ID) })
	}

	ids := func() []uint64 {
		var out []uint64
		for _, p := range pp.Pool().All() {
			out = append(out, p.ID)
		}
		return out
	}

	Context("on construction", func() {
		It("starts empty for an unsaturated solution", func() {
			build(0.5)
			Expect(pp.Pool().Len()).To(BeZero())
		})

		It("matches an already saturated solution", func() {
			build(1.6)
			Expect(pp.Pool().Len()).To(Equal(12))
		})
	})

	Context("when precipitate changes", func() {
		BeforeEach(func() { build(0) })

		It("matches the target after every change", func() {
			r := rand.New(rand.NewSource(11))
			for i := 0; i < 200; i++ {
				sol.SoluteMoles.Set(r.Float64() * 3)
				Expect(pp.Pool().Len()).To(Equal(sol.PrecipitateParticleCount()))
			}
		})

		It("removes the newest particles first", func() {
			sol.SoluteMoles.Set(1.6)
			Expect(ids()).To(Equal([]uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}))

			before := make(map[uint64]vec.Vec2)
			for _, p := range pp.Pool().All() {
				before[p.ID] = p.Position
			}

			sol.SoluteMoles.Set(1.45)

			Expect(removed).To(Equal([]uint64{12, 11, 10}))
			Expect(ids()).To(Equal([]uint64{1, 2, 3, 4, 5, 6, 7, 8, 9}))
			for _, p := range pp.Pool().All() {
				Expect(p.Position).To(Equal(before[p.ID]))
			}
		})

		It("does nothing when the count is unchanged", func() {
			sol.SoluteMoles.Set(1.6)
			added, removed = nil, nil

			sol.SoluteMoles.Set(1.601)

			Expect(added).To(BeEmpty())
			Expect(removed).To(BeEmpty())
		})

		It("shows one particle for any nonzero precipitate", func() {
			sol.SoluteMoles.Set(1.0001)
			Expect(pp.Pool().Len()).To(Equal(1))
		})

		It("places particles on the floor without motion", func() {
			sol.SoluteMoles.Set(3)
			b := newTestBeaker()
			size := testSolute.ParticleSize

			Expect(pp.Pool().Len()).To(Equal(40))
			for _, p := range pp.Pool().All() {
				Expect(p.Position.X).To(BeNumerically(">=", b.Left()+size))
				Expect(p.Position.X).To(BeNumerically("<", b.Right()-size))
				Expect(p.Position.Y).To(Equal(b.Position.Y - size))
				Expect(p.Velocity).To(Equal(vec.Zero))
				Expect(p.Acceleration).To(Equal(vec.Zero))
				Expect(p.Solute()).To(BeIdenticalTo(testSolute))
			}
		})

		It("dissolves precipitate when solvent is added", func() {
			sol.SoluteMoles.Set(1.6)
			sol.SetVolume(1)
			Expect(pp.Pool().Len()).To(BeZero())
		})
	})

	Context("when the solute changes", func() {
		BeforeEach(func() { build(1.6) })

		It("replaces every particle with the new solute", func() {
			sol.Solute.Set(otherSolute)

			// 1.6 mol - 0.5 L * 1 mol/L = 1.1 mol, 100 particles per mole
			Expect(pp.Pool().Len()).To(Equal(110))
			for _, p := range pp.Pool().All() {
				Expect(p.Solute()).To(BeIdenticalTo(otherSolute))
			}
			Expect(removed).To(ContainElements(uint64(1), uint64(12)))
		})

		It("never discards a particle created for the new solute", func() {
			fresh := make(map[*Particle]bool)
			discarded := 0
			unsubAdd := pp.Pool().Added.Subscribe(func(p *Particle) { fresh[p] = true })
			unsubRemove := pp.Pool().Removed.Subscribe(func(p *Particle) {
				if fresh[p] {
					discarded++
				}
			})
			defer unsubAdd()
			defer unsubRemove()

			sol.Solute.Set(otherSolute)

			Expect(discarded).To(BeZero())
			Expect(fresh).To(HaveLen(110))
			Expect(removed).To(HaveLen(12))
			Expect(removed[0]).To(Equal(uint64(12)))
		})

		It("flushes old particles before adding new ones", func() {
			var solutesSeen []string
			unsub := pp.Pool().Added.Subscribe(func(p *Particle) {
				for _, q := range pp.Pool().All() {
					solutesSeen = append(solutesSeen, q.Solute().Name)
				}
			})
			defer unsub()

			sol.Solute.Set(otherSolute)

			Expect(solutesSeen).NotTo(BeEmpty())
			Expect(solutesSeen).NotTo(ContainElement(testSolute.Name))
		})

		It("leaves particles alone while restoring", func() {
			sol.Solute.Restore(otherSolute)
			sol.SoluteMoles.Restore(2)

			Expect(pp.Pool().Len()).To(Equal(12))
			Expect(removed).To(BeEmpty())
		})
	})

	Context("Restore", func() {
		BeforeEach(func() { build(1.6) })

		It("keeps saved particles that match the solution", func() {
			saved := pp.Pool().States()

			build(0)
			sol.SoluteMoles.Restore(1.6)
			pp.Restore(saved)

			Expect(pp.Pool().States()).To(Equal(saved))
		})

		It("reconciles saved particles that disagree with the solution", func() {
			saved := pp.Pool().States()

			build(0)
			sol.SoluteMoles.Restore(1.45)
			pp.Restore(saved)

			Expect(pp.Pool().Len()).To(Equal(9))
			Expect(pp.Pool().States()).To(Equal(saved[:9]))
		})
	})
})

package rng

import (
	"hash/fnv"
	"math/rand"
)

const (
	SubsystemShaker      = "shaker"
	SubsystemPrecipitate = "precipitate"
)

// Partitioned hands out one deterministic *rand.Rand per subsystem, all
// derived from a single seed, so adding draws in one engine never shifts
// the sequence seen by another. Not safe for concurrent use.
type Partitioned struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

func NewPartitioned(seed int64) *Partitioned {
	return &Partitioned{seed: seed, subsystems: make(map[string]*rand.Rand)}
}

// For returns the cached source for name, creating it on first use.
func (p *Partitioned) For(name string) *rand.Rand {
	if r, ok := p.subsystems[name]; ok {
		return r
	}
	r := rand.New(rand.NewSource(p.seed ^ fnv1a64(name)))
	p.subsystems[name] = r
	return r
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

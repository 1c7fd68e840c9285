package scenario

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// Seed identifies a reproducible scenario run. Two runs of the same scenario
// with the same Seed produce identical decision streams.
type Seed int64

// SubsystemEvaluator returns the RNG subsystem name for one evaluator of one
// entity instance.
func SubsystemEvaluator(entityID string, index int) string {
	return fmt.Sprintf("evaluator/%s/%d", entityID, index)
}

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
// Each subsystem is seeded with seed XOR fnv1a64(subsystemName), so adding an
// entity or evaluator never shifts another one's sequence.
//
// Thread-safety: NOT thread-safe. Call ForSubsystem while building, then hand
// each *rand.Rand to a single goroutine.
type PartitionedRNG struct {
	seed       Seed
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from seed.
func NewPartitionedRNG(seed Seed) *PartitionedRNG {
	return &PartitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same name always returns the same *rand.Rand instance. Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.seed) ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// Seed returns the seed this PartitionedRNG was created with.
func (p *PartitionedRNG) Seed() Seed { return p.seed }

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

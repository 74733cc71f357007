package sim

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"runtime"
	"time"
)

// SimulationKey identifies the random stream of a run. Two runs with the
// same key and configuration draw the same delays; the interleaving of
// actors is still up to the Go scheduler.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

const (
	// SubsystemOfficial is the RNG subsystem for the Official's delays.
	SubsystemOfficial = "official"

	// SubsystemSpawner is the RNG subsystem for spacing Applicant arrivals.
	// Uses the master seed directly.
	SubsystemSpawner = "spawner"
)

// SubsystemApplicant returns the subsystem name for Applicant i.
func SubsystemApplicant(i int) string {
	return fmt.Sprintf("applicant_%d", i)
}

// PartitionedRNG hands out one independent, deterministically seeded
// *rand.Rand per subsystem, so every actor can own its generator.
//
// Derivation formula:
//   - SubsystemSpawner: masterSeed
//   - every other subsystem: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Draw all generators before starting actors.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the generator for the named subsystem, creating it
// on first use. The same name always returns the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key)
	if name != SubsystemSpawner {
		derivedSeed ^= fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// sampleDelay draws uniformly from [0, bound). A bound of zero disables the delay.
func sampleDelay(rng *rand.Rand, bound time.Duration) time.Duration {
	if bound <= 0 {
		return 0
	}
	return time.Duration(rng.Int63n(int64(bound)))
}

// sleep pauses for d, returning early with the context error if ctx is done.
// A zero pause still yields the processor.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		runtime.Gosched()
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

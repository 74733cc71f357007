// Package sim simulates a capacity-limited hall shared by many Applicants
// and a single Official.
//
// # Reading Guide
//
// Start with these files:
//   - hall.go: the shared state store, its counters and the Guard through
//     which every counter changes
//   - lock.go and signal.go: the admission lock and the condition waits that
//     replace polling on shared state
//   - applicant.go and official.go: the two actor state machines
//   - simulator.go: spawning the actors and waiting for quiescence
//
// # Synchronization
//
// Every counter change happens while the admission lock is held. Statuses
// and counters are atomics, so actors may read them without the lock; a
// waiting actor sleeps on a signal and re-evaluates its condition whenever
// the actor changing the relevant state broadcasts.
//
// The Official owns the hall door while it is in Enters, Reviewing or
// Finalizing: Applicants neither enter nor leave in that window. Before a
// review the Official waits, without the lock, for every occupant to
// check in.
//
// Events are numbered by a trace.Sequencer; see sim/trace.
package sim

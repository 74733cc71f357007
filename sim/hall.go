package sim

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/inference-sim/hall-sim/sim/trace"
)

// Hall is the shared state store: one status slot per Applicant, the
// Official's status, and the occupancy counters.
//
// Statuses and counters are atomics so actors can poll them without the
// admission lock. Counters (except totalSpawned) only change through a
// Guard, i.e. while the admission lock is held, so every group of counter
// updates is observed as a unit by anyone else holding the lock.
type Hall struct {
	lock *AdmissionLock
	log  *trace.Sequencer

	applicants []atomic.Int32
	official   atomic.Int32

	totalSpawned         atomic.Int64
	occupantsUnresolved  atomic.Int64
	registeredUnresolved atomic.Int64
	occupancy            atomic.Int64
	approvedTotal        atomic.Int64
	departedTotal        atomic.Int64
	enteredTotal         atomic.Int64

	officialChanged *signal // official status moves and approvals
	countersChanged *signal // registration counters move

	batchesMu sync.Mutex
	batches   []ReviewBatch
}

// ReviewBatch lists the Applicants approved in one Official review pass.
type ReviewBatch struct {
	Pass     int   `yaml:"pass"`
	Approved []int `yaml:"approved"`
}

// NewHall creates a hall for n Applicants writing events to log.
// Panics if n < 1 or log is nil.
func NewHall(n int, log *trace.Sequencer) *Hall {
	if n < 1 {
		panic("NewHall: applicant count must be >= 1")
	}
	if log == nil {
		panic("NewHall: nil sequencer")
	}
	return &Hall{
		lock:            NewAdmissionLock(),
		log:             log,
		applicants:      make([]atomic.Int32, n),
		officialChanged: newSignal(),
		countersChanged: newSignal(),
	}
}

// Size returns the number of Applicant slots.
func (h *Hall) Size() int { return len(h.applicants) }

// ApplicantStatus returns the current status of Applicant i.
func (h *Hall) ApplicantStatus(i int) ApplicantStatus {
	return ApplicantStatus(h.applicants[i].Load())
}

// OfficialStatus returns the current status of the Official.
func (h *Hall) OfficialStatus() OfficialStatus {
	return OfficialStatus(h.official.Load())
}

// Lock exposes the admission lock for inspection.
func (h *Hall) Lock() *AdmissionLock { return h.lock }

// Counters is a point-in-time copy of every hall counter.
type Counters struct {
	TotalSpawned         int64 `yaml:"total_spawned"`
	OccupantsUnresolved  int64 `yaml:"occupants_unresolved"`
	RegisteredUnresolved int64 `yaml:"registered_unresolved"`
	Occupancy            int64 `yaml:"occupancy"`
	ApprovedTotal        int64 `yaml:"approved_total"`
	DepartedTotal        int64 `yaml:"departed_total"`
	EnteredTotal         int64 `yaml:"entered_total"`
}

// Counters reads every counter without the lock. The copy is only
// guaranteed consistent when no actor is running.
func (h *Hall) Counters() Counters {
	return Counters{
		TotalSpawned:         h.totalSpawned.Load(),
		OccupantsUnresolved:  h.occupantsUnresolved.Load(),
		RegisteredUnresolved: h.registeredUnresolved.Load(),
		Occupancy:            h.occupancy.Load(),
		ApprovedTotal:        h.approvedTotal.Load(),
		DepartedTotal:        h.departedTotal.Load(),
		EnteredTotal:         h.enteredTotal.Load(),
	}
}

// Batches returns the review history.
func (h *Hall) Batches() []ReviewBatch {
	h.batchesMu.Lock()
	defer h.batchesMu.Unlock()
	out := make([]ReviewBatch, len(h.batches))
	copy(out, h.batches)
	return out
}

// Acquire takes the admission lock on behalf of holder.
func (h *Hall) Acquire(ctx context.Context, holder string) (*Guard, error) {
	if err := h.lock.acquire(ctx, holder); err != nil {
		return nil, err
	}
	return &Guard{hall: h, holder: holder}, nil
}

// registrationsSettled reports whether every occupant has checked in.
func (h *Hall) registrationsSettled() bool {
	return h.occupantsUnresolved.Load() == h.registeredUnresolved.Load()
}

// emit writes an event without counters.
func (h *Hall) emit(actor, action string) error {
	_, err := h.log.Emit(actor, action, nil)
	return err
}

// advance moves Applicant i from one status to the next. Anything else is
// a programming error.
func (h *Hall) advance(i int, from ApplicantStatus) {
	if !h.applicants[i].CompareAndSwap(int32(from), int32(from+1)) {
		panic(fmt.Sprintf("applicant %d: illegal transition %v -> %v (current %v)",
			i, from, from+1, h.ApplicantStatus(i)))
	}
}

func (h *Hall) setOfficial(s OfficialStatus) {
	h.official.Store(int32(s))
	h.officialChanged.broadcast()
}

// Guard is proof that the admission lock is held. Counter mutations are
// only reachable through it.
type Guard struct {
	hall     *Hall
	holder   string
	released bool
}

// Release frees the admission lock. Releasing twice returns ErrLockNotHeld.
func (g *Guard) Release() error {
	if g.released {
		return ErrLockNotHeld
	}
	g.released = true
	return g.hall.lock.release()
}

func (g *Guard) mustHold() {
	if g.released {
		panic(fmt.Sprintf("%s: use of released admission guard", g.holder))
	}
}

// stats snapshots the counters attached to events.
func (g *Guard) stats() *trace.Stats {
	g.mustHold()
	h := g.hall
	return &trace.Stats{
		Unresolved: h.occupantsUnresolved.Load(),
		Registered: h.registeredUnresolved.Load(),
		Occupancy:  h.occupancy.Load(),
	}
}

// emit writes an event with a counter snapshot taken under the lock.
func (g *Guard) emit(actor, action string) error {
	_, err := g.hall.log.Emit(actor, action, g.stats())
	return err
}

// enter admits Applicant i into the hall.
func (g *Guard) enter(i int) {
	g.mustHold()
	h := g.hall
	h.advance(i, ApplicantWantsToEnter)
	h.enteredTotal.Add(1)
	h.occupancy.Add(1)
	h.occupantsUnresolved.Add(1)
	h.countersChanged.broadcast()
}

// checkIn registers Applicant i, which must already be inside.
func (g *Guard) checkIn(i int) {
	g.mustHold()
	h := g.hall
	h.advance(i, ApplicantEnters)
	h.registeredUnresolved.Add(1)
	h.countersChanged.broadcast()
}

// approveChecked approves every Applicant currently in Checks and returns
// their indices in slot order.
func (g *Guard) approveChecked() []int {
	g.mustHold()
	h := g.hall
	var approved []int
	for i := range h.applicants {
		if h.ApplicantStatus(i) != ApplicantChecks {
			continue
		}
		h.advance(i, ApplicantChecks)
		h.occupantsUnresolved.Add(-1)
		h.registeredUnresolved.Add(-1)
		h.approvedTotal.Add(1)
		approved = append(approved, i)
	}
	if len(approved) > 0 {
		h.countersChanged.broadcast()
		h.officialChanged.broadcast()
	}
	return approved
}

// depart lets Applicant i out of the hall.
func (g *Guard) depart(i int) {
	g.mustHold()
	h := g.hall
	h.advance(i, ApplicantWantsToLeave)
	h.departedTotal.Add(1)
	h.occupancy.Add(-1)
}

func (h *Hall) recordBatch(pass int, approved []int) {
	h.batchesMu.Lock()
	defer h.batchesMu.Unlock()
	h.batches = append(h.batches, ReviewBatch{Pass: pass, Approved: approved})
}

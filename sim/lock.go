package sim

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrLockNotHeld is returned when releasing an admission lock nobody holds.
var ErrLockNotHeld = errors.New("admission lock not held")

// AdmissionLock is a binary lock serializing every state-changing
// transition in the hall. Waiters are served in no particular order.
// Unlike sync.Mutex, Acquire gives up when its context is done.
type AdmissionLock struct {
	slot    chan struct{}
	holders atomic.Int32
	peak    atomic.Int32
	holder  atomic.Pointer[string]
}

// NewAdmissionLock returns an unlocked AdmissionLock.
func NewAdmissionLock() *AdmissionLock {
	return &AdmissionLock{slot: make(chan struct{}, 1)}
}

// acquire blocks until the lock is free or ctx is done.
func (l *AdmissionLock) acquire(ctx context.Context, holder string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case l.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	n := l.holders.Add(1)
	for {
		peak := l.peak.Load()
		if n <= peak || l.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	l.holder.Store(&holder)
	return nil
}

func (l *AdmissionLock) release() error {
	l.holder.Store(nil)
	l.holders.Add(-1)
	select {
	case <-l.slot:
		return nil
	default:
		l.holders.Add(1)
		return ErrLockNotHeld
	}
}

// Holder returns the name of the current holder, or "" when free.
func (l *AdmissionLock) Holder() string {
	if h := l.holder.Load(); h != nil {
		return *h
	}
	return ""
}

// PeakHolders returns the largest holder count ever recorded. The count is
// taken after the slot is won, so it is a diagnostic of the bookkeeping
// only and is 1 for any run that acquired the lock.
func (l *AdmissionLock) PeakHolders() int {
	return int(l.peak.Load())
}

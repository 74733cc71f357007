package sim

import (
	"context"
	"sync"
)

// signal lets actors sleep until a predicate over hall state holds.
// Writers change the state first (atomics or under the admission lock),
// then call broadcast; waiters re-evaluate the predicate on every wake-up.
type signal struct {
	mu   sync.Mutex
	cond *sync.Cond
}

func newSignal() *signal {
	s := &signal{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *signal) broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cond.Broadcast()
}

// await suspends the caller until ready returns true or ctx is done.
// ready must only read state that is safe to read without the admission lock.
func (s *signal) await(ctx context.Context, ready func() bool) error {
	stop := context.AfterFunc(ctx, s.broadcast)
	defer stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	for !ready() {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.cond.Wait()
	}
	return nil
}

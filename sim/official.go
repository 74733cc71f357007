package sim

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// OfficialName is the actor name of the Official in events.
const OfficialName = "OFFICIAL"

// Official repeatedly visits the hall and approves every registered
// Applicant in one batch, until all Applicants have been approved.
type Official struct {
	hall     *Hall
	required int64
	wait     time.Duration // bound of the pause before entering and before leaving
	decision time.Duration // bound of the pause before a review
	rng      *rand.Rand
}

// NewOfficial creates the Official for hall. It finishes once every
// Applicant slot has been approved.
func NewOfficial(hall *Hall, wait, decision time.Duration, rng *rand.Rand) *Official {
	return &Official{
		hall:     hall,
		required: int64(hall.Size()),
		wait:     wait,
		decision: decision,
		rng:      rng,
	}
}

// Run visits the hall until every Applicant is approved, then finishes.
func (o *Official) Run(ctx context.Context) error {
	for pass := 1; o.hall.approvedTotal.Load() < o.required; pass++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.visit(ctx, pass); err != nil {
			return err
		}
	}
	return o.finish()
}

// visit is one enter → review → leave cycle.
func (o *Official) visit(ctx context.Context, pass int) error {
	h := o.hall
	if err := sleep(ctx, sampleDelay(o.rng, o.wait)); err != nil {
		return err
	}
	if err := o.transition(OfficialWantsToEnter, "wants to enter"); err != nil {
		return err
	}

	g, err := h.Acquire(ctx, OfficialName)
	if err != nil {
		return err
	}
	h.setOfficial(OfficialEnters)
	logrus.Debugf("%s: enters (pass %d)", OfficialName, pass)
	if err := g.emit(OfficialName, "enters"); err != nil {
		o.release(g)
		return err
	}

	g, err = o.awaitRegistrations(ctx, g)
	if err != nil {
		if g != nil {
			o.release(g)
		}
		return err
	}

	approved, err := o.review(ctx, g, pass)
	o.release(g)
	if err != nil {
		return err
	}
	logrus.Debugf("%s: approved %v (pass %d)", OfficialName, approved, pass)

	if err := sleep(ctx, sampleDelay(o.rng, o.wait)); err != nil {
		return err
	}
	return o.transition(OfficialLeaves, "leaves")
}

// awaitRegistrations holds the Official at the door of the review until
// every occupant has checked in. The lock is given up while waiting so the
// occupants can register; the Official stays in Enters, which keeps new
// Applicants out. Returns the guard to use from now on, or nil on error
// when the lock is not held.
func (o *Official) awaitRegistrations(ctx context.Context, g *Guard) (*Guard, error) {
	h := o.hall
	if h.registrationsSettled() {
		return g, nil
	}
	logrus.Debugf("%s: waits for applicants", OfficialName)
	if err := g.emit(OfficialName, "waits for applicants"); err != nil {
		return g, err
	}
	for !h.registrationsSettled() {
		o.release(g)
		if err := h.countersChanged.await(ctx, h.registrationsSettled); err != nil {
			return nil, err
		}
		var err error
		if g, err = h.Acquire(ctx, OfficialName); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// review approves every checked-in Applicant in one batch. The lock stays
// held for the whole review.
func (o *Official) review(ctx context.Context, g *Guard, pass int) ([]int, error) {
	h := o.hall
	if err := sleep(ctx, sampleDelay(o.rng, o.decision)); err != nil {
		return nil, err
	}
	h.setOfficial(OfficialReviewing)
	if err := g.emit(OfficialName, "starts confirmation"); err != nil {
		return nil, err
	}

	approved := g.approveChecked()
	if len(approved) > 0 {
		h.recordBatch(pass, approved)
	}

	if err := g.emit(OfficialName, "ends confirmation"); err != nil {
		return approved, err
	}
	h.setOfficial(OfficialFinalizing)
	return approved, nil
}

func (o *Official) finish() error {
	logrus.Debugf("%s: finishes", OfficialName)
	return o.transition(OfficialFinished, "finishes")
}

// transition writes the event before publishing the new status, so that
// nobody woken by the status change can log ahead of it.
func (o *Official) transition(to OfficialStatus, action string) error {
	if err := o.hall.emit(OfficialName, action); err != nil {
		return err
	}
	o.hall.setOfficial(to)
	return nil
}

func (o *Official) release(g *Guard) {
	if err := g.Release(); err != nil {
		logrus.Warnf("%s: releasing admission lock: %v", OfficialName, err)
	}
}

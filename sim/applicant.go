package sim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// Applicant walks one visitor through the hall: enter and register, wait
// for approval, collect a certificate, leave.
type Applicant struct {
	id          int
	name        string
	hall        *Hall
	certificate time.Duration // upper bound of the retrieval delay
	rng         *rand.Rand
}

// NewApplicant creates the Applicant owning slot id of hall.
func NewApplicant(id int, hall *Hall, certificate time.Duration, rng *rand.Rand) *Applicant {
	return &Applicant{
		id:          id,
		name:        fmt.Sprintf("APP %d", id+1),
		hall:        hall,
		certificate: certificate,
		rng:         rng,
	}
}

// Name returns the actor name used in events.
func (a *Applicant) Name() string { return a.name }

// Run executes the full lifecycle. It only returns early when an event
// cannot be written or ctx is canceled.
func (a *Applicant) Run(ctx context.Context) error {
	if err := a.start(); err != nil {
		return err
	}
	if err := a.register(ctx); err != nil {
		return err
	}
	if err := a.awaitApproval(ctx); err != nil {
		return err
	}
	if err := a.collectCertificate(ctx); err != nil {
		return err
	}
	return a.leave(ctx)
}

func (a *Applicant) start() error {
	a.hall.advance(a.id, ApplicantNonExistent)
	a.hall.totalSpawned.Add(1)
	logrus.Debugf("%s: starts", a.name)
	return a.hall.emit(a.name, "starts")
}

// register enters the hall and checks in within one lock hold.
func (a *Applicant) register(ctx context.Context) error {
	g, err := a.enterHall(ctx)
	if err != nil {
		return err
	}
	defer a.release(g)
	return a.checkIn(g)
}

// enterHall passes the door and returns with the admission lock still held.
func (a *Applicant) enterHall(ctx context.Context) (*Guard, error) {
	g, err := a.hall.acquireDoor(ctx, a.name)
	if err != nil {
		return nil, err
	}
	g.enter(a.id)
	logrus.Debugf("%s: enters", a.name)
	if err := g.emit(a.name, "enters"); err != nil {
		a.release(g)
		return nil, err
	}
	return g, nil
}

func (a *Applicant) checkIn(g *Guard) error {
	g.checkIn(a.id)
	logrus.Debugf("%s: checks", a.name)
	return g.emit(a.name, "checks")
}

// awaitApproval blocks until this Applicant is approved and the review
// pass that approved it has ended.
func (a *Applicant) awaitApproval(ctx context.Context) error {
	h := a.hall
	return h.officialChanged.await(ctx, func() bool {
		return h.ApplicantStatus(a.id) == ApplicantApproved && h.OfficialStatus() != OfficialReviewing
	})
}

func (a *Applicant) collectCertificate(ctx context.Context) error {
	a.hall.advance(a.id, ApplicantApproved)
	if err := a.hall.emit(a.name, "wants certificate"); err != nil {
		return err
	}

	g, err := a.hall.Acquire(ctx, a.name)
	if err != nil {
		return err
	}
	defer a.release(g)
	if err := sleep(ctx, sampleDelay(a.rng, a.certificate)); err != nil {
		return err
	}
	a.hall.advance(a.id, ApplicantWantsCertificate)
	logrus.Debugf("%s: got certificate", a.name)
	return g.emit(a.name, "got certificate")
}

func (a *Applicant) leave(ctx context.Context) error {
	a.hall.advance(a.id, ApplicantGotCertificate)
	if err := a.hall.emit(a.name, "wants to leave"); err != nil {
		return err
	}

	g, err := a.hall.acquireDoor(ctx, a.name)
	if err != nil {
		return err
	}
	defer a.release(g)
	g.depart(a.id)
	logrus.Debugf("%s: leaves", a.name)
	return g.emit(a.name, "leaves")
}

// release frees the lock; a failure is reported and otherwise ignored.
func (a *Applicant) release(g *Guard) {
	if err := g.Release(); err != nil {
		logrus.Warnf("%s: releasing admission lock: %v", a.name, err)
	}
}

// acquireDoor waits until the Official is out of the hall and takes the
// admission lock. The condition is re-checked under the lock because the
// Official may have entered between the wake-up and the acquire.
func (h *Hall) acquireDoor(ctx context.Context, holder string) (*Guard, error) {
	open := func() bool { return !h.OfficialStatus().InHall() }
	for {
		if err := h.officialChanged.await(ctx, open); err != nil {
			return nil, err
		}
		g, err := h.Acquire(ctx, holder)
		if err != nil {
			return nil, err
		}
		if open() {
			return g, nil
		}
		if err := g.Release(); err != nil {
			logrus.Warnf("%s: releasing admission lock: %v", holder, err)
		}
	}
}

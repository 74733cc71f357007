package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/hall-sim/sim/trace"
)

// Simulator owns one hall and runs one Official and ApplicantCount
// Applicants against it until the hall is quiescent.
type Simulator struct {
	config Config
	hall   *Hall
	log    *trace.Sequencer
	rng    *PartitionedRNG
	hasRun bool
}

// NewSimulator validates config and builds the hall. Events go to log.
func NewSimulator(config Config, log *trace.Sequencer) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		return nil, fmt.Errorf("%w: nil event sequencer", ErrInvalidConfig)
	}
	if config.RunID == "" {
		config.RunID = uuid.New().String()
	}
	return &Simulator{
		config: config,
		hall:   NewHall(config.ApplicantCount, log),
		log:    log,
		rng:    NewPartitionedRNG(NewSimulationKey(config.Seed)),
	}, nil
}

// Hall returns the shared state store of this run.
func (s *Simulator) Hall() *Hall { return s.hall }

// RunID returns the identifier stamped on this run.
func (s *Simulator) RunID() string { return s.config.RunID }

// Run starts every actor and blocks until the Official has finished and
// the hall is empty. The first actor error cancels the rest and is
// returned. Panics if called more than once.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if s.hasRun {
		panic("Simulator.Run() called more than once")
	}
	s.hasRun = true

	cfg := s.config
	official := NewOfficial(s.hall, cfg.OfficialWait, cfg.Decision, s.rng.ForSubsystem(SubsystemOfficial))
	applicants := make([]*Applicant, cfg.ApplicantCount)
	for i := range applicants {
		applicants[i] = NewApplicant(i, s.hall, cfg.CertificateRetrieval, s.rng.ForSubsystem(SubsystemApplicant(i)))
	}
	spawnRNG := s.rng.ForSubsystem(SubsystemSpawner)

	logrus.Infof("Starting run %s with %d applicants, spawn<%v, official wait<%v, certificate<%v, decision<%v",
		cfg.RunID, cfg.ApplicantCount, cfg.SpawnInterval, cfg.OfficialWait, cfg.CertificateRetrieval, cfg.Decision)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return official.Run(gctx) })
	g.Go(func() error {
		for i, a := range applicants {
			g.Go(func() error { return a.Run(gctx) })
			if i == len(applicants)-1 {
				break
			}
			if err := sleep(gctx, sampleDelay(spawnRNG, cfg.SpawnInterval)); err != nil {
				return err
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run %s: %w", cfg.RunID, err)
	}

	if st, occ := s.hall.OfficialStatus(), s.hall.occupancy.Load(); st != OfficialFinished || occ != 0 {
		return nil, fmt.Errorf("run %s: not quiescent: official %v, occupancy %d", cfg.RunID, st, occ)
	}
	result := s.result(time.Since(start))
	logrus.Infof("Run %s complete: %d approved, %d departed, %d events in %v",
		cfg.RunID, result.Counters.ApprovedTotal, result.Counters.DepartedTotal, result.Events, result.WallTime)
	return result, nil
}

func (s *Simulator) result(elapsed time.Duration) *Result {
	statuses := make([]string, s.hall.Size())
	for i := range statuses {
		statuses[i] = s.hall.ApplicantStatus(i).String()
	}
	return &Result{
		RunID:           s.config.RunID,
		Counters:        s.hall.Counters(),
		Official:        s.hall.OfficialStatus().String(),
		Applicants:      statuses,
		Batches:         s.hall.Batches(),
		Events:          s.log.Count(),
		PeakLockHolders: s.hall.lock.PeakHolders(),
		WallTime:        elapsed,
	}
}

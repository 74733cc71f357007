package sim

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/hall-sim/sim/internal/testutil"
	"github.com/inference-sim/hall-sim/sim/trace"
)

// runSim runs a full simulation with a recorder attached and a safety timeout.
func runSim(t *testing.T, cfg Config) (*Result, []trace.Record) {
	t.Helper()
	rec := trace.NewRecorder()
	s, err := NewSimulator(cfg, trace.NewSequencer(rec))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	result, err := s.Run(ctx)
	require.NoError(t, err)
	return result, rec.Records()
}

func TestSimulator_SingleApplicantNoDelays(t *testing.T) {
	// GIVEN one Applicant and no delays
	result, records := runSim(t, Config{ApplicantCount: 1})

	// THEN the Applicant left, the Official finished and the hall is empty
	assert.Equal(t, "left", result.Applicants[0])
	assert.Equal(t, "finished", result.Official)
	assert.Equal(t, int64(0), result.Counters.Occupancy)
	assert.Equal(t, int64(1), result.Counters.ApprovedTotal)
	assert.Equal(t, int64(1), result.Counters.DepartedTotal)
	assert.Equal(t, uint64(len(records)), result.Events)
	testutil.CheckEventLog(t, records, 1)
}

func TestSimulator_FiveApplicantsNoDelays(t *testing.T) {
	// GIVEN five Applicants and no delays
	result, records := runSim(t, Config{ApplicantCount: 5})

	// THEN everybody was approved and left
	assert.Equal(t, int64(5), result.Counters.ApprovedTotal)
	assert.Equal(t, int64(5), result.Counters.DepartedTotal)
	assert.Equal(t, int64(5), result.Counters.TotalSpawned)
	for i, st := range result.Applicants {
		assert.Equal(t, "left", st, "applicant %d", i)
	}
	testutil.CheckEventLog(t, records, 5)
}

func TestSimulator_RandomDelays_PreservesInvariants(t *testing.T) {
	// GIVEN short random delays across several seeds
	for seed := int64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			cfg := Config{
				ApplicantCount:       12,
				SpawnInterval:        2 * time.Millisecond,
				OfficialWait:         3 * time.Millisecond,
				CertificateRetrieval: time.Millisecond,
				Decision:             2 * time.Millisecond,
				Seed:                 seed,
			}

			// WHEN the run completes
			result, records := runSim(t, cfg)

			// THEN every recorded interleaving satisfies the hall rules
			testutil.CheckEventLog(t, records, cfg.ApplicantCount)
			assert.Equal(t, uint64(len(records)), result.Events)
			assert.Equal(t, result.Counters.EnteredTotal-result.Counters.DepartedTotal, result.Counters.Occupancy)

			// AND approvals only grew, batch by batch, to the applicant count
			approved := 0
			lastPass := 0
			seen := make(map[int]bool)
			for _, b := range result.Batches {
				assert.Greater(t, b.Pass, lastPass)
				lastPass = b.Pass
				for _, id := range b.Approved {
					assert.False(t, seen[id], "applicant %d approved twice", id)
					seen[id] = true
				}
				approved += len(b.Approved)
			}
			assert.Equal(t, cfg.ApplicantCount, approved)
			assert.Equal(t, int64(approved), result.Counters.ApprovedTotal)
		})
	}
}

func TestNewSimulator_InvalidConfig(t *testing.T) {
	_, err := NewSimulator(Config{ApplicantCount: 0}, trace.NewSequencer())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewSimulator(Config{ApplicantCount: 1}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewSimulator_GeneratesRunID(t *testing.T) {
	s, err := NewSimulator(Config{ApplicantCount: 1}, trace.NewSequencer())
	require.NoError(t, err)
	assert.Len(t, s.RunID(), 36)

	s, err = NewSimulator(Config{ApplicantCount: 1, RunID: "fixed"}, trace.NewSequencer())
	require.NoError(t, err)
	assert.Equal(t, "fixed", s.RunID())
}

func TestSimulator_RunTwice_Panics(t *testing.T) {
	s, err := NewSimulator(Config{ApplicantCount: 1}, trace.NewSequencer())
	require.NoError(t, err)
	_, err = s.Run(context.Background())
	require.NoError(t, err)

	assert.Panics(t, func() { _, _ = s.Run(context.Background()) })
}

type brokenSink struct{ after int }

func (b *brokenSink) Write(trace.Record) error {
	if b.after == 0 {
		return errors.New("sink unavailable")
	}
	b.after--
	return nil
}

func TestSimulator_SinkFailure_AbortsRun(t *testing.T) {
	// GIVEN a sink that fails after a handful of events
	s, err := NewSimulator(Config{ApplicantCount: 4, OfficialWait: time.Millisecond}, trace.NewSequencer(&brokenSink{after: 5}))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// WHEN the run hits the failure
	_, err = s.Run(ctx)

	// THEN every actor stops and the sink error surfaces
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink unavailable")
	assert.NoError(t, ctx.Err(), "run should abort promptly, not time out")
}

func TestResult_WriteYAML(t *testing.T) {
	result, _ := runSim(t, Config{ApplicantCount: 2, RunID: "run-1"})

	var buf bytes.Buffer
	require.NoError(t, result.WriteYAML(&buf))

	out := buf.String()
	assert.Contains(t, out, "# Hall Simulation Result")
	assert.Contains(t, out, "run_id: run-1")
	assert.Contains(t, out, "approved_total: 2")
	assert.Contains(t, out, "official: finished")
}

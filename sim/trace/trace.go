package trace

import (
	"fmt"
	"sync"
)

// Sink receives finished records. Write must not return before the record
// is durable; the Sequencer calls it with its own mutex held, so
// implementations never see concurrent writes from the same Sequencer.
type Sink interface {
	Write(record Record) error
}

// Sequencer assigns a strictly increasing sequence number to every event
// and hands the finished record to each sink, in order.
//
// Thread-safety: safe for concurrent use by any number of actors.
type Sequencer struct {
	mu    sync.Mutex
	last  uint64
	sinks []Sink
}

// NewSequencer creates a Sequencer writing to the given sinks.
func NewSequencer(sinks ...Sink) *Sequencer {
	return &Sequencer{sinks: sinks}
}

// Emit numbers and writes one event. stats may be nil.
// Sequence numbers start at 1 and have no gaps, including when a sink
// fails: the number is consumed and the error is returned to the caller.
func (s *Sequencer) Emit(actor, action string, stats *Stats) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last++
	record := Record{Seq: s.last, Actor: actor, Action: action}
	if stats != nil {
		snapshot := *stats
		record.Stats = &snapshot
	}
	for _, sink := range s.sinks {
		if err := sink.Write(record); err != nil {
			return record.Seq, fmt.Errorf("writing event %d: %w", record.Seq, err)
		}
	}
	return record.Seq, nil
}

// Count returns the number of events emitted so far.
func (s *Sequencer) Count() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Recorder is an in-memory Sink that keeps every record in emission order.
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{records: make([]Record, 0)}
}

// Write appends a record.
func (r *Recorder) Write(record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

// Records returns a copy of everything recorded so far.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

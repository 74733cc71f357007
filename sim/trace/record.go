// Package trace provides the event log for a hall simulation: the sequencer
// that totally orders events across actors, and the sinks that persist them.
// This package has no dependencies on sim/.
package trace

import "fmt"

// Stats is the counter snapshot attached to an event.
type Stats struct {
	Unresolved int64 // occupants inside the hall with no decision yet
	Registered int64 // checked-in occupants with no decision yet
	Occupancy  int64 // occupants currently inside the hall
}

// Record captures a single emitted event.
type Record struct {
	Seq    uint64
	Actor  string
	Action string
	Stats  *Stats // nil when the event carries no counters
}

// String renders the record as a log line, without the trailing newline.
func (r Record) String() string {
	if r.Stats == nil {
		return fmt.Sprintf("%d : %s : %s", r.Seq, r.Actor, r.Action)
	}
	return fmt.Sprintf("%d : %s : %s : %d : %d : %d",
		r.Seq, r.Actor, r.Action, r.Stats.Unresolved, r.Stats.Registered, r.Stats.Occupancy)
}
